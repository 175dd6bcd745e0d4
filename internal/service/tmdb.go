package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/user/cinelog/internal/config"
	"github.com/user/cinelog/internal/repository"
	"github.com/user/cinelog/internal/utils"
	"golang.org/x/sync/singleflight"
)

// detailTTL 电影/剧集详情在关系库缓存中的有效期
const detailTTL = 24 * time.Hour

// ProxyResponse 上游响应（原样转发给客户端）
type ProxyResponse struct {
	Status      int
	ContentType string
	Body        []byte
}

// TMDBService TMDB 代理服务：注入服务端密钥，转发请求并缓存响应
type TMDBService struct {
	cacheRepo repository.MovieCacheStore
	config    *config.Config
	client    *http.Client
	group     singleflight.Group
	respCache *utils.TTLCache[ProxyResponse]
}

func NewTMDBService(repo repository.MovieCacheStore, cfg *config.Config) *TMDBService {
	return &TMDBService{
		cacheRepo: repo,
		config:    cfg,
		client:    &http.Client{Timeout: 10 * time.Second},
		respCache: utils.NewTTLCache[ProxyResponse](1000, 10*time.Minute),
	}
}

// Proxy 转发一次 TMDB 请求。命中进程内缓存或未过期的详情缓存时不打上游；
// 上游非 2xx 响应原样返回给调用方。
func (s *TMDBService) Proxy(ctx context.Context, path string, query url.Values) (*ProxyResponse, error) {
	path = strings.Trim(path, "/")
	cacheKey := path + "?" + query.Encode()

	if resp, found := s.respCache.Get(cacheKey); found {
		return &resp, nil
	}

	// 电影/剧集详情优先走关系库缓存
	if tmdbID, ok := detailID(path); ok && len(query) == 0 {
		entry, err := s.cacheRepo.Get(tmdbID)
		if err == nil && entry != nil && time.Since(entry.LastUpdated) < detailTTL {
			return &ProxyResponse{
				Status:      http.StatusOK,
				ContentType: "application/json",
				Body:        entry.Data,
			}, nil
		}
	}

	// singleflight 合并并发的相同请求
	val, err, _ := s.group.Do(cacheKey, func() (interface{}, error) {
		return s.fetch(ctx, path, query)
	})
	if err != nil {
		return nil, err
	}
	resp := val.(*ProxyResponse)

	if resp.Status == http.StatusOK {
		s.respCache.Set(cacheKey, *resp)

		// 详情响应顺带写入关系库缓存
		if tmdbID, ok := detailID(path); ok {
			if err := s.cacheRepo.Upsert(tmdbID, resp.Body); err != nil {
				log.Printf("[TMDB] 写入元数据缓存失败 (ID %d): %v", tmdbID, err)
			}
		}
	}

	return resp, nil
}

func (s *TMDBService) fetch(ctx context.Context, path string, query url.Values) (*ProxyResponse, error) {
	params := url.Values{}
	for k, vs := range query {
		for _, v := range vs {
			params.Add(k, v)
		}
	}
	params.Set("api_key", s.config.TMDBAPIKey)

	upstreamURL := fmt.Sprintf("%s/%s?%s", s.config.TMDBBaseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, upstreamURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}

	return &ProxyResponse{
		Status:      resp.StatusCode,
		ContentType: contentType,
		Body:        body,
	}, nil
}

// detailID 识别 movie/{id} 或 tv/{id} 形式的详情路径
func detailID(path string) (int, bool) {
	parts := strings.Split(path, "/")
	if len(parts) != 2 {
		return 0, false
	}
	if parts[0] != "movie" && parts[0] != "tv" {
		return 0, false
	}
	id, err := strconv.Atoi(parts[1])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// TrendingMovie 热门电影条目（TMDB trending 结果）
type TrendingMovie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path"`
	GenreIDs    []int   `json:"genre_ids"`
	VoteAverage float64 `json:"vote_average"`
	Popularity  float64 `json:"popularity"`
}

// Trending 获取本周热门电影
func (s *TMDBService) Trending(ctx context.Context) ([]TrendingMovie, error) {
	resp, err := s.Proxy(ctx, "trending/movie/week", url.Values{})
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusOK {
		return nil, fmt.Errorf("tmdb trending returned status %d", resp.Status)
	}

	var result struct {
		Results []TrendingMovie `json:"results"`
	}
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// FavoriteGenres 汇总喜爱电影的类型 ID 集合（只读缓存中已有的元数据）
func (s *TMDBService) FavoriteGenres(movieIDs []int) map[int]bool {
	genres := make(map[int]bool)
	for _, movieID := range movieIDs {
		entry, err := s.cacheRepo.Get(movieID)
		if err != nil || entry == nil {
			continue
		}

		// 详情响应带 genres 对象数组，列表响应带 genre_ids
		var detail struct {
			Genres []struct {
				ID int `json:"id"`
			} `json:"genres"`
			GenreIDs []int `json:"genre_ids"`
		}
		if json.Unmarshal(entry.Data, &detail) != nil {
			continue
		}
		for _, g := range detail.Genres {
			genres[g.ID] = true
		}
		for _, id := range detail.GenreIDs {
			genres[id] = true
		}
	}
	return genres
}
