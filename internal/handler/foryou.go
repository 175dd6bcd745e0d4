package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/middleware"
	"github.com/user/cinelog/internal/service"
	"github.com/user/cinelog/internal/utils"
)

// ForYou 个性化推荐：按喜爱电影的类型重合度对本周热门排序
// GET /api/foryou
func (h *Handler) ForYou(c *gin.Context) {
	userID := middleware.GetUserID(c)

	// 1小时内同一用户直接走缓存
	cacheKey := fmt.Sprintf("foryou:%d", userID)
	if cached, found := utils.CacheGet(cacheKey); found {
		if movies, ok := cached.([]service.TrendingMovie); ok {
			c.JSON(http.StatusOK, movies)
			return
		}
	}

	favorites, err := h.Repos.Favorite.ListByUser(userID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	movieIDs := make([]int, 0, len(favorites))
	for _, f := range favorites {
		movieIDs = append(movieIDs, f.MovieID)
	}
	favoriteGenres := h.TMDB.FavoriteGenres(movieIDs)

	trending, err := h.TMDB.Trending(c.Request.Context())
	if err != nil {
		utils.Error(c, http.StatusBadGateway, "Failed to reach TMDB")
		return
	}

	ranked := service.RankByGenreOverlap(trending, favoriteGenres)
	utils.CacheSet(cacheKey, ranked, time.Hour)

	c.JSON(http.StatusOK, ranked)
}
