package handler

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/config"
	"github.com/user/cinelog/internal/middleware"
	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/repository"
	"github.com/user/cinelog/internal/utils"
)

// ==================== 内存版存储实现（测试替身） ====================

type memUserStore struct {
	users     map[int]*model.User
	passwords map[int]string
	nextID    int
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[int]*model.User{}, passwords: map[int]string{}, nextID: 1}
}

func (s *memUserStore) Create(email, username, password string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email || u.Username == username {
			return nil, repository.ErrDuplicate
		}
	}
	u := &model.User{ID: s.nextID, Email: email, Username: username, CreatedAt: time.Now()}
	s.users[u.ID] = u
	s.passwords[u.ID] = password
	s.nextID++
	return u, nil
}

func (s *memUserStore) FindByEmail(email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *memUserStore) FindByUsername(username string) (*model.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (s *memUserStore) FindByID(id int) (*model.User, error) {
	return s.users[id], nil
}

func (s *memUserStore) CheckPassword(user *model.User, password string) bool {
	return s.passwords[user.ID] == password
}

func (s *memUserStore) UpdateProfile(userID int, fields map[string]interface{}) (*model.User, error) {
	u := s.users[userID]
	if u == nil {
		return nil, nil
	}
	if v, ok := fields["username"]; ok {
		for _, other := range s.users {
			if other.ID != userID && other.Username == v.(string) {
				return nil, repository.ErrDuplicate
			}
		}
		u.Username = v.(string)
	}
	if v, ok := fields["email"]; ok {
		u.Email = v.(string)
	}
	if v, ok := fields["bio"]; ok {
		u.Bio = v.(string)
	}
	if v, ok := fields["avatar_url"]; ok {
		u.AvatarURL = v.(string)
	}
	return u, nil
}

type memWatchlistStore struct {
	items  []*model.WatchlistItem
	nextID int
}

func newMemWatchlistStore() *memWatchlistStore {
	return &memWatchlistStore{nextID: 1}
}

func (s *memWatchlistStore) Add(userID, movieID int) (*model.WatchlistItem, error) {
	for _, it := range s.items {
		if it.UserID == userID && it.MovieID == movieID {
			return nil, repository.ErrDuplicate
		}
	}
	item := &model.WatchlistItem{ID: s.nextID, UserID: userID, MovieID: movieID, AddedAt: time.Now()}
	s.items = append(s.items, item)
	s.nextID++
	return item, nil
}

func (s *memWatchlistStore) Remove(userID, movieID int) error {
	kept := s.items[:0]
	for _, it := range s.items {
		if !(it.UserID == userID && it.MovieID == movieID) {
			kept = append(kept, it)
		}
	}
	s.items = kept
	return nil
}

func (s *memWatchlistStore) ListByUser(userID int) ([]*model.WatchlistItem, error) {
	var out []*model.WatchlistItem
	for _, it := range s.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AddedAt.After(out[j].AddedAt) })
	return out, nil
}

func (s *memWatchlistStore) IsInWatchlist(userID, movieID int) (bool, error) {
	for _, it := range s.items {
		if it.UserID == userID && it.MovieID == movieID {
			return true, nil
		}
	}
	return false, nil
}

type memFavoriteStore struct {
	items  []*model.Favorite
	nextID int
}

func newMemFavoriteStore() *memFavoriteStore {
	return &memFavoriteStore{nextID: 1}
}

func (s *memFavoriteStore) Add(userID, movieID int) (*model.Favorite, error) {
	for _, it := range s.items {
		if it.UserID == userID && it.MovieID == movieID {
			return nil, repository.ErrDuplicate
		}
	}
	item := &model.Favorite{ID: s.nextID, UserID: userID, MovieID: movieID, AddedAt: time.Now()}
	s.items = append(s.items, item)
	s.nextID++
	return item, nil
}

func (s *memFavoriteStore) Remove(userID, movieID int) error {
	kept := s.items[:0]
	for _, it := range s.items {
		if !(it.UserID == userID && it.MovieID == movieID) {
			kept = append(kept, it)
		}
	}
	s.items = kept
	return nil
}

func (s *memFavoriteStore) ListByUser(userID int) ([]*model.Favorite, error) {
	var out []*model.Favorite
	for _, it := range s.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *memFavoriteStore) IsFavorited(userID, movieID int) (bool, error) {
	for _, it := range s.items {
		if it.UserID == userID && it.MovieID == movieID {
			return true, nil
		}
	}
	return false, nil
}

type memDiaryStore struct {
	entries   []*model.DiaryEntry
	watchlist *memWatchlistStore
	nextID    int
}

func newMemDiaryStore(watchlist *memWatchlistStore) *memDiaryStore {
	return &memDiaryStore{watchlist: watchlist, nextID: 1}
}

func (s *memDiaryStore) Add(entry *model.DiaryEntry) error {
	entry.ID = s.nextID
	s.nextID++
	s.entries = append(s.entries, entry)
	return nil
}

func (s *memDiaryStore) GetByID(id int) (*model.DiaryEntry, error) {
	for _, e := range s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (s *memDiaryStore) Update(id int, fields map[string]interface{}) (*model.DiaryEntry, error) {
	e, _ := s.GetByID(id)
	if e == nil {
		return nil, nil
	}
	if v, ok := fields["watched_at"]; ok {
		e.WatchedAt = v.(time.Time)
	}
	if v, ok := fields["rating"]; ok {
		r := v.(int)
		e.Rating = &r
	}
	if v, ok := fields["review"]; ok {
		rv := v.(string)
		e.Review = &rv
	}
	if v, ok := fields["liked"]; ok {
		e.Liked = v.(bool)
	}
	return e, nil
}

func (s *memDiaryStore) Remove(id int) error {
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	return nil
}

func (s *memDiaryStore) ListByUser(userID int) ([]*model.DiaryEntry, error) {
	var out []*model.DiaryEntry
	for _, e := range s.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *memDiaryStore) HasWatched(userID, movieID int) (bool, error) {
	for _, e := range s.entries {
		if e.UserID == userID && e.MovieID == movieID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memDiaryStore) LogFromWatchlist(entry *model.DiaryEntry) error {
	s.watchlist.Remove(entry.UserID, entry.MovieID)
	return s.Add(entry)
}

type memFollowStore struct {
	follows []*model.Follow
	nextID  int
}

func newMemFollowStore() *memFollowStore {
	return &memFollowStore{nextID: 1}
}

func (s *memFollowStore) Follow(followerID, followingID int) (*model.Follow, error) {
	for _, f := range s.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			return nil, repository.ErrDuplicate
		}
	}
	f := &model.Follow{ID: s.nextID, FollowerID: followerID, FollowingID: followingID, CreatedAt: time.Now()}
	s.follows = append(s.follows, f)
	s.nextID++
	return f, nil
}

func (s *memFollowStore) Unfollow(followerID, followingID int) error {
	kept := s.follows[:0]
	for _, f := range s.follows {
		if !(f.FollowerID == followerID && f.FollowingID == followingID) {
			kept = append(kept, f)
		}
	}
	s.follows = kept
	return nil
}

func (s *memFollowStore) Followers(userID int) ([]*model.Follow, error) {
	var out []*model.Follow
	for _, f := range s.follows {
		if f.FollowingID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *memFollowStore) Following(userID int) ([]*model.Follow, error) {
	var out []*model.Follow
	for _, f := range s.follows {
		if f.FollowerID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *memFollowStore) IsFollowing(followerID, followingID int) (bool, error) {
	for _, f := range s.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			return true, nil
		}
	}
	return false, nil
}

type memListStore struct {
	lists      []*model.List
	items      []*model.ListItem
	nextID     int
	nextItemID int
}

func newMemListStore() *memListStore {
	return &memListStore{nextID: 1, nextItemID: 1}
}

func (s *memListStore) Create(list *model.List) error {
	list.ID = s.nextID
	list.CreatedAt = time.Now()
	s.nextID++
	s.lists = append(s.lists, list)
	return nil
}

func (s *memListStore) GetByID(id int) (*model.List, error) {
	for _, l := range s.lists {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, nil
}

func (s *memListStore) Update(id int, fields map[string]interface{}) (*model.List, error) {
	l, _ := s.GetByID(id)
	if l == nil {
		return nil, nil
	}
	if v, ok := fields["name"]; ok {
		l.Name = v.(string)
	}
	if v, ok := fields["description"]; ok {
		l.Description = v.(string)
	}
	if v, ok := fields["is_public"]; ok {
		l.IsPublic = v.(bool)
	}
	return l, nil
}

func (s *memListStore) Delete(id int) error {
	keptItems := s.items[:0]
	for _, it := range s.items {
		if it.ListID != id {
			keptItems = append(keptItems, it)
		}
	}
	s.items = keptItems

	kept := s.lists[:0]
	for _, l := range s.lists {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	s.lists = kept
	return nil
}

func (s *memListStore) ListByUser(userID int) ([]*model.List, error) {
	var out []*model.List
	for _, l := range s.lists {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *memListStore) AddItem(item *model.ListItem) error {
	item.ID = s.nextItemID
	item.AddedAt = time.Now()
	s.nextItemID++
	s.items = append(s.items, item)
	return nil
}

func (s *memListStore) RemoveItem(listID, movieID int) error {
	kept := s.items[:0]
	for _, it := range s.items {
		if !(it.ListID == listID && it.MovieID == movieID) {
			kept = append(kept, it)
		}
	}
	s.items = kept
	return nil
}

func (s *memListStore) Items(listID int) ([]*model.ListItem, error) {
	var out []*model.ListItem
	for _, it := range s.items {
		if it.ListID == listID {
			out = append(out, it)
		}
	}
	return out, nil
}

type memMovieCacheStore struct {
	entries map[int]*model.MovieCache
}

func newMemMovieCacheStore() *memMovieCacheStore {
	return &memMovieCacheStore{entries: map[int]*model.MovieCache{}}
}

func (s *memMovieCacheStore) Upsert(tmdbID int, data json.RawMessage) error {
	s.entries[tmdbID] = &model.MovieCache{TMDBID: tmdbID, Data: data, LastUpdated: time.Now()}
	return nil
}

func (s *memMovieCacheStore) Get(tmdbID int) (*model.MovieCache, error) {
	return s.entries[tmdbID], nil
}

func (s *memMovieCacheStore) DeleteOlderThan(age time.Duration) (int64, error) {
	var n int64
	cutoff := time.Now().Add(-age)
	for id, e := range s.entries {
		if e.LastUpdated.Before(cutoff) {
			delete(s.entries, id)
			n++
		}
	}
	return n, nil
}

type memSearchLogStore struct {
	logs []model.SearchLog
}

func (s *memSearchLogStore) Log(keyword string, userID *int, ipHash string) error {
	s.logs = append(s.logs, model.SearchLog{Keyword: keyword, UserID: userID, IPHash: ipHash, CreatedAt: time.Now()})
	return nil
}

func (s *memSearchLogStore) GetTrending(hours, limit int) ([]*model.TrendingKeyword, error) {
	counts := map[string]int{}
	for _, l := range s.logs {
		counts[l.Keyword]++
	}
	var out []*model.TrendingKeyword
	for k, n := range counts {
		out = append(out, &model.TrendingKeyword{Keyword: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memSearchLogStore) DeleteOldLogs(days int) (int64, error) {
	return 0, nil
}

func (s *memSearchLogStore) DeleteOldKeywords(days int) (int64, error) {
	return 0, nil
}

// ==================== 测试环境 ====================

type testEnv struct {
	engine *gin.Engine
	cfg    *config.Config
	repos  *repository.Repositories
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gob.Register(model.SessionUser{})
	utils.InitCache()

	watchlist := newMemWatchlistStore()
	repos := &repository.Repositories{
		User:       newMemUserStore(),
		Watchlist:  watchlist,
		Favorite:   newMemFavoriteStore(),
		Diary:      newMemDiaryStore(watchlist),
		Follow:     newMemFollowStore(),
		List:       newMemListStore(),
		MovieCache: newMemMovieCacheStore(),
		SearchLog:  &memSearchLogStore{},
	}

	cfg := &config.Config{
		Env:       "test",
		AppSecret: "test-secret",
		JWTExpiry: time.Hour,
	}

	r := gin.New()
	store := cookie.NewStore([]byte(cfg.AppSecret))
	r.Use(sessions.Sessions("mysession", store))

	h := NewHandler(repos, cfg)
	registerTestRoutes(r, h)

	return &testEnv{engine: r, cfg: cfg, repos: repos}
}

// registerTestRoutes 按生产路由注册（避免 import 循环，不直接引用 router 包）
func registerTestRoutes(r *gin.Engine, h *Handler) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", middleware.RequireAuth(h.Config.AppSecret), h.Me)
	}

	public := r.Group("/api")
	public.Use(middleware.OptionalAuth(h.Config.AppSecret))
	{
		public.GET("/user/:username", h.UserProfile)
		public.GET("/users/:userId/watchlist", h.UserWatchlist)
		public.GET("/users/:userId/favorites", h.UserFavorites)
		public.GET("/users/:userId/diary", h.UserDiary)
		public.GET("/users/:userId/followers", h.UserFollowers)
		public.GET("/users/:userId/following", h.UserFollowing)
		public.GET("/users/:userId/lists", h.UserLists)
		public.GET("/lists/:id", h.GetList)
		public.GET("/lists/:id/items", h.ListItems)
		public.GET("/trending/searches", h.TrendingSearches)
	}

	api := r.Group("/api")
	api.Use(middleware.RequireAuth(h.Config.AppSecret))
	{
		api.PATCH("/user", h.UpdateProfile)
		api.POST("/watchlist", h.AddToWatchlist)
		api.GET("/watchlist", h.Watchlist)
		api.DELETE("/watchlist/:movieId", h.RemoveFromWatchlist)
		api.GET("/watchlist/:movieId/status", h.WatchlistStatus)
		api.POST("/watchlist/:movieId/watched", h.MarkWatched)
		api.POST("/favorites", h.AddFavorite)
		api.GET("/favorites", h.Favorites)
		api.DELETE("/favorites/:movieId", h.RemoveFavorite)
		api.GET("/favorites/:movieId/status", h.FavoriteStatus)
		api.POST("/diary", h.AddDiaryEntry)
		api.GET("/diary", h.Diary)
		api.PATCH("/diary/:id", h.UpdateDiaryEntry)
		api.DELETE("/diary/:id", h.RemoveDiaryEntry)
		api.POST("/follow", h.FollowUser)
		api.DELETE("/follow/:userId", h.UnfollowUser)
		api.GET("/follow/:userId/status", h.FollowStatus)
		api.GET("/followers", h.Followers)
		api.GET("/following", h.Following)
		api.POST("/lists", h.CreateList)
		api.GET("/lists", h.Lists)
		api.PATCH("/lists/:id", h.UpdateList)
		api.DELETE("/lists/:id", h.DeleteList)
		api.POST("/lists/:id/items", h.AddListItem)
		api.DELETE("/lists/:id/items/:movieId", h.RemoveListItem)
		api.GET("/movies/:movieId/status", h.MovieStatus)
	}
}

// createUser 直接建用户并返回认证 Cookie
func (e *testEnv) createUser(t *testing.T, username, email string) (*model.User, *http.Cookie) {
	t.Helper()
	u, err := e.repos.User.Create(email, username, "password123")
	if err != nil {
		t.Fatalf("创建测试用户失败: %v", err)
	}
	token, err := middleware.GenerateToken(u.ID, u.Email, u.Username, e.cfg.AppSecret, e.cfg.JWTExpiry)
	if err != nil {
		t.Fatalf("生成测试 Token 失败: %v", err)
	}
	return u, &http.Cookie{Name: "token", Value: token}
}

// do 执行一次请求
func (e *testEnv) do(method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("解析响应失败: %v, body=%s", err, w.Body.String())
	}
}

func messageOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Message string `json:"message"`
	}
	decodeBody(t, w, &resp)
	return resp.Message
}
