package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/handler"
	"github.com/user/cinelog/internal/middleware"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ==================== 认证 ====================
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", middleware.RequireAuth(h.Config.AppSecret), h.Me)
	}

	// ==================== 公开接口 ====================
	public := r.Group("/api")
	public.Use(middleware.OptionalAuth(h.Config.AppSecret))
	{
		// 用户主页
		public.GET("/user/:username", h.UserProfile)

		// 指定用户的公开数据
		public.GET("/users/:userId/watchlist", h.UserWatchlist)
		public.GET("/users/:userId/favorites", h.UserFavorites)
		public.GET("/users/:userId/diary", h.UserDiary)
		public.GET("/users/:userId/followers", h.UserFollowers)
		public.GET("/users/:userId/following", h.UserFollowing)
		public.GET("/users/:userId/lists", h.UserLists)

		// 片单详情（私有片单仅限本人，见 handler 可见性检查）
		public.GET("/lists/:id", h.GetList)
		public.GET("/lists/:id/items", h.ListItems)

		// TMDB 元数据代理与热搜
		public.GET("/tmdb/*path", h.TMDBProxy)
		public.GET("/trending/searches", h.TrendingSearches)
	}

	// ==================== 需要登录 ====================
	api := r.Group("/api")
	api.Use(middleware.RequireAuth(h.Config.AppSecret))
	{
		// 个人资料
		api.PATCH("/user", h.UpdateProfile)

		// 想看清单
		api.POST("/watchlist", h.AddToWatchlist)
		api.GET("/watchlist", h.Watchlist)
		api.DELETE("/watchlist/:movieId", h.RemoveFromWatchlist)
		api.GET("/watchlist/:movieId/status", h.WatchlistStatus)
		api.POST("/watchlist/:movieId/watched", h.MarkWatched)

		// 喜爱电影
		api.POST("/favorites", h.AddFavorite)
		api.GET("/favorites", h.Favorites)
		api.DELETE("/favorites/:movieId", h.RemoveFavorite)
		api.GET("/favorites/:movieId/status", h.FavoriteStatus)

		// 观影日记
		api.POST("/diary", h.AddDiaryEntry)
		api.GET("/diary", h.Diary)
		api.PATCH("/diary/:id", h.UpdateDiaryEntry)
		api.DELETE("/diary/:id", h.RemoveDiaryEntry)

		// 关注关系
		api.POST("/follow", h.FollowUser)
		api.DELETE("/follow/:userId", h.UnfollowUser)
		api.GET("/follow/:userId/status", h.FollowStatus)
		api.GET("/followers", h.Followers)
		api.GET("/following", h.Following)

		// 片单
		api.POST("/lists", h.CreateList)
		api.GET("/lists", h.Lists)
		api.PATCH("/lists/:id", h.UpdateList)
		api.DELETE("/lists/:id", h.DeleteList)
		api.POST("/lists/:id/items", h.AddListItem)
		api.DELETE("/lists/:id/items/:movieId", h.RemoveListItem)

		// 电影状态汇总与个性化推荐
		api.GET("/movies/:movieId/status", h.MovieStatus)
		api.GET("/foryou", h.ForYou)
	}
}
