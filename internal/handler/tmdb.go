package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/middleware"
	"github.com/user/cinelog/internal/utils"
)

// TMDBProxy 转发 TMDB 请求，服务端注入密钥
// GET /api/tmdb/*path
func (h *Handler) TMDBProxy(c *gin.Context) {
	path := c.Param("path")
	query := c.Request.URL.Query()

	resp, err := h.TMDB.Proxy(c.Request.Context(), path, query)
	if err != nil {
		utils.Error(c, http.StatusBadGateway, "Failed to reach TMDB")
		return
	}

	// 搜索请求异步记录热搜关键词
	if keyword := query.Get("query"); keyword != "" && strings.Contains(path, "search/") {
		userID := middleware.GetUserIDPtr(c)
		ipHash := utils.HashIP(c.ClientIP())
		go func() {
			if err := h.Repos.SearchLog.Log(keyword, userID, ipHash); err != nil {
				log.Printf("[Search] 记录搜索日志失败: %v", err)
			}
		}()
	}

	// 上游状态码与响应体原样返回
	c.Data(resp.Status, resp.ContentType, resp.Body)
}

// TrendingSearches 近 24 小时热搜关键词
// GET /api/trending/searches
func (h *Handler) TrendingSearches(c *gin.Context) {
	keywords, err := h.Repos.SearchLog.GetTrending(24, 10)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	c.JSON(http.StatusOK, keywords)
}
