package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/middleware"
	"github.com/user/cinelog/internal/utils"
)

// MovieStatus 电影与当前用户的关系汇总
// GET /api/movies/:movieId/status
func (h *Handler) MovieStatus(c *gin.Context) {
	userID := middleware.GetUserID(c)
	movieID, err := strconv.Atoi(c.Param("movieId"))
	if err != nil {
		utils.BadRequest(c, "Invalid movie id")
		return
	}

	inWatchlist, err := h.Repos.Watchlist.IsInWatchlist(userID, movieID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	inFavorites, err := h.Repos.Favorite.IsFavorited(userID, movieID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	watched, err := h.Repos.Diary.HasWatched(userID, movieID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"inWatchlist": inWatchlist,
		"inFavorites": inFavorites,
		"watched":     watched,
	})
}
