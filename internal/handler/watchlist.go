package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/middleware"
	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/repository"
	"github.com/user/cinelog/internal/utils"
)

// AddMovieReq 加入清单/喜爱的请求体
type AddMovieReq struct {
	MovieID int `json:"movieId" binding:"required,gt=0"`
}

// AddToWatchlist 加入想看清单
// POST /api/watchlist
func (h *Handler) AddToWatchlist(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req AddMovieReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.ValidationMessage(err))
		return
	}

	item, err := h.Repos.Watchlist.Add(userID, req.MovieID)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			utils.BadRequest(c, "Movie already in watchlist")
			return
		}
		utils.InternalServerError(c, "Failed to add to watchlist")
		return
	}

	c.JSON(http.StatusCreated, item)
}

// RemoveFromWatchlist 移出想看清单（幂等）
// DELETE /api/watchlist/:movieId
func (h *Handler) RemoveFromWatchlist(c *gin.Context) {
	userID := middleware.GetUserID(c)
	movieID, err := strconv.Atoi(c.Param("movieId"))
	if err != nil {
		utils.BadRequest(c, "Invalid movie id")
		return
	}

	if err := h.Repos.Watchlist.Remove(userID, movieID); err != nil {
		utils.InternalServerError(c, "Failed to remove from watchlist")
		return
	}

	c.Status(http.StatusNoContent)
}

// Watchlist 当前用户想看清单
// GET /api/watchlist
func (h *Handler) Watchlist(c *gin.Context) {
	userID := middleware.GetUserID(c)

	items, err := h.Repos.Watchlist.ListByUser(userID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	c.JSON(http.StatusOK, items)
}

// UserWatchlist 指定用户想看清单（公开）
// GET /api/users/:userId/watchlist
func (h *Handler) UserWatchlist(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		utils.BadRequest(c, "Invalid user id")
		return
	}

	items, err := h.Repos.Watchlist.ListByUser(userID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	c.JSON(http.StatusOK, items)
}

// WatchlistStatus 想看状态
// GET /api/watchlist/:movieId/status
func (h *Handler) WatchlistStatus(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{"inWatchlist": inWatchlist})
}

// MarkWatchedReq 「标记已看」请求体（全部可选）
type MarkWatchedReq struct {
	WatchedDate *time.Time `json:"watchedDate"`
	Rating      *int       `json:"rating" binding:"omitempty,gte=1,lte=5"`
	Review      *string    `json:"review"`
	Liked       *bool      `json:"liked"`
}

// MarkWatched 标记已看：移出想看清单并写入日记（单事务）
// POST /api/watchlist/:movieId/watched
func (h *Handler) MarkWatched(c *gin.Context) {
	userID := middleware.GetUserID(c)
	movieID, err := strconv.Atoi(c.Param("movieId"))
	if err != nil {
		utils.BadRequest(c, "Invalid movie id")
		return
	}

	// 请求体可省略，省略时记为刚看完
	var req MarkWatchedReq
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.BadRequest(c, utils.ValidationMessage(err))
		return
	}

	watchedAt := time.Now()
	if req.WatchedDate != nil {
		watchedAt = *req.WatchedDate
	}

	entry := &model.DiaryEntry{
		UserID:    userID,
		MovieID:   movieID,
		WatchedAt: watchedAt,
		Rating:    req.Rating,
		Review:    req.Review,
	}
	if req.Liked != nil {
		entry.Liked = *req.Liked
	}

	if err := h.Repos.Diary.LogFromWatchlist(entry); err != nil {
		utils.InternalServerError(c, "Failed to log watch")
		return
	}

	c.JSON(http.StatusCreated, entry)
}
