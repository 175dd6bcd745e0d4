package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/middleware"
	"github.com/user/cinelog/internal/repository"
	"github.com/user/cinelog/internal/utils"
)

// AddFavorite 添加喜爱
// POST /api/favorites
func (h *Handler) AddFavorite(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req AddMovieReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.ValidationMessage(err))
		return
	}

	favorite, err := h.Repos.Favorite.Add(userID, req.MovieID)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			utils.BadRequest(c, "Movie already in favorites")
			return
		}
		utils.InternalServerError(c, "Failed to add to favorites")
		return
	}

	c.JSON(http.StatusCreated, favorite)
}

// RemoveFavorite 取消喜爱（幂等）
// DELETE /api/favorites/:movieId
func (h *Handler) RemoveFavorite(c *gin.Context) {
	userID := middleware.GetUserID(c)
	movieID, err := strconv.Atoi(c.Param("movieId"))
	if err != nil {
		utils.BadRequest(c, "Invalid movie id")
		return
	}

	if err := h.Repos.Favorite.Remove(userID, movieID); err != nil {
		utils.InternalServerError(c, "Failed to remove from favorites")
		return
	}

	c.Status(http.StatusNoContent)
}

// Favorites 当前用户喜爱列表
// GET /api/favorites
func (h *Handler) Favorites(c *gin.Context) {
	userID := middleware.GetUserID(c)

	favorites, err := h.Repos.Favorite.ListByUser(userID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	c.JSON(http.StatusOK, favorites)
}

// UserFavorites 指定用户喜爱列表（公开）
// GET /api/users/:userId/favorites
func (h *Handler) UserFavorites(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		utils.BadRequest(c, "Invalid user id")
		return
	}

	favorites, err := h.Repos.Favorite.ListByUser(userID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	c.JSON(http.StatusOK, favorites)
}

// FavoriteStatus 喜爱状态
// GET /api/favorites/:movieId/status
func (h *Handler) FavoriteStatus(c *gin.Context) {
	userID := middleware.GetUserID(c)
	movieID, err := strconv.Atoi(c.Param("movieId"))
	if err != nil {
		utils.BadRequest(c, "Invalid movie id")
		return
	}

	inFavorites, err := h.Repos.Favorite.IsFavorited(userID, movieID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"inFavorites": inFavorites})
}
