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

// FollowReq 关注请求
type FollowReq struct {
	FollowingID int `json:"followingId" binding:"required,gt=0"`
}

// FollowUser 关注用户
// POST /api/follow
func (h *Handler) FollowUser(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req FollowReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.ValidationMessage(err))
		return
	}

	// 禁止自我关注
	if req.FollowingID == userID {
		utils.BadRequest(c, "Cannot follow yourself")
		return
	}

	// 被关注者必须存在
	target, err := h.Repos.User.FindByID(req.FollowingID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	if target == nil {
		utils.NotFound(c, "User not found")
		return
	}

	follow, err := h.Repos.Follow.Follow(userID, req.FollowingID)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			utils.BadRequest(c, "Already following this user")
			return
		}
		utils.InternalServerError(c, "Failed to follow user")
		return
	}

	c.JSON(http.StatusCreated, follow)
}

// UnfollowUser 取消关注（幂等）
// DELETE /api/follow/:userId
func (h *Handler) UnfollowUser(c *gin.Context) {
	userID := middleware.GetUserID(c)
	targetID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		utils.BadRequest(c, "Invalid user id")
		return
	}

	if err := h.Repos.Follow.Unfollow(userID, targetID); err != nil {
		utils.InternalServerError(c, "Failed to unfollow user")
		return
	}

	c.Status(http.StatusNoContent)
}

// FollowStatus 关注状态
// GET /api/follow/:userId/status
func (h *Handler) FollowStatus(c *gin.Context) {
	userID := middleware.GetUserID(c)
	targetID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		utils.BadRequest(c, "Invalid user id")
		return
	}

	isFollowing, err := h.Repos.Follow.IsFollowing(userID, targetID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"isFollowing": isFollowing})
}

// Followers 当前用户粉丝
// GET /api/followers
func (h *Handler) Followers(c *gin.Context) {
	userID := middleware.GetUserID(c)

	follows, err := h.Repos.Follow.Followers(userID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	c.JSON(http.StatusOK, follows)
}

// Following 当前用户关注
// GET /api/following
func (h *Handler) Following(c *gin.Context) {
	userID := middleware.GetUserID(c)

	follows, err := h.Repos.Follow.Following(userID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	c.JSON(http.StatusOK, follows)
}

// UserFollowers 指定用户粉丝（公开）
// GET /api/users/:userId/followers
func (h *Handler) UserFollowers(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		utils.BadRequest(c, "Invalid user id")
		return
	}

	follows, err := h.Repos.Follow.Followers(userID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	c.JSON(http.StatusOK, follows)
}

// UserFollowing 指定用户关注（公开）
// GET /api/users/:userId/following
func (h *Handler) UserFollowing(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		utils.BadRequest(c, "Invalid user id")
		return
	}

	follows, err := h.Repos.Follow.Following(userID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	c.JSON(http.StatusOK, follows)
}
