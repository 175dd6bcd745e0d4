package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/middleware"
	"github.com/user/cinelog/internal/repository"
	"github.com/user/cinelog/internal/utils"
)

// UserProfile 用户主页信息
// GET /api/user/:username
func (h *Handler) UserProfile(c *gin.Context) {
	username := c.Param("username")

	user, err := h.Repos.User.FindByUsername(username)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	if user == nil {
		utils.NotFound(c, "User not found")
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfileReq 资料更新请求（字段均可选）
type UpdateProfileReq struct {
	Username  *string `json:"username" binding:"omitempty,min=2,max=20"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Bio       *string `json:"bio" binding:"omitempty,max=500"`
	AvatarURL *string `json:"avatarUrl" binding:"omitempty,max=500"`
}

// UpdateProfile 更新当前用户资料
// PATCH /api/user
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req UpdateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.ValidationMessage(err))
		return
	}

	fields := map[string]interface{}{}
	if req.Username != nil {
		fields["username"] = *req.Username
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.AvatarURL != nil {
		fields["avatar_url"] = *req.AvatarURL
	}

	user, err := h.Repos.User.UpdateProfile(userID, fields)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			utils.BadRequest(c, "Username or email already taken")
			return
		}
		utils.InternalServerError(c, "Failed to update profile")
		return
	}
	if user == nil {
		utils.NotFound(c, "User not found")
		return
	}

	c.JSON(http.StatusOK, user)
}
