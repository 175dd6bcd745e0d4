package handler

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/config"
	"github.com/user/cinelog/internal/middleware"
	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/repository"
	"github.com/user/cinelog/internal/service"
	"github.com/user/cinelog/internal/utils"
)

// Handler HTTP 处理器
type Handler struct {
	Repos  *repository.Repositories
	Config *config.Config
	TMDB   *service.TMDBService
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config) *Handler {
	return &Handler{
		Repos:  repos,
		Config: cfg,
		TMDB:   service.NewTMDBService(repos.MovieCache, cfg),
	}
}

// ==================== 认证 ====================

// RegisterReq 注册请求
type RegisterReq struct {
	Username string `json:"username" binding:"required,min=2,max=20"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register 注册处理
func (h *Handler) Register(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.ValidationMessage(err))
		return
	}

	user, err := h.Repos.User.Create(req.Email, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			utils.BadRequest(c, "Username or email already taken")
			return
		}
		utils.InternalServerError(c, "Failed to create user")
		return
	}

	h.startSession(c, user)
	c.JSON(http.StatusCreated, user)
}

// LoginReq 登录请求
type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login 登录处理
func (h *Handler) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.ValidationMessage(err))
		return
	}

	// 查找用户
	user, err := h.Repos.User.FindByEmail(req.Email)
	if err != nil || user == nil {
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	// 验证密码
	if !h.Repos.User.CheckPassword(user, req.Password) {
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	h.startSession(c, user)
	c.JSON(http.StatusOK, user)
}

// Logout 登出
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)

	// 清理 Session
	session := sessions.Default(c)
	session.Clear()
	session.Save()

	c.Status(http.StatusNoContent)
}

// Me 当前登录用户
func (h *Handler) Me(c *gin.Context) {
	userID := middleware.GetUserID(c)

	user, err := h.Repos.User.FindByID(userID)
	if err != nil || user == nil {
		utils.Unauthorized(c, "")
		return
	}

	c.JSON(http.StatusOK, user)
}

// startSession 签发 JWT Cookie 并将用户信息写入 Session
func (h *Handler) startSession(c *gin.Context, user *model.User) {
	token, err := middleware.GenerateToken(user.ID, user.Email, user.Username, h.Config.AppSecret, h.Config.JWTExpiry)
	if err != nil {
		return
	}
	c.SetCookie("token", token, int(h.Config.JWTExpiry.Seconds()), "/", "", false, true)

	session := sessions.Default(c)
	session.Set("userinfo", model.SessionUser{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
	})
	session.Save()
}
