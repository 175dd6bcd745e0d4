package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/middleware"
	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/utils"
)

// AddDiaryReq 记录观影请求
type AddDiaryReq struct {
	MovieID     int        `json:"movieId" binding:"required,gt=0"`
	WatchedDate *time.Time `json:"watchedDate"`
	Rating      *int       `json:"rating" binding:"omitempty,gte=1,lte=5"`
	Review      *string    `json:"review"`
	Liked       bool       `json:"liked"`
}

// AddDiaryEntry 记录一次观影（同一部电影允许多条，对应重看）
// POST /api/diary
func (h *Handler) AddDiaryEntry(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req AddDiaryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.ValidationMessage(err))
		return
	}

	watchedAt := time.Now()
	if req.WatchedDate != nil {
		watchedAt = *req.WatchedDate
	}

	entry := &model.DiaryEntry{
		UserID:    userID,
		MovieID:   req.MovieID,
		WatchedAt: watchedAt,
		Rating:    req.Rating,
		Review:    req.Review,
		Liked:     req.Liked,
	}
	if err := h.Repos.Diary.Add(entry); err != nil {
		utils.InternalServerError(c, "Failed to add diary entry")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// UpdateDiaryReq 日记更新请求（字段均可选）
type UpdateDiaryReq struct {
	WatchedDate *time.Time `json:"watchedDate"`
	Rating      *int       `json:"rating" binding:"omitempty,gte=1,lte=5"`
	Review      *string    `json:"review"`
	Liked       *bool      `json:"liked"`
}

// UpdateDiaryEntry 修改评分/短评，仅限本人
// PATCH /api/diary/:id
func (h *Handler) UpdateDiaryEntry(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid diary entry id")
		return
	}

	var req UpdateDiaryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.ValidationMessage(err))
		return
	}

	entry, err := h.Repos.Diary.GetByID(id)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	if entry == nil {
		utils.NotFound(c, "Diary entry not found")
		return
	}
	if entry.UserID != userID {
		utils.Forbidden(c, "")
		return
	}

	fields := map[string]interface{}{}
	if req.WatchedDate != nil {
		fields["watched_at"] = *req.WatchedDate
	}
	if req.Rating != nil {
		fields["rating"] = *req.Rating
	}
	if req.Review != nil {
		fields["review"] = *req.Review
	}
	if req.Liked != nil {
		fields["liked"] = *req.Liked
	}

	updated, err := h.Repos.Diary.Update(id, fields)
	if err != nil {
		utils.InternalServerError(c, "Failed to update diary entry")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// RemoveDiaryEntry 删除日记，仅限本人
// DELETE /api/diary/:id
func (h *Handler) RemoveDiaryEntry(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid diary entry id")
		return
	}

	entry, err := h.Repos.Diary.GetByID(id)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	if entry == nil {
		utils.NotFound(c, "Diary entry not found")
		return
	}
	if entry.UserID != userID {
		utils.Forbidden(c, "")
		return
	}

	if err := h.Repos.Diary.Remove(id); err != nil {
		utils.InternalServerError(c, "Failed to remove diary entry")
		return
	}

	c.Status(http.StatusNoContent)
}

// Diary 当前用户日记
// GET /api/diary
func (h *Handler) Diary(c *gin.Context) {
	userID := middleware.GetUserID(c)

	entries, err := h.Repos.Diary.ListByUser(userID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	c.JSON(http.StatusOK, entries)
}

// UserDiary 指定用户日记（公开）
// GET /api/users/:userId/diary
func (h *Handler) UserDiary(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		utils.BadRequest(c, "Invalid user id")
		return
	}

	entries, err := h.Repos.Diary.ListByUser(userID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	c.JSON(http.StatusOK, entries)
}
