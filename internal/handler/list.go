package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/middleware"
	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/utils"
)

// CreateListReq 创建片单请求
type CreateListReq struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
	IsPublic    *bool  `json:"isPublic"`
}

// CreateList 创建片单，默认公开
// POST /api/lists
func (h *Handler) CreateList(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req CreateListReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.ValidationMessage(err))
		return
	}

	list := &model.List{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    true,
	}
	if req.IsPublic != nil {
		list.IsPublic = *req.IsPublic
	}

	if err := h.Repos.List.Create(list); err != nil {
		utils.InternalServerError(c, "Failed to create list")
		return
	}

	c.JSON(http.StatusCreated, list)
}

// Lists 当前用户的全部片单（含私有）
// GET /api/lists
func (h *Handler) Lists(c *gin.Context) {
	userID := middleware.GetUserID(c)

	lists, err := h.Repos.List.ListByUser(userID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	c.JSON(http.StatusOK, lists)
}

// UserLists 指定用户的片单，非本人只返回公开片单
// GET /api/users/:userId/lists
func (h *Handler) UserLists(c *gin.Context) {
	targetID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		utils.BadRequest(c, "Invalid user id")
		return
	}

	lists, err := h.Repos.List.ListByUser(targetID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	if middleware.GetUserID(c) != targetID {
		visible := make([]*model.List, 0, len(lists))
		for _, l := range lists {
			if l.IsPublic {
				visible = append(visible, l)
			}
		}
		lists = visible
	}

	c.JSON(http.StatusOK, lists)
}

// getVisibleList 取片单并做可见性检查，错误时已写响应
func (h *Handler) getVisibleList(c *gin.Context) *model.List {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid list id")
		return nil
	}

	list, err := h.Repos.List.GetByID(id)
	if err != nil {
		utils.InternalServerError(c, "")
		return nil
	}
	if list == nil {
		utils.NotFound(c, "List not found")
		return nil
	}
	if !list.IsPublic && list.UserID != middleware.GetUserID(c) {
		utils.Forbidden(c, "This list is private")
		return nil
	}
	return list
}

// getOwnedList 取片单并做所有权检查，错误时已写响应
func (h *Handler) getOwnedList(c *gin.Context) *model.List {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid list id")
		return nil
	}

	list, err := h.Repos.List.GetByID(id)
	if err != nil {
		utils.InternalServerError(c, "")
		return nil
	}
	if list == nil {
		utils.NotFound(c, "List not found")
		return nil
	}
	if list.UserID != middleware.GetUserID(c) {
		utils.Forbidden(c, "Not authorized")
		return nil
	}
	return list
}

// GetList 片单详情（含条目）
// GET /api/lists/:id
func (h *Handler) GetList(c *gin.Context) {
	list := h.getVisibleList(c)
	if list == nil {
		return
	}

	items, err := h.Repos.List.Items(list.ID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          list.ID,
		"userId":      list.UserID,
		"name":        list.Name,
		"description": list.Description,
		"isPublic":    list.IsPublic,
		"createdAt":   list.CreatedAt,
		"items":       items,
	})
}

// UpdateListReq 片单更新请求（字段均可选）
type UpdateListReq struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	IsPublic    *bool   `json:"isPublic"`
}

// UpdateList 更新片单，仅限创建者
// PATCH /api/lists/:id
func (h *Handler) UpdateList(c *gin.Context) {
	var req UpdateListReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.ValidationMessage(err))
		return
	}

	list := h.getOwnedList(c)
	if list == nil {
		return
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.IsPublic != nil {
		fields["is_public"] = *req.IsPublic
	}

	updated, err := h.Repos.List.Update(list.ID, fields)
	if err != nil {
		utils.InternalServerError(c, "Failed to update list")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteList 删除片单及其条目，仅限创建者
// DELETE /api/lists/:id
func (h *Handler) DeleteList(c *gin.Context) {
	list := h.getOwnedList(c)
	if list == nil {
		return
	}

	if err := h.Repos.List.Delete(list.ID); err != nil {
		utils.InternalServerError(c, "Failed to delete list")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListItems 片单条目（可见性同片单详情）
// GET /api/lists/:id/items
func (h *Handler) ListItems(c *gin.Context) {
	list := h.getVisibleList(c)
	if list == nil {
		return
	}

	items, err := h.Repos.List.Items(list.ID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	c.JSON(http.StatusOK, items)
}

// AddListItemReq 片单条目请求
type AddListItemReq struct {
	MovieID int    `json:"movieId" binding:"required,gt=0"`
	Notes   string `json:"notes" binding:"omitempty,max=500"`
}

// AddListItem 向片单添加电影，仅限创建者
// POST /api/lists/:id/items
func (h *Handler) AddListItem(c *gin.Context) {
	var req AddListItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.ValidationMessage(err))
		return
	}

	list := h.getOwnedList(c)
	if list == nil {
		return
	}

	item := &model.ListItem{
		ListID:  list.ID,
		MovieID: req.MovieID,
		Notes:   req.Notes,
	}
	if err := h.Repos.List.AddItem(item); err != nil {
		utils.InternalServerError(c, "Failed to add movie to list")
		return
	}

	c.JSON(http.StatusCreated, item)
}

// RemoveListItem 从片单移除电影（幂等），仅限创建者
// DELETE /api/lists/:id/items/:movieId
func (h *Handler) RemoveListItem(c *gin.Context) {
	movieID, err := strconv.Atoi(c.Param("movieId"))
	if err != nil {
		utils.BadRequest(c, "Invalid movie id")
		return
	}

	list := h.getOwnedList(c)
	if list == nil {
		return
	}

	if err := h.Repos.List.RemoveItem(list.ID, movieID); err != nil {
		utils.InternalServerError(c, "Failed to remove movie from list")
		return
	}

	c.Status(http.StatusNoContent)
}
