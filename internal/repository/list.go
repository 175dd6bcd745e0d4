package repository

import (
	"errors"
	"time"

	"github.com/user/cinelog/internal/model"
	"gorm.io/gorm"
)

type ListRepository struct {
	db *gorm.DB
}

func NewListRepository(db *gorm.DB) *ListRepository {
	return &ListRepository{db: db}
}

// Create 创建片单
func (r *ListRepository) Create(list *model.List) error {
	if list.CreatedAt.IsZero() {
		list.CreatedAt = time.Now()
	}
	return r.db.Create(list).Error
}

// GetByID 根据 ID 查找片单
func (r *ListRepository) GetByID(id int) (*model.List, error) {
	var list model.List
	err := r.db.First(&list, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// Update 更新片单字段并返回最新记录
func (r *ListRepository) Update(id int, fields map[string]interface{}) (*model.List, error) {
	if len(fields) > 0 {
		if err := r.db.Model(&model.List{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return r.GetByID(id)
}

// Delete 删除片单，先删条目再删片单，同一事务内完成级联
func (r *ListRepository) Delete(id int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("list_id = ?", id).Delete(&model.ListItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.List{}, id).Error
	})
}

// ListByUser 获取用户的片单
func (r *ListRepository) ListByUser(userID int) ([]*model.List, error) {
	var lists []*model.List
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&lists).Error
	return lists, err
}

// AddItem 添加片单条目
func (r *ListRepository) AddItem(item *model.ListItem) error {
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	return r.db.Create(item).Error
}

// RemoveItem 移除片单条目（幂等）
func (r *ListRepository) RemoveItem(listID, movieID int) error {
	return r.db.Where("list_id = ? AND movie_id = ?", listID, movieID).Delete(&model.ListItem{}).Error
}

// Items 获取片单条目
func (r *ListRepository) Items(listID int) ([]*model.ListItem, error) {
	var items []*model.ListItem
	err := r.db.Where("list_id = ?", listID).
		Order("added_at ASC").
		Find(&items).Error
	return items, err
}
