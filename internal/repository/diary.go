package repository

import (
	"errors"

	"github.com/user/cinelog/internal/model"
	"gorm.io/gorm"
)

type DiaryRepository struct {
	db *gorm.DB
}

func NewDiaryRepository(db *gorm.DB) *DiaryRepository {
	return &DiaryRepository{db: db}
}

// Add 写入日记（同一部电影允许多条，对应重看）
func (r *DiaryRepository) Add(entry *model.DiaryEntry) error {
	return r.db.Create(entry).Error
}

// GetByID 根据 ID 查找日记
func (r *DiaryRepository) GetByID(id int) (*model.DiaryEntry, error) {
	var entry model.DiaryEntry
	err := r.db.First(&entry, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Update 更新评分/短评等字段并返回最新记录
func (r *DiaryRepository) Update(id int, fields map[string]interface{}) (*model.DiaryEntry, error) {
	if len(fields) > 0 {
		if err := r.db.Model(&model.DiaryEntry{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return r.GetByID(id)
}

// Remove 删除日记（幂等）
func (r *DiaryRepository) Remove(id int) error {
	return r.db.Delete(&model.DiaryEntry{}, id).Error
}

// ListByUser 获取用户日记，按观影时间倒序
func (r *DiaryRepository) ListByUser(userID int) ([]*model.DiaryEntry, error) {
	var entries []*model.DiaryEntry
	err := r.db.Where("user_id = ?", userID).
		Order("watched_at DESC").
		Find(&entries).Error
	return entries, err
}

// HasWatched 检查某部电影是否有日记记录
func (r *DiaryRepository) HasWatched(userID, movieID int) (bool, error) {
	var count int64
	err := r.db.Model(&model.DiaryEntry{}).Where("user_id = ? AND movie_id = ?", userID, movieID).Count(&count).Error
	return count > 0, err
}

// LogFromWatchlist 「标记已看」：移出想看清单并写入日记。
// 两步在同一事务内，中途失败整体回滚，不会出现清单已删而日记缺失的中间态。
func (r *DiaryRepository) LogFromWatchlist(entry *model.DiaryEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND movie_id = ?", entry.UserID, entry.MovieID).
			Delete(&model.WatchlistItem{}).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}
