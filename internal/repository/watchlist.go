package repository

import (
	"errors"
	"time"

	"github.com/user/cinelog/internal/model"
	"gorm.io/gorm"
)

type WatchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// Add 加入想看清单，重复加入返回 ErrDuplicate
func (r *WatchlistRepository) Add(userID, movieID int) (*model.WatchlistItem, error) {
	item := &model.WatchlistItem{
		UserID:  userID,
		MovieID: movieID,
		AddedAt: time.Now(),
	}
	if err := r.db.Create(item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return item, nil
}

// Remove 移出想看清单（幂等，不存在不报错）
func (r *WatchlistRepository) Remove(userID, movieID int) error {
	return r.db.Where("user_id = ? AND movie_id = ?", userID, movieID).Delete(&model.WatchlistItem{}).Error
}

// ListByUser 获取用户想看清单
func (r *WatchlistRepository) ListByUser(userID int) ([]*model.WatchlistItem, error) {
	var items []*model.WatchlistItem
	err := r.db.Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&items).Error
	return items, err
}

// IsInWatchlist 检查是否已在想看清单
func (r *WatchlistRepository) IsInWatchlist(userID, movieID int) (bool, error) {
	var count int64
	err := r.db.Model(&model.WatchlistItem{}).Where("user_id = ? AND movie_id = ?", userID, movieID).Count(&count).Error
	return count > 0, err
}
