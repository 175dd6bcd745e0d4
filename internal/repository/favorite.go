package repository

import (
	"errors"
	"time"

	"github.com/user/cinelog/internal/model"
	"gorm.io/gorm"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add 添加喜爱，重复添加返回 ErrDuplicate
func (r *FavoriteRepository) Add(userID, movieID int) (*model.Favorite, error) {
	favorite := &model.Favorite{
		UserID:  userID,
		MovieID: movieID,
		AddedAt: time.Now(),
	}
	if err := r.db.Create(favorite).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return favorite, nil
}

// Remove 取消喜爱（幂等）
func (r *FavoriteRepository) Remove(userID, movieID int) error {
	return r.db.Where("user_id = ? AND movie_id = ?", userID, movieID).Delete(&model.Favorite{}).Error
}

// ListByUser 获取用户喜爱列表
func (r *FavoriteRepository) ListByUser(userID int) ([]*model.Favorite, error) {
	var favorites []*model.Favorite
	err := r.db.Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&favorites).Error
	return favorites, err
}

// IsFavorited 检查是否已喜爱
func (r *FavoriteRepository) IsFavorited(userID, movieID int) (bool, error) {
	var count int64
	err := r.db.Model(&model.Favorite{}).Where("user_id = ? AND movie_id = ?", userID, movieID).Count(&count).Error
	return count > 0, err
}
