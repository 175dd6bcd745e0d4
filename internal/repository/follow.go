package repository

import (
	"errors"
	"time"

	"github.com/user/cinelog/internal/model"
	"gorm.io/gorm"
)

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Follow 关注用户，重复关注返回 ErrDuplicate
func (r *FollowRepository) Follow(followerID, followingID int) (*model.Follow, error) {
	follow := &model.Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now(),
	}
	if err := r.db.Create(follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return follow, nil
}

// Unfollow 取消关注（幂等）
func (r *FollowRepository) Unfollow(followerID, followingID int) error {
	return r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&model.Follow{}).Error
}

// Followers 获取粉丝列表
func (r *FollowRepository) Followers(userID int) ([]*model.Follow, error) {
	var follows []*model.Follow
	err := r.db.Where("following_id = ?", userID).
		Order("created_at DESC").
		Find(&follows).Error
	return follows, err
}

// Following 获取关注列表
func (r *FollowRepository) Following(userID int) ([]*model.Follow, error) {
	var follows []*model.Follow
	err := r.db.Where("follower_id = ?", userID).
		Order("created_at DESC").
		Find(&follows).Error
	return follows, err
}

// IsFollowing 检查是否已关注
func (r *FollowRepository) IsFollowing(followerID, followingID int) (bool, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).Where("follower_id = ? AND following_id = ?", followerID, followingID).Count(&count).Error
	return count > 0, err
}
