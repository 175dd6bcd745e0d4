package repository

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/user/cinelog/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MovieCacheRepository struct {
	db *gorm.DB
}

func NewMovieCacheRepository(db *gorm.DB) *MovieCacheRepository {
	return &MovieCacheRepository{db: db}
}

// Upsert 写入或覆盖缓存（按 tmdb_id 唯一）
func (r *MovieCacheRepository) Upsert(tmdbID int, data json.RawMessage) error {
	entry := &model.MovieCache{
		TMDBID:      tmdbID,
		Data:        data,
		LastUpdated: time.Now(),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tmdb_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "last_updated"}),
	}).Create(entry).Error
}

// Get 根据 tmdb_id 查找缓存，未命中返回 nil
func (r *MovieCacheRepository) Get(tmdbID int) (*model.MovieCache, error) {
	var entry model.MovieCache
	err := r.db.Where("tmdb_id = ?", tmdbID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteOlderThan 清理超过保留期的缓存
func (r *MovieCacheRepository) DeleteOlderThan(age time.Duration) (int64, error) {
	result := r.db.Where("last_updated < ?", time.Now().Add(-age)).Delete(&model.MovieCache{})
	return result.RowsAffected, result.Error
}
