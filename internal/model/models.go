package model

import (
	"encoding/json"
	"time"
)

// User 用户模型
type User struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email" gorm:"unique"`
	Username     string    `json:"username" db:"username" gorm:"unique"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Bio          string    `json:"bio" db:"bio"`
	AvatarURL    string    `json:"avatarUrl" db:"avatar_url"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// SessionUser 专门用于 Session 存储的用户信息结构
type SessionUser struct {
	ID       int
	Email    string
	Username string
}

// WatchlistItem 想看清单条目，(user_id, movie_id) 唯一
type WatchlistItem struct {
	ID      int       `json:"id" db:"id"`
	UserID  int       `json:"userId" db:"user_id" gorm:"uniqueIndex:idx_watchlist_user_movie"`
	MovieID int       `json:"movieId" db:"movie_id" gorm:"uniqueIndex:idx_watchlist_user_movie"`
	AddedAt time.Time `json:"addedAt" db:"added_at"`
}

// Favorite 喜爱的电影，(user_id, movie_id) 唯一
type Favorite struct {
	ID      int       `json:"id" db:"id"`
	UserID  int       `json:"userId" db:"user_id" gorm:"uniqueIndex:idx_favorites_user_movie"`
	MovieID int       `json:"movieId" db:"movie_id" gorm:"uniqueIndex:idx_favorites_user_movie"`
	AddedAt time.Time `json:"addedAt" db:"added_at"`
}

// DiaryEntry 观影日记，同一部电影允许多条记录（重看）
type DiaryEntry struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"userId" db:"user_id" gorm:"index"`
	MovieID   int       `json:"movieId" db:"movie_id"`
	WatchedAt time.Time `json:"watchedAt" db:"watched_at"`
	Rating    *int      `json:"rating" db:"rating"`
	Review    *string   `json:"review" db:"review"`
	Liked     bool      `json:"liked" db:"liked"`
}

// Follow 关注关系，(follower_id, following_id) 唯一
type Follow struct {
	ID          int       `json:"id" db:"id"`
	FollowerID  int       `json:"followerId" db:"follower_id" gorm:"uniqueIndex:idx_follows_pair"`
	FollowingID int       `json:"followingId" db:"following_id" gorm:"uniqueIndex:idx_follows_pair"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// List 用户自建片单
type List struct {
	ID          int       `json:"id" db:"id"`
	UserID      int       `json:"userId" db:"user_id" gorm:"index"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	IsPublic    bool      `json:"isPublic" db:"is_public"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// ListItem 片单条目，允许重复添加同一部电影
type ListItem struct {
	ID      int       `json:"id" db:"id"`
	ListID  int       `json:"listId" db:"list_id" gorm:"index"`
	MovieID int       `json:"movieId" db:"movie_id"`
	Notes   string    `json:"notes" db:"notes"`
	AddedAt time.Time `json:"addedAt" db:"added_at"`
}

// MovieCache TMDB 元数据缓存，按 tmdb_id 唯一
type MovieCache struct {
	ID          int             `json:"id" db:"id"`
	TMDBID      int             `json:"tmdbId" db:"tmdb_id" gorm:"column:tmdb_id;unique"`
	Data        json.RawMessage `json:"data" db:"data" gorm:"type:jsonb"`
	LastUpdated time.Time       `json:"lastUpdated" db:"last_updated"`
}

// TableName 指定表名（默认复数规则会生成 movie_caches）
func (MovieCache) TableName() string {
	return "movie_cache"
}

// SearchLog 代理搜索日志
type SearchLog struct {
	ID        int       `json:"id" db:"id"`
	Keyword   string    `json:"keyword" db:"keyword"`
	UserID    *int      `json:"userId" db:"user_id"`
	IPHash    string    `json:"ipHash" db:"ip_hash"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// TrendingKeyword 热搜关键词
type TrendingKeyword struct {
	Keyword        string    `json:"keyword" db:"keyword" gorm:"primaryKey"`
	Count          int       `json:"count" db:"count"`
	LastSearchedAt time.Time `json:"lastSearchedAt" db:"last_searched_at"`
}
