package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/user/cinelog/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ErrDuplicate 唯一约束冲突（依赖数据库唯一索引，写入即判重，无检查-插入竞态）
var ErrDuplicate = errors.New("duplicate record")

// InitDB 初始化数据库连接
func InitDB(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	// 设置连接池
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	// 自动迁移
	if err := db.AutoMigrate(
		&model.User{},
		&model.WatchlistItem{},
		&model.Favorite{},
		&model.DiaryEntry{},
		&model.Follow{},
		&model.List{},
		&model.ListItem{},
		&model.MovieCache{},
		&model.SearchLog{},
		&model.TrendingKeyword{},
	); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// UserStore 用户存储接口
type UserStore interface {
	Create(email, username, password string) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	FindByID(id int) (*model.User, error)
	CheckPassword(user *model.User, password string) bool
	UpdateProfile(userID int, fields map[string]interface{}) (*model.User, error)
}

// WatchlistStore 想看清单存储接口
type WatchlistStore interface {
	Add(userID, movieID int) (*model.WatchlistItem, error)
	Remove(userID, movieID int) error
	ListByUser(userID int) ([]*model.WatchlistItem, error)
	IsInWatchlist(userID, movieID int) (bool, error)
}

// FavoriteStore 喜爱电影存储接口
type FavoriteStore interface {
	Add(userID, movieID int) (*model.Favorite, error)
	Remove(userID, movieID int) error
	ListByUser(userID int) ([]*model.Favorite, error)
	IsFavorited(userID, movieID int) (bool, error)
}

// DiaryStore 观影日记存储接口
type DiaryStore interface {
	Add(entry *model.DiaryEntry) error
	GetByID(id int) (*model.DiaryEntry, error)
	Update(id int, fields map[string]interface{}) (*model.DiaryEntry, error)
	Remove(id int) error
	ListByUser(userID int) ([]*model.DiaryEntry, error)
	HasWatched(userID, movieID int) (bool, error)
	LogFromWatchlist(entry *model.DiaryEntry) error
}

// FollowStore 关注关系存储接口
type FollowStore interface {
	Follow(followerID, followingID int) (*model.Follow, error)
	Unfollow(followerID, followingID int) error
	Followers(userID int) ([]*model.Follow, error)
	Following(userID int) ([]*model.Follow, error)
	IsFollowing(followerID, followingID int) (bool, error)
}

// ListStore 片单存储接口
type ListStore interface {
	Create(list *model.List) error
	GetByID(id int) (*model.List, error)
	Update(id int, fields map[string]interface{}) (*model.List, error)
	Delete(id int) error
	ListByUser(userID int) ([]*model.List, error)
	AddItem(item *model.ListItem) error
	RemoveItem(listID, movieID int) error
	Items(listID int) ([]*model.ListItem, error)
}

// MovieCacheStore 元数据缓存存储接口
type MovieCacheStore interface {
	Upsert(tmdbID int, data json.RawMessage) error
	Get(tmdbID int) (*model.MovieCache, error)
	DeleteOlderThan(age time.Duration) (int64, error)
}

// SearchLogStore 搜索日志存储接口
type SearchLogStore interface {
	Log(keyword string, userID *int, ipHash string) error
	GetTrending(hours, limit int) ([]*model.TrendingKeyword, error)
	DeleteOldLogs(days int) (int64, error)
	DeleteOldKeywords(days int) (int64, error)
}

// Repositories 仓库集合
type Repositories struct {
	User       UserStore
	Watchlist  WatchlistStore
	Favorite   FavoriteStore
	Diary      DiaryStore
	Follow     FollowStore
	List       ListStore
	MovieCache MovieCacheStore
	SearchLog  SearchLogStore
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:       NewUserRepository(db),
		Watchlist:  NewWatchlistRepository(db),
		Favorite:   NewFavoriteRepository(db),
		Diary:      NewDiaryRepository(db),
		Follow:     NewFollowRepository(db),
		List:       NewListRepository(db),
		MovieCache: NewMovieCacheRepository(db),
		SearchLog:  NewSearchLogRepository(db),
	}
}
