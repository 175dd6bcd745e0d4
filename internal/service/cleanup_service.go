package service

import (
	"log"
	"time"

	"github.com/user/cinelog/internal/repository"
)

// 保留期：元数据缓存 30 天，搜索日志与热搜关键词 30 天
const (
	cacheRetention   = 30 * 24 * time.Hour
	logRetentionDays = 30
)

// CleanupService 清理服务
type CleanupService struct {
	repos *repository.Repositories
}

// NewCleanupService 创建清理服务
func NewCleanupService(repos *repository.Repositories) *CleanupService {
	return &CleanupService{repos: repos}
}

// Start 启动定时清理任务
func (s *CleanupService) Start() {
	ticker := time.NewTicker(24 * time.Hour)

	// 启动时先运行一次
	go s.runCleanup()

	go func() {
		for range ticker.C {
			s.runCleanup()
		}
	}()
}

func (s *CleanupService) runCleanup() {
	log.Println("[Cleanup] 开始清理过期数据...")

	// 1. 清理过期的元数据缓存
	affected, err := s.repos.MovieCache.DeleteOlderThan(cacheRetention)
	if err != nil {
		log.Printf("[Cleanup] 清理元数据缓存失败: %v", err)
	} else if affected > 0 {
		log.Printf("[Cleanup] 已清理 %d 条过期元数据缓存", affected)
	}

	// 2. 清理旧搜索日志
	cleanedLogs, err := s.repos.SearchLog.DeleteOldLogs(logRetentionDays)
	if err != nil {
		log.Printf("[Cleanup] 清理搜索日志失败: %v", err)
	} else if cleanedLogs > 0 {
		log.Printf("[Cleanup] 已清理 %d 条旧搜索日志", cleanedLogs)
	}

	// 3. 清理长期未搜索的热搜关键词
	cleanedKeywords, err := s.repos.SearchLog.DeleteOldKeywords(logRetentionDays)
	if err != nil {
		log.Printf("[Cleanup] 清理热搜关键词失败: %v", err)
	} else if cleanedKeywords > 0 {
		log.Printf("[Cleanup] 已清理 %d 条热搜关键词", cleanedKeywords)
	}
}
