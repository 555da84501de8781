package cache

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds per-namespace cache settings
type Config struct {
	Prefix string
	TTL    time.Duration
}

var QuizCacheConfig = Config{Prefix: "quiz", TTL: 10 * time.Minute}

// CacheManager groups the caches used by repositories
type CacheManager struct {
	Quiz    CacheService
	QuizTTL time.Duration
}

func NewCacheManager(client *redis.Client, quizTTL time.Duration, logger *slog.Logger) *CacheManager {
	if quizTTL <= 0 {
		quizTTL = QuizCacheConfig.TTL
	}
	return &CacheManager{
		Quiz:    NewRedisCache(client, QuizCacheConfig.Prefix, logger),
		QuizTTL: quizTTL,
	}
}
