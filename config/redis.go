package config

import (
	"context"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// InitRedis connects the optional transcript cache. Returns (false, nil) when
// no Redis address is configured; the cache is simply skipped in that case.
func InitRedis() (bool, error) {
	val := os.Getenv("REDIS_ADDR")
	if val == "" {
		val = os.Getenv("REDIS_URI")
	}
	if val == "" {
		return false, nil
	}

	if strings.HasPrefix(val, "redis://") || strings.HasPrefix(val, "rediss://") {
		opt, err := redis.ParseURL(val)
		if err != nil {
			return false, err
		}
		RedisClient = redis.NewClient(opt)
	} else {
		RedisClient = redis.NewClient(&redis.Options{Addr: val})
	}

	if _, err := RedisClient.Ping(context.Background()).Result(); err != nil {
		RedisClient = nil
		return false, err
	}
	return true, nil
}
