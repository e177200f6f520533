package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Sindhurirompikuntla/Capstone/internal/models"
)

const (
	keyPrefix  = "transcript:"
	defaultTTL = 15 * time.Minute
)

type RedisTranscriptCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisTranscriptCache(rdb *redis.Client) *RedisTranscriptCache {
	return &RedisTranscriptCache{rdb: rdb, ttl: defaultTTL}
}

func (c *RedisTranscriptCache) Get(ctx context.Context, transcriptID string) (*models.TranscriptEntry, bool) {
	s, err := c.rdb.Get(ctx, keyPrefix+transcriptID).Result()
	if err != nil {
		return nil, false
	}

	var entry models.TranscriptEntry
	if err := json.Unmarshal([]byte(s), &entry); err != nil {
		// corrupt entry: treat as miss by deleting
		_ = c.rdb.Del(ctx, keyPrefix+transcriptID).Err()
		return nil, false
	}
	return &entry, true
}

func (c *RedisTranscriptCache) Set(ctx context.Context, entry *models.TranscriptEntry) {
	b, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, keyPrefix+entry.TranscriptID, b, c.ttl).Err()
}
