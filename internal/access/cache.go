package access

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/tatami/academy-backend/internal/config"
	"github.com/tatami/academy-backend/internal/model"
	"golang.org/x/crypto/blake2b"
)

// Fingerprint identifies one issued identity. Any change to the identity
// yields a different fingerprint.
func Fingerprint(id model.Identity) string {
	sum := blake2b.Sum256([]byte(id.ID + "\x00" + normalize(id.Email) + "\x00" + id.RawRole))
	return hex.EncodeToString(sum[:])
}

type cachedAccess struct {
	Fingerprint string                `json:"fp"`
	Access      model.EffectiveAccess `json:"access"`
}

// RedisCache stores one memoized access per user in Redis.
type RedisCache struct {
	rdb redis.Cmdable
	ttl time.Duration
	log zerolog.Logger
}

// NewRedisCache creates a RedisCache whose entries live for ttl.
func NewRedisCache(rdb redis.Cmdable, ttl time.Duration, log zerolog.Logger) *RedisCache {
	return &RedisCache{
		rdb: rdb,
		ttl: ttl,
		log: log.With().Str("component", "access_cache").Logger(),
	}
}

// Get returns the memoized access of id. Entries written for a different
// identity of the same user are misses.
func (c *RedisCache) Get(ctx context.Context, id model.Identity) (model.EffectiveAccess, bool) {
	raw, err := c.rdb.Get(ctx, config.CacheKey.UserAccessKey(id.ID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Debug().Err(err).Str("user_id", id.ID).Msg("access cache read failed")
		}
		return model.EffectiveAccess{}, false
	}

	var entry cachedAccess
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.log.Debug().Err(err).Str("user_id", id.ID).Msg("access cache entry corrupt")
		return model.EffectiveAccess{}, false
	}
	if entry.Fingerprint != Fingerprint(id) || entry.Access.UserID != id.ID {
		return model.EffectiveAccess{}, false
	}
	return entry.Access, true
}

// Set memoizes access for id.
func (c *RedisCache) Set(ctx context.Context, id model.Identity, access model.EffectiveAccess) {
	raw, err := json.Marshal(cachedAccess{Fingerprint: Fingerprint(id), Access: access})
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, config.CacheKey.UserAccessKey(id.ID), raw, c.ttl).Err(); err != nil {
		c.log.Debug().Err(err).Str("user_id", id.ID).Msg("access cache write failed")
	}
}

// Invalidate removes the memoized access of userID.
func (c *RedisCache) Invalidate(ctx context.Context, userID string) error {
	return c.rdb.Del(ctx, config.CacheKey.UserAccessKey(userID)).Err()
}
