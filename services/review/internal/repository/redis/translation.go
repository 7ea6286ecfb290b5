package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/moviereviews/backend/services/review/internal/domain"
	"github.com/moviereviews/backend/services/review/internal/repository"
)

const keyPrefix = "translation:"

// TranslationCache is a read-through Redis layer in front of the durable
// translation store. Redis failures are logged and fall through to the store.
type TranslationCache struct {
	client *redis.Client
	next   repository.TranslationRepository
	ttl    time.Duration
	logger *slog.Logger
}

var _ repository.TranslationRepository = (*TranslationCache)(nil)

// NewTranslationCache wraps next with a Redis cache whose entries expire after ttl.
func NewTranslationCache(client *redis.Client, next repository.TranslationRepository, ttl time.Duration, logger *slog.Logger) *TranslationCache {
	return &TranslationCache{
		client: client,
		next:   next,
		ttl:    ttl,
		logger: logger,
	}
}

func cacheKey(reviewID int64, language string) string {
	return fmt.Sprintf("%s%d:%s", keyPrefix, reviewID, language)
}

// Get returns the translation from Redis, or loads it from the store and
// fills Redis on the way back.
func (c *TranslationCache) Get(ctx context.Context, reviewID int64, language string) (*domain.Translation, error) {
	key := cacheKey(reviewID, language)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var t domain.Translation
		if err := json.Unmarshal(data, &t); err == nil {
			return &t, nil
		}
		c.logger.WarnContext(ctx, "discarding corrupt cached translation", slog.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.logger.WarnContext(ctx, "redis get translation failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}

	t, err := c.next.Get(ctx, reviewID, language)
	if err != nil {
		return nil, err
	}
	c.fill(ctx, key, t)
	return t, nil
}

// Put writes through to the store, then refreshes Redis.
func (c *TranslationCache) Put(ctx context.Context, t *domain.Translation) error {
	if err := c.next.Put(ctx, t); err != nil {
		return err
	}
	c.fill(ctx, cacheKey(t.ReviewID, t.Language), t)
	return nil
}

func (c *TranslationCache) fill(ctx context.Context, key string, t *domain.Translation) {
	data, err := json.Marshal(t)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "redis set translation failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}
