package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/GregMSThompson/transactions-backend/pkg/logger"
)

// resultCache stores encoded read results. Purge bumps the generation instead
// of deleting entries; older generations are never read again and expire.
type resultCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	Purge(ctx context.Context) error
}

func generationKey(gen int64, key string) string {
	return fmt.Sprintf("g%d:%s", gen, key)
}

// cached serves key from c when present, otherwise runs load and stores its
// JSON encoding. The generation is read before load, so a result computed
// across a purge is filed under the old generation. A nil cache always runs load.
func cached[T any](ctx context.Context, c resultCache, key string, load func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return load(ctx)
	}
	log := logger.FromContext(ctx)

	gen, err := c.Generation(ctx)
	if err != nil {
		log.Warn("cache generation unavailable, bypassing cache", "key", key, "error", err)
		return load(ctx)
	}
	key = generationKey(gen, key)

	if data, ok := c.Get(ctx, key); ok {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			return v, nil
		}
		log.Warn("discarding undecodable cache entry", "key", key)
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if data, err := json.Marshal(v); err == nil {
		c.Set(ctx, key, data)
	}
	return v, nil
}
