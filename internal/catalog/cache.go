package catalog

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ariefcatur/go-marketplace/internal/redisx"
	"github.com/redis/go-redis/v9"
)

// SnapshotCache keeps the last good remote read in Redis.
type SnapshotCache struct{ RDB redis.Cmdable }

func (c *SnapshotCache) Save(ctx context.Context, products []Product) error {
	b, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return c.RDB.Set(ctx, redisx.KeyCatalogActive, b, redisx.TTLCatalogSnapshot).Err()
}

// Load reports ok=false when no snapshot is stored.
func (c *SnapshotCache) Load(ctx context.Context) ([]Product, bool, error) {
	b, err := c.RDB.Get(ctx, redisx.KeyCatalogActive).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var out []Product
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func (c *SnapshotCache) Invalidate(ctx context.Context) error {
	return c.RDB.Del(ctx, redisx.KeyCatalogActive).Err()
}
