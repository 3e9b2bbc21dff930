package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/go-marketplace/internal/redisx"
	"github.com/redis/go-redis/v9"
)

// Sessions loads and mutates carts by session id.
type Sessions interface {
	Load(ctx context.Context, sid string) (Cart, error)
	Update(ctx context.Context, sid string, fn func(*Cart) error) (Cart, error)
}

var ErrConflict = errors.New("cart changed concurrently, retries exhausted")

const maxUpdateAttempts = 5

// Store keeps carts in Redis. Update runs fn inside WATCH/MULTI so
// concurrent requests for one session apply in sequence without lost updates.
type Store struct {
	RDB *redis.Client
	TTL time.Duration
}

func key(sid string) string { return fmt.Sprintf(redisx.KeyCart, sid) }

func (s *Store) Load(ctx context.Context, sid string) (Cart, error) {
	return read(ctx, s.RDB, sid)
}

func read(ctx context.Context, rdb redis.Cmdable, sid string) (Cart, error) {
	var c Cart
	b, err := rdb.Get(ctx, key(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return c, nil
	}
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return Cart{}, fmt.Errorf("decode cart: %w", err)
	}
	return c, nil
}

func (s *Store) Update(ctx context.Context, sid string, fn func(*Cart) error) (Cart, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = redisx.TTLCart
	}
	k := key(sid)

	var out Cart
	txf := func(tx *redis.Tx) error {
		c, err := read(ctx, tx, sid)
		if err != nil {
			return err
		}
		if err := fn(&c); err != nil {
			return err
		}
		var b []byte
		if len(c.Items) > 0 {
			if b, err = json.Marshal(c); err != nil {
				return err
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if b == nil {
				pipe.Del(ctx, k)
				return nil
			}
			pipe.Set(ctx, k, b, ttl)
			return nil
		})
		if err == nil {
			out = c
		}
		return err
	}

	for i := 0; i < maxUpdateAttempts; i++ {
		err := s.RDB.Watch(ctx, txf, k)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return out, err
	}
	return Cart{}, ErrConflict
}
