package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/go-marketplace/internal/redisx"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Sessions maps opaque bearer tokens to user ids in Redis.
type Sessions struct {
	RDB redis.Cmdable
	TTL time.Duration
}

func sessionKey(token string) string { return fmt.Sprintf(redisx.KeySession, token) }

func (s *Sessions) Issue(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := s.RDB.Set(ctx, sessionKey(token), userID, s.TTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Lookup returns ErrNoSession for unknown or expired tokens.
func (s *Sessions) Lookup(ctx context.Context, token string) (string, error) {
	id, err := s.RDB.Get(ctx, sessionKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoSession
	}
	return id, err
}

func (s *Sessions) Revoke(ctx context.Context, token string) error {
	return s.RDB.Del(ctx, sessionKey(token)).Err()
}
