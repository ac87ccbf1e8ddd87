package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// TokenDenylist records revoked token IDs in redis. Entries expire together
// with the token they revoke, so the set never outgrows live tokens.
type TokenDenylist struct {
	client *redisv9.Client
	prefix string
}

func NewTokenDenylist(client *redisv9.Client) *TokenDenylist {
	return &TokenDenylist{
		client: client,
		prefix: "feedgraph:revoked:",
	}
}

func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" {
		return errors.New("revoke token failed: empty token id")
	}
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, d.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis set revoked token failed: %w", err)
	}
	return nil
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis check revoked token failed: %w", err)
	}
	return n > 0, nil
}

func (d *TokenDenylist) key(tokenID string) string {
	return d.prefix + tokenID
}
