package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "taskhub:session:user:"

// Store keeps at most one live token id per user. Saving a new token id
// overwrites the previous one, which revokes every token issued before.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore creates a Store whose entries expire together with the tokens
// they back.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{
		rdb: rdb,
		ttl: ttl,
	}
}

// Save records tokenID as the only live token for userID.
func (s *Store) Save(ctx context.Context, userID uint, tokenID string) error {
	if err := s.rdb.Set(ctx, key(userID), tokenID, s.ttl).Err(); err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

// Validate reports whether tokenID is the live token for userID.
func (s *Store) Validate(ctx context.Context, userID uint, tokenID string) (bool, error) {
	val, err := s.rdb.Get(ctx, key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("session get: %w", err)
	}
	return val == tokenID, nil
}

// Revoke drops the live token for userID.
func (s *Store) Revoke(ctx context.Context, userID uint) error {
	if err := s.rdb.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("session del: %w", err)
	}
	return nil
}

func key(userID uint) string {
	return fmt.Sprintf("%s%d", keyPrefix, userID)
}
