package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResetTokens stores password reset tokens in Redis with a fixed TTL.
type ResetTokens struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewResetTokens(rdb *redis.Client, ttl time.Duration) *ResetTokens {
	return &ResetTokens{rdb: rdb, ttl: ttl}
}

func keyResetToken(t string) string { return "pwd:reset:token:" + t }

func (s *ResetTokens) Save(ctx context.Context, token, userID string) error {
	return s.rdb.Set(ctx, keyResetToken(token), userID, s.ttl).Err()
}

// Consume returns the user id for token and removes it in the same round
// trip, so a token redeems at most once. Unknown or expired tokens yield "".
func (s *ResetTokens) Consume(ctx context.Context, token string) (string, error) {
	uid, err := s.rdb.GetDel(ctx, keyResetToken(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return uid, err
}
