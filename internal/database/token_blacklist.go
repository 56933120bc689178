package database

import (
	"context"
	"time"
)

const tokenBlacklistPrefix = "dialforge:blacklist:"

// BlacklistToken marks a JWT as revoked until its natural expiry.
// Called on logout so the cookie cannot be replayed.
func BlacklistToken(token string, ttl time.Duration) error {
	if Redis == nil || ttl <= 0 {
		return nil
	}
	ctx := context.Background()
	return Redis.Set(ctx, tokenBlacklistPrefix+token, "1", ttl).Err()
}

// IsTokenBlacklisted checks whether a token was revoked via logout
func IsTokenBlacklisted(token string) bool {
	if Redis == nil {
		return false
	}
	ctx := context.Background()
	n, err := Redis.Exists(ctx, tokenBlacklistPrefix+token).Result()
	return err == nil && n > 0
}
