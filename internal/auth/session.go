package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionPrefix = "session:"

// SetSession stores the active token for a client with a TTL.
func SetSession(rdb *redis.Client, clientID, token string, ttl time.Duration) error {
	return rdb.Set(context.Background(), sessionPrefix+clientID, token, ttl).Err()
}

// GetSession returns the stored token for a client.
func GetSession(rdb *redis.Client, clientID string) (string, error) {
	return rdb.Get(context.Background(), sessionPrefix+clientID).Result()
}

// DeleteSession revokes a client's session.
func DeleteSession(rdb *redis.Client, clientID string) error {
	return rdb.Del(context.Background(), sessionPrefix+clientID).Err()
}
