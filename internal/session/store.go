package session

import (
	"context"
	"fmt"
	"time"

	"github.com/pizzastack/pizzastack-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Store tracks the single active session token per user. Setting a new
// token displaces the previous one, so a re-issued token (login, profile
// update) immediately invalidates the old session and any stale role
// snapshot it carried. Entries expire with the token validity window.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a session store backed by the given Redis client.
// ttl must match the token expiry so entries vanish with their tokens.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

func sessionKey(userID uint) string {
	return fmt.Sprintf("session:%d", userID)
}

// Set records token as the active session for the user, displacing any
// previous token.
func (s *Store) Set(ctx context.Context, userID uint, token string) error {
	if err := s.client.Set(ctx, sessionKey(userID), token, s.ttl).Err(); err != nil {
		logger.Error("Failed to store session token", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	logger.Debug("Session token stored", map[string]interface{}{
		"user_id": userID,
		"ttl":     s.ttl.String(),
	})
	return nil
}

// IsActive reports whether token is the user's current active session.
func (s *Store) IsActive(ctx context.Context, userID uint, token string) (bool, error) {
	val, err := s.client.Get(ctx, sessionKey(userID)).Result()
	if err == redis.Nil {
		// No session entry - token was never issued or already revoked
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check session token", err, map[string]interface{}{
			"user_id": userID,
		})
		return false, err
	}

	return val == token, nil
}

// Delete removes the user's active session (logout).
func (s *Store) Delete(ctx context.Context, userID uint) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		logger.Error("Failed to delete session token", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	logger.Debug("Session token deleted", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}
