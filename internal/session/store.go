package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Retention is the fixed session lifetime. It is set once at login and never
// refreshed, so a session expires 7 days after creation regardless of
// activity.
const Retention = 7 * 24 * time.Hour

// ErrNotFound reports a session that is absent or expired.
var ErrNotFound = errors.New("session not found")

// Session binds an opaque token to a user identity. ConnectionID points at
// the user's live connection while one is open; it is best-effort presence,
// not a source of truth.
type Session struct {
	ID           string    `json:"id"`
	UserID       uint      `json:"user_id"`
	ConnectionID string    `json:"connection_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store keeps sessions in Redis. Expiry rides on the key TTL; the
// user_session secondary key enforces at most one active session per user.
type Store struct {
	rdb *redis.Client
}

// NewStore wraps a connected Redis client.
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func sessionKey(token string) string { return fmt.Sprintf("session:%s", token) }
func userKey(userID uint) string     { return fmt.Sprintf("user_session:%d", userID) }

// Create issues a fresh session for the user, invalidating any session the
// user already holds.
func (s *Store) Create(ctx context.Context, userID uint) (*Session, error) {
	// At most one active session per user: drop the previous one first.
	if prev, err := s.rdb.Get(ctx, userKey(userID)).Result(); err == nil {
		s.rdb.Del(ctx, sessionKey(prev))
	}

	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	payload, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.rdb.Set(ctx, sessionKey(sess.ID), payload, Retention).Err(); err != nil {
		return nil, fmt.Errorf("failed to set session: %w", err)
	}
	if err := s.rdb.Set(ctx, userKey(userID), sess.ID, Retention).Err(); err != nil {
		return nil, fmt.Errorf("failed to index session by user: %w", err)
	}
	return sess, nil
}

// Get resolves a token to its session.
func (s *Store) Get(ctx context.Context, token string) (*Session, error) {
	payload, err := s.rdb.Get(ctx, sessionKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(payload), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

// Delete removes a session (logout).
func (s *Store) Delete(ctx context.Context, token string) error {
	if sess, err := s.Get(ctx, token); err == nil {
		s.rdb.Del(ctx, userKey(sess.UserID))
	}
	if err := s.rdb.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// SetConnection records the live-connection pointer on the session,
// preserving the remaining TTL.
func (s *Store) SetConnection(ctx context.Context, token, connectionID string) error {
	return s.updateConnection(ctx, token, connectionID)
}

// ClearConnection drops the live-connection pointer on disconnect.
func (s *Store) ClearConnection(ctx context.Context, token string) error {
	return s.updateConnection(ctx, token, "")
}

func (s *Store) updateConnection(ctx context.Context, token, connectionID string) error {
	sess, err := s.Get(ctx, token)
	if err != nil {
		return err
	}
	sess.ConnectionID = connectionID

	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl, err := s.rdb.TTL(ctx, sessionKey(token)).Result()
	if err != nil {
		return fmt.Errorf("failed to get session TTL: %w", err)
	}

	if err := s.rdb.Set(ctx, sessionKey(token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return nil
}
