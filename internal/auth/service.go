package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"rideconnect/internal/domain"
)

// DefaultTTL is the lifetime of a freshly issued session.
const DefaultTTL = 7 * 24 * time.Hour

// maxCacheTTL bounds how long a resolved session stays in the cache.
const maxCacheTTL = 5 * time.Minute

// revokedTTL is how long a revoked token stays marked in the cache. It must
// outlive any entry a reader could still write back after the revoke.
const revokedTTL = 2 * maxCacheTTL

// tokenBytes of entropy per session token (256 bits).
const tokenBytes = 32

// SessionCache is an optional read-through cache in front of the session
// store. GetSession returns nil, nil on a miss and for revoked tokens.
type SessionCache interface {
	GetSession(ctx context.Context, token string) (*domain.Session, error)
	SetSession(ctx context.Context, s domain.Session, ttl time.Duration) error
	// RevokeSession evicts the entry and marks token revoked for ttl.
	RevokeSession(ctx context.Context, token string, ttl time.Duration) error
}

// Store is what the session manager needs from persistence.
type Store interface {
	domain.SessionStore
	UserByID(ctx context.Context, id string) (*domain.User, error)
}

// Service issues, resolves and revokes session tokens.
type Service struct {
	store Store
	cache SessionCache
	ttl   time.Duration
	now   func() time.Time
	log   *zap.SugaredLogger
}

// NewService creates a session manager. cache may be nil.
func NewService(store Store, cache SessionCache, ttl time.Duration, log *zap.SugaredLogger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{store: store, cache: cache, ttl: ttl, now: time.Now, log: log.Named("auth")}
}

// TTL is the lifetime given to new sessions.
func (s *Service) TTL() time.Duration { return s.ttl }

// NewToken returns a URL-safe random token.
func NewToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Issue creates a new session for userID and returns its token.
func (s *Service) Issue(ctx context.Context, userID string) (string, error) {
	token, err := NewToken()
	if err != nil {
		return "", err
	}
	if err := s.IssueToken(ctx, userID, token); err != nil {
		return "", err
	}
	return token, nil
}

// IssueToken stores a session bound to a caller supplied token. An already
// stored token is refused rather than shared between sessions.
func (s *Service) IssueToken(ctx context.Context, userID, token string) error {
	if token == "" {
		return domain.InvalidOperation("session token required")
	}
	_, err := s.store.SessionByToken(ctx, token)
	switch {
	case err == nil:
		return domain.Conflict("session token already in use")
	case !errors.Is(err, domain.ErrNotFound):
		return err
	}

	now := s.now().UTC()
	sess := domain.Session{
		UserID:       userID,
		SessionToken: token,
		ExpiresAt:    now.Add(s.ttl),
		CreatedAt:    now,
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.Conflict("session token already in use")
		}
		return err
	}
	return nil
}

// Resolve returns the user behind token, or nil when the token is unknown,
// expired, or orphaned. Expired rows are left in the store.
func (s *Service) Resolve(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}
	sess, err := s.lookup(ctx, token)
	if err != nil || sess == nil {
		return nil, err
	}
	if sess.Expired(s.now()) {
		return nil, nil
	}

	u, err := s.store.UserByID(ctx, sess.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) lookup(ctx context.Context, token string) (*domain.Session, error) {
	if s.cache != nil {
		sess, err := s.cache.GetSession(ctx, token)
		if err != nil {
			s.log.Warnw("session cache read failed", "err", err)
		} else if sess != nil {
			return sess, nil
		}
	}

	sess, err := s.store.SessionByToken(ctx, token)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		ttl := sess.ExpiresAt.Sub(s.now())
		if ttl > maxCacheTTL {
			ttl = maxCacheTTL
		}
		if ttl > 0 {
			if err := s.cache.SetSession(ctx, *sess, ttl); err != nil {
				s.log.Warnw("session cache write failed", "err", err)
			}
		}
	}
	return sess, nil
}

// Require is Resolve that fails with Unauthenticated instead of returning nil.
func (s *Service) Require(ctx context.Context, token string) (*domain.User, error) {
	u, err := s.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUnauthenticated
	}
	return u, nil
}

// Revoke deletes the session; unknown tokens are ignored. The row goes
// first so a concurrent Resolve cannot reload it into the cache, and the
// revoked mark hides entries written by readers that loaded it earlier.
func (s *Service) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.store.DeleteSession(ctx, token); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.RevokeSession(ctx, token, revokedTTL); err != nil {
			return fmt.Errorf("session cache revoke: %w", err)
		}
	}
	return nil
}
