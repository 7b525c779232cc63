// Package stats serves the public profile counters.
package stats

import (
	"context"
	"time"

	"go.uber.org/zap"

	"rideconnect/internal/domain"
)

// CacheTTL bounds how stale cached counters can get when no invalidation
// arrives.
const CacheTTL = 5 * time.Minute

// Cache holds computed counters. GetStats returns nil, nil on a miss.
type Cache interface {
	GetStats(ctx context.Context, userID string) (*domain.Stats, error)
	SetStats(ctx context.Context, userID string, s domain.Stats, ttl time.Duration) error
	DeleteStats(ctx context.Context, userIDs ...string) error
}

// Store is the persistence the counters are computed from.
type Store interface {
	CountFollows(ctx context.Context, f domain.FollowFilter) (int64, error)
	CountRides(ctx context.Context, f domain.RideFilter) (int64, error)
}

type Service struct {
	store Store
	cache Cache
	log   *zap.SugaredLogger
}

// NewService creates the stats service. cache may be nil.
func NewService(store Store, cache Cache, log *zap.SugaredLogger) *Service {
	return &Service{store: store, cache: cache, log: log.Named("stats")}
}

// Stats counts accepted followers, accepted followings and all rides of
// userID. Unknown users have all-zero counters.
func (s *Service) Stats(ctx context.Context, userID string) (*domain.Stats, error) {
	if s.cache != nil {
		cached, err := s.cache.GetStats(ctx, userID)
		if err != nil {
			s.log.Warnw("stats cache read failed", "user_id", userID, "err", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	var (
		st  domain.Stats
		err error
	)
	if st.Followers, err = s.store.CountFollows(ctx, domain.FollowFilter{FollowingID: userID, Status: domain.FollowAccepted}); err != nil {
		return nil, err
	}
	if st.Following, err = s.store.CountFollows(ctx, domain.FollowFilter{FollowerID: userID, Status: domain.FollowAccepted}); err != nil {
		return nil, err
	}
	if st.Rides, err = s.store.CountRides(ctx, domain.RideFilter{OwnerID: userID}); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetStats(ctx, userID, st, CacheTTL); err != nil {
			s.log.Warnw("stats cache write failed", "user_id", userID, "err", err)
		}
	}
	return &st, nil
}
