package follows

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"rideconnect/internal/domain"
	"rideconnect/internal/events"
)

const (
	pendingLimit = 100
	listLimit    = 1000
)

// Store is the persistence the follow graph needs.
type Store interface {
	domain.FollowStore
	UserByID(ctx context.Context, id string) (*domain.User, error)
}

// Service maintains the follow graph.
type Service struct {
	store  Store
	events events.Publisher
	now    func() time.Time
	log    *zap.SugaredLogger
}

// NewService creates the follow graph engine. pub may be nil.
func NewService(store Store, pub events.Publisher, log *zap.SugaredLogger) *Service {
	if pub == nil {
		pub = events.Noop{}
	}
	return &Service{store: store, events: pub, now: time.Now, log: log.Named("follows")}
}

func (s *Service) emit(topic string, f domain.Follow) {
	events.Emit(s.events, s.log, topic, f.FollowingID, events.FollowEvent{
		FollowID:    f.FollowID,
		FollowerID:  f.FollowerID,
		FollowingID: f.FollowingID,
		Status:      f.Status,
		At:          events.Now(),
	})
}

// Follow creates the edge actor -> targetID, accepted at once for public
// targets. An existing edge of any status is returned unchanged.
func (s *Service) Follow(ctx context.Context, actor *domain.User, targetID string) (*Result, error) {
	if actor.UserID == targetID {
		return nil, domain.InvalidOperation("Cannot follow yourself")
	}
	target, err := s.store.UserByID(ctx, targetID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}

	if existing, err := s.existing(ctx, actor.UserID, targetID); err != nil || existing != nil {
		return existing, err
	}

	f := domain.Follow{
		FollowID:    domain.NewID("follow"),
		FollowerID:  actor.UserID,
		FollowingID: targetID,
		Status:      domain.FollowPending,
		CreatedAt:   s.now().UTC(),
	}
	msg := "Follow request sent"
	if target.IsPublic {
		f.Status = domain.FollowAccepted
		msg = "Now following"
	}

	if err := s.store.CreateFollow(ctx, f); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// lost a race with an identical follow
			if existing, rerr := s.existing(ctx, actor.UserID, targetID); rerr != nil || existing != nil {
				return existing, rerr
			}
		}
		return nil, err
	}

	s.emit(events.TopicFollowCreated, f)
	return &Result{Message: msg, Status: f.Status}, nil
}

func (s *Service) existing(ctx context.Context, followerID, followingID string) (*Result, error) {
	f, err := s.store.FollowBetween(ctx, followerID, followingID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &Result{Message: "Already following or request pending", Status: f.Status}, nil
}

// Unfollow deletes the edge actor -> targetID whatever its status.
func (s *Service) Unfollow(ctx context.Context, actor *domain.User, targetID string) error {
	err := s.store.DeleteFollow(ctx, actor.UserID, targetID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NotFound("Not following this user")
	}
	if err != nil {
		return err
	}
	s.emit(events.TopicFollowDeleted, domain.Follow{FollowerID: actor.UserID, FollowingID: targetID})
	return nil
}

// Respond settles a pending request addressed to actor. It returns the new
// status.
func (s *Service) Respond(ctx context.Context, actor *domain.User, followID, action string) (string, error) {
	accept, err := domain.ParseAction(action)
	if err != nil {
		return "", err
	}
	notFound := domain.NotFound("Follow request not found")

	f, err := s.store.FollowByID(ctx, followID)
	if errors.Is(err, domain.ErrNotFound) {
		return "", notFound
	}
	if err != nil {
		return "", err
	}
	if f.FollowingID != actor.UserID || f.Status != domain.FollowPending {
		return "", notFound
	}

	to := domain.FollowRejected
	if accept {
		to = domain.FollowAccepted
	}
	if err := s.store.UpdateFollowStatus(ctx, followID, domain.FollowPending, to); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", notFound
		}
		return "", err
	}

	f.Status = to
	s.emit(events.TopicFollowResponded, *f)
	return to, nil
}

// PendingRequests lists requests awaiting actor's answer. Requests whose
// sender no longer exists are left out.
func (s *Service) PendingRequests(ctx context.Context, actor *domain.User) ([]Pending, error) {
	edges, err := s.store.ListFollows(ctx, domain.FollowFilter{
		FollowingID: actor.UserID,
		Status:      domain.FollowPending,
		Limit:       pendingLimit,
	})
	if err != nil {
		return nil, err
	}

	out := make([]Pending, 0, len(edges))
	for _, f := range edges {
		u, err := s.lookup(ctx, f.FollowerID)
		if err != nil {
			return nil, err
		}
		if u != nil {
			out = append(out, Pending{Follow: f, Follower: u})
		}
	}
	return out, nil
}

// Followers lists the accounts with an accepted edge to userID.
func (s *Service) Followers(ctx context.Context, userID string) ([]domain.User, error) {
	return s.counterparts(ctx, domain.FollowFilter{FollowingID: userID}, func(f domain.Follow) string { return f.FollowerID })
}

// Following lists the accounts userID follows with an accepted edge.
func (s *Service) Following(ctx context.Context, userID string) ([]domain.User, error) {
	return s.counterparts(ctx, domain.FollowFilter{FollowerID: userID}, func(f domain.Follow) string { return f.FollowingID })
}

func (s *Service) counterparts(ctx context.Context, flt domain.FollowFilter, other func(domain.Follow) string) ([]domain.User, error) {
	flt.Status = domain.FollowAccepted
	flt.Limit = listLimit
	edges, err := s.store.ListFollows(ctx, flt)
	if err != nil {
		return nil, err
	}

	out := make([]domain.User, 0, len(edges))
	for _, f := range edges {
		u, err := s.lookup(ctx, other(f))
		if err != nil {
			return nil, err
		}
		if u != nil {
			out = append(out, *u)
		}
	}
	return out, nil
}

// lookup is a best-effort join: a missing user is nil, not an error.
func (s *Service) lookup(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.store.UserByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return u, err
}

// Status reports actor's edge towards targetID. actor may be nil.
func (s *Service) Status(ctx context.Context, actor *domain.User, targetID string) (*Status, error) {
	if actor == nil {
		return &Status{}, nil
	}
	f, err := s.store.FollowBetween(ctx, actor.UserID, targetID)
	if errors.Is(err, domain.ErrNotFound) {
		return &Status{}, nil
	}
	if err != nil {
		return nil, err
	}
	status := f.Status
	return &Status{IsFollowing: f.Status == domain.FollowAccepted, Status: &status}, nil
}
