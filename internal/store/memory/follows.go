package memory

import (
	"context"

	"rideconnect/internal/domain"
)

func (s *Store) CreateFollow(_ context.Context, f domain.Follow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.follows {
		if o.FollowID == f.FollowID || (o.FollowerID == f.FollowerID && o.FollowingID == f.FollowingID) {
			return domain.ErrConflict
		}
	}
	s.follows = append(s.follows, f)
	return nil
}

func (s *Store) findFollow(match func(domain.Follow) bool) (*domain.Follow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.follows {
		if match(f) {
			f := f
			return &f, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) FollowByID(_ context.Context, id string) (*domain.Follow, error) {
	return s.findFollow(func(f domain.Follow) bool { return f.FollowID == id })
}

func (s *Store) FollowBetween(_ context.Context, followerID, followingID string) (*domain.Follow, error) {
	return s.findFollow(func(f domain.Follow) bool {
		return f.FollowerID == followerID && f.FollowingID == followingID
	})
}

func (s *Store) UpdateFollowStatus(_ context.Context, id, from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.follows {
		if s.follows[i].FollowID == id && s.follows[i].Status == from {
			s.follows[i].Status = to
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *Store) DeleteFollow(_ context.Context, followerID, followingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			s.follows = append(s.follows[:i], s.follows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func followMatches(f domain.Follow, flt domain.FollowFilter) bool {
	return (flt.FollowerID == "" || f.FollowerID == flt.FollowerID) &&
		(flt.FollowingID == "" || f.FollowingID == flt.FollowingID) &&
		(flt.Status == "" || f.Status == flt.Status)
}

func (s *Store) ListFollows(_ context.Context, flt domain.FollowFilter) ([]domain.Follow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Follow
	for _, f := range s.follows {
		if followMatches(f, flt) {
			out = append(out, f)
		}
	}
	return limit(out, flt.Limit), nil
}

func (s *Store) CountFollows(_ context.Context, flt domain.FollowFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, f := range s.follows {
		if followMatches(f, flt) {
			n++
		}
	}
	return n, nil
}
