package memory

import (
	"context"
	"time"

	"rideconnect/internal/domain"
)

func (s *Store) CreateRide(_ context.Context, r domain.Ride) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.rides {
		if o.RideID == r.RideID {
			return domain.ErrConflict
		}
	}
	s.rides = append(s.rides, r)
	return nil
}

func (s *Store) rideIndex(id string) int {
	for i := range s.rides {
		if s.rides[i].RideID == id {
			return i
		}
	}
	return -1
}

func (s *Store) RideByID(_ context.Context, id string) (*domain.Ride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.rideIndex(id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	r := s.rides[i]
	return &r, nil
}

func (s *Store) UpdateRide(_ context.Context, id string, p domain.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.rideIndex(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	return apply(&s.rides[i], p)
}

func (s *Store) DeleteRide(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.rideIndex(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	s.rides = append(s.rides[:i], s.rides[i+1:]...)
	return nil
}

func rideMatches(r domain.Ride, f domain.RideFilter) bool {
	return (f.OwnerID == "" || r.UserID == f.OwnerID) &&
		(f.Status == "" || r.Status == f.Status) &&
		(f.RideType == "" || r.RideType == f.RideType) &&
		(f.Origin == "" || containsFold(r.Origin, f.Origin)) &&
		(f.Destination == "" || containsFold(r.Destination, f.Destination))
}

func (s *Store) ListRides(_ context.Context, f domain.RideFilter) ([]domain.Ride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Ride
	for _, r := range s.rides {
		if rideMatches(r, f) {
			out = append(out, r)
		}
	}
	out = newestFirst(out, func(r domain.Ride) time.Time { return r.CreatedAt })
	return limit(out, f.Limit), nil
}

func (s *Store) CountRides(_ context.Context, f domain.RideFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, r := range s.rides {
		if rideMatches(r, f) {
			n++
		}
	}
	return n, nil
}

// ---- ride requests ----

func isOpen(status string) bool {
	return status == domain.RequestPending || status == domain.RequestAccepted
}

func (s *Store) CreateRideRequest(_ context.Context, r domain.RideRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.requests {
		if o.RequestID == r.RequestID {
			return domain.ErrConflict
		}
		if isOpen(r.Status) && isOpen(o.Status) && o.RideID == r.RideID && o.RequesterID == r.RequesterID {
			return domain.ErrConflict
		}
	}
	s.requests = append(s.requests, r)
	return nil
}

func (s *Store) RideRequestByID(_ context.Context, id string) (*domain.RideRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.requests {
		if r.RequestID == id {
			r := r
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) OpenRideRequest(_ context.Context, rideID, requesterID string) (*domain.RideRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.requests {
		if r.RideID == rideID && r.RequesterID == requesterID && isOpen(r.Status) {
			r := r
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) ListRideRequests(_ context.Context, f domain.RideRequestFilter) ([]domain.RideRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rideSet := make(map[string]bool, len(f.RideIDs))
	for _, id := range f.RideIDs {
		rideSet[id] = true
	}
	var out []domain.RideRequest
	for _, r := range s.requests {
		if f.RequesterID != "" && r.RequesterID != f.RequesterID {
			continue
		}
		if f.RideIDs != nil && !rideSet[r.RideID] {
			continue
		}
		out = append(out, r)
	}
	out = newestFirst(out, func(r domain.RideRequest) time.Time { return r.CreatedAt })
	return limit(out, f.Limit), nil
}

func (s *Store) RespondRideRequest(_ context.Context, requestID, status string, takeSeat bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ri := -1
	for i := range s.requests {
		if s.requests[i].RequestID == requestID {
			ri = i
			break
		}
	}
	if ri < 0 {
		return 0, domain.ErrNotFound
	}
	if s.requests[ri].Status != domain.RequestPending {
		return 0, domain.ErrConflict
	}
	rideIdx := s.rideIndex(s.requests[ri].RideID)
	s.requests[ri].Status = status
	if rideIdx < 0 {
		return 0, nil
	}
	if takeSeat && s.rides[rideIdx].AvailableSeats > 0 {
		s.rides[rideIdx].AvailableSeats--
	}
	return s.rides[rideIdx].AvailableSeats, nil
}
