package rides

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"rideconnect/internal/domain"
	"rideconnect/internal/events"
	"rideconnect/pkg/validation"
)

const requestListLimit = 100

// RequestStore is the persistence the request workflow needs.
type RequestStore interface {
	domain.RideRequestStore
	domain.RideStore
	UserByID(ctx context.Context, id string) (*domain.User, error)
}

// RequestService runs the seat request workflow:
// pending -> accepted | rejected, once.
type RequestService struct {
	store  RequestStore
	events events.Publisher
	now    func() time.Time
	log    *zap.SugaredLogger
}

// NewRequestService creates the workflow. pub may be nil.
func NewRequestService(store RequestStore, pub events.Publisher, log *zap.SugaredLogger) *RequestService {
	if pub == nil {
		pub = events.Noop{}
	}
	return &RequestService{store: store, events: pub, now: time.Now, log: log.Named("ride_requests")}
}

func (s *RequestService) emit(topic string, req domain.RideRequest, ownerID string, seats *int) {
	events.Emit(s.events, s.log, topic, req.RideID, events.RideRequestEvent{
		RequestID:      req.RequestID,
		RideID:         req.RideID,
		RequesterID:    req.RequesterID,
		OwnerID:        ownerID,
		Status:         req.Status,
		AvailableSeats: seats,
		At:             events.Now(),
	})
}

// Request asks for a seat on a ride actor does not own. Only one pending or
// accepted request per requester and ride may exist.
func (s *RequestService) Request(ctx context.Context, actor *domain.User, in SeatRequest) (*domain.RideRequest, error) {
	ride, err := s.store.RideByID(ctx, in.RideID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("Ride not found")
	}
	if err != nil {
		return nil, err
	}
	if ride.UserID == actor.UserID {
		return nil, domain.InvalidOperation("Cannot request your own ride")
	}
	if in.Message != nil && !validation.ValidateMessage(*in.Message) {
		return nil, domain.InvalidOperation("message is too long")
	}

	duplicate := domain.Conflict("Already requested this ride")
	_, err = s.store.OpenRideRequest(ctx, ride.RideID, actor.UserID)
	switch {
	case err == nil:
		return nil, duplicate
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	req := domain.RideRequest{
		RequestID:   domain.NewID("req"),
		RideID:      ride.RideID,
		RequesterID: actor.UserID,
		Status:      domain.RequestPending,
		Message:     in.Message,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.CreateRideRequest(ctx, req); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, duplicate
		}
		return nil, err
	}

	s.emit(events.TopicRideRequestCreated, req, ride.UserID, nil)
	return &req, nil
}

// rideOrNil is a best-effort join.
func (s *RequestService) rideOrNil(ctx context.Context, id string) (*domain.Ride, error) {
	r, err := s.store.RideByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return r, err
}

func (s *RequestService) userOrNil(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.store.UserByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return u, err
}

// MyRequests lists the requests actor made, newest first.
func (s *RequestService) MyRequests(ctx context.Context, actor *domain.User) ([]SentRequest, error) {
	reqs, err := s.store.ListRideRequests(ctx, domain.RideRequestFilter{
		RequesterID: actor.UserID,
		Limit:       requestListLimit,
	})
	if err != nil {
		return nil, err
	}

	out := make([]SentRequest, 0, len(reqs))
	for _, req := range reqs {
		ride, err := s.rideOrNil(ctx, req.RideID)
		if err != nil {
			return nil, err
		}
		out = append(out, SentRequest{RideRequest: req, Ride: ride})
	}
	return out, nil
}

// ReceivedRequests lists requests against actor's rides, newest first.
func (s *RequestService) ReceivedRequests(ctx context.Context, actor *domain.User) ([]ReceivedRequest, error) {
	mine, err := s.store.ListRides(ctx, domain.RideFilter{OwnerID: actor.UserID, Limit: requestListLimit})
	if err != nil {
		return nil, err
	}
	out := []ReceivedRequest{}
	if len(mine) == 0 {
		return out, nil
	}

	byID := make(map[string]*domain.Ride, len(mine))
	ids := make([]string, 0, len(mine))
	for i := range mine {
		byID[mine[i].RideID] = &mine[i]
		ids = append(ids, mine[i].RideID)
	}

	reqs, err := s.store.ListRideRequests(ctx, domain.RideRequestFilter{RideIDs: ids, Limit: requestListLimit})
	if err != nil {
		return nil, err
	}
	for _, req := range reqs {
		requester, err := s.userOrNil(ctx, req.RequesterID)
		if err != nil {
			return nil, err
		}
		out = append(out, ReceivedRequest{RideRequest: req, Requester: requester, Ride: byID[req.RideID]})
	}
	return out, nil
}

// Respond lets the ride owner accept or reject a pending request. Accepting
// takes one seat if any is left; at zero seats the request is still
// accepted. It returns the new status.
func (s *RequestService) Respond(ctx context.Context, actor *domain.User, requestID, action string) (string, error) {
	req, err := s.store.RideRequestByID(ctx, requestID)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.NotFound("Request not found")
	}
	if err != nil {
		return "", err
	}

	ride, err := s.rideOrNil(ctx, req.RideID)
	if err != nil {
		return "", err
	}
	if ride == nil || ride.UserID != actor.UserID {
		return "", domain.Forbidden("Not authorized")
	}

	accept, err := domain.ParseAction(action)
	if err != nil {
		return "", err
	}
	status := domain.RequestRejected
	if accept {
		status = domain.RequestAccepted
	}

	seats, err := s.store.RespondRideRequest(ctx, requestID, status, accept)
	switch {
	case errors.Is(err, domain.ErrConflict):
		return "", domain.Conflict("Request is no longer pending")
	case errors.Is(err, domain.ErrNotFound):
		return "", domain.NotFound("Request not found")
	case err != nil:
		return "", err
	}

	req.Status = status
	s.emit(events.TopicRideRequestResponded, *req, ride.UserID, &seats)
	s.log.Debugw("ride request settled", "request_id", requestID, "status", status, "available_seats", seats)
	return status, nil
}
