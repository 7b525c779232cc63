package rides

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"rideconnect/internal/domain"
	"rideconnect/internal/events"
	"rideconnect/pkg/validation"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
	mineLimit        = 100
)

// Store is the persistence the ride ledger needs.
type Store interface {
	domain.RideStore
	UserByID(ctx context.Context, id string) (*domain.User, error)
}

// Service is the ride ledger.
type Service struct {
	store  Store
	events events.Publisher
	now    func() time.Time
	log    *zap.SugaredLogger
}

// NewService creates the ledger. pub may be nil.
func NewService(store Store, pub events.Publisher, log *zap.SugaredLogger) *Service {
	if pub == nil {
		pub = events.Noop{}
	}
	return &Service{store: store, events: pub, now: time.Now, log: log.Named("rides")}
}

func (s *Service) emit(topic string, r domain.Ride) {
	events.Emit(s.events, s.log, topic, r.RideID, events.RideEvent{
		RideID: r.RideID,
		UserID: r.UserID,
		Status: r.Status,
		At:     events.Now(),
	})
}

func (req *CreateRequest) validate() error {
	req.Origin = strings.TrimSpace(req.Origin)
	req.Destination = strings.TrimSpace(req.Destination)
	if req.RideType == "" {
		req.RideType = domain.RideOffering
	}
	switch {
	case !validation.ValidatePlace(req.Origin):
		return domain.InvalidOperation("origin is required")
	case !validation.ValidatePlace(req.Destination):
		return domain.InvalidOperation("destination is required")
	case req.DateTime.IsZero():
		return domain.InvalidOperation("date_time is required")
	case !validation.ValidateSeats(req.AvailableSeats):
		return domain.InvalidOperation("invalid available_seats")
	case !domain.ValidRideType(req.RideType):
		return domain.InvalidOperation("ride_type must be offering or requesting")
	}
	return nil
}

// Create posts a new active ride owned by actor.
func (s *Service) Create(ctx context.Context, actor *domain.User, req CreateRequest) (*domain.Ride, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	r := domain.Ride{
		RideID:         domain.NewID("ride"),
		UserID:         actor.UserID,
		Origin:         req.Origin,
		Destination:    req.Destination,
		DateTime:       req.DateTime.UTC(),
		AvailableSeats: req.AvailableSeats,
		Price:          req.Price,
		CarDetails:     req.CarDetails,
		Preferences:    req.Preferences,
		RideType:       req.RideType,
		Status:         domain.RideActive,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.store.CreateRide(ctx, r); err != nil {
		return nil, err
	}
	s.emit(events.TopicRideCreated, r)
	return &r, nil
}

func (s *Service) ride(ctx context.Context, id string) (*domain.Ride, error) {
	r, err := s.store.RideByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("Ride not found")
	}
	return r, err
}

// owned loads ride id and checks actor owns it.
func (s *Service) owned(ctx context.Context, actor *domain.User, id string) (*domain.Ride, error) {
	r, err := s.ride(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.UserID != actor.UserID {
		return nil, domain.Forbidden("Not authorized")
	}
	return r, nil
}

func (s *Service) owner(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.store.UserByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return u, err
}

// Get returns a ride with its owner.
func (s *Service) Get(ctx context.Context, id string) (*WithOwner, error) {
	r, err := s.ride(ctx, id)
	if err != nil {
		return nil, err
	}
	u, err := s.owner(ctx, r.UserID)
	if err != nil {
		return nil, err
	}
	return &WithOwner{Ride: *r, User: u}, nil
}

func (r UpdateRequest) validate() error {
	switch {
	case r.Origin != nil && !validation.ValidatePlace(*r.Origin):
		return domain.InvalidOperation("invalid origin")
	case r.Destination != nil && !validation.ValidatePlace(*r.Destination):
		return domain.InvalidOperation("invalid destination")
	case r.AvailableSeats != nil && !validation.ValidateSeats(*r.AvailableSeats):
		return domain.InvalidOperation("invalid available_seats")
	case r.Status != nil && !domain.ValidRideStatus(*r.Status):
		return domain.InvalidOperation("status must be active, completed or cancelled")
	}
	return nil
}

// Update applies the present fields of req to a ride actor owns.
func (s *Service) Update(ctx context.Context, actor *domain.User, id string, req UpdateRequest) (*domain.Ride, error) {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return nil, err
	}
	if err := req.validate(); err != nil {
		return nil, err
	}
	if p := req.Patch(); !p.Empty() {
		if err := s.store.UpdateRide(ctx, id, p); err != nil {
			return nil, err
		}
	}
	r, err := s.ride(ctx, id)
	if err != nil {
		return nil, err
	}
	s.emit(events.TopicRideUpdated, *r)
	return r, nil
}

// Delete removes a ride actor owns.
func (s *Service) Delete(ctx context.Context, actor *domain.User, id string) error {
	r, err := s.owned(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteRide(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound("Ride not found")
		}
		return err
	}
	s.emit(events.TopicRideDeleted, *r)
	return nil
}

// List returns active rides matching f, newest first, each with its owner.
func (s *Service) List(ctx context.Context, f domain.RideFilter) ([]WithOwner, error) {
	f.Status = domain.RideActive
	f.OwnerID = ""
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	rides, err := s.store.ListRides(ctx, f)
	if err != nil {
		return nil, err
	}

	owners := map[string]*domain.User{}
	out := make([]WithOwner, 0, len(rides))
	for _, r := range rides {
		u, seen := owners[r.UserID]
		if !seen {
			if u, err = s.owner(ctx, r.UserID); err != nil {
				return nil, err
			}
			owners[r.UserID] = u
		}
		out = append(out, WithOwner{Ride: r, User: u})
	}
	return out, nil
}

// ListMine returns every ride of actor regardless of status, newest first.
func (s *Service) ListMine(ctx context.Context, actor *domain.User) ([]domain.Ride, error) {
	rides, err := s.store.ListRides(ctx, domain.RideFilter{OwnerID: actor.UserID, Limit: mineLimit})
	if err != nil {
		return nil, err
	}
	if rides == nil {
		rides = []domain.Ride{}
	}
	return rides, nil
}
