package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"rideconnect/internal/domain"
	"rideconnect/internal/identity"
	"rideconnect/pkg/validation"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// Sessions issues login sessions.
type Sessions interface {
	Issue(ctx context.Context, userID string) (string, error)
	IssueToken(ctx context.Context, userID, token string) error
}

// Passwords stores and checks password credentials.
type Passwords interface {
	Set(ctx context.Context, userID, password string) error
	Verify(ctx context.Context, userID, password string) (bool, error)
}

// GuestSequence hands out guest display numbers atomically.
type GuestSequence interface {
	NextGuestNumber(ctx context.Context) (int64, error)
}

// IdentityProvider verifies an external login session.
type IdentityProvider interface {
	Exchange(ctx context.Context, sessionID string) (*identity.Identity, error)
}

// Store is the persistence the registry needs. FollowBetween gates private
// profile reads.
type Store interface {
	domain.UserStore
	FollowBetween(ctx context.Context, followerID, followingID string) (*domain.Follow, error)
}

// Options are the optional collaborators of a Service.
type Options struct {
	Guests   GuestSequence
	Identity IdentityProvider
}

// Service is the identity registry.
type Service struct {
	store     Store
	sessions  Sessions
	passwords Passwords
	guests    GuestSequence
	idp       IdentityProvider
	now       func() time.Time
	log       *zap.SugaredLogger
}

// NewService creates the registry.
func NewService(store Store, sessions Sessions, passwords Passwords, opts Options, log *zap.SugaredLogger) *Service {
	return &Service{
		store:     store,
		sessions:  sessions,
		passwords: passwords,
		guests:    opts.Guests,
		idp:       opts.Identity,
		now:       time.Now,
		log:       log.Named("users"),
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func (req *RegisterRequest) validate() error {
	req.Email = trimmed(req.Email)
	req.Phone = trimmed(req.Phone)
	req.Name = strings.TrimSpace(req.Name)
	if req.AuthType == "" {
		req.AuthType = domain.AuthEmail
	}

	switch {
	case !validation.ValidateName(req.Name):
		return domain.InvalidOperation("name is required")
	case req.Email == nil && req.Phone == nil:
		return domain.InvalidOperation("email or phone is required")
	case req.Email != nil && !validation.ValidateEmail(*req.Email):
		return domain.InvalidOperation("invalid email")
	case req.Phone != nil && !validation.ValidatePhone(*req.Phone):
		return domain.InvalidOperation("invalid phone")
	case req.Password != nil && !validation.ValidatePassword(*req.Password):
		return domain.InvalidOperation("password must be 6 to 100 characters")
	case !domain.ValidAuthType(req.AuthType):
		return domain.InvalidOperation("invalid auth_type")
	}
	return nil
}

// taken reports whether lookup finds a user.
func taken(u *domain.User, err error) (bool, error) {
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return u != nil && err == nil, err
}

// Register creates an account and logs it in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, string, error) {
	if err := req.validate(); err != nil {
		return nil, "", err
	}

	if req.Email != nil {
		dup, err := taken(s.store.UserByEmail(ctx, *req.Email))
		if err != nil {
			return nil, "", err
		}
		if dup {
			return nil, "", domain.Conflict("Email already registered")
		}
	}
	if req.Phone != nil {
		dup, err := taken(s.store.UserByPhone(ctx, *req.Phone))
		if err != nil {
			return nil, "", err
		}
		if dup {
			return nil, "", domain.Conflict("Phone already registered")
		}
	}

	u := domain.User{
		UserID:      domain.NewID("user"),
		Email:       req.Email,
		Phone:       req.Phone,
		Name:        req.Name,
		ProfileType: domain.ProfilePassenger,
		IsPublic:    true,
		AuthType:    req.AuthType,
		CreatedAt:   s.now().UTC(),
	}
	// the credential goes first so a failed write leaves no account behind
	if req.AuthType == domain.AuthEmail && req.Password != nil {
		if err := s.passwords.Set(ctx, u.UserID, *req.Password); err != nil {
			return nil, "", fmt.Errorf("store credential: %w", err)
		}
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, "", domain.Conflict("Email or phone already registered")
		}
		return nil, "", err
	}

	token, err := s.sessions.Issue(ctx, u.UserID)
	if err != nil {
		return nil, "", err
	}
	s.log.Infow("user registered", "user_id", u.UserID, "auth_type", u.AuthType)
	return &u, token, nil
}

// LoginByPassword authenticates by email or phone. Every failure looks the
// same to the caller.
func (s *Service) LoginByPassword(ctx context.Context, req LoginRequest) (*domain.User, string, error) {
	var (
		u   *domain.User
		err error
	)
	switch {
	case trimmed(req.Email) != nil:
		u, err = s.store.UserByEmail(ctx, *trimmed(req.Email))
	case trimmed(req.Phone) != nil:
		u, err = s.store.UserByPhone(ctx, *trimmed(req.Phone))
	default:
		return nil, "", domain.ErrInvalidCredentials
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil, "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	ok, err := s.passwords.Verify(ctx, u.UserID, req.Password)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.sessions.Issue(ctx, u.UserID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *Service) nextGuestNumber(ctx context.Context) (int64, error) {
	if s.guests != nil {
		n, err := s.guests.NextGuestNumber(ctx)
		if err == nil {
			return n, nil
		}
		s.log.Warnw("guest counter unavailable, counting guests", "err", err)
	}
	n, err := s.store.CountUsersByAuthType(ctx, domain.AuthGuest)
	if err != nil {
		return 0, err
	}
	return n + 1, nil
}

// GuestLogin creates a throwaway public account and logs it in.
func (s *Service) GuestLogin(ctx context.Context) (*domain.User, string, error) {
	n, err := s.nextGuestNumber(ctx)
	if err != nil {
		return nil, "", err
	}

	u := domain.User{
		UserID:      domain.NewID("guest"),
		Name:        fmt.Sprintf("Guest User %d", n),
		ProfileType: domain.ProfilePassenger,
		IsPublic:    true,
		AuthType:    domain.AuthGuest,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.sessions.Issue(ctx, u.UserID)
	if err != nil {
		return nil, "", err
	}
	return &u, token, nil
}

// UpsertFromExternalIdentity logs in the account owning email, creating it
// on first sight, and binds a session to the provider's token.
func (s *Service) UpsertFromExternalIdentity(ctx context.Context, id identity.Identity) (*domain.User, string, error) {
	u, err := s.store.UserByEmail(ctx, id.Email)
	if errors.Is(err, domain.ErrNotFound) {
		email := id.Email
		fresh := domain.User{
			UserID:         domain.NewID("user"),
			Email:          &email,
			Name:           id.Name,
			ProfilePicture: id.Picture,
			ProfileType:    domain.ProfilePassenger,
			IsPublic:       true,
			AuthType:       domain.AuthGoogle,
			CreatedAt:      s.now().UTC(),
		}
		err = s.store.CreateUser(ctx, fresh)
		switch {
		case err == nil:
			u = &fresh
		case errors.Is(err, domain.ErrConflict):
			// registered concurrently
			u, err = s.store.UserByEmail(ctx, id.Email)
		}
	}
	if err != nil {
		return nil, "", err
	}

	if err := s.sessions.IssueToken(ctx, u.UserID, id.SessionToken); err != nil {
		return nil, "", err
	}
	return u, id.SessionToken, nil
}

// ExternalLogin verifies sessionID with the identity provider, then upserts.
func (s *Service) ExternalLogin(ctx context.Context, sessionID string) (*domain.User, string, error) {
	if sessionID == "" {
		return nil, "", domain.InvalidOperation("session_id required")
	}
	if s.idp == nil {
		return nil, "", domain.InvalidOperation("external login is not configured")
	}
	id, err := s.idp.Exchange(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}
	return s.UpsertFromExternalIdentity(ctx, *id)
}

func (r UpdateProfileRequest) validate() error {
	switch {
	case r.Name != nil && !validation.ValidateName(*r.Name):
		return domain.InvalidOperation("invalid name")
	case r.ProfileType != nil && !domain.ValidProfileType(*r.ProfileType):
		return domain.InvalidOperation("profile_type must be rider or passenger")
	case r.Bio != nil && !validation.ValidateMessage(*r.Bio):
		return domain.InvalidOperation("bio is too long")
	}
	return nil
}

// UpdateProfile applies the present fields of req to the actor's own record
// and returns the stored result.
func (s *Service) UpdateProfile(ctx context.Context, actorID string, req UpdateProfileRequest) (*domain.User, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if p := req.Patch(); !p.Empty() {
		if err := s.store.UpdateUser(ctx, actorID, p); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.NotFound("User not found")
			}
			return nil, err
		}
	}
	return s.Get(ctx, actorID)
}

// Get returns the full user record.
func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.store.UserByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("User not found")
	}
	return u, err
}

// View returns targetID's profile as viewer may see it. viewer may be nil.
func (s *Service) View(ctx context.Context, viewer *domain.User, targetID string) (*ProfileView, error) {
	target, err := s.Get(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.IsPublic || viewer != nil && viewer.UserID == target.UserID {
		return &ProfileView{Full: target}, nil
	}
	if viewer != nil {
		f, err := s.store.FollowBetween(ctx, viewer.UserID, target.UserID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if f != nil && f.Status == domain.FollowAccepted {
			return &ProfileView{Full: target}, nil
		}
	}
	return &ProfileView{Redacted: redact(target)}, nil
}

// Search matches query as a case-insensitive substring of names.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]domain.User, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	out, err := s.store.SearchUsers(ctx, strings.TrimSpace(query), limit)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.User{}
	}
	return out, nil
}
