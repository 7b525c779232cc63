package domain

import "context"

// Stores return ErrNotFound for missing rows and ErrConflict for unique
// constraint violations.

type UserStore interface {
	CreateUser(ctx context.Context, u User) error
	UserByID(ctx context.Context, id string) (*User, error)
	UserByEmail(ctx context.Context, email string) (*User, error)
	UserByPhone(ctx context.Context, phone string) (*User, error)
	UpdateUser(ctx context.Context, id string, p Patch) error
	SearchUsers(ctx context.Context, name string, limit int) ([]User, error)
	CountUsersByAuthType(ctx context.Context, authType string) (int64, error)
}

type CredentialStore interface {
	CreateCredential(ctx context.Context, c Credential) error
	CredentialByUserID(ctx context.Context, userID string) (*Credential, error)
}

type SessionStore interface {
	CreateSession(ctx context.Context, s Session) error
	SessionByToken(ctx context.Context, token string) (*Session, error)
	// DeleteSession is a no-op for unknown tokens.
	DeleteSession(ctx context.Context, token string) error
}

type FollowStore interface {
	CreateFollow(ctx context.Context, f Follow) error
	FollowByID(ctx context.Context, id string) (*Follow, error)
	FollowBetween(ctx context.Context, followerID, followingID string) (*Follow, error)
	// UpdateFollowStatus moves edge id from status from to status to, and
	// returns ErrNotFound when no edge with that id and status exists.
	UpdateFollowStatus(ctx context.Context, id, from, to string) error
	DeleteFollow(ctx context.Context, followerID, followingID string) error
	ListFollows(ctx context.Context, f FollowFilter) ([]Follow, error)
	CountFollows(ctx context.Context, f FollowFilter) (int64, error)
}

type RideStore interface {
	CreateRide(ctx context.Context, r Ride) error
	RideByID(ctx context.Context, id string) (*Ride, error)
	UpdateRide(ctx context.Context, id string, p Patch) error
	DeleteRide(ctx context.Context, id string) error
	ListRides(ctx context.Context, f RideFilter) ([]Ride, error)
	CountRides(ctx context.Context, f RideFilter) (int64, error)
}

type RideRequestStore interface {
	CreateRideRequest(ctx context.Context, r RideRequest) error
	RideRequestByID(ctx context.Context, id string) (*RideRequest, error)
	// OpenRideRequest returns the requester's pending or accepted request
	// against the ride.
	OpenRideRequest(ctx context.Context, rideID, requesterID string) (*RideRequest, error)
	ListRideRequests(ctx context.Context, f RideRequestFilter) ([]RideRequest, error)
	// RespondRideRequest moves a pending request to status in one
	// transaction. When takeSeat is set the ride's available_seats is
	// decremented in the same transaction, only if it is above zero. It
	// returns the ride's seat count after the update, and ErrConflict when
	// the request is no longer pending.
	RespondRideRequest(ctx context.Context, requestID, status string, takeSeat bool) (int, error)
}

// Store is the full persistence collaborator.
type Store interface {
	UserStore
	CredentialStore
	SessionStore
	FollowStore
	RideStore
	RideRequestStore
}
