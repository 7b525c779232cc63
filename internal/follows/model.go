package follows

import "rideconnect/internal/domain"

// FollowRequest is the body for POST /follow.
type FollowRequest struct {
	FollowingID string `json:"following_id"`
}

// Result reports the edge state after a follow call.
type Result struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Pending is an incoming follow request joined with its sender.
type Pending struct {
	domain.Follow
	Follower *domain.User `json:"follower"`
}

// Status is the actor's relation to another user. Status is nil when no
// edge exists.
type Status struct {
	IsFollowing bool    `json:"is_following"`
	Status      *string `json:"status"`
}
