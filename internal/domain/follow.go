package domain

import "time"

const (
	FollowPending  = "pending"
	FollowAccepted = "accepted"
	FollowRejected = "rejected"
)

// Follow is a directed edge from FollowerID to FollowingID. At most one edge
// exists per ordered pair.
type Follow struct {
	FollowID    string    `json:"follow_id"`
	FollowerID  string    `json:"follower_id"`
	FollowingID string    `json:"following_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// FollowFilter selects edges; empty fields do not constrain.
type FollowFilter struct {
	FollowerID  string
	FollowingID string
	Status      string
	Limit       int
}
