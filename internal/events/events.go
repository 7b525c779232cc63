package events

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Topic names.
const (
	TopicFollowCreated        = "follow.created"
	TopicFollowResponded      = "follow.responded"
	TopicFollowDeleted        = "follow.deleted"
	TopicRideCreated          = "ride.created"
	TopicRideUpdated          = "ride.updated"
	TopicRideDeleted          = "ride.deleted"
	TopicRideRequestCreated   = "ride_request.created"
	TopicRideRequestResponded = "ride_request.responded"
)

// All lists every topic, for topic provisioning.
var All = []string{
	TopicFollowCreated, TopicFollowResponded, TopicFollowDeleted,
	TopicRideCreated, TopicRideUpdated, TopicRideDeleted,
	TopicRideRequestCreated, TopicRideRequestResponded,
}

// FollowEvent is published to the follow.* topics.
type FollowEvent struct {
	FollowID    string `json:"follow_id,omitempty"`
	FollowerID  string `json:"follower_id"`
	FollowingID string `json:"following_id"`
	Status      string `json:"status,omitempty"`
	At          string `json:"at"`
}

// RideEvent is published to the ride.* topics.
type RideEvent struct {
	RideID string `json:"ride_id"`
	UserID string `json:"user_id"`
	Status string `json:"status,omitempty"`
	At     string `json:"at"`
}

// RideRequestEvent is published to the ride_request.* topics.
type RideRequestEvent struct {
	RequestID      string `json:"request_id"`
	RideID         string `json:"ride_id"`
	RequesterID    string `json:"requester_id"`
	OwnerID        string `json:"owner_id,omitempty"`
	Status         string `json:"status"`
	AvailableSeats *int   `json:"available_seats,omitempty"`
	At             string `json:"at"`
}

// Publisher sends a JSON-serialised value to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

// Noop drops every event. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, string, string, any) error { return nil }

// Now formats the current time for event payloads.
func Now() string { return time.Now().UTC().Format(time.RFC3339) }

// Emit publishes in the background. Events are best-effort: a failed publish
// is logged and never fails the request that produced it.
func Emit(p Publisher, log *zap.SugaredLogger, topic, key string, value any) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := p.Publish(ctx, topic, key, value); err != nil {
			log.Warnw("publish failed", "topic", topic, "key", key, "err", err)
			return
		}
		log.Debugw("published", "topic", topic, "key", key)
	}()
}
