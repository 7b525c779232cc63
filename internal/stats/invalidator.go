package stats

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"rideconnect/internal/events"
)

const consumerGroup = "stats-invalidator"

// Subscriber delivers messages of topics to handler until ctx ends.
type Subscriber interface {
	Subscribe(ctx context.Context, groupID string, topics []string, handler func(topic string, value []byte) error)
}

// Invalidator evicts cached counters when follow edges or rides change.
type Invalidator struct {
	sub   Subscriber
	cache Cache
	log   *zap.SugaredLogger
}

func NewInvalidator(sub Subscriber, cache Cache, log *zap.SugaredLogger) *Invalidator {
	return &Invalidator{sub: sub, cache: cache, log: log.Named("stats")}
}

// Topics the invalidator listens to.
var Topics = []string{
	events.TopicFollowCreated, events.TopicFollowResponded, events.TopicFollowDeleted,
	events.TopicRideCreated, events.TopicRideDeleted,
}

// Start begins consuming in a background goroutine.
func (inv *Invalidator) Start(ctx context.Context) {
	inv.sub.Subscribe(ctx, consumerGroup, Topics, func(topic string, value []byte) error {
		return inv.Handle(ctx, topic, value)
	})
}

// Handle evicts the users an event touches.
func (inv *Invalidator) Handle(ctx context.Context, topic string, value []byte) error {
	var ids []string
	switch topic {
	case events.TopicFollowCreated, events.TopicFollowResponded, events.TopicFollowDeleted:
		var ev events.FollowEvent
		if err := json.Unmarshal(value, &ev); err != nil {
			return err
		}
		ids = []string{ev.FollowerID, ev.FollowingID}
	case events.TopicRideCreated, events.TopicRideDeleted:
		var ev events.RideEvent
		if err := json.Unmarshal(value, &ev); err != nil {
			return err
		}
		ids = []string{ev.UserID}
	default:
		return nil
	}

	if err := inv.cache.DeleteStats(ctx, ids...); err != nil {
		return err
	}
	inv.log.Debugw("stats evicted", "topic", topic, "users", ids)
	return nil
}
