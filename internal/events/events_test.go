package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type failing struct{ calls chan struct{} }

func (f failing) Publish(context.Context, string, string, any) error {
	f.calls <- struct{}{}
	return errors.New("broker down")
}

func TestEmitDelivers(t *testing.T) {
	rec := &Recorder{}

	Emit(rec, zap.NewNop().Sugar(), TopicRideCreated, "ride_1", RideEvent{RideID: "ride_1"})

	assert.Eventually(t, func() bool { return len(rec.Topics()) == 1 }, time.Second, 5*time.Millisecond)
	msg := rec.Messages()[0]
	assert.Equal(t, TopicRideCreated, msg.Topic)
	assert.Equal(t, "ride_1", msg.Key)
}

func TestEmitSwallowsFailure(t *testing.T) {
	f := failing{calls: make(chan struct{}, 1)}

	Emit(f, zap.NewNop().Sugar(), TopicFollowCreated, "k", FollowEvent{})

	select {
	case <-f.calls:
	case <-time.After(time.Second):
		t.Fatal("publisher was not called")
	}
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.Publish(context.Background(), TopicRideDeleted, "k", nil))
}
