package rides

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rideconnect/internal/domain"
	"rideconnect/internal/events"
)

func TestConcurrentAcceptsNeverOversell(t *testing.T) {
	const seats, riders = 3, 10
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "Owner")
	r := f.ride(t, owner, seats)

	ids := make([]string, riders)
	for i := range ids {
		req, err := f.requests.Request(ctx, f.user(t, "Rider"), SeatRequest{RideID: r.RideID})
		require.NoError(t, err)
		ids[i] = req.RequestID
	}

	errs := make([]error, riders)
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = f.requests.Respond(ctx, owner, id, "accept")
		}(i, id)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 0, f.seats(t, r.RideID))

	var reported []int
	assert.Eventually(t, func() bool {
		reported = reported[:0]
		for _, m := range f.rec.Messages() {
			if ev, ok := m.Value.(events.RideRequestEvent); ok && m.Topic == events.TopicRideRequestResponded && ev.AvailableSeats != nil {
				reported = append(reported, *ev.AvailableSeats)
			}
		}
		return len(reported) == riders
	}, time.Second, 5*time.Millisecond)

	seen := map[int]int{}
	for _, n := range reported {
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, seats)
		seen[n]++
	}
	for n := 1; n < seats; n++ {
		assert.Equal(t, 1, seen[n], "each remaining count is reported exactly once")
	}
}

func TestConcurrentDuplicateRequests(t *testing.T) {
	const callers = 8
	f := newFixture(t)
	ctx := context.Background()
	r := f.ride(t, f.user(t, "Owner"), 3)
	rider := f.user(t, "Rider")
	f.requests.now = time.Now // the fixture's tick clock is not goroutine safe

	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.requests.Request(ctx, rider, SeatRequest{RideID: r.RideID})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrConflict)
	}
	assert.Equal(t, 1, ok)

	open, err := f.store.ListRideRequests(ctx, domain.RideRequestFilter{RequesterID: rider.UserID})
	require.NoError(t, err)
	assert.Len(t, open, 1)
}
