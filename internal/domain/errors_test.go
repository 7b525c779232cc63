package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := NotFound("Ride not found")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.Equal(t, "Ride not found", err.Error())

	wrapped := fmt.Errorf("load ride: %w", err)
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestKindOfUnclassified(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestSessionExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, Session{ExpiresAt: now.Add(-time.Second)}.Expired(now))
	assert.True(t, Session{ExpiresAt: now}.Expired(now), "expiry at now is expired")
	assert.False(t, Session{ExpiresAt: now.Add(time.Second)}.Expired(now))

	// Same instant in another zone compares equal after UTC normalisation.
	loc := time.FixedZone("UTC+5", 5*3600)
	assert.True(t, Session{ExpiresAt: now.In(loc)}.Expired(now))
}

func TestPatchSet(t *testing.T) {
	name := "Ann"
	var bio *string
	public := false

	p := Patch{}
	Set(p, "name", &name)
	Set(p, "bio", bio)
	Set(p, "is_public", &public)

	assert.Equal(t, Patch{"name": "Ann", "is_public": false}, p)
	assert.False(t, p.Empty())
	assert.True(t, Patch{}.Empty())
}

func TestNewID(t *testing.T) {
	id := NewID("ride")
	assert.Len(t, id, len("ride_")+12)
	assert.NotEqual(t, id, NewID("ride"))
}

func TestParseAction(t *testing.T) {
	for in, want := range map[string]bool{"": true, "accept": true, "reject": false} {
		got, err := ParseAction(in)
		if err != nil || got != want {
			t.Errorf("ParseAction(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseAction("maybe"); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("ParseAction(maybe) err = %v", err)
	}
}
