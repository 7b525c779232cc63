package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rideconnect/internal/domain"
)

func TestExchange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Session-ID") != "good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"id":"x","email":"e@example.com","name":"Eve","picture":"http://p","session_token":"ext-tok"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	id, err := c.Exchange(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "e@example.com", id.Email)
	assert.Equal(t, "Eve", id.Name)
	require.NotNil(t, id.Picture)
	assert.Equal(t, "http://p", *id.Picture)
	assert.Equal(t, "ext-tok", id.SessionToken)

	_, err = c.Exchange(context.Background(), "bad")
	assert.True(t, errors.Is(err, domain.ErrUnauthenticated))
}

func TestExchangeMissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"email":"e@example.com","name":"Eve"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Exchange(context.Background(), "any")
	assert.ErrorIs(t, err, ErrInvalidSession)
}
