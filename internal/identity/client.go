// Package identity exchanges an external login session id for the verified
// identity behind it.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"rideconnect/internal/domain"
)

// Identity is what the external provider vouches for.
type Identity struct {
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	Picture      *string `json:"picture"`
	SessionToken string  `json:"session_token"`
}

// ErrInvalidSession is returned when the provider does not recognise the id.
var ErrInvalidSession = domain.Unauthenticated("Invalid session")

// Client calls the provider's session-data endpoint.
type Client struct {
	url  string
	http *http.Client
}

func NewClient(url string) *Client {
	return &Client{url: url, http: &http.Client{Timeout: 10 * time.Second}}
}

// Exchange resolves sessionID. Any non-200 answer is an invalid session.
func (c *Client) Exchange(ctx context.Context, sessionID string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Session-ID", sessionID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, ErrInvalidSession
	}

	var id Identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return nil, fmt.Errorf("identity provider: decode: %w", err)
	}
	if id.Email == "" || id.SessionToken == "" {
		return nil, ErrInvalidSession
	}
	return &id, nil
}
