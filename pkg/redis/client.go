package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"rideconnect/internal/domain"
)

const (
	guestSeqKey   = "users:guest_seq"
	sessionPrefix = "session:"
	revokedPrefix = "session_revoked:"
	statsPrefix   = "stats:"
)

// Client wraps the Redis connection.
type Client struct {
	rdb *goredis.Client
}

// NewClient connects to Redis with retry.
func NewClient(ctx context.Context, addr string, log *zap.SugaredLogger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	for i := 0; i < 20; i++ {
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := rdb.Ping(pctx).Err()
		cancel()
		if err == nil {
			log.Infow("connected to redis", "addr", addr)
			return &Client{rdb: rdb}, nil
		}
		log.Infow("waiting for redis", "attempt", i+1, "err", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	return nil, fmt.Errorf("redis: failed to connect after 20 attempts")
}

// Wrap adapts an existing go-redis client.
func Wrap(rdb *goredis.Client) *Client { return &Client{rdb: rdb} }

func (c *Client) getJSON(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *Client) setJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, raw, ttl).Err()
}

// GetSession returns a cached session, or nil on a miss. A revoked token
// is a miss even when an entry is still present.
func (c *Client) GetSession(ctx context.Context, token string) (*domain.Session, error) {
	vals, err := c.rdb.MGet(ctx, sessionPrefix+token, revokedPrefix+token).Result()
	if err != nil {
		return nil, err
	}
	if vals[0] == nil || vals[1] != nil {
		return nil, nil
	}
	raw, ok := vals[0].(string)
	if !ok {
		return nil, fmt.Errorf("session cache: unexpected value %T", vals[0])
	}
	var s domain.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SetSession caches s for ttl.
func (c *Client) SetSession(ctx context.Context, s domain.Session, ttl time.Duration) error {
	return c.setJSON(ctx, sessionPrefix+s.SessionToken, s, ttl)
}

// RevokeSession evicts a cached session and marks the token revoked for ttl.
func (c *Client) RevokeSession(ctx context.Context, token string, ttl time.Duration) error {
	_, err := c.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Del(ctx, sessionPrefix+token)
		p.Set(ctx, revokedPrefix+token, 1, ttl)
		return nil
	})
	return err
}

// NextGuestNumber atomically increments the guest display-name counter.
func (c *Client) NextGuestNumber(ctx context.Context) (int64, error) {
	return c.rdb.Incr(ctx, guestSeqKey).Result()
}

// GetStats returns cached profile counters, or nil on a miss.
func (c *Client) GetStats(ctx context.Context, userID string) (*domain.Stats, error) {
	var s domain.Stats
	ok, err := c.getJSON(ctx, statsPrefix+userID, &s)
	if !ok || err != nil {
		return nil, err
	}
	return &s, nil
}

// SetStats caches profile counters for ttl.
func (c *Client) SetStats(ctx context.Context, userID string, s domain.Stats, ttl time.Duration) error {
	return c.setJSON(ctx, statsPrefix+userID, s, ttl)
}

// DeleteStats evicts cached counters of the given users.
func (c *Client) DeleteStats(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = statsPrefix + id
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Close tears down the Redis connection.
func (c *Client) Close() error { return c.rdb.Close() }
