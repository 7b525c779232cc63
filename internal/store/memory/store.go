// Package memory is an in-process domain.Store used by tests and by the
// STORE_DRIVER=memory development mode. Every method holds one lock, so each
// call is atomic with respect to the others.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"rideconnect/internal/domain"
)

// Store keeps each collection in insertion order.
type Store struct {
	mu sync.Mutex

	users       []domain.User
	credentials map[string]domain.Credential
	sessions    map[string]domain.Session
	follows     []domain.Follow
	rides       []domain.Ride
	requests    []domain.RideRequest
}

var _ domain.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		credentials: make(map[string]domain.Credential),
		sessions:    make(map[string]domain.Session),
	}
}

// apply merges p into v through v's JSON field names.
func apply[T any](v *T, p domain.Patch) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	for k, val := range p {
		if _, ok := fields[k]; ok {
			fields[k] = val
		}
	}
	if raw, err = json.Marshal(fields); err != nil {
		return err
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*v = out
	return nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// newestFirst orders items by created time descending; among equal times
// the later insert comes first.
func newestFirst[T any](items []T, created func(T) time.Time) []T {
	out := make([]T, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		out = append(out, items[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return created(out[i]).After(created(out[j]))
	})
	return out
}

func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

func eqPtr(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}

// ---- users ----

func (s *Store) CreateUser(_ context.Context, u domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.users {
		if o.UserID == u.UserID || eqPtr(o.Email, u.Email) || eqPtr(o.Phone, u.Phone) {
			return domain.ErrConflict
		}
	}
	s.users = append(s.users, u)
	return nil
}

func (s *Store) findUser(match func(domain.User) bool) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			u := u
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) UserByID(_ context.Context, id string) (*domain.User, error) {
	return s.findUser(func(u domain.User) bool { return u.UserID == id })
}

func (s *Store) UserByEmail(_ context.Context, email string) (*domain.User, error) {
	return s.findUser(func(u domain.User) bool { return u.Email != nil && *u.Email == email })
}

func (s *Store) UserByPhone(_ context.Context, phone string) (*domain.User, error) {
	return s.findUser(func(u domain.User) bool { return u.Phone != nil && *u.Phone == phone })
}

func (s *Store) UpdateUser(_ context.Context, id string, p domain.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].UserID == id {
			return apply(&s.users[i], p)
		}
	}
	return domain.ErrNotFound
}

func (s *Store) SearchUsers(_ context.Context, name string, n int) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.User
	for _, u := range s.users {
		if name == "" || containsFold(u.Name, name) {
			out = append(out, u)
		}
	}
	return limit(out, n), nil
}

func (s *Store) CountUsersByAuthType(_ context.Context, authType string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, u := range s.users {
		if u.AuthType == authType {
			n++
		}
	}
	return n, nil
}

// ---- credentials ----

func (s *Store) CreateCredential(_ context.Context, c domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.credentials[c.UserID]; ok {
		return domain.ErrConflict
	}
	s.credentials[c.UserID] = c
	return nil
}

func (s *Store) CredentialByUserID(_ context.Context, userID string) (*domain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.credentials[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

// ---- sessions ----

func (s *Store) CreateSession(_ context.Context, sess domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sess.SessionToken]; ok {
		return domain.ErrConflict
	}
	s.sessions[sess.SessionToken] = sess
	return nil
}

func (s *Store) SessionByToken(_ context.Context, token string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &sess, nil
}

func (s *Store) DeleteSession(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
