package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"rideconnect/internal/domain"
)

// Credentials is the password store. Hashes never leave it.
type Credentials struct {
	store domain.CredentialStore
	cost  int
}

func NewCredentials(store domain.CredentialStore) *Credentials {
	return &Credentials{store: store, cost: bcrypt.DefaultCost}
}

// Set hashes and stores the password of userID.
func (c *Credentials) Set(ctx context.Context, userID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return err
	}
	return c.store.CreateCredential(ctx, domain.Credential{UserID: userID, PasswordHash: string(hash)})
}

// Verify reports whether password matches the stored hash. A user without a
// stored credential never matches.
func (c *Credentials) Verify(ctx context.Context, userID, password string) (bool, error) {
	cred, err := c.store.CredentialByUserID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) == nil, nil
}
