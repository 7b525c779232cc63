package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"rideconnect/internal/store/memory"
)

func TestCredentialsVerify(t *testing.T) {
	st := memory.New()
	creds := NewCredentials(st)
	creds.cost = bcrypt.MinCost
	ctx := context.Background()

	require.NoError(t, creds.Set(ctx, "user_1", "TestPassword123!"))

	ok, err := creds.Verify(ctx, "user_1", "TestPassword123!")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = creds.Verify(ctx, "user_1", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = creds.Verify(ctx, "user_without_password", "anything")
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := st.CredentialByUserID(ctx, "user_1")
	require.NoError(t, err)
	assert.NotEqual(t, "TestPassword123!", stored.PasswordHash)
}
