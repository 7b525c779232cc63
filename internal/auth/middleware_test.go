package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rideconnect/internal/domain"
)

// serve runs the OptionalAuth -> RequireAuth chain around an inner handler
// that echoes the resolved user id.
func serve(t *testing.T, svc *Service, token string) *httptest.ResponseRecorder {
	t.Helper()
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(u.UserID))
	})
	h := svc.OptionalAuth(svc.RequireAuth(inner))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuthMissingToken(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	rec := serve(t, svc, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not authenticated")
}

func TestRequireAuthExpiredSession(t *testing.T) {
	svc, st, u := newTestService(t, nil)
	require.NoError(t, st.CreateSession(context.Background(), domain.Session{
		UserID: u.UserID, SessionToken: "expired", ExpiresAt: time.Now().Add(-time.Minute),
	}))

	rec := serve(t, svc, "expired")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthValidSession(t *testing.T) {
	svc, _, u := newTestService(t, nil)
	token, err := svc.Issue(context.Background(), u.UserID)
	require.NoError(t, err)

	rec := serve(t, svc, token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, u.UserID, strings.TrimSpace(rec.Body.String()))
}

func TestOptionalAuthKeepsPresentedToken(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	var seen string
	h := svc.OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = TokenFromContext(r.Context())
		assert.Nil(t, UserFromContext(r.Context()))
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "unknown"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "unknown", seen)
}
