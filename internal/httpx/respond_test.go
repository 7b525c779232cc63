package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rideconnect/internal/domain"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{"forbidden", domain.Forbidden("Not authorized"), http.StatusForbidden, "forbidden"},
		{"not found", domain.NotFound("Ride not found"), http.StatusNotFound, "not_found"},
		{"conflict", domain.Conflict("Email already registered"), http.StatusBadRequest, "conflict"},
		{"invalid operation", domain.InvalidOperation("Cannot follow yourself"), http.StatusBadRequest, "invalid_operation"},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, zap.NewNop().Sugar(), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantKind, body.Error)
			if tt.wantKind == "internal" {
				assert.Equal(t, "internal error", body.Detail)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ann"}`))
	require.NoError(t, DecodeJSON(r, &v))
	assert.Equal(t, "Ann", v.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.NoError(t, DecodeJSON(r, &v))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	err := DecodeJSON(r, &v)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?limit=5&bad=x&neg=-2", nil)
	assert.Equal(t, 5, QueryInt(r, "limit", 20))
	assert.Equal(t, 20, QueryInt(r, "bad", 20))
	assert.Equal(t, 20, QueryInt(r, "neg", 20))
	assert.Equal(t, 20, QueryInt(r, "missing", 20))
}
