package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		header string
		want   string
	}{
		{"none", "", "", ""},
		{"cookie only", "from-cookie", "", "from-cookie"},
		{"header only", "", "Bearer from-header", "from-header"},
		{"cookie wins", "from-cookie", "Bearer from-header", "from-cookie"},
		{"non bearer header", "", "Basic abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: CookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, ExtractToken(r))
		})
	}
}

func TestCookiesSet(t *testing.T) {
	rec := httptest.NewRecorder()
	Cookies{Secure: true, MaxAge: DefaultTTL}.Set(rec, "tok")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "tok", c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteNoneMode, c.SameSite)
	assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), c.MaxAge)
	assert.Equal(t, "/", c.Path)
}

func TestCookiesClearInsecure(t *testing.T) {
	rec := httptest.NewRecorder()
	Cookies{}.Clear(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
}
