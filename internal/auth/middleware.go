package auth

import (
	"context"
	"net/http"

	"rideconnect/internal/domain"
	"rideconnect/internal/httpx"
)

type ctxKey string

const (
	userCtxKey  ctxKey = "auth_user"
	tokenCtxKey ctxKey = "auth_token"
)

// OptionalAuth resolves the request's token, if any, and stores the user in
// the context. Requests without a valid session pass through anonymously.
func (s *Service) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ExtractToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), tokenCtxKey, token)
		u, err := s.Resolve(ctx, token)
		if err != nil {
			httpx.WriteError(w, s.log, err)
			return
		}
		if u != nil {
			ctx = context.WithValue(ctx, userCtxKey, u)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects requests OptionalAuth left anonymous.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			httpx.WriteError(w, s.log, domain.ErrUnauthenticated)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the authenticated user, or nil.
func UserFromContext(ctx context.Context) *domain.User {
	u, _ := ctx.Value(userCtxKey).(*domain.User)
	return u
}

// TokenFromContext returns the token the request presented, valid or not.
func TokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(tokenCtxKey).(string)
	return t
}

// WithUser returns ctx carrying u, for callers outside the HTTP stack.
func WithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userCtxKey, u)
}
