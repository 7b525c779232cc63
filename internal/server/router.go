// Package server assembles the HTTP surface.
package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"rideconnect/internal/auth"
	"rideconnect/internal/domain"
	"rideconnect/internal/events"
	"rideconnect/internal/follows"
	"rideconnect/internal/httpx"
	"rideconnect/internal/rides"
	"rideconnect/internal/stats"
	"rideconnect/internal/users"
	"rideconnect/pkg/ratelimit"
)

// Deps are the collaborators the services are built from. Optional ones
// are nil when not configured.
type Deps struct {
	Store        domain.Store
	SessionCache auth.SessionCache
	Guests       users.GuestSequence
	Identity     users.IdentityProvider
	Events       events.Publisher
	StatsCache   stats.Cache
}

// Services are the domain services behind the router.
type Services struct {
	Auth        *auth.Service
	Users       *users.Service
	Follows     *follows.Service
	Rides       *rides.Service
	RideRequest *rides.RequestService
	Stats       *stats.Service
}

// Options shape the HTTP layer.
type Options struct {
	CORSOrigins   []string
	CookieSecure  bool
	AuthRateLimit float64
	AuthRateBurst int
}

// NewServices wires every domain service over d.
func NewServices(d Deps, sessionTTL time.Duration, log *zap.SugaredLogger) *Services {
	sessions := auth.NewService(d.Store, d.SessionCache, sessionTTL, log)
	return &Services{
		Auth: sessions,
		Users: users.NewService(d.Store, sessions, auth.NewCredentials(d.Store),
			users.Options{Guests: d.Guests, Identity: d.Identity}, log),
		Follows:     follows.NewService(d.Store, d.Events, log),
		Rides:       rides.NewService(d.Store, d.Events, log),
		RideRequest: rides.NewRequestService(d.Store, d.Events, log),
		Stats:       stats.NewService(d.Store, d.StatsCache, log),
	}
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	wildcard := len(origins) == 0
	for _, o := range origins {
		if strings.TrimSpace(o) == "*" {
			wildcard = true
		}
	}
	if wildcard {
		// credentials forbid a literal "*", so echo the caller's origin
		opts.AllowOriginFunc = func(*http.Request, string) bool { return true }
	} else {
		opts.AllowedOrigins = origins
	}
	return cors.Handler(opts)
}

// NewRouter returns the full HTTP handler.
func NewRouter(svc *Services, opts Options, log *zap.SugaredLogger) http.Handler {
	cookies := auth.Cookies{Secure: opts.CookieSecure, MaxAge: svc.Auth.TTL()}
	userH := users.NewHandler(svc.Users, svc.Auth, cookies, log)
	followH := follows.NewHandler(svc.Follows, svc.Auth, log)
	rideH := rides.NewHandler(svc.Rides, svc.RideRequest, svc.Auth, log)
	statsH := stats.NewHandler(svc.Stats, log)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(corsHandler(opts.CORSOrigins))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"rideconnect"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(svc.Auth.OptionalAuth)

		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			httpx.Message(w, "RideConnect API")
		})

		var limit func(http.Handler) http.Handler
		if opts.AuthRateLimit > 0 {
			limit = ratelimit.New(opts.AuthRateLimit, opts.AuthRateBurst).Middleware
		}
		r.Mount("/auth", userH.AuthRoutes(limit))
		r.Mount("/users", userH.Routes())
		r.Mount("/follow", followH.Routes())
		r.Get("/followers/{user_id}", followH.Followers)
		r.Get("/following/{user_id}", followH.Following)
		r.Mount("/rides", rideH.Routes())
		r.Mount("/stats", statsH.Routes())
	})

	return r
}
