package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"rideconnect/internal/auth"
	"rideconnect/internal/domain"
	"rideconnect/internal/httpx"
)

// Handler exposes the auth and user HTTP endpoints.
type Handler struct {
	svc      *Service
	sessions *auth.Service
	cookies  auth.Cookies
	log      *zap.SugaredLogger
}

// NewHandler wires a handler to the registry and the session manager.
func NewHandler(svc *Service, sessions *auth.Service, cookies auth.Cookies, log *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, sessions: sessions, cookies: cookies, log: log.Named("users")}
}

// AuthRoutes returns the /auth router. limit, when set, wraps the routes
// that hand out sessions.
func (h *Handler) AuthRoutes(limit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		if limit != nil {
			r.Use(limit)
		}
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/guest", h.Guest)
		r.Post("/google/callback", h.ExternalCallback)
	})
	r.Post("/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(h.sessions.RequireAuth)
		r.Get("/me", h.Me)
	})

	return r
}

// Routes returns the /users router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	// Public
	r.Get("/", h.Search)

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(h.sessions.RequireAuth)
		r.Get("/me", h.Me)
		r.Put("/me", h.UpdateMe)
	})

	r.Get("/{id}", h.GetProfile)
	return r
}

func (h *Handler) login(w http.ResponseWriter, u *domain.User, token string, err error) {
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	h.cookies.Set(w, token)
	httpx.WriteJSON(w, http.StatusOK, AuthResponse{UserID: u.UserID, SessionToken: token, Name: u.Name})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	u, token, err := h.svc.Register(r.Context(), req)
	h.login(w, u, token, err)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	u, token, err := h.svc.LoginByPassword(r.Context(), req)
	h.login(w, u, token, err)
}

func (h *Handler) Guest(w http.ResponseWriter, r *http.Request) {
	u, token, err := h.svc.GuestLogin(r.Context())
	h.login(w, u, token, err)
}

func (h *Handler) ExternalCallback(w http.ResponseWriter, r *http.Request) {
	var req ExternalLoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	u, token, err := h.svc.ExternalLogin(r.Context(), req.SessionID)
	h.login(w, u, token, err)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, auth.UserFromContext(r.Context()))
}

// Logout revokes whatever token the request carried, valid or not.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Revoke(r.Context(), auth.ExtractToken(r)); err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	h.cookies.Clear(w)
	httpx.Message(w, "Logged out")
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	u, err := h.svc.UpdateProfile(r.Context(), auth.UserFromContext(r.Context()).UserID, req)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.View(r.Context(), auth.UserFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"), httpx.QueryInt(r, "limit", defaultSearchLimit))
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, users)
}
