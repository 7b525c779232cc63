package follows

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"rideconnect/internal/auth"
	"rideconnect/internal/httpx"
)

// Handler exposes the follow graph over HTTP.
type Handler struct {
	svc  *Service
	auth *auth.Service
	log  *zap.SugaredLogger
}

func NewHandler(svc *Service, sessions *auth.Service, log *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, auth: sessions, log: log.Named("follows")}
}

// Routes returns the /follow router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	// Public
	r.Get("/status/{user_id}", h.Status)

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(h.auth.RequireAuth)
		r.Post("/", h.Follow)
		r.Get("/requests", h.PendingRequests)
		r.Put("/requests/{follow_id}", h.Respond)
		r.Delete("/{user_id}", h.Unfollow)
	})

	return r
}

func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	var req FollowRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	res, err := h.svc.Follow(r.Context(), auth.UserFromContext(r.Context()), req.FollowingID)
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Unfollow(r.Context(), auth.UserFromContext(r.Context()), chi.URLParam(r, "user_id")); err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.Message(w, "Unfollowed")
}

func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	status, err := h.svc.Respond(r.Context(), auth.UserFromContext(r.Context()),
		chi.URLParam(r, "follow_id"), r.URL.Query().Get("action"))
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.Message(w, "Follow request "+status)
}

func (h *Handler) PendingRequests(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.PendingRequests(r.Context(), auth.UserFromContext(r.Context()))
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Followers(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Followers(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Following(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Following(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Status(r.Context(), auth.UserFromContext(r.Context()), chi.URLParam(r, "user_id"))
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, st)
}
