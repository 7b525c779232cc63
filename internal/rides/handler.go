package rides

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"rideconnect/internal/auth"
	"rideconnect/internal/domain"
	"rideconnect/internal/httpx"
)

// Handler exposes the ride ledger and the request workflow under /rides.
type Handler struct {
	rides    *Service
	requests *RequestService
	auth     *auth.Service
	log      *zap.SugaredLogger
}

func NewHandler(rides *Service, requests *RequestService, sessions *auth.Service, log *zap.SugaredLogger) *Handler {
	return &Handler{rides: rides, requests: requests, auth: sessions, log: log.Named("rides")}
}

// Routes returns the /rides router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	// Public
	r.Get("/", h.List)

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(h.auth.RequireAuth)
		r.Post("/", h.Create)
		r.Get("/my", h.ListMine)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)

		r.Post("/request", h.Request)
		r.Get("/requests/my", h.MyRequests)
		r.Get("/requests/received", h.ReceivedRequests)
		r.Put("/requests/{id}", h.Respond)
	})

	r.Get("/{id}", h.Get)
	return r
}

func (h *Handler) fail(w http.ResponseWriter, err error) { httpx.WriteError(w, h.log, err) }

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	ride, err := h.rides.Create(r.Context(), auth.UserFromContext(r.Context()), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ride)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := h.rides.List(r.Context(), domain.RideFilter{
		Origin:      q.Get("origin"),
		Destination: q.Get("destination"),
		RideType:    q.Get("ride_type"),
		Limit:       httpx.QueryInt(r, "limit", defaultListLimit),
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	out, err := h.rides.ListMine(r.Context(), auth.UserFromContext(r.Context()))
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ride, err := h.rides.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ride)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	ride, err := h.rides.Update(r.Context(), auth.UserFromContext(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ride)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.rides.Delete(r.Context(), auth.UserFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.fail(w, err)
		return
	}
	httpx.Message(w, "Ride deleted")
}

func (h *Handler) Request(w http.ResponseWriter, r *http.Request) {
	var in SeatRequest
	if err := httpx.DecodeJSON(r, &in); err != nil {
		h.fail(w, err)
		return
	}
	req, err := h.requests.Request(r.Context(), auth.UserFromContext(r.Context()), in)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) MyRequests(w http.ResponseWriter, r *http.Request) {
	out, err := h.requests.MyRequests(r.Context(), auth.UserFromContext(r.Context()))
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) ReceivedRequests(w http.ResponseWriter, r *http.Request) {
	out, err := h.requests.ReceivedRequests(r.Context(), auth.UserFromContext(r.Context()))
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	status, err := h.requests.Respond(r.Context(), auth.UserFromContext(r.Context()),
		chi.URLParam(r, "id"), r.URL.Query().Get("action"))
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.Message(w, "Request "+status)
}
