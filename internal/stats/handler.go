package stats

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"rideconnect/internal/httpx"
)

type Handler struct {
	svc *Service
	log *zap.SugaredLogger
}

func NewHandler(svc *Service, log *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, log: log.Named("stats")}
}

// Routes returns the /stats router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{user_id}", h.Get)
	return r
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Stats(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		httpx.WriteError(w, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, st)
}
