package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"recgate/internal/domain"
	"recgate/internal/service"
)

// defaultK is the result size used when the caller does not pass k.
const defaultK = 5

// Recommendations is the handler-facing subset of the recommender.
type Recommendations interface {
	Recommend(ctx context.Context, userID string, k int) (*domain.Recommendation, error)
	Health(ctx context.Context) (service.HealthReport, bool)
}

type Handler struct {
	svc Recommendations
	log zerolog.Logger
}

func NewHandler(svc Recommendations, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// GetRecommendations serves GET /recommendations/{userID}?k=N.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	k := defaultK
	if raw := r.URL.Query().Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "k must be a positive integer")
			return
		}
		k = parsed
	}

	rec, err := h.svc.Recommend(r.Context(), userID, k)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type healthResponse struct {
	Status string `json:"status"`
	service.HealthReport
}

// GetHealth serves GET /health, probing every required store.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	report, ok := h.svc.Health(r.Context())
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", HealthReport: report})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", HealthReport: report})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNoHistory):
		writeError(w, http.StatusNotFound, "user has no history")
	case errors.Is(err, domain.ErrStoreUnavailable):
		h.log.Error().Str("request_id", RequestIDFrom(r.Context())).Err(err).Msg("downstream store unavailable")
		writeError(w, http.StatusServiceUnavailable, "a required downstream store is unavailable")
	default:
		h.log.Error().Str("request_id", RequestIDFrom(r.Context())).Err(err).Msg("recommendation failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
