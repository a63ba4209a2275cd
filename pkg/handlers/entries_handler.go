package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mealmind-inc/mealmind-engine/pkg/apperrors"
	"github.com/mealmind-inc/mealmind-engine/pkg/models"
	"github.com/mealmind-inc/mealmind-engine/pkg/repositories"
)

// DaySummary is the daily ledger view: the entries plus running totals and
// the owner's most recent weight record when one exists. Net is consumed
// minus burned.
type DaySummary struct {
	Day              string              `json:"day"`
	Entries          []*models.FoodEntry `json:"entries"`
	CaloriesConsumed int                 `json:"calories_consumed"`
	CaloriesBurned   int                 `json:"calories_burned"`
	CaloriesNet      int                 `json:"calories_net"`
	LatestWeightKg   *float64            `json:"latest_weight_kg,omitempty"`
}

// EntriesHandler serves read access to the nutrition ledger.
type EntriesHandler struct {
	entries repositories.EntryRepository
	weights repositories.WeightRepository
	logger  *zap.Logger
}

// NewEntriesHandler creates a new EntriesHandler.
func NewEntriesHandler(entries repositories.EntryRepository, weights repositories.WeightRepository, logger *zap.Logger) *EntriesHandler {
	return &EntriesHandler{entries: entries, weights: weights, logger: logger.Named("entries-handler")}
}

// RegisterRoutes registers the entries handler's routes on the given mux.
func (h *EntriesHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/entries", h.ListByDay)
}

// ListByDay handles GET /api/entries?owner_id=<uuid>&day=<YYYY-MM-DD>.
// Day defaults to today (UTC).
func (h *EntriesHandler) ListByDay(w http.ResponseWriter, r *http.Request) {
	ownerID, err := uuid.Parse(r.URL.Query().Get("owner_id"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "owner_id must be a UUID")
		return
	}

	day := time.Now().UTC()
	if raw := r.URL.Query().Get("day"); raw != "" {
		day, err = time.Parse("2006-01-02", raw)
		if err != nil {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "day must be YYYY-MM-DD")
			return
		}
	}

	entries, err := h.entries.ListByDay(r.Context(), ownerID, day)
	if err != nil {
		h.logger.Error("List entries failed",
			zap.String("owner_id", ownerID.String()),
			zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to list entries")
		return
	}

	summary := DaySummary{
		Day:     day.Format("2006-01-02"),
		Entries: entries,
	}
	if summary.Entries == nil {
		summary.Entries = []*models.FoodEntry{}
	}
	for _, entry := range entries {
		if entry.Calories < 0 {
			summary.CaloriesBurned += -entry.Calories
		} else {
			summary.CaloriesConsumed += entry.Calories
		}
	}
	summary.CaloriesNet = summary.CaloriesConsumed - summary.CaloriesBurned

	switch weight, err := h.weights.Latest(r.Context(), ownerID); {
	case err == nil:
		summary.LatestWeightKg = &weight.Kilogram
	case errors.Is(err, apperrors.ErrNotFound):
		// No weight on record yet; the field is simply omitted.
	default:
		h.logger.Warn("Latest weight lookup failed",
			zap.String("owner_id", ownerID.String()),
			zap.Error(err))
	}

	_ = WriteJSON(w, http.StatusOK, summary)
}
