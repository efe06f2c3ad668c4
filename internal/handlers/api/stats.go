package api

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v3"

	"pickwise/internal/models"
	"pickwise/internal/picker"
	"pickwise/internal/prefs"
	"pickwise/internal/validation"
)

// StatsHandler exposes the learned option statistics.
type StatsHandler struct {
	store prefs.Store
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(store prefs.Store) *StatsHandler {
	return &StatsHandler{store: store}
}

// List returns every option stat with its score.
func (h *StatsHandler) List(c fiber.Ctx) error {
	stats, err := h.store.ListStats(c.Context())
	if err != nil {
		return jsonInternalError(c, "failed to fetch stats", err)
	}

	out := make([]models.StatResponse, len(stats))
	for i := range stats {
		out[i] = statResponse(&stats[i])
	}
	return jsonSuccess(c, out)
}

// Get returns the stat for one title.
func (h *StatsHandler) Get(c fiber.Ctx) error {
	title, err := url.PathUnescape(c.Params("title"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid title")
	}
	title = validation.NormalizeTitle(title)
	if ok, msg := validation.ValidateTitle(title); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	stat, err := h.store.GetStat(c.Context(), title)
	if err != nil {
		if errors.Is(err, prefs.ErrStatNotFound) {
			return jsonError(c, fiber.StatusNotFound, "option not found")
		}
		return jsonInternalError(c, "failed to fetch stat", err)
	}

	return jsonSuccess(c, statResponse(stat))
}

func statResponse(s *models.OptionStat) models.StatResponse {
	return models.StatResponse{
		Title:        s.Title,
		SuccessCount: s.SuccessCount,
		FailureCount: s.FailureCount,
		LastUsedAt:   s.LastUsedAt,
		Score:        picker.BetaMean(s.SuccessCount, s.FailureCount),
	}
}
