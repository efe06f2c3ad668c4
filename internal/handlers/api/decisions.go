package api

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"pickwise/internal/prefs"
)

const (
	defaultDecisionLimit = 50
	maxDecisionLimit     = 500
)

// DecisionHandler exposes the accept history.
type DecisionHandler struct {
	journal prefs.Journal
}

// NewDecisionHandler creates a new decision handler.
func NewDecisionHandler(journal prefs.Journal) *DecisionHandler {
	return &DecisionHandler{journal: journal}
}

// List returns the most recent decisions, newest first.
func (h *DecisionHandler) List(c fiber.Ctx) error {
	limit := defaultDecisionLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return jsonError(c, fiber.StatusBadRequest, "limit must be a positive integer")
		}
		limit = min(n, maxDecisionLimit)
	}

	decisions, err := h.journal.ListDecisions(c.Context(), limit)
	if err != nil {
		return jsonInternalError(c, "failed to fetch decisions", err)
	}
	return jsonSuccess(c, decisions)
}
