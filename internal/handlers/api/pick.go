package api

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"pickwise/internal/metrics"
	"pickwise/internal/models"
	"pickwise/internal/picker"
	"pickwise/internal/prefs"
)

// PickHandler serves stateless picks. It reads scores but never writes them.
type PickHandler struct {
	store            prefs.Store
	presets          []models.Preset
	defaultAdventure float64
	src              picker.Source
}

// NewPickHandler creates a new pick handler. src must be safe for concurrent
// use; picker.Locked wraps one that is not.
func NewPickHandler(store prefs.Store, presets []models.Preset, defaultAdventure float64, src picker.Source) *PickHandler {
	return &PickHandler{
		store:            store,
		presets:          presets,
		defaultAdventure: picker.ClampAdventure(defaultAdventure),
		src:              src,
	}
}

// Pick draws one title from the request pool or preset.
// Adventure falls back to the preset's, then to the configured default.
func (h *PickHandler) Pick(c fiber.Ctx) error {
	var body pickRequest
	if err := bindJSON(c, &body); err != nil {
		return jsonRequestError(c, err)
	}

	pool, preset, err := resolvePool(h.presets, body.Pool, body.Preset)
	if err != nil {
		return jsonPoolError(c, err)
	}

	adventure := h.defaultAdventure
	switch {
	case body.Adventure != nil:
		adventure = picker.ClampAdventure(*body.Adventure)
	case preset != nil:
		adventure = preset.Adventure
	}

	scores, err := peekScores(c.Context(), h.store, pool)
	if err != nil {
		return jsonInternalError(c, "failed to load scores", err)
	}
	score := func(title string) float64 { return scores[title] }

	title, _ := picker.Pick(pool, score, adventure, h.src)
	metrics.RecordPick(adventure)

	probs := picker.Distribution(pool, score, adventure)
	probabilities := make(map[string]float64, len(pool))
	for i, t := range pool {
		probabilities[t] = probs[i]
	}

	return jsonSuccess(c, models.PickResponse{
		Title:          title,
		Adventure:      adventure,
		AdventureLabel: picker.AdventureLabel(adventure),
		Probabilities:  probabilities,
	})
}

// Label returns the label for ?value=, clamped to [0, 1].
func (h *PickHandler) Label(c fiber.Ctx) error {
	raw := c.Query("value")
	if raw == "" {
		return jsonError(c, fiber.StatusBadRequest, "value is required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "value must be a number")
	}

	adventure := picker.ClampAdventure(v)
	return jsonSuccess(c, models.AdventureLabelResponse{
		Adventure: adventure,
		Label:     picker.AdventureLabel(adventure),
	})
}

// peekScores returns the score of every title without creating records.
// Unknown titles score as an empty record.
func peekScores(ctx context.Context, store prefs.Store, titles []string) (map[string]float64, error) {
	scores := make(map[string]float64, len(titles))
	for _, title := range titles {
		stat, err := store.GetStat(ctx, title)
		switch {
		case errors.Is(err, prefs.ErrStatNotFound):
			scores[title] = picker.BetaMean(0, 0)
		case err != nil:
			return nil, err
		default:
			scores[title] = picker.BetaMean(stat.SuccessCount, stat.FailureCount)
		}
	}
	return scores, nil
}
