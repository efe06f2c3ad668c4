package api

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"

	"pickwise/internal/models"
	"pickwise/internal/validation"
)

var (
	errPoolEmpty      = errors.New("pool is empty")
	errPresetNotFound = errors.New("preset not found")
)

type pickRequest struct {
	Pool      []string `json:"pool" validate:"required_without=Preset,max=500,dive,max=200"`
	Preset    string   `json:"preset" validate:"omitempty,max=100"`
	Adventure *float64 `json:"adventure" validate:"omitempty,gte=0,lte=1"`
}

type poolRequest struct {
	Pool   []string `json:"pool" validate:"required_without=Preset,max=500,dive,max=200"`
	Preset string   `json:"preset" validate:"omitempty,max=100"`
}

type adventureRequest struct {
	Adventure *float64 `json:"adventure" validate:"required,gte=0,lte=1"`
}

type titleRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

type skipRequest struct {
	Title  string   `json:"title" validate:"required,max=200"`
	Pool   []string `json:"pool" validate:"required_without=Preset,max=500,dive,max=200"`
	Preset string   `json:"preset" validate:"omitempty,max=100"`
}

// bindJSON decodes the request body into dst and validates it.
func bindJSON(c fiber.Ctx, dst any) error {
	if err := json.Unmarshal(c.Body(), dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return validation.ValidateStruct(dst)
}

// findPreset looks up a configured preset by name.
func findPreset(presets []models.Preset, name string) (*models.Preset, bool) {
	for i := range presets {
		if presets[i].Name == name {
			return &presets[i], true
		}
	}
	return nil, false
}

// resolvePool returns the normalized pool of a request: the named preset's
// options when preset is set, pool otherwise.
func resolvePool(presets []models.Preset, pool []string, preset string) ([]string, *models.Preset, error) {
	var p *models.Preset
	if preset != "" {
		found, ok := findPreset(presets, preset)
		if !ok {
			return nil, nil, errPresetNotFound
		}
		p = found
		pool = found.Options
	}

	pool = validation.NormalizePool(pool)
	if len(pool) == 0 {
		return nil, p, errPoolEmpty
	}
	return pool, p, nil
}

// jsonPoolError maps resolvePool errors to responses.
func jsonPoolError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errPresetNotFound):
		return jsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, errPoolEmpty):
		return jsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	default:
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}
}
