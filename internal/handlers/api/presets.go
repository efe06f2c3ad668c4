package api

import (
	"github.com/gofiber/fiber/v3"

	"pickwise/internal/models"
)

// PresetHandler lists the configured presets.
type PresetHandler struct {
	presets []models.Preset
}

// NewPresetHandler creates a new preset handler.
func NewPresetHandler(presets []models.Preset) *PresetHandler {
	if presets == nil {
		presets = []models.Preset{}
	}
	return &PresetHandler{presets: presets}
}

// List returns every preset.
func (h *PresetHandler) List(c fiber.Ctx) error {
	return jsonSuccess(c, h.presets)
}
