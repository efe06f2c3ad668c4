package server

import (
	"time"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pickwise/internal/handlers"
	"pickwise/internal/handlers/api"
	"pickwise/internal/models"
	"pickwise/internal/picker"
	"pickwise/internal/prefs"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(backend prefs.Backend, presets []models.Preset) {
	pickSrc := picker.DefaultSource()
	previewSrc := picker.Locked(picker.NewSource(time.Now().UnixNano()))

	// Initialize handlers
	probeHandler := handlers.NewProbeHandler(backend)
	pickHandler := api.NewPickHandler(backend, presets, s.Cfg.DefaultAdventure, pickSrc)
	statsHandler := api.NewStatsHandler(backend)
	presetHandler := api.NewPresetHandler(presets)
	decisionHandler := api.NewDecisionHandler(backend)
	sessionHandler := api.NewSessionHandler(backend, presets, s.Cfg.DefaultAdventure, pickSrc, previewSrc)

	// Probes and metrics
	s.App.Get("/health", probeHandler.Liveness)
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := s.App.Group("/api/v1")

	// Stateless picking
	v1.Post("/pick", pickHandler.Pick)
	v1.Get("/adventure/label", pickHandler.Label)

	// Learned preferences and history
	v1.Get("/stats", statsHandler.List)
	v1.Get("/stats/:title", statsHandler.Get)
	v1.Get("/presets", presetHandler.List)
	v1.Get("/decisions", decisionHandler.List)

	// Selection session, kept in the cookie session
	v1.Get("/session", sessionHandler.Get)
	v1.Put("/session/adventure", sessionHandler.SetAdventure)
	v1.Post("/session/pick", sessionHandler.Pick)
	v1.Post("/session/accept", sessionHandler.Accept)
	v1.Post("/session/skip", sessionHandler.Skip)
}
