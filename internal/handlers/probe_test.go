package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func probeApp(store any) *fiber.App {
	h := NewProbeHandler(store)
	app := fiber.New()
	app.Get("/healthz", h.Liveness)
	app.Get("/readyz", h.Readiness)
	return app
}

func TestProbes(t *testing.T) {
	tests := []struct {
		name  string
		store any
		path  string
		want  int
	}{
		{"liveness", nil, "/healthz", fiber.StatusOK},
		{"ready without pinger", struct{}{}, "/readyz", fiber.StatusOK},
		{"ready with healthy store", fakePinger{}, "/readyz", fiber.StatusOK},
		{"not ready", fakePinger{err: errors.New("down")}, "/readyz", fiber.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, tt.path, nil)
			resp, err := probeApp(tt.store).Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("GET %s status = %d, want %d", tt.path, resp.StatusCode, tt.want)
			}
		})
	}
}
