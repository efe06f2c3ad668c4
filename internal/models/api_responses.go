package models

import "time"

// PreviewFrame is one cosmetic step shown before the real result.
type PreviewFrame struct {
	Title   string `json:"title"`
	DelayMS int64  `json:"delay_ms"`
}

// PickResponse is returned by the stateless pick endpoint.
type PickResponse struct {
	Title          string             `json:"title"`
	Adventure      float64            `json:"adventure"`
	AdventureLabel string             `json:"adventure_label"`
	Probabilities  map[string]float64 `json:"probabilities"`
}

// SessionResponse describes the caller's selection session.
type SessionResponse struct {
	Recent         []string `json:"recent"`
	Pending        string   `json:"pending,omitempty"`
	Adventure      float64  `json:"adventure"`
	AdventureLabel string   `json:"adventure_label"`
}

// SessionPickResponse is returned after a session pick or skip.
type SessionPickResponse struct {
	Title   string          `json:"title"`
	Preview []PreviewFrame  `json:"preview"`
	Session SessionResponse `json:"session"`
}

// StatResponse is an option stat with its current score.
type StatResponse struct {
	Title        string     `json:"title"`
	SuccessCount int        `json:"success_count"`
	FailureCount int        `json:"failure_count"`
	LastUsedAt   *time.Time `json:"last_used_at"`
	Score        float64    `json:"score"`
}

// AdventureLabelResponse maps an adventurousness value to its label.
type AdventureLabelResponse struct {
	Adventure float64 `json:"adventure"`
	Label     string  `json:"label"`
}
