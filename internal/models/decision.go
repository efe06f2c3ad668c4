package models

import (
	"time"

	"github.com/google/uuid"
)

// Decision is a log entry written whenever a pick is accepted.
type Decision struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	DecidedAt time.Time `json:"decided_at"`
	HourOfDay int       `json:"hour_of_day"`
	Weekday   int       `json:"weekday"` // 1=Sunday ... 7=Saturday
}

// NewDecision builds a decision for title at t, deriving the time-of-day
// context from t's location.
func NewDecision(title string, t time.Time) *Decision {
	return &Decision{
		ID:        uuid.New(),
		Title:     title,
		DecidedAt: t,
		HourOfDay: t.Hour(),
		Weekday:   int(t.Weekday()) + 1,
	}
}
