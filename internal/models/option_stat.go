package models

import "time"

// Outcome labels recorded for an option.
const (
	OutcomeAccepted = "accepted"
	OutcomeSkipped  = "skipped"
)

// OptionStat holds the accept/skip history of one option title.
type OptionStat struct {
	Title        string     `json:"title"`
	SuccessCount int        `json:"success_count"`
	FailureCount int        `json:"failure_count"`
	LastUsedAt   *time.Time `json:"last_used_at"`
}

// NewOptionStat returns an empty record for title.
func NewOptionStat(title string) *OptionStat {
	return &OptionStat{Title: title}
}

// Touch sets LastUsedAt to t.
func (s *OptionStat) Touch(t time.Time) {
	s.LastUsedAt = &t
}
