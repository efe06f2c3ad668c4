package session

import "pickwise/internal/picker"

// State is the part of a Session that survives between HTTP requests.
type State struct {
	Recent    []string `json:"recent"`
	Pending   string   `json:"pending,omitempty"`
	Adventure float64  `json:"adventure"`
}

// State captures the session for later Restore.
func (s *Session) State() State {
	recent := s.recent.Items()
	if recent == nil {
		recent = []string{}
	}
	return State{
		Recent:    recent,
		Pending:   s.pending,
		Adventure: s.adventure,
	}
}

// Restore replaces the session's queue, pending pick and adventurousness.
// The queue invariants are re-applied, so a tampered state cannot grow it.
func (s *Session) Restore(st State) {
	s.recent = NewRecentQueue(st.Recent...)
	s.pending = st.Pending
	s.adventure = picker.ClampAdventure(st.Adventure)
}
