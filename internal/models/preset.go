package models

// Preset is a named, read-only pool loaded from configuration.
type Preset struct {
	Name      string   `json:"name"`
	Options   []string `json:"options"`
	Adventure float64  `json:"adventure"`
}
