package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"pickwise/internal/models"
	"pickwise/internal/picker"
	"pickwise/internal/validation"
)

// YAMLConfig represents the structure of the config.yaml file.
type YAMLConfig struct {
	Presets []PresetConfig `yaml:"presets"`
}

// PresetConfig defines a named pool of options.
type PresetConfig struct {
	Name      string   `yaml:"name"`
	Options   []string `yaml:"options"`
	Adventure *float64 `yaml:"adventure,omitempty"` // Defaults to the global default
}

// LoadYAMLConfig loads the YAML configuration file at path.
// Returns nil without error if the file doesn't exist.
func LoadYAMLConfig(path string) (*YAMLConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	seen := make(map[string]bool, len(cfg.Presets))
	for i := range cfg.Presets {
		p := &cfg.Presets[i]
		if p.Name == "" {
			return nil, fmt.Errorf("preset %d: name is required", i)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("preset %q: duplicate name", p.Name)
		}
		seen[p.Name] = true

		p.Options = validation.NormalizePool(p.Options)
		if len(p.Options) == 0 {
			return nil, fmt.Errorf("preset %q: at least one option is required", p.Name)
		}
	}

	return &cfg, nil
}

// GetPreset finds a preset by name.
func (c *YAMLConfig) GetPreset(name string) *PresetConfig {
	if c == nil {
		return nil
	}
	for i := range c.Presets {
		if c.Presets[i].Name == name {
			return &c.Presets[i]
		}
	}
	return nil
}

// PresetModels converts the presets for API output, filling in
// defaultAdventure where a preset has none.
func (c *YAMLConfig) PresetModels(defaultAdventure float64) []models.Preset {
	if c == nil {
		return []models.Preset{}
	}
	out := make([]models.Preset, len(c.Presets))
	for i, p := range c.Presets {
		a := defaultAdventure
		if p.Adventure != nil {
			a = *p.Adventure
		}
		out[i] = models.Preset{
			Name:      p.Name,
			Options:   p.Options,
			Adventure: picker.ClampAdventure(a),
		}
	}
	return out
}
