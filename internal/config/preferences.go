package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/slots"
)

// preferencesFile is the YAML shape of a slot-preferences file:
//
//	preferred_days: [tuesday, thursday]
//	window_start: "18:00"
//	window_end: "21:00"
//	max_fee: 5.0
//	weights:
//	  day: 0.4
//	  time: 0.3
//	  fee: 0.3
type preferencesFile struct {
	PreferredDays []string      `yaml:"preferred_days"`
	WindowStart   string        `yaml:"window_start"`
	WindowEnd     string        `yaml:"window_end"`
	MaxFee        float64       `yaml:"max_fee"`
	Weights       slots.Weights `yaml:"weights"`
}

// LoadPreferences reads a slot-preferences YAML file. An empty path returns
// zero preferences (everything scores on its no-preference defaults).
func LoadPreferences(path string) (slots.Preferences, error) {
	if path == "" {
		return slots.Preferences{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return slots.Preferences{}, fmt.Errorf("read preferences file: %w", err)
	}

	var pf preferencesFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return slots.Preferences{}, fmt.Errorf("parse preferences file: %w", err)
	}

	return slots.Preferences{
		PreferredDays: pf.PreferredDays,
		WindowStart:   pf.WindowStart,
		WindowEnd:     pf.WindowEnd,
		MaxFee:        pf.MaxFee,
		Weights:       pf.Weights,
	}, nil
}
