// Package scenario loads YAML scenario definitions: the ownship start
// state and the contact list a simulation run begins with.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Ownship is the player vessel's starting state.
type Ownship struct {
	X          float64 `yaml:"x_ft"`
	Y          float64 `yaml:"y_ft"`
	Heading    float64 `yaml:"heading"`
	SpeedKts   float64 `yaml:"speed_kts"`
	NoiseLevel float64 `yaml:"noise_level"`
}

// Contact declares one AI vessel in the scenario.
type Contact struct {
	Name            string  `yaml:"name"`
	Classification  string  `yaml:"classification"`
	Profile         string  `yaml:"profile"`
	X               float64 `yaml:"x_ft"`
	Y               float64 `yaml:"y_ft"`
	Heading         float64 `yaml:"heading"`
	SpeedKts        float64 `yaml:"speed_kts"`
	SourceLevel     float64 `yaml:"source_level"`
	Sensitivity     float64 `yaml:"sensitivity"`
	CavitationOnset float64 `yaml:"cavitation_onset_kts"`
	TransientRate   float64 `yaml:"transient_rate"`
}

// Scenario is a named starting situation.
type Scenario struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	SeaState    *int      `yaml:"sea_state,omitempty"`
	DeepWater   *bool     `yaml:"deep_water,omitempty"`
	Ownship     Ownship   `yaml:"ownship"`
	Contacts    []Contact `yaml:"contacts"`
}

var validClassifications = map[string]bool{
	"MERCHANT": true,
	"TRAWLER":  true,
	"ESCORT":   true,
	"SUB":      true,
	"BIOLOGIC": true,
}

// Load reads a YAML scenario definition from disk.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Check(); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	return &s, nil
}

// Check validates a scenario definition.
func (s *Scenario) Check() error {
	if len(s.Contacts) == 0 {
		return fmt.Errorf("no contacts defined")
	}
	if s.SeaState != nil && (*s.SeaState < 0 || *s.SeaState > 6) {
		return fmt.Errorf("sea_state %d out of range 0-6", *s.SeaState)
	}
	seen := map[string]bool{}
	for i, c := range s.Contacts {
		if c.Name == "" {
			return fmt.Errorf("contact %d has no name", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate contact name %q", c.Name)
		}
		seen[c.Name] = true
		if !validClassifications[c.Classification] {
			return fmt.Errorf("contact %q: unknown classification %q", c.Name, c.Classification)
		}
		if c.Profile != "" && c.Profile != "CLEAN" && c.Profile != "DIRTY" {
			return fmt.Errorf("contact %q: unknown profile %q", c.Name, c.Profile)
		}
	}
	return nil
}
