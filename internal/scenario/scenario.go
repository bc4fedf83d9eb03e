package scenario

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"shield-optimizer/internal/search"
)

// Embedded is the preset collection compiled into the binary.
//
//go:embed scenarios.yaml
var Embedded []byte

// Scenario is a named damage profile preset.
type Scenario struct {
	Name          string  `yaml:"name"`
	Explosive     float64 `yaml:"explosive"`
	Kinetic       float64 `yaml:"kinetic"`
	Thermal       float64 `yaml:"thermal"`
	Absolute      float64 `yaml:"absolute"`
	Effectiveness float64 `yaml:"effectiveness"`
	CellBank      float64 `yaml:"cellbank"`
	Reinforcement float64 `yaml:"reinforcement"`
}

// Damage converts the preset into a search damage profile.
func (s Scenario) Damage() search.DamageProfile {
	return search.DamageProfile{
		Explosive:     s.Explosive,
		Kinetic:       s.Kinetic,
		Thermal:       s.Thermal,
		Absolute:      s.Absolute,
		Effectiveness: s.Effectiveness,
		CellBank:      s.CellBank,
		Reinforcement: s.Reinforcement,
	}
}

func (s Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario without a name")
	}
	if s.Effectiveness < 0 || s.Effectiveness > 1 {
		return fmt.Errorf("scenario %q: effectiveness %v outside [0, 1]", s.Name, s.Effectiveness)
	}
	for _, dps := range []struct {
		label string
		value float64
	}{
		{"explosive", s.Explosive},
		{"kinetic", s.Kinetic},
		{"thermal", s.Thermal},
		{"absolute", s.Absolute},
		{"cellbank", s.CellBank},
		{"reinforcement", s.Reinforcement},
	} {
		if dps.value < 0 {
			return fmt.Errorf("scenario %q: negative %s value %v", s.Name, dps.label, dps.value)
		}
	}
	return nil
}

// Set is a named collection of presets.
type Set struct {
	byName map[string]Scenario
}

// Parse reads a YAML preset document and validates every entry.
func Parse(data []byte) (*Set, error) {
	var doc struct {
		Scenarios []Scenario `yaml:"scenarios"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	if len(doc.Scenarios) == 0 {
		return nil, fmt.Errorf("scenario: document has no scenarios")
	}

	set := &Set{byName: make(map[string]Scenario, len(doc.Scenarios))}
	for _, s := range doc.Scenarios {
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("scenario: %w", err)
		}
		if _, exists := set.byName[s.Name]; exists {
			return nil, fmt.Errorf("scenario: duplicate name %q", s.Name)
		}
		set.byName[s.Name] = s
	}
	return set, nil
}

// LoadFile parses a preset file from disk.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	return Parse(data)
}

// Default parses the embedded preset collection.
func Default() (*Set, error) {
	return Parse(Embedded)
}

// Names lists the presets, sorted.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.byName))
	for name := range s.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the named preset.
func (s *Set) Get(name string) (Scenario, error) {
	sc, ok := s.byName[name]
	if !ok {
		return Scenario{}, fmt.Errorf("scenario: unknown preset %q (have %v)", name, s.Names())
	}
	return sc, nil
}
