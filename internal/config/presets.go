package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/openmohaa/rating-api/internal/trueskill"
)

// DefaultPreset is always present and backed by the DEFAULT_* settings.
const DefaultPreset = "default"

// Presets maps a preset name to its game parameters.
type Presets map[string]trueskill.GameInfo

// LoadPresets reads the presets file (if any) on top of the default preset.
// Fields left out of a file entry take the default preset's value.
func LoadPresets(path string, def trueskill.GameInfo) (Presets, error) {
	presets := Presets{DefaultPreset: def}
	if path == "" {
		return presets, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets: %w", err)
	}
	return ParsePresets(data, def)
}

// ParsePresets decodes a presets document:
//
//	presets:
//	  ffa:
//	    beta: 4.1667
//	    draw_probability: 0
func ParsePresets(data []byte, def trueskill.GameInfo) (Presets, error) {
	var raw struct {
		Presets map[string]yaml.Node `yaml:"presets"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}

	presets := Presets{DefaultPreset: def}
	for name, node := range raw.Presets {
		game := def
		if err := node.Decode(&game); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		if err := game.Validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		presets[name] = game
	}
	return presets, nil
}

// Names returns the preset names in sorted order.
func (p Presets) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the named preset, or the default for an empty name.
func (p Presets) Lookup(name string) (trueskill.GameInfo, bool) {
	if name == "" {
		name = DefaultPreset
	}
	g, ok := p[name]
	return g, ok
}
