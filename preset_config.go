package iconpack

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// presetConfig is the on-disk shape of a custom preset file.
type presetConfig struct {
	Presets []Preset `yaml:"presets"`
}

// LoadPresets reads custom presets from a YAML file and merges them over
// the stock set. A custom preset with a stock id replaces it.
func LoadPresets(path string) (map[string]Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading preset file: %w", err)
	}
	var config presetConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing preset file: %w", err)
	}
	presets := Presets()
	for _, preset := range config.Presets {
		if preset.ID == "" {
			return nil, fmt.Errorf("preset file %q: preset without id", path)
		}
		if len(preset.Sizes) == 0 {
			return nil, fmt.Errorf("preset %q: no sizes", preset.ID)
		}
		if _, err := NormalizeSizes(preset.Sizes); err != nil {
			return nil, fmt.Errorf("preset %q: %w", preset.ID, err)
		}
		if preset.Strategy == "" {
			preset.Strategy = FolderFlat
		}
		presets[preset.ID] = preset
	}
	return presets, nil
}
