package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning centralizes all gameplay parameters. World units are block-sized:
// the foundation is BaseSize x BaseSize, every layer is BoxHeight tall.
type Tuning struct {
	BoxHeight   float64 `yaml:"box_height"`
	BaseSize    float64 `yaml:"base_size"`
	LayerSpeed  float64 `yaml:"layer_speed"`  // scripted units per second
	StartOffset float64 `yaml:"start_offset"` // spawn distance from the stack center

	Gravity          float64 `yaml:"gravity"` // positive, applied downward
	SolverIterations int     `yaml:"solver_iterations"`
	WorldExtent      float64 `yaml:"world_extent"` // broadphase half-extent

	CameraLead float64 `yaml:"camera_lead"` // view rises while below top + lead
	DespawnY   float64 `yaml:"despawn_y"`   // overhangs below this are removed

	TargetFPS  int     `yaml:"target_fps"`
	ViewWidth  float64 `yaml:"view_width"`  // logical canvas width
	ViewHeight float64 `yaml:"view_height"` // logical canvas height, in sub-pixels
}

// DefaultTuning returns the parameters the game ships with.
func DefaultTuning() Tuning {
	return Tuning{
		BoxHeight:   1.0,
		BaseSize:    3.0,
		LayerSpeed:  4.0,
		StartOffset: 5.0,

		Gravity:          18.0,
		SolverIterations: 4,
		WorldExtent:      40.0,

		CameraLead: 2.5,
		DespawnY:   -30.0,

		TargetFPS:  60,
		ViewWidth:  100,
		ViewHeight: 150,
	}
}

// LoadTuning reads a yaml tuning file, filling unset fields from defaults.
// A missing file is not an error: the defaults are returned as-is.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning %s: %w", path, err)
	}
	return t, nil
}
