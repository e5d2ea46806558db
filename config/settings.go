// Package config holds the tunable state of each camera and the fixed
// display resolution, loads both from YAML, and applies the asynchronous
// mutation messages that arrive over the bus between frames.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/notbadgun/orthocam/projection"
	"github.com/notbadgun/orthocam/scene"
)

// Display is the design-time resolution. It is read once at startup and
// never changes; projectors and screen-space math are defined against it.
type Display struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Valid reports whether both dimensions are positive.
func (d Display) Valid() bool {
	return d.Width > 0 && d.Height > 0
}

// Settings is everything tunable about one camera. The zero value is not
// a sensible camera; start from Defaults.
//
// A deadzone or bounds rectangle is active when any of its four edges is
// non-zero, so clearing one means zeroing all four edges.
type Settings struct {
	Projection   string   `yaml:"projection"`
	NearZ        float64  `yaml:"near_z"`
	FarZ         float64  `yaml:"far_z"`
	Zoom         float64  `yaml:"zoom"`
	Follow       bool     `yaml:"follow"`
	FollowTarget scene.ID `yaml:"-"`
	FollowLerp   float64  `yaml:"follow_lerp"`

	DeadzoneLeft   float64 `yaml:"deadzone_left"`
	DeadzoneTop    float64 `yaml:"deadzone_top"`
	DeadzoneRight  float64 `yaml:"deadzone_right"`
	DeadzoneBottom float64 `yaml:"deadzone_bottom"`

	BoundsLeft   float64 `yaml:"bounds_left"`
	BoundsTop    float64 `yaml:"bounds_top"`
	BoundsRight  float64 `yaml:"bounds_right"`
	BoundsBottom float64 `yaml:"bounds_bottom"`
}

// Defaults returns the settings a camera starts with: default projector,
// clip range [-1, 1], zoom 1, instant follow lerp, no deadzone, no bounds.
func Defaults() Settings {
	return Settings{
		Projection: projection.Default,
		NearZ:      -1,
		FarZ:       1,
		Zoom:       1,
		FollowLerp: 1,
	}
}

// UnmarshalYAML decodes over Defaults so omitted fields keep their
// default values instead of going to zero.
func (s *Settings) UnmarshalYAML(value *yaml.Node) error {
	type plain Settings
	p := plain(Defaults())
	if err := value.Decode(&p); err != nil {
		return err
	}
	*s = Settings(p)
	return nil
}

// HasDeadzone reports whether a deadzone rectangle is active.
func (s Settings) HasDeadzone() bool {
	return s.DeadzoneLeft != 0 || s.DeadzoneTop != 0 ||
		s.DeadzoneRight != 0 || s.DeadzoneBottom != 0
}

// HasBounds reports whether a bounds rectangle is active.
func (s Settings) HasBounds() bool {
	return s.BoundsLeft != 0 || s.BoundsTop != 0 ||
		s.BoundsRight != 0 || s.BoundsBottom != 0
}

// File is the on-disk camera configuration: the display resolution plus
// any number of named camera settings.
type File struct {
	Display Display             `yaml:"display"`
	Cameras map[string]Settings `yaml:"cameras"`
}

// Parse decodes a camera configuration document.
func Parse(data []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("config: parse: %w", err)
	}
	return f, nil
}

// Load reads and decodes a camera configuration file.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	return f, nil
}
