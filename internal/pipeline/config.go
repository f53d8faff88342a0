package pipeline

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/icocloud/pkg/math"
)

// Config errors.
var (
	ErrInvalidCropRange  = errors.New("crop minimum is greater than maximum")
	ErrInvalidScale      = errors.New("scale must be greater than zero")
	ErrInvalidFraction   = errors.New("keep fraction must be in (0, 1]")
	ErrInvalidRadius     = errors.New("sphere radius must be greater than zero")
	ErrInvalidAxisPreset = errors.New("unknown axis preset")
)

// ConfigError reports an invalid Config field.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// AxisPreset selects how input axes map onto the Y-up output frame.
type AxisPreset string

const (
	// AxisIdentity keeps coordinates as they are; input is already Y-up.
	AxisIdentity AxisPreset = "identity"
	// AxisZUpToYUp maps (x, y, z) to (x, z, -y).
	AxisZUpToYUp AxisPreset = "z_up_to_y_up"
)

// ParseAxisPreset resolves a preset name.
func ParseAxisPreset(s string) (AxisPreset, error) {
	switch a := AxisPreset(s); a {
	case AxisIdentity, AxisZUpToYUp:
		return a, nil
	case "":
		return AxisIdentity, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAxisPreset, s)
}

// Apply remaps p into the output frame.
func (a AxisPreset) Apply(p math.Vec3) math.Vec3 {
	if a == AxisZUpToYUp {
		return math.Vec3{X: p.X, Y: p.Z, Z: -p.Y}
	}
	return p
}

// Crop is an inclusive height window applied to the up (Y) coordinate after
// the axis remap and before scaling.
type Crop struct {
	Enabled bool
	Min     float64
	Max     float64
}

// KeepAll returns a disabled crop.
func KeepAll() Crop { return Crop{} }

// CropRange returns an enabled crop for [min, max].
func CropRange(min, max float64) Crop {
	return Crop{Enabled: true, Min: min, Max: max}
}

// Contains reports whether height h is kept.
func (c Crop) Contains(h float64) bool {
	return !c.Enabled || (h >= c.Min && h <= c.Max)
}

// Config holds the settings for one conversion. It is not modified during
// a run.
type Config struct {
	SphereRadius float64
	WorldScale   float64
	KeepFraction float64
	Axis         AxisPreset
	Crop         Crop
	// Seed makes sampling reproducible; 0 draws a random seed.
	Seed uint64
}

// DefaultConfig returns the settings of the stock converter.
func DefaultConfig() Config {
	return Config{
		SphereRadius: 0.01,
		WorldScale:   1.0,
		KeepFraction: 1.0,
		Axis:         AxisIdentity,
		Crop:         KeepAll(),
	}
}

// Validate checks every field and returns the first *ConfigError.
func (c Config) Validate() error {
	if !(c.SphereRadius > 0) || gomath.IsInf(c.SphereRadius, 0) {
		return &ConfigError{Field: "sphere_radius", Err: fmt.Errorf("%w: %v", ErrInvalidRadius, c.SphereRadius)}
	}
	if !(c.WorldScale > 0) || gomath.IsInf(c.WorldScale, 0) {
		return &ConfigError{Field: "world_scale", Err: fmt.Errorf("%w: %v", ErrInvalidScale, c.WorldScale)}
	}
	if !(c.KeepFraction > 0 && c.KeepFraction <= 1) {
		return &ConfigError{Field: "lod_fraction", Err: fmt.Errorf("%w: %v", ErrInvalidFraction, c.KeepFraction)}
	}
	if _, err := ParseAxisPreset(string(c.Axis)); err != nil {
		return &ConfigError{Field: "axis_preset", Err: err}
	}
	if c.Crop.Enabled && !(c.Crop.Min <= c.Crop.Max) {
		return &ConfigError{Field: "crop", Err: fmt.Errorf("%w: [%v, %v]", ErrInvalidCropRange, c.Crop.Min, c.Crop.Max)}
	}
	return nil
}
