package pipeline

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/icocloud/internal/testutil"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.SphereRadius != 0.01 {
		t.Errorf("expected radius 0.01, got %v", cfg.SphereRadius)
	}
	if cfg.KeepFraction != 1 {
		t.Errorf("expected fraction 1, got %v", cfg.KeepFraction)
	}
	if cfg.Crop.Enabled {
		t.Error("expected crop disabled by default")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		field    string
		sentinel error
	}{
		{"zero radius", func(c *Config) { c.SphereRadius = 0 }, "sphere_radius", ErrInvalidRadius},
		{"nan radius", func(c *Config) { c.SphereRadius = gomath.NaN() }, "sphere_radius", ErrInvalidRadius},
		{"zero scale", func(c *Config) { c.WorldScale = 0 }, "world_scale", ErrInvalidScale},
		{"negative scale", func(c *Config) { c.WorldScale = -2 }, "world_scale", ErrInvalidScale},
		{"infinite scale", func(c *Config) { c.WorldScale = gomath.Inf(1) }, "world_scale", ErrInvalidScale},
		{"zero fraction", func(c *Config) { c.KeepFraction = 0 }, "lod_fraction", ErrInvalidFraction},
		{"fraction above one", func(c *Config) { c.KeepFraction = 1.01 }, "lod_fraction", ErrInvalidFraction},
		{"unknown axis", func(c *Config) { c.Axis = "x_up" }, "axis_preset", ErrInvalidAxisPreset},
		{"inverted crop", func(c *Config) { c.Crop = CropRange(2, 1) }, "crop", ErrInvalidCropRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			testutil.AssertErrorIs(t, err, tt.sentinel)

			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("expected *ConfigError, got %T", err)
			}
			if cerr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, cerr.Field)
			}
		})
	}
}

func TestConfig_InvertedCropIgnoredWhenDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Crop = Crop{Min: 5, Max: 1}
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled crop should not be validated, got %v", err)
	}
}

func TestParseAxisPreset(t *testing.T) {
	tests := []struct {
		in      string
		want    AxisPreset
		wantErr bool
	}{
		{"identity", AxisIdentity, false},
		{"z_up_to_y_up", AxisZUpToYUp, false},
		{"", AxisIdentity, false},
		{"Z_UP", "", true},
	}

	for _, tt := range tests {
		got, err := ParseAxisPreset(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAxisPreset(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAxisPreset(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
