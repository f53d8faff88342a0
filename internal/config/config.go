// Package config handles icocloud configuration loading and management.
package config

// Config holds all application settings.
type Config struct {
	Conversion ConversionConfig `yaml:"conversion"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ConversionConfig holds the settings that shape the generated mesh.
type ConversionConfig struct {
	SphereRadius float64    `yaml:"sphere_radius"`
	WorldScale   float64    `yaml:"world_scale"`
	LOD          int        `yaml:"lod"`          // preset level, see LODFractions
	LODFraction  float64    `yaml:"lod_fraction"` // overrides LOD when > 0
	AxisPreset   string     `yaml:"axis_preset"`
	Crop         CropConfig `yaml:"crop"`
	Seed         uint64     `yaml:"seed"` // 0 picks a random seed per run
}

// CropConfig holds the height crop window, in source units.
type CropConfig struct {
	Enabled bool    `yaml:"enabled"`
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
}

// OutputConfig holds output file settings.
type OutputConfig struct {
	Dir       string `yaml:"dir"` // empty writes next to the input
	Overwrite bool   `yaml:"overwrite"`
	Comments  bool   `yaml:"comments"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Conversion: ConversionConfig{
			SphereRadius: 0.01,
			WorldScale:   1.0,
			LOD:          0,
			AxisPreset:   "identity",
		},
		Output: OutputConfig{
			Comments: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
