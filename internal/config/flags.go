package config

import (
	gomath "math"

	"github.com/spf13/pflag"
)

// Flag names shared by the commands.
const (
	FlagConfig     = "config"
	FlagDebug      = "debug"
	FlagRadius     = "radius"
	FlagScale      = "scale"
	FlagLOD        = "lod"
	FlagFraction   = "fraction"
	FlagAxis       = "axis"
	FlagCropMin    = "crop-min"
	FlagCropMax    = "crop-max"
	FlagNoCrop     = "no-crop"
	FlagSeed       = "seed"
	FlagOutputDir  = "output-dir"
	FlagOverwrite  = "overwrite"
	FlagNoComments = "no-comments"
	FlagLogLevel   = "log-level"
	FlagLogFile    = "log-file"
)

// BindGlobalFlags registers flags accepted by every command.
func BindGlobalFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfig, "", "Path to config file")
	fs.Bool(FlagDebug, false, "Enable debug logging")
	fs.String(FlagLogLevel, "", "Log level (debug, info, warn, error)")
	fs.String(FlagLogFile, "", "Also write logs to this file (rotated)")
}

// BindConversionFlags registers the conversion and output overrides.
// Defaults shown in help come from Default(); only flags set on the command
// line override the config file.
func BindConversionFlags(fs *pflag.FlagSet) {
	def := Default()
	fs.Float64P(FlagRadius, "r", def.Conversion.SphereRadius, "Sphere radius in output units")
	fs.Float64P(FlagScale, "s", def.Conversion.WorldScale, "Uniform scale applied after remap and crop")
	fs.IntP(FlagLOD, "l", def.Conversion.LOD, "LOD preset: 0=100%, 1=10%, 2=25%, 3=50%")
	fs.Float64P(FlagFraction, "p", 0, "Keep fraction in (0, 1], overrides --lod")
	fs.String(FlagAxis, def.Conversion.AxisPreset, "Axis preset: identity or z_up_to_y_up")
	fs.Float64(FlagCropMin, 0, "Drop points below this height (enables crop, open above unless --crop-max is set)")
	fs.Float64(FlagCropMax, 0, "Drop points above this height (enables crop, open below unless --crop-min is set)")
	fs.Bool(FlagNoCrop, false, "Disable the height crop from the config file")
	fs.Uint64(FlagSeed, 0, "Sampler seed, 0 for random")
	fs.StringP(FlagOutputDir, "o", "", "Output directory (default: next to the input)")
	fs.BoolP(FlagOverwrite, "f", false, "Replace existing output files")
	fs.Bool(FlagNoComments, false, "Omit the comment header from the OBJ output")
}

// ConfigPath returns the explicit config path if provided via --config.
func ConfigPath(fs *pflag.FlagSet) string {
	if fs == nil || fs.Lookup(FlagConfig) == nil {
		return ""
	}
	path, _ := fs.GetString(FlagConfig)
	return path
}

// applyFlags applies the flags set on the command line to cfg. Flags that
// were not registered on fs are ignored.
func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	var err error
	changed := func(name string) bool {
		return err == nil && fs.Lookup(name) != nil && fs.Changed(name)
	}

	if changed(FlagDebug) {
		var debug bool
		if debug, err = fs.GetBool(FlagDebug); debug {
			cfg.Logging.Level = "debug"
		}
	}
	if changed(FlagLogLevel) {
		cfg.Logging.Level, err = fs.GetString(FlagLogLevel)
	}
	if changed(FlagLogFile) {
		cfg.Logging.LogFile, err = fs.GetString(FlagLogFile)
	}

	if changed(FlagRadius) {
		cfg.Conversion.SphereRadius, err = fs.GetFloat64(FlagRadius)
	}
	if changed(FlagScale) {
		cfg.Conversion.WorldScale, err = fs.GetFloat64(FlagScale)
	}
	if changed(FlagLOD) {
		cfg.Conversion.LOD, err = fs.GetInt(FlagLOD)
		cfg.Conversion.LODFraction = 0
	}
	if changed(FlagFraction) {
		cfg.Conversion.LODFraction, err = fs.GetFloat64(FlagFraction)
	}
	if changed(FlagAxis) {
		cfg.Conversion.AxisPreset, err = fs.GetString(FlagAxis)
	}
	cropMin, cropMax := changed(FlagCropMin), changed(FlagCropMax)
	if (cropMin || cropMax) && !cfg.Conversion.Crop.Enabled {
		// a bound not given on the command line stays open
		cfg.Conversion.Crop = CropConfig{Enabled: true, Min: gomath.Inf(-1), Max: gomath.Inf(1)}
	}
	if cropMin && err == nil {
		cfg.Conversion.Crop.Min, err = fs.GetFloat64(FlagCropMin)
	}
	if cropMax && err == nil {
		cfg.Conversion.Crop.Max, err = fs.GetFloat64(FlagCropMax)
	}
	if changed(FlagNoCrop) {
		var off bool
		if off, err = fs.GetBool(FlagNoCrop); off {
			cfg.Conversion.Crop.Enabled = false
		}
	}
	if changed(FlagSeed) {
		cfg.Conversion.Seed, err = fs.GetUint64(FlagSeed)
	}

	if changed(FlagOutputDir) {
		cfg.Output.Dir, err = fs.GetString(FlagOutputDir)
	}
	if changed(FlagOverwrite) {
		cfg.Output.Overwrite, err = fs.GetBool(FlagOverwrite)
	}
	if changed(FlagNoComments) {
		var off bool
		if off, err = fs.GetBool(FlagNoComments); off {
			cfg.Output.Comments = false
		}
	}

	return err
}
