package config

import (
	"errors"
	"fmt"
	gomath "math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Faultbox/icocloud/internal/pipeline"
)

// LODFractions maps preset levels to the fraction of points kept.
var LODFractions = map[int]float64{
	0: 1.0,
	1: 0.10,
	2: 0.25,
	3: 0.50,
}

// ErrUnknownLOD is returned for a level outside LODFractions.
var ErrUnknownLOD = errors.New("unknown LOD level")

// Fraction returns the effective keep fraction: LODFraction when set,
// otherwise the preset for LOD.
func (c ConversionConfig) Fraction() (float64, error) {
	if c.LODFraction != 0 {
		return c.LODFraction, nil
	}
	f, ok := LODFractions[c.LOD]
	if !ok {
		return 0, &pipeline.ConfigError{Field: "lod", Err: fmt.Errorf("%w: %d (want 0-3)", ErrUnknownLOD, c.LOD)}
	}
	return f, nil
}

// Suffix returns the LOD tag used in output names, for example "LOD2" or
// "P12.5" for a custom fraction.
func (c ConversionConfig) Suffix() string {
	if c.LODFraction != 0 {
		pct := strconv.FormatFloat(gomath.Round(c.LODFraction*1e4)/100, 'f', -1, 64)
		return "P" + pct
	}
	return "LOD" + strconv.Itoa(c.LOD)
}

// OutputPath returns where the mesh for input is written:
// <dir>/<base>_<suffix>_ico.obj, with dir defaulting to the input's directory.
func (c *Config) OutputPath(input string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	dir := c.Output.Dir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base+"_"+c.Conversion.Suffix()+"_ico.obj")
}

// ToPipeline converts the conversion section into a validated core config.
func (c *Config) ToPipeline() (pipeline.Config, error) {
	conv := c.Conversion

	fraction, err := conv.Fraction()
	if err != nil {
		return pipeline.Config{}, err
	}
	axis, err := pipeline.ParseAxisPreset(conv.AxisPreset)
	if err != nil {
		return pipeline.Config{}, &pipeline.ConfigError{Field: "axis_preset", Err: err}
	}
	crop := pipeline.KeepAll()
	if conv.Crop.Enabled {
		crop = pipeline.CropRange(conv.Crop.Min, conv.Crop.Max)
	}

	pc := pipeline.Config{
		SphereRadius: conv.SphereRadius,
		WorldScale:   conv.WorldScale,
		KeepFraction: fraction,
		Axis:         axis,
		Crop:         crop,
		Seed:         conv.Seed,
	}
	if err := pc.Validate(); err != nil {
		return pipeline.Config{}, err
	}
	return pc, nil
}
