package pipeline

import (
	"github.com/Faultbox/icocloud/pkg/math"
)

// Source is a finite, single-pass stream of positions. Next returns io.EOF
// after the last element.
type Source interface {
	Next() (math.Vec3, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() (math.Vec3, error)

// Next calls f.
func (f SourceFunc) Next() (math.Vec3, error) { return f() }

// remapStage applies an axis preset.
type remapStage struct {
	src  Source
	axis AxisPreset
}

func (s *remapStage) Next() (math.Vec3, error) {
	p, err := s.src.Next()
	if err != nil {
		return p, err
	}
	return s.axis.Apply(p), nil
}

// cropStage drops points whose height is outside the crop window.
type cropStage struct {
	src     Source
	crop    Crop
	dropped int
}

func (s *cropStage) Next() (math.Vec3, error) {
	for {
		p, err := s.src.Next()
		if err != nil {
			return p, err
		}
		if s.crop.Contains(p.Y) {
			return p, nil
		}
		s.dropped++
	}
}

// scaleStage multiplies every coordinate by a uniform factor.
type scaleStage struct {
	src   Source
	scale float64
}

func (s *scaleStage) Next() (math.Vec3, error) {
	p, err := s.src.Next()
	if err != nil {
		return p, err
	}
	return p.Scale(s.scale), nil
}

// Transform chains the axis remap, height crop and uniform scale stages.
// Each stage holds one element at a time.
type Transform struct {
	out  Source
	crop *cropStage
}

// NewTransform validates the transform settings of cfg and wraps src.
// Nothing is read from src until Next is called.
func NewTransform(src Source, axis AxisPreset, crop Crop, scale float64) (*Transform, error) {
	cfg := DefaultConfig()
	cfg.Axis = axis
	cfg.Crop = crop
	cfg.WorldScale = scale
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var s Source = src
	if axis != AxisIdentity {
		s = &remapStage{src: s, axis: axis}
	}
	cs := &cropStage{src: s, crop: crop}
	s = cs
	if scale != 1 {
		s = &scaleStage{src: s, scale: scale}
	}
	return &Transform{out: s, crop: cs}, nil
}

// Next returns the next transformed position.
func (t *Transform) Next() (math.Vec3, error) { return t.out.Next() }

// Cropped returns the number of points dropped by the height crop so far.
func (t *Transform) Cropped() int { return t.crop.dropped }
