package pipeline

import (
	"fmt"
	"math/rand/v2"

	"github.com/Faultbox/icocloud/pkg/math"
)

// Sampler keeps each element independently with probability fraction.
// The retained count is only expected to be fraction × total; a fraction of
// 1 passes every element through in order.
type Sampler struct {
	src      Source
	fraction float64
	rng      *rand.Rand
	seen     int
	kept     int
}

// NewSampler wraps src. A zero seed draws a random one.
func NewSampler(src Source, fraction float64, seed uint64) (*Sampler, error) {
	if !(fraction > 0 && fraction <= 1) {
		return nil, &ConfigError{Field: "lod_fraction", Err: fmt.Errorf("%w: %v", ErrInvalidFraction, fraction)}
	}
	s := &Sampler{src: src, fraction: fraction}
	if fraction < 1 {
		if seed == 0 {
			seed = rand.Uint64()
		}
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
	return s, nil
}

// Next returns the next retained element.
func (s *Sampler) Next() (math.Vec3, error) {
	for {
		p, err := s.src.Next()
		if err != nil {
			return p, err
		}
		s.seen++
		if s.rng == nil || s.rng.Float64() < s.fraction {
			s.kept++
			return p, nil
		}
	}
}

// Seen returns the number of elements read from the source.
func (s *Sampler) Seen() int { return s.seen }

// Kept returns the number of elements passed on.
func (s *Sampler) Kept() int { return s.kept }
