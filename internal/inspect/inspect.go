// Package inspect summarises a PLY point cloud without building a mesh.
package inspect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/Faultbox/icocloud/internal/pipeline"
	"github.com/Faultbox/icocloud/pkg/math"
	"github.com/Faultbox/icocloud/pkg/ply"
)

// DefaultReservoir is the number of points kept for distribution statistics.
const DefaultReservoir = 100_000

// DefaultQuantiles are the height quantiles reported by Scan.
var DefaultQuantiles = []float64{0, 0.05, 0.25, 0.5, 0.75, 0.95, 1}

// Options configures Scan.
type Options struct {
	// Axis is applied before statistics, so heights match the crop axis of
	// a conversion with the same preset.
	Axis pipeline.AxisPreset
	// HeaderOnly skips the body.
	HeaderOnly bool
	// Reservoir bounds the sample used for mean, deviation and quantiles.
	// Zero means DefaultReservoir.
	Reservoir int
	// Seed makes the reservoir reproducible; zero picks a random seed.
	Seed uint64
}

// Quantile is a height quantile.
type Quantile struct {
	P     float64
	Value float64
}

// Summary describes a scanned point cloud.
type Summary struct {
	Header *ply.Header
	Points int
	Bounds math.Bounds

	// Estimated from a uniform reservoir of Sampled points.
	Sampled   int
	Mean      math.Vec3
	StdDev    math.Vec3
	Quantiles []Quantile
}

// Scan reads the header from r and, unless opts.HeaderOnly is set, streams
// every vertex record once.
func Scan(ctx context.Context, r io.Reader, opts Options) (*Summary, error) {
	dec, err := ply.NewReader(r)
	if err != nil {
		return nil, err
	}
	s := &Summary{Header: dec.Header(), Bounds: math.EmptyBounds()}
	if opts.HeaderOnly {
		return s, nil
	}

	src, err := pipeline.NewTransform(dec, opts.Axis, pipeline.KeepAll(), 1)
	if err != nil {
		return nil, err
	}
	res := newReservoir(opts.Reservoir, opts.Seed)

	done := ctx.Done()
	for {
		if s.Points%4096 == 0 {
			select {
			case <-done:
				return nil, fmt.Errorf("%w: %w", pipeline.ErrAborted, ctx.Err())
			default:
			}
		}
		p, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		s.Points++
		s.Bounds.Extend(p)
		res.add(p)
	}

	s.describe(res.points)
	return s, nil
}

// ScanFile scans the PLY file at path.
func ScanFile(ctx context.Context, path string, opts Options) (*Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &pipeline.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()
	return Scan(ctx, f, opts)
}

func (s *Summary) describe(points []math.Vec3) {
	s.Sampled = len(points)
	if len(points) == 0 {
		return
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	zs := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i], zs[i] = p.X, p.Y, p.Z
	}

	s.Mean.X, s.StdDev.X = meanStdDev(xs)
	s.Mean.Y, s.StdDev.Y = meanStdDev(ys)
	s.Mean.Z, s.StdDev.Z = meanStdDev(zs)

	slices.Sort(ys)
	for _, p := range DefaultQuantiles {
		s.Quantiles = append(s.Quantiles, Quantile{P: p, Value: stat.Quantile(p, stat.Empirical, ys, nil)})
	}
}

// meanStdDev returns the mean and sample deviation; a single value has
// zero deviation.
func meanStdDev(x []float64) (mean, std float64) {
	if len(x) == 1 {
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}

// reservoir keeps a uniform random sample of a stream of unknown length.
type reservoir struct {
	points []math.Vec3
	size   int
	seen   int
	rng    *rand.Rand
}

func newReservoir(size int, seed uint64) *reservoir {
	if size <= 0 {
		size = DefaultReservoir
	}
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &reservoir{
		points: make([]math.Vec3, 0, min(size, 4096)),
		size:   size,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (r *reservoir) add(p math.Vec3) {
	r.seen++
	if len(r.points) < r.size {
		r.points = append(r.points, p)
		return
	}
	if j := r.rng.IntN(r.seen); j < r.size {
		r.points[j] = p
	}
}
