// Package pipeline converts PLY point samples into an OBJ mesh of instanced
// icospheres.
//
// A run is strictly ordered and single pass:
//
//	parse header -> decode -> transform -> sample -> instance -> encode
//
// Positions stream one at a time; only the mesh buffer grows with the input.
// Any failure aborts the run.
package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/icocloud/pkg/icosphere"
	"github.com/Faultbox/icocloud/pkg/obj"
	"github.com/Faultbox/icocloud/pkg/ply"
)

// DefaultProgressEvery is the number of decoded points between progress
// callbacks.
const DefaultProgressEvery = 5000

// preallocation cap for the mesh buffer, in instances
const maxPrealloc = 1 << 20

// Stats summarises a finished run.
type Stats struct {
	Header    *ply.Header
	Decoded   int
	Cropped   int
	Sampled   int
	Instances int
	Vertices  int
	Faces     int
	Elapsed   time.Duration
}

// ProgressFunc receives the number of decoded points and the declared total.
type ProgressFunc func(decoded, total int)

// Converter runs conversions with one immutable Config.
type Converter struct {
	cfg Config
	log *zap.Logger

	// Progress, if set, is called every ProgressEvery decoded points.
	Progress      ProgressFunc
	ProgressEvery int
	// Comments controls the "#" header lines at the top of the output.
	Comments bool
	// Overwrite allows ConvertFile to replace an existing output file.
	Overwrite bool
}

// NewConverter validates cfg. A nil logger discards log output.
func NewConverter(cfg Config, log *zap.Logger) (*Converter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Converter{
		cfg:           cfg,
		log:           log,
		ProgressEvery: DefaultProgressEvery,
		Comments:      true,
	}, nil
}

// Config returns the converter settings.
func (c *Converter) Config() Config { return c.cfg }

// Run reads a PLY container from r and writes the OBJ mesh to w.
//
// Cancelling ctx aborts the run between points with ErrAborted. On any
// error the bytes already written to w are not a valid mesh.
func (c *Converter) Run(ctx context.Context, r io.Reader, w io.Writer) (*Stats, error) {
	return c.run(ctx, r, sourceSize(r), w)
}

// sourceSize returns the unread length of r when r can report it, else -1.
func sourceSize(r io.Reader) int64 {
	if l, ok := r.(interface{ Len() int }); ok {
		return int64(l.Len())
	}
	return -1
}

func (c *Converter) run(ctx context.Context, r io.Reader, size int64, w io.Writer) (*Stats, error) {
	start := time.Now()
	stats := &Stats{}

	// Parse
	br := bufio.NewReaderSize(r, 1<<20)
	h, err := ply.ParseHeader(br)
	if err != nil {
		return nil, readError(err)
	}
	stats.Header = h
	c.log.Info("parsed header",
		zap.String("format", h.Format.String()),
		zap.Int("records", h.Count),
		zap.Int("stride", h.Stride),
		zap.Int("properties", len(h.Properties)),
	)

	// Decode
	dec := ply.NewDecoder(h, br)
	if size >= 0 {
		if err := dec.CheckBodySize(size - h.DataOffset); err != nil {
			return nil, err
		}
	}

	// Transform and sample
	tr, err := NewTransform(dec, c.cfg.Axis, c.cfg.Crop, c.cfg.WorldScale)
	if err != nil {
		return nil, err
	}
	sampler, err := NewSampler(tr, c.cfg.KeepFraction, c.cfg.Seed)
	if err != nil {
		return nil, err
	}

	// Instantiate
	tpl := icosphere.New(c.cfg.SphereRadius)
	mesh := NewMeshBuffer(tpl, min(int(float64(h.Count)*c.cfg.KeepFraction), maxPrealloc))
	if err := c.instance(ctx, dec, sampler, mesh); err != nil {
		return nil, err
	}
	stats.Decoded = dec.Read()
	stats.Cropped = tr.Cropped()
	stats.Sampled = sampler.Seen() - sampler.Kept()
	stats.Instances = mesh.Instances()
	stats.Vertices = mesh.VertexCount()
	stats.Faces = mesh.FaceCount()
	c.log.Info("instanced points",
		zap.Int("decoded", stats.Decoded),
		zap.Int("cropped", stats.Cropped),
		zap.Int("sampled_out", stats.Sampled),
		zap.Int("instances", stats.Instances),
	)

	// Encode
	var comments []string
	if c.Comments {
		comments = []string{
			"OBJ generated from PLY pointcloud",
			fmt.Sprintf("Total spheres: %d", mesh.Instances()),
		}
	}
	if err := obj.Encode(ctx, w, mesh, comments...); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", ErrAborted, err)
		}
		if errors.Is(err, obj.ErrIndexOutOfRange) {
			return nil, err
		}
		return nil, &IOError{Op: "write", Err: err}
	}

	stats.Elapsed = time.Since(start)
	c.log.Info("wrote mesh",
		zap.Int("vertices", stats.Vertices),
		zap.Int("faces", stats.Faces),
		zap.Duration("elapsed", stats.Elapsed),
	)
	return stats, nil
}

// instance drains src into mesh, checking ctx between points.
func (c *Converter) instance(ctx context.Context, dec *ply.Decoder, src Source, mesh *MeshBuffer) error {
	done := ctx.Done()
	total := dec.Header().Count
	every := c.ProgressEvery
	if every <= 0 {
		every = DefaultProgressEvery
	}
	next := every

	for {
		select {
		case <-done:
			return fmt.Errorf("%w: %w", ErrAborted, ctx.Err())
		default:
		}

		p, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return readError(err)
		}
		if err := mesh.Add(p); err != nil {
			return err
		}

		if n := dec.Read(); n >= next {
			next = n + every
			c.log.Debug("progress", zap.Int("decoded", n), zap.Int("total", total))
			if c.Progress != nil {
				c.Progress(n, total)
			}
		}
	}

	if ce := c.log.Check(zap.DebugLevel, "validated mesh"); ce != nil {
		if err := mesh.Validate(); err != nil {
			return err
		}
		ce.Write(zap.Int("vertices", mesh.VertexCount()), zap.Int("faces", mesh.FaceCount()))
	}

	if c.Progress != nil {
		c.Progress(dec.Read(), total)
	}
	return nil
}

// readError passes format errors through and wraps transport failures.
func readError(err error) error {
	var herr *ply.HeaderError
	if errors.As(err, &herr) {
		return err
	}
	var derr *ply.DecodeError
	if errors.As(err, &derr) && isFormatError(derr.Err) {
		return err
	}
	return &IOError{Op: "read", Err: err}
}

func isFormatError(err error) bool {
	return errors.Is(err, ply.ErrTruncatedData) ||
		errors.Is(err, ply.ErrMalformedRow) ||
		errors.Is(err, ply.ErrRecordCountMismatch)
}
