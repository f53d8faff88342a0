// Package obj writes Wavefront OBJ meshes made only of vertex and triangle
// records.
package obj

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Faultbox/icocloud/pkg/math"
)

// Precision is the number of fractional digits written per coordinate.
const Precision = 6

const bufferSize = 256 << 10

// ErrIndexOutOfRange is returned for a face that references a vertex that
// has not been written.
var ErrIndexOutOfRange = errors.New("face index out of range")

// Writer streams OBJ records through a fixed-size buffer, so output of any
// size is flushed incrementally.
type Writer struct {
	w        *bufio.Writer
	line     []byte
	vertices int
	faces    int
	err      error
}

// NewWriter returns a Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w:    bufio.NewWriterSize(w, bufferSize),
		line: make([]byte, 0, 96),
	}
}

// Vertices returns the number of vertex records written.
func (w *Writer) Vertices() int { return w.vertices }

// Faces returns the number of face records written.
func (w *Writer) Faces() int { return w.faces }

// WriteComment writes each line of text as a "#" comment.
func (w *Writer) WriteComment(text string) error {
	for _, line := range strings.Split(text, "\n") {
		w.line = append(w.line[:0], "# "...)
		w.line = append(w.line, line...)
		w.line = append(w.line, '\n')
		if err := w.flushLine(); err != nil {
			return err
		}
	}
	return nil
}

// WriteVertex writes a "v x y z" record.
func (w *Writer) WriteVertex(v math.Vec3) error {
	b := append(w.line[:0], 'v', ' ')
	b = strconv.AppendFloat(b, v.X, 'f', Precision, 64)
	b = append(b, ' ')
	b = strconv.AppendFloat(b, v.Y, 'f', Precision, 64)
	b = append(b, ' ')
	b = strconv.AppendFloat(b, v.Z, 'f', Precision, 64)
	w.line = append(b, '\n')
	if err := w.flushLine(); err != nil {
		return err
	}
	w.vertices++
	return nil
}

// WriteFace writes an "f a b c" record. Indices are 1-based and must refer
// to vertices already written.
func (w *Writer) WriteFace(f [3]uint32) error {
	if w.err != nil {
		return w.err
	}
	for _, idx := range f {
		if idx == 0 || int64(idx) > int64(w.vertices) {
			w.err = fmt.Errorf("%w: %d not in [1, %d]", ErrIndexOutOfRange, idx, w.vertices)
			return w.err
		}
	}
	b := append(w.line[:0], 'f', ' ')
	b = strconv.AppendUint(b, uint64(f[0]), 10)
	b = append(b, ' ')
	b = strconv.AppendUint(b, uint64(f[1]), 10)
	b = append(b, ' ')
	b = strconv.AppendUint(b, uint64(f[2]), 10)
	w.line = append(b, '\n')
	if err := w.flushLine(); err != nil {
		return err
	}
	w.faces++
	return nil
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.w.Flush()
	return w.err
}

func (w *Writer) flushLine() error {
	if w.err != nil {
		return w.err
	}
	_, w.err = w.w.Write(w.line)
	return w.err
}

// Mesh is a vertex/face list with 1-based face indices.
type Mesh interface {
	VertexCount() int
	Vertex(i int) math.Vec3
	FaceCount() int
	Face(i int) [3]uint32
}

// Encode writes comments, then every vertex, then every face of m, and
// flushes. The first write error aborts the encode, and ctx is checked
// between records.
func Encode(ctx context.Context, w io.Writer, m Mesh, comments ...string) error {
	ow := NewWriter(w)
	for _, c := range comments {
		if err := ow.WriteComment(c); err != nil {
			return err
		}
	}
	done := ctx.Done()
	for i := 0; i < m.VertexCount(); i++ {
		if i%cancelCheckEvery == 0 && isDone(done) {
			return ctx.Err()
		}
		if err := ow.WriteVertex(m.Vertex(i)); err != nil {
			return err
		}
	}
	for i := 0; i < m.FaceCount(); i++ {
		if i%cancelCheckEvery == 0 && isDone(done) {
			return ctx.Err()
		}
		if err := ow.WriteFace(m.Face(i)); err != nil {
			return err
		}
	}
	return ow.Flush()
}

const cancelCheckEvery = 4096

func isDone(done <-chan struct{}) bool {
	select {
	case <-done:
		return true
	default:
		return false
	}
}
