package obj

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Faultbox/icocloud/pkg/math"
)

type sliceMesh struct {
	vertices []math.Vec3
	faces    [][3]uint32
}

func (m *sliceMesh) VertexCount() int { return len(m.vertices) }
func (m *sliceMesh) Vertex(i int) math.Vec3 { return m.vertices[i] }
func (m *sliceMesh) FaceCount() int { return len(m.faces) }
func (m *sliceMesh) Face(i int) [3]uint32 { return m.faces[i] }

type failingWriter struct {
	after int
	n     int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n+len(p) > w.after {
		return 0, errors.New("disk full")
	}
	w.n += len(p)
	return len(p), nil
}

func TestEncode_Layout(t *testing.T) {
	m := &sliceMesh{
		vertices: []math.Vec3{{0, 0, 0}, {1.5, -2, 0.0000004}, {0, 1, 0}},
		faces:    [][3]uint32{{1, 2, 3}},
	}
	var buf bytes.Buffer
	if err := Encode(context.Background(), &buf, m, "generated"); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	want := []string{
		"# generated",
		"v 0.000000 0.000000 0.000000",
		"v 1.500000 -2.000000 0.000000",
		"v 0.000000 1.000000 0.000000",
		"f 1 2 3",
	}
	got := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestWriter_MultilineComment(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteComment("a\nb"); err != nil {
		t.Fatalf("WriteComment failed: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if buf.String() != "# a\n# b\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestWriter_FaceIndexRange(t *testing.T) {
	tests := []struct {
		name string
		face [3]uint32
	}{
		{"zero index", [3]uint32{0, 1, 2}},
		{"past last vertex", [3]uint32{1, 2, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewWriter(&buf)
			for i := 0; i < 3; i++ {
				if err := w.WriteVertex(math.Vec3{}); err != nil {
					t.Fatalf("WriteVertex failed: %v", err)
				}
			}
			err := w.WriteFace(tt.face)
			if !errors.Is(err, ErrIndexOutOfRange) {
				t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
			}
			if w.Faces() != 0 {
				t.Errorf("expected 0 faces, got %d", w.Faces())
			}
			// errors are sticky
			if err := w.Flush(); !errors.Is(err, ErrIndexOutOfRange) {
				t.Errorf("expected sticky error from Flush, got %v", err)
			}
		})
	}
}

func TestEncode_WriteFailure(t *testing.T) {
	m := &sliceMesh{}
	for i := 0; i < 20000; i++ {
		m.vertices = append(m.vertices, math.Vec3{X: float64(i)})
	}

	w := &failingWriter{after: 1 << 10}
	err := Encode(context.Background(), w, m)
	if err == nil || err.Error() != "disk full" {
		t.Fatalf("expected disk full error, got %v", err)
	}
}

func TestEncode_FlushesIncrementally(t *testing.T) {
	m := &sliceMesh{}
	for i := 0; i < 20000; i++ {
		m.vertices = append(m.vertices, math.Vec3{X: float64(i), Y: 1, Z: 2})
	}

	// The writer accepts two buffers worth of output before failing.
	w := &failingWriter{after: bufferSize * 2}
	if err := Encode(context.Background(), w, m); err == nil {
		t.Fatal("expected write error")
	}
	if w.n == 0 {
		t.Error("expected partial output to reach the writer before failing")
	}
}

func TestWriter_Counts(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	for i := 0; i < 3; i++ {
		_ = w.WriteVertex(math.Vec3{X: float64(i)})
	}
	_ = w.WriteFace([3]uint32{1, 2, 3})
	_ = w.WriteFace([3]uint32{3, 2, 1})
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if w.Vertices() != 3 || w.Faces() != 2 {
		t.Errorf("expected 3 vertices and 2 faces, got %d and %d", w.Vertices(), w.Faces())
	}
	if got := strings.Count(buf.String(), "\n"); got != 5 {
		t.Errorf("expected 5 lines, got %d", got)
	}
}

func TestEncode_Cancelled(t *testing.T) {
	m := &sliceMesh{vertices: []math.Vec3{{}, {}, {}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	if err := Encode(ctx, &buf, m); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected nothing flushed, got %q", buf.String())
	}
}
