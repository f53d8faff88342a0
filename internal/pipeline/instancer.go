package pipeline

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/icocloud/pkg/icosphere"
	"github.com/Faultbox/icocloud/pkg/math"
)

// MaxInstances is the largest instance count whose vertex indices fit in
// 32 bits.
const MaxInstances = gomath.MaxUint32 / icosphere.VertexCount

// MeshBuffer accumulates one translated template copy per point.
// Face indices are global and 1-based.
type MeshBuffer struct {
	tpl       *icosphere.Template
	vertices  []math.Vec3
	faces     [][3]uint32
	instances int
}

// NewMeshBuffer returns an empty buffer with room for capacity instances.
func NewMeshBuffer(tpl *icosphere.Template, capacity int) *MeshBuffer {
	if capacity < 0 {
		capacity = 0
	}
	return &MeshBuffer{
		tpl:      tpl,
		vertices: make([]math.Vec3, 0, capacity*icosphere.VertexCount),
		faces:    make([][3]uint32, 0, capacity*icosphere.FaceCount),
	}
}

// Add appends an instance centred on p.
func (m *MeshBuffer) Add(p math.Vec3) error {
	if m.instances >= MaxInstances {
		return fmt.Errorf("%w: more than %d instances", ErrIndexOverflow, MaxInstances)
	}
	base := uint32(m.instances*icosphere.VertexCount) + 1
	for _, v := range m.tpl.Vertices {
		m.vertices = append(m.vertices, v.Add(p))
	}
	for _, f := range m.tpl.Faces {
		m.faces = append(m.faces, [3]uint32{f[0] + base, f[1] + base, f[2] + base})
	}
	m.instances++
	return nil
}

// Instances returns the number of instances added.
func (m *MeshBuffer) Instances() int { return m.instances }

// VertexCount returns the number of global vertices.
func (m *MeshBuffer) VertexCount() int { return len(m.vertices) }

// Vertex returns global vertex i (0-based).
func (m *MeshBuffer) Vertex(i int) math.Vec3 { return m.vertices[i] }

// FaceCount returns the number of global faces.
func (m *MeshBuffer) FaceCount() int { return len(m.faces) }

// Face returns global face i with 1-based vertex indices.
func (m *MeshBuffer) Face(i int) [3]uint32 { return m.faces[i] }

// Validate re-checks the buffer invariants that Add maintains: twelve
// vertices and twenty faces per instance, and every face index inside
// [1, VertexCount]. The converter runs it when debug logging is enabled.
func (m *MeshBuffer) Validate() error {
	if want := m.instances * icosphere.VertexCount; len(m.vertices) != want {
		return fmt.Errorf("vertex count %d, want %d for %d instances", len(m.vertices), want, m.instances)
	}
	if want := m.instances * icosphere.FaceCount; len(m.faces) != want {
		return fmt.Errorf("face count %d, want %d for %d instances", len(m.faces), want, m.instances)
	}
	n := uint32(len(m.vertices))
	for i, f := range m.faces {
		for _, idx := range f {
			if idx < 1 || idx > n {
				return fmt.Errorf("face %d index %d outside [1, %d]", i, idx, n)
			}
		}
	}
	return nil
}
