// Package icosphere builds the low-poly sphere proxy instanced at every point.
package icosphere

import (
	gomath "math"

	"github.com/Faultbox/icocloud/pkg/math"
)

// Template sizes.
const (
	VertexCount = 12
	FaceCount   = 20
)

// Template is a regular icosahedron of a fixed radius centred on the origin.
// Faces index into Vertices (0-based) and wind counter-clockwise when seen
// from outside.
type Template struct {
	Radius   float64
	Vertices [VertexCount]math.Vec3
	Faces    [FaceCount][3]uint32
}

// golden-ratio construction; each vertex lies on three orthogonal golden
// rectangles
var rawVertices = [VertexCount][3]float64{
	{-1, phi, 0}, {1, phi, 0}, {-1, -phi, 0}, {1, -phi, 0},
	{0, -1, phi}, {0, 1, phi}, {0, -1, -phi}, {0, 1, -phi},
	{phi, 0, -1}, {phi, 0, 1}, {-phi, 0, -1}, {-phi, 0, 1},
}

var phi = (1 + gomath.Sqrt(5)) / 2

var faces = [FaceCount][3]uint32{
	{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
	{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
	{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
	{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
}

// New returns the icosahedron with every vertex at distance radius from the
// origin. The topology does not depend on radius.
func New(radius float64) *Template {
	t := &Template{Radius: radius, Faces: faces}
	for i, v := range rawVertices {
		unit := math.Vec3{X: v[0], Y: v[1], Z: v[2]}.Normalize()
		t.Vertices[i] = unit.Scale(radius)
	}
	return t
}
