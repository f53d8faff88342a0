package pipeline

import (
	"errors"
	"io"

	"github.com/Faultbox/icocloud/pkg/math"
)

// sliceSource streams a fixed list of positions.
func sliceSource(points ...math.Vec3) Source {
	i := 0
	return SourceFunc(func() (math.Vec3, error) {
		if i >= len(points) {
			return math.Vec3{}, io.EOF
		}
		p := points[i]
		i++
		return p, nil
	})
}

func drain(src Source) ([]math.Vec3, error) {
	var out []math.Vec3
	for {
		p, err := src.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, p)
	}
}
