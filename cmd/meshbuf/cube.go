package main

import (
	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/meshbuf"
)

// cubeFaces lists each face's corners counter-clockwise seen from outside.
var cubeFaces = [6][4]f32.Vec3{
	{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}},     // +Z
	{{1, -1, -1}, {-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}}, // -Z
	{{1, -1, 1}, {1, -1, -1}, {1, 1, -1}, {1, 1, 1}},     // +X
	{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}}, // -X
	{{-1, 1, 1}, {1, 1, 1}, {1, 1, -1}, {-1, 1, -1}},     // +Y
	{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}}, // -Y
}

var cubeColors = [6]f32.Vec4{
	{1, 0, 0, 1}, {0, 1, 1, 1},
	{0, 1, 0, 1}, {1, 0, 1, 1},
	{0, 0, 1, 1}, {1, 1, 0, 1},
}

var quadUV = [4]f32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

// buildCube creates an indexed cube with 4 unshared vertices per face so
// every face keeps its own normal, color and texture coordinates.
func buildCube(label string) (*meshbuf.Geometry, error) {
	g, err := meshbuf.New(gputypes.PrimitiveTopologyTriangleList, 3, 24,
		meshbuf.WithIndexCount(36),
		meshbuf.WithLabel(label),
	)
	if err != nil {
		return nil, err
	}
	for f, corners := range cubeFaces {
		base := f * 4
		for k, p := range corners {
			v := base + k
			if err := g.SetCoordinateVec(v, p); err != nil {
				return nil, err
			}
			if err := g.SetColorVec(v, cubeColors[f], true); err != nil {
				return nil, err
			}
			if err := g.SetTextureCoordinateVec(0, v, quadUV[k]); err != nil {
				return nil, err
			}
		}
		b := int32(base) //nolint:gosec // G115: at most 24 vertices
		if err := g.SetIndices(f*6, []int32{b, b + 1, b + 2, b, b + 2, b + 3}); err != nil {
			return nil, err
		}
	}
	if err := g.GenerateNormals(); err != nil {
		return nil, err
	}
	return g, nil
}
