package meshbuf

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"
)

// GenerateNormals computes smooth vertex normals for triangle lists and
// strips, indexed or not. Each face adds its unnormalized cross product to
// its corners, so larger faces weigh more. Vertices touched by no face, or
// only by degenerate faces, get a zero normal.
//
// The normal channel is created if needed; on an interleaved container the
// normals are written through the record view when it has one.
func (g *Geometry) GenerateNormals() error {
	tris, err := g.triangleCorners()
	if err != nil {
		return err
	}
	sums := make([]mgl32.Vec3, g.validCount)
	for _, t := range tris {
		var p [3]mgl32.Vec3
		for k, v := range t {
			c, err := g.Coordinate(v)
			if err != nil {
				return err
			}
			p[k] = mgl32.Vec3(c)
		}
		n := p[1].Sub(p[0]).Cross(p[2].Sub(p[0]))
		for _, v := range t {
			sums[v] = sums[v].Add(n)
		}
	}
	for v, n := range sums {
		if n.LenSqr() > 0 {
			n = n.Normalize()
		}
		if err := g.SetNormalVec(v, f32.Vec3(n)); err != nil {
			return err
		}
	}
	Logger().Debug("meshbuf: generated normals",
		"label", g.label, "faces", len(tris), "vertices", len(sums))
	return nil
}

// triangleCorners lists the vertex indices of every face in the valid
// range, honoring the index buffer and strip table.
func (g *Geometry) triangleCorners() ([][3]int, error) {
	if g.topology != gputypes.PrimitiveTopologyTriangleList && g.topology != gputypes.PrimitiveTopologyTriangleStrip {
		return nil, fmt.Errorf("%w: normals need triangles, topology is %s", ErrContractViolation, g.topology)
	}
	seq := make([]int, 0, g.validCount)
	if g.indices != nil {
		raw := make([]int32, g.indexCount)
		g.indices.GetSlice(0, raw)
		for _, i := range raw {
			seq = append(seq, int(i))
		}
	} else {
		for v := range g.validCount {
			seq = append(seq, v)
		}
	}

	var tris [][3]int
	emit := func(a, b, c int) error {
		for _, v := range [3]int{a, b, c} {
			if v >= g.validCount {
				return fmt.Errorf("%w: vertex %d of %d valid", ErrNotFound, v, g.validCount)
			}
		}
		tris = append(tris, [3]int{a, b, c})
		return nil
	}

	if g.topology == gputypes.PrimitiveTopologyTriangleList {
		for i := 0; i+2 < len(seq); i += 3 {
			if err := emit(seq[i], seq[i+1], seq[i+2]); err != nil {
				return nil, err
			}
		}
		return tris, nil
	}

	strips := g.stripCounts
	if len(strips) == 0 {
		strips = []int{len(seq)}
	}
	start := 0
	for _, n := range strips {
		if start >= len(seq) {
			break
		}
		s := seq[start:min(start+n, len(seq))]
		for i := 0; i+2 < len(s); i++ {
			// Odd triangles of a strip flip winding.
			if i%2 == 0 {
				if err := emit(s[i], s[i+1], s[i+2]); err != nil {
					return nil, err
				}
			} else if err := emit(s[i+1], s[i], s[i+2]); err != nil {
				return nil, err
			}
		}
		start += n
	}
	return tris, nil
}
