package meshbuf

import (
	"golang.org/x/image/math/f32"

	"github.com/gogpu/meshbuf/layout"
)

// Triangle carries the per-vertex data of one face. Converters fill it
// once per face and hand it to SetTriangle.
//
// Only coordinates are mandatory. Normals, colors and the first texture
// unit are written when their Has flag is set, and reported through the
// flags on read.
type Triangle struct {
	// Indices are the vertex indices of the corners. Triangle fills them on read.
	Indices [3]int

	Coords [3]f32.Vec3

	Normals    [3]f32.Vec3
	HasNormals bool

	Colors     [3]f32.Vec4
	HasColors  bool
	ColorAlpha bool

	TexCoords    [3]f32.Vec2
	HasTexCoords bool
}

// SetTriangle writes the coordinates of vertices i0, i1 and i2.
func (b *Base) SetTriangle(i0, i1, i2 int, t *Triangle) error {
	for k, v := range [3]int{i0, i1, i2} {
		if err := b.SetCoordinate(v, b.coordComponents(t.Coords[k])...); err != nil {
			return err
		}
	}
	return nil
}

// Triangle reads the coordinates of vertices i0, i1 and i2 into t.
func (b *Base) Triangle(i0, i1, i2 int, t *Triangle) error {
	t.Indices = [3]int{i0, i1, i2}
	for k, v := range t.Indices {
		p, err := b.Coordinate(v)
		if err != nil {
			return err
		}
		t.Coords[k] = p
	}
	return nil
}

// SetTriangle writes coordinates plus the normals, colors and first
// texture unit that t carries.
func (g *Geometry) SetTriangle(i0, i1, i2 int, t *Triangle) error {
	if err := g.Base.SetTriangle(i0, i1, i2, t); err != nil {
		return err
	}
	for k, v := range [3]int{i0, i1, i2} {
		if t.HasNormals {
			if err := g.SetNormalVec(v, t.Normals[k]); err != nil {
				return err
			}
		}
		if t.HasColors {
			if err := g.SetColorVec(v, t.Colors[k], t.ColorAlpha); err != nil {
				return err
			}
		}
		if t.HasTexCoords {
			if err := g.SetTextureCoordinateVec(0, v, t.TexCoords[k]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Triangle reads vertices i0, i1 and i2 into t, including every optional
// channel the container has.
func (g *Geometry) Triangle(i0, i1, i2 int, t *Triangle) error {
	if err := g.Base.Triangle(i0, i1, i2, t); err != nil {
		return err
	}
	t.HasNormals = g.Has(layout.NormalsSlot)
	t.HasColors = g.Has(layout.ColorsSlot)
	t.ColorAlpha = g.ColorAlpha()
	t.HasTexCoords = g.Has(layout.TexCoord(0))
	for k, v := range t.Indices {
		var err error
		if t.HasNormals {
			if t.Normals[k], err = g.Normal(v); err != nil {
				return err
			}
		}
		if t.HasColors {
			if t.Colors[k], err = g.Color(v); err != nil {
				return err
			}
		}
		if t.HasTexCoords {
			if t.TexCoords[k], err = g.TextureCoordinateVec(0, v); err != nil {
				return err
			}
		}
	}
	return nil
}
