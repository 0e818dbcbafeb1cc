package meshbuf

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/meshbuf/buffer"
	"github.com/gogpu/meshbuf/layout"
)

// Geometry extends Base with optional normal, color, texture-coordinate
// and vertex-attribute channels, and can pack all of them into one
// interleaved record.
//
// Channels are created on first write with the size of that write. Normals
// always have 3 components, colors 3 or 4, texture units and attributes
// 1 to 4 each. A channel's size never changes afterwards.
//
// Once interleaved, writes to channels in the record go through their
// view. A channel first written after interleaving gets separate storage
// until the next Interleave folds it into the record.
type Geometry struct {
	Base

	normals   channel
	colors    channel
	texCoords []channel
	attribs   []channel

	layout layout.Layout
}

// New creates a geometry container for vertexCount vertices with coordSize
// coordinate components.
func New(topology gputypes.PrimitiveTopology, coordSize, vertexCount int, opts ...Option) (*Geometry, error) {
	b, err := newBase(topology, coordSize, vertexCount, opts)
	if err != nil {
		return nil, err
	}
	return &Geometry{Base: b}, nil
}

// lookup returns the channel for s, or nil when s names a unit that was
// never touched.
func (g *Geometry) lookup(s layout.Slot) *channel {
	switch s.Kind {
	case layout.KindCoordinates:
		return &g.coords
	case layout.KindNormals:
		return &g.normals
	case layout.KindColors:
		return &g.colors
	case layout.KindTexCoords:
		if s.Unit >= 0 && s.Unit < len(g.texCoords) {
			return &g.texCoords[s.Unit]
		}
	case layout.KindVertexAttribs:
		if s.Unit >= 0 && s.Unit < len(g.attribs) {
			return &g.attribs[s.Unit]
		}
	}
	return nil
}

// ensure returns the channel for s, growing the unit lists as needed.
func (g *Geometry) ensure(s layout.Slot) *channel {
	switch s.Kind {
	case layout.KindTexCoords:
		for len(g.texCoords) <= s.Unit {
			g.texCoords = append(g.texCoords, channel{})
		}
	case layout.KindVertexAttribs:
		for len(g.attribs) <= s.Unit {
			g.attribs = append(g.attribs, channel{})
		}
	}
	return g.lookup(s)
}

// checkSize validates a component count for slot s.
func (g *Geometry) checkSize(s layout.Slot, n int) error {
	switch s.Kind {
	case layout.KindNormals:
		if n != 3 {
			return fmt.Errorf("%w: normals have 3 components, got %d", ErrSizeMismatch, n)
		}
	case layout.KindColors:
		if n != 3 && n != 4 {
			return fmt.Errorf("%w: colors have 3 or 4 components, got %d", ErrSizeMismatch, n)
		}
	case layout.KindTexCoords, layout.KindVertexAttribs:
		if s.Unit < 0 {
			return fmt.Errorf("%w: %s", ErrOutOfRange, s)
		}
		if n < 1 || n > layout.MaxChannelSize {
			return fmt.Errorf("%w: %s size %d", ErrInvalidSize, s, n)
		}
	default:
		return fmt.Errorf("%w: unknown channel %s", ErrContractViolation, s)
	}
	return nil
}

// Set writes the components c of channel s at vertex v, creating the
// channel at size len(c) on first write.
func (g *Geometry) Set(s layout.Slot, v int, c ...float32) error {
	if s.Kind == layout.KindCoordinates {
		return g.SetCoordinate(v, c...)
	}
	if len(c) == 0 {
		return ErrEmptyWrite
	}
	if err := g.checkSize(s, len(c)); err != nil {
		return err
	}
	if err := g.checkWrite(v, 1); err != nil {
		return err
	}
	ch := g.ensure(s)
	if !ch.present() {
		if err := g.createChannel(ch, len(c)); err != nil {
			return err
		}
	} else if ch.size != len(c) {
		return fmt.Errorf("%w: %s has %d components, got %d", ErrSizeMismatch, s, ch.size, len(c))
	}
	buf, off := g.store(ch)
	buf.SetAt(v, ch.size, off, c)
	return nil
}

// Get reads channel s at vertex v into dst, which must hold at least
// Size(s) components. It returns the number of components read.
func (g *Geometry) Get(s layout.Slot, v int, dst []float32) (int, error) {
	if err := g.checkRead(v, 1); err != nil {
		return 0, err
	}
	ch := g.lookup(s)
	if ch == nil || !ch.present() {
		return 0, fmt.Errorf("%w: %s", ErrMissingChannel, s)
	}
	if len(dst) < ch.size {
		return 0, fmt.Errorf("%w: %s has %d components, dst holds %d", ErrSizeMismatch, s, ch.size, len(dst))
	}
	buf, off := g.store(ch)
	buf.GetAt(v, ch.size, off, dst[:ch.size])
	return ch.size, nil
}

// get reads channel s at vertex v into a fresh slice.
func (g *Geometry) get(s layout.Slot, v int) ([]float32, error) {
	var tmp [layout.MaxChannelSize]float32
	n, err := g.Get(s, v, tmp[:])
	if err != nil {
		return nil, err
	}
	return append([]float32(nil), tmp[:n]...), nil
}

// Has reports whether channel s exists.
func (g *Geometry) Has(s layout.Slot) bool {
	ch := g.lookup(s)
	return ch != nil && ch.present()
}

// Size returns the component count of channel s, 0 when absent.
func (g *Geometry) Size(s layout.Slot) int {
	if ch := g.lookup(s); ch != nil {
		return ch.size
	}
	return 0
}

// Offset returns the component offset of channel s inside the record.
// It is 0 while the channel has separate storage.
func (g *Geometry) Offset(s layout.Slot) int {
	if ch := g.lookup(s); ch != nil && ch.present() && ch.buf == nil {
		return ch.offset
	}
	return 0
}

// ByteOffset returns Offset(s) in bytes.
func (g *Geometry) ByteOffset(s layout.Slot) int {
	return g.Offset(s) * 4
}

// InRecord reports whether channel s is a view into the interleaved record.
func (g *Geometry) InRecord(s layout.Slot) bool {
	ch := g.lookup(s)
	return g.interleaved && ch != nil && ch.present() && ch.buf == nil
}

// TexCoordUnits returns one more than the highest texture unit ever
// written or declared.
func (g *Geometry) TexCoordUnits() int {
	return len(g.texCoords)
}

// VertexAttribCount returns one more than the highest vertex attribute
// ever written or declared.
func (g *Geometry) VertexAttribCount() int {
	return len(g.attribs)
}

// Stride returns the record stride in components, or 0 while channels are
// separate.
func (g *Geometry) Stride() int {
	if !g.interleaved {
		return 0
	}
	return g.layout.Stride
}

// Layout returns the record layout, or the zero Layout while channels are
// separate.
func (g *Geometry) Layout() layout.Layout {
	if !g.interleaved {
		return layout.Layout{}
	}
	return g.layout
}

// Slots returns every present channel in record order.
func (g *Geometry) Slots() []layout.Slot {
	var out []layout.Slot
	if g.coords.present() {
		out = append(out, layout.CoordinatesSlot)
	}
	if g.normals.present() {
		out = append(out, layout.NormalsSlot)
	}
	if g.colors.present() {
		out = append(out, layout.ColorsSlot)
	}
	for u := range g.texCoords {
		if g.texCoords[u].present() {
			out = append(out, layout.TexCoord(u))
		}
	}
	for i := range g.attribs {
		if g.attribs[i].present() {
			out = append(out, layout.Attrib(i))
		}
	}
	return out
}

// SetNormal writes the normal of vertex v.
func (g *Geometry) SetNormal(v int, x, y, z float32) error {
	return g.Set(layout.NormalsSlot, v, x, y, z)
}

// SetNormalVec writes the normal of vertex v.
func (g *Geometry) SetNormalVec(v int, n f32.Vec3) error {
	return g.Set(layout.NormalsSlot, v, n[:]...)
}

// Normal returns the normal of vertex v.
func (g *Geometry) Normal(v int) (f32.Vec3, error) {
	var n f32.Vec3
	_, err := g.Get(layout.NormalsSlot, v, n[:])
	return n, err
}

// SetColor writes an RGB or RGBA color. The first write decides whether
// the container's colors carry alpha.
func (g *Geometry) SetColor(v int, c ...float32) error {
	return g.Set(layout.ColorsSlot, v, c...)
}

// SetColorVec writes c with alpha when alpha is true, or its RGB part
// otherwise.
func (g *Geometry) SetColorVec(v int, c f32.Vec4, alpha bool) error {
	if alpha {
		return g.Set(layout.ColorsSlot, v, c[:]...)
	}
	return g.Set(layout.ColorsSlot, v, c[:3]...)
}

// ColorAlpha reports whether colors have an alpha component.
func (g *Geometry) ColorAlpha() bool {
	return g.colors.size == 4
}

// Color returns the color of vertex v. RGB colors read as opaque.
func (g *Geometry) Color(v int) (f32.Vec4, error) {
	c := f32.Vec4{0, 0, 0, 1}
	_, err := g.Get(layout.ColorsSlot, v, c[:])
	return c, err
}

// SetTextureCoordinate writes texture unit u at vertex v.
func (g *Geometry) SetTextureCoordinate(u, v int, c ...float32) error {
	return g.Set(layout.TexCoord(u), v, c...)
}

// SetTextureCoordinateVec writes a 2-component texture coordinate.
func (g *Geometry) SetTextureCoordinateVec(u, v int, c f32.Vec2) error {
	return g.Set(layout.TexCoord(u), v, c[:]...)
}

// TextureCoordinate returns texture unit u at vertex v.
func (g *Geometry) TextureCoordinate(u, v int) ([]float32, error) {
	return g.get(layout.TexCoord(u), v)
}

// TextureCoordinateVec returns the first two components of texture unit
// u at vertex v.
func (g *Geometry) TextureCoordinateVec(u, v int) (f32.Vec2, error) {
	var tc f32.Vec2
	c, err := g.TextureCoordinate(u, v)
	if err != nil {
		return tc, err
	}
	copy(tc[:], c)
	return tc, nil
}

// SetVertexAttribute writes attribute i at vertex v.
func (g *Geometry) SetVertexAttribute(i, v int, c ...float32) error {
	return g.Set(layout.Attrib(i), v, c...)
}

// VertexAttribute returns attribute i at vertex v.
func (g *Geometry) VertexAttribute(i, v int) ([]float32, error) {
	return g.get(layout.Attrib(i), v)
}

// extended returns pointers to every extended channel, in record order.
func (g *Geometry) extended() []*channel {
	out := []*channel{&g.normals, &g.colors}
	for u := range g.texCoords {
		out = append(out, &g.texCoords[u])
	}
	for i := range g.attribs {
		out = append(out, &g.attribs[i])
	}
	return out
}

// buffers returns every distinct float buffer the container owns.
func (g *Geometry) buffers() []*buffer.FloatBuffer {
	out := g.Base.buffers()
	for _, ch := range g.extended() {
		if ch.buf != nil {
			out = append(out, ch.buf)
		}
	}
	return out
}

// Dirty reports whether any owned buffer changed since the last
// SetDirty(false).
func (g *Geometry) Dirty() bool {
	for _, buf := range g.buffers() {
		if buf.Dirty() {
			return true
		}
	}
	return g.indices != nil && g.indices.Dirty()
}

// SetDirty sets the change flag of every owned buffer.
func (g *Geometry) SetDirty(dirty bool) {
	for _, buf := range g.buffers() {
		buf.SetDirty(dirty)
	}
	if g.indices != nil {
		g.indices.SetDirty(dirty)
	}
}

// Duplicate returns an independent container with the same channels,
// sizes, offsets and interleaving state. With forceCopy the contents are
// copied, otherwise the new storage is zeroed.
func (g *Geometry) Duplicate(forceCopy bool) *Geometry {
	d := &Geometry{
		Base:    g.duplicate(forceCopy),
		normals: duplicateChannel(g.normals, forceCopy),
		colors:  duplicateChannel(g.colors, forceCopy),
		layout: layout.Layout{
			Stride:   g.layout.Stride,
			Channels: append([]layout.Channel(nil), g.layout.Channels...),
		},
	}
	d.texCoords = make([]channel, len(g.texCoords))
	for u, c := range g.texCoords {
		d.texCoords[u] = duplicateChannel(c, forceCopy)
	}
	d.attribs = make([]channel, len(g.attribs))
	for i, c := range g.attribs {
		d.attribs[i] = duplicateChannel(c, forceCopy)
	}
	return d
}

// Release returns every float buffer to the container's pool and leaves
// all channels absent. The container must not be used afterwards.
func (g *Geometry) Release() {
	for _, ch := range g.extended() {
		g.recycle(ch.buf)
	}
	g.normals = channel{}
	g.colors = channel{}
	g.texCoords = nil
	g.attribs = nil
	g.layout = layout.Layout{}
	g.Base.Release()
}
