package meshbuf

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/meshbuf/buffer"
	"github.com/gogpu/meshbuf/layout"
)

// Interleave packs the channels selected by features into one record
// buffer. colorAlpha selects 4-component colors; texCoordSizes and
// attribSizes give the size of each texture unit and vertex attribute, with
// 0 leaving a unit out.
//
// Coordinates are always part of the record. A selected channel that was
// never written is transcribed as zeros and becomes present. A populated
// channel that is not selected is dropped.
func (g *Geometry) Interleave(features layout.Feature, colorAlpha bool, texCoordSizes, attribSizes []int) error {
	return g.InterleaveWith(layout.Request{
		Features:      features,
		CoordSize:     g.coordSize,
		ColorAlpha:    colorAlpha,
		TexCoordSizes: texCoordSizes,
		AttribSizes:   attribSizes,
	})
}

// InterleaveCurrent packs every present channel at its current size.
// It fails with ErrNoChannels when no channel exists.
func (g *Geometry) InterleaveCurrent() error {
	slots := g.Slots()
	if len(slots) == 0 {
		return ErrNoChannels
	}
	req := layout.Request{
		Features:      layout.Coordinates,
		CoordSize:     g.coordSize,
		ColorAlpha:    g.colors.size == 4,
		TexCoordSizes: make([]int, len(g.texCoords)),
		AttribSizes:   make([]int, len(g.attribs)),
	}
	for _, s := range slots {
		req.Features |= s.Kind.Feature()
	}
	for u, c := range g.texCoords {
		req.TexCoordSizes[u] = c.size
	}
	for i, c := range g.attribs {
		req.AttribSizes[i] = c.size
	}
	return g.InterleaveWith(req)
}

// InterleaveWith packs the channels described by r into a new record
// buffer and repoints every selected channel at it.
//
// The layout is re-derived from r on every call. On an interleaved
// container the current record is the source of the old values, so
// channel sizes must stay the same across calls: a declared size that
// differs from an existing channel fails with ErrSizeMismatch and leaves
// the container unchanged.
func (g *Geometry) InterleaveWith(r layout.Request) error {
	if r.CoordSize == 0 {
		r.CoordSize = g.coordSize
	}
	if r.CoordSize != g.coordSize {
		return fmt.Errorf("%w: coordinates have %d components, request has %d", ErrSizeMismatch, g.coordSize, r.CoordSize)
	}
	l, err := layout.Plan(r)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSize, err)
	}
	for _, c := range l.Channels {
		if ch := g.lookup(c.Slot); ch != nil && ch.present() && ch.size != c.Size {
			return fmt.Errorf("%w: %s has %d components, layout declares %d", ErrSizeMismatch, c.Slot, ch.size, c.Size)
		}
	}

	rec, err := g.newFloat(g.maxVertices, l.Stride, buffer.WithStride(l.ByteStride()))
	if err != nil {
		return err
	}
	g.transcribe(rec, l)

	log := Logger()
	for _, s := range g.Slots() {
		if _, ok := l.Find(s); ok {
			continue
		}
		log.Warn("meshbuf: interleave drops populated channel",
			slog.String("channel", s.String()),
			slog.String("label", g.label))
	}
	retired := g.buffers()
	g.repoint(l)
	g.record = rec
	g.interleaved = true
	g.layout = l

	for _, buf := range retired {
		g.recycle(buf)
	}

	log.Debug("meshbuf: interleaved",
		slog.String("label", g.label),
		slog.Int("stride", l.Stride),
		slog.Int("vertices", g.maxVertices),
		slog.String("layout", l.String()))
	return nil
}

// transcribe copies every vertex of the channels in l into rec, vertex by
// vertex in record order. Channels without storage leave zeros.
func (g *Geometry) transcribe(rec *buffer.FloatBuffer, l layout.Layout) {
	type source struct {
		data   []float32
		stride int
		offset int
	}
	sources := make([]source, len(l.Channels))
	for i, c := range l.Channels {
		ch := g.lookup(c.Slot)
		if ch == nil || !ch.present() {
			continue
		}
		buf, off := g.store(ch)
		sources[i] = source{data: buf.Data(), stride: buf.ElemStride(), offset: off}
	}

	dst := rec.Data()
	for v := range g.maxVertices {
		base := v * l.Stride
		for i, c := range l.Channels {
			s := sources[i]
			if s.data == nil {
				continue
			}
			p := v*s.stride + s.offset
			copy(dst[base+c.Offset:base+c.Offset+c.Size], s.data[p:p+c.Size])
		}
	}
	rec.SetDirty(true)
}

// repoint turns every channel of l into a view of the record and every
// other channel absent.
func (g *Geometry) repoint(l layout.Layout) {
	g.coords = channel{}
	g.normals = channel{}
	g.colors = channel{}
	g.texCoords = nil
	g.attribs = nil
	for _, c := range l.Channels {
		*g.ensure(c.Slot) = channel{size: c.Size, offset: c.Offset}
	}
}

// Split returns a new, non-interleaved container holding a copy of every
// present channel in its own buffer. It is the only way back from an
// interleaved record to separate channels.
func (g *Geometry) Split() (*Geometry, error) {
	d := &Geometry{Base: g.Base}
	d.coords = channel{}
	d.record = nil
	d.interleaved = false
	d.stripCounts = g.StripCounts()
	if g.indices != nil {
		d.indices = g.indices.Duplicate(true)
	}

	for _, s := range g.Slots() {
		src := g.lookup(s)
		dst := d.ensure(s)
		if err := d.createChannel(dst, src.size); err != nil {
			return nil, err
		}
		sbuf, off := g.store(src)
		tmp := make([]float32, src.size)
		for v := range g.maxVertices {
			sbuf.GetAt(v, src.size, off, tmp)
			dst.buf.SetAt(v, src.size, 0, tmp)
		}
	}
	return d, nil
}
