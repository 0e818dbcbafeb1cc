package meshbuf

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/meshbuf/buffer"
	"github.com/gogpu/meshbuf/layout"
)

// VertexBuffer is one physical vertex buffer prepared for a renderer.
type VertexBuffer struct {
	Descriptor gputypes.BufferDescriptor
	Layout     gputypes.VertexBufferLayout
	Data       []byte
}

type exportEntry struct {
	name   string
	buf    *buffer.FloatBuffer
	layout gputypes.VertexBufferLayout
}

// exports lists the physical buffers in binding order: the record first
// when interleaved, then every channel with separate storage in record
// order. Shader locations run across all of them.
func (g *Geometry) exports() []exportEntry {
	var out []exportEntry
	loc := 0
	if g.interleaved {
		vbl := g.layout.VertexBufferLayout()
		out = append(out, exportEntry{name: "record", buf: g.record, layout: vbl})
		loc = len(vbl.Attributes)
	}
	for _, s := range g.Slots() {
		ch := g.lookup(s)
		if ch.buf == nil {
			continue
		}
		vbl := layout.SeparateLayouts([]layout.Channel{{Slot: s, Size: ch.size}})[0]
		vbl.Attributes[0].ShaderLocation = uint32(loc) //nolint:gosec // G115: channel count is bounded
		out = append(out, exportEntry{name: s.String(), buf: ch.buf, layout: vbl})
		loc++
	}
	return out
}

// VertexBufferLayouts describes the container's vertex buffers for a
// render pipeline, in binding order.
func (g *Geometry) VertexBufferLayouts() []gputypes.VertexBufferLayout {
	entries := g.exports()
	out := make([]gputypes.VertexBufferLayout, len(entries))
	for i, e := range entries {
		out[i] = e.layout
	}
	return out
}

// VertexBuffers encodes every vertex buffer with a descriptor sized for
// upload, in binding order.
func (g *Geometry) VertexBuffers() []VertexBuffer {
	entries := g.exports()
	out := make([]VertexBuffer, len(entries))
	for i, e := range entries {
		data := padBytes(e.buf.Bytes())
		out[i] = VertexBuffer{
			Descriptor: gputypes.BufferDescriptor{
				Label: g.bufferLabel(e.name),
				Size:  uint64(len(data)),
				Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
			},
			Layout: e.layout,
			Data:   data,
		}
	}
	return out
}

// IndexDescriptor returns the descriptor of the index buffer and whether
// the container is indexed.
func (b *Base) IndexDescriptor() (gputypes.BufferDescriptor, bool) {
	if b.indices == nil {
		return gputypes.BufferDescriptor{}, false
	}
	return gputypes.BufferDescriptor{
		Label: b.bufferLabel("indices"),
		Size:  uint64(len(b.IndexBytes())),
		Usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
	}, true
}

func (b *Base) bufferLabel(name string) string {
	if b.label == "" {
		return "meshbuf " + name
	}
	return b.label + " " + name
}
