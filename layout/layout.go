// Package layout plans interleaved vertex records.
//
// A record stores every enabled channel of one vertex contiguously. Plan
// computes the record stride and each channel's offset from a feature mask
// and per-unit sizes, always in the same channel order:
//
//	coordinates, normals, colors, texcoord0..N, attrib0..M
//
// Readers, writers and the exported GPU layout all rely on this order, so
// it is fixed here and nowhere else.
//
// All sizes and offsets are in float32 components. Use ByteOffset and
// ByteStride for byte values.
package layout

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"hash/fnv"
	"strings"

	"github.com/gogpu/gputypes"
)

// Planning errors.
var (
	// ErrInvalidSize is returned for channel sizes outside 1..4.
	ErrInvalidSize = errors.New("layout: invalid channel size")

	// ErrOverlap is returned by Validate when channel ranges overlap or
	// leave gaps in the record.
	ErrOverlap = errors.New("layout: channel ranges overlap or leave gaps")
)

// DefaultCoordSize is the coordinate size used when a Request leaves it 0.
const DefaultCoordSize = 3

// MaxChannelSize is the largest component count of a single channel.
const MaxChannelSize = 4

// componentBytes is the size of a float32.
const componentBytes = 4

// Request describes the record to plan.
type Request struct {
	// Features selects the channel families. Coordinates are always included.
	Features Feature

	// CoordSize is the coordinate component count (DefaultCoordSize if 0).
	CoordSize int

	// ColorAlpha selects 4-component colors instead of 3.
	ColorAlpha bool

	// TexCoordSizes holds the size of each texture unit. Zero disables a unit.
	TexCoordSizes []int

	// AttribSizes holds the size of each vertex attribute. Zero disables it.
	AttribSizes []int
}

// Channel is one channel's place in a record.
type Channel struct {
	Slot

	// Size is the component count.
	Size int

	// Offset is the component offset inside the record.
	Offset int
}

// ByteOffset returns the channel offset in bytes.
func (c Channel) ByteOffset() int {
	return c.Offset * componentBytes
}

// Format returns the GPU vertex format of the channel.
func (c Channel) Format() gputypes.VertexFormat {
	return FloatFormat(c.Size)
}

// Layout is a planned record: the stride and the channels in record order.
type Layout struct {
	Stride   int
	Channels []Channel
}

// Plan computes the record layout for r.
//
// Stride is the sum of the enabled channel sizes: the coordinate size,
// 3 for normals, 3 or 4 for colors, then each non-zero texture unit and
// vertex attribute size. Offsets accumulate in record order.
func Plan(r Request) (Layout, error) {
	coordSize := r.CoordSize
	if coordSize == 0 {
		coordSize = DefaultCoordSize
	}
	if coordSize < 1 || coordSize > MaxChannelSize {
		return Layout{}, fmt.Errorf("%w: coordinates size %d", ErrInvalidSize, coordSize)
	}

	var l Layout
	add := func(s Slot, size int) {
		l.Channels = append(l.Channels, Channel{Slot: s, Size: size, Offset: l.Stride})
		l.Stride += size
	}

	add(CoordinatesSlot, coordSize)
	if r.Features.Has(Normals) {
		add(NormalsSlot, 3)
	}
	if r.Features.Has(Colors) {
		if r.ColorAlpha {
			add(ColorsSlot, 4)
		} else {
			add(ColorsSlot, 3)
		}
	}
	if r.Features.Has(TextureCoordinates) {
		for u, size := range r.TexCoordSizes {
			if size == 0 {
				continue
			}
			if size < 1 || size > MaxChannelSize {
				return Layout{}, fmt.Errorf("%w: %s size %d", ErrInvalidSize, TexCoord(u), size)
			}
			add(TexCoord(u), size)
		}
	}
	if r.Features.Has(VertexAttributes) {
		for i, size := range r.AttribSizes {
			if size == 0 {
				continue
			}
			if size < 1 || size > MaxChannelSize {
				return Layout{}, fmt.Errorf("%w: %s size %d", ErrInvalidSize, Attrib(i), size)
			}
			add(Attrib(i), size)
		}
	}
	return l, nil
}

// IsZero reports whether the layout has no channels.
func (l Layout) IsZero() bool {
	return len(l.Channels) == 0
}

// ByteStride returns the record stride in bytes.
func (l Layout) ByteStride() int {
	return l.Stride * componentBytes
}

// Find returns the channel for s.
func (l Layout) Find(s Slot) (Channel, bool) {
	for _, c := range l.Channels {
		if c.Slot == s {
			return c, true
		}
	}
	return Channel{}, false
}

// Features returns the mask of families present in the layout.
func (l Layout) Features() Feature {
	var f Feature
	for _, c := range l.Channels {
		f |= c.Kind.Feature()
	}
	return f
}

// Validate checks that channel ranges are pairwise disjoint and that, in
// record order, they tile [0, Stride) exactly.
func (l Layout) Validate() error {
	next := 0
	for _, c := range l.Channels {
		if c.Size < 1 || c.Size > MaxChannelSize {
			return fmt.Errorf("%w: %s size %d", ErrInvalidSize, c.Slot, c.Size)
		}
		if c.Offset != next {
			return fmt.Errorf("%w: %s at %d, expected %d", ErrOverlap, c.Slot, c.Offset, next)
		}
		next += c.Size
	}
	if next != l.Stride {
		return fmt.Errorf("%w: channels cover %d of stride %d", ErrOverlap, next, l.Stride)
	}
	return nil
}

// VertexBufferLayout returns the GPU description of the record. Shader
// locations follow record order starting at 0.
func (l Layout) VertexBufferLayout() gputypes.VertexBufferLayout {
	attrs := make([]gputypes.VertexAttribute, len(l.Channels))
	for i, c := range l.Channels {
		attrs[i] = gputypes.VertexAttribute{
			Format:         c.Format(),
			Offset:         uint64(c.ByteOffset()), //nolint:gosec // G115: offsets are small and non-negative
			ShaderLocation: uint32(i),              //nolint:gosec // G115: channel count is bounded
		}
	}
	return gputypes.VertexBufferLayout{
		ArrayStride: uint64(l.ByteStride()), //nolint:gosec // G115: stride is small and non-negative
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes:  attrs,
	}
}

// SeparateLayouts describes channels stored in their own tightly packed
// buffers: one single-attribute layout per channel, locations in order.
func SeparateLayouts(channels []Channel) []gputypes.VertexBufferLayout {
	out := make([]gputypes.VertexBufferLayout, len(channels))
	for i, c := range channels {
		out[i] = gputypes.VertexBufferLayout{
			ArrayStride: uint64(c.Size * componentBytes), //nolint:gosec // G115: size is 1..4
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: c.Format(), Offset: 0, ShaderLocation: uint32(i)}, //nolint:gosec // G115: bounded
			},
		}
	}
	return out
}

// Key returns a 64-bit FNV-1a hash of the stride and channels, suitable as
// a cache key for pipelines or shaders built for this layout.
func (l Layout) Key() uint64 {
	h := fnv.New64a()
	hashWriteUint32(h, uint32(l.Stride))        //nolint:gosec // G115: stride is small
	hashWriteUint32(h, uint32(len(l.Channels))) //nolint:gosec // G115: bounded
	for _, c := range l.Channels {
		hashWriteUint32(h, uint32(c.Kind))
		hashWriteUint32(h, uint32(c.Unit))   //nolint:gosec // G115: unit indices are small
		hashWriteUint32(h, uint32(c.Size))   //nolint:gosec // G115: 1..4
		hashWriteUint32(h, uint32(c.Offset)) //nolint:gosec // G115: bounded by stride
	}
	return h.Sum64()
}

// String returns a compact description such as
// "stride=12 [coordinates@0:3 normals@3:3]".
func (l Layout) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "stride=%d [", l.Stride)
	for i, c := range l.Channels {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s@%d:%d", c.Slot, c.Offset, c.Size)
	}
	sb.WriteByte(']')
	return sb.String()
}

// FloatFormat maps a component count to its float32 vertex format.
// Sizes outside 1..4 map to VertexFormatUndefined.
func FloatFormat(size int) gputypes.VertexFormat {
	switch size {
	case 1:
		return gputypes.VertexFormatFloat32
	case 2:
		return gputypes.VertexFormatFloat32x2
	case 3:
		return gputypes.VertexFormatFloat32x3
	case 4:
		return gputypes.VertexFormatFloat32x4
	default:
		return gputypes.VertexFormatUndefined
	}
}

func hashWriteUint32(h hash.Hash64, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, _ = h.Write(buf[:])
}
