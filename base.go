package meshbuf

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/meshbuf/buffer"
	"github.com/gogpu/meshbuf/layout"
)

// channel is one per-vertex stream of a container.
//
// A channel with size 0 is absent. A present channel either owns separate
// storage (buf != nil) or is a view into the container's record buffer at
// offset components.
type channel struct {
	size   int
	offset int
	buf    *buffer.FloatBuffer
}

func (c *channel) present() bool {
	return c.size > 0
}

// Base owns the coordinate channel and the optional index buffer.
//
// The coordinate size is fixed at construction. Once the container is
// interleaved coordinates live in the record and the coordinate mutators
// fail with ErrInterleaved.
type Base struct {
	topology    gputypes.PrimitiveTopology
	coordSize   int
	maxVertices int
	validCount  int

	coords channel

	indices     *buffer.IntBuffer
	indexCount  int
	stripCounts []int

	record      *buffer.FloatBuffer
	interleaved bool

	pool  *buffer.Pool
	label string
}

// NewBase creates a container for vertexCount vertices with coordSize
// components each (1..4, commonly 3).
func NewBase(topology gputypes.PrimitiveTopology, coordSize, vertexCount int, opts ...Option) (*Base, error) {
	b, err := newBase(topology, coordSize, vertexCount, opts)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func newBase(topology gputypes.PrimitiveTopology, coordSize, vertexCount int, opts []Option) (Base, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if coordSize < 1 || coordSize > layout.MaxChannelSize {
		return Base{}, fmt.Errorf("%w: coordinate size %d", ErrInvalidSize, coordSize)
	}
	if vertexCount <= 0 {
		return Base{}, fmt.Errorf("%w: vertex count %d", ErrInvalidSize, vertexCount)
	}
	if o.indexCount < 0 {
		return Base{}, fmt.Errorf("%w: index count %d", ErrInvalidSize, o.indexCount)
	}
	if err := validateStripCounts(topology, o.stripCounts, vertexCount, o.indexCount); err != nil {
		return Base{}, err
	}

	b := Base{
		topology:    topology,
		coordSize:   coordSize,
		maxVertices: vertexCount,
		validCount:  vertexCount,
		indexCount:  o.indexCount,
		stripCounts: o.stripCounts,
		pool:        o.pool,
		label:       o.label,
	}
	if o.indexCount > 0 {
		idx, err := buffer.NewIntBuffer(o.indexCount, 1)
		if err != nil {
			return Base{}, err
		}
		b.indices = idx
	}
	return b, nil
}

// validateStripCounts checks the strip table against the topology: only
// strip topologies take one, each strip must form at least one primitive,
// and the strips must cover exactly the indices (or vertices).
func validateStripCounts(topology gputypes.PrimitiveTopology, counts []int, vertexCount, indexCount int) error {
	if len(counts) == 0 {
		return nil
	}
	var minCount int
	switch topology {
	case gputypes.PrimitiveTopologyLineStrip:
		minCount = 2
	case gputypes.PrimitiveTopologyTriangleStrip:
		minCount = 3
	default:
		return fmt.Errorf("%w: %s is not a strip topology", ErrInvalidStripCounts, topology)
	}
	total := 0
	for i, n := range counts {
		if n < minCount {
			return fmt.Errorf("%w: strip %d has %d vertices, need %d", ErrInvalidStripCounts, i, n, minCount)
		}
		total += n
	}
	want := vertexCount
	if indexCount > 0 {
		want = indexCount
	}
	if total != want {
		return fmt.Errorf("%w: strips cover %d, want %d", ErrInvalidStripCounts, total, want)
	}
	return nil
}

// Topology returns the primitive topology.
func (b *Base) Topology() gputypes.PrimitiveTopology {
	return b.topology
}

// CoordSize returns the coordinate component count.
func (b *Base) CoordSize() int {
	return b.coordSize
}

// MaxVertices returns the vertex capacity.
func (b *Base) MaxVertices() int {
	return b.maxVertices
}

// ValidVertexCount returns the number of meaningful vertices.
func (b *Base) ValidVertexCount() int {
	return b.validCount
}

// SetValidVertexCount limits reads to the first n vertices.
func (b *Base) SetValidVertexCount(n int) error {
	if n < 0 || n > b.maxVertices {
		return fmt.Errorf("%w: valid vertex count %d of %d", ErrOutOfRange, n, b.maxVertices)
	}
	b.validCount = n
	return nil
}

// StripCounts returns a copy of the strip-count table.
func (b *Base) StripCounts() []int {
	return append([]int(nil), b.stripCounts...)
}

// Label returns the debug label.
func (b *Base) Label() string {
	return b.label
}

// IsInterleaved reports whether channels live in one record buffer.
func (b *Base) IsInterleaved() bool {
	return b.interleaved
}

// Record returns the interleaved record buffer, or nil when the channels
// are separate.
func (b *Base) Record() *buffer.FloatBuffer {
	return b.record
}

// store resolves a channel to its backing buffer and component offset.
func (b *Base) store(c *channel) (*buffer.FloatBuffer, int) {
	if c.buf != nil {
		return c.buf, 0
	}
	return b.record, c.offset
}

func (b *Base) newFloat(capacity, elemSize int, opts ...buffer.Option) (*buffer.FloatBuffer, error) {
	if b.pool != nil {
		return b.pool.Get(capacity, elemSize, opts...)
	}
	return buffer.NewFloatBuffer(capacity, elemSize, opts...)
}

func (b *Base) recycle(buf *buffer.FloatBuffer) {
	if b.pool != nil && buf != nil {
		b.pool.Put(buf)
	}
}

// createChannel gives c separate storage of the given size.
func (b *Base) createChannel(c *channel, size int) error {
	buf, err := b.newFloat(b.maxVertices, size)
	if err != nil {
		return err
	}
	c.size = size
	c.offset = 0
	c.buf = buf
	return nil
}

// checkWrite validates the vertex range of a write of count vertices.
func (b *Base) checkWrite(v, count int) error {
	if v < 0 || count < 0 || v+count > b.maxVertices {
		return fmt.Errorf("%w: vertices [%d, %d) of %d", ErrOutOfRange, v, v+count, b.maxVertices)
	}
	return nil
}

// checkRead validates the vertex range of a read of count vertices.
func (b *Base) checkRead(v, count int) error {
	if v < 0 || v+count > b.validCount {
		return fmt.Errorf("%w: vertices [%d, %d) of %d valid", ErrNotFound, v, v+count, b.validCount)
	}
	return nil
}

// SetCoordinate writes the coordinate of vertex v. It creates the
// coordinate channel on first use; len(c) must equal CoordSize.
func (b *Base) SetCoordinate(v int, c ...float32) error {
	if b.interleaved {
		return ErrInterleaved
	}
	if len(c) == 0 {
		return ErrEmptyWrite
	}
	if len(c) != b.coordSize {
		return fmt.Errorf("%w: coordinates have %d components, got %d", ErrSizeMismatch, b.coordSize, len(c))
	}
	return b.SetCoordinates(v, c)
}

// SetCoordinateVec writes a 3-component coordinate. The container's
// coordinate size must be 3.
func (b *Base) SetCoordinateVec(v int, c f32.Vec3) error {
	return b.SetCoordinate(v, c[:]...)
}

// SetCoordinates writes len(values)/CoordSize consecutive coordinates
// starting at vertex v.
func (b *Base) SetCoordinates(v int, values []float32) error {
	if b.interleaved {
		return ErrInterleaved
	}
	if len(values) == 0 {
		return ErrEmptyWrite
	}
	if len(values)%b.coordSize != 0 {
		return fmt.Errorf("%w: %d components is not a multiple of %d", ErrSizeMismatch, len(values), b.coordSize)
	}
	if err := b.checkWrite(v, len(values)/b.coordSize); err != nil {
		return err
	}
	if !b.coords.present() {
		if err := b.createChannel(&b.coords, b.coordSize); err != nil {
			return err
		}
	}
	buf, off := b.store(&b.coords)
	buf.SetAt(v, b.coordSize, off, values)
	return nil
}

// HasCoordinates reports whether the coordinate channel exists.
func (b *Base) HasCoordinates() bool {
	return b.coords.present()
}

// Coordinate returns the coordinate of vertex v. Missing components read
// as zero; a fourth component is dropped.
func (b *Base) Coordinate(v int) (f32.Vec3, error) {
	var out f32.Vec3
	if err := b.readCoords(v, 1); err != nil {
		return out, err
	}
	var tmp [layout.MaxChannelSize]float32
	buf, off := b.store(&b.coords)
	buf.GetAt(v, b.coordSize, off, tmp[:b.coordSize])
	copy(out[:], tmp[:min(b.coordSize, 3)])
	return out, nil
}

// Coordinates fills dst with len(dst)/CoordSize consecutive coordinates
// starting at vertex v.
func (b *Base) Coordinates(v int, dst []float32) error {
	if len(dst)%b.coordSize != 0 {
		return fmt.Errorf("%w: %d components is not a multiple of %d", ErrSizeMismatch, len(dst), b.coordSize)
	}
	if err := b.readCoords(v, len(dst)/b.coordSize); err != nil {
		return err
	}
	buf, off := b.store(&b.coords)
	buf.GetAt(v, b.coordSize, off, dst)
	return nil
}

// Vertex returns the CoordSize components of vertex v.
func (b *Base) Vertex(v int) ([]float32, error) {
	out := make([]float32, b.coordSize)
	if err := b.Coordinates(v, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Base) readCoords(v, count int) error {
	if err := b.checkRead(v, count); err != nil {
		return err
	}
	if !b.coords.present() {
		return fmt.Errorf("%w: coordinates", ErrMissingChannel)
	}
	return nil
}

// coordComponents converts a 3-component position to CoordSize components.
// A fourth component is the homogeneous 1.
func (b *Base) coordComponents(p f32.Vec3) []float32 {
	switch b.coordSize {
	case 4:
		return []float32{p[0], p[1], p[2], 1}
	default:
		return append([]float32(nil), p[:b.coordSize]...)
	}
}

// IsIndexed reports whether the container has an index buffer.
func (b *Base) IsIndexed() bool {
	return b.indices != nil
}

// IndexCount returns the number of indices, 0 for non-indexed containers.
func (b *Base) IndexCount() int {
	return b.indexCount
}

// SetIndex writes index i. The value must address an allocated vertex.
func (b *Base) SetIndex(i int, v int32) error {
	return b.SetIndices(i, []int32{v})
}

// SetIndices writes consecutive indices starting at i.
func (b *Base) SetIndices(i int, values []int32) error {
	if b.indices == nil {
		return fmt.Errorf("%w: indices", ErrMissingChannel)
	}
	if len(values) == 0 {
		return ErrEmptyWrite
	}
	if i < 0 || i+len(values) > b.indexCount {
		return fmt.Errorf("%w: indices [%d, %d) of %d", ErrOutOfRange, i, i+len(values), b.indexCount)
	}
	for _, v := range values {
		if v < 0 || int(v) >= b.maxVertices {
			return fmt.Errorf("%w: index value %d for %d vertices", ErrOutOfRange, v, b.maxVertices)
		}
	}
	b.indices.SetSlice(i, values)
	return nil
}

// Index returns index i.
func (b *Base) Index(i int) (int32, error) {
	var out [1]int32
	if err := b.Indices(i, out[:]); err != nil {
		return 0, err
	}
	return out[0], nil
}

// Indices fills dst with consecutive indices starting at i.
func (b *Base) Indices(i int, dst []int32) error {
	if b.indices == nil {
		return fmt.Errorf("%w: indices", ErrMissingChannel)
	}
	if i < 0 || i+len(dst) > b.indexCount {
		return fmt.Errorf("%w: indices [%d, %d) of %d", ErrNotFound, i, i+len(dst), b.indexCount)
	}
	b.indices.GetSlice(i, dst)
	return nil
}

// IndexBuffer returns the index buffer, or nil for non-indexed containers.
func (b *Base) IndexBuffer() *buffer.IntBuffer {
	return b.indices
}

// Bounds returns the component-wise minimum and maximum of the valid
// coordinates.
func (b *Base) Bounds() (lo, hi f32.Vec3, err error) {
	if b.validCount == 0 {
		return lo, hi, fmt.Errorf("%w: no valid vertices", ErrNotFound)
	}
	if !b.coords.present() {
		return lo, hi, fmt.Errorf("%w: coordinates", ErrMissingChannel)
	}
	first, _ := b.Coordinate(0)
	box := aabb{lo: mgl32.Vec3(first), hi: mgl32.Vec3(first)}
	for v := 1; v < b.validCount; v++ {
		p, _ := b.Coordinate(v)
		box.expand(mgl32.Vec3(p))
	}
	return f32.Vec3(box.lo), f32.Vec3(box.hi), nil
}

// aabb is an axis-aligned box.
type aabb struct {
	lo, hi mgl32.Vec3
}

func (b *aabb) expand(p mgl32.Vec3) {
	for k := range p {
		b.lo[k] = math32.Min(b.lo[k], p[k])
		b.hi[k] = math32.Max(b.hi[k], p[k])
	}
}

// Dirty reports whether any owned buffer changed since the last
// SetDirty(false).
func (b *Base) Dirty() bool {
	for _, buf := range b.buffers() {
		if buf.Dirty() {
			return true
		}
	}
	return b.indices != nil && b.indices.Dirty()
}

// SetDirty sets the change flag of every owned buffer.
func (b *Base) SetDirty(dirty bool) {
	for _, buf := range b.buffers() {
		buf.SetDirty(dirty)
	}
	if b.indices != nil {
		b.indices.SetDirty(dirty)
	}
}

// buffers returns the distinct float buffers owned by the base.
func (b *Base) buffers() []*buffer.FloatBuffer {
	var out []*buffer.FloatBuffer
	if b.record != nil {
		out = append(out, b.record)
	}
	if b.coords.buf != nil {
		out = append(out, b.coords.buf)
	}
	return out
}

// Duplicate returns an independent container of the same shape and
// structure: cursor state, index buffer, coordinate storage (separate or
// interleaved) and strip counts. With forceCopy the contents are copied,
// otherwise the new storage is zeroed.
func (b *Base) Duplicate(forceCopy bool) *Base {
	d := b.duplicate(forceCopy)
	return &d
}

func (b *Base) duplicate(forceCopy bool) Base {
	d := *b
	d.coords = duplicateChannel(b.coords, forceCopy)
	if b.record != nil {
		d.record = b.record.Duplicate(forceCopy)
	}
	if b.indices != nil {
		d.indices = b.indices.Duplicate(forceCopy)
	}
	d.stripCounts = b.StripCounts()
	return d
}

func duplicateChannel(c channel, forceCopy bool) channel {
	if c.buf != nil {
		c.buf = c.buf.Duplicate(forceCopy)
	}
	return c
}

// Release returns the container's float buffers to its pool and leaves
// every channel absent. The container must not be used afterwards.
func (b *Base) Release() {
	for _, buf := range b.buffers() {
		b.recycle(buf)
	}
	b.coords = channel{}
	b.record = nil
	b.interleaved = false
}

// IndexFormat returns the narrowest GPU index format holding every index:
// Uint16 when all values fit, Uint32 otherwise. Strip topologies reserve
// 0xFFFF as the primitive restart value, so a strip indexing vertex 65535
// needs Uint32. Non-indexed containers return IndexFormatUndefined.
func (b *Base) IndexFormat() gputypes.IndexFormat {
	if b.indices == nil {
		return gputypes.IndexFormatUndefined
	}
	limit := int32(math.MaxUint16)
	if b.isStrip() {
		limit--
	}
	if b.indices.Max() <= limit {
		return gputypes.IndexFormatUint16
	}
	return gputypes.IndexFormatUint32
}

func (b *Base) isStrip() bool {
	return b.topology == gputypes.PrimitiveTopologyLineStrip ||
		b.topology == gputypes.PrimitiveTopologyTriangleStrip
}

// IndexBytes encodes the indices in IndexFormat, padded to a multiple of
// 4 bytes. Non-indexed containers return nil.
func (b *Base) IndexBytes() []byte {
	if b.indices == nil {
		return nil
	}
	return padBytes(b.indices.Bytes(b.IndexFormat()))
}

// padBytes extends data to the 4-byte multiple GPU buffer sizes require.
func padBytes(data []byte) []byte {
	if rem := len(data) % 4; rem != 0 {
		data = append(data, make([]byte, 4-rem)...)
	}
	return data
}
