// Package shader generates WGSL vertex stages that consume a planned
// vertex record, and compiles them to SPIR-V with naga.
//
// The generated module declares one VertexInput field per record channel
// at the channel's shader location, a pass-through vs_main that places the
// coordinates in clip space and forwards the color, and an fs_main that
// outputs it. It is a starting point for renderers and a check that a
// layout is consumable by a real pipeline.
package shader

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/naga"

	"github.com/gogpu/meshbuf/layout"
)

// Errors returned by shader generation.
var (
	// ErrEmptyLayout is returned for layouts without channels.
	ErrEmptyLayout = errors.New("shader: layout has no channels")

	// ErrCompile wraps naga compilation failures.
	ErrCompile = errors.New("shader: compile failed")

	// ErrNotSPIRV is returned when preloading bytes that are not a SPIR-V
	// module.
	ErrNotSPIRV = errors.New("shader: not a SPIR-V module")
)

// SPIRVMagic is the first word of every SPIR-V module.
const SPIRVMagic = 0x07230203

// checkSPIRV reports whether data is word aligned and starts with the
// SPIR-V magic number.
func checkSPIRV(data []byte) error {
	if len(data) < 4 || len(data)%4 != 0 {
		return fmt.Errorf("%w: %d bytes", ErrNotSPIRV, len(data))
	}
	if magic := binary.LittleEndian.Uint32(data); magic != SPIRVMagic {
		return fmt.Errorf("%w: magic %#x", ErrNotSPIRV, magic)
	}
	return nil
}

// wgslType returns the WGSL type of a float channel with size components.
func wgslType(size int) string {
	if size == 1 {
		return "f32"
	}
	return fmt.Sprintf("vec%d<f32>", size)
}

// fieldName returns the VertexInput field name of a channel.
func fieldName(s layout.Slot) string {
	switch s.Kind {
	case layout.KindCoordinates:
		return "coord"
	case layout.KindNormals:
		return "normal"
	case layout.KindColors:
		return "color"
	default:
		return s.String()
	}
}

// positionExpr extends the coordinates to a homogeneous clip position.
func positionExpr(size int) string {
	switch size {
	case 1:
		return "vec4<f32>(in.coord, 0.0, 0.0, 1.0)"
	case 2:
		return "vec4<f32>(in.coord, 0.0, 1.0)"
	case 3:
		return "vec4<f32>(in.coord, 1.0)"
	default:
		return "in.coord"
	}
}

// Source returns the WGSL module for l. Shader locations follow the record
// order, matching layout.Layout.VertexBufferLayout.
func Source(l layout.Layout) (string, error) {
	if l.IsZero() {
		return "", ErrEmptyLayout
	}
	if err := l.Validate(); err != nil {
		return "", err
	}
	coord, ok := l.Find(layout.CoordinatesSlot)
	if !ok {
		return "", fmt.Errorf("%w: no coordinates", ErrEmptyLayout)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "// Generated for %s\n\n", l)
	sb.WriteString("struct VertexInput {\n")
	for i, c := range l.Channels {
		fmt.Fprintf(&sb, "    @location(%d) %s: %s,\n", i, fieldName(c.Slot), wgslType(c.Size))
	}
	sb.WriteString("}\n\n")

	sb.WriteString("struct VertexOutput {\n")
	sb.WriteString("    @builtin(position) position: vec4<f32>,\n")
	sb.WriteString("    @location(0) color: vec4<f32>,\n")
	sb.WriteString("}\n\n")

	color := "vec4<f32>(1.0, 1.0, 1.0, 1.0)"
	if c, ok := l.Find(layout.ColorsSlot); ok {
		if c.Size == 4 {
			color = "in.color"
		} else {
			color = "vec4<f32>(in.color, 1.0)"
		}
	}

	sb.WriteString("@vertex\n")
	sb.WriteString("fn vs_main(in: VertexInput) -> VertexOutput {\n")
	sb.WriteString("    var out: VertexOutput;\n")
	fmt.Fprintf(&sb, "    out.position = %s;\n", positionExpr(coord.Size))
	fmt.Fprintf(&sb, "    out.color = %s;\n", color)
	sb.WriteString("    return out;\n")
	sb.WriteString("}\n\n")

	sb.WriteString("@fragment\n")
	sb.WriteString("fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {\n")
	sb.WriteString("    return in.color;\n")
	sb.WriteString("}\n")
	return sb.String(), nil
}

// Compile generates the WGSL module for l and compiles it to SPIR-V.
func Compile(l layout.Layout) ([]byte, error) {
	src, err := Source(l)
	if err != nil {
		return nil, err
	}
	spirv, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}
	return spirv, nil
}
