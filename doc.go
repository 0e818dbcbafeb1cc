// Package meshbuf builds the vertex buffers that back renderable meshes.
//
// # Overview
//
// A geometry container owns one fixed-capacity buffer per channel:
// coordinates, normals, colors, texture coordinates per unit and generic
// vertex attributes per index, plus an optional index buffer. Channels are
// created on first write and keep their component size for life.
//
// On demand the container packs its channels into one interleaved record
// buffer. Each channel then becomes a view (offset, size) into that record,
// which is the layout GPU vertex stages consume.
//
// # Quick Start
//
//	g, err := meshbuf.New(gputypes.PrimitiveTopologyTriangleList, 3, 3)
//	if err != nil {
//	    return err
//	}
//	g.SetCoordinate(0, 0, 0, 0)
//	g.SetCoordinate(1, 1, 0, 0)
//	g.SetCoordinate(2, 0, 1, 0)
//	g.SetNormal(0, 0, 0, 1)
//
//	// Pack coordinates and normals into a 6-float record.
//	err = g.Interleave(layout.Coordinates|layout.Normals, false, nil, nil)
//
//	// Hand the record to a renderer.
//	vbl := g.VertexBufferLayouts()
//	data := g.Record().Bytes()
//
// # Architecture
//
// The module is organized into:
//   - buffer: typed fixed-capacity buffers and a buffer pool
//   - layout: feature mask, stride planning and GPU layout export
//   - meshbuf: Base and Geometry containers, interleaving, triangles
//   - shader: WGSL vertex stages generated from a layout, compiled with naga
//   - config: YAML and TOML interleave specs
//   - batch: interleaving many independent containers concurrently
//
// # Thread Safety
//
// Containers assume a single writer. Once interleaved, every channel view
// writes the same record buffer, so writes through different channels must
// be serialized by the caller like writes to one object. Independent
// containers can be processed in parallel (see package batch).
package meshbuf

// Version is the module version reported by the meshbuf command.
const Version = "0.1.0"
