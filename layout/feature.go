package layout

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFeature is returned by ParseFeature for unrecognized names.
var ErrUnknownFeature = errors.New("layout: unknown feature")

// Feature is a bitmask of channel families enabled in an interleaved record.
type Feature uint32

const (
	// Coordinates enables vertex positions. Records always carry them.
	Coordinates Feature = 1 << iota
	// Normals enables 3-component normals.
	Normals
	// Colors enables RGB or RGBA colors.
	Colors
	// TextureCoordinates enables the texture units with a non-zero size.
	TextureCoordinates
	// VertexAttributes enables the generic attributes with a non-zero size.
	VertexAttributes
)

// AllFeatures enables every channel family.
const AllFeatures = Coordinates | Normals | Colors | TextureCoordinates | VertexAttributes

var featureNames = []struct {
	f    Feature
	name string
}{
	{Coordinates, "coordinates"},
	{Normals, "normals"},
	{Colors, "colors"},
	{TextureCoordinates, "texcoords"},
	{VertexAttributes, "attribs"},
}

// Has reports whether every bit of x is set in f.
func (f Feature) Has(x Feature) bool {
	return f&x == x
}

// String returns the enabled families joined by '|', e.g. "coordinates|normals".
func (f Feature) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	for _, fn := range featureNames {
		if f.Has(fn.f) {
			parts = append(parts, fn.name)
		}
	}
	if rest := f &^ AllFeatures; rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

// ParseFeature maps a family name to its bit. Names are case-insensitive
// and accept the long forms "texture_coordinates" and "vertex_attributes".
func ParseFeature(name string) (Feature, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "coordinates", "coords", "position", "positions":
		return Coordinates, nil
	case "normals", "normal":
		return Normals, nil
	case "colors", "color":
		return Colors, nil
	case "texcoords", "texture_coordinates", "uv":
		return TextureCoordinates, nil
	case "attribs", "vertex_attributes", "attributes":
		return VertexAttributes, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFeature, name)
}

// Kind identifies a channel family.
type Kind uint8

const (
	// KindCoordinates is the position channel.
	KindCoordinates Kind = iota
	// KindNormals is the normal channel.
	KindNormals
	// KindColors is the color channel.
	KindColors
	// KindTexCoords is one texture-coordinate unit.
	KindTexCoords
	// KindVertexAttribs is one generic vertex attribute.
	KindVertexAttribs
)

// String returns the family name.
func (k Kind) String() string {
	switch k {
	case KindCoordinates:
		return "coordinates"
	case KindNormals:
		return "normals"
	case KindColors:
		return "colors"
	case KindTexCoords:
		return "texcoord"
	case KindVertexAttribs:
		return "attrib"
	default:
		return "unknown"
	}
}

// Feature returns the mask bit that enables the family.
func (k Kind) Feature() Feature {
	switch k {
	case KindCoordinates:
		return Coordinates
	case KindNormals:
		return Normals
	case KindColors:
		return Colors
	case KindTexCoords:
		return TextureCoordinates
	case KindVertexAttribs:
		return VertexAttributes
	default:
		return 0
	}
}

// Slot names one channel: a family plus, for texture coordinates and
// vertex attributes, the unit or attribute index.
type Slot struct {
	Kind Kind
	Unit int
}

// Fixed slots.
var (
	CoordinatesSlot = Slot{Kind: KindCoordinates}
	NormalsSlot     = Slot{Kind: KindNormals}
	ColorsSlot      = Slot{Kind: KindColors}
)

// TexCoord returns the slot of texture unit u.
func TexCoord(u int) Slot {
	return Slot{Kind: KindTexCoords, Unit: u}
}

// Attrib returns the slot of vertex attribute i.
func Attrib(i int) Slot {
	return Slot{Kind: KindVertexAttribs, Unit: i}
}

// String returns a name such as "normals" or "texcoord1".
func (s Slot) String() string {
	switch s.Kind {
	case KindTexCoords, KindVertexAttribs:
		return fmt.Sprintf("%s%d", s.Kind, s.Unit)
	default:
		return s.Kind.String()
	}
}
