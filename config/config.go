// Package config loads interleave specs from YAML or TOML files.
//
// A spec names the channel families to pack and the size of each texture
// unit and vertex attribute:
//
//	label: cube
//	features: [coordinates, normals, colors, texture_coordinates]
//	color_alpha: true
//	texcoord_sizes: [2]
//
// The same keys work in TOML. Unknown keys are rejected.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/meshbuf/layout"
)

// ErrUnknownFormat is returned for file extensions other than .yaml, .yml
// and .toml.
var ErrUnknownFormat = errors.New("config: unknown format")

// Format is a spec file encoding.
type Format int

const (
	// YAML is decoded with gopkg.in/yaml.v3.
	YAML Format = iota
	// TOML is decoded with github.com/pelletier/go-toml/v2.
	TOML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case YAML:
		return "yaml"
	case TOML:
		return "toml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}

// Spec is the file form of a layout.Request.
type Spec struct {
	Label         string   `yaml:"label,omitempty" toml:"label,omitempty"`
	Features      []string `yaml:"features" toml:"features"`
	CoordSize     int      `yaml:"coord_size,omitempty" toml:"coord_size,omitempty"`
	ColorAlpha    bool     `yaml:"color_alpha,omitempty" toml:"color_alpha,omitempty"`
	TexCoordSizes []int    `yaml:"texcoord_sizes,omitempty" toml:"texcoord_sizes,omitempty"`
	AttribSizes   []int    `yaml:"attrib_sizes,omitempty" toml:"attrib_sizes,omitempty"`
}

// Load reads and decodes the interleave spec file at path.
func Load(path string) (*Spec, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec file: %w", err)
	}
	s, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a spec. Empty input yields an empty spec.
func Parse(data []byte, format Format) (*Spec, error) {
	var s Spec
	switch format {
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	case TOML:
		if err := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&s); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	return &s, nil
}

// Encode writes s in the given format.
func (s *Spec) Encode(format Format) ([]byte, error) {
	switch format {
	case YAML:
		return yaml.Marshal(s)
	case TOML:
		return toml.Marshal(s)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// Request converts s to a planning request. Feature names are
// parsed with layout.ParseFeature.
func (s *Spec) Request() (layout.Request, error) {
	r := layout.Request{
		Features:      layout.Coordinates,
		CoordSize:     s.CoordSize,
		ColorAlpha:    s.ColorAlpha,
		TexCoordSizes: append([]int(nil), s.TexCoordSizes...),
		AttribSizes:   append([]int(nil), s.AttribSizes...),
	}
	for _, name := range s.Features {
		f, err := layout.ParseFeature(name)
		if err != nil {
			return layout.Request{}, err
		}
		r.Features |= f
	}
	return r, nil
}

// FromRequest builds a spec describing r.
func FromRequest(label string, r layout.Request) *Spec {
	s := &Spec{
		Label:         label,
		CoordSize:     r.CoordSize,
		ColorAlpha:    r.ColorAlpha,
		TexCoordSizes: append([]int(nil), r.TexCoordSizes...),
		AttribSizes:   append([]int(nil), r.AttribSizes...),
	}
	for _, f := range []layout.Feature{
		layout.Coordinates, layout.Normals, layout.Colors,
		layout.TextureCoordinates, layout.VertexAttributes,
	} {
		if r.Features.Has(f) {
			s.Features = append(s.Features, f.String())
		}
	}
	return s
}
