package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/meshbuf/layout"
)

const cubeYAML = `
label: cube
features: [coordinates, normals, colors, texture_coordinates]
color_alpha: true
texcoord_sizes: [2]
`

const cubeTOML = `
label = "cube"
features = ["coordinates", "normals", "colors", "texture_coordinates"]
color_alpha = true
texcoord_sizes = [2]
`

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"yaml", cubeYAML, YAML},
		{"toml", cubeTOML, TOML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse([]byte(tt.data), tt.format)
			require.NoError(t, err)
			assert.Equal(t, "cube", s.Label)

			r, err := s.Request()
			require.NoError(t, err)
			assert.Equal(t, layout.Coordinates|layout.Normals|layout.Colors|layout.TextureCoordinates, r.Features)
			assert.True(t, r.ColorAlpha)
			assert.Equal(t, []int{2}, r.TexCoordSizes)

			l, err := layout.Plan(r)
			require.NoError(t, err)
			assert.Equal(t, 12, l.Stride)
		})
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("features: [normals]\ntangents: true\n"), YAML)
	assert.Error(t, err)

	_, err = Parse([]byte("features = [\"normals\"]\ntangents = true\n"), TOML)
	assert.Error(t, err)
}

func TestParseEmpty(t *testing.T) {
	s, err := Parse(nil, YAML)
	require.NoError(t, err)
	r, err := s.Request()
	require.NoError(t, err)
	assert.Equal(t, layout.Coordinates, r.Features)
}

func TestRequestUnknownFeature(t *testing.T) {
	s := &Spec{Features: []string{"normals", "tangents"}}
	_, err := s.Request()
	assert.ErrorIs(t, err, layout.ErrUnknownFeature)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	for name, data := range map[string]string{
		"cube.yaml": cubeYAML,
		"cube.yml":  cubeYAML,
		"cube.toml": cubeTOML,
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
		s, err := Load(path)
		require.NoError(t, err, name)
		assert.Equal(t, []int{2}, s.TexCoordSizes, name)
	}

	_, err := Load(filepath.Join(dir, "cube.json"))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestEncodeFromRequest(t *testing.T) {
	r := layout.Request{
		Features:    layout.Coordinates | layout.VertexAttributes,
		AttribSizes: []int{0, 4},
	}
	for _, f := range []Format{YAML, TOML} {
		data, err := FromRequest("attrs", r).Encode(f)
		require.NoError(t, err, f.String())
		s, err := Parse(data, f)
		require.NoError(t, err, f.String())
		got, err := s.Request()
		require.NoError(t, err, f.String())
		assert.Equal(t, r.Features, got.Features, f.String())
		assert.Equal(t, r.AttribSizes, got.AttribSizes, f.String())
	}
}
