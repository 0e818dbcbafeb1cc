package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureString(t *testing.T) {
	tests := []struct {
		f    Feature
		want string
	}{
		{0, "none"},
		{Coordinates, "coordinates"},
		{Coordinates | Colors | TextureCoordinates, "coordinates|colors|texcoords"},
		{Normals | Feature(1<<10), "normals|0x400"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.f.String(), "Feature(%d)", uint32(tt.f))
	}
}

func TestParseFeature(t *testing.T) {
	tests := []struct {
		name    string
		want    Feature
		wantErr error
	}{
		{"coordinates", Coordinates, nil},
		{"Normals", Normals, nil},
		{" colors ", Colors, nil},
		{"texture_coordinates", TextureCoordinates, nil},
		{"uv", TextureCoordinates, nil},
		{"vertex_attributes", VertexAttributes, nil},
		{"tangents", 0, ErrUnknownFeature},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFeature(tt.name)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlotString(t *testing.T) {
	tests := []struct {
		s    Slot
		want string
	}{
		{CoordinatesSlot, "coordinates"},
		{ColorsSlot, "colors"},
		{TexCoord(2), "texcoord2"},
		{Attrib(0), "attrib0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.s.String())
	}
}

func TestKindFeature(t *testing.T) {
	for _, k := range []Kind{KindCoordinates, KindNormals, KindColors, KindTexCoords, KindVertexAttribs} {
		assert.NotZero(t, k.Feature(), "%s has no feature bit", k)
	}
	assert.Zero(t, Kind(200).Feature(), "unknown kind should map to no feature")
}
