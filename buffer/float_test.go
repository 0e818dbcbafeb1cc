package buffer

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/f32"
)

func TestFloatBufferPut(t *testing.T) {
	b, err := NewFloatBuffer(3, 3)
	require.NoError(t, err)

	require.NoError(t, b.Put(1))
	require.NoError(t, b.Put(2, 3))
	require.NoError(t, b.Put(4, 5, 6))
	assert.ErrorIs(t, b.Put(7, 8, 9, 10), ErrPartialElement)
	assert.Equal(t, []float32{1, 0, 0, 2, 3, 0, 4, 5, 6}, b.Data())
	assert.ErrorIs(t, b.Put(1), ErrCapacityExceeded)
}

func TestFloatBufferPutSlice(t *testing.T) {
	t.Run("tight", func(t *testing.T) {
		b, err := NewFloatBuffer(4, 2)
		require.NoError(t, err)

		require.NoError(t, b.PutSlice([]float32{1, 2, 3, 4}))
		assert.ErrorIs(t, b.PutSlice([]float32{5, 6, 7}), ErrPartialElement)
		assert.Equal(t, 2, b.Cursor())
		assert.Equal(t, f32.Vec2{3, 4}, b.Vec2At(1, 0))
	})

	t.Run("strided", func(t *testing.T) {
		b, err := NewFloatBuffer(2, 2, WithStride(16))
		require.NoError(t, err)

		require.NoError(t, b.PutSlice([]float32{1, 2, 3, 4}))
		assert.Equal(t, []float32{1, 2, 0, 0, 3, 4, 0, 0}, b.Data())
	})
}

func TestFloatBufferSetAtGetAt(t *testing.T) {
	// Record of 5: [vec3 | vec2].
	b, err := NewFloatBuffer(4, 5)
	require.NoError(t, err)

	b.SetAt(1, 2, 3, []float32{10, 11, 20, 21})
	b.SetAt(0, 3, 0, []float32{1, 2, 3})

	got := make([]float32, 4)
	b.GetAt(1, 2, 3, got)
	assert.Equal(t, []float32{10, 11, 20, 21}, got)
	assert.Equal(t, f32.Vec3{1, 2, 3}, b.Vec3At(0, 0))
	assert.Equal(t, f32.Vec3{}, b.Vec3At(1, 0), "offset write must not touch coordinates")
}

func TestFloatBufferSetAtEmptyGroup(t *testing.T) {
	b, err := NewFloatBuffer(4, 3)
	require.NoError(t, err)
	b.SetDirty(false)

	for _, n := range []int{0, -1} {
		b.SetAt(0, n, 0, []float32{1, 2, 3})
		dst := []float32{7, 7, 7}
		b.GetAt(0, n, 0, dst)
		assert.Equal(t, []float32{7, 7, 7}, dst, "GetAt(n=%d)", n)
	}
	assert.False(t, b.Dirty(), "an empty group writes nothing")
	assert.Equal(t, make([]float32, 12), b.Data())
}

func TestFloatBufferRoundTrip(t *testing.T) {
	for n := 1; n <= 4; n++ {
		b, err := NewFloatBuffer(5, n)
		require.NoError(t, err)
		for v := range 5 {
			in := make([]float32, n)
			for c := range in {
				in[c] = float32(v*10 + c)
			}
			b.SetAt(v, n, 0, in)
			out := make([]float32, n)
			b.GetAt(v, n, 0, out)
			assert.Equal(t, in, out, "size %d vertex %d", n, v)
		}
	}
}

func TestFloatBufferTuples(t *testing.T) {
	b, err := NewFloatBuffer(2, 4)
	require.NoError(t, err)

	b.SetVec4(0, 0, f32.Vec4{1, 2, 3, 4})
	assert.Equal(t, f32.Vec4{1, 2, 3, 4}, b.Vec4At(0, 0))

	b.SetVec2(1, 2, f32.Vec2{7, 8})
	assert.Equal(t, f32.Vec2{7, 8}, b.Vec2At(1, 2))
}

func TestFloatBufferColor(t *testing.T) {
	tests := []struct {
		name  string
		size  int
		alpha bool
		in    f32.Vec4
		want  f32.Vec4
	}{
		{"rgba", 4, true, f32.Vec4{0.1, 0.2, 0.3, 0.4}, f32.Vec4{0.1, 0.2, 0.3, 0.4}},
		{"rgb", 3, false, f32.Vec4{0.1, 0.2, 0.3, 0.4}, f32.Vec4{0.1, 0.2, 0.3, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewFloatBuffer(2, tt.size)
			require.NoError(t, err)

			b.SetColor(1, 0, tt.in, tt.alpha)
			assert.Equal(t, tt.want, b.ColorAt(1, 0, tt.alpha))
			assert.Len(t, b.Data(), 2*tt.size)
		})
	}
}

func TestFloatBufferDuplicate(t *testing.T) {
	b, err := NewFloatBuffer(3, 2, WithStride(12))
	require.NoError(t, err)
	require.NoError(t, b.Put(1, 2))
	b.SetDirty(false)

	for _, copyData := range []bool{true, false} {
		d := b.Duplicate(copyData)
		assert.Equal(t, b.Capacity(), d.Capacity())
		assert.Equal(t, b.ElemSize(), d.ElemSize())
		assert.Equal(t, b.Stride(), d.Stride())
		assert.Equal(t, b.Cursor(), d.Cursor(), "Duplicate(%v)", copyData)

		wantFirst := float32(0)
		if copyData {
			wantFirst = 1
		}
		assert.Equal(t, wantFirst, d.Data()[0], "Duplicate(%v)", copyData)

		d.Data()[1] = 99
		assert.NotEqual(t, float32(99), b.Data()[1], "Duplicate(%v) shares storage with the source", copyData)
	}
	assert.Equal(t, 1, b.Cursor())
}

func TestFloatBufferBytes(t *testing.T) {
	b, err := NewFloatBuffer(1, 2)
	require.NoError(t, err)
	b.SetAt(0, 2, 0, []float32{1, -2.5})

	raw := b.Bytes()
	require.Len(t, raw, 8)
	assert.Equal(t, float32(-2.5), math.Float32frombits(binary.LittleEndian.Uint32(raw[4:])))
}

func BenchmarkFloatBufferSetAt(b *testing.B) {
	buf, err := NewFloatBuffer(4096, 12)
	if err != nil {
		b.Fatal(err)
	}
	vals := []float32{1, 2, 3}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.SetAt(i%4096, 3, 3, vals)
	}
}
