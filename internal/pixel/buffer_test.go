package pixel

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ClampsNegativeDimensions(t *testing.T) {
	buf := New(-3, -1)

	assert.Equal(t, 0, buf.Width())
	assert.Equal(t, 0, buf.Height())
	assert.Empty(t, buf.Pix())
}

func TestSetAndRead(t *testing.T) {
	buf := New(4, 4)
	buf.Set(1, 2, 10, 20, 30, 40)

	assert.Equal(t, uint8(40), buf.Alpha(1, 2))
	assert.Equal(t, uint32(10)<<24|uint32(20)<<16|uint32(30)<<8|uint32(40), buf.RGBA32(1, 2))
	assert.Equal(t, uint32(0), buf.RGBA32(0, 0), "untouched pixels stay transparent black")
}

func TestRGBA32_OutOfBoundsIsZero(t *testing.T) {
	buf := New(2, 2)
	buf.Set(0, 0, 255, 255, 255, 255)

	assert.Equal(t, uint32(0), buf.RGBA32(-1, 0))
	assert.Equal(t, uint32(0), buf.RGBA32(0, 2))
	assert.Equal(t, uint8(0), buf.Alpha(5, 5))
}

func TestWriteRow_CopiesPixels(t *testing.T) {
	buf := New(3, 2)
	row := []uint8{1, 2, 3, 4, 5, 6, 7, 8}

	buf.WriteRow(1, 1, row)

	assert.Equal(t, uint32(1)<<24|uint32(2)<<16|uint32(3)<<8|uint32(4), buf.RGBA32(1, 1))
	assert.Equal(t, uint32(5)<<24|uint32(6)<<16|uint32(7)<<8|uint32(8), buf.RGBA32(2, 1))
}

func TestWriteRow_ClipsAtEdges(t *testing.T) {
	buf := New(2, 2)
	row := []uint8{1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3}

	// Only the first two pixels fit, the rest must be dropped.
	buf.WriteRow(0, 0, row)
	buf.WriteRow(0, 5, row)

	assert.NotEqual(t, uint32(0), buf.RGBA32(0, 0))
	assert.NotEqual(t, uint32(0), buf.RGBA32(1, 0))
	assert.Equal(t, uint32(0), buf.RGBA32(0, 1))
}

func TestCopyRect_WithinBuffer(t *testing.T) {
	buf := New(4, 4)
	buf.Set(0, 0, 9, 8, 7, 6)
	buf.Set(1, 0, 1, 2, 3, 4)

	buf.CopyRect(2, 2, 0, 0, 2, 1)

	assert.Equal(t, buf.RGBA32(0, 0), buf.RGBA32(2, 2))
	assert.Equal(t, buf.RGBA32(1, 0), buf.RGBA32(3, 2))
}

func TestCopyRect_ClipsOutOfBounds(t *testing.T) {
	buf := New(2, 2)
	buf.Set(0, 0, 5, 5, 5, 5)

	// Must not panic even when the region walks off the buffer.
	buf.CopyRect(1, 1, 0, 0, 4, 4)
	buf.CopyRect(-1, -1, 0, 0, 2, 2)

	assert.Equal(t, buf.RGBA32(0, 0), buf.RGBA32(1, 1))
}

func TestFromImage_RoundTrip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Pix[0], img.Pix[1], img.Pix[2], img.Pix[3] = 10, 20, 30, 255

	buf := FromImage(img)
	require.Equal(t, 3, buf.Width())
	require.Equal(t, 2, buf.Height())

	out := buf.ToImage()
	assert.Equal(t, img.Pix, out.Pix)
}

func TestBuffer_ImplementsImage(t *testing.T) {
	var _ image.Image = New(1, 1)

	buf := New(2, 3)
	assert.Equal(t, image.Rect(0, 0, 2, 3), buf.Bounds())
}
