// Package pixel provides a minimal RGBA8 pixel buffer used as the image
// representation for atlas packing. Pixels are stored row-major, 4 bytes per
// pixel (R, G, B, A).
package pixel

import (
	"image"
	"image/color"
)

// Buffer represents a rectangular RGBA8 pixel buffer.
type Buffer struct {
	width  int
	height int
	pix    []uint8
}

// New creates a new buffer with the given dimensions, filled with
// transparent black. Negative dimensions are clamped to zero.
func New(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Buffer{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*4),
	}
}

// FromPixels creates a buffer from a flat RGBA array. The data is copied.
// If the slice is shorter than width*height*4 the remainder is transparent.
func FromPixels(width, height int, pix []uint8) *Buffer {
	b := New(width, height)
	copy(b.pix, pix)
	return b
}

// FromImage creates a buffer from any image.Image.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	b := New(bounds.Dx(), bounds.Dy())
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			r, g, bl, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			i := (y*b.width + x) * 4
			b.pix[i+0] = uint8(r >> 8)
			b.pix[i+1] = uint8(g >> 8)
			b.pix[i+2] = uint8(bl >> 8)
			b.pix[i+3] = uint8(a >> 8)
		}
	}
	return b
}

// Width returns the width of the buffer in pixels.
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the height of the buffer in pixels.
func (b *Buffer) Height() int {
	return b.height
}

// Pix returns the raw pixel data (RGBA, row-major).
func (b *Buffer) Pix() []uint8 {
	return b.pix
}

// Alpha returns the alpha component of the pixel at x, y.
// Out-of-bounds coordinates return 0.
func (b *Buffer) Alpha(x, y int) uint8 {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return 0
	}
	return b.pix[(y*b.width+x)*4+3]
}

// RGBA32 returns the pixel at x, y packed into a single value as
// R<<24 | G<<16 | B<<8 | A. Out-of-bounds coordinates return 0.
func (b *Buffer) RGBA32(x, y int) uint32 {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return 0
	}
	i := (y*b.width + x) * 4
	return uint32(b.pix[i])<<24 | uint32(b.pix[i+1])<<16 | uint32(b.pix[i+2])<<8 | uint32(b.pix[i+3])
}

// Set sets a single pixel. Out-of-bounds coordinates are ignored.
func (b *Buffer) Set(x, y int, r, g, bl, a uint8) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	i := (y*b.width + x) * 4
	b.pix[i+0] = r
	b.pix[i+1] = g
	b.pix[i+2] = bl
	b.pix[i+3] = a
}

// WriteRow copies a run of RGBA pixel data into the buffer starting at x, y.
// Data that falls outside the buffer is discarded.
func (b *Buffer) WriteRow(x, y int, rgba []uint8) {
	if y < 0 || y >= b.height {
		return
	}
	n := len(rgba) / 4
	if x < 0 {
		rgba = rgba[-x*4:]
		n += x
		x = 0
	}
	if n > b.width-x {
		n = b.width - x
	}
	if n <= 0 {
		return
	}
	copy(b.pix[(y*b.width+x)*4:], rgba[:n*4])
}

// CopyRect copies a rectangular region of the buffer onto itself.
// The copy is clipped to the buffer bounds; source and destination must not
// overlap row-by-row.
func (b *Buffer) CopyRect(dstX, dstY, srcX, srcY, width, height int) {
	for row := 0; row < height; row++ {
		sy := srcY + row
		dy := dstY + row
		for col := 0; col < width; col++ {
			sx := srcX + col
			dx := dstX + col
			if sx < 0 || sx >= b.width || sy < 0 || sy >= b.height {
				continue
			}
			if dx < 0 || dx >= b.width || dy < 0 || dy >= b.height {
				continue
			}
			si := (sy*b.width + sx) * 4
			di := (dy*b.width + dx) * 4
			copy(b.pix[di:di+4], b.pix[si:si+4])
		}
	}
}

// ToImage converts the buffer to an image.RGBA.
func (b *Buffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	copy(img.Pix, b.pix)
	return img
}

// At implements the image.Image interface.
func (b *Buffer) At(x, y int) color.Color {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return color.RGBA{}
	}
	i := (y*b.width + x) * 4
	return color.RGBA{R: b.pix[i], G: b.pix[i+1], B: b.pix[i+2], A: b.pix[i+3]}
}

// Bounds implements the image.Image interface.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// ColorModel implements the image.Image interface.
func (b *Buffer) ColorModel() color.Model {
	return color.RGBAModel
}
