// Package packer implements a growing-shelf rectangle packer for building
// texture atlases. Source images are registered with Add, optionally trimmed
// of transparent borders and deduplicated by content hash, then Pack places
// them onto one or more fixed-maximum-size pages.
package packer

import (
	"fmt"

	"github.com/piwi3910/atlaspack/internal/model"
	"github.com/piwi3910/atlaspack/internal/pixel"
)

// SizeError is returned from Pack when a single source's trimmed dimensions
// exceed the configured maximum page size in either axis. The caller must
// either raise MaxSize or remove the offending source; Pack produces no
// pages when this occurs.
type SizeError struct {
	Name    string
	Width   int
	Height  int
	MaxSize int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("source %q is %dx%d, which exceeds the maximum page size %d",
		e.Name, e.Width, e.Height, e.MaxSize)
}

// source tracks one registered image between Add and Pack.
type source struct {
	index        int
	name         string
	hash         int
	hashed       bool
	packed       model.Rect
	frame        model.Rect
	bufferOffset int
	bufferLength int
	duplicateOf  int // index of the pixel-identical earlier source, -1 if none
}

// empty reports whether the trimmed region collapsed to nothing.
func (s *source) empty() bool {
	return s.packed.Width <= 0 || s.packed.Height <= 0
}

// Packer collects named source images and packs them into atlas pages.
//
// A Packer is single-threaded and non-reentrant: all Add calls must complete
// before Pack, and neither may run concurrently on the same instance.
// Separate instances are fully independent. Pack re-sorts the internal
// source list as a side effect, so page layout order is not guaranteed to
// be identical across repeated Pack calls on the same instance.
type Packer struct {
	// Settings is read at the start of each Pack call.
	Settings model.PackSettings

	sources []source
	pixels  []uint8 // trimmed pixel data of all non-duplicate sources, contiguous
}

// New creates a packer with the given settings.
func New(settings model.PackSettings) *Packer {
	return &Packer{Settings: settings}
}

// Count returns the number of sources added since construction or the last
// Clear.
func (p *Packer) Count() int {
	return len(p.sources)
}

// Clear resets the source list and pixel storage. Indices returned by
// earlier Add calls are invalidated for future Pack calls.
func (p *Packer) Clear() {
	p.sources = p.sources[:0]
	p.pixels = p.pixels[:0]
}

// Add registers a whole buffer as a source image and returns its index.
func (p *Packer) Add(name string, buf *pixel.Buffer) int {
	return p.add(len(p.sources), name, buf, model.NewRect(0, 0, buf.Width(), buf.Height()))
}

// AddRect registers a sub-rectangle of a buffer as a source image and
// returns its index.
func (p *Packer) AddRect(name string, buf *pixel.Buffer, clip model.Rect) int {
	return p.add(len(p.sources), name, buf, clip)
}

// AddPixels registers a source image from a flat RGBA array and returns its
// index.
func (p *Packer) AddPixels(name string, width, height int, pix []uint8) int {
	buf := pixel.FromPixels(width, height, pix)
	return p.add(len(p.sources), name, buf, model.NewRect(0, 0, width, height))
}

// AddIndexed registers a source image under a caller-supplied index. This
// lets callers preserve their own numbering scheme, for example when
// re-adding sprites from an existing atlas manifest. The index is not
// required to be unique; duplicate resolution matches the first entry found.
func (p *Packer) AddIndexed(index int, name string, buf *pixel.Buffer, clip model.Rect) int {
	return p.add(index, name, buf, clip)
}

func (p *Packer) add(index int, name string, buf *pixel.Buffer, clip model.Rect) int {
	s := source{
		index:       index,
		name:        name,
		duplicateOf: -1,
	}

	// Clamp the clip window to the buffer. A malformed (negative-size)
	// clip collapses here and is recorded as an empty source.
	left := clip.X
	top := clip.Y
	right := clip.Right()
	bottom := clip.Bottom()
	if left < 0 {
		left = 0
	}
	if top < 0 {
		top = 0
	}
	if right > buf.Width() {
		right = buf.Width()
	}
	if bottom > buf.Height() {
		bottom = buf.Height()
	}

	if p.Settings.Trim && right > left && bottom > top {
		left, top, right, bottom = trimBounds(buf, left, top, right, bottom)
	}

	if right <= left || bottom <= top {
		// Fully transparent or degenerate: keep the entry but pack nothing.
		s.frame = model.NewRect(0, 0, clip.Width, clip.Height)
		p.sources = append(p.sources, s)
		return index
	}

	s.packed = model.NewRect(0, 0, right-left, bottom-top)
	s.frame = model.NewRect(clip.X-left, clip.Y-top, clip.Width, clip.Height)

	if p.Settings.CombineDuplicates {
		s.hash = hashRegion(buf, left, top, right, bottom)
		s.hashed = true
		for i := range p.sources {
			prev := &p.sources[i]
			if prev.hashed && prev.duplicateOf < 0 && prev.hash == s.hash {
				s.duplicateOf = prev.index
				break
			}
		}
		if s.duplicateOf >= 0 {
			// Duplicates reuse the original's placement and store no pixels.
			p.sources = append(p.sources, s)
			return index
		}
	}

	s.bufferOffset = len(p.pixels)
	s.bufferLength = s.packed.Width * s.packed.Height * 4
	p.grow(s.bufferLength)
	pix := buf.Pix()
	stride := buf.Width() * 4
	for y := top; y < bottom; y++ {
		row := pix[y*stride+left*4 : y*stride+right*4]
		p.pixels = append(p.pixels, row...)
	}

	p.sources = append(p.sources, s)
	return index
}

// grow ensures the shared pixel buffer has capacity for n more bytes,
// doubling the backing array as needed.
func (p *Packer) grow(n int) {
	need := len(p.pixels) + n
	if need <= cap(p.pixels) {
		return
	}
	size := cap(p.pixels)
	if size == 0 {
		size = 1024
	}
	for size < need {
		size *= 2
	}
	grown := make([]uint8, len(p.pixels), size)
	copy(grown, p.pixels)
	p.pixels = grown
}

// trimBounds scans inward from each edge of the window for the first
// row/column containing a pixel with non-zero alpha, returning the tight
// bounding box. If no such pixel exists the returned box is degenerate.
func trimBounds(buf *pixel.Buffer, left, top, right, bottom int) (int, int, int, int) {
	t := -1
	for y := top; y < bottom && t < 0; y++ {
		for x := left; x < right; x++ {
			if buf.Alpha(x, y) > 0 {
				t = y
				break
			}
		}
	}
	if t < 0 {
		return left, top, left, top
	}

	b := bottom
	for y := bottom - 1; y >= t; y-- {
		found := false
		for x := left; x < right; x++ {
			if buf.Alpha(x, y) > 0 {
				found = true
				break
			}
		}
		if found {
			b = y + 1
			break
		}
	}

	l := left
	for x := left; x < right; x++ {
		found := false
		for y := t; y < b; y++ {
			if buf.Alpha(x, y) > 0 {
				found = true
				break
			}
		}
		if found {
			l = x
			break
		}
	}

	r := right
	for x := right - 1; x >= l; x-- {
		found := false
		for y := t; y < b; y++ {
			if buf.Alpha(x, y) > 0 {
				found = true
				break
			}
		}
		if found {
			r = x + 1
			break
		}
	}

	return l, t, r, b
}

// hashRegion computes a polynomial content hash over the trimmed pixel
// region, columns outer and rows inner. Identical pixel content in identical
// dimensions always yields an identical hash; collisions between different
// images are not verified (see CombineDuplicates).
func hashRegion(buf *pixel.Buffer, left, top, right, bottom int) int {
	h := 0
	for x := left; x < right; x++ {
		for y := top; y < bottom; y++ {
			h = h*31 + int(buf.RGBA32(x, y))
		}
	}
	return h
}
