package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/piwi3910/atlaspack/internal/pixel"
)

// Rect represents a rectangle in pixel coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewRect creates a rectangle from position and size.
func NewRect(x, y, width, height int) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Area returns the rectangle area in square pixels.
func (r Rect) Area() int {
	return r.Width * r.Height
}

// Right returns the exclusive right edge coordinate.
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom returns the exclusive bottom edge coordinate.
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Intersects reports whether two rectangles overlap (not just touch).
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.Width && r.X+r.Width > o.X &&
		r.Y < o.Y+o.Height && r.Y+r.Height > o.Y
}

// Contains reports whether o lies fully within r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y &&
		o.X+o.Width <= r.X+r.Width && o.Y+o.Height <= r.Y+r.Height
}

// Inflate returns the rectangle grown by n pixels on every side.
func (r Rect) Inflate(n int) Rect {
	return Rect{X: r.X - n, Y: r.Y - n, Width: r.Width + 2*n, Height: r.Height + 2*n}
}

// Entry describes where one added source image ended up in the packed output.
// Source is the placed rectangle on the page; Frame records the original
// (untrimmed) clip rectangle's offset and size relative to the trimmed one,
// so consumers can re-align trimmed sprites visually.
type Entry struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Page   int    `json:"page"`
	Source Rect   `json:"source"`
	Frame  Rect   `json:"frame"`
}

// PackResult holds the full output of a packing run: one pixel buffer per
// page plus one entry per added source (including duplicates and sources
// that trimmed away to nothing).
type PackResult struct {
	Pages   []*pixel.Buffer `json:"-"`
	Entries []Entry         `json:"entries"`
}

// PageEntries returns the entries placed on the given page.
func (pr PackResult) PageEntries(page int) []Entry {
	var entries []Entry
	for _, e := range pr.Entries {
		if e.Page == page {
			entries = append(entries, e)
		}
	}
	return entries
}

// UsedArea returns the total area covered by entries on the given page.
func (pr PackResult) UsedArea(page int) int {
	total := 0
	for _, e := range pr.Entries {
		if e.Page == page {
			total += e.Source.Area()
		}
	}
	return total
}

// TotalArea returns the pixel area of the given page, or 0 if out of range.
func (pr PackResult) TotalArea(page int) int {
	if page < 0 || page >= len(pr.Pages) {
		return 0
	}
	return pr.Pages[page].Width() * pr.Pages[page].Height()
}

// Occupancy returns the usage percentage of the given page.
func (pr PackResult) Occupancy(page int) float64 {
	ta := pr.TotalArea(page)
	if ta == 0 {
		return 0
	}
	return (float64(pr.UsedArea(page)) / float64(ta)) * 100.0
}

// TotalOccupancy returns the usage percentage across all pages.
func (pr PackResult) TotalOccupancy() float64 {
	var used, total int
	for page := range pr.Pages {
		used += pr.UsedArea(page)
		total += pr.TotalArea(page)
	}
	if total == 0 {
		return 0
	}
	return (float64(used) / float64(total)) * 100.0
}

// PackSettings holds the packing configuration, read at the start of each
// Pack call.
type PackSettings struct {
	Trim              bool `json:"trim"`               // Trim transparent borders from sources
	MaxSize           int  `json:"max_size"`           // Maximum page width/height in pixels
	Padding           int  `json:"padding"`            // Pixel gap reserved per placed rectangle
	DuplicateEdges    bool `json:"duplicate_edges"`    // Copy edge pixels into the padding gutter (needs Padding >= 2)
	PowerOfTwo        bool `json:"power_of_two"`       // Round page dimensions up to powers of two
	CombineDuplicates bool `json:"combine_duplicates"` // Deduplicate pixel-identical sources by content hash
}

func DefaultSettings() PackSettings {
	return PackSettings{
		Trim:              true,
		MaxSize:           8192,
		Padding:           1,
		DuplicateEdges:    false,
		PowerOfTwo:        false,
		CombineDuplicates: false,
	}
}

// PageInfo describes one written atlas page image.
type PageInfo struct {
	File   string `json:"file"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Atlas is the serializable manifest describing a packed atlas: the page
// images and the sprite entries that reference them.
type Atlas struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	CreatedAt string       `json:"created_at"`
	Settings  PackSettings `json:"settings"`
	Pages     []PageInfo   `json:"pages"`
	Sprites   []Entry      `json:"sprites"`
}

// NewAtlas creates an atlas manifest from a pack result and the page files
// it was written to.
func NewAtlas(name string, settings PackSettings, pages []PageInfo, sprites []Entry) Atlas {
	return Atlas{
		ID:        uuid.New().String()[:8],
		Name:      name,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Settings:  settings,
		Pages:     copyPages(pages),
		Sprites:   copySprites(sprites),
	}
}

// FindSprite returns a pointer to the first sprite with the given name, or nil.
func (a *Atlas) FindSprite(name string) *Entry {
	for i := range a.Sprites {
		if a.Sprites[i].Name == name {
			return &a.Sprites[i]
		}
	}
	return nil
}

// copyPages creates a copy of a page info slice.
func copyPages(pages []PageInfo) []PageInfo {
	if pages == nil {
		return []PageInfo{}
	}
	cp := make([]PageInfo, len(pages))
	copy(cp, pages)
	return cp
}

// copySprites creates a copy of an entry slice.
func copySprites(sprites []Entry) []Entry {
	if sprites == nil {
		return []Entry{}
	}
	cp := make([]Entry, len(sprites))
	copy(cp, sprites)
	return cp
}
