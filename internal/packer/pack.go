package packer

import (
	"sort"

	"github.com/piwi3910/atlaspack/internal/model"
	"github.com/piwi3910/atlaspack/internal/pixel"
)

// node is one rectangle of free or used space in the packing tree.
// Children are arena indices rather than pointers; -1 means absent.
type node struct {
	used        bool
	x, y, w, h  int
	right, down int32
}

// nodeArena backs the packing tree with a flat, reusable slice.
type nodeArena struct {
	nodes []node
}

func (a *nodeArena) reset() {
	a.nodes = a.nodes[:0]
}

func (a *nodeArena) alloc(x, y, w, h int) int32 {
	a.nodes = append(a.nodes, node{x: x, y: y, w: w, h: h, right: -1, down: -1})
	return int32(len(a.nodes) - 1)
}

// find returns the first unused node large enough to hold w x h, searching
// pre-order with the right subtree before the down subtree. The search order
// determines the final layout; do not reorder.
func (a *nodeArena) find(idx int32, w, h int) int32 {
	if idx < 0 {
		return -1
	}
	n := &a.nodes[idx]
	if n.used {
		if found := a.find(n.right, w, h); found >= 0 {
			return found
		}
		return a.find(n.down, w, h)
	}
	if w <= n.w && h <= n.h {
		return idx
	}
	return -1
}

// split marks a node used by a w x h placement and carves the remaining
// space into a down child and a right child.
func (a *nodeArena) split(idx int32, w, h int) {
	down := a.alloc(a.nodes[idx].x, a.nodes[idx].y+h, a.nodes[idx].w, a.nodes[idx].h-h)
	right := a.alloc(a.nodes[idx].x+w, a.nodes[idx].y, a.nodes[idx].w-w, h)
	n := &a.nodes[idx]
	n.used = true
	n.down = down
	n.right = right
}

// growRight widens the tree by w, returning the new root and the fresh node
// covering the added strip.
func (a *nodeArena) growRight(root int32, w int) (int32, int32) {
	old := a.nodes[root]
	strip := a.alloc(old.w, 0, w, old.h)
	newRoot := a.alloc(0, 0, old.w+w, old.h)
	n := &a.nodes[newRoot]
	n.used = true
	n.down = root
	n.right = strip
	return newRoot, strip
}

// growDown is the symmetric case: the tree gains h of height below.
func (a *nodeArena) growDown(root int32, h int) (int32, int32) {
	old := a.nodes[root]
	strip := a.alloc(0, old.h, old.w, h)
	newRoot := a.alloc(0, 0, old.w, old.h+h)
	n := &a.nodes[newRoot]
	n.used = true
	n.right = root
	n.down = strip
	return newRoot, strip
}

// Pack places all registered sources onto pages and returns the resulting
// page buffers and entries. Sources that trimmed away to nothing are
// recorded at a page index one past the last real page; duplicate sources
// reuse their original's placement. A *SizeError is returned, and no pages
// are built, if any source is larger than Settings.MaxSize in either axis.
func (p *Packer) Pack() (model.PackResult, error) {
	if len(p.sources) == 0 {
		return model.PackResult{}, nil
	}

	maxSize := p.Settings.MaxSize
	if maxSize <= 0 {
		maxSize = model.DefaultSettings().MaxSize
	}
	padding := p.Settings.Padding
	if padding < 0 {
		padding = 0
	}

	for i := range p.sources {
		s := &p.sources[i]
		if s.duplicateOf < 0 && !s.empty() &&
			(s.packed.Width > maxSize || s.packed.Height > maxSize) {
			return model.PackResult{}, &SizeError{
				Name:    s.name,
				Width:   s.packed.Width,
				Height:  s.packed.Height,
				MaxSize: maxSize,
			}
		}
	}

	// One global sort by trimmed area, largest first. Stability preserves
	// insertion order for equal areas.
	sort.SliceStable(p.sources, func(i, j int) bool {
		return p.sources[i].packed.Area() > p.sources[j].packed.Area()
	})

	var placeable []int
	for i := range p.sources {
		s := &p.sources[i]
		if !s.empty() && s.duplicateOf < 0 {
			placeable = append(placeable, i)
		}
	}

	result := model.PackResult{}
	var arena nodeArena
	i := 0
	for i < len(placeable) {
		arena.reset()
		first := &p.sources[placeable[i]]
		root := arena.alloc(0, 0, first.packed.Width+padding, first.packed.Height+padding)

		var placed []int
		for i < len(placeable) {
			s := &p.sources[placeable[i]]
			w := s.packed.Width + padding
			h := s.packed.Height + padding

			target := arena.find(root, w, h)
			if target < 0 {
				rootW := arena.nodes[root].w
				rootH := arena.nodes[root].h
				canGrowRight := h <= rootH && rootW+w <= maxSize
				canGrowDown := w <= rootW && rootH+h <= maxSize
				shouldGrowRight := canGrowRight && rootH >= rootW+w
				shouldGrowDown := canGrowDown && rootW >= rootH+h

				switch {
				case shouldGrowRight || (canGrowRight && !shouldGrowDown):
					root, target = arena.growRight(root, w)
				case shouldGrowDown || canGrowDown:
					root, target = arena.growDown(root, h)
				}
				if target < 0 {
					// Page can hold no more; remaining sources start a new one.
					break
				}
			}

			arena.split(target, w, h)
			s.packed.X = arena.nodes[target].x + padding/2
			s.packed.Y = arena.nodes[target].y + padding/2
			placed = append(placed, placeable[i])
			i++
		}

		pageW := arena.nodes[root].w
		pageH := arena.nodes[root].h
		if p.Settings.PowerOfTwo {
			pageW = nextPowerOfTwo(pageW)
			pageH = nextPowerOfTwo(pageH)
		}

		page := pixel.New(pageW, pageH)
		pageIndex := len(result.Pages)
		for _, si := range placed {
			s := &p.sources[si]
			p.blitSource(page, s)
			if p.Settings.DuplicateEdges && padding >= 2 {
				duplicateEdges(page, s.packed)
			}
			result.Entries = append(result.Entries, model.Entry{
				Index:  s.index,
				Name:   s.name,
				Page:   pageIndex,
				Source: s.packed,
				Frame:  s.frame,
			})
		}
		result.Pages = append(result.Pages, page)
	}

	// Empty sources land on an implicit page one past the last real one.
	for idx := range p.sources {
		s := &p.sources[idx]
		if s.duplicateOf < 0 && s.empty() {
			result.Entries = append(result.Entries, model.Entry{
				Index:  s.index,
				Name:   s.name,
				Page:   len(result.Pages),
				Source: s.packed,
				Frame:  s.frame,
			})
		}
	}

	// Duplicates reuse the original's page and rectangle but keep their own
	// frame, which records their own clip offset.
	if p.Settings.CombineDuplicates {
		resolved := len(result.Entries)
		for idx := range p.sources {
			s := &p.sources[idx]
			if s.duplicateOf < 0 {
				continue
			}
			for j := 0; j < resolved; j++ {
				if result.Entries[j].Index == s.duplicateOf {
					result.Entries = append(result.Entries, model.Entry{
						Index:  s.index,
						Name:   s.name,
						Page:   result.Entries[j].Page,
						Source: result.Entries[j].Source,
						Frame:  s.frame,
					})
					break
				}
			}
		}
	}

	return result, nil
}

// blitSource copies a source's trimmed pixel rows from the shared buffer
// onto the page at its placed rectangle.
func (p *Packer) blitSource(page *pixel.Buffer, s *source) {
	rowLen := s.packed.Width * 4
	for row := 0; row < s.packed.Height; row++ {
		offset := s.bufferOffset + row*rowLen
		page.WriteRow(s.packed.X, s.packed.Y+row, p.pixels[offset:offset+rowLen])
	}
}

// duplicateEdges copies a placed rectangle's outermost pixels into the
// adjacent 1-pixel padding gutter so bilinear filtering does not bleed
// neighboring sprites in. Columns first, then rows extended by one pixel on
// each side so the corners are covered.
func duplicateEdges(page *pixel.Buffer, r model.Rect) {
	page.CopyRect(r.X-1, r.Y, r.X, r.Y, 1, r.Height)
	page.CopyRect(r.Right(), r.Y, r.Right()-1, r.Y, 1, r.Height)
	page.CopyRect(r.X-1, r.Y-1, r.X-1, r.Y, r.Width+2, 1)
	page.CopyRect(r.X-1, r.Bottom(), r.X-1, r.Bottom()-1, r.Width+2, 1)
}

// nextPowerOfTwo returns the smallest power of two >= n.
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	v := 1
	for v < n {
		v <<= 1
	}
	return v
}
