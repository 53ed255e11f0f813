// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fonts

import (
	"fmt"
	"sort"
)

// Tags used to mark a tagged line's role.
const (
	TagParagraph = "<p>"
	headingFmt   = "<h%d>"
	subscriptFmt = "<s%d>"
)

// SizeTable maps every font size of a document to its tag.
type SizeTable struct {
	// Paragraph is the size of the most used style.
	Paragraph float64
	Tags      map[float64]string
}

// Tag returns the tag of size.
func (t SizeTable) Tag(size float64) (string, bool) {
	tag, ok := t.Tags[size]
	return tag, ok
}

// Sizes returns the tabled sizes, largest first.
func (t SizeTable) Sizes() []float64 {
	sizes := make([]float64, 0, len(t.Tags))
	for s := range t.Tags {
		sizes = append(sizes, s)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))
	return sizes
}

// TagSizes assigns a tag to every distinct size in h. The size of the first
// histogram entry becomes <p>. Walking the sizes from largest to smallest
// with a counter that restarts at the paragraph size, larger sizes get
// <h1>, <h2>, ... and smaller sizes get <s1>, <s2>, ... so <h1> is the
// largest size and <s1> the one just below the paragraph.
func TagSizes(h Histogram) (SizeTable, error) {
	if len(h.Counts) == 0 {
		return SizeTable{}, ErrNoFonts
	}
	p, ok := h.Styles[h.Counts[0].ID]
	if !ok {
		return SizeTable{}, fmt.Errorf("no style recorded for %q", h.Counts[0].ID)
	}

	seen := make(map[float64]bool)
	var sizes []float64
	for _, c := range h.Counts {
		st, ok := h.Styles[c.ID]
		if !ok {
			return SizeTable{}, fmt.Errorf("no style recorded for %q", c.ID)
		}
		if !seen[st.Size] {
			seen[st.Size] = true
			sizes = append(sizes, st.Size)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))

	table := SizeTable{Paragraph: p.Size, Tags: make(map[float64]string, len(sizes))}
	idx := 0
	for _, size := range sizes {
		idx++
		switch {
		case size == p.Size:
			idx = 0
			table.Tags[size] = TagParagraph
		case size > p.Size:
			table.Tags[size] = fmt.Sprintf(headingFmt, idx)
		default:
			table.Tags[size] = fmt.Sprintf(subscriptFmt, idx)
		}
	}
	return table, nil
}
