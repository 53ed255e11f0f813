// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fonts derives structural roles from font-size statistics.
// Classify builds the style histogram of a document; TagSizes turns it into
// a size table mapping each font size to a paragraph, heading or subscript
// tag.
package fonts

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/pdiddy/resume2json/pkg/types"
)

// ErrNoFonts is returned when a document yields no style identifiers, for
// example an empty or image-only PDF.
var ErrNoFonts = errors.New("zero discriminating fonts found")

// Style is the representative style recorded for an identifier.
type Style struct {
	Size  float64
	Font  string
	Flags int
	Color int
}

// StyleCount is one histogram entry.
type StyleCount struct {
	ID    string
	Count int
}

// Histogram is the style usage of a document. Counts is sorted by count,
// highest first; entries with equal counts keep the order in which their
// identifier was first seen.
type Histogram struct {
	Counts []StyleCount
	Styles map[string]Style
}

// Total returns the number of spans counted.
func (h Histogram) Total() int {
	n := 0
	for _, c := range h.Counts {
		n += c.Count
	}
	return n
}

// Classify counts style usage over every span of doc. With granular set,
// size, flags, font and color all discriminate; otherwise size alone does.
// Whitespace-only spans are counted too.
func Classify(doc types.Document, granular bool) (Histogram, error) {
	h := Histogram{Styles: make(map[string]Style)}
	index := make(map[string]int)

	doc.EachSpan(func(s types.Span) {
		id := identifier(s, granular)
		if granular {
			h.Styles[id] = Style{Size: s.Size, Font: s.Font, Flags: s.Flags, Color: s.Color}
		} else {
			h.Styles[id] = Style{Size: s.Size, Font: s.Font}
		}
		if i, ok := index[id]; ok {
			h.Counts[i].Count++
			return
		}
		index[id] = len(h.Counts)
		h.Counts = append(h.Counts, StyleCount{ID: id, Count: 1})
	})

	if len(h.Counts) == 0 {
		return Histogram{}, ErrNoFonts
	}

	sort.SliceStable(h.Counts, func(i, j int) bool {
		return h.Counts[i].Count > h.Counts[j].Count
	})
	return h, nil
}

func identifier(s types.Span, granular bool) string {
	size := strconv.FormatFloat(s.Size, 'g', -1, 64)
	if !granular {
		return size
	}
	return fmt.Sprintf("%s_%d_%s_%d", size, s.Flags, s.Font, s.Color)
}
