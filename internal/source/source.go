// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source reads a PDF's text layer and rebuilds the block, line and
// span structure the structuring pipeline consumes.
//
// Uses github.com/ledongthuc/pdf for parsing. The library reports positioned
// glyph runs; lines, spans and blocks are recovered from their geometry.
// Scanned (image-only) PDFs have no text layer and yield an empty document.
package source

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/resume2json/pkg/types"
)

// PDF loads documents from PDF files.
type PDF struct {
	Layout types.LayoutConfig
}

// NewPDF returns a PDF source using cfg, with zero thresholds replaced by
// their defaults.
func NewPDF(cfg types.LayoutConfig) *PDF {
	return &PDF{Layout: withDefaults(cfg)}
}

// Load opens the PDF at path and returns its span structure.
func (s *PDF) Load(path string) (types.Document, error) {
	if _, err := os.Stat(path); err != nil {
		return types.Document{}, err
	}
	f, r, err := pdf.Open(path)
	if err != nil {
		return types.Document{}, fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var doc types.Document
	for i := 1; i <= r.NumPage(); i++ {
		glyphs, err := readPage(r, i)
		if err != nil {
			return types.Document{}, fmt.Errorf("%s: %w", path, err)
		}
		doc.Pages = append(doc.Pages, BuildPage(glyphs, s.Layout))
	}
	return doc, nil
}

// readPage returns the glyph runs of page n. The PDF library panics on some
// malformed content streams; those panics are returned as errors.
func readPage(r *pdf.Reader, n int) (glyphs []Glyph, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("reading page %d: %v", n, rec)
		}
	}()

	p := r.Page(n)
	if p.V.IsNull() {
		return nil, nil
	}
	for _, t := range p.Content().Text {
		glyphs = append(glyphs, Glyph{
			Text: t.S,
			Font: t.Font,
			Size: t.FontSize,
			X:    t.X,
			Y:    t.Y,
			W:    t.W,
		})
	}
	return glyphs, nil
}

func withDefaults(cfg types.LayoutConfig) types.LayoutConfig {
	def := types.DefaultLayoutConfig()
	if cfg.LineTolerance <= 0 {
		cfg.LineTolerance = def.LineTolerance
	}
	if cfg.WordGap <= 0 {
		cfg.WordGap = def.WordGap
	}
	if cfg.BlockGap <= 0 {
		cfg.BlockGap = def.BlockGap
	}
	return cfg
}
