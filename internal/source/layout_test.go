// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/resume2json/pkg/types"
)

func word(text, font string, size, x, y float64) Glyph {
	return Glyph{Text: text, Font: font, Size: size, X: x, Y: y, W: float64(len(text)) * size * 0.5}
}

func texts(l types.Line) []string {
	var out []string
	for _, s := range l.Spans {
		out = append(out, s.Text)
	}
	return out
}

func TestBuildPage_Empty(t *testing.T) {
	page := BuildPage(nil, types.LayoutConfig{})
	assert.Empty(t, page.Blocks)
}

func TestBuildPage_LinesAndSpans(t *testing.T) {
	glyphs := []Glyph{
		word("Jane", "ABCDEF+Helvetica-Bold", 20, 72, 720),
		word("Doe", "ABCDEF+Helvetica-Bold", 20, 125, 720),
		word("555", "Helvetica", 10, 72, 700),
		word("|", "Helvetica", 10, 90, 700.5),
		word("x@y.z", "Helvetica", 10, 100, 700),
	}
	page := BuildPage(glyphs, types.DefaultLayoutConfig())

	require.Len(t, page.Blocks, 1)
	b := page.Blocks[0]
	assert.Equal(t, types.BlockText, b.Type)
	require.Len(t, b.Lines, 2)

	require.Len(t, b.Lines[0].Spans, 1)
	name := b.Lines[0].Spans[0]
	assert.Equal(t, "Jane Doe", name.Text)
	assert.Equal(t, "Helvetica-Bold", name.Font)
	assert.Equal(t, 20.0, name.Size)
	assert.Equal(t, FlagBold, name.Flags)

	assert.Equal(t, []string{"555 | x@y.z"}, texts(b.Lines[1]))
}

func TestBuildPage_FontChangeSplitsSpan(t *testing.T) {
	glyphs := []Glyph{
		word("Languages:", "Times-Bold", 10, 72, 500),
		word(" Go", "Times-Roman", 10, 122, 500),
		word(" |", "Times-Roman", 10, 140, 500),
	}
	page := BuildPage(glyphs, types.LayoutConfig{})
	require.Len(t, page.Blocks, 1)
	require.Len(t, page.Blocks[0].Lines, 1)
	assert.Equal(t, []string{"Languages:", " Go |"}, texts(page.Blocks[0].Lines[0]))
}

func TestBuildPage_BlockGap(t *testing.T) {
	glyphs := []Glyph{
		word("Education", "Helvetica", 16, 72, 600),
		word("First", "Helvetica", 10, 72, 580),
		word("Second", "Helvetica", 10, 72, 568),
		word("Experience", "Helvetica", 16, 72, 500),
	}
	page := BuildPage(glyphs, types.DefaultLayoutConfig())
	require.Len(t, page.Blocks, 2)
	assert.Len(t, page.Blocks[0].Lines, 3)
	assert.Len(t, page.Blocks[1].Lines, 1)
}

func TestBuildPage_UpwardMoveStartsBlock(t *testing.T) {
	glyphs := []Glyph{
		word("left", "Helvetica", 10, 72, 500),
		word("right", "Helvetica", 10, 300, 700),
	}
	page := BuildPage(glyphs, types.DefaultLayoutConfig())
	assert.Len(t, page.Blocks, 2)
}

func TestBuildPage_RoundsSizesAndNormalizes(t *testing.T) {
	glyphs := []Glyph{
		{Text: "ﬁle", Font: "Arial-ItalicMT", Size: 10.004, X: 72, Y: 500, W: 15},
	}
	page := BuildPage(glyphs, types.LayoutConfig{})
	require.Len(t, page.Blocks, 1)
	span := page.Blocks[0].Lines[0].Spans[0]
	assert.Equal(t, "file", span.Text)
	assert.Equal(t, 10.0, span.Size)
	assert.Equal(t, FlagItalic, span.Flags)
}

func TestBuildPage_SkipsEmptyGlyphs(t *testing.T) {
	glyphs := []Glyph{
		word("", "Helvetica", 10, 72, 500),
		word("a", "Helvetica", 10, 72, 500),
	}
	page := BuildPage(glyphs, types.LayoutConfig{})
	require.Len(t, page.Blocks, 1)
	assert.Equal(t, []string{"a"}, texts(page.Blocks[0].Lines[0]))
}

func TestFontFlags(t *testing.T) {
	tests := []struct {
		font string
		want int
	}{
		{"Helvetica", 0},
		{"Helvetica-Bold", FlagBold},
		{"Helvetica-BoldOblique", FlagBold | FlagItalic},
		{"Lato-Black", FlagBold},
		{"Georgia-Italic", FlagItalic},
	}
	for _, tt := range tests {
		t.Run(tt.font, func(t *testing.T) {
			assert.Equal(t, tt.want, fontFlags(tt.font))
		})
	}
}

func TestBaseFont(t *testing.T) {
	assert.Equal(t, "Helvetica", baseFont("QWERTY+Helvetica"))
	assert.Equal(t, "Helvetica", baseFont("Helvetica"))
	assert.Equal(t, "Short+", baseFont("Short+"))
}

func TestWithDefaults(t *testing.T) {
	cfg := withDefaults(types.LayoutConfig{WordGap: 0.5})
	def := types.DefaultLayoutConfig()
	assert.Equal(t, def.LineTolerance, cfg.LineTolerance)
	assert.Equal(t, 0.5, cfg.WordGap)
	assert.Equal(t, def.BlockGap, cfg.BlockGap)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := NewPDF(types.LayoutConfig{}).Load(filepath.Join(t.TempDir(), "absent.pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))
	_, err := NewPDF(types.LayoutConfig{}).Load(path)
	assert.Error(t, err)
}
