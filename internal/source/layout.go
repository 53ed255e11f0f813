// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/resume2json/pkg/types"
)

// Span flag bits.
const (
	FlagItalic = 1 << 1
	FlagBold   = 1 << 4
)

// Glyph is one positioned text run as reported by the PDF library. Y grows
// upward, as in PDF user space.
type Glyph struct {
	Text string
	Font string
	Size float64
	X, Y float64
	W    float64
}

type rawLine struct {
	y      float64
	size   float64
	glyphs []Glyph
}

// BuildPage groups glyphs, in content-stream order, into lines, spans and
// blocks. Glyphs whose baselines differ by at most LineTolerance×size share
// a line. A change of font or size starts a new span, and a horizontal gap
// wider than WordGap×size inserts a space. A line more than BlockGap×size
// below the previous one, or above it, starts a new block.
func BuildPage(glyphs []Glyph, cfg types.LayoutConfig) types.Page {
	cfg = withDefaults(cfg)

	var lines []rawLine
	for _, g := range glyphs {
		if g.Text == "" {
			continue
		}
		g.Size = roundSize(g.Size)
		if n := len(lines); n > 0 {
			cur := &lines[n-1]
			if math.Abs(g.Y-cur.y) <= cfg.LineTolerance*math.Max(g.Size, cur.size) {
				cur.glyphs = append(cur.glyphs, g)
				cur.size = math.Max(cur.size, g.Size)
				continue
			}
		}
		lines = append(lines, rawLine{y: g.Y, size: g.Size, glyphs: []Glyph{g}})
	}

	var page types.Page
	for i, l := range lines {
		if i == 0 || newBlock(lines[i-1], l, cfg) {
			page.Blocks = append(page.Blocks, types.Block{Type: types.BlockText})
		}
		b := &page.Blocks[len(page.Blocks)-1]
		b.Lines = append(b.Lines, types.Line{Spans: spans(l.glyphs, cfg)})
	}
	return page
}

func newBlock(prev, cur rawLine, cfg types.LayoutConfig) bool {
	drop := prev.y - cur.y
	return drop < 0 || drop > cfg.BlockGap*prev.size
}

func spans(glyphs []Glyph, cfg types.LayoutConfig) []types.Span {
	var out []types.Span
	var text strings.Builder
	var prev Glyph

	flush := func() {
		if text.Len() == 0 {
			return
		}
		font := baseFont(prev.Font)
		out = append(out, types.Span{
			Text:  norm.NFKC.String(text.String()),
			Size:  prev.Size,
			Font:  font,
			Flags: fontFlags(font),
		})
		text.Reset()
	}

	for i, g := range glyphs {
		if i > 0 && (g.Font != prev.Font || g.Size != prev.Size) {
			flush()
		} else if i > 0 && g.X-(prev.X+prev.W) > cfg.WordGap*g.Size &&
			!strings.HasSuffix(prev.Text, " ") && !strings.HasPrefix(g.Text, " ") {
			text.WriteByte(' ')
		}
		text.WriteString(g.Text)
		prev = g
	}
	flush()
	return out
}

func roundSize(size float64) float64 {
	return math.Round(size*100) / 100
}

// baseFont strips the six-letter subset prefix ("ABCDEF+") from a font name.
func baseFont(name string) string {
	if len(name) > 7 && name[6] == '+' {
		return name[7:]
	}
	return name
}

func fontFlags(font string) int {
	lower := strings.ToLower(font)
	flags := 0
	if strings.Contains(lower, "bold") || strings.Contains(lower, "black") || strings.Contains(lower, "heavy") {
		flags |= FlagBold
	}
	if strings.Contains(lower, "italic") || strings.Contains(lower, "oblique") {
		flags |= FlagItalic
	}
	return flags
}
