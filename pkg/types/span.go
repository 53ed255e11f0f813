// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// BlockType classifies a block returned by the span source.
type BlockType int

const (
	// BlockText is a block that carries text lines.
	BlockText BlockType = 0
	// BlockImage is a non-text block; the pipeline skips it.
	BlockImage BlockType = 1
)

// Span is the smallest run of uniformly styled text on a page.
type Span struct {
	Text  string  `json:"text" yaml:"text"`
	Size  float64 `json:"size" yaml:"size"`
	Font  string  `json:"font" yaml:"font"`
	Flags int     `json:"flags" yaml:"flags"`
	Color int     `json:"color" yaml:"color"`
}

// Line is a sequence of spans sharing one baseline, in reading order.
type Line struct {
	Spans []Span `json:"spans" yaml:"spans"`
}

// Block is a vertically contiguous group of lines.
type Block struct {
	Type  BlockType `json:"type" yaml:"type"`
	Lines []Line    `json:"lines" yaml:"lines"`
}

// Page holds the blocks of one PDF page in reading order.
type Page struct {
	Blocks []Block `json:"blocks" yaml:"blocks"`
}

// Document is the materialized span structure of a whole PDF.
type Document struct {
	Pages []Page `json:"pages" yaml:"pages"`
}

// EachSpan calls fn for every span of every text block, in document order.
func (d Document) EachSpan(fn func(Span)) {
	for _, p := range d.Pages {
		for _, b := range p.Blocks {
			if b.Type != BlockText {
				continue
			}
			for _, l := range b.Lines {
				for _, s := range l.Spans {
					fn(s)
				}
			}
		}
	}
}
