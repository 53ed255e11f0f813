// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"

	"github.com/pdiddy/resume2json/internal/assemble"
	"github.com/pdiddy/resume2json/internal/fonts"
	"github.com/pdiddy/resume2json/internal/logger"
	"github.com/pdiddy/resume2json/internal/schema"
	"github.com/pdiddy/resume2json/internal/segment"
	"github.com/pdiddy/resume2json/pkg/types"
)

// SpanSource loads the span structure of a document file.
type SpanSource interface {
	Load(path string) (types.Document, error)
}

// Parsed holds every intermediate product of one pipeline run.
type Parsed struct {
	Histogram fonts.Histogram
	Sizes     fonts.SizeTable
	Lines     []string
	Groups    []segment.Group
	Result    schema.Result
}

// Parser runs the structuring pipeline: classify, tag, assemble, segment,
// extract. A Parser holds no per-document state and is safe for
// concurrent use.
type Parser struct {
	source    SpanSource
	extractor *schema.Extractor
	granular  bool
}

// NewParser builds a parser reading documents from src. Extraction rules
// come from cfg.RulesFile when set, DefaultRules otherwise.
func NewParser(src SpanSource, cfg types.ParseConfig) (*Parser, error) {
	rules := schema.DefaultRules()
	if cfg.RulesFile != "" {
		var err error
		if rules, err = schema.LoadRules(cfg.RulesFile); err != nil {
			return nil, err
		}
	}
	ex, err := schema.NewExtractor(rules, schema.WithStrict(cfg.Strict))
	if err != nil {
		return nil, err
	}
	return &Parser{source: src, extractor: ex, granular: cfg.Granular}, nil
}

// Parse runs the pipeline over an already loaded document.
func (p *Parser) Parse(doc types.Document) (Parsed, error) {
	var out Parsed
	var err error

	if out.Histogram, err = fonts.Classify(doc, p.granular); err != nil {
		return Parsed{}, err
	}
	if out.Sizes, err = fonts.TagSizes(out.Histogram); err != nil {
		return Parsed{}, err
	}
	logger.Debug().
		Int("styles", len(out.Histogram.Counts)).
		Float64("paragraph_size", out.Sizes.Paragraph).
		Msg("classified fonts")

	if out.Lines, err = assemble.Assemble(doc, out.Sizes); err != nil {
		return Parsed{}, err
	}
	out.Groups = segment.Segment(out.Lines)
	logger.Debug().
		Int("lines", len(out.Lines)).
		Int("groups", len(out.Groups)).
		Msg("segmented document")

	if out.Result, err = p.extractor.Extract(out.Groups); err != nil {
		return Parsed{}, err
	}
	return out, nil
}

// ParseFile loads path from the span source and parses it.
func (p *Parser) ParseFile(path string) (Parsed, error) {
	doc, err := p.source.Load(path)
	if err != nil {
		return Parsed{}, err
	}
	out, err := p.Parse(doc)
	if err != nil {
		return Parsed{}, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// Convert implements Converter. Faults of the groups skipped in lenient mode
// are logged as warnings.
func (p *Parser) Convert(pdfPath string) (types.Record, error) {
	out, err := p.ParseFile(pdfPath)
	if err != nil {
		return types.Record{}, err
	}
	for _, f := range out.Result.Faults {
		logger.Warn().
			Str("file", pdfPath).
			Int("group", f.Group).
			Str("heading", f.Heading).
			Msg(f.Reason)
	}
	return out.Result.Record, nil
}
