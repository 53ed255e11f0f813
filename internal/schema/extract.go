// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schema maps heading-scoped groups of tagged lines into a resume
// record. What each group means is decided by Rules: the identity group has
// a declared line shape, and every section heading is read either as
// key/value pairs or as a list of dated periods.
package schema

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/pdiddy/resume2json/internal/fonts"
	"github.com/pdiddy/resume2json/internal/segment"
	"github.com/pdiddy/resume2json/pkg/types"
)

// ErrMalformed marks input that does not have the shape the rules assume.
var ErrMalformed = errors.New("malformed input for the assumed resume shape")

// ShapeError reports one structural fault in one group.
type ShapeError struct {
	Group   int
	Heading string
	Reason  string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("group %d (%q): %s", e.Group, e.Heading, e.Reason)
}

func (e *ShapeError) Unwrap() error {
	return ErrMalformed
}

// Result is the outcome of an extraction.
type Result struct {
	Record types.Record
	// Faults lists the structural faults of the groups skipped in lenient
	// mode.
	Faults []*ShapeError
}

// Extractor applies Rules to groups.
type Extractor struct {
	rules  Rules
	dates  *regexp.Regexp
	strict bool
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithStrict makes Extract fail on the first structural fault.
func WithStrict(strict bool) Option {
	return func(e *Extractor) {
		e.strict = strict
	}
}

// NewExtractor validates rules and returns an extractor for them.
func NewExtractor(rules Rules, opts ...Option) (*Extractor, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	e := &Extractor{
		rules: rules,
		dates: regexp.MustCompile(rules.Dated.DatePattern),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Extract builds a record from groups in order. Groups opened by the
// identity tag fill the identity fields; groups opened by the section tag
// become sections; other groups are ignored. A group with a structural
// fault contributes nothing to the record: in lenient mode it is skipped
// whole and its faults are collected in Result.Faults, in strict mode the
// first fault is returned as an error wrapping ErrMalformed.
func (e *Extractor) Extract(groups []segment.Group) (Result, error) {
	var res Result
	for i, g := range groups {
		if len(g) == 0 {
			continue
		}
		tag, _ := segment.SplitTag(g.Head())

		var faults []*ShapeError
		switch tag {
		case e.rules.Identity.Tag:
			var id types.Record
			if faults = e.identity(i, g, &id); len(faults) == 0 {
				for _, k := range types.IdentityKeys {
					res.Record.SetIdentity(k, id.Identity(k))
				}
			}
		case e.rules.SectionTag:
			var sec types.Section
			if sec, faults = e.section(i, g); len(faults) == 0 {
				res.Record.PutSection(sec)
			}
		default:
			continue
		}

		if len(faults) > 0 && e.strict {
			return Result{}, faults[0]
		}
		res.Faults = append(res.Faults, faults...)
	}
	return res, nil
}

func heading(g segment.Group) string {
	_, text := segment.SplitTag(g.Head())
	return segment.FirstFragment(text)
}

func (e *Extractor) identity(group int, g segment.Group, rec *types.Record) []*ShapeError {
	head := heading(g)
	var faults []*ShapeError
	fault := func(format string, args ...any) {
		faults = append(faults, &ShapeError{Group: group, Heading: head, Reason: fmt.Sprintf(format, args...)})
	}

	for li, pat := range e.rules.Identity.Lines {
		if len(pat.Captures) == 0 {
			continue
		}
		if li >= len(g) {
			fault("identity line %d missing", li+1)
			continue
		}
		tag, text := segment.SplitTag(g[li])
		if pat.Tag != "" && tag != pat.Tag {
			fault("identity line %d is tagged %s, want %s", li+1, tag, pat.Tag)
			continue
		}
		parts := segment.Fragments(text)
		for _, c := range pat.Captures {
			if c.Part >= len(parts) {
				fault("identity line %d has no part %d for %s", li+1, c.Part, c.Field)
				continue
			}
			v := parts[c.Part]
			if c.StripSpaces {
				v = strings.ReplaceAll(v, " ", "")
			}
			rec.SetIdentity(c.Field, v)
		}
	}
	return faults
}

func (e *Extractor) section(group int, g segment.Group) (types.Section, []*ShapeError) {
	head := heading(g)
	if slices.Contains(types.IdentityKeys, head) {
		return types.Section{}, []*ShapeError{{Group: group, Heading: head, Reason: "section heading collides with an identity key"}}
	}

	rule := e.rules.rule(head)
	sec := types.Section{Heading: head, Kind: rule.Kind}
	var faults []string
	switch rule.Kind {
	case types.SectionKeyValue:
		faults = e.keyValue(rule, g[1:], &sec)
	default:
		faults = e.dated(g[1:], &sec)
	}

	out := make([]*ShapeError, len(faults))
	for i, f := range faults {
		out[i] = &ShapeError{Group: group, Heading: head, Reason: f}
	}
	return sec, out
}

// keyValue reads every paragraph line as separator-joined pairs. The
// fragment after the last sentinel is the line terminator and is dropped.
func (e *Extractor) keyValue(rule SectionRule, body []string, sec *types.Section) []string {
	var faults []string
	for _, l := range body {
		tag, text := segment.SplitTag(l)
		if tag != fonts.TagParagraph {
			continue
		}
		frags := segment.Fragments(text)
		for _, f := range frags[:len(frags)-1] {
			key, value, ok := strings.Cut(f, rule.Separator)
			if !ok {
				faults = append(faults, fmt.Sprintf("fragment %q has no %q", f, rule.Separator))
				continue
			}
			sec.SetField(strings.TrimSpace(key), strings.TrimSpace(value))
		}
	}
	return faults
}

// dated splits the body into periods. A paragraph line containing a marker
// opens a new period and supplies its date; all paragraph text accumulates
// into the details of the open period, which are written when the next
// period opens and at the last line.
func (e *Extractor) dated(body []string, sec *types.Section) []string {
	var faults []string
	period := 1
	opened := false
	var details strings.Builder

	for idx, l := range body {
		tag, _ := segment.SplitTag(l)
		if tag == fonts.TagParagraph {
			line := l
			if e.hasMarker(line) {
				if opened {
					sec.Period(period).Details = details.String()
					details.Reset()
					period++
				}
				opened = true
				p := sec.Period(period)

				tokens := e.dates.FindAllString(line, -1)
				switch len(tokens) {
				case 0:
					faults = append(faults, fmt.Sprintf("period %d: no date in %q", period, line))
				case 1:
					p.Date, p.HasDate = tokens[0], true
					line = strings.ReplaceAll(line, tokens[0], "")
				default:
					p.Date, p.HasDate = tokens[0]+e.rules.Dated.Joiner+tokens[1], true
					line = strings.ReplaceAll(line, tokens[0], "")
					line = strings.ReplaceAll(line, tokens[1], "")
				}
			}
			details.WriteString(e.clean(line))
		}
		if idx == len(body)-1 {
			sec.Period(period).Details = details.String()
		}
	}
	return faults
}

func (e *Extractor) hasMarker(line string) bool {
	for _, m := range e.rules.Dated.Markers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// clean drops sentinels, squeeze runs and the leading tag from a line.
func (e *Extractor) clean(line string) string {
	line = strings.ReplaceAll(line, segment.Sentinel, "")
	if e.rules.Dated.Squeeze != "" {
		line = strings.ReplaceAll(line, e.rules.Dated.Squeeze, "")
	}
	_, text := segment.SplitTag(line)
	return text
}
