// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schema

import (
	"fmt"
	"os"
	"regexp"
	"slices"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/resume2json/internal/segment"
	"github.com/pdiddy/resume2json/pkg/types"
)

// Capture copies one sentinel-separated part of a tag-stripped line into an
// identity field.
type Capture struct {
	Field       string `json:"field" yaml:"field"`
	Part        int    `json:"part" yaml:"part"`
	StripSpaces bool   `json:"strip_spaces,omitempty" yaml:"strip_spaces,omitempty"`
}

// LinePattern describes one expected line of the identity group. An empty
// Tag accepts any tag.
type LinePattern struct {
	Tag      string    `json:"tag,omitempty" yaml:"tag,omitempty"`
	Captures []Capture `json:"captures,omitempty" yaml:"captures,omitempty"`
}

// IdentityShape is the declared line shape of the identity group.
type IdentityShape struct {
	// Tag is the heading tag that opens the identity group.
	Tag   string        `json:"tag" yaml:"tag"`
	Lines []LinePattern `json:"lines" yaml:"lines"`
}

// SectionRule binds a section heading to an interpretation.
type SectionRule struct {
	Heading   string            `json:"heading" yaml:"heading"`
	Kind      types.SectionKind `json:"kind" yaml:"kind"`
	Separator string            `json:"separator,omitempty" yaml:"separator,omitempty"`
}

// DatedRule configures dated sections.
type DatedRule struct {
	// Markers are substrings that open a new period, the month names by default.
	Markers []string `json:"markers" yaml:"markers"`

	// DatePattern matches the date tokens of a marker line.
	DatePattern string `json:"date_pattern" yaml:"date_pattern"`

	// Joiner separates the first and second date token.
	Joiner string `json:"joiner" yaml:"joiner"`

	// Squeeze is removed from detail text (a layout artifact of wide gaps).
	Squeeze string `json:"squeeze" yaml:"squeeze"`
}

// Rules drive the extractor. Sections whose heading has no rule are dated.
type Rules struct {
	Identity   IdentityShape `json:"identity" yaml:"identity"`
	SectionTag string        `json:"section_tag" yaml:"section_tag"`
	Sections   []SectionRule `json:"sections" yaml:"sections"`
	Dated      DatedRule     `json:"dated" yaml:"dated"`
}

// SkillsHeading is the heading of the built-in key/value section.
const SkillsHeading = "Skills & Interests"

var months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

const datePattern = `((\d{2}|January|Jan|February|Feb|March|Mar|April|Apr|May|June|Jun|July|Jul|August|Aug|September|Sep|October|Oct|November|Nov|December|Dec)[/ ]\d{2,4})`

// DefaultRules returns the built-in resume layout: a name heading, a line
// the extractor skips, a "phone | email" line and an address line, then
// second-level sections that are dated except for "Skills & Interests".
func DefaultRules() Rules {
	return Rules{
		Identity: IdentityShape{
			Tag: "<h1>",
			Lines: []LinePattern{
				{Tag: "<h1>", Captures: []Capture{{Field: types.KeyName, Part: 0}}},
				{},
				{Tag: "<p>", Captures: []Capture{
					{Field: types.KeyPhone, Part: 0, StripSpaces: true},
					{Field: types.KeyEmail, Part: 1, StripSpaces: true},
				}},
				{Tag: "<p>", Captures: []Capture{{Field: types.KeyAddress, Part: 0}}},
			},
		},
		SectionTag: "<h2>",
		Sections: []SectionRule{
			{Heading: SkillsHeading, Kind: types.SectionKeyValue, Separator: ":"},
		},
		Dated: DatedRule{
			Markers:     slices.Clone(months),
			DatePattern: datePattern,
			Joiner:      " - ",
			Squeeze:     "    ",
		},
	}
}

// LoadRules reads a YAML rules file and overlays it on DefaultRules. Keys
// absent from the file keep their default; lists present in the file
// replace the default list.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("reading rules %s: %w", path, err)
	}
	rules := DefaultRules()
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("parsing rules %s: %w", path, err)
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, fmt.Errorf("rules %s: %w", path, err)
	}
	return rules, nil
}

// Validate checks that the rules can drive an extractor.
func (r Rules) Validate() error {
	if !segment.IsKeptTag(r.Identity.Tag) {
		return fmt.Errorf("identity tag %q is not a kept heading tag", r.Identity.Tag)
	}
	if !segment.IsKeptTag(r.SectionTag) {
		return fmt.Errorf("section tag %q is not a kept heading tag", r.SectionTag)
	}
	if r.Identity.Tag == r.SectionTag {
		return fmt.Errorf("identity and section tag are both %q", r.SectionTag)
	}
	for i, l := range r.Identity.Lines {
		for _, c := range l.Captures {
			if !slices.Contains(types.IdentityKeys, c.Field) {
				return fmt.Errorf("identity line %d: unknown field %q", i+1, c.Field)
			}
			if c.Part < 0 {
				return fmt.Errorf("identity line %d: negative part %d", i+1, c.Part)
			}
		}
	}
	for _, s := range r.Sections {
		switch s.Kind {
		case types.SectionKeyValue:
			if s.Separator == "" {
				return fmt.Errorf("section %q: key_value rule needs a separator", s.Heading)
			}
		case types.SectionDated:
		default:
			return fmt.Errorf("section %q: unknown kind %q", s.Heading, s.Kind)
		}
	}
	if _, err := regexp.Compile(r.Dated.DatePattern); err != nil {
		return fmt.Errorf("date pattern: %w", err)
	}
	return nil
}

// rule returns the rule for heading, defaulting to a dated section.
func (r Rules) rule(heading string) SectionRule {
	for _, s := range r.Sections {
		if s.Heading == heading {
			return s
		}
	}
	return SectionRule{Heading: heading, Kind: types.SectionDated}
}
