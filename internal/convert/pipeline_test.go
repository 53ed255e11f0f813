// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/resume2json/internal/fonts"
	"github.com/pdiddy/resume2json/internal/schema"
	"github.com/pdiddy/resume2json/pkg/types"
)

// fakeSource serves documents by path.
type fakeSource map[string]types.Document

func (f fakeSource) Load(path string) (types.Document, error) {
	doc, ok := f[path]
	if !ok {
		return types.Document{}, os.ErrNotExist
	}
	return doc, nil
}

func sp(size float64, text string) types.Span {
	return types.Span{Text: text, Size: size, Font: "Helvetica"}
}

func textBlock(lines ...[]types.Span) types.Block {
	b := types.Block{Type: types.BlockText}
	for _, spans := range lines {
		b.Lines = append(b.Lines, types.Line{Spans: spans})
	}
	return b
}

func oneLine(s types.Span) types.Block {
	return textBlock([]types.Span{s})
}

// janeDoe is a one-page resume in the built-in layout.
func janeDoe() types.Document {
	return types.Document{Pages: []types.Page{{Blocks: []types.Block{
		oneLine(sp(18, "Jane Doe")),
		oneLine(sp(10, "Software Engineer")),
		oneLine(sp(10, "555 123 | jane@x.io")),
		oneLine(sp(10, "1 Main St, Springfield")),
		oneLine(sp(14, "Skills & Interests")),
		textBlock(
			[]types.Span{sp(10, "Languages: Go, Python")},
			[]types.Span{sp(10, "Tools: Git")},
		),
		oneLine(sp(14, "Experience")),
		textBlock(
			[]types.Span{sp(10, "Acme Corp January 2020 - March 2022")},
			[]types.Span{sp(10, "Built things")},
		),
	}}}}
}

const janeDoeJSON = `{
    "name": "Jane Doe",
    "phone": "555123",
    "email": "jane@x.io",
    "address": "1 Main St, Springfield",
    "Skills & Interests": {
        "Languages": "Go, Python",
        "Tools": "Git"
    },
    "Experience": {
        "1": {
            "date": "January 2020 - March 2022",
            "details": "Acme Corp  - Built things"
        }
    }
}
`

func newParser(t *testing.T, src SpanSource, cfg types.ParseConfig) *Parser {
	t.Helper()
	p, err := NewParser(src, cfg)
	require.NoError(t, err)
	return p
}

func TestParser_Parse(t *testing.T) {
	p := newParser(t, fakeSource{}, types.ParseConfig{})
	out, err := p.Parse(janeDoe())
	require.NoError(t, err)

	assert.Equal(t, 10.0, out.Sizes.Paragraph)
	assert.Equal(t, map[float64]string{18: "<h1>", 14: "<h2>", 10: fonts.TagParagraph}, out.Sizes.Tags)
	assert.Equal(t, []string{
		"<h1>Jane Doe|",
		"<p>Software Engineer|",
		"<p>555 123 | jane@x.io|",
		"<p>1 Main St, Springfield|",
		"<h2>Skills & Interests|",
		"<p>Languages: Go, Python| Tools: Git|",
		"<h2>Experience|",
		"<p>Acme Corp January 2020 - March 2022| Built things|",
	}, out.Lines)
	assert.Len(t, out.Groups, 3)
	assert.Empty(t, out.Result.Faults)

	rec := out.Result.Record
	assert.Equal(t, "Jane Doe", rec.Name)
	assert.Equal(t, "555123", rec.Phone)
	assert.Equal(t, "jane@x.io", rec.Email)
	assert.Equal(t, "1 Main St, Springfield", rec.Address)
}

func TestParser_EndToEndJSON(t *testing.T) {
	p := newParser(t, fakeSource{"cv.pdf": janeDoe()}, types.ParseConfig{Validate: true})
	rec, err := p.Convert("cv.pdf")
	require.NoError(t, err)

	data, err := Encode(rec, true)
	require.NoError(t, err)
	assert.Equal(t, janeDoeJSON, string(data))
}

func TestParser_Idempotent(t *testing.T) {
	p := newParser(t, fakeSource{"cv.pdf": janeDoe()}, types.ParseConfig{})
	dir := t.TempDir()

	var outputs [][]byte
	for i := range 2 {
		rec, err := p.Convert("cv.pdf")
		require.NoError(t, err)
		path := filepath.Join(dir, "cv.json")
		require.NoError(t, WriteRecord(path, rec, true), "run %d", i)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		outputs = append(outputs, data)
	}
	assert.Equal(t, outputs[0], outputs[1])
}

func TestParser_NoFonts(t *testing.T) {
	p := newParser(t, fakeSource{"blank.pdf": {}}, types.ParseConfig{})
	_, err := p.Convert("blank.pdf")
	assert.ErrorIs(t, err, fonts.ErrNoFonts)
	assert.Contains(t, err.Error(), "blank.pdf")
}

func TestParser_MissingSource(t *testing.T) {
	p := newParser(t, fakeSource{}, types.ParseConfig{})
	_, err := p.ParseFile("absent.pdf")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParser_NoHeadings(t *testing.T) {
	doc := types.Document{Pages: []types.Page{{Blocks: []types.Block{
		oneLine(sp(10, "just a paragraph")),
	}}}}
	p := newParser(t, fakeSource{}, types.ParseConfig{})
	out, err := p.Parse(doc)
	require.NoError(t, err)
	assert.Empty(t, out.Groups)

	data, err := Encode(out.Result.Record, true)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"name\": \"\",\n    \"phone\": \"\",\n    \"email\": \"\",\n    \"address\": \"\"\n}\n", string(data))
}

func shortIdentity() types.Document {
	return types.Document{Pages: []types.Page{{Blocks: []types.Block{
		oneLine(sp(18, "Jane Doe")),
		oneLine(sp(10, "Engineer")),
		oneLine(sp(10, "text")),
	}}}}
}

func TestParser_LenientReportsFaults(t *testing.T) {
	p := newParser(t, fakeSource{}, types.ParseConfig{})
	out, err := p.Parse(shortIdentity())
	require.NoError(t, err)
	require.NotEmpty(t, out.Result.Faults)
	assert.Empty(t, out.Result.Record.Name)
}

func TestParser_LenientOmitsFaultyGroups(t *testing.T) {
	doc := types.Document{Pages: []types.Page{{Blocks: []types.Block{
		oneLine(sp(18, "Jane Doe")),
		oneLine(sp(10, "Engineer")),
		oneLine(sp(14, "Experience")),
		oneLine(sp(10, "Started in June at Acme")),
		oneLine(sp(10, "filler one")),
		oneLine(sp(14, "Education")),
		oneLine(sp(10, "State University May 2015")),
	}}}}
	p := newParser(t, fakeSource{"cv.pdf": doc}, types.ParseConfig{})

	rec, err := p.Convert("cv.pdf")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "cv.json")
	require.NoError(t, WriteRecord(path, rec, true))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, map[string]any{
		"name":    "",
		"phone":   "",
		"email":   "",
		"address": "",
		"Education": map[string]any{
			"1": map[string]any{"date": "May 2015", "details": "State University "},
		},
	}, got)
}

func TestParser_StrictFails(t *testing.T) {
	p := newParser(t, fakeSource{"cv.pdf": shortIdentity()}, types.ParseConfig{Strict: true})
	_, err := p.Convert("cv.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrMalformed)

	var se *schema.ShapeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 0, se.Group)
}

func TestParser_Granular(t *testing.T) {
	p := newParser(t, fakeSource{}, types.ParseConfig{Granular: true})
	out, err := p.Parse(janeDoe())
	require.NoError(t, err)
	assert.Equal(t, "10_0_Helvetica_0", out.Histogram.Counts[0].ID)
	assert.Equal(t, "Jane Doe", out.Result.Record.Name)
}

func TestNewParser_RulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	rules := "sections:\n  - heading: Experience\n    kind: key_value\n    separator: \"-\"\n"
	require.NoError(t, os.WriteFile(path, []byte(rules), 0o644))

	p := newParser(t, fakeSource{}, types.ParseConfig{RulesFile: path})
	out, err := p.Parse(janeDoe())
	require.NoError(t, err)

	sec, ok := out.Result.Record.Section("Experience")
	require.True(t, ok)
	assert.Equal(t, types.SectionKeyValue, sec.Kind)
	assert.Equal(t, []types.Field{
		{Key: "Acme Corp January 2020", Value: "March 2022"},
	}, sec.Fields[:1])
}

func TestNewParser_BadRulesFile(t *testing.T) {
	_, err := NewParser(fakeSource{}, types.ParseConfig{RulesFile: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
