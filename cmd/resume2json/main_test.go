// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/resume2json/internal/convert"
	"github.com/pdiddy/resume2json/internal/fonts"
	"github.com/pdiddy/resume2json/internal/schema"
	"github.com/pdiddy/resume2json/internal/segment"
	"github.com/pdiddy/resume2json/internal/store"
	"github.com/pdiddy/resume2json/pkg/types"
)

func TestDecodeConfig_Defaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	c, err := decodeConfig(v)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultLayoutConfig(), c.Layout)
	assert.True(t, c.Parse.Validate)
	assert.False(t, c.Parse.Strict)
	assert.Equal(t, 4, c.Batch.Jobs)
	assert.Equal(t, "json", c.Batch.OutDir)
	assert.Equal(t, "resumes.db", c.Store.DBPath)
	assert.Equal(t, 20, c.Store.MaxResults)
	assert.Equal(t, "info", c.Log.Level)
}

func TestDecodeConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume2json.yaml")
	content := `parse:
  strict: true
  rules_file: rules.yaml
layout:
  word_gap: 0.5
store:
  db_path: /tmp/cv.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("RESUME2JSON_BATCH_JOBS", "9")
	t.Setenv("RESUME2JSON_LOG_FORMAT", "json")

	v := viper.New()
	setDefaults(v)
	configure(v, path)
	require.NoError(t, v.ReadInConfig())

	c, err := decodeConfig(v)
	require.NoError(t, err)
	assert.True(t, c.Parse.Strict)
	assert.True(t, c.Parse.Validate)
	assert.Equal(t, "rules.yaml", c.Parse.RulesFile)
	assert.Equal(t, 0.5, c.Layout.WordGap)
	assert.Equal(t, 0.3, c.Layout.LineTolerance)
	assert.Equal(t, "/tmp/cv.db", c.Store.DBPath)
	assert.Equal(t, 9, c.Batch.Jobs)
	assert.Equal(t, "json", c.Log.Format)
}

func TestApplyParseFlags(t *testing.T) {
	require.NoError(t, parseCmd.Flags().Set("strict", "true"))
	t.Cleanup(func() {
		_ = parseCmd.Flags().Set("strict", "false")
		parseCmd.Flags().Lookup("strict").Changed = false
	})

	c := types.ParseConfig{Validate: true, RulesFile: "keep.yaml"}
	applyParseFlags(parseCmd, &c)
	assert.True(t, c.Strict)
	assert.True(t, c.Validate, "unset flags keep the configured value")
	assert.Equal(t, "keep.yaml", c.RulesFile)
}

func TestExpandPDFs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.PDF", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755))
	single := filepath.Join(t.TempDir(), "c.pdf")
	require.NoError(t, os.WriteFile(single, []byte("x"), 0o644))

	paths, err := expandPDFs([]string{single, dir})
	require.NoError(t, err)
	assert.Equal(t, []string{single, filepath.Join(dir, "a.PDF"), filepath.Join(dir, "b.pdf")}, paths)

	_, err = expandPDFs([]string{filepath.Join(dir, "absent.pdf")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPrintInspection(t *testing.T) {
	rec := types.Record{Name: "Jane"}
	parsed := convert.Parsed{
		Histogram: fonts.Histogram{Counts: []fonts.StyleCount{{ID: "10", Count: 3}, {ID: "18", Count: 1}}},
		Sizes:     fonts.SizeTable{Paragraph: 10, Tags: map[float64]string{18: "<h1>", 10: "<p>"}},
		Lines:     []string{"<h1>Jane|", "<p>text|"},
		Groups:    []segment.Group{{"<h1>Jane|", "<p>text|"}},
		Result: schema.Result{
			Record: rec,
			Faults: []*schema.ShapeError{{Group: 0, Heading: "Jane", Reason: "identity line 3 missing"}},
		},
	}

	var buf bytes.Buffer
	printInspection(&buf, parsed)
	out := buf.String()

	assert.Contains(t, out, "Font histogram (4 spans):")
	assert.Contains(t, out, "Size tags (paragraph 10):")
	assert.Regexp(t, `18\s+<h1>`, out)
	assert.Contains(t, out, "Tagged lines (2):")
	assert.Contains(t, out, "  [0] <h1>Jane|\n      <p>text|\n")
	assert.Contains(t, out, `group 0 ("Jane"): identity line 3 missing`)
}

func TestFormatRetrieveOutput(t *testing.T) {
	results := []store.Match{{
		ResumeID: "id-1", Name: "Jane Doe", Heading: "Experience",
		Kind: types.SectionDated, Content: "January 2020\nAcme",
	}}

	var buf bytes.Buffer
	require.NoError(t, formatRetrieveOutput(&buf, results, false))
	assert.Contains(t, buf.String(), "January 2020 / Acme")
	assert.Contains(t, buf.String(), "1 results")

	buf.Reset()
	require.NoError(t, formatRetrieveOutput(&buf, nil, false))
	assert.Equal(t, "No results found.\n", buf.String())

	buf.Reset()
	require.NoError(t, formatRetrieveOutput(&buf, results, true))
	assert.Contains(t, buf.String(), `"heading": "Experience"`)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
	assert.Equal(t, "Zür...", truncate("Zürich Stadt", 6))
}

// stubIndexer records saves and fails with err when set.
type stubIndexer struct {
	saved []string
	err   error
}

func (s *stubIndexer) Save(_ context.Context, sourcePDF string, _ types.Record) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.saved = append(s.saved, sourcePDF)
	return "id-1", nil
}

func TestEmitRecord(t *testing.T) {
	prev := cfg
	t.Cleanup(func() { cfg = prev })
	cfg.Parse.Validate = true

	rec := types.Record{Name: "Jane Doe"}

	t.Run("index failure writes nothing", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "cv.json")
		idx := &stubIndexer{err: errors.New("database is locked")}

		err := emitRecord(context.Background(), "cv.pdf", out, rec, idx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "indexing cv.pdf")
		assert.NoFileExists(t, out)
	})

	t.Run("indexes then writes", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "cv.json")
		idx := &stubIndexer{}

		require.NoError(t, emitRecord(context.Background(), "cv.pdf", out, rec, idx))
		assert.FileExists(t, out)
		require.Len(t, idx.saved, 1)
		assert.True(t, filepath.IsAbs(idx.saved[0]))
	})

	t.Run("no indexer", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "cv.json")
		require.NoError(t, emitRecord(context.Background(), "cv.pdf", out, rec, nil))
		assert.FileExists(t, out)
	})
}
