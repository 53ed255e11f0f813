// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/resume2json/internal/convert"
	"github.com/pdiddy/resume2json/internal/logger"
	"github.com/pdiddy/resume2json/internal/store"
	"github.com/pdiddy/resume2json/pkg/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Convert one PDF resume into a JSON file",
	Long: `Parse reads the PDF given by --input, infers its structure from font
sizes and writes the resulting record to --output. Nothing is written when
the document has no text or the record fails validation.

Structural faults (a missing identity line, a skills entry without a
separator) are logged as warnings and the faulty group is left out of the
record, unless --strict is set. With --store the record is indexed before
the file is written, so a store failure leaves no output.`,
	Args: cobra.NoArgs,
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	in, _ := cmd.Flags().GetString("input")
	out, _ := cmd.Flags().GetString("output")

	parser, err := newParser(cmd)
	if err != nil {
		return err
	}

	rec, err := parser.Convert(in)
	if err != nil {
		return err
	}

	var idx indexer
	if index, _ := cmd.Flags().GetBool("store"); index {
		st, err := store.Open(cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()
		idx = st
	}
	return emitRecord(cmd.Context(), in, out, rec, idx)
}

// indexer stores a parsed record under its source path.
type indexer interface {
	Save(ctx context.Context, sourcePDF string, rec types.Record) (string, error)
}

// emitRecord encodes rec, indexes it when idx is set and then writes out.
// Indexing comes before the write so a failed save leaves no output file.
func emitRecord(ctx context.Context, in, out string, rec types.Record, idx indexer) error {
	data, err := convert.Encode(rec, cfg.Parse.Validate)
	if err != nil {
		return err
	}

	if idx != nil {
		abs, err := filepath.Abs(in)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", in, err)
		}
		id, err := idx.Save(ctx, abs, rec)
		if err != nil {
			return fmt.Errorf("indexing %s: %w", in, err)
		}
		logger.Info().Str("id", id).Str("db", cfg.Store.DBPath).Msg("indexed resume")
	}

	if err := convert.WriteFile(out, data); err != nil {
		return err
	}
	logger.Info().Str("input", in).Str("output", out).Int("sections", len(rec.Sections)).Msg("wrote resume")
	return nil
}

func init() {
	parseCmd.Flags().StringP("input", "i", "", "PDF resume to parse (required)")
	parseCmd.Flags().StringP("output", "o", "", "JSON file to write (required)")
	parseCmd.Flags().Bool("store", false, "also index the record in the resume store")
	addParseFlags(parseCmd)
	_ = parseCmd.MarkFlagRequired("input")
	_ = parseCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(parseCmd)
}
