// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/resume2json/internal/convert"
	"github.com/pdiddy/resume2json/internal/logger"
	"github.com/pdiddy/resume2json/internal/store"
	"github.com/pdiddy/resume2json/pkg/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch [pdfs or directories...]",
	Short: "Convert many PDF resumes into JSON files",
	Long: `Batch converts every PDF given, and every .pdf file inside each
directory given, writing <name>.json into --out-dir. Existing outputs are
skipped unless --force is set. Up to --jobs files are parsed at once.

Each file gets a status line and the run ends with a summary. The command
fails when any file failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	applyBatchFlags(cmd, &cfg.Batch)

	paths, err := expandPDFs(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no PDF files found in %s", strings.Join(args, ", "))
	}

	parser, err := newParser(cmd)
	if err != nil {
		return err
	}

	opts := convert.BatchOptions{
		Force:    cfg.Batch.Force,
		Jobs:     cfg.Batch.Jobs,
		Validate: cfg.Parse.Validate,
	}
	if index, _ := cmd.Flags().GetBool("store"); index {
		st, err := store.Open(cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()
		opts.OnConverted = func(r types.Resume, rec types.Record) error {
			abs, err := filepath.Abs(r.PDFPath)
			if err != nil {
				return err
			}
			_, err = st.Save(cmd.Context(), abs, rec)
			return err
		}
	}

	result := convert.ConvertPaths(logger.WithContext(cmd.Context()), parser, paths, cfg.Batch.OutDir, opts, cmd.OutOrStdout())
	if result.HasFailures() {
		return fmt.Errorf("%d resume(s) failed conversion", result.Failed)
	}
	return nil
}

// expandPDFs replaces each directory argument with the .pdf files it
// contains, sorted by name.
func expandPDFs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", arg, err)
		}
		var found []string
		for _, e := range entries {
			if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
				found = append(found, filepath.Join(arg, e.Name()))
			}
		}
		sort.Strings(found)
		paths = append(paths, found...)
	}
	return paths, nil
}

func applyBatchFlags(cmd *cobra.Command, c *types.BatchConfig) {
	if cmd.Flags().Changed("out-dir") {
		c.OutDir, _ = cmd.Flags().GetString("out-dir")
	}
	if cmd.Flags().Changed("force") {
		c.Force, _ = cmd.Flags().GetBool("force")
	}
	if cmd.Flags().Changed("jobs") {
		c.Jobs, _ = cmd.Flags().GetInt("jobs")
	}
}

func init() {
	batchCmd.Flags().StringP("out-dir", "o", "json", "directory for JSON output")
	batchCmd.Flags().Bool("force", false, "rewrite outputs that already exist")
	batchCmd.Flags().IntP("jobs", "j", 4, "maximum number of files parsed concurrently")
	batchCmd.Flags().Bool("store", false, "also index every converted record in the resume store")
	addParseFlags(batchCmd)

	rootCmd.AddCommand(batchCmd)
}
