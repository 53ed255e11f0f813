// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pdiddy/resume2json/internal/convert"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show how the pipeline reads a PDF",
	Long: `Inspect runs the pipeline on --input without writing anything and
prints each intermediate product: the font histogram, the size-to-tag
table, the tagged lines, the heading groups and any structural faults.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, _ := cmd.Flags().GetString("input")
		parser, err := newParser(cmd)
		if err != nil {
			return err
		}
		parsed, err := parser.ParseFile(in)
		if err != nil {
			return err
		}
		printInspection(cmd.OutOrStdout(), parsed)
		return nil
	},
}

func printInspection(w io.Writer, p convert.Parsed) {
	fmt.Fprintf(w, "Font histogram (%d spans):\n", p.Histogram.Total())
	for _, c := range p.Histogram.Counts {
		fmt.Fprintf(w, "  %-30s %d\n", c.ID, c.Count)
	}

	fmt.Fprintf(w, "\nSize tags (paragraph %s):\n", strconv.FormatFloat(p.Sizes.Paragraph, 'g', -1, 64))
	for _, size := range p.Sizes.Sizes() {
		tag, _ := p.Sizes.Tag(size)
		fmt.Fprintf(w, "  %-8s %s\n", strconv.FormatFloat(size, 'g', -1, 64), tag)
	}

	fmt.Fprintf(w, "\nTagged lines (%d):\n", len(p.Lines))
	for _, l := range p.Lines {
		fmt.Fprintf(w, "  %s\n", l)
	}

	fmt.Fprintf(w, "\nGroups (%d):\n", len(p.Groups))
	for i, g := range p.Groups {
		for j, l := range g {
			if j == 0 {
				fmt.Fprintf(w, "  [%d] %s\n", i, l)
				continue
			}
			fmt.Fprintf(w, "      %s\n", l)
		}
	}

	if len(p.Result.Faults) > 0 {
		fmt.Fprintf(w, "\nFaults (%d):\n", len(p.Result.Faults))
		for _, f := range p.Result.Faults {
			fmt.Fprintf(w, "  %v\n", f)
		}
	}
}

func init() {
	inspectCmd.Flags().StringP("input", "i", "", "PDF resume to inspect (required)")
	addParseFlags(inspectCmd)
	_ = inspectCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(inspectCmd)
}
