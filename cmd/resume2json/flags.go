// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/resume2json/internal/convert"
	"github.com/pdiddy/resume2json/internal/source"
	"github.com/pdiddy/resume2json/pkg/types"
)

// addParseFlags registers the pipeline flags shared by parse, inspect and
// batch. Flags left unset keep the configured value.
func addParseFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("strict", false, "fail on the first structural fault instead of skipping the faulty group")
	cmd.Flags().Bool("granular", false, "discriminate fonts by size, flags, name and color instead of size alone")
	cmd.Flags().String("rules", "", "YAML file overriding the extraction rules")
	cmd.Flags().Bool("validate", true, "validate output against the resume JSON Schema")
}

func applyParseFlags(cmd *cobra.Command, c *types.ParseConfig) {
	if cmd.Flags().Changed("strict") {
		c.Strict, _ = cmd.Flags().GetBool("strict")
	}
	if cmd.Flags().Changed("granular") {
		c.Granular, _ = cmd.Flags().GetBool("granular")
	}
	if cmd.Flags().Changed("rules") {
		c.RulesFile, _ = cmd.Flags().GetString("rules")
	}
	if cmd.Flags().Changed("validate") {
		c.Validate, _ = cmd.Flags().GetBool("validate")
	}
}

// newParser builds the pipeline from the loaded config and the command's
// flags.
func newParser(cmd *cobra.Command) (*convert.Parser, error) {
	applyParseFlags(cmd, &cfg.Parse)
	return convert.NewParser(source.NewPDF(cfg.Layout), cfg.Parse)
}
