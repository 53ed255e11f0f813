// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/resume2json/internal/store"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Search and export the resume store",
	Long: `Store works on the SQLite index that parse --store and batch --store
fill. Each resume is kept with its identity fields, its JSON document and
one searchable row per section.`,
}

// --- list subcommand ---

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored resumes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		entries, err := st.List(cmd.Context())
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(w, entries)
		}
		if len(entries) == 0 {
			fmt.Fprintln(w, "No resumes stored.")
			return nil
		}
		for _, e := range entries {
			fmt.Fprintf(w, "%s  %-25s  %s\n", e.ID, truncate(e.Name, 25), e.SourcePDF)
		}
		fmt.Fprintf(w, "\n%d resumes\n", len(entries))
		return nil
	},
}

// --- get subcommand ---

var storeGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Print the stored JSON document of a resume",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		e, err := st.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), e.Document)
	},
}

// --- retrieve subcommand ---

var storeRetrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Search stored resume sections",
	Long: `Retrieve matches the query, case-insensitively, against section
content, section headings and candidate names. --section restricts the
search to one heading.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		opts := queryOptsFromFlags(cmd, args)
		if opts.IsEmpty() {
			return fmt.Errorf("query or filter required: provide a search query or --section")
		}
		results, err := st.Retrieve(cmd.Context(), opts)
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")
		return formatRetrieveOutput(cmd.OutOrStdout(), results, asJSON)
	},
}

func formatRetrieveOutput(w io.Writer, results []store.Match, asJSON bool) error {
	if asJSON {
		return writeJSON(w, results)
	}
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-25s  %-20s  %s\n", "Rank", "Name", "Section", "Content")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for i, r := range results {
		content := strings.ReplaceAll(r.Content, "\n", " / ")
		fmt.Fprintf(w, "%-4d  %-25s  %-20s  %s\n",
			i+1, truncate(r.Name, 25), truncate(r.Heading, 20), truncate(content, 45))
	}
	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var storeExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export stored sections to YAML or JSON",
	Long: `Export writes every stored section (or the subset matching the query
and --section) to the given file. The format follows the file extension:
.json for JSON, anything else for YAML.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		path := args[0]
		opts := queryOptsFromFlags(cmd, args[1:])
		if strings.EqualFold(filepath.Ext(path), ".json") {
			err = st.ExportJSON(cmd.Context(), path, opts)
		} else {
			err = st.ExportYAML(cmd.Context(), path, opts)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
		return nil
	},
}

// --- shared helpers ---

func openStore(cmd *cobra.Command) (*store.Store, error) {
	if cmd.Flags().Changed("db") {
		cfg.Store.DBPath, _ = cmd.Flags().GetString("db")
	}
	return store.Open(cfg.Store)
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) store.QueryOptions {
	query, _ := cmd.Flags().GetString("query")
	if query == "" && len(args) > 0 {
		query = strings.Join(args, " ")
	}
	section, _ := cmd.Flags().GetString("section")
	limit, _ := cmd.Flags().GetInt("limit")
	return store.QueryOptions{Query: query, Section: section, MaxResults: limit}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	storeCmd.PersistentFlags().String("db", "resumes.db", "SQLite database file")

	storeListCmd.Flags().Bool("json", false, "output as JSON")

	storeRetrieveCmd.Flags().String("query", "", "search text")
	storeRetrieveCmd.Flags().String("section", "", "restrict to one section heading")
	storeRetrieveCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	storeRetrieveCmd.Flags().Bool("json", false, "output results as JSON")

	storeExportCmd.Flags().String("query", "", "search filter for partial export")
	storeExportCmd.Flags().String("section", "", "section filter for partial export")

	storeCmd.AddCommand(storeListCmd)
	storeCmd.AddCommand(storeGetCmd)
	storeCmd.AddCommand(storeRetrieveCmd)
	storeCmd.AddCommand(storeExportCmd)

	rootCmd.AddCommand(storeCmd)
}
