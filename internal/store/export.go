// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// ExportEntry is one matched section with its resume metadata.
type ExportEntry struct {
	ResumeID string        `json:"resume_id" yaml:"resume_id"`
	Heading  string        `json:"heading" yaml:"heading"`
	Kind     string        `json:"kind" yaml:"kind"`
	Content  string        `json:"content" yaml:"content"`
	Resume   *ExportResume `json:"resume,omitempty" yaml:"resume,omitempty"`
}

// ExportResume holds the resume-level fields included in each entry.
type ExportResume struct {
	Name      string `json:"name" yaml:"name"`
	SourcePDF string `json:"source_pdf" yaml:"source_pdf"`
}

const exportLimit = 100000

// ExportYAML writes the sections matching opts to path as YAML.
func (s *Store) ExportYAML(ctx context.Context, path string, opts QueryOptions) error {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the sections matching opts to path as JSON.
func (s *Store) ExportJSON(ctx context.Context, path string, opts QueryOptions) error {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context, opts QueryOptions) ([]ExportEntry, error) {
	opts.MaxResults = exportLimit
	results, err := s.Retrieve(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(results))
	for i, r := range results {
		entries[i] = ExportEntry{
			ResumeID: r.ResumeID,
			Heading:  r.Heading,
			Kind:     string(r.Kind),
			Content:  r.Content,
		}
		if r.Name != "" || r.SourcePDF != "" {
			entries[i].Resume = &ExportResume{
				Name:      r.Name,
				SourcePDF: r.SourcePDF,
			}
		}
	}
	return entries, nil
}
