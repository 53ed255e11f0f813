// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/resume2json/pkg/types"
)

// QueryOptions holds parameters for section queries.
type QueryOptions struct {
	// Query is a case-insensitive substring matched against section
	// content, section heading and candidate name.
	Query string

	// Section restricts results to one heading (case-insensitive).
	Section string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Section == ""
}

// Match is one section of a stored resume.
type Match struct {
	ResumeID  string            `json:"resume_id" yaml:"resume_id"`
	SourcePDF string            `json:"source_pdf" yaml:"source_pdf"`
	Name      string            `json:"name" yaml:"name"`
	Heading   string            `json:"heading" yaml:"heading"`
	Kind      types.SectionKind `json:"kind" yaml:"kind"`
	Content   string            `json:"content" yaml:"content"`
}

// Retrieve returns the sections matching opts, ordered by candidate name,
// source path and section position.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]Match, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT s.resume_id, r.source_pdf, r.name, s.heading, s.kind, s.content
		FROM sections s
		JOIN resumes r ON r.id = s.resume_id
		WHERE 1=1`)

	if opts.Query != "" {
		pattern := "%" + escapeLike(opts.Query) + "%"
		qb.WriteString(` AND (s.content LIKE ? ESCAPE '\' OR s.heading LIKE ? ESCAPE '\' OR r.name LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}

	if opts.Section != "" {
		qb.WriteString(` AND s.heading = ? COLLATE NOCASE`)
		args = append(args, opts.Section)
	}

	qb.WriteString(` ORDER BY r.name, r.source_pdf, s.position LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying resumes: %w", err)
	}
	defer rows.Close()

	var results []Match
	for rows.Next() {
		var (
			m    Match
			name *string
			kind string
		)
		if err := rows.Scan(&m.ResumeID, &m.SourcePDF, &name, &m.Heading, &kind, &m.Content); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if name != nil {
			m.Name = *name
		}
		m.Kind = types.SectionKind(kind)
		results = append(results, m)
	}
	return results, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
