// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert wires the structuring pipeline to files: it turns PDFs
// into resume records and writes them as JSON, one file or a batch at a
// time.
package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/resume2json/internal/logger"
	"github.com/pdiddy/resume2json/pkg/types"
)

const defaultJobs = 4

// Converter turns a PDF file into a resume record. Parser is the production
// implementation.
type Converter interface {
	Convert(pdfPath string) (types.Record, error)
}

// BatchOptions controls ConvertBatch.
type BatchOptions struct {
	// Force rewrites outputs that already exist.
	Force bool

	// Jobs bounds the number of concurrent conversions (default 4).
	Jobs int

	// Validate checks each record against the JSON Schema before writing.
	Validate bool

	// OnConverted runs once a record has been encoded and validated, before
	// it is written, for example to index it. An error marks the resume as
	// failed and leaves no output file.
	OnConverted func(r types.Resume, rec types.Record) error
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of resumes processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any resume failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ConversionNone is a local alias for "skip" status (JSON already exists).
const ConversionNone = types.ConversionNone

// ConvertResume converts a single PDF and writes its JSON to r.JSONPath. If
// the output already exists and opts.Force is unset, it skips conversion
// and returns ConversionNone. Failures are printed to w and logged at error
// level.
func ConvertResume(c Converter, r types.Resume, opts BatchOptions, w io.Writer) types.ConversionStatus {
	if !opts.Force {
		if _, err := os.Stat(r.JSONPath); err == nil {
			fmt.Fprintf(w, "skipped: %s (already exists)\n", r.ID)
			return ConversionNone
		}
	}

	if err := convertOne(c, r, opts); err != nil {
		logger.Error().Err(err).Str("resume", r.ID).Str("pdf", r.PDFPath).Msg("conversion failed")
		fmt.Fprintf(w, "failed:  %s (%v)\n", r.ID, err)
		return types.ConversionFailed
	}

	fmt.Fprintf(w, "converted: %s\n", r.ID)
	return types.ConversionDone
}

func convertOne(c Converter, r types.Resume, opts BatchOptions) error {
	if err := os.MkdirAll(filepath.Dir(r.JSONPath), 0o755); err != nil {
		return err
	}
	rec, err := c.Convert(r.PDFPath)
	if err != nil {
		return err
	}
	data, err := Encode(rec, opts.Validate)
	if err != nil {
		return err
	}
	if opts.OnConverted != nil {
		if err := opts.OnConverted(r, rec); err != nil {
			return err
		}
	}
	return WriteFile(r.JSONPath, data)
}

// ConvertBatch converts resumes concurrently, at most opts.Jobs at a time,
// printing per-file status to w and returning a summary. Resumes not yet
// started when ctx is cancelled count as failed. A logger carried by ctx is
// used for batch events; the global logger otherwise.
func ConvertBatch(ctx context.Context, c Converter, resumes []types.Resume, opts BatchOptions, w io.Writer) BatchResult {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = defaultJobs
	}
	log := logger.Ctx(ctx)
	sw := &syncWriter{w: w}

	statuses := make([]types.ConversionStatus, len(resumes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, r := range resumes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				log.Warn().Str("resume", r.ID).Msg("batch cancelled before conversion")
				fmt.Fprintf(sw, "failed:  %s (%v)\n", r.ID, err)
				statuses[i] = types.ConversionFailed
				return nil
			}
			statuses[i] = ConvertResume(c, r, opts, sw)
			return nil
		})
	}
	_ = g.Wait()

	var result BatchResult
	for _, status := range statuses {
		switch status {
		case types.ConversionDone:
			result.Converted++
		case ConversionNone:
			result.Skipped++
		case types.ConversionFailed:
			result.Failed++
		}
	}
	log.Info().
		Int("jobs", jobs).
		Int("converted", result.Converted).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("batch finished")
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}

// ConvertPaths builds Resume records from raw PDF paths and delegates to
// ConvertBatch. Each output is outDir/<base>.json, with the ID derived from
// the file name.
func ConvertPaths(ctx context.Context, c Converter, pdfPaths []string, outDir string, opts BatchOptions, w io.Writer) BatchResult {
	resumes := make([]types.Resume, len(pdfPaths))
	for i, p := range pdfPaths {
		base := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		resumes[i] = types.Resume{
			ID:       base,
			PDFPath:  p,
			JSONPath: filepath.Join(outDir, base+".json"),
		}
	}
	return ConvertBatch(ctx, c, resumes, opts, w)
}

// syncWriter serialises status lines written from concurrent conversions.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
