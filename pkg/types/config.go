// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// LayoutConfig holds the geometry thresholds the span source uses to rebuild
// lines, spans and blocks from positioned glyphs. All values are multiples
// of the current font size.
type LayoutConfig struct {
	// LineTolerance is the maximum baseline drift for glyphs on one line (default 0.3).
	LineTolerance float64 `json:"line_tolerance" yaml:"line_tolerance" mapstructure:"line_tolerance"`

	// WordGap is the horizontal gap above which a space is inserted (default 0.25).
	WordGap float64 `json:"word_gap" yaml:"word_gap" mapstructure:"word_gap"`

	// BlockGap is the vertical line distance above which a new block starts (default 1.8).
	BlockGap float64 `json:"block_gap" yaml:"block_gap" mapstructure:"block_gap"`
}

// DefaultLayoutConfig returns the thresholds tuned for single-column resumes.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		LineTolerance: 0.3,
		WordGap:       0.25,
		BlockGap:      1.8,
	}
}

// ParseConfig holds settings for the structuring pipeline.
type ParseConfig struct {
	// Granular discriminates styles by size, flags, font and color instead
	// of size alone.
	Granular bool `json:"granular" yaml:"granular" mapstructure:"granular"`

	// Strict aborts on the first structural fault instead of reporting it.
	Strict bool `json:"strict" yaml:"strict" mapstructure:"strict"`

	// RulesFile is an optional YAML file overriding the extraction rules.
	RulesFile string `json:"rules_file,omitempty" yaml:"rules_file,omitempty" mapstructure:"rules_file"`

	// Validate checks output against the record JSON Schema before writing (default true).
	Validate bool `json:"validate" yaml:"validate" mapstructure:"validate"`
}

// BatchConfig holds settings for multi-file conversion.
type BatchConfig struct {
	// Jobs is the maximum number of documents parsed concurrently (default 4).
	Jobs int `json:"jobs" yaml:"jobs" mapstructure:"jobs"`

	// OutDir is the directory JSON files are written to.
	OutDir string `json:"out_dir" yaml:"out_dir" mapstructure:"out_dir"`

	// Force rewrites outputs that already exist.
	Force bool `json:"force" yaml:"force" mapstructure:"force"`
}

// StoreConfig holds settings for the SQLite resume index.
type StoreConfig struct {
	// DBPath is the SQLite database file (default "resumes.db").
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is a zerolog level name: debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "console" (human readable, default) or "json".
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all settings read from the config file and environment.
type Config struct {
	Parse  ParseConfig  `json:"parse" yaml:"parse" mapstructure:"parse"`
	Layout LayoutConfig `json:"layout" yaml:"layout" mapstructure:"layout"`
	Batch  BatchConfig  `json:"batch" yaml:"batch" mapstructure:"batch"`
	Store  StoreConfig  `json:"store" yaml:"store" mapstructure:"store"`
	Log    LogConfig    `json:"log" yaml:"log" mapstructure:"log"`
}
