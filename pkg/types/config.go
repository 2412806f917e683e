// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is text or json (default text).
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// RegistryConfig holds settings for the entity type registry.
type RegistryConfig struct {
	// SeedTypes are always present in the registry. Empty uses the built-in seed.
	SeedTypes []string `json:"seed_types" yaml:"seed_types" mapstructure:"seed_types"`
}

// SegmentConfig holds settings for the segmentation engine.
type SegmentConfig struct {
	// MaxPotentialLength is the longest annotation text, in bytes, that is
	// searched for as a potential match (default 50).
	MaxPotentialLength int `json:"max_potential_length" yaml:"max_potential_length" mapstructure:"max_potential_length"`

	// Potential enables the potential-match pass (default true).
	Potential bool `json:"potential" yaml:"potential" mapstructure:"potential"`
}

// StoreConfig holds settings for the annotation store.
type StoreConfig struct {
	// ResortOnEdit re-sorts a document's annotations after an edit that
	// changes offsets. Off by default.
	ResortOnEdit bool `json:"resort_on_edit" yaml:"resort_on_edit" mapstructure:"resort_on_edit"`
}

// ExportConfig holds settings for writing exported files.
type ExportConfig struct {
	// FallbackDir receives the export when the requested path cannot be
	// written (default: the OS temp directory).
	FallbackDir string `json:"fallback_dir" yaml:"fallback_dir" mapstructure:"fallback_dir"`
}

// QueryConfig holds settings for the corpus query index.
type QueryConfig struct {
	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// EditorConfig groups all configuration for the editor.
type EditorConfig struct {
	Log      LogConfig      `json:"log" yaml:"log" mapstructure:"log"`
	Registry RegistryConfig `json:"registry" yaml:"registry" mapstructure:"registry"`
	Segment  SegmentConfig  `json:"segment" yaml:"segment" mapstructure:"segment"`
	Store    StoreConfig    `json:"store" yaml:"store" mapstructure:"store"`
	Export   ExportConfig   `json:"export" yaml:"export" mapstructure:"export"`
	Query    QueryConfig    `json:"query" yaml:"query" mapstructure:"query"`
}

// DefaultEditorConfig returns the configuration used when no file or
// environment overrides are present.
func DefaultEditorConfig() EditorConfig {
	return EditorConfig{
		Log:     LogConfig{Level: "info", Format: "text"},
		Segment: SegmentConfig{MaxPotentialLength: 50, Potential: true},
		Query:   QueryConfig{MaxResults: 20},
	}
}
