// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubtator

import (
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubtator-editor/pkg/types"
)

// Format names an export format.
type Format string

const (
	FormatPubTator Format = "pubtator"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// ParseFormat validates a format name. The empty string selects PubTator.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatPubTator:
		return FormatPubTator, nil
	case FormatJSON, FormatYAML:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported format %q: use pubtator, json, or yaml", s)
	}
}

// Export writes docs to w in the given format.
func Export(w io.Writer, docs []types.Document, format Format) error {
	switch format {
	case "", FormatPubTator:
		_, err := io.WriteString(w, Serialize(docs))
		return err
	case FormatJSON:
		return ExportJSON(w, docs)
	case FormatYAML:
		return ExportYAML(w, docs)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// ExportJSON writes docs as an indented JSON array.
func ExportJSON(w io.Writer, docs []types.Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(nonNil(docs)); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

// ExportYAML writes docs as a YAML sequence.
func ExportYAML(w io.Writer, docs []types.Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(nonNil(docs)); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

func nonNil(docs []types.Document) []types.Document {
	if docs == nil {
		return []types.Document{}
	}
	return docs
}
