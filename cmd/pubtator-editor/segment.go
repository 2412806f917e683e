// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubtator-editor/pkg/types"
)

var segmentCmd = &cobra.Command{
	Use:   "segment FILE",
	Short: "Show how a document's text splits into highlighted segments",
	Long: `Segment partitions a document's combined title and abstract into plain
text, explicit annotations, potential matches (unannotated repeats of
annotated text), and matches of an optional search pattern.

The pattern is a case-insensitive regular expression. An invalid pattern
matches nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: runSegment,
}

func runSegment(cmd *cobra.Command, args []string) error {
	docID, _ := cmd.Flags().GetString("doc")
	pattern, _ := cmd.Flags().GetString("pattern")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	highlightsOnly, _ := cmd.Flags().GetBool("highlights")

	s, _, err := openDocument(args[0], docID, cfg)
	if err != nil {
		return err
	}
	segs, err := s.Segments(pattern)
	if err != nil {
		return err
	}
	if highlightsOnly {
		segs = highlights(segs)
	}
	return formatSegmentOutput(cmd.OutOrStdout(), segs, jsonOutput)
}

func highlights(segs []types.Segment) []types.Segment {
	out := make([]types.Segment, 0, len(segs))
	for _, s := range segs {
		if s.Kind.Highlighted() {
			out = append(out, s)
		}
	}
	return out
}

func formatSegmentOutput(w io.Writer, segs []types.Segment, jsonOutput bool) error {
	if jsonOutput {
		if segs == nil {
			segs = []types.Segment{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(segs)
	}

	if len(segs) == 0 {
		fmt.Fprintln(w, "No segments.")
		return nil
	}

	fmt.Fprintf(w, "%-6s  %-6s  %-10s  %-16s  %s\n", "Start", "End", "Kind", "Type", "Text")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, s := range segs {
		text := truncate(strings.ReplaceAll(s.Text, "\n", " "), 40)
		fmt.Fprintf(w, "%-6d  %-6d  %-10s  %-16s  %q\n", s.Start, s.End, s.Kind, s.Type(), text)
	}
	return nil
}

func init() {
	segmentCmd.Flags().String("doc", "", "document id (default: first document)")
	segmentCmd.Flags().String("pattern", "", "case-insensitive search pattern to highlight")
	segmentCmd.Flags().Bool("highlights", false, "omit plain segments")
	segmentCmd.Flags().Bool("json", false, "output segments as JSON")

	rootCmd.AddCommand(segmentCmd)
}
