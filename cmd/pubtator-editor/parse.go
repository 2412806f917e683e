// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubtator-editor/internal/pubtator"
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Parse a PubTator file and report its contents and problems",
	Long: `Parse reads a PubTator file, summarizes the documents, annotations, and
entity types it contains, and lists every line that had to be skipped.

Skipped lines do not fail the command unless --strict is set.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

// parseReport is the --json form of the parse summary.
type parseReport struct {
	File        string      `json:"file"`
	Documents   int         `json:"documents"`
	Annotations int         `json:"annotations"`
	EntityTypes []string    `json:"entity_types"`
	Errors      []lineIssue `json:"errors"`
}

type lineIssue struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
	Text  string `json:"text"`
}

func runParse(cmd *cobra.Command, args []string) error {
	strict, _ := cmd.Flags().GetBool("strict")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	res, err := pubtator.ReadFile(args[0])
	if err != nil {
		return err
	}

	if err := formatParseOutput(cmd.OutOrStdout(), args[0], res, jsonOutput); err != nil {
		return err
	}
	if strict && len(res.Errors) > 0 {
		return fmt.Errorf("%d malformed line(s)", len(res.Errors))
	}
	return nil
}

func formatParseOutput(w io.Writer, file string, res *pubtator.Result, jsonOutput bool) error {
	report := parseReport{
		File:        file,
		Documents:   len(res.Documents),
		Annotations: res.AnnotationCount(),
		EntityTypes: res.SortedTypes(),
		Errors:      []lineIssue{},
	}
	for _, le := range res.Errors {
		report.Errors = append(report.Errors, lineIssue{Line: le.Line, Error: le.Err.Error(), Text: le.Text})
	}

	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintf(w, "documents:    %d\n", report.Documents)
	fmt.Fprintf(w, "annotations:  %d\n", report.Annotations)
	fmt.Fprintf(w, "entity types: %d %v\n", len(report.EntityTypes), report.EntityTypes)
	if len(report.Errors) == 0 {
		return nil
	}
	fmt.Fprintf(w, "\n%d skipped line(s):\n", len(report.Errors))
	for _, e := range report.Errors {
		fmt.Fprintf(w, "  line %-5d %s\n", e.Line, e.Error)
	}
	return nil
}

func init() {
	parseCmd.Flags().Bool("strict", false, "fail when any line is skipped")
	parseCmd.Flags().Bool("json", false, "output the report as JSON")

	rootCmd.AddCommand(parseCmd)
}
