// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubtator-editor/internal/index"
)

var queryCmd = &cobra.Command{
	Use:   "query FILE [text]",
	Short: "Search annotations across every document in a file",
	Long: `Query loads FILE into an in-memory index and searches its annotations by
text, entity type, normalized identifier, or document. With --stats it
prints per-type counts instead.

Nothing is persisted; the index is rebuilt on every run.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	stats, _ := cmd.Flags().GetBool("stats")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	s, _, err := openSession(args[0], cfg, false)
	if err != nil {
		return err
	}

	ctx := context.Background()
	x, err := index.Open(ctx, cfg.Query)
	if err != nil {
		return err
	}
	defer x.Close()

	if _, err := x.Load(ctx, s.Documents()); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if stats {
		counts, err := x.TypeCounts(ctx)
		if err != nil {
			return err
		}
		return formatStatsOutput(w, counts, jsonOutput)
	}

	opts := queryOptsFromFlags(cmd, args[1:])
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide search text, --type, --norm, or --doc")
	}
	results, err := x.Query(ctx, opts)
	if err != nil {
		return err
	}
	return formatQueryOutput(w, results, jsonOutput)
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) index.QueryOptions {
	text, _ := cmd.Flags().GetString("text")
	if text == "" && len(args) > 0 {
		text = strings.Join(args, " ")
	}
	entityType, _ := cmd.Flags().GetString("type")
	norm, _ := cmd.Flags().GetString("norm")
	docID, _ := cmd.Flags().GetString("doc")
	limit, _ := cmd.Flags().GetInt("limit")

	return index.QueryOptions{
		Text:         text,
		Type:         entityType,
		NormalizedID: norm,
		DocumentID:   docID,
		MaxResults:   limit,
	}
}

func formatQueryOutput(w io.Writer, results []index.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		if results == nil {
			results = []index.QueryResult{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-12s  %-12s  %-13s  %-30s  %s\n", "Rank", "Document", "Type", "Span", "Text", "Normalized")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for i, r := range results {
		doc := truncate(r.ID, 12)
		text := truncate(r.Text, 30)
		span := fmt.Sprintf("[%d,%d)", r.Start, r.End)
		fmt.Fprintf(w, "%-4d  %-12s  %-12s  %-13s  %-30s  %s\n", i+1, doc, r.Type, span, text, r.Normalized())
	}
	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

func formatStatsOutput(w io.Writer, counts []index.TypeCount, jsonOutput bool) error {
	if jsonOutput {
		if counts == nil {
			counts = []index.TypeCount{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(counts)
	}

	fmt.Fprintf(w, "%-20s  %11s  %9s  %8s\n", "Type", "Annotations", "Documents", "Distinct")
	fmt.Fprintln(w, strings.Repeat("-", 56))
	for _, c := range counts {
		fmt.Fprintf(w, "%-20s  %11d  %9d  %8d\n", c.Type, c.Annotations, c.Documents, c.Distinct)
	}
	return nil
}

func init() {
	queryCmd.Flags().String("text", "", "annotation text to search for")
	queryCmd.Flags().String("type", "", "filter by entity type")
	queryCmd.Flags().String("norm", "", "filter by normalized identifier")
	queryCmd.Flags().String("doc", "", "filter by document id")
	queryCmd.Flags().Int("limit", 0, "maximum results (0 = use query.max_results)")
	queryCmd.Flags().Bool("stats", false, "print per-type annotation counts")
	queryCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(queryCmd)
}
