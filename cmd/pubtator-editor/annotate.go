// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubtator-editor/internal/annotate"
	"github.com/pdiddy/pubtator-editor/internal/pubtator"
	"github.com/pdiddy/pubtator-editor/pkg/types"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Add, delete, or re-anchor annotations in a PubTator file",
	Long: `Annotate edits one document of a PubTator file and writes the result back,
to FILE itself unless --out is given. A file with malformed lines is not
overwritten, since they would be dropped, unless --force is set. Use subcommands to add or delete an
annotation or to change a document's title or abstract.`,
}

// --- add subcommand ---

var annotateAddCmd = &cobra.Command{
	Use:   "add FILE",
	Short: "Add an annotation over [start, end) of a document",
	Long: `Add creates an annotation over the byte range [start, end) of the
document's combined text (title, a space, then the abstract). The covered
text is taken from the document unless --text is given. Unknown types are
registered on the fly.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnnotateAdd,
}

func runAnnotateAdd(cmd *cobra.Command, args []string) error {
	docID, _ := cmd.Flags().GetString("doc")
	start, _ := cmd.Flags().GetInt("start")
	end, _ := cmd.Flags().GetInt("end")
	text, _ := cmd.Flags().GetString("text")
	entityType, _ := cmd.Flags().GetString("type")
	norm, _ := cmd.Flags().GetString("norm")

	if entityType == "" {
		return fmt.Errorf("--type is required")
	}

	s, res, err := openDocument(args[0], docID, cfg)
	if err != nil {
		return err
	}

	a := types.Annotation{Start: start, End: end, Text: text, Type: entityType}
	if norm != "" {
		a.NormalizedID = types.StringPtr(norm)
	}
	added, err := s.Add(a)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s [%d,%d) %q\n", added.Type, added.Start, added.End, added.Text)

	return writeBack(cmd, args[0], s, res)
}

// --- delete subcommand ---

var annotateDeleteCmd = &cobra.Command{
	Use:   "delete FILE",
	Short: "Delete the first annotation matching start, end, and text",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnnotateDelete,
}

func runAnnotateDelete(cmd *cobra.Command, args []string) error {
	docID, _ := cmd.Flags().GetString("doc")
	start, _ := cmd.Flags().GetInt("start")
	end, _ := cmd.Flags().GetInt("end")
	text, _ := cmd.Flags().GetString("text")

	s, res, err := openDocument(args[0], docID, cfg)
	if err != nil {
		return err
	}

	if text == "" {
		d, err := s.Current()
		if err != nil {
			return err
		}
		combined := d.CombinedText()
		if start < 0 || start >= end || end > len(combined) {
			return fmt.Errorf("[%d,%d): %w", start, end, annotate.ErrInvalidSpan)
		}
		text = combined[start:end]
	}

	i, err := s.FindIndex(types.Annotation{Start: start, End: end, Text: text})
	if err != nil {
		return err
	}
	if err := s.Delete(i); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted [%d,%d) %q\n", start, end, text)

	return writeBack(cmd, args[0], s, res)
}

// --- set-text subcommand ---

var annotateSetTextCmd = &cobra.Command{
	Use:   "set-text FILE",
	Short: "Change a document's title or abstract and re-anchor its annotations",
	Long: `Set-text replaces the title and/or abstract of a document. Every annotation
is relocated to where its text now occurs, nearest its old position.
Annotations whose text no longer occurs are dropped and listed.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnnotateSetText,
}

func runAnnotateSetText(cmd *cobra.Command, args []string) error {
	docID, _ := cmd.Flags().GetString("doc")

	s, res, err := openDocument(args[0], docID, cfg)
	if err != nil {
		return err
	}

	var lost []types.Annotation
	if cmd.Flags().Changed("title") {
		title, _ := cmd.Flags().GetString("title")
		l, err := s.SetTitle(title)
		if err != nil {
			return err
		}
		lost = append(lost, l...)
	}
	if cmd.Flags().Changed("abstract") {
		abstract, _ := cmd.Flags().GetString("abstract")
		l, err := s.SetAbstract(abstract)
		if err != nil {
			return err
		}
		lost = append(lost, l...)
	}

	w := cmd.OutOrStdout()
	for _, a := range lost {
		fmt.Fprintf(w, "Dropped %s [%d,%d) %q: text no longer present\n", a.Type, a.Start, a.End, a.Text)
	}
	return writeBack(cmd, args[0], s, res)
}

// writeBack saves the session to --out, or over the input file when
// nothing was skipped while parsing it.
func writeBack(cmd *cobra.Command, input string, s *annotate.Session, res *pubtator.Result) error {
	out, _ := cmd.Flags().GetString("out")
	force, _ := cmd.Flags().GetBool("force")
	if out == "" {
		out = input
	}
	if err := checkOverwrite(input, out, res, force); err != nil {
		return err
	}
	return saveDocuments(cmd.OutOrStdout(), out, s.Documents(), pubtator.FormatPubTator, cfg)
}

func init() {
	annotateCmd.PersistentFlags().String("doc", "", "document id (default: first document)")
	annotateCmd.PersistentFlags().String("out", "", "output path (default: overwrite FILE)")
	annotateCmd.PersistentFlags().Bool("force", false, "overwrite FILE even if lines were skipped while parsing it")

	annotateAddCmd.Flags().Int("start", 0, "start offset (inclusive)")
	annotateAddCmd.Flags().Int("end", 0, "end offset (exclusive)")
	annotateAddCmd.Flags().String("text", "", "annotation text (default: the covered text)")
	annotateAddCmd.Flags().String("type", "", "entity type")
	annotateAddCmd.Flags().String("norm", "", "normalized ontology identifier")

	annotateDeleteCmd.Flags().Int("start", 0, "start offset (inclusive)")
	annotateDeleteCmd.Flags().Int("end", 0, "end offset (exclusive)")
	annotateDeleteCmd.Flags().String("text", "", "annotation text (default: the covered text)")

	annotateSetTextCmd.Flags().String("title", "", "new title")
	annotateSetTextCmd.Flags().String("abstract", "", "new abstract")

	annotateCmd.AddCommand(annotateAddCmd)
	annotateCmd.AddCommand(annotateDeleteCmd)
	annotateCmd.AddCommand(annotateSetTextCmd)

	rootCmd.AddCommand(annotateCmd)
}
