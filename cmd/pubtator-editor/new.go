// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubtator-editor/internal/annotate"
	"github.com/pdiddy/pubtator-editor/internal/pubtator"
)

var newCmd = &cobra.Command{
	Use:   "new FILE",
	Short: "Append a new, empty document to a PubTator file",
	Long: `New appends a document with a generated id to FILE, creating the file if
it does not exist. The title defaults to a placeholder.`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func runNew(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	abstract, _ := cmd.Flags().GetString("abstract")
	force, _ := cmd.Flags().GetBool("force")

	s, res, err := openSession(args[0], cfg, false)
	if errors.Is(err, fs.ErrNotExist) {
		s = annotate.NewSession(nil, newRegistry(cfg), sessionOptions(cfg))
	} else if err != nil {
		return err
	}
	if err := checkOverwrite(args[0], args[0], res, force); err != nil {
		return err
	}

	d := s.NewDocument()
	if title != "" {
		d.Title = title
	}
	d.Abstract = abstract
	fmt.Fprintf(cmd.OutOrStdout(), "Created document %s\n", d.ID)

	return saveDocuments(cmd.OutOrStdout(), args[0], s.Documents(), pubtator.FormatPubTator, cfg)
}

func init() {
	newCmd.Flags().String("title", "", "document title (default: "+annotate.PlaceholderTitle+")")
	newCmd.Flags().String("abstract", "", "document abstract")
	newCmd.Flags().Bool("force", false, "rewrite FILE even if lines were skipped while parsing it")

	rootCmd.AddCommand(newCmd)
}
