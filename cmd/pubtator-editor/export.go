// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/pubtator-editor/internal/pubtator"
)

var exportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Export a PubTator file as PubTator, JSON, or YAML",
	Long: `Export parses FILE and writes its documents in the requested format.
PubTator output is normalized: one blank line after every document and
annotations in stored order.

When the output path cannot be written, the export is saved under the
configured fallback directory (export.fallback_dir, default the system
temp directory) instead of being dropped.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")
	strict, _ := cmd.Flags().GetBool("strict")

	format, err := pubtator.ParseFormat(formatName)
	if err != nil {
		return err
	}

	s, _, err := openSession(args[0], cfg, strict)
	if err != nil {
		return err
	}

	if out == "-" {
		return pubtator.Export(cmd.OutOrStdout(), s.Documents(), format)
	}
	if out == "" {
		out = defaultExportPath(args[0], format)
	}
	return saveDocuments(cmd.OutOrStdout(), out, s.Documents(), format, cfg)
}

func init() {
	exportCmd.Flags().String("format", "pubtator", "export format: pubtator, json, or yaml")
	exportCmd.Flags().String("out", "", "output path, or - for stdout (default: derived from FILE)")
	exportCmd.Flags().Bool("strict", false, "refuse to export when any line is skipped")

	rootCmd.AddCommand(exportCmd)
}
