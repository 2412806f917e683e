// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubtator-editor/internal/registry"
)

var typesCmd = &cobra.Command{
	Use:   "types [FILE]",
	Short: "List known entity types with their display colours",
	Long: `Types lists the configured seed entity types plus every type found in FILE,
sorted alphabetically, with the colour each one is rendered in.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := newRegistry(cfg)
		if len(args) == 1 {
			s, _, err := openSession(args[0], cfg, false)
			if err != nil {
				return err
			}
			reg = s.Registry()
		}

		w := cmd.OutOrStdout()
		for _, t := range reg.Sorted() {
			fmt.Fprintf(w, "%-20s %s\n", t, registry.Color(t))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
}
