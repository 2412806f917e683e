// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pubtator-editor CLI. It is the
// presentation layer over the annotation core: it reads PubTator files,
// applies edits through an annotate.Session, prints segment lists, and
// writes exports.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubtator-editor/internal/logging"
	"github.com/pdiddy/pubtator-editor/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg holds the configuration resolved before each command runs.
var cfg = types.DefaultEditorConfig()

// rootCmd is the base command for the pubtator-editor CLI.
var rootCmd = &cobra.Command{
	Use:   "pubtator-editor",
	Short: "Inspect and edit PubTator entity annotations",
	Long: `pubtator-editor reads biomedical documents in the line-oriented PubTator
format (title, abstract, and character-offset entity annotations), shows how
their text segments into explicit annotations, potential matches, and search
hits, and edits or exports the annotation set.

Each operation is a subcommand: parse, types, segment, export, annotate, new,
and query. Files are always parsed in full; malformed lines are reported and
skipped.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadEditorConfig()
		if err != nil {
			return err
		}
		cfg = loaded
		if _, err := logging.Init(os.Stderr, cfg.Log.Level, cfg.Log.Format); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pubtator-editor.yaml or ~/.config/pubtator-editor/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: text or json")

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	setConfigDefaults(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pubtator-editor")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pubtator-editor"))
		}
	}

	viper.SetEnvPrefix("PUBTATOR_EDITOR")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
