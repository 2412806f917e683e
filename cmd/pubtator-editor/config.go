// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/pubtator-editor/internal/annotate"
	"github.com/pdiddy/pubtator-editor/internal/registry"
	"github.com/pdiddy/pubtator-editor/internal/segment"
	"github.com/pdiddy/pubtator-editor/pkg/types"
)

// setConfigDefaults registers DefaultEditorConfig with v so that file and
// environment values only override what they name.
func setConfigDefaults(v *viper.Viper) {
	d := types.DefaultEditorConfig()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("registry.seed_types", registry.DefaultSeed)
	v.SetDefault("segment.max_potential_length", d.Segment.MaxPotentialLength)
	v.SetDefault("segment.potential", d.Segment.Potential)
	v.SetDefault("store.resort_on_edit", d.Store.ResortOnEdit)
	v.SetDefault("export.fallback_dir", d.Export.FallbackDir)
	v.SetDefault("query.max_results", d.Query.MaxResults)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

// loadEditorConfig decodes the global viper state.
func loadEditorConfig() (types.EditorConfig, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (types.EditorConfig, error) {
	var c types.EditorConfig
	if err := v.Unmarshal(&c); err != nil {
		return types.EditorConfig{}, fmt.Errorf("decoding configuration: %w", err)
	}
	if c.Segment.MaxPotentialLength < 0 {
		return types.EditorConfig{}, fmt.Errorf("segment.max_potential_length must not be negative, got %d",
			c.Segment.MaxPotentialLength)
	}
	return c, nil
}

// sessionOptions maps configuration onto annotate.Options.
func sessionOptions(c types.EditorConfig) annotate.Options {
	return annotate.Options{
		ResortOnEdit: c.Store.ResortOnEdit,
		Segment: segment.Options{
			MaxPotentialLength: c.Segment.MaxPotentialLength,
			DisablePotential:   !c.Segment.Potential,
		},
	}
}

// newRegistry seeds a registry from configuration.
func newRegistry(c types.EditorConfig) *registry.Registry {
	if len(c.Registry.SeedTypes) == 0 {
		return registry.New()
	}
	return registry.New(c.Registry.SeedTypes...)
}
