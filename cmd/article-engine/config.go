// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/article-engine/internal/pipeline"
	"github.com/pdiddy/article-engine/internal/providers"
	"github.com/pdiddy/article-engine/internal/store"
	"github.com/pdiddy/article-engine/pkg/types"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	defaultUserAgent   = "article-engine/0.1"
)

// pipelineConfig assembles the effective configuration from viper (config
// file and environment), flags, and loaded secrets. Flags win over config
// values; secrets fill API keys the config leaves empty.
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	cacheDir := stringFlagOr(cmd, "cache-dir", viper.GetString("store.cache_dir"))
	indexDir := stringFlagOr(cmd, "index-dir", viper.GetString("store.index_dir"))
	articlesDir := stringFlagOr(cmd, "articles-dir", viper.GetString("output.articles_dir"))

	openaiKey := secretDefault("openai-api-key", viper.GetString("content.api_key"))
	serpKey := secretDefault("serp-api-key", viper.GetString("research.api_key"))

	return types.PipelineConfig{
		Research: types.ResearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   defaultHTTPTimeout,
				UserAgent: defaultUserAgent,
			},
			APIKey:     serpKey,
			MaxResults: viper.GetInt("research.max_results"),
		},
		Content: types.AIConfig{
			Model:      viper.GetString("content.model"),
			APIKey:     openaiKey,
			BaseURL:    viper.GetString("content.base_url"),
			MaxRetries: viper.GetInt("content.max_retries"),
		},
		Images: types.ImageConfig{
			AIConfig: types.AIConfig{
				Model:      viper.GetString("images.model"),
				APIKey:     openaiKey,
				BaseURL:    viper.GetString("images.base_url"),
				MaxRetries: viper.GetInt("images.max_retries"),
			},
			Count: viper.GetInt("images.count"),
			Size:  viper.GetString("images.size"),
		},
		Quality: types.QualityConfig{
			MinScore:    viper.GetInt("quality.min_score"),
			MaxAttempts: viper.GetInt("quality.max_attempts"),
		},
		Store: types.StoreConfig{
			CacheDir: cacheDir,
			IndexDir: indexDir,
		},
		Output: types.OutputConfig{
			ArticlesDir: articlesDir,
		},
	}
}

// stringFlagOr returns the flag value when set, otherwise fallback.
func stringFlagOr(cmd *cobra.Command, name, fallback string) string {
	v, _ := cmd.Flags().GetString(name)
	if v != "" {
		return v
	}
	return fallback
}

// newOrchestrator builds the pipeline orchestrator from cfg. The returned
// cleanup function closes the run ledger and must be called when processing
// ends.
func newOrchestrator(cfg types.PipelineConfig) (*pipeline.Orchestrator, func()) {
	set := providers.New(cfg, os.Stderr)

	cleanup := func() {}
	ledger, err := store.OpenLedger(cfg.Store.IndexDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: run ledger disabled: %v\n", err)
		ledger = nil
	} else {
		cleanup = func() { ledger.Close() }
	}

	orch := &pipeline.Orchestrator{
		Providers:   set,
		Store:       store.New(cfg.Store.CacheDir),
		Ledger:      ledger,
		MinScore:    cfg.Quality.MinScore,
		MaxAttempts: cfg.Quality.MaxAttempts,
		ImageCount:  cfg.Images.Count,
		ArticlesDir: cfg.Output.ArticlesDir,
		Out:         os.Stdout,
	}
	return orch, cleanup
}
