// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the article-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/article-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, otherwise the secret value for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the article-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "article-engine",
	Short: "Keyword-to-article SEO content pipeline",
	Long: `article-engine turns keywords into publish-ready SEO articles. Each
keyword flows through research, structuring, enhancement, a quality-gated
improvement loop, image generation, and markdown assembly.

Every stage result is cached on disk, so interrupted or re-run pipelines
resume where they left off. Without API keys the pipeline runs entirely on
deterministic mock providers.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./article-engine.yaml or ~/.config/article-engine/config.yaml)")
	rootCmd.PersistentFlags().String("cache-dir", "", "base directory for stage artifacts and workflow state (default cache)")
	rootCmd.PersistentFlags().String("index-dir", "", "directory for the run ledger database (default index)")
	rootCmd.PersistentFlags().String("articles-dir", "", "directory for assembled markdown articles (default articles)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("article-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "article-engine"))
		}
	}

	viper.SetEnvPrefix("ARTICLE_ENGINE")
	viper.AutomaticEnv()

	viper.SetDefault("store.cache_dir", "cache")
	viper.SetDefault("store.index_dir", "index")
	viper.SetDefault("output.articles_dir", "articles")
	viper.SetDefault("content.model", "gpt-4o-mini")
	viper.SetDefault("images.model", "dall-e-3")
	viper.SetDefault("images.size", "1024x1024")
	viper.SetDefault("images.count", 4)
	viper.SetDefault("quality.min_score", 85)
	viper.SetDefault("quality.max_attempts", 3)
	viper.SetDefault("research.max_results", 10)
	viper.SetDefault("content.max_retries", 3)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
