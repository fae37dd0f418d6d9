package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/article-engine/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate [keyword]",
	Short: "Generate one article from a keyword",
	Long: `Generate runs the full pipeline for a single keyword: research,
structuring, enhancement, quality-gated improvement, image generation, and
markdown assembly. Completed stages from a prior run are reused from the
artifact cache; use --force to regenerate everything.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Int("min-score", 0, "quality score threshold (default 85)")
	generateCmd.Flags().Int("max-attempts", 0, "maximum scoring attempts in the improvement loop (default 3)")
	generateCmd.Flags().Int("image-count", 0, "images to generate, header included (default 4)")
	generateCmd.Flags().Bool("skip-images", false, "skip image generation entirely")
	generateCmd.Flags().Bool("force", false, "ignore cached stage artifacts and regenerate")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	subject := types.NewSubject(args[0])
	if subject.Slug == "" {
		return fmt.Errorf("keyword %q produces an empty slug", args[0])
	}

	cfg := pipelineConfig(cmd)
	orch, cleanup := newOrchestrator(cfg)
	defer cleanup()

	if v, _ := cmd.Flags().GetInt("min-score"); v > 0 {
		orch.MinScore = v
	}
	if v, _ := cmd.Flags().GetInt("max-attempts"); v > 0 {
		orch.MaxAttempts = v
	}
	if v, _ := cmd.Flags().GetInt("image-count"); v > 0 {
		orch.ImageCount = v
	}
	orch.SkipImages, _ = cmd.Flags().GetBool("skip-images")
	orch.ForceRefresh, _ = cmd.Flags().GetBool("force")

	article, err := orch.Process(cmdContext(cmd), subject)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %s (score %d)\n", article.Path, article.Assessment.OverallScore)
	return nil
}

// cmdContext returns the command's context, falling back to Background for
// commands constructed outside Execute.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
