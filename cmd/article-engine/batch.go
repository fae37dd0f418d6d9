package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/article-engine/pkg/types"
)

const defaultBatchDelay = 1 * time.Second

var batchCmd = &cobra.Command{
	Use:   "batch [keywords-file]",
	Short: "Generate articles for a file of keywords",
	Long: `Batch reads keywords from a file, one per line, and runs the full
pipeline for each in order. Blank lines and lines starting with # are
skipped. Subjects are processed strictly sequentially with a configurable
delay between them; one keyword's failure is reported and does not stop
the rest.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().Duration("delay", 0, "delay between consecutive keywords (default 1s)")
	batchCmd.Flags().Int("min-score", 0, "quality score threshold (default 85)")
	batchCmd.Flags().Int("max-attempts", 0, "maximum scoring attempts in the improvement loop (default 3)")
	batchCmd.Flags().Bool("skip-images", false, "skip image generation entirely")
	batchCmd.Flags().Bool("force", false, "ignore cached stage artifacts and regenerate")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	subjects, err := readKeywords(args[0])
	if err != nil {
		return err
	}
	if len(subjects) == 0 {
		return fmt.Errorf("no keywords found in %s", args[0])
	}

	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultBatchDelay
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
	orch.SkipImages, _ = cmd.Flags().GetBool("skip-images")
	orch.ForceRefresh, _ = cmd.Flags().GetBool("force")

	_, summary := orch.ProcessAll(cmdContext(cmd), subjects, delay)
	if summary.HasFailures() {
		return fmt.Errorf("%d keyword(s) failed", summary.Failed)
	}
	return nil
}

// readKeywords parses a newline-separated keyword file, skipping blanks and
// # comments, and deduplicates by slug so a subject is processed once.
func readKeywords(path string) ([]types.Subject, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening keywords file: %w", err)
	}
	defer f.Close()

	var subjects []types.Subject
	seen := map[string]bool{}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		subject := types.NewSubject(line)
		if subject.Slug == "" || seen[subject.Slug] {
			continue
		}
		seen[subject.Slug] = true
		subjects = append(subjects, subject)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading keywords file: %w", err)
	}
	return subjects, nil
}
