// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/article-engine/internal/store"
	"github.com/pdiddy/article-engine/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Inspect and manage cached stage artifacts",
	Long: `Store manages the on-disk artifact cache the pipeline resumes from.
Use subcommands to list cached subjects, show a subject's artifacts and
run history, or invalidate artifacts so stages regenerate.`,
}

// --- list subcommand ---

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List subjects with cached artifacts",
	RunE:  runStoreList,
}

func runStoreList(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)
	s := store.New(cfg.Store.CacheDir)

	slugs, err := s.Slugs()
	if err != nil {
		return err
	}
	if len(slugs) == 0 {
		fmt.Println("No cached subjects.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-40s  %-10s  %s\n", "Slug", "Stages", "First incomplete")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 70))
	for _, slug := range slugs {
		arts, err := s.Artifacts(slug)
		if err != nil {
			return err
		}
		ws, err := s.LoadWorkflow(types.Subject{Keyword: slug, Slug: slug})
		if err != nil {
			return err
		}
		next := "-"
		if stage, incomplete := ws.FirstIncomplete(); incomplete {
			next = string(stage)
		}
		fmt.Fprintf(os.Stdout, "%-40s  %-10d  %s\n", slug, len(arts), next)
	}
	fmt.Fprintf(os.Stdout, "\n%d subject(s)\n", len(slugs))
	return nil
}

// --- show subcommand ---

var storeShowCmd = &cobra.Command{
	Use:   "show [keyword]",
	Short: "Show a subject's cached artifacts and run history",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreShow,
}

func runStoreShow(cmd *cobra.Command, args []string) error {
	subject := types.NewSubject(args[0])
	cfg := pipelineConfig(cmd)
	s := store.New(cfg.Store.CacheDir)

	arts, err := s.Artifacts(subject.Slug)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(arts)
	}

	if len(arts) == 0 {
		fmt.Printf("No artifacts for %s.\n", subject.Slug)
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-10s  %-10s  %-20s  %s\n", "Stage", "Source", "Created", "Bytes")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 55))
	for _, a := range arts {
		fmt.Fprintf(os.Stdout, "%-10s  %-10s  %-20s  %d\n",
			a.Stage, a.SourceKind, a.CreatedAt.Format("2006-01-02 15:04:05"), len(a.Payload))
	}

	ledger, err := store.OpenLedger(cfg.Store.IndexDir)
	if err != nil {
		return nil
	}
	defer ledger.Close()

	runs, err := ledger.RunsFor(subject.Slug)
	if err != nil || len(runs) == 0 {
		return nil
	}
	fmt.Fprintln(os.Stdout)
	printRuns(runs)
	return nil
}

// --- invalidate subcommand ---

var storeInvalidateCmd = &cobra.Command{
	Use:   "invalidate [keyword]",
	Short: "Remove cached artifacts so stages regenerate",
	Long: `Invalidate removes a subject's cached artifacts. With --stage only
that stage's artifact is removed; later stages keep their artifacts and
are reused on the next run. Without --stage the subject's whole cache
entry, workflow state included, is removed.`,
	Args: cobra.ExactArgs(1),
	RunE: runStoreInvalidate,
}

func runStoreInvalidate(cmd *cobra.Command, args []string) error {
	subject := types.NewSubject(args[0])
	cfg := pipelineConfig(cmd)
	s := store.New(cfg.Store.CacheDir)

	stageName, _ := cmd.Flags().GetString("stage")
	if stageName == "" {
		if err := s.InvalidateAll(subject.Slug); err != nil {
			return err
		}
		fmt.Printf("Invalidated all artifacts for %s\n", subject.Slug)
		return nil
	}

	stage := types.Stage(stageName)
	if !validStage(stage) {
		return fmt.Errorf("unknown stage %q: use one of %s", stageName, stageNames())
	}
	if err := s.Invalidate(subject.Slug, stage); err != nil {
		return err
	}
	fmt.Printf("Invalidated %s/%s\n", subject.Slug, stage)
	return nil
}

func validStage(stage types.Stage) bool {
	for _, s := range types.PipelineStages {
		if s == stage {
			return true
		}
	}
	return false
}

func stageNames() string {
	names := make([]string, len(types.PipelineStages))
	for i, s := range types.PipelineStages {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// --- runs subcommand ---

var storeRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recent pipeline runs from the ledger",
	RunE:  runStoreRuns,
}

func runStoreRuns(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)

	ledger, err := store.OpenLedger(cfg.Store.IndexDir)
	if err != nil {
		return err
	}
	defer ledger.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := ledger.Runs(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}
	printRuns(runs)
	return nil
}

func printRuns(runs []store.RunRecord) {
	fmt.Fprintf(os.Stdout, "%-30s  %-10s  %-10s  %-6s  %-20s  %s\n",
		"Keyword", "Status", "Stage", "Score", "Started", "Error")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, r := range runs {
		keyword := r.Keyword
		if len(keyword) > 30 {
			keyword = keyword[:27] + "..."
		}
		errMsg := r.Error
		if len(errMsg) > 40 {
			errMsg = errMsg[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-30s  %-10s  %-10s  %-6d  %-20s  %s\n",
			keyword, r.Status, r.Stage, r.Score, r.StartedAt.Format("2006-01-02 15:04:05"), errMsg)
	}
	fmt.Fprintf(os.Stdout, "\n%d run(s)\n", len(runs))
}

func init() {
	storeShowCmd.Flags().Bool("json", false, "output artifacts as JSON")
	storeInvalidateCmd.Flags().String("stage", "", "invalidate only this stage's artifact")
	storeRunsCmd.Flags().Int("limit", 0, "maximum runs to show (0 = 20)")

	storeCmd.AddCommand(storeListCmd)
	storeCmd.AddCommand(storeShowCmd)
	storeCmd.AddCommand(storeInvalidateCmd)
	storeCmd.AddCommand(storeRunsCmd)

	rootCmd.AddCommand(storeCmd)
}
