package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/article-engine/internal/assemble"
	"github.com/pdiddy/article-engine/pkg/types"
)

var previewCmd = &cobra.Command{
	Use:   "preview [keyword]",
	Short: "Render an assembled article as HTML",
	Long: `Preview renders a previously assembled article's markdown body to
HTML on stdout, front matter stripped. Useful for eyeballing the output
before publishing.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("out", "", "write HTML to a file instead of stdout")

	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	subject := types.NewSubject(args[0])
	cfg := pipelineConfig(cmd)

	path := filepath.Join(cfg.Output.ArticlesDir, subject.Slug+".md")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("no assembled article for %q: %w", subject.Keyword, err)
	}

	html, err := assemble.RenderHTML(string(data))
	if err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("out")
	if outPath == "" {
		fmt.Print(html)
		return nil
	}
	if err := os.WriteFile(outPath, []byte(html), 0o644); err != nil {
		return fmt.Errorf("writing preview: %w", err)
	}
	fmt.Printf("Wrote %s\n", outPath)
	return nil
}
