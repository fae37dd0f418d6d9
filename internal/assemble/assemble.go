// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble produces the final markdown document for a subject:
// YAML front matter, the refined body, and in-body images spliced according
// to a placement plan.
package assemble

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/article-engine/internal/placement"
	"github.com/pdiddy/article-engine/pkg/types"
)

// FrontMatter is the structured block at the top of the generated document.
type FrontMatter struct {
	// Title is the article title.
	Title string `yaml:"title"`

	// Description is the meta description.
	Description string `yaml:"description"`

	// Date is the publish date.
	Date time.Time `yaml:"date"`

	// Tags lists topic tags.
	Tags []string `yaml:"tags"`

	// Image is the header image URL, omitted when images were skipped.
	Image string `yaml:"image,omitempty"`
}

// Article assembles the final document for subject from the refined draft
// and the generated images. images may be empty (image generation skipped);
// otherwise images[0] becomes the header image and the rest are spliced into
// the body via the placement plan.
func Article(subject types.Subject, refined types.RefinedContent, imgs []types.ImageRef, publishedAt time.Time) (types.FinalArticle, error) {
	draft := refined.Draft

	fm := FrontMatter{
		Title:       draft.Title,
		Description: draft.Description,
		Date:        publishedAt,
		Tags:        draft.Tags,
	}
	if len(imgs) > 0 {
		fm.Image = imgs[0].URL
	}

	plan := placement.Compute(draft.Body, imgs)
	body := plan.Apply(draft.Body)

	fmBytes, err := yaml.Marshal(fm)
	if err != nil {
		return types.FinalArticle{}, fmt.Errorf("marshaling front matter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fmBytes)
	b.WriteString("---\n\n")
	b.WriteString(body)
	b.WriteString("\n")

	return types.FinalArticle{
		Slug:         subject.Slug,
		Keyword:      subject.Keyword,
		Title:        draft.Title,
		Description:  draft.Description,
		Tags:         draft.Tags,
		HeaderImage:  fm.Image,
		Markdown:     b.String(),
		Assessment:   refined.Assessment,
		ImagesPlaced: plan.Placed(),
		PublishedAt:  publishedAt,
	}, nil
}

// Write stores the article's markdown under dir as {slug}.md and returns the
// path.
func Write(dir string, article types.FinalArticle) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating articles directory: %w", err)
	}
	path := filepath.Join(dir, article.Slug+".md")
	if err := os.WriteFile(path, []byte(article.Markdown), 0o644); err != nil {
		return "", fmt.Errorf("writing article %s: %w", article.Slug, err)
	}
	return path, nil
}

// RenderHTML converts the article body (front matter stripped) to HTML for
// previewing.
func RenderHTML(markdown string) (string, error) {
	body := StripFrontMatter(markdown)

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.String(), nil
}

// StripFrontMatter removes a leading YAML front matter block, if present.
func StripFrontMatter(markdown string) string {
	if !strings.HasPrefix(markdown, "---\n") {
		return markdown
	}
	rest := markdown[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return markdown
	}
	after := rest[end+len("\n---"):]
	return strings.TrimLeft(after, "\n")
}
