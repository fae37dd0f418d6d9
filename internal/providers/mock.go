// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/article-engine/pkg/types"
)

// Mock providers produce deterministic, structurally valid output derived
// only from their inputs. They let the full pipeline run without API keys
// and serve as test doubles.

// MockResearch fabricates research data from the keyword text.
type MockResearch struct{}

// Fetch returns synthetic SERP results and related questions for keyword.
func (MockResearch) Fetch(_ context.Context, keyword string) (types.ResearchData, error) {
	return SyntheticResearch(keyword), nil
}

// SyntheticResearch builds a structurally valid ResearchData record from a
// keyword alone. It is shared by MockResearch and the research stage's
// fallback path.
func SyntheticResearch(keyword string) types.ResearchData {
	return types.ResearchData{
		Keyword: keyword,
		SERPResults: []types.SERPResult{
			{Title: fmt.Sprintf("The Complete Guide to %s", keyword), URL: "https://example.com/guide", Snippet: fmt.Sprintf("Everything you need to know about %s.", keyword)},
			{Title: fmt.Sprintf("%s: Tips and Advice", keyword), URL: "https://example.com/tips", Snippet: fmt.Sprintf("Practical advice for %s.", keyword)},
			{Title: fmt.Sprintf("How to Choose %s", keyword), URL: "https://example.com/choose", Snippet: fmt.Sprintf("A buyer's perspective on %s.", keyword)},
		},
		RelatedQuestions: []string{
			fmt.Sprintf("What is %s?", keyword),
			fmt.Sprintf("How do I get started with %s?", keyword),
			fmt.Sprintf("What are common mistakes with %s?", keyword),
		},
		RelatedKeywords: []string{
			keyword + " guide",
			keyword + " for beginners",
			"best " + keyword,
		},
	}
}

// titleCase capitalizes the first letter of each word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// MockStructuring plans an outline from research data.
type MockStructuring struct{}

// GenerateStructure builds one section per related question plus fixed
// opening and closing sections.
func (MockStructuring) GenerateStructure(_ context.Context, keyword string, research types.ResearchData) (types.ContentStructure, error) {
	cs := types.ContentStructure{
		Title:       fmt.Sprintf("The Complete Guide to %s", titleCase(keyword)),
		Description: fmt.Sprintf("Everything you need to know about %s, from the basics to expert advice.", keyword),
		Tags:        append([]string{keyword}, research.RelatedKeywords...),
	}

	cs.Sections = append(cs.Sections, types.Section{
		Heading: fmt.Sprintf("Why %s Matters", titleCase(keyword)),
		Points:  []string{"introduce the topic", "explain who this guide is for"},
	})
	for _, q := range research.RelatedQuestions {
		cs.Sections = append(cs.Sections, types.Section{
			Heading: strings.TrimSuffix(q, "?"),
			Points:  []string{"answer the question directly", "give a concrete example"},
		})
	}
	cs.Sections = append(cs.Sections, types.Section{
		Heading: "Final Thoughts",
		Points:  []string{"summarize the key advice"},
	})
	return cs, nil
}

// MockEnhancement writes a markdown draft from a structure. Each feedback
// round expands the draft, so repeated revisions grow richer (and score
// higher under MockScoring).
type MockEnhancement struct{}

// Enhance renders the structure into markdown. When feedback is present,
// every improvement suggestion produces an extra paragraph in each section.
func (MockEnhancement) Enhance(_ context.Context, keyword string, structure types.ContentStructure, feedback *types.QualityAssessment) (types.DraftContent, error) {
	return FlattenStructure(keyword, structure, feedback), nil
}

// FlattenStructure renders a structure into a complete draft. It is shared
// by MockEnhancement and the enhancement stage's fallback path (with nil
// feedback).
func FlattenStructure(keyword string, structure types.ContentStructure, feedback *types.QualityAssessment) types.DraftContent {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", structure.Title)
	fmt.Fprintf(&b, "%s\n\n", structure.Description)

	for _, section := range structure.Sections {
		fmt.Fprintf(&b, "## %s\n\n", section.Heading)
		for _, point := range section.Points {
			fmt.Fprintf(&b, "When it comes to %s, it pays to %s. ", keyword, point)
			fmt.Fprintf(&b, "This matters more than most guides admit, and getting it right early saves rework later.\n\n")
		}
		if feedback != nil {
			for _, imp := range feedback.Improvements {
				fmt.Fprintf(&b, "Going further: %s. A practical way to apply this to %s is to start small and iterate.\n\n", imp, keyword)
			}
		}
	}

	return types.DraftContent{
		Title:       structure.Title,
		Description: structure.Description,
		Tags:        structure.Tags,
		Body:        strings.TrimSuffix(b.String(), "\n"),
	}
}

// MockScoring scores drafts with a deterministic length heuristic.
type MockScoring struct{}

// Score rates the draft by word count and heading coverage: longer, better
// structured drafts score higher, capped at 95. Revisions produced from
// feedback grow the draft and therefore the score, while staying fully
// deterministic.
func (MockScoring) Score(_ context.Context, _ string, draft types.DraftContent) (types.QualityAssessment, error) {
	words := len(strings.Fields(draft.Body))
	headings := strings.Count(draft.Body, "\n## ")

	score := 40 + words/25 + headings*5
	if score > 95 {
		score = 95
	}

	a := types.QualityAssessment{OverallScore: score}
	if words < 1500 {
		a.Issues = append(a.Issues, "article is thin for the topic")
		a.Improvements = append(a.Improvements, "expand each section with concrete examples")
	}
	if headings < 3 {
		a.Issues = append(a.Issues, "too few sections")
		a.Improvements = append(a.Improvements, "break the content into more subtopics")
	}
	if headings >= 3 {
		a.Strengths = append(a.Strengths, "clear section structure")
	}
	return a, nil
}

// MockImages returns a placeholder image reference without calling any API.
type MockImages struct{}

// Generate returns a deterministic placeholder URL derived from the prompt.
func (MockImages) Generate(_ context.Context, prompt string) (types.ImageRef, error) {
	return types.ImageRef{
		URL:    "https://placehold.co/1024x1024?text=" + types.Slugify(prompt),
		Prompt: prompt,
	}, nil
}
