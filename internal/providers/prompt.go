// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import (
	"fmt"
	"strings"

	"github.com/pdiddy/article-engine/pkg/types"
)

// Prompt builders for the chat-based providers. Each returns a system and a
// user message; the system message pins the JSON response shape so replies
// decode directly into the pkg/types structs.

const structureSystemPrompt = `You are an SEO content strategist. Respond with a single JSON object:
{"title": string, "description": string, "tags": [string], "sections": [{"heading": string, "points": [string]}]}
Plan 6-10 sections that together cover the keyword comprehensively. No prose outside the JSON.`

func structureUserPrompt(keyword string, research types.ResearchData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan an article for the keyword %q.\n\n", keyword)
	if len(research.SERPResults) > 0 {
		b.WriteString("Top ranking pages:\n")
		for _, r := range research.SERPResults {
			fmt.Fprintf(&b, "- %s — %s\n", r.Title, r.Snippet)
		}
		b.WriteString("\n")
	}
	if len(research.RelatedQuestions) > 0 {
		b.WriteString("Questions readers ask:\n")
		for _, q := range research.RelatedQuestions {
			fmt.Fprintf(&b, "- %s\n", q)
		}
		b.WriteString("\n")
	}
	if len(research.RelatedKeywords) > 0 {
		fmt.Fprintf(&b, "Related keywords to weave in: %s\n", strings.Join(research.RelatedKeywords, ", "))
	}
	return b.String()
}

const enhanceSystemPrompt = `You are a senior content writer. Respond with a single JSON object:
{"title": string, "description": string, "tags": [string], "body": string}
The body is the full article in markdown: a single # title heading, then ## section headings with
several substantial paragraphs each, separated by blank lines. No prose outside the JSON.`

func enhanceUserPrompt(keyword string, structure types.ContentStructure, feedback *types.QualityAssessment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write the full article for the keyword %q from this outline.\n\n", keyword)
	fmt.Fprintf(&b, "Title: %s\nDescription: %s\n\nSections:\n", structure.Title, structure.Description)
	for _, s := range structure.Sections {
		fmt.Fprintf(&b, "- %s (%s)\n", s.Heading, strings.Join(s.Points, "; "))
	}
	if feedback != nil {
		b.WriteString("\nA reviewer assessed the previous draft. Address every point:\n")
		for _, issue := range feedback.Issues {
			fmt.Fprintf(&b, "Issue: %s\n", issue)
		}
		for _, imp := range feedback.Improvements {
			fmt.Fprintf(&b, "Improvement: %s\n", imp)
		}
	}
	return b.String()
}

const scoreSystemPrompt = `You are an exacting SEO content auditor. Respond with a single JSON object:
{"overall_score": integer 0-100, "issues": [string], "improvements": [string], "strengths": [string]}
Score the article for depth, structure, keyword coverage, and readability. No prose outside the JSON.`

func scoreUserPrompt(keyword string, draft types.DraftContent) string {
	return fmt.Sprintf("Keyword: %q\nTitle: %s\nDescription: %s\n\nArticle:\n%s",
		keyword, draft.Title, draft.Description, draft.Body)
}

// ImagePrompts derives the image generation prompts for an article: one
// header prompt plus one prompt per leading section, count in total.
func ImagePrompts(keyword string, structure types.ContentStructure, count int) []string {
	if count <= 0 {
		return nil
	}
	prompts := []string{
		fmt.Sprintf("Editorial header photograph illustrating %s, natural light, no text", keyword),
	}
	for _, s := range structure.Sections {
		if len(prompts) >= count {
			break
		}
		prompts = append(prompts, fmt.Sprintf("Illustration for an article section titled %q, about %s, clean minimal style", s.Heading, keyword))
	}
	for len(prompts) < count {
		prompts = append(prompts, fmt.Sprintf("Supporting illustration about %s, clean minimal style", keyword))
	}
	return prompts
}
