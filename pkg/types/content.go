// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SERPResult is one organic search result gathered during research.
type SERPResult struct {
	// Title is the result's page title.
	Title string `json:"title" yaml:"title"`

	// URL is the result's link.
	URL string `json:"url" yaml:"url"`

	// Snippet is the short description shown under the result.
	Snippet string `json:"snippet" yaml:"snippet"`
}

// ResearchData is the output of the research stage for one keyword: keyword
// metrics, SERP results, and related questions.
type ResearchData struct {
	// Keyword is the researched keyword.
	Keyword string `json:"keyword" yaml:"keyword"`

	// SERPResults lists the top organic results for the keyword.
	SERPResults []SERPResult `json:"serp_results" yaml:"serp_results"`

	// RelatedQuestions lists "people also ask" style questions.
	RelatedQuestions []string `json:"related_questions" yaml:"related_questions"`

	// RelatedKeywords lists keyword variants worth covering in the article.
	RelatedKeywords []string `json:"related_keywords" yaml:"related_keywords"`
}

// Section is one planned section of the article.
type Section struct {
	// Heading is the section heading text, without markdown markers.
	Heading string `json:"heading" yaml:"heading"`

	// Points lists the talking points the section should cover.
	Points []string `json:"points" yaml:"points"`
}

// ContentStructure is the output of the structuring stage: the article's
// planned title, description, and section outline.
type ContentStructure struct {
	// Title is the planned article title.
	Title string `json:"title" yaml:"title"`

	// Description is the planned meta description.
	Description string `json:"description" yaml:"description"`

	// Sections lists the planned sections in order.
	Sections []Section `json:"sections" yaml:"sections"`

	// Tags lists topic tags for the front matter.
	Tags []string `json:"tags" yaml:"tags"`
}

// DraftContent is a full article draft produced by the enhancement stage.
type DraftContent struct {
	// Title is the article title.
	Title string `json:"title" yaml:"title"`

	// Description is the meta description.
	Description string `json:"description" yaml:"description"`

	// Tags lists topic tags for the front matter.
	Tags []string `json:"tags" yaml:"tags"`

	// Body is the article body in markdown, without front matter.
	Body string `json:"body" yaml:"body"`
}

// QualityAssessment is the scoring output for one draft.
type QualityAssessment struct {
	// OverallScore is the draft's quality score, an integer from 0 to 100.
	OverallScore int `json:"overall_score" yaml:"overall_score"`

	// Issues lists problems found in the draft.
	Issues []string `json:"issues" yaml:"issues"`

	// Improvements lists concrete suggestions for the next revision.
	Improvements []string `json:"improvements" yaml:"improvements"`

	// Strengths lists what the draft already does well.
	Strengths []string `json:"strengths" yaml:"strengths"`

	// ScoreHistory records every score produced during the improvement
	// loop, in order. Scores are not assumed monotonic; a revision may
	// score lower than its predecessor.
	ScoreHistory []int `json:"score_history,omitempty" yaml:"score_history,omitempty"`
}

// ImageRef is a generated image reference.
type ImageRef struct {
	// URL locates the generated image.
	URL string `json:"url" yaml:"url"`

	// Prompt is the text prompt the image was generated from.
	Prompt string `json:"prompt" yaml:"prompt"`

	// Fallback marks a placeholder reference substituted after a failed
	// generation call.
	Fallback bool `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// RefinedContent is the output of the quality-gated improvement loop: the
// accepted draft together with its final assessment.
type RefinedContent struct {
	// Draft is the accepted article draft.
	Draft DraftContent `json:"draft" yaml:"draft"`

	// Assessment is the final quality assessment for Draft, including the
	// full score history of the loop.
	Assessment QualityAssessment `json:"assessment" yaml:"assessment"`

	// Attempts is the number of scoring calls the loop performed.
	Attempts int `json:"attempts" yaml:"attempts"`

	// MetThreshold reports whether the final score reached the configured
	// minimum. A false value is not an error; the caller decides whether
	// the shortfall is acceptable.
	MetThreshold bool `json:"met_threshold" yaml:"met_threshold"`
}

// FinalArticle is the assembled end product for one subject.
type FinalArticle struct {
	// Slug identifies the subject.
	Slug string `json:"slug" yaml:"slug"`

	// Keyword is the subject's raw keyword.
	Keyword string `json:"keyword" yaml:"keyword"`

	// Title is the published title.
	Title string `json:"title" yaml:"title"`

	// Description is the meta description.
	Description string `json:"description" yaml:"description"`

	// Tags lists the front matter tags.
	Tags []string `json:"tags" yaml:"tags"`

	// HeaderImage is the URL of the document header image, empty when
	// image generation was skipped.
	HeaderImage string `json:"header_image,omitempty" yaml:"header_image,omitempty"`

	// Markdown is the complete document: front matter plus body with
	// in-body images spliced in.
	Markdown string `json:"markdown" yaml:"markdown"`

	// Assessment is the final quality assessment attached to the article.
	Assessment QualityAssessment `json:"assessment" yaml:"assessment"`

	// ImagesPlaced is the number of in-body images actually spliced. A
	// caller can compare it against the generated image count to detect
	// dropped images.
	ImagesPlaced int `json:"images_placed" yaml:"images_placed"`

	// PublishedAt is the front matter publish date.
	PublishedAt time.Time `json:"published_at" yaml:"published_at"`

	// Path is the filesystem path the markdown document was written to.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}
