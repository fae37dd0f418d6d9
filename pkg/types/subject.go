// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"regexp"
	"strings"
)

// nonSlugPattern matches runs of characters that are not allowed in a slug.
var nonSlugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Subject is one keyword being processed through the pipeline. It is created
// once per incoming keyword and never mutated afterwards.
type Subject struct {
	// Keyword is the raw search keyword as provided by the caller.
	Keyword string `json:"keyword" yaml:"keyword"`

	// Slug is the normalized, URL-safe identifier derived from Keyword.
	// It is the cache and storage namespace key for this subject.
	Slug string `json:"slug" yaml:"slug"`
}

// NewSubject derives a Subject from a keyword. Distinct keyword texts yield
// distinct slugs; the same text always yields the same slug.
func NewSubject(keyword string) Subject {
	return Subject{
		Keyword: strings.TrimSpace(keyword),
		Slug:    Slugify(keyword),
	}
}

// Slugify normalizes a keyword into a URL-safe slug: lowercase, with runs of
// non-alphanumeric characters collapsed into single hyphens and leading or
// trailing hyphens trimmed.
func Slugify(keyword string) string {
	s := strings.ToLower(strings.TrimSpace(keyword))
	s = nonSlugPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
