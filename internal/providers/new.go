// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/article-engine/pkg/types"
)

// New is the single strategy-selection point for the pipeline's providers.
// Each capability gets its live implementation when the matching API key is
// configured and the mock otherwise; the pipeline stays provider-agnostic
// either way. The chosen strategy per capability is reported on w.
func New(cfg types.PipelineConfig, w io.Writer) Set {
	set := Set{
		Research:    MockResearch{},
		Structuring: MockStructuring{},
		Enhancement: MockEnhancement{},
		Scoring:     MockScoring{},
		Images:      MockImages{},
	}

	if cfg.Research.APIKey != "" {
		set.Research = &LiveResearch{
			Client: &http.Client{Timeout: cfg.Research.Timeout},
			Config: cfg.Research,
		}
		fmt.Fprintln(w, "research: SERP API")
	} else {
		fmt.Fprintln(w, "research: mock (no serp-api-key)")
	}

	if chat, err := NewChatProvider(cfg.Content); err == nil {
		set.Structuring = chat
		set.Enhancement = chat
		set.Scoring = chat
		fmt.Fprintf(w, "content: openai %s\n", cfg.Content.Model)
	} else {
		fmt.Fprintln(w, "content: mock (no openai-api-key)")
	}

	if images, err := NewImageGenProvider(cfg.Images); err == nil {
		set.Images = images
		fmt.Fprintf(w, "images: openai %s\n", cfg.Images.Model)
	} else {
		fmt.Fprintln(w, "images: mock (no openai-api-key)")
	}

	return set
}
