// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import (
	"context"
	"strings"
	"testing"
)

func TestMockPipelineProducesStructurallyValidContent(t *testing.T) {
	ctx := context.Background()
	keyword := "antique lamps"

	research, err := MockResearch{}.Fetch(ctx, keyword)
	if err != nil {
		t.Fatal(err)
	}
	if len(research.SERPResults) == 0 || len(research.RelatedQuestions) == 0 {
		t.Fatalf("synthetic research incomplete: %+v", research)
	}

	structure, err := MockStructuring{}.GenerateStructure(ctx, keyword, research)
	if err != nil {
		t.Fatal(err)
	}
	if structure.Title == "" || len(structure.Sections) < 3 {
		t.Fatalf("structure incomplete: %+v", structure)
	}

	draft, err := MockEnhancement{}.Enhance(ctx, keyword, structure, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(draft.Body, "# ") {
		t.Error("draft body should start with a title heading")
	}
	if strings.Count(draft.Body, "\n## ") < 3 {
		t.Error("draft body should contain section headings")
	}
}

func TestMockScoringRewardsRevisions(t *testing.T) {
	ctx := context.Background()
	keyword := "antique lamps"

	research, _ := MockResearch{}.Fetch(ctx, keyword)
	structure, _ := MockStructuring{}.GenerateStructure(ctx, keyword, research)

	first, _ := MockEnhancement{}.Enhance(ctx, keyword, structure, nil)
	a1, err := MockScoring{}.Score(ctx, keyword, first)
	if err != nil {
		t.Fatal(err)
	}

	second, _ := MockEnhancement{}.Enhance(ctx, keyword, structure, &a1)
	a2, err := MockScoring{}.Score(ctx, keyword, second)
	if err != nil {
		t.Fatal(err)
	}

	if a2.OverallScore <= a1.OverallScore {
		t.Errorf("revision with feedback should score higher: %d -> %d", a1.OverallScore, a2.OverallScore)
	}
	if a2.OverallScore > 100 || a1.OverallScore < 0 {
		t.Errorf("scores out of range: %d, %d", a1.OverallScore, a2.OverallScore)
	}
}

func TestDecodeJSONReplyStripsFences(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{name: "bare json", reply: `{"title": "x"}`},
		{name: "fenced", reply: "```json\n{\"title\": \"x\"}\n```"},
		{name: "fenced no lang", reply: "```\n{\"title\": \"x\"}\n```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				Title string `json:"title"`
			}
			if err := decodeJSONReply(tt.reply, &v); err != nil {
				t.Fatalf("decodeJSONReply: %v", err)
			}
			if v.Title != "x" {
				t.Errorf("Title = %q", v.Title)
			}
		})
	}
}

func TestImagePrompts(t *testing.T) {
	research, _ := MockResearch{}.Fetch(context.Background(), "antique lamps")
	structure, _ := MockStructuring{}.GenerateStructure(context.Background(), "antique lamps", research)

	prompts := ImagePrompts("antique lamps", structure, 4)
	if len(prompts) != 4 {
		t.Fatalf("got %d prompts, want 4", len(prompts))
	}
	if !strings.Contains(prompts[0], "header") {
		t.Errorf("first prompt should be the header prompt: %q", prompts[0])
	}

	if got := ImagePrompts("antique lamps", structure, 0); got != nil {
		t.Errorf("count 0 should yield nil, got %v", got)
	}
}
