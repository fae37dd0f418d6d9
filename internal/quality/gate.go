// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package quality runs the score-and-improve loop that gates a content draft
// before it becomes final.
package quality

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/article-engine/internal/providers"
	"github.com/pdiddy/article-engine/pkg/types"
)

const (
	// DefaultMinScore is the score threshold that ends the loop early.
	DefaultMinScore = 85

	// DefaultMaxAttempts bounds the number of scoring calls.
	DefaultMaxAttempts = 3
)

// Gate scores drafts and decides whether to loop back into enhancement.
type Gate struct {
	Enhancer providers.EnhancementProvider
	Scorer   providers.QualityScoringProvider

	// MinScore is the accepting threshold; 0 means DefaultMinScore.
	MinScore int

	// MaxAttempts bounds scoring calls; 0 means DefaultMaxAttempts.
	MaxAttempts int
}

// Refine runs the improvement loop on draft: score, and while the score is
// below the threshold and attempts remain, enhance with the assessment as
// feedback and re-score.
//
// The loop always terminates within MaxAttempts scoring calls, even when the
// threshold is never met: the last-produced draft is accepted and its
// assessment, including the full score history, is returned so the caller
// can see the shortfall. Scores are not assumed monotonic; a revision may
// score lower than its predecessor and is still the one accepted when the
// budget runs out.
//
// A scoring failure inside the loop substitutes a zero assessment rather
// than aborting; an enhancement failure keeps the current draft and ends the
// loop. Intermediate drafts and scores live only in memory.
func (g *Gate) Refine(ctx context.Context, keyword string, structure types.ContentStructure, draft types.DraftContent, w io.Writer) (types.RefinedContent, error) {
	minScore := g.MinScore
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	maxAttempts := g.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	var (
		assessment types.QualityAssessment
		history    []int
		attempts   int
	)

	for {
		assessment = g.score(ctx, keyword, draft, w)
		attempts++
		history = append(history, assessment.OverallScore)
		fmt.Fprintf(w, "score %d/%d: %d (threshold %d)\n", attempts, maxAttempts, assessment.OverallScore, minScore)

		if assessment.OverallScore >= minScore || attempts >= maxAttempts {
			break
		}

		improved, err := g.Enhancer.Enhance(ctx, keyword, structure, &assessment)
		if err != nil {
			fmt.Fprintf(w, "warning: enhancement failed, keeping current draft: %v\n", err)
			break
		}
		draft = improved
	}

	assessment.ScoreHistory = history
	return types.RefinedContent{
		Draft:        draft,
		Assessment:   assessment,
		Attempts:     attempts,
		MetThreshold: assessment.OverallScore >= minScore,
	}, nil
}

// score calls the scoring provider, substituting a zero assessment when it
// fails so the loop can run to its attempt bound.
func (g *Gate) score(ctx context.Context, keyword string, draft types.DraftContent, w io.Writer) types.QualityAssessment {
	a, err := g.Scorer.Score(ctx, keyword, draft)
	if err != nil {
		fmt.Fprintf(w, "warning: scoring failed: %v\n", err)
		return types.QualityAssessment{
			OverallScore: 0,
			Issues:       []string{"scoring unavailable: " + err.Error()},
		}
	}
	if a.OverallScore < 0 {
		a.OverallScore = 0
	}
	if a.OverallScore > 100 {
		a.OverallScore = 100
	}
	return a
}
