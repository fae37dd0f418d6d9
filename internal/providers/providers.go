// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package providers defines the capability interfaces the pipeline consumes
// and their live and mock implementations.
//
// The pipeline never constructs a concrete provider itself; New is the single
// strategy-selection point that picks a live or mock implementation per
// capability based on which API keys are configured.
package providers

import (
	"context"
	"errors"

	"github.com/pdiddy/article-engine/pkg/types"
)

// ErrTransient marks a provider failure that is expected to be temporary:
// timeouts, rate limits, and server-side errors. Wrapped into returned errors
// so the stage runner can classify them.
var ErrTransient = errors.New("transient provider error")

// ErrMalformed marks a provider response that could not be parsed.
var ErrMalformed = errors.New("malformed provider response")

// ResearchProvider gathers keyword metrics, SERP results, and related
// questions for a keyword.
type ResearchProvider interface {
	Fetch(ctx context.Context, keyword string) (types.ResearchData, error)
}

// StructuringProvider plans an article outline from research data.
type StructuringProvider interface {
	GenerateStructure(ctx context.Context, keyword string, research types.ResearchData) (types.ContentStructure, error)
}

// EnhancementProvider writes a full draft from a structure. A non-nil
// feedback carries the previous assessment's issues and improvements into
// the revision.
type EnhancementProvider interface {
	Enhance(ctx context.Context, keyword string, structure types.ContentStructure, feedback *types.QualityAssessment) (types.DraftContent, error)
}

// QualityScoringProvider scores a draft from 0 to 100 with structured
// feedback.
type QualityScoringProvider interface {
	Score(ctx context.Context, keyword string, draft types.DraftContent) (types.QualityAssessment, error)
}

// ImageProvider generates one image for a prompt.
type ImageProvider interface {
	Generate(ctx context.Context, prompt string) (types.ImageRef, error)
}

// Set bundles one provider per capability for injection into the pipeline.
type Set struct {
	Research    ResearchProvider
	Structuring StructuringProvider
	Enhancement EnhancementProvider
	Scoring     QualityScoringProvider
	Images      ImageProvider
}
