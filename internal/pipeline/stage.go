// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences the content stages for a subject: per-stage
// artifact caching, fallback substitution on recoverable provider failures,
// workflow state tracking, and sequential batch processing.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/article-engine/internal/store"
	"github.com/pdiddy/article-engine/pkg/types"
)

// ProviderFunc invokes one stage's bound provider operation and returns the
// payload to persist.
type ProviderFunc func(ctx context.Context) (any, error)

// FallbackFunc builds the stage's documented deterministic substitute
// payload, used after a recoverable provider failure. A nil FallbackFunc
// makes every failure of the stage fatal.
type FallbackFunc func() any

// Runner executes single pipeline stages against the artifact store.
type Runner struct {
	Store *store.Store
	Out   io.Writer
}

// Run executes one stage for subject. With forceRefresh false a cached
// artifact is returned immediately, tagged cache. On a miss the provider is
// invoked; success persists a provider-tagged artifact. A recoverable
// failure substitutes the fallback payload, persisted and tagged fallback,
// so downstream stages can proceed. Unrecoverable failures (or recoverable
// ones without a fallback) return a *StageError.
//
// Run is total with respect to its caller: it returns an artifact or a
// classified fatal error, never a partial result.
func (r *Runner) Run(ctx context.Context, stage types.Stage, subject types.Subject, forceRefresh bool, invoke ProviderFunc, fallback FallbackFunc) (types.Artifact, error) {
	if !forceRefresh {
		art, ok, err := r.Store.Get(subject.Slug, stage)
		if err != nil {
			return types.Artifact{}, &StageError{Stage: stage, Kind: KindFatal, Err: err}
		}
		if ok {
			art.SourceKind = types.SourceCache
			fmt.Fprintf(r.Out, "  %s: cached\n", stage)
			return art, nil
		}
	}

	payload, err := invoke(ctx)
	if err != nil {
		kind := Classify(err)
		if !kind.Recoverable() || fallback == nil {
			return types.Artifact{}, &StageError{Stage: stage, Kind: KindFatal, Err: err}
		}

		fmt.Fprintf(r.Out, "  %s: %s failure, using fallback: %v\n", stage, kind, err)
		art, putErr := r.Store.Put(subject.Slug, stage, fallback(), types.SourceFallback)
		if putErr != nil {
			return types.Artifact{}, &StageError{Stage: stage, Kind: KindFatal, Err: putErr}
		}
		return art, nil
	}

	art, err := r.Store.Put(subject.Slug, stage, payload, types.SourceProvider)
	if err != nil {
		return types.Artifact{}, &StageError{Stage: stage, Kind: KindFatal, Err: err}
	}
	fmt.Fprintf(r.Out, "  %s: done\n", stage)
	return art, nil
}

// decodePrior decodes a prior stage's artifact payload into v, converting
// failures into the fatal missing-artifact error.
func decodePrior(art types.Artifact, v any) error {
	if err := art.Decode(v); err != nil {
		return fmt.Errorf("%w: %s/%s: %v", ErrMissingArtifact, art.Slug, art.Stage, err)
	}
	return nil
}
