// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/article-engine/internal/assemble"
	"github.com/pdiddy/article-engine/internal/providers"
	"github.com/pdiddy/article-engine/internal/quality"
	"github.com/pdiddy/article-engine/internal/store"
	"github.com/pdiddy/article-engine/pkg/types"
)

// DefaultImageCount is the number of images generated per article, header
// included.
const DefaultImageCount = 4

// Orchestrator sequences the pipeline stages for subjects. Providers are
// injected; the orchestrator is agnostic to whether they are live or mock.
type Orchestrator struct {
	Providers providers.Set
	Store     *store.Store

	// Ledger records run outcomes when non-nil.
	Ledger *store.Ledger

	// MinScore and MaxAttempts configure the quality gate; zero values
	// use the gate defaults.
	MinScore    int
	MaxAttempts int

	// ImageCount is the number of images to generate, header included;
	// 0 means DefaultImageCount.
	ImageCount int

	// SkipImages bypasses image generation entirely.
	SkipImages bool

	// ForceRefresh bypasses the artifact cache, re-running every stage.
	ForceRefresh bool

	// ArticlesDir, when set, is where the final markdown is written.
	ArticlesDir string

	// Out receives progress output; nil discards it.
	Out io.Writer
}

// Result is the outcome of processing one subject in a batch.
type Result struct {
	// Subject is the processed subject.
	Subject types.Subject

	// Article is the final artifact; zero when Err is set.
	Article types.FinalArticle

	// Stage names the failing stage when Err is set.
	Stage types.Stage

	// Err is the classified fatal error, nil on success.
	Err error
}

// Failed reports whether the subject ended in a fatal failure state.
func (r Result) Failed() bool {
	return r.Err != nil
}

// BatchSummary aggregates a ProcessAll run.
type BatchSummary struct {
	Succeeded int
	Failed    int
}

// Total returns the number of subjects processed.
func (s BatchSummary) Total() int {
	return s.Succeeded + s.Failed
}

// HasFailures reports whether any subject failed.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

func (o *Orchestrator) out() io.Writer {
	if o.Out == nil {
		return io.Discard
	}
	return o.Out
}

// Process runs the full pipeline for one subject: research, structuring,
// enhancement, quality-gated improvement, image generation, and assembly.
// Completed stages from a prior run are resumed via the artifact cache
// rather than re-invoking providers. Stages never run concurrently for the
// same subject.
func (o *Orchestrator) Process(ctx context.Context, subject types.Subject) (types.FinalArticle, error) {
	w := o.out()
	fmt.Fprintf(w, "processing %q (%s)\n", subject.Keyword, subject.Slug)

	var runID string
	if o.Ledger != nil {
		id, err := o.Ledger.Begin(subject.Slug, subject.Keyword)
		if err != nil {
			fmt.Fprintf(w, "  warning: run ledger unavailable: %v\n", err)
		} else {
			runID = id
		}
	}

	article, err := o.process(ctx, subject)

	if runID != "" {
		if err != nil {
			stage := ""
			if se, ok := err.(*StageError); ok {
				stage = string(se.Stage)
			}
			o.Ledger.Finish(runID, store.RunFailed, stage, 0, err.Error())
		} else {
			o.Ledger.Finish(runID, store.RunSucceeded, "", article.Assessment.OverallScore, "")
		}
	}
	return article, err
}

func (o *Orchestrator) process(ctx context.Context, subject types.Subject) (types.FinalArticle, error) {
	w := o.out()
	runner := &Runner{Store: o.Store, Out: w}

	ws, err := o.Store.LoadWorkflow(subject)
	if err != nil {
		return types.FinalArticle{}, &StageError{Stage: types.StageResearch, Kind: KindFatal, Err: err}
	}
	if o.ForceRefresh {
		ws = types.NewWorkflowState(subject)
	}
	if stage, ok := ws.FirstIncomplete(); ok && stage != types.PipelineStages[0] {
		fmt.Fprintf(w, "  resuming from %s\n", stage)
	}

	runStage := func(stage types.Stage, invoke ProviderFunc, fallback FallbackFunc) (types.Artifact, error) {
		ws.Begin(stage)
		if err := o.Store.SaveWorkflow(ws); err != nil {
			return types.Artifact{}, &StageError{Stage: stage, Kind: KindFatal, Err: err}
		}
		art, err := runner.Run(ctx, stage, subject, o.ForceRefresh, invoke, fallback)
		if err != nil {
			ws.Fail(stage)
			o.Store.SaveWorkflow(ws)
			return types.Artifact{}, err
		}
		ws.Finish(stage, store.Key(subject.Slug, stage))
		if err := o.Store.SaveWorkflow(ws); err != nil {
			return types.Artifact{}, &StageError{Stage: stage, Kind: KindFatal, Err: err}
		}
		return art, nil
	}

	// Research.
	researchArt, err := runStage(types.StageResearch,
		func(ctx context.Context) (any, error) {
			return o.Providers.Research.Fetch(ctx, subject.Keyword)
		},
		func() any { return providers.SyntheticResearch(subject.Keyword) },
	)
	if err != nil {
		return types.FinalArticle{}, err
	}
	var research types.ResearchData
	if err := decodePrior(researchArt, &research); err != nil {
		return types.FinalArticle{}, &StageError{Stage: types.StageStructure, Kind: KindFatal, Err: err}
	}

	// Structuring.
	structureArt, err := runStage(types.StageStructure,
		func(ctx context.Context) (any, error) {
			return o.Providers.Structuring.GenerateStructure(ctx, subject.Keyword, research)
		},
		func() any { return fallbackStructure(subject.Keyword, research) },
	)
	if err != nil {
		return types.FinalArticle{}, err
	}
	var structure types.ContentStructure
	if err := decodePrior(structureArt, &structure); err != nil {
		return types.FinalArticle{}, &StageError{Stage: types.StageEnhance, Kind: KindFatal, Err: err}
	}

	// Enhancement: the initial full draft.
	draftArt, err := runStage(types.StageEnhance,
		func(ctx context.Context) (any, error) {
			return o.Providers.Enhancement.Enhance(ctx, subject.Keyword, structure, nil)
		},
		func() any { return providers.FlattenStructure(subject.Keyword, structure, nil) },
	)
	if err != nil {
		return types.FinalArticle{}, err
	}
	var draft types.DraftContent
	if err := decodePrior(draftArt, &draft); err != nil {
		return types.FinalArticle{}, &StageError{Stage: types.StageScore, Kind: KindFatal, Err: err}
	}

	// Quality-gated improvement. Only the accepted iteration is persisted;
	// intermediate drafts and scores stay in memory inside the gate.
	gate := &quality.Gate{
		Enhancer:    o.Providers.Enhancement,
		Scorer:      o.Providers.Scoring,
		MinScore:    o.MinScore,
		MaxAttempts: o.MaxAttempts,
	}
	refinedArt, err := runStage(types.StageScore,
		func(ctx context.Context) (any, error) {
			return gate.Refine(ctx, subject.Keyword, structure, draft, w)
		},
		func() any {
			return types.RefinedContent{
				Draft:      draft,
				Assessment: types.QualityAssessment{Issues: []string{"quality gate unavailable"}},
			}
		},
	)
	if err != nil {
		return types.FinalArticle{}, err
	}
	var refined types.RefinedContent
	if err := decodePrior(refinedArt, &refined); err != nil {
		return types.FinalArticle{}, &StageError{Stage: types.StageImages, Kind: KindFatal, Err: err}
	}
	if !refined.MetThreshold {
		fmt.Fprintf(w, "  accepted below threshold: score %d after %d attempt(s)\n",
			refined.Assessment.OverallScore, refined.Attempts)
	}

	// Image generation.
	var imgs []types.ImageRef
	if o.SkipImages {
		fmt.Fprintf(w, "  %s: skipped\n", types.StageImages)
		ws.Finish(types.StageImages, "")
		if err := o.Store.SaveWorkflow(ws); err != nil {
			return types.FinalArticle{}, &StageError{Stage: types.StageImages, Kind: KindFatal, Err: err}
		}
	} else {
		count := o.ImageCount
		if count <= 0 {
			count = DefaultImageCount
		}
		prompts := providers.ImagePrompts(subject.Keyword, structure, count)

		imagesArt, err := runStage(types.StageImages,
			func(ctx context.Context) (any, error) { return o.generateImages(ctx, prompts) },
			func() any { return placeholderImages(prompts) },
		)
		if err != nil {
			return types.FinalArticle{}, err
		}
		if err := decodePrior(imagesArt, &imgs); err != nil {
			return types.FinalArticle{}, &StageError{Stage: types.StageAssemble, Kind: KindFatal, Err: err}
		}
	}

	// Assembly. There is no provider and no fallback; any failure here,
	// including a draft-less invocation, is fatal.
	assembleArt, err := runStage(types.StageAssemble,
		func(ctx context.Context) (any, error) {
			if refined.Draft.Body == "" {
				return nil, fmt.Errorf("%w: no draft to assemble", ErrMissingArtifact)
			}
			article, err := assemble.Article(subject, refined, imgs, time.Now().UTC())
			if err != nil {
				return nil, err
			}
			if o.ArticlesDir != "" {
				path, err := assemble.Write(o.ArticlesDir, article)
				if err != nil {
					return nil, err
				}
				article.Path = path
			}
			return article, nil
		},
		nil,
	)
	if err != nil {
		return types.FinalArticle{}, err
	}
	var article types.FinalArticle
	if err := decodePrior(assembleArt, &article); err != nil {
		return types.FinalArticle{}, &StageError{Stage: types.StageAssemble, Kind: KindFatal, Err: err}
	}

	fmt.Fprintf(w, "  final: score %d, %d in-body image(s)\n", article.Assessment.OverallScore, article.ImagesPlaced)
	return article, nil
}

// generateImages produces one image per prompt, substituting a tagged
// placeholder for individual failures. It errors only when every generation
// failed, which the stage runner then absorbs as a full fallback set.
func (o *Orchestrator) generateImages(ctx context.Context, prompts []string) (any, error) {
	refs := make([]types.ImageRef, 0, len(prompts))
	failures := 0
	for _, prompt := range prompts {
		ref, err := o.Providers.Images.Generate(ctx, prompt)
		if err != nil {
			fmt.Fprintf(o.out(), "  image failed, using placeholder: %v\n", err)
			refs = append(refs, placeholderImage(prompt))
			failures++
			continue
		}
		refs = append(refs, ref)
	}
	if failures == len(prompts) && len(prompts) > 0 {
		return nil, fmt.Errorf("all %d image generations failed: %w", failures, providers.ErrTransient)
	}
	return refs, nil
}

// placeholderImage is the documented fallback for one failed generation.
func placeholderImage(prompt string) types.ImageRef {
	return types.ImageRef{
		URL:      "https://placehold.co/1024x1024?text=" + types.Slugify(prompt),
		Prompt:   prompt,
		Fallback: true,
	}
}

func placeholderImages(prompts []string) []types.ImageRef {
	refs := make([]types.ImageRef, 0, len(prompts))
	for _, p := range prompts {
		refs = append(refs, placeholderImage(p))
	}
	return refs
}

// fallbackStructure is the documented fallback for the structuring stage: a
// single-section outline titled with the keyword, enriched with whatever
// research survived.
func fallbackStructure(keyword string, research types.ResearchData) types.ContentStructure {
	points := []string{"cover the essentials of " + keyword}
	for _, q := range research.RelatedQuestions {
		points = append(points, "answer: "+q)
	}
	return types.ContentStructure{
		Title:       keyword,
		Description: "An overview of " + keyword + ".",
		Tags:        []string{keyword},
		Sections:    []types.Section{{Heading: "Overview", Points: points}},
	}
}

// ProcessAll processes subjects strictly sequentially, in input order, with
// an optional fixed delay between subjects. A fatal failure on one subject
// is recorded in its Result and does not abort the rest.
func (o *Orchestrator) ProcessAll(ctx context.Context, subjects []types.Subject, delay time.Duration) ([]Result, BatchSummary) {
	w := o.out()
	var results []Result
	var summary BatchSummary

	for i, subject := range subjects {
		if i > 0 && delay > 0 {
			time.Sleep(delay)
		}

		article, err := o.Process(ctx, subject)
		res := Result{Subject: subject}
		if err != nil {
			res.Err = err
			if se, ok := err.(*StageError); ok {
				res.Stage = se.Stage
			}
			summary.Failed++
			fmt.Fprintf(w, "failed:  %s (%v)\n", subject.Keyword, err)
		} else {
			res.Article = article
			summary.Succeeded++
			fmt.Fprintf(w, "done:    %s (score %d)\n", subject.Keyword, article.Assessment.OverallScore)
		}
		results = append(results, res)
	}

	fmt.Fprintf(w, "\nBatch summary: %d succeeded, %d failed (total: %d)\n",
		summary.Succeeded, summary.Failed, summary.Total())
	return results, summary
}
