// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/pdiddy/article-engine/internal/providers"
	"github.com/pdiddy/article-engine/internal/store"
	"github.com/pdiddy/article-engine/pkg/types"
)

// Counting test doubles wrapping the deterministic mocks, so tests can
// assert how often each provider was actually invoked.

type countingResearch struct {
	calls   int
	failFor map[string]error
}

func (r *countingResearch) Fetch(_ context.Context, keyword string) (types.ResearchData, error) {
	r.calls++
	if err := r.failFor[keyword]; err != nil {
		return types.ResearchData{}, err
	}
	return providers.SyntheticResearch(keyword), nil
}

type countingStructuring struct{ calls int }

func (s *countingStructuring) GenerateStructure(ctx context.Context, keyword string, research types.ResearchData) (types.ContentStructure, error) {
	s.calls++
	return providers.MockStructuring{}.GenerateStructure(ctx, keyword, research)
}

type countingEnhancer struct{ calls int }

func (e *countingEnhancer) Enhance(_ context.Context, keyword string, structure types.ContentStructure, feedback *types.QualityAssessment) (types.DraftContent, error) {
	e.calls++
	return providers.FlattenStructure(keyword, structure, feedback), nil
}

// scriptedScorer returns scores from a fixed script, repeating the last one
// once the script runs out.
type scriptedScorer struct {
	scores []int
	calls  int
}

func (s *scriptedScorer) Score(_ context.Context, _ string, _ types.DraftContent) (types.QualityAssessment, error) {
	i := s.calls
	if i >= len(s.scores) {
		i = len(s.scores) - 1
	}
	s.calls++
	score := s.scores[i]
	a := types.QualityAssessment{OverallScore: score}
	if score < 85 {
		a.Improvements = []string{"expand each section"}
	}
	return a, nil
}

type countingImages struct {
	calls int
	err   error

	// failFirst limits err to the first N calls; 0 means every call fails.
	failFirst int
}

func (g *countingImages) Generate(ctx context.Context, prompt string) (types.ImageRef, error) {
	g.calls++
	if g.err != nil && (g.failFirst == 0 || g.calls <= g.failFirst) {
		return types.ImageRef{}, g.err
	}
	return providers.MockImages{}.Generate(ctx, prompt)
}

type fixture struct {
	orch        *Orchestrator
	research    *countingResearch
	structuring *countingStructuring
	enhancer    *countingEnhancer
	scorer      *scriptedScorer
	images      *countingImages
}

func newFixture(t *testing.T, scores ...int) *fixture {
	t.Helper()
	if len(scores) == 0 {
		scores = []int{90}
	}

	f := &fixture{
		research:    &countingResearch{failFor: map[string]error{}},
		structuring: &countingStructuring{},
		enhancer:    &countingEnhancer{},
		scorer:      &scriptedScorer{scores: scores},
		images:      &countingImages{},
	}
	f.orch = &Orchestrator{
		Providers: providers.Set{
			Research:    f.research,
			Structuring: f.structuring,
			Enhancement: f.enhancer,
			Scoring:     f.scorer,
			Images:      f.images,
		},
		Store:       store.New(t.TempDir()),
		MinScore:    85,
		MaxAttempts: 3,
		ImageCount:  3,
		ArticlesDir: t.TempDir(),
		Out:         io.Discard,
	}
	return f
}

func TestProcessImprovementLoop(t *testing.T) {
	// First draft scores 70, the revision 90: one improvement round, then
	// acceptance.
	f := newFixture(t, 70, 90)
	subject := types.NewSubject("antique lamps")

	article, err := f.orch.Process(context.Background(), subject)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if article.Assessment.OverallScore != 90 {
		t.Errorf("final score = %d, want 90", article.Assessment.OverallScore)
	}
	if got := article.Assessment.ScoreHistory; len(got) != 2 || got[0] != 70 || got[1] != 90 {
		t.Errorf("ScoreHistory = %v, want [70 90]", got)
	}
	if f.scorer.calls != 2 {
		t.Errorf("scoring calls = %d, want 2", f.scorer.calls)
	}
	// Initial draft plus one feedback revision.
	if f.enhancer.calls != 2 {
		t.Errorf("enhancement calls = %d, want 2", f.enhancer.calls)
	}

	if article.Path == "" {
		t.Fatal("article path not set")
	}
	if _, err := os.Stat(article.Path); err != nil {
		t.Errorf("article file missing: %v", err)
	}
	if article.HeaderImage == "" {
		t.Error("header image not set")
	}

	var refined types.RefinedContent
	art, ok, err := f.orch.Store.Get(subject.Slug, types.StageScore)
	if err != nil || !ok {
		t.Fatalf("score artifact missing: ok=%v err=%v", ok, err)
	}
	if err := art.Decode(&refined); err != nil {
		t.Fatal(err)
	}
	if !refined.MetThreshold {
		t.Error("MetThreshold = false after accepting at 90")
	}
}

func TestProcessResumesFromCache(t *testing.T) {
	f := newFixture(t, 90)
	subject := types.NewSubject("antique lamps")

	if _, err := f.orch.Process(context.Background(), subject); err != nil {
		t.Fatalf("first run: %v", err)
	}
	before := [5]int{f.research.calls, f.structuring.calls, f.enhancer.calls, f.scorer.calls, f.images.calls}

	article, err := f.orch.Process(context.Background(), subject)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	after := [5]int{f.research.calls, f.structuring.calls, f.enhancer.calls, f.scorer.calls, f.images.calls}

	if before != after {
		t.Errorf("completed stages re-invoked providers: before=%v after=%v", before, after)
	}
	if article.Assessment.OverallScore != 90 {
		t.Errorf("resumed article score = %d, want 90", article.Assessment.OverallScore)
	}
}

func TestProcessForceRefreshReinvokesProviders(t *testing.T) {
	f := newFixture(t, 90)
	subject := types.NewSubject("antique lamps")

	if _, err := f.orch.Process(context.Background(), subject); err != nil {
		t.Fatal(err)
	}
	researchBefore := f.research.calls

	f.orch.ForceRefresh = true
	if _, err := f.orch.Process(context.Background(), subject); err != nil {
		t.Fatal(err)
	}
	if f.research.calls != researchBefore+1 {
		t.Errorf("research calls after refresh = %d, want %d", f.research.calls, researchBefore+1)
	}
}

func TestProcessResearchFallback(t *testing.T) {
	f := newFixture(t, 90)
	subject := types.NewSubject("antique lamps")
	f.research.failFor[subject.Keyword] = fmt.Errorf("serp 503: %w", providers.ErrTransient)

	article, err := f.orch.Process(context.Background(), subject)
	if err != nil {
		t.Fatalf("Process should absorb a transient research failure: %v", err)
	}
	if article.Title == "" {
		t.Error("fallback-based run produced an empty article")
	}

	art, ok, err := f.orch.Store.Get(subject.Slug, types.StageResearch)
	if err != nil || !ok {
		t.Fatalf("research artifact missing: ok=%v err=%v", ok, err)
	}
	if art.SourceKind != types.SourceFallback {
		t.Errorf("research SourceKind = %q, want %q", art.SourceKind, types.SourceFallback)
	}
}

func TestProcessImageFallback(t *testing.T) {
	// Every generation fails: the whole stage falls back to tagged
	// placeholders and the pipeline still completes.
	f := newFixture(t, 90)
	f.images.err = fmt.Errorf("image api 500: %w", providers.ErrTransient)
	subject := types.NewSubject("antique lamps")

	article, err := f.orch.Process(context.Background(), subject)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if article.Path == "" {
		t.Error("article not written despite image fallback")
	}

	art, ok, err := f.orch.Store.Get(subject.Slug, types.StageImages)
	if err != nil || !ok {
		t.Fatalf("images artifact missing: ok=%v err=%v", ok, err)
	}
	if art.SourceKind != types.SourceFallback {
		t.Errorf("images SourceKind = %q, want %q", art.SourceKind, types.SourceFallback)
	}

	var refs []types.ImageRef
	if err := art.Decode(&refs); err != nil {
		t.Fatal(err)
	}
	if len(refs) != 3 {
		t.Fatalf("placeholder count = %d, want 3", len(refs))
	}
	for i, ref := range refs {
		if !ref.Fallback {
			t.Errorf("ref %d not tagged as fallback", i)
		}
		if ref.URL == "" {
			t.Errorf("ref %d has no placeholder URL", i)
		}
	}
}

func TestProcessPartialImageFailure(t *testing.T) {
	// One generation fails, the rest succeed: the stage keeps the provider
	// artifact and only the failed slot is a tagged placeholder.
	f := newFixture(t, 90)
	f.images.err = fmt.Errorf("image api 500: %w", providers.ErrTransient)
	f.images.failFirst = 1
	subject := types.NewSubject("antique lamps")

	if _, err := f.orch.Process(context.Background(), subject); err != nil {
		t.Fatalf("Process: %v", err)
	}

	art, ok, err := f.orch.Store.Get(subject.Slug, types.StageImages)
	if err != nil || !ok {
		t.Fatalf("images artifact missing: ok=%v err=%v", ok, err)
	}
	if art.SourceKind != types.SourceProvider {
		t.Errorf("images SourceKind = %q, want %q", art.SourceKind, types.SourceProvider)
	}

	var refs []types.ImageRef
	if err := art.Decode(&refs); err != nil {
		t.Fatal(err)
	}
	if len(refs) != 3 {
		t.Fatalf("image count = %d, want 3", len(refs))
	}
	if !refs[0].Fallback {
		t.Error("failed slot not tagged as fallback")
	}
	for i, ref := range refs[1:] {
		if ref.Fallback {
			t.Errorf("healthy slot %d tagged as fallback", i+1)
		}
	}
}

func TestProcessSkipImages(t *testing.T) {
	f := newFixture(t, 90)
	f.orch.SkipImages = true
	subject := types.NewSubject("antique lamps")

	article, err := f.orch.Process(context.Background(), subject)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if f.images.calls != 0 {
		t.Errorf("image provider invoked %d times with SkipImages", f.images.calls)
	}
	if article.HeaderImage != "" {
		t.Errorf("HeaderImage = %q, want empty", article.HeaderImage)
	}
	if article.ImagesPlaced != 0 {
		t.Errorf("ImagesPlaced = %d, want 0", article.ImagesPlaced)
	}
}

func TestProcessAllRecordsFailuresAndContinues(t *testing.T) {
	f := newFixture(t, 90)
	subjects := []types.Subject{
		types.NewSubject("antique lamps"),
		types.NewSubject("broken subject"),
		types.NewSubject("vintage radios"),
	}
	// A cancellation-class error is fatal: no fallback, the subject fails.
	f.research.failFor["broken subject"] = context.Canceled

	results, summary := f.orch.ProcessAll(context.Background(), subjects, 0)

	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	if results[0].Failed() || results[2].Failed() {
		t.Errorf("healthy subjects failed: %v, %v", results[0].Err, results[2].Err)
	}
	if !results[1].Failed() {
		t.Fatal("broken subject did not fail")
	}
	if results[1].Stage != types.StageResearch {
		t.Errorf("failing stage = %q, want %q", results[1].Stage, types.StageResearch)
	}
	if !errors.Is(results[1].Err, context.Canceled) {
		t.Errorf("failure cause = %v, want context.Canceled", results[1].Err)
	}

	if summary.Succeeded != 2 || summary.Failed != 1 {
		t.Errorf("summary = %+v, want 2 succeeded / 1 failed", summary)
	}
	if !summary.HasFailures() {
		t.Error("HasFailures = false")
	}
	if summary.Total() != 3 {
		t.Errorf("Total = %d, want 3", summary.Total())
	}
}

func TestProcessRecordsRunsInLedger(t *testing.T) {
	f := newFixture(t, 90)
	ledger, err := store.OpenLedger(t.TempDir())
	if err != nil {
		t.Fatalf("OpenLedger: %v", err)
	}
	defer ledger.Close()
	f.orch.Ledger = ledger

	subject := types.NewSubject("antique lamps")
	if _, err := f.orch.Process(context.Background(), subject); err != nil {
		t.Fatal(err)
	}

	f.research.failFor["vintage radios"] = context.Canceled
	if _, err := f.orch.Process(context.Background(), types.NewSubject("vintage radios")); err == nil {
		t.Fatal("expected fatal failure")
	}

	runs, err := ledger.Runs(10)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("ledger runs = %d, want 2", len(runs))
	}

	byStatus := map[store.RunStatus]store.RunRecord{}
	for _, r := range runs {
		byStatus[r.Status] = r
	}
	ok, found := byStatus[store.RunSucceeded]
	if !found {
		t.Fatal("no succeeded run recorded")
	}
	if ok.Score != 90 {
		t.Errorf("succeeded run score = %d, want 90", ok.Score)
	}
	failed, found := byStatus[store.RunFailed]
	if !found {
		t.Fatal("no failed run recorded")
	}
	if failed.Stage != string(types.StageResearch) {
		t.Errorf("failed run stage = %q, want research", failed.Stage)
	}
}

func TestProcessWorkflowStateCompleted(t *testing.T) {
	f := newFixture(t, 90)
	subject := types.NewSubject("antique lamps")

	if _, err := f.orch.Process(context.Background(), subject); err != nil {
		t.Fatal(err)
	}

	ws, err := f.orch.Store.LoadWorkflow(subject)
	if err != nil {
		t.Fatal(err)
	}
	if stage, incomplete := ws.FirstIncomplete(); incomplete {
		t.Errorf("workflow not completed, first incomplete stage: %s", stage)
	}
}
