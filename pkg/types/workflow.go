// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// StageStatus is the execution state of one stage within a workflow.
type StageStatus string

const (
	StatusPending   StageStatus = "pending"
	StatusRunning   StageStatus = "running"
	StatusCompleted StageStatus = "completed"
	StatusFailed    StageStatus = "failed"
)

// StageRecord is one entry in a subject's stage execution history.
type StageRecord struct {
	// Stage names the pipeline stage.
	Stage Stage `json:"stage"`

	// Status is the current execution state.
	Status StageStatus `json:"status"`

	// StartedAt is when the stage last began executing.
	StartedAt time.Time `json:"started_at,omitempty"`

	// EndedAt is when the stage last finished, successfully or not.
	EndedAt time.Time `json:"ended_at,omitempty"`

	// ResultRef is the store key of the artifact the stage produced,
	// empty until the stage completes.
	ResultRef string `json:"result_ref,omitempty"`
}

// WorkflowState is the per-subject record of stage execution history. It is
// persisted after every transition so a crashed run can resume without
// re-executing completed stages.
type WorkflowState struct {
	// Slug identifies the subject.
	Slug string `json:"slug"`

	// Keyword is the subject's raw keyword, kept for display.
	Keyword string `json:"keyword"`

	// Stages is the ordered execution history, one record per pipeline stage.
	Stages []StageRecord `json:"stages"`
}

// NewWorkflowState creates a state with one pending record per pipeline stage.
func NewWorkflowState(subject Subject) *WorkflowState {
	ws := &WorkflowState{Slug: subject.Slug, Keyword: subject.Keyword}
	for _, stage := range PipelineStages {
		ws.Stages = append(ws.Stages, StageRecord{Stage: stage, Status: StatusPending})
	}
	return ws
}

// record returns the record for stage, creating it if the state predates
// the stage's addition to the pipeline.
func (ws *WorkflowState) record(stage Stage) *StageRecord {
	for i := range ws.Stages {
		if ws.Stages[i].Stage == stage {
			return &ws.Stages[i]
		}
	}
	ws.Stages = append(ws.Stages, StageRecord{Stage: stage, Status: StatusPending})
	return &ws.Stages[len(ws.Stages)-1]
}

// Begin marks stage as running.
func (ws *WorkflowState) Begin(stage Stage) {
	r := ws.record(stage)
	r.Status = StatusRunning
	r.StartedAt = time.Now().UTC()
	r.EndedAt = time.Time{}
}

// Finish marks stage as completed with the artifact reference it produced.
func (ws *WorkflowState) Finish(stage Stage, resultRef string) {
	r := ws.record(stage)
	r.Status = StatusCompleted
	r.EndedAt = time.Now().UTC()
	r.ResultRef = resultRef
}

// Fail marks stage as failed.
func (ws *WorkflowState) Fail(stage Stage) {
	r := ws.record(stage)
	r.Status = StatusFailed
	r.EndedAt = time.Now().UTC()
}

// Completed reports whether stage has completed in a prior or current run.
func (ws *WorkflowState) Completed(stage Stage) bool {
	for _, r := range ws.Stages {
		if r.Stage == stage {
			return r.Status == StatusCompleted
		}
	}
	return false
}

// FirstIncomplete returns the earliest pipeline stage that has not completed.
// The second return is false when every stage has completed.
func (ws *WorkflowState) FirstIncomplete() (Stage, bool) {
	for _, stage := range PipelineStages {
		if !ws.Completed(stage) {
			return stage, true
		}
	}
	return "", false
}
