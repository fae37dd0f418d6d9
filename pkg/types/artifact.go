// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"time"
)

// Stage names one step of the pipeline.
type Stage string

const (
	StageResearch  Stage = "research"
	StageStructure Stage = "structure"
	StageEnhance   Stage = "enhance"
	StageScore     Stage = "score"
	StageImages    Stage = "images"
	StageAssemble  Stage = "assemble"
)

// PipelineStages lists the stages in execution order.
var PipelineStages = []Stage{
	StageResearch,
	StageStructure,
	StageEnhance,
	StageScore,
	StageImages,
	StageAssemble,
}

// SourceKind records where an artifact's payload came from.
type SourceKind string

const (
	// SourceCache marks an artifact returned from the store without
	// invoking a provider.
	SourceCache SourceKind = "cache"

	// SourceProvider marks an artifact produced by a successful provider call.
	SourceProvider SourceKind = "provider"

	// SourceFallback marks a deterministic substitute payload written after
	// a recoverable provider failure. Downstream consumers can detect
	// degraded output through this tag.
	SourceFallback SourceKind = "fallback"
)

// Artifact is the persisted output of one stage for one subject. The payload
// is opaque JSON; callers decode it into the stage's concrete type.
type Artifact struct {
	// Slug identifies the subject this artifact belongs to.
	Slug string `json:"slug"`

	// Stage names the pipeline stage that produced the payload.
	Stage Stage `json:"stage"`

	// SourceKind records whether the payload came from the cache, a
	// provider call, or a fallback substitution.
	SourceKind SourceKind `json:"source_kind"`

	// CreatedAt is when the payload was produced.
	CreatedAt time.Time `json:"created_at"`

	// Payload is the stage output, serialized as JSON.
	Payload json.RawMessage `json:"payload"`
}

// Decode unmarshals the artifact payload into v.
func (a Artifact) Decode(v any) error {
	return json.Unmarshal(a.Payload, v)
}
