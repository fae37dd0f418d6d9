// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists pipeline artifacts and workflow state on disk and
// keeps a SQLite ledger of pipeline runs.
//
// Artifacts live at {cacheDir}/{slug}/{stage}.json, workflow state at
// {cacheDir}/{slug}/workflow.json. Writes go through a temporary file and a
// rename, so a reader sees either the previous record or the fully written
// new one.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pdiddy/article-engine/pkg/types"
)

const workflowFile = "workflow.json"

// Store is a content-addressable artifact cache keyed by (slug, stage).
type Store struct {
	dir string
}

// New creates a Store rooted at dir. The directory is created lazily on the
// first write.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Key returns the store key for a (slug, stage) pair, relative to the cache
// root. It doubles as the workflow ResultRef format.
func Key(slug string, stage types.Stage) string {
	return filepath.Join(slug, string(stage)+".json")
}

func (s *Store) artifactPath(slug string, stage types.Stage) string {
	return filepath.Join(s.dir, Key(slug, stage))
}

// Get looks up the artifact for (slug, stage). Absence is a normal, checked
// result: the second return is false and the error is nil when no artifact
// exists.
func (s *Store) Get(slug string, stage types.Stage) (types.Artifact, bool, error) {
	data, err := os.ReadFile(s.artifactPath(slug, stage))
	if err != nil {
		if os.IsNotExist(err) {
			return types.Artifact{}, false, nil
		}
		return types.Artifact{}, false, fmt.Errorf("reading artifact %s/%s: %w", slug, stage, err)
	}

	var a types.Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return types.Artifact{}, false, fmt.Errorf("parsing artifact %s/%s: %w", slug, stage, err)
	}
	return a, true, nil
}

// Put serializes payload and stores it as the artifact for (slug, stage),
// replacing any previous artifact for the same key.
func (s *Store) Put(slug string, stage types.Stage, payload any, kind types.SourceKind) (types.Artifact, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return types.Artifact{}, fmt.Errorf("marshaling payload for %s/%s: %w", slug, stage, err)
	}

	a := types.Artifact{
		Slug:       slug,
		Stage:      stage,
		SourceKind: kind,
		CreatedAt:  time.Now().UTC(),
		Payload:    raw,
	}

	if err := s.writeJSON(s.artifactPath(slug, stage), a); err != nil {
		return types.Artifact{}, err
	}
	return a, nil
}

// Invalidate removes the artifact for (slug, stage). Removing an absent
// artifact is not an error.
func (s *Store) Invalidate(slug string, stage types.Stage) error {
	err := os.Remove(s.artifactPath(slug, stage))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("invalidating %s/%s: %w", slug, stage, err)
	}
	return nil
}

// InvalidateAll removes every artifact and the workflow state for slug.
func (s *Store) InvalidateAll(slug string) error {
	if slug == "" {
		return fmt.Errorf("empty slug")
	}
	if err := os.RemoveAll(filepath.Join(s.dir, slug)); err != nil {
		return fmt.Errorf("invalidating %s: %w", slug, err)
	}
	return nil
}

// Slugs lists the subjects that have at least one persisted record, sorted.
func (s *Store) Slugs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cache directory: %w", err)
	}

	var slugs []string
	for _, e := range entries {
		if e.IsDir() {
			slugs = append(slugs, e.Name())
		}
	}
	sort.Strings(slugs)
	return slugs, nil
}

// Artifacts returns every stored artifact for slug in pipeline stage order.
func (s *Store) Artifacts(slug string) ([]types.Artifact, error) {
	var out []types.Artifact
	for _, stage := range types.PipelineStages {
		a, ok, err := s.Get(slug, stage)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// writeJSON marshals v and writes it to path atomically via a temp file.
func (s *Store) writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", filepath.Dir(path), err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".store-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
