// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/article-engine/pkg/types"
)

// LoadWorkflow reads the persisted workflow state for subject, or creates a
// fresh all-pending state when none exists yet.
func (s *Store) LoadWorkflow(subject types.Subject) (*types.WorkflowState, error) {
	path := filepath.Join(s.dir, subject.Slug, workflowFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.NewWorkflowState(subject), nil
		}
		return nil, fmt.Errorf("reading workflow state for %s: %w", subject.Slug, err)
	}

	var ws types.WorkflowState
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("parsing workflow state for %s: %w", subject.Slug, err)
	}
	return &ws, nil
}

// SaveWorkflow persists ws. Called after every stage transition so an
// interrupted run can resume from the first incomplete stage.
func (s *Store) SaveWorkflow(ws *types.WorkflowState) error {
	return s.writeJSON(filepath.Join(s.dir, ws.Slug, workflowFile), ws)
}
