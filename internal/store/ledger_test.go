// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"testing"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := OpenLedger(t.TempDir())
	if err != nil {
		t.Fatalf("OpenLedger: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestLedgerRoundTrip(t *testing.T) {
	l := newTestLedger(t)

	id, err := l.Begin("antique-lamps", "antique lamps")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := l.Finish(id, RunSucceeded, "", 90, ""); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	runs, err := l.Runs(0)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	r := runs[0]
	if r.ID != id || r.Status != RunSucceeded || r.Score != 90 || r.Keyword != "antique lamps" {
		t.Errorf("unexpected record: %+v", r)
	}
	if r.EndedAt.IsZero() {
		t.Error("EndedAt not recorded")
	}
}

func TestLedgerFailureRecordsStage(t *testing.T) {
	l := newTestLedger(t)

	id, _ := l.Begin("antique-lamps", "antique lamps")
	if err := l.Finish(id, RunFailed, "research", 0, "SERP API unreachable"); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	runs, err := l.RunsFor("antique-lamps")
	if err != nil {
		t.Fatalf("RunsFor: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	if runs[0].Stage != "research" || runs[0].Error == "" {
		t.Errorf("failure detail missing: %+v", runs[0])
	}
}

func TestLedgerReopen(t *testing.T) {
	dir := t.TempDir()

	l, err := OpenLedger(dir)
	if err != nil {
		t.Fatal(err)
	}
	id, _ := l.Begin("antique-lamps", "antique lamps")
	l.Finish(id, RunSucceeded, "", 88, "")
	l.Close()

	l2, err := OpenLedger(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer l2.Close()

	runs, err := l2.Runs(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Errorf("got %d runs after reopen, want 1", len(runs))
	}
}
