package services

import (
	"database/sql/driver"
	"net/http"
	"regexp"
	"testing"
	"time"
)

var (
	decisionSelectPattern = regexp.MustCompile("SELECT \\* FROM `decisions` WHERE decision_id")
	paperSelectPattern    = regexp.MustCompile("SELECT \\* FROM `papers` WHERE paper_id")
	releaseUpdatePattern  = regexp.MustCompile("UPDATE `decisions` SET `released_at`")
)

var decisionColumns = []string{"decision_id", "paper_id", "value", "notes", "released_at", "created_at"}

func decisionRow(released *time.Time) []driver.Value {
	var releasedVal driver.Value
	if released != nil {
		releasedVal = *released
	}
	return []driver.Value{"dec-1", "paper-1", "accept", "minor revisions applied", releasedVal, time.Now().Add(-time.Hour)}
}

func paperRow(releaseGate *time.Time) *queryStep {
	var gateVal driver.Value
	if releaseGate != nil {
		gateVal = *releaseGate
	}
	return &queryStep{
		kind:    kindQuery,
		pattern: paperSelectPattern,
		columns: []string{"paper_id", "title", "status", "assignment_version", "decision_release_at"},
		rows:    [][]driver.Value{{"paper-1", "A Study", "under_review", int64(1), gateVal}},
	}
}

func releaseService(t *testing.T, steps []*queryStep, now time.Time) (*DecisionService, *scriptedDB, *fakeDecisionNotifier, *recordingSink, func()) {
	t.Helper()
	db, state, cleanup := newScriptedGormDB(t, steps)
	notifier := &fakeDecisionNotifier{}
	sink := &recordingSink{}
	svc := &DecisionService{
		db:       db,
		papers:   NewPaperService(db),
		notifier: notifier,
		audit:    sink,
		errs:     sink,
		now:      func() time.Time { return now },
	}
	return svc, state, notifier, sink, cleanup
}

func TestReleaseDecisionMissingConflicts(t *testing.T) {
	svc, state, notifier, _, cleanup := releaseService(t, []*queryStep{
		{kind: kindQuery, pattern: decisionSelectPattern, columns: decisionColumns},
	}, time.Now())
	defer cleanup()

	res := svc.ReleaseDecisionByID("dec-1")
	if res.OK || res.Status != http.StatusConflict || res.Reason != "decision_missing" {
		t.Fatalf("expected 409/decision_missing, got %+v", res)
	}
	if notifier.calls != 0 {
		t.Fatal("no notification for a missing decision")
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestReleaseDecisionAlreadyReleasedConflicts(t *testing.T) {
	released := time.Now().Add(-time.Hour)
	svc, state, notifier, _, cleanup := releaseService(t, []*queryStep{
		{kind: kindQuery, pattern: decisionSelectPattern, columns: decisionColumns, rows: [][]driver.Value{decisionRow(&released)}},
	}, time.Now())
	defer cleanup()

	res := svc.ReleaseDecisionByID("dec-1")
	if res.OK || res.Status != http.StatusConflict || res.Reason != "already_released" {
		t.Fatalf("expected 409/already_released, got %+v", res)
	}
	if notifier.calls != 0 {
		t.Fatal("a released decision must not notify again")
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestReleaseDecisionBeforeGateConflicts(t *testing.T) {
	now := time.Now()
	gate := now.Add(time.Hour)
	svc, state, notifier, _, cleanup := releaseService(t, []*queryStep{
		{kind: kindQuery, pattern: decisionSelectPattern, columns: decisionColumns, rows: [][]driver.Value{decisionRow(nil)}},
		paperRow(&gate),
	}, now)
	defer cleanup()

	res := svc.ReleaseDecisionByID("dec-1")
	if res.OK || res.Status != http.StatusConflict || res.Reason != "release_pending" {
		t.Fatalf("expected 409/release_pending, got %+v", res)
	}
	if notifier.calls != 0 {
		t.Fatal("a gated decision must not notify")
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestReleaseDecisionSucceedsOnce(t *testing.T) {
	now := time.Now()
	svc, state, notifier, sink, cleanup := releaseService(t, []*queryStep{
		{kind: kindQuery, pattern: decisionSelectPattern, columns: decisionColumns, rows: [][]driver.Value{decisionRow(nil)}},
		paperRow(nil),
		{kind: kindExec, pattern: releaseUpdatePattern, result: scriptedResult{rowsAffected: 1}},
	}, now)
	defer cleanup()

	res := svc.ReleaseDecisionByID("dec-1")
	if !res.OK || res.Status != http.StatusOK {
		t.Fatalf("expected successful release, got %+v", res)
	}
	if res.Decision == nil || res.Decision.ReleasedAt == nil {
		t.Fatalf("expected released decision in result, got %+v", res.Decision)
	}
	if notifier.calls != 1 {
		t.Fatalf("expected one notification fan-out, got %d", notifier.calls)
	}
	found := false
	for _, e := range sink.events {
		if e == "decision_released" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected decision_released audit event, got %v", sink.events)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestReleaseDecisionSecondCallConflicts(t *testing.T) {
	released := time.Now().Add(-time.Minute)
	svc, state, _, _, cleanup := releaseService(t, []*queryStep{
		{kind: kindQuery, pattern: decisionSelectPattern, columns: decisionColumns, rows: [][]driver.Value{decisionRow(&released)}},
	}, time.Now())
	defer cleanup()

	res := svc.ReleaseDecisionByID("dec-1")
	if res.Status != http.StatusConflict || res.Reason != "already_released" {
		t.Fatalf("repeat release must conflict, got %+v", res)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}
