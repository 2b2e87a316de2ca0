package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"review-management-api/models"
)

var (
	reviewerCountPattern = regexp.MustCompile("SELECT count\\(\\*\\) FROM `reviewer_assignments` WHERE reviewer_email")
	pairCountPattern     = regexp.MustCompile("SELECT count\\(\\*\\) FROM `reviewer_assignments` WHERE paper_id")
	insertPattern        = regexp.MustCompile("INSERT INTO `reviewer_assignments`")
	deletePattern        = regexp.MustCompile("DELETE FROM `reviewer_assignments` WHERE paper_id")
)

func countStep(pattern *regexp.Regexp, n int64) *queryStep {
	return &queryStep{
		kind:    kindQuery,
		pattern: pattern,
		columns: []string{"count(*)"},
		rows:    [][]driver.Value{{n}},
	}
}

func TestAddAssignmentRejectsReviewerAtCapacity(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, []*queryStep{
		countStep(reviewerCountPattern, 2),
	})
	defer cleanup()

	store := NewAssignmentStore(db)
	err := store.AddAssignment(&models.ReviewerAssignment{
		PaperID:       "paper-1",
		ReviewerEmail: "busy@x.com",
	}, 2)
	if !errors.Is(err, ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestAddAssignmentRejectsDuplicatePair(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, []*queryStep{
		countStep(reviewerCountPattern, 1),
		countStep(pairCountPattern, 1),
	})
	defer cleanup()

	store := NewAssignmentStore(db)
	err := store.AddAssignment(&models.ReviewerAssignment{
		PaperID:       "paper-1",
		ReviewerEmail: "taken@x.com",
	}, 5)
	if !errors.Is(err, ErrDuplicateAssignment) {
		t.Fatalf("expected ErrDuplicateAssignment, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestAddAssignmentPersistsWithDefaults(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, []*queryStep{
		countStep(reviewerCountPattern, 0),
		countStep(pairCountPattern, 0),
		{kind: kindExec, pattern: insertPattern, result: scriptedResult{rowsAffected: 1}},
	})
	defer cleanup()

	store := NewAssignmentStore(db)
	a := &models.ReviewerAssignment{
		PaperID:       "paper-1",
		ReviewerEmail: "  New@X.com ",
	}
	if err := store.AddAssignment(a, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.AssignmentID == "" {
		t.Fatal("expected a generated assignment id")
	}
	if a.Status != models.AssignmentPending {
		t.Fatalf("expected pending status, got %q", a.Status)
	}
	if a.ReviewerEmail != "new@x.com" {
		t.Fatalf("expected normalized email, got %q", a.ReviewerEmail)
	}
	if a.AssignedAt.IsZero() {
		t.Fatal("expected assigned_at defaulted")
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestRemoveAssignmentsDeletesActiveRows(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, []*queryStep{
		{kind: kindExec, pattern: deletePattern, result: scriptedResult{rowsAffected: 2}},
	})
	defer cleanup()

	store := NewAssignmentStore(db)
	if err := store.RemoveAssignments("paper-1", []string{"A@x.com", "b@x.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestRemoveAssignmentsSkipsBlankList(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	store := NewAssignmentStore(db)
	if err := store.RemoveAssignments("paper-1", []string{"  ", ""}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}
