package services

import (
	"errors"

	"review-management-api/models"
	"review-management-api/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type assignmentWriter interface {
	AddAssignment(a *models.ReviewerAssignment, limit int) error
	RemoveAssignments(paperID string, emails []string) error
}

type guardEvaluator interface {
	CanAssign(paperID string) (GuardResult, error)
}

type invitationSender interface {
	SendInvitation(paperID, email string) error
}

// AssignmentOutcome is the per-email result of an assignment request. Each
// email is evaluated independently; partial success is the normal outcome.
type AssignmentOutcome struct {
	Email        string `json:"email"`
	OK           bool   `json:"ok"`
	Reason       string `json:"reason,omitempty"`
	AssignmentID string `json:"assignment_id,omitempty"`
}

// SubmitAssignmentsResult is the batch outcome. Failure is set only when the
// whole call degraded (guard evaluation failed); individual rejections live
// in Results.
type SubmitAssignmentsResult struct {
	OK      bool                `json:"ok"`
	Failure string              `json:"failure,omitempty"`
	Count   int                 `json:"count"`
	Results []AssignmentOutcome `json:"results,omitempty"`
}

// AssignmentService validates and applies assignment requests against the
// capacity rules and the overassignment guard.
type AssignmentService struct {
	store  assignmentWriter
	guard  guardEvaluator
	sender invitationSender
}

func NewAssignmentService(db *gorm.DB) *AssignmentService {
	return &AssignmentService{
		store:  NewAssignmentStore(db),
		guard:  NewOverassignmentGuard(db),
		sender: NewMailInvitationSender(db),
	}
}

// AssignReviewers creates direct assignments for each email. Every entry is
// checked against the per-pair uniqueness rule and the reviewer capacity
// limit independently; rejected entries carry a reason code.
func (s *AssignmentService) AssignReviewers(paperID string, emails []string, limit int) []AssignmentOutcome {
	if limit <= 0 {
		limit = models.DefaultAssignmentLimit
	}

	results := make([]AssignmentOutcome, 0, len(emails))
	for _, raw := range emails {
		email := utils.NormalizeEmail(raw)
		if email == "" || !utils.ValidateEmail(email) {
			results = append(results, AssignmentOutcome{Email: email, Reason: "invalid_email"})
			continue
		}

		assignment := models.ReviewerAssignment{
			AssignmentID:  uuid.NewString(),
			PaperID:       paperID,
			ReviewerEmail: email,
			Status:        models.AssignmentPending,
		}
		if err := s.store.AddAssignment(&assignment, limit); err != nil {
			results = append(results, AssignmentOutcome{Email: email, Reason: assignmentReason(err)})
			continue
		}
		results = append(results, AssignmentOutcome{Email: email, OK: true, AssignmentID: assignment.AssignmentID})
	}
	return results
}

func assignmentReason(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateAssignment):
		return "duplicate"
	case errors.Is(err, ErrLimitReached):
		return "limit_reached"
	case errors.Is(err, ErrLookupFailed):
		return "lookup_failed"
	default:
		return "save_failed"
	}
}

// SubmitAssignments evaluates the batch against the overassignment guard and
// forwards accepted candidates to invitation delivery. Delivery failures are
// reported per email; already-accepted entries are never rolled back. A
// failed guard evaluation degrades the whole call instead of propagating.
func (s *AssignmentService) SubmitAssignments(paperID string, emails []string) SubmitAssignmentsResult {
	guard, err := s.guard.CanAssign(paperID)
	if err != nil {
		return SubmitAssignmentsResult{OK: false, Failure: "evaluation_failed"}
	}

	count := guard.Count
	results := make([]AssignmentOutcome, 0, len(emails))
	for _, raw := range emails {
		email := utils.NormalizeEmail(raw)
		if email == "" || !utils.ValidateEmail(email) {
			results = append(results, AssignmentOutcome{Email: email, Reason: "invalid_email"})
			continue
		}

		if count >= ReadinessTarget {
			results = append(results, AssignmentOutcome{Email: email, Reason: "fourth_assignment"})
			continue
		}

		if err := s.sender.SendInvitation(paperID, email); err != nil {
			results = append(results, AssignmentOutcome{Email: email, Reason: invitationReason(err)})
			continue
		}
		count++
		results = append(results, AssignmentOutcome{Email: email, OK: true})
	}

	return SubmitAssignmentsResult{OK: true, Count: count, Results: results}
}

func invitationReason(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateRequest):
		return "duplicate_request"
	case errors.Is(err, ErrLookupFailed):
		return "lookup_failed"
	default:
		return "delivery_failed"
	}
}

// RemoveAssignments drops the active assignments for the given reviewers.
func (s *AssignmentService) RemoveAssignments(paperID string, emails []string) error {
	return s.store.RemoveAssignments(paperID, emails)
}
