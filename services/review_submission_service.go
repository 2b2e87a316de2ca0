package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"review-management-api/models"
	"review-management-api/utils"

	"gorm.io/gorm"
)

type submittedReviewWriter interface {
	HasSubmitted(paperID, email string) (bool, error)
	SaveSubmitted(r *models.SubmittedReview) error
}

type draftWriter interface {
	UpsertDraft(paperID, email string, content map[string]string, validationErrors map[string]string) error
}

type submissionNotifier interface {
	NotifyReviewSubmitted(paperID, reviewerEmail string) error
}

// SubmitResult is the outcome of a submission attempt. NotificationStatus is
// informational only: a failed notification never fails a committed
// submission.
type SubmitResult struct {
	OK                 bool              `json:"ok"`
	Reason             string            `json:"reason,omitempty"`
	Errors             map[string]string `json:"errors,omitempty"`
	ReviewID           string            `json:"review_id,omitempty"`
	NotificationStatus string            `json:"notification_status,omitempty"`
}

// ReviewSubmissionService is the submission state machine. Per (paper,
// reviewer): NoAssignment -> Assigned(pending) -> Assigned(accepted) ->
// Submitted. Submitted is terminal and irreversible.
type ReviewSubmissionService struct {
	assignments assignmentReader
	forms       formReader
	reviews     submittedReviewWriter
	drafts      draftWriter
	notifier    submissionNotifier
	errs        errorSink
}

func NewReviewSubmissionService(db *gorm.DB) *ReviewSubmissionService {
	return &ReviewSubmissionService{
		assignments: NewAssignmentStore(db),
		forms:       NewFormStore(db),
		reviews:     NewSubmittedReviewStore(db),
		drafts:      NewReviewDraftStore(db),
		notifier:    NewNotificationService(db),
		errs:        NewAuditService(db),
	}
}

// Submit re-checks assignment, acceptance, finality and form-open state at
// submit time, re-validates the content, and persists the final review.
// Failed validation and failed persistence both preserve the attempted
// content as a draft; user input is never discarded.
func (s *ReviewSubmissionService) Submit(paperID, reviewerEmail string, content map[string]string) SubmitResult {
	email := utils.NormalizeEmail(reviewerEmail)
	if email == "" {
		return SubmitResult{Reason: "access_denied"}
	}

	assignment, err := s.assignments.ActiveAssignment(paperID, email)
	if err != nil {
		s.errs.LogFailure("assignment_lookup_failed", err.Error(), paperID+"/"+email)
		return SubmitResult{Reason: "assignment_lookup_failed"}
	}
	if assignment == nil {
		return SubmitResult{Reason: "not_assigned"}
	}
	if assignment.Status != models.AssignmentAccepted {
		return SubmitResult{Reason: "not_accepted"}
	}

	// Finality is structural: once a final review exists, every further
	// attempt is rejected regardless of content.
	submitted, err := s.reviews.HasSubmitted(paperID, email)
	if err != nil {
		s.errs.LogFailure("lookup_failed", err.Error(), paperID+"/"+email)
		return SubmitResult{Reason: "lookup_failed"}
	}
	if submitted {
		return SubmitResult{Reason: "duplicate"}
	}

	form, err := s.forms.FormForPaper(paperID)
	if err != nil {
		s.errs.LogFailure("form_failure", err.Error(), paperID)
		return SubmitResult{Reason: "form_failure"}
	}
	if form == nil {
		return SubmitResult{Reason: "form_missing"}
	}
	if form.IsClosed() {
		return SubmitResult{Reason: "form_closed"}
	}

	if fieldErrors := ValidateReviewContent(form, content); len(fieldErrors) > 0 {
		s.PreserveDraft(paperID, email, content, fieldErrors)
		return SubmitResult{Reason: "validation_failed", Errors: fieldErrors}
	}

	contentJSON, err := json.Marshal(content)
	if err != nil {
		s.errs.LogFailure("save_failed", err.Error(), paperID+"/"+email)
		s.PreserveDraft(paperID, email, content, nil)
		return SubmitResult{Reason: "save_failed"}
	}

	review := models.SubmittedReview{
		PaperID:       paperID,
		ReviewerEmail: email,
		Content:       contentJSON,
	}
	if err := s.reviews.SaveSubmitted(&review); err != nil {
		s.errs.LogFailure("save_failed", err.Error(), paperID+"/"+email)
		s.PreserveDraft(paperID, email, content, nil)
		return SubmitResult{Reason: "save_failed"}
	}

	result := SubmitResult{OK: true, ReviewID: review.ReviewID}
	if s.notifier != nil {
		if err := s.notifier.NotifyReviewSubmitted(paperID, email); err != nil {
			s.errs.LogFailure("notification_failure", err.Error(), paperID+"/"+email)
			result.NotificationStatus = "failed"
		} else {
			result.NotificationStatus = "sent"
		}
	}
	return result
}

// PreserveDraft upserts the attempted content for the pair. Best-effort: a
// storage error is logged and swallowed, never propagated.
func (s *ReviewSubmissionService) PreserveDraft(paperID, reviewerEmail string, content map[string]string, validationErrors map[string]string) {
	email := utils.NormalizeEmail(reviewerEmail)
	if err := s.drafts.UpsertDraft(paperID, email, content, validationErrors); err != nil {
		s.errs.LogFailure("draft_save_failure", err.Error(), paperID+"/"+email)
	}
}

// ValidateReviewContent checks the content against the form's field rules:
// required fields present, length caps respected, no control characters. A
// form without field specs still requires at least one non-blank value.
func ValidateReviewContent(form *models.ReviewForm, content map[string]string) map[string]string {
	fieldErrors := make(map[string]string)

	specs := form.FieldSpecs()
	if len(specs) == 0 {
		for _, v := range content {
			if strings.TrimSpace(v) != "" {
				return nil
			}
		}
		fieldErrors["content"] = "review content is required"
		return fieldErrors
	}

	for _, spec := range specs {
		value := content[spec.Name]
		trimmed := strings.TrimSpace(value)
		if spec.Required && trimmed == "" {
			fieldErrors[spec.Name] = "this field is required"
			continue
		}
		if spec.MaxLength > 0 && len(value) > spec.MaxLength {
			fieldErrors[spec.Name] = fmt.Sprintf("must be at most %d characters", spec.MaxLength)
			continue
		}
		if utils.HasControlCharacters(value) {
			fieldErrors[spec.Name] = "contains invalid characters"
		}
	}

	if len(fieldErrors) == 0 {
		return nil
	}
	return fieldErrors
}
