package services

import (
	"review-management-api/models"
	"review-management-api/utils"

	"gorm.io/gorm"
)

type assignmentReader interface {
	ActiveAssignment(paperID, email string) (*models.ReviewerAssignment, error)
}

type formReader interface {
	FormForPaper(paperID string) (*models.ReviewForm, error)
}

type draftReader interface {
	DraftFor(paperID, email string) (*models.ReviewDraft, error)
}

// FormResult is the access-gate outcome. A closed review period yields
// ViewOnly:true rather than a denial: read access survives closure.
type FormResult struct {
	OK       bool               `json:"ok"`
	Reason   string             `json:"reason,omitempty"`
	ViewOnly bool               `json:"view_only"`
	Form     *models.ReviewForm `json:"form,omitempty"`
	Draft    map[string]string  `json:"draft,omitempty"`
}

// ReviewFormService resolves whether a reviewer may see a paper's review
// form, and loads their latest draft alongside it.
type ReviewFormService struct {
	assignments assignmentReader
	forms       formReader
	drafts      draftReader

	// LoadDraft disables draft loading when false (lighter reads for list
	// views).
	LoadDraft bool
}

func NewReviewFormService(db *gorm.DB) *ReviewFormService {
	return &ReviewFormService{
		assignments: NewAssignmentStore(db),
		forms:       NewFormStore(db),
		drafts:      NewReviewDraftStore(db),
		LoadDraft:   true,
	}
}

// GetForm runs the ordered access checks: identity, assignment existence,
// acceptance, form existence, draft. Each failure carries its own reason.
func (s *ReviewFormService) GetForm(paperID, reviewerEmail string) FormResult {
	email := utils.NormalizeEmail(reviewerEmail)
	if email == "" {
		return FormResult{Reason: "access_denied"}
	}

	assignment, err := s.assignments.ActiveAssignment(paperID, email)
	if err != nil {
		return FormResult{Reason: "assignment_lookup_failed"}
	}
	if assignment == nil {
		return FormResult{Reason: "not_assigned"}
	}
	if assignment.Status != models.AssignmentAccepted {
		return FormResult{Reason: "not_accepted"}
	}

	form, err := s.forms.FormForPaper(paperID)
	if err != nil {
		return FormResult{Reason: "form_failure"}
	}
	if form == nil {
		return FormResult{Reason: "form_missing"}
	}

	result := FormResult{OK: true, ViewOnly: form.IsClosed(), Form: form}
	if s.LoadDraft {
		draft, err := s.drafts.DraftFor(paperID, email)
		if err != nil {
			return FormResult{Reason: "draft_failure"}
		}
		if draft != nil {
			result.Draft = draft.ContentFields()
		}
	}
	return result
}
