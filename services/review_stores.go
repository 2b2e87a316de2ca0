package services

import (
	"encoding/json"
	"fmt"
	"time"

	"review-management-api/config"
	"review-management-api/models"
	"review-management-api/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FormStore reads review forms.
type FormStore struct {
	db *gorm.DB
}

func NewFormStore(db *gorm.DB) *FormStore {
	if db == nil {
		db = config.DB
	}
	return &FormStore{db: db}
}

// FormForPaper returns the paper's review form, or nil when none exists.
func (s *FormStore) FormForPaper(paperID string) (*models.ReviewForm, error) {
	var forms []models.ReviewForm
	err := s.db.Where("paper_id = ?", paperID).Limit(1).Find(&forms).Error
	if err != nil {
		return nil, fmt.Errorf("%w: form for %s: %v", ErrLookupFailed, paperID, err)
	}
	if len(forms) == 0 {
		return nil, nil
	}
	return &forms[0], nil
}

// SetFormStatus opens or closes the review period for a form.
func (s *FormStore) SetFormStatus(formID, status string) error {
	err := s.db.Model(&models.ReviewForm{}).
		Where("form_id = ?", formID).
		Updates(map[string]interface{}{"status": status, "update_at": time.Now()}).Error
	if err != nil {
		return fmt.Errorf("%w: form status %s: %v", ErrSaveFailed, formID, err)
	}
	return nil
}

// ReviewDraftStore persists drafts keyed by (paper, reviewer). Saves are
// wholesale overwrites.
type ReviewDraftStore struct {
	db *gorm.DB
}

func NewReviewDraftStore(db *gorm.DB) *ReviewDraftStore {
	if db == nil {
		db = config.DB
	}
	return &ReviewDraftStore{db: db}
}

// DraftFor returns the last saved draft for the pair, or nil when none.
func (s *ReviewDraftStore) DraftFor(paperID, email string) (*models.ReviewDraft, error) {
	var drafts []models.ReviewDraft
	err := s.db.Where("paper_id = ? AND reviewer_email = ?", paperID, utils.NormalizeEmail(email)).
		Limit(1).Find(&drafts).Error
	if err != nil {
		return nil, fmt.Errorf("%w: draft for %s/%s: %v", ErrLookupFailed, paperID, email, err)
	}
	if len(drafts) == 0 {
		return nil, nil
	}
	return &drafts[0], nil
}

// UpsertDraft overwrites the pair's draft with the attempted content and its
// validation errors. Idempotent per (paper, reviewer).
func (s *ReviewDraftStore) UpsertDraft(paperID, email string, content map[string]string, validationErrors map[string]string) error {
	email = utils.NormalizeEmail(email)

	contentJSON, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("%w: draft content for %s/%s: %v", ErrSaveFailed, paperID, email, err)
	}
	var errorsJSON []byte
	if len(validationErrors) > 0 {
		errorsJSON, err = json.Marshal(validationErrors)
		if err != nil {
			return fmt.Errorf("%w: draft errors for %s/%s: %v", ErrSaveFailed, paperID, email, err)
		}
	}

	existing, err := s.DraftFor(paperID, email)
	if err != nil {
		return err
	}

	now := time.Now()
	if existing == nil {
		draft := models.ReviewDraft{
			PaperID:          paperID,
			ReviewerEmail:    email,
			Content:          contentJSON,
			ValidationErrors: errorsJSON,
			SavedAt:          now,
		}
		if err := s.db.Create(&draft).Error; err != nil {
			return fmt.Errorf("%w: draft for %s/%s: %v", ErrSaveFailed, paperID, email, err)
		}
		return nil
	}

	err = s.db.Model(&models.ReviewDraft{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"content":           contentJSON,
			"validation_errors": errorsJSON,
			"saved_at":          now,
		}).Error
	if err != nil {
		return fmt.Errorf("%w: draft for %s/%s: %v", ErrSaveFailed, paperID, email, err)
	}
	return nil
}

// SubmittedReviewStore persists final reviews. Rows are never updated or
// deleted; finality is enforced structurally by the submission service.
type SubmittedReviewStore struct {
	db *gorm.DB
}

func NewSubmittedReviewStore(db *gorm.DB) *SubmittedReviewStore {
	if db == nil {
		db = config.DB
	}
	return &SubmittedReviewStore{db: db}
}

// HasSubmitted reports whether a final review exists for the pair.
func (s *SubmittedReviewStore) HasSubmitted(paperID, email string) (bool, error) {
	var count int64
	err := s.db.Model(&models.SubmittedReview{}).
		Where("paper_id = ? AND reviewer_email = ?", paperID, utils.NormalizeEmail(email)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("%w: submitted check for %s/%s: %v", ErrLookupFailed, paperID, email, err)
	}
	return count > 0, nil
}

// SaveSubmitted creates the final review row.
func (s *SubmittedReviewStore) SaveSubmitted(r *models.SubmittedReview) error {
	if r.ReviewID == "" {
		r.ReviewID = uuid.NewString()
	}
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = time.Now()
	}
	r.ReviewerEmail = utils.NormalizeEmail(r.ReviewerEmail)
	if err := s.db.Create(r).Error; err != nil {
		return fmt.Errorf("%w: review %s/%s: %v", ErrSaveFailed, r.PaperID, r.ReviewerEmail, err)
	}
	return nil
}

// SubmittedReviewsForPaper lists the final reviews for a paper.
func (s *SubmittedReviewStore) SubmittedReviewsForPaper(paperID string) ([]models.SubmittedReview, error) {
	var rows []models.SubmittedReview
	err := s.db.Where("paper_id = ?", paperID).Order("submitted_at ASC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: reviews for %s: %v", ErrLookupFailed, paperID, err)
	}
	return rows, nil
}
