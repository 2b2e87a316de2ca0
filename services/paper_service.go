package services

import (
	"errors"
	"fmt"
	"time"

	"review-management-api/config"
	"review-management-api/models"

	"gorm.io/gorm"
)

// PaperService reads and updates papers. Status and referee-list updates are
// optimistic: they carry the caller's expected assignment version and are
// rejected with concurrent_change when the row has moved on.
type PaperService struct {
	db *gorm.DB
}

func NewPaperService(db *gorm.DB) *PaperService {
	if db == nil {
		db = config.DB
	}
	return &PaperService{db: db}
}

// PaperByID loads a paper. A missing paper is an error here: every caller in
// the lifecycle engine needs the row to proceed.
func (s *PaperService) PaperByID(paperID string) (*models.Paper, error) {
	var paper models.Paper
	err := s.db.Where("paper_id = ? AND delete_at IS NULL", paperID).First(&paper).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: paper %s not found", ErrLookupFailed, paperID)
		}
		return nil, fmt.Errorf("%w: paper %s: %v", ErrLookupFailed, paperID, err)
	}
	return &paper, nil
}

// AuthorsForPaper returns the author accounts linked to the paper.
func (s *PaperService) AuthorsForPaper(paperID string) ([]models.User, error) {
	var users []models.User
	err := s.db.
		Joins("JOIN paper_authors ON paper_authors.user_id = users.user_id").
		Where("paper_authors.paper_id = ? AND users.delete_at IS NULL", paperID).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("%w: authors for %s: %v", ErrLookupFailed, paperID, err)
	}
	return users, nil
}

// PaperUpdateResult reports the outcome of an optimistic paper update.
type PaperUpdateResult struct {
	OK      bool   `json:"ok"`
	Reason  string `json:"reason,omitempty"`
	Version int    `json:"version,omitempty"`
}

// UpdatePaperStatus transitions the paper status if the caller still holds
// the current assignment version. A stale expectedVersion yields
// concurrent_change without modifying the row.
func (s *PaperService) UpdatePaperStatus(paperID, status string, expectedVersion int) PaperUpdateResult {
	now := time.Now()
	res := s.db.Model(&models.Paper{}).
		Where("paper_id = ? AND assignment_version = ? AND delete_at IS NULL", paperID, expectedVersion).
		Updates(map[string]interface{}{
			"status":             status,
			"assignment_version": expectedVersion + 1,
			"update_at":          now,
		})
	if res.Error != nil {
		return PaperUpdateResult{OK: false, Reason: "save_failed"}
	}
	if res.RowsAffected == 0 {
		if _, err := s.PaperByID(paperID); err != nil {
			return PaperUpdateResult{OK: false, Reason: "not_found"}
		}
		return PaperUpdateResult{OK: false, Reason: "concurrent_change"}
	}
	return PaperUpdateResult{OK: true, Version: expectedVersion + 1}
}

// UpdateRefereeList replaces the denormalized referee email list, guarded by
// the same optimistic version check as status updates.
func (s *PaperService) UpdateRefereeList(paperID string, emails []string, expectedVersion int) PaperUpdateResult {
	paper := models.Paper{}
	paper.SetRefereeEmails(emails)

	now := time.Now()
	res := s.db.Model(&models.Paper{}).
		Where("paper_id = ? AND assignment_version = ? AND delete_at IS NULL", paperID, expectedVersion).
		Updates(map[string]interface{}{
			"assigned_referee_emails": paper.AssignedRefereeEmails,
			"assignment_version":      expectedVersion + 1,
			"update_at":               now,
		})
	if res.Error != nil {
		return PaperUpdateResult{OK: false, Reason: "save_failed"}
	}
	if res.RowsAffected == 0 {
		if _, err := s.PaperByID(paperID); err != nil {
			return PaperUpdateResult{OK: false, Reason: "not_found"}
		}
		return PaperUpdateResult{OK: false, Reason: "concurrent_change"}
	}
	return PaperUpdateResult{OK: true, Version: expectedVersion + 1}
}

// SetDecisionReleaseAt stores the author-visible release gate for the paper.
func (s *PaperService) SetDecisionReleaseAt(paperID string, at *time.Time) error {
	err := s.db.Model(&models.Paper{}).
		Where("paper_id = ? AND delete_at IS NULL", paperID).
		Update("decision_release_at", at).Error
	if err != nil {
		return fmt.Errorf("%w: release gate for %s: %v", ErrSaveFailed, paperID, err)
	}
	return nil
}
