package services

import (
	"fmt"
	"sync"
	"time"

	"review-management-api/config"
	"review-management-api/models"
	"review-management-api/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var inactiveStatuses = []string{models.AssignmentDeclined, models.AssignmentWithdrawn}

// AssignmentStore persists reviewer assignments. AddAssignment is a single
// check-then-write unit serialized by the store mutex; each individual read
// or write is one storage call.
type AssignmentStore struct {
	db *gorm.DB
	mu sync.Mutex
}

func NewAssignmentStore(db *gorm.DB) *AssignmentStore {
	if db == nil {
		db = config.DB
	}
	return &AssignmentStore{db: db}
}

// AddAssignment appends a new assignment after checking the reviewer's
// capacity and the per-pair uniqueness rule. Returns ErrLimitReached when the
// reviewer already holds `limit` active assignments, ErrDuplicateAssignment
// when an active entry exists for the same (paper, reviewer).
func (s *AssignmentStore) AddAssignment(a *models.ReviewerAssignment, limit int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = models.DefaultAssignmentLimit
	}

	a.ReviewerEmail = utils.NormalizeEmail(a.ReviewerEmail)
	if a.AssignmentID == "" {
		a.AssignmentID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = models.AssignmentPending
	}
	if a.AssignedAt.IsZero() {
		a.AssignedAt = time.Now()
	}

	count, err := s.activeCountForReviewer(a.ReviewerEmail)
	if err != nil {
		return fmt.Errorf("%w: reviewer count for %s: %v", ErrLookupFailed, a.ReviewerEmail, err)
	}
	if count >= limit {
		return ErrLimitReached
	}

	exists, err := s.hasActiveAssignment(a.PaperID, a.ReviewerEmail)
	if err != nil {
		return fmt.Errorf("%w: pair check for %s/%s: %v", ErrLookupFailed, a.PaperID, a.ReviewerEmail, err)
	}
	if exists {
		return ErrDuplicateAssignment
	}

	if err := s.db.Create(a).Error; err != nil {
		return fmt.Errorf("%w: assignment %s: %v", ErrSaveFailed, a.AssignmentID, err)
	}
	return nil
}

// RemoveAssignments deletes the active assignments matching the paper and
// reviewer list. Declined and withdrawn rows are left untouched.
func (s *AssignmentStore) RemoveAssignments(paperID string, emails []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := make([]string, 0, len(emails))
	for _, e := range emails {
		e = utils.NormalizeEmail(e)
		if e == "" {
			continue
		}
		normalized = append(normalized, e)
	}
	if len(normalized) == 0 {
		return nil
	}

	err := s.db.
		Where("paper_id = ? AND reviewer_email IN ? AND status NOT IN ?", paperID, normalized, inactiveStatuses).
		Delete(&models.ReviewerAssignment{}).Error
	if err != nil {
		return fmt.Errorf("%w: remove assignments for %s: %v", ErrSaveFailed, paperID, err)
	}
	return nil
}

// HasActiveAssignment reports whether an active assignment exists for the
// (paper, reviewer) pair. Read-only.
func (s *AssignmentStore) HasActiveAssignment(paperID, email string) (bool, error) {
	return s.hasActiveAssignment(paperID, utils.NormalizeEmail(email))
}

func (s *AssignmentStore) hasActiveAssignment(paperID, email string) (bool, error) {
	var count int64
	err := s.db.Model(&models.ReviewerAssignment{}).
		Where("paper_id = ? AND reviewer_email = ? AND status NOT IN ?", paperID, email, inactiveStatuses).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ActiveAssignment returns the active assignment for the pair, or nil when
// none exists.
func (s *AssignmentStore) ActiveAssignment(paperID, email string) (*models.ReviewerAssignment, error) {
	var rows []models.ReviewerAssignment
	err := s.db.
		Where("paper_id = ? AND reviewer_email = ? AND status NOT IN ?", paperID, utils.NormalizeEmail(email), inactiveStatuses).
		Limit(1).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: assignment for %s/%s: %v", ErrLookupFailed, paperID, email, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// ActiveCountForReviewer counts the reviewer's active assignments across all
// papers. Read-only.
func (s *AssignmentStore) ActiveCountForReviewer(email string) (int, error) {
	return s.activeCountForReviewer(utils.NormalizeEmail(email))
}

func (s *AssignmentStore) activeCountForReviewer(email string) (int, error) {
	var count int64
	err := s.db.Model(&models.ReviewerAssignment{}).
		Where("reviewer_email = ? AND status NOT IN ?", email, inactiveStatuses).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// ActiveEmailsForPaper lists reviewer emails with active assignments on the
// paper.
func (s *AssignmentStore) ActiveEmailsForPaper(paperID string) ([]string, error) {
	var emails []string
	err := s.db.Model(&models.ReviewerAssignment{}).
		Where("paper_id = ? AND status NOT IN ?", paperID, inactiveStatuses).
		Pluck("reviewer_email", &emails).Error
	if err != nil {
		return nil, fmt.Errorf("%w: reviewers for %s: %v", ErrLookupFailed, paperID, err)
	}
	return emails, nil
}
