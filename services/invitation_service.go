package services

import (
	"fmt"
	"time"

	"review-management-api/config"
	"review-management-api/models"
	"review-management-api/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestStore persists review requests (invitations).
type RequestStore struct {
	db *gorm.DB
}

func NewRequestStore(db *gorm.DB) *RequestStore {
	if db == nil {
		db = config.DB
	}
	return &RequestStore{db: db}
}

// RequestsForPaper lists every invitation recorded for the paper, declined
// ones included; readiness filters them.
func (s *RequestStore) RequestsForPaper(paperID string) ([]models.ReviewRequest, error) {
	var rows []models.ReviewRequest
	if err := s.db.Where("paper_id = ?", paperID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: requests for %s: %v", ErrLookupFailed, paperID, err)
	}
	return rows, nil
}

// HasOpenRequest reports whether a non-declined invitation already exists for
// the pair.
func (s *RequestStore) HasOpenRequest(paperID, email string) (bool, error) {
	var count int64
	err := s.db.Model(&models.ReviewRequest{}).
		Where("paper_id = ? AND reviewer_email = ? AND (decision IS NULL OR decision <> ?)", paperID, utils.NormalizeEmail(email), "declined").
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("%w: request check for %s/%s: %v", ErrLookupFailed, paperID, email, err)
	}
	return count > 0, nil
}

// CreateRequest records a new invitation in pending state.
func (s *RequestStore) CreateRequest(paperID, email string) (*models.ReviewRequest, error) {
	req := models.ReviewRequest{
		RequestID:     uuid.NewString(),
		PaperID:       paperID,
		ReviewerEmail: utils.NormalizeEmail(email),
		Status:        models.RequestPending,
		CreatedAt:     time.Now(),
	}
	if err := s.db.Create(&req).Error; err != nil {
		return nil, fmt.Errorf("%w: request %s/%s: %v", ErrSaveFailed, paperID, email, err)
	}
	return &req, nil
}

// MarkRequestStatus updates the delivery status of an invitation.
func (s *RequestStore) MarkRequestStatus(requestID, status string) error {
	err := s.db.Model(&models.ReviewRequest{}).
		Where("request_id = ?", requestID).
		Update("status", status).Error
	if err != nil {
		return fmt.Errorf("%w: request status %s: %v", ErrSaveFailed, requestID, err)
	}
	return nil
}

// RecordRequestDecision stores the referee's accept/decline response.
func (s *RequestStore) RecordRequestDecision(paperID, email, decision string) error {
	err := s.db.Model(&models.ReviewRequest{}).
		Where("paper_id = ? AND reviewer_email = ?", paperID, utils.NormalizeEmail(email)).
		Update("decision", decision).Error
	if err != nil {
		return fmt.Errorf("%w: request decision %s/%s: %v", ErrSaveFailed, paperID, email, err)
	}
	return nil
}

// MailInvitationSender delivers review invitations over SMTP and records the
// outcome on the request row.
type MailInvitationSender struct {
	requests *RequestStore
	send     func(to []string, subject, html string) error
}

func NewMailInvitationSender(db *gorm.DB) *MailInvitationSender {
	return &MailInvitationSender{
		requests: NewRequestStore(db),
		send:     config.SendMail,
	}
}

// SendInvitation creates the request row and delivers the email. Returns
// ErrDuplicateRequest when an open invitation exists, ErrDeliveryFailed when
// the mail could not be sent; the request row keeps the failed status so the
// attempt stays visible.
func (m *MailInvitationSender) SendInvitation(paperID, email string) error {
	open, err := m.requests.HasOpenRequest(paperID, email)
	if err != nil {
		return err
	}
	if open {
		return ErrDuplicateRequest
	}

	req, err := m.requests.CreateRequest(paperID, email)
	if err != nil {
		return err
	}

	subject := "Invitation to review a paper"
	html := buildInvitationEmailHTML(email, paperID)
	if err := m.send([]string{req.ReviewerEmail}, subject, html); err != nil {
		if markErr := m.requests.MarkRequestStatus(req.RequestID, models.RequestFailed); markErr != nil {
			return fmt.Errorf("%w: %v (status update also failed: %v)", ErrDeliveryFailed, err, markErr)
		}
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	return m.requests.MarkRequestStatus(req.RequestID, models.RequestSent)
}
