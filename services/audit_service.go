package services

import (
	"log"
	"time"

	"review-management-api/config"
	"review-management-api/models"

	"gorm.io/gorm"
)

// auditSink and errorSink are the observability boundaries the core writes
// to. Both are append-only and fire-and-forget: a failed write must never
// fail the operation that triggered it.
type auditSink interface {
	Log(eventType, relatedID, details string)
}

type errorSink interface {
	LogFailure(errorType, message, context string)
}

// AuditService persists audit and error records.
type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	if db == nil {
		db = config.DB
	}
	return &AuditService{db: db}
}

// Log appends a lifecycle event. Errors are swallowed after logging.
func (s *AuditService) Log(eventType, relatedID, details string) {
	entry := models.AuditLog{
		EventType: eventType,
		RelatedID: relatedID,
		Details:   details,
		CreatedAt: time.Now(),
	}
	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("audit log write failed (%s/%s): %v", eventType, relatedID, err)
	}
}

// LogFailure appends an infrastructure failure record with enough context to
// reproduce (entity id in context).
func (s *AuditService) LogFailure(errorType, message, context string) {
	entry := models.ErrorLog{
		ErrorType: errorType,
		Message:   message,
		Context:   context,
		CreatedAt: time.Now(),
	}
	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("error log write failed (%s): %v", errorType, err)
	}
}

// RecentAuditLogs lists the newest audit entries for the observability view.
func (s *AuditService) RecentAuditLogs(limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows []models.AuditLog
	if err := s.db.Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// RecentErrorLogs lists the newest failure entries.
func (s *AuditService) RecentErrorLogs(limit int) ([]models.ErrorLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows []models.ErrorLog
	if err := s.db.Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
