package models

import "time"

// AuditLog records lifecycle events (assignment, release, delivery). Rows are
// append-only and only ever read back for listing.
type AuditLog struct {
	AuditID   uint      `gorm:"primaryKey;column:audit_id" json:"audit_id"`
	EventType string    `gorm:"column:event_type" json:"event_type"`
	RelatedID string    `gorm:"column:related_id" json:"related_id"`
	Details   string    `gorm:"column:details" json:"details"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }

// ErrorLog records infrastructure failures with enough context to reproduce.
type ErrorLog struct {
	ErrorLogID uint      `gorm:"primaryKey;column:error_log_id" json:"error_log_id"`
	ErrorType  string    `gorm:"column:error_type" json:"error_type"`
	Message    string    `gorm:"column:message" json:"message"`
	Context    string    `gorm:"column:context" json:"context"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (ErrorLog) TableName() string { return "error_logs" }
