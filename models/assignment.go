package models

import "time"

// Reviewer assignment statuses. Declined and withdrawn assignments no longer
// count against reviewer capacity or the per-pair uniqueness rule.
const (
	AssignmentPending   = "pending"
	AssignmentAccepted  = "accepted"
	AssignmentDeclined  = "declined"
	AssignmentWithdrawn = "withdrawn"
	AssignmentActive    = "active"
)

// DefaultAssignmentLimit caps active assignments per reviewer across papers.
const DefaultAssignmentLimit = 5

// ReviewerAssignment links a reviewer to a paper. ReviewerEmail is stored
// normalized (lower-case, trimmed).
type ReviewerAssignment struct {
	AssignmentID  string    `gorm:"primaryKey;column:assignment_id" json:"assignment_id"`
	PaperID       string    `gorm:"column:paper_id" json:"paper_id"`
	ReviewerEmail string    `gorm:"column:reviewer_email" json:"reviewer_email"`
	Status        string    `gorm:"column:status" json:"status"`
	AssignedAt    time.Time `gorm:"column:assigned_at" json:"assigned_at"`
}

func (ReviewerAssignment) TableName() string {
	return "reviewer_assignments"
}

// IsActive reports whether the assignment still counts toward capacity.
func (a *ReviewerAssignment) IsActive() bool {
	return a.Status != AssignmentDeclined && a.Status != AssignmentWithdrawn
}

// Review request (invitation) delivery statuses.
const (
	RequestPending = "pending"
	RequestSent    = "sent"
	RequestFailed  = "failed"
)

// ReviewRequest is an invitation sent to a prospective referee. Decision is
// nil until the referee responds; "declined" removes them from the
// non-declined referee set.
type ReviewRequest struct {
	RequestID     string    `gorm:"primaryKey;column:request_id" json:"request_id"`
	PaperID       string    `gorm:"column:paper_id" json:"paper_id"`
	ReviewerEmail string    `gorm:"column:reviewer_email" json:"reviewer_email"`
	Status        string    `gorm:"column:status" json:"status"`
	Decision      *string   `gorm:"column:decision" json:"decision,omitempty"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
}

func (ReviewRequest) TableName() string {
	return "review_requests"
}

// IsDeclined reports whether the invitation was explicitly declined.
func (r *ReviewRequest) IsDeclined() bool {
	return r.Decision != nil && *r.Decision == "declined"
}
