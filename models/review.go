package models

import (
	"encoding/json"
	"time"
)

// Review form statuses. A closed form stays readable but rejects writes.
const (
	FormActive = "active"
	FormClosed = "closed"
)

// ReviewFormField describes one field of a review form, decoded from the
// Fields JSON column.
type ReviewFormField struct {
	Name      string `json:"name"`
	Label     string `json:"label,omitempty"`
	Required  bool   `json:"required"`
	MaxLength int    `json:"max_length,omitempty"`
}

// ReviewForm is the per-paper review questionnaire.
type ReviewForm struct {
	FormID   string     `gorm:"primaryKey;column:form_id" json:"form_id"`
	PaperID  string     `gorm:"column:paper_id" json:"paper_id"`
	Status   string     `gorm:"column:status" json:"status"`
	Fields   []byte     `gorm:"column:fields" json:"-"`
	CreateAt time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`
}

func (ReviewForm) TableName() string {
	return "review_forms"
}

// FieldSpecs decodes the field definitions. A corrupt column yields no specs,
// which validation treats as a form without required fields.
func (f *ReviewForm) FieldSpecs() []ReviewFormField {
	if len(f.Fields) == 0 {
		return nil
	}
	var specs []ReviewFormField
	if err := json.Unmarshal(f.Fields, &specs); err != nil {
		return nil
	}
	return specs
}

// IsClosed reports whether the review period has ended for this form.
func (f *ReviewForm) IsClosed() bool {
	return f.Status == FormClosed
}

// ReviewDraft holds the last attempted content for a (paper, reviewer) pair.
// It is overwritten wholesale on every save.
type ReviewDraft struct {
	ID               int       `gorm:"primaryKey;column:id" json:"id"`
	PaperID          string    `gorm:"column:paper_id" json:"paper_id"`
	ReviewerEmail    string    `gorm:"column:reviewer_email" json:"reviewer_email"`
	Content          []byte    `gorm:"column:content" json:"-"`
	ValidationErrors []byte    `gorm:"column:validation_errors" json:"-"`
	SavedAt          time.Time `gorm:"column:saved_at" json:"saved_at"`
}

func (ReviewDraft) TableName() string {
	return "review_drafts"
}

// ContentFields decodes the drafted field values.
func (d *ReviewDraft) ContentFields() map[string]string {
	if len(d.Content) == 0 {
		return nil
	}
	var fields map[string]string
	if err := json.Unmarshal(d.Content, &fields); err != nil {
		return nil
	}
	return fields
}

// SubmittedReview is the final review for a (paper, reviewer) pair. Rows are
// immutable once created; at most one exists per pair.
type SubmittedReview struct {
	ReviewID      string    `gorm:"primaryKey;column:review_id" json:"review_id"`
	PaperID       string    `gorm:"column:paper_id" json:"paper_id"`
	ReviewerEmail string    `gorm:"column:reviewer_email" json:"reviewer_email"`
	Content       []byte    `gorm:"column:content" json:"-"`
	SubmittedAt   time.Time `gorm:"column:submitted_at" json:"submitted_at"`
}

func (SubmittedReview) TableName() string {
	return "submitted_reviews"
}
