package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Paper represents a submitted paper moving through the review lifecycle.
// AssignedRefereeEmails is a denormalized JSON list kept alongside the
// assignment rows; readiness evaluation unions both sources.
type Paper struct {
	PaperID               string     `gorm:"primaryKey;column:paper_id" json:"paper_id"`
	Title                 string     `gorm:"column:title" json:"title"`
	Status                string     `gorm:"column:status" json:"status"`
	AssignedRefereeEmails []byte     `gorm:"column:assigned_referee_emails" json:"-"`
	AssignmentVersion     int        `gorm:"column:assignment_version" json:"assignment_version"`
	DecisionReleaseAt     *time.Time `gorm:"column:decision_release_at" json:"decision_release_at,omitempty"`
	CreateAt              time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt              *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`
	DeleteAt              *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// PaperAuthor links papers to their author accounts.
type PaperAuthor struct {
	ID      int    `gorm:"primaryKey;column:id" json:"id"`
	PaperID string `gorm:"column:paper_id" json:"paper_id"`
	UserID  int    `gorm:"column:user_id" json:"user_id"`
}

func (Paper) TableName() string {
	return "papers"
}

func (PaperAuthor) TableName() string {
	return "paper_authors"
}

// RefereeEmails decodes the JSON referee list, lower-casing entries and
// dropping blanks. A corrupt column yields an empty list rather than an error;
// the assignment rows remain the authoritative source.
func (p *Paper) RefereeEmails() []string {
	if len(p.AssignedRefereeEmails) == 0 {
		return nil
	}
	var raw []string
	if err := json.Unmarshal(p.AssignedRefereeEmails, &raw); err != nil {
		return nil
	}
	emails := make([]string, 0, len(raw))
	for _, e := range raw {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		emails = append(emails, e)
	}
	return emails
}

// SetRefereeEmails encodes the referee list back into the JSON column.
func (p *Paper) SetRefereeEmails(emails []string) {
	if len(emails) == 0 {
		p.AssignedRefereeEmails = nil
		return
	}
	data, err := json.Marshal(emails)
	if err != nil {
		return
	}
	p.AssignedRefereeEmails = data
}
