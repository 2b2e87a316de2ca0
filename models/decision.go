package models

import "time"

// Decision is the editorial outcome for a paper. It is created unreleased,
// released exactly once (ReleasedAt set), and terminal afterwards.
type Decision struct {
	DecisionID string     `gorm:"primaryKey;column:decision_id" json:"decision_id"`
	PaperID    string     `gorm:"column:paper_id" json:"paper_id"`
	Value      string     `gorm:"column:value" json:"value"`
	Notes      string     `gorm:"column:notes" json:"notes"`
	ReleasedAt *time.Time `gorm:"column:released_at" json:"released_at,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"created_at"`
}

func (Decision) TableName() string {
	return "decisions"
}

// IsReleased reports whether the decision has already been released.
func (d *Decision) IsReleased() bool {
	return d.ReleasedAt != nil
}
