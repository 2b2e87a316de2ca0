package models

import "time"

type Notification struct {
	NotificationID uint       `gorm:"primaryKey;column:notification_id" json:"notification_id"`
	UserID         int        `gorm:"column:user_id" json:"user_id"`
	Title          string     `gorm:"column:title" json:"title"`
	Message        string     `gorm:"column:message" json:"message"`
	Type           string     `gorm:"column:type" json:"type"` // info|success|warning|error
	RelatedPaperID *string    `gorm:"column:related_paper_id" json:"related_paper_id,omitempty"`
	IsRead         bool       `gorm:"column:is_read" json:"is_read"`
	CreateAt       time.Time  `gorm:"column:create_at" json:"created_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"-"`
}

func (Notification) TableName() string { return "notifications" }

// NotificationPreference selects delivery channels per author. A missing row
// means both channels are enabled.
type NotificationPreference struct {
	UserID   int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	Email    bool       `gorm:"column:email" json:"email"`
	InApp    bool       `gorm:"column:in_app" json:"in_app"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`
}

func (NotificationPreference) TableName() string { return "notification_preferences" }
