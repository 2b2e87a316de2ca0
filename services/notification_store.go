package services

import (
	"fmt"
	"time"

	"review-management-api/config"
	"review-management-api/models"

	"gorm.io/gorm"
)

// NotificationStore persists in-app notifications and channel preferences.
type NotificationStore struct {
	db *gorm.DB
}

func NewNotificationStore(db *gorm.DB) *NotificationStore {
	if db == nil {
		db = config.DB
	}
	return &NotificationStore{db: db}
}

// PreferenceFor returns the author's channel preference. A missing row means
// both channels enabled.
func (s *NotificationStore) PreferenceFor(userID int) (models.NotificationPreference, error) {
	var prefs []models.NotificationPreference
	err := s.db.Where("user_id = ?", userID).Limit(1).Find(&prefs).Error
	if err != nil {
		return models.NotificationPreference{}, fmt.Errorf("%w: preference for user %d: %v", ErrLookupFailed, userID, err)
	}
	if len(prefs) == 0 {
		return models.NotificationPreference{UserID: userID, Email: true, InApp: true}, nil
	}
	return prefs[0], nil
}

// SavePreference upserts the author's channel preference.
func (s *NotificationStore) SavePreference(pref models.NotificationPreference) error {
	now := time.Now()
	pref.UpdateAt = &now

	var existing []models.NotificationPreference
	if err := s.db.Where("user_id = ?", pref.UserID).Limit(1).Find(&existing).Error; err != nil {
		return fmt.Errorf("%w: preference for user %d: %v", ErrLookupFailed, pref.UserID, err)
	}
	if len(existing) == 0 {
		if err := s.db.Create(&pref).Error; err != nil {
			return fmt.Errorf("%w: preference for user %d: %v", ErrSaveFailed, pref.UserID, err)
		}
		return nil
	}
	err := s.db.Model(&models.NotificationPreference{}).
		Where("user_id = ?", pref.UserID).
		Updates(map[string]interface{}{"email": pref.Email, "in_app": pref.InApp, "update_at": now}).Error
	if err != nil {
		return fmt.Errorf("%w: preference for user %d: %v", ErrSaveFailed, pref.UserID, err)
	}
	return nil
}

// CreateNotification appends an in-app notification row.
func (s *NotificationStore) CreateNotification(n *models.Notification) error {
	if n.CreateAt.IsZero() {
		n.CreateAt = time.Now()
	}
	if n.Type == "" {
		n.Type = "info"
	}
	if err := s.db.Create(n).Error; err != nil {
		return fmt.Errorf("%w: notification for user %d: %v", ErrSaveFailed, n.UserID, err)
	}
	return nil
}

// NotificationsForUser lists a user's notifications, newest first.
func (s *NotificationStore) NotificationsForUser(userID, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows []models.Notification
	err := s.db.Where("user_id = ?", userID).
		Order("create_at DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: notifications for user %d: %v", ErrLookupFailed, userID, err)
	}
	return rows, nil
}

// UnreadCount returns the user's unread notification count.
func (s *NotificationStore) UnreadCount(userID int) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("%w: unread count for user %d: %v", ErrLookupFailed, userID, err)
	}
	return count, nil
}

// MarkRead flags one of the user's notifications as read.
func (s *NotificationStore) MarkRead(userID int, notificationID uint) error {
	now := time.Now()
	res := s.db.Model(&models.Notification{}).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{"is_read": true, "update_at": now})
	if res.Error != nil {
		return fmt.Errorf("%w: mark read %d: %v", ErrSaveFailed, notificationID, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// EditorIDs lists the user IDs holding the editor role.
func (s *NotificationStore) EditorIDs() ([]int, error) {
	var ids []int
	err := s.db.Model(&models.User{}).
		Where("role_id = ? AND delete_at IS NULL", models.RoleEditor).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("%w: editor lookup: %v", ErrLookupFailed, err)
	}
	return ids, nil
}
