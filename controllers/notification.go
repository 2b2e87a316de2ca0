package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"review-management-api/models"
	"review-management-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetNotifications lists the current user's notifications, newest first.
func GetNotifications(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	store := services.NewNotificationStore(nil)
	notifications, err := store.NotificationsForUser(userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// GetUnreadCount returns the current user's unread notification count.
func GetUnreadCount(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	store := services.NewNotificationStore(nil)
	count, err := store.UnreadCount(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// MarkNotificationRead flags one of the current user's notifications as read.
func MarkNotificationRead(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	notificationID, err := strconv.ParseUint(c.Param("notification_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification id"})
		return
	}

	store := services.NewNotificationStore(nil)
	if err := store.MarkRead(userID, uint(notificationID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// GetNotificationPreference returns the current user's channel preference.
// A missing row means both channels enabled.
func GetNotificationPreference(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	store := services.NewNotificationStore(nil)
	pref, err := store.PreferenceFor(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load preference"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"preference": pref})
}

type PreferenceRequest struct {
	Email *bool `json:"email" binding:"required"`
	InApp *bool `json:"in_app" binding:"required"`
}

// UpdateNotificationPreference stores the current user's channel selection.
func UpdateNotificationPreference(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req PreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pref := models.NotificationPreference{
		UserID: userID,
		Email:  *req.Email,
		InApp:  *req.InApp,
	}

	store := services.NewNotificationStore(nil)
	if err := store.SavePreference(pref); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save preference"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Preference saved", "preference": pref})
}
