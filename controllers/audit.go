package controllers

import (
	"net/http"
	"strconv"

	"review-management-api/services"

	"github.com/gin-gonic/gin"
)

// GetAuditLogs lists recent lifecycle events (editor view).
func GetAuditLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	svc := services.NewAuditService(nil)
	logs, err := svc.RecentAuditLogs(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load audit logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"audit_logs": logs})
}

// GetErrorLogs lists recent infrastructure failures (editor view).
func GetErrorLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	svc := services.NewAuditService(nil)
	logs, err := svc.RecentErrorLogs(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load error logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"error_logs": logs})
}
