package controllers

import (
	"net/http"

	"review-management-api/services"

	"github.com/gin-gonic/gin"
)

// GetReadiness evaluates the paper's referee situation: ready at the target
// count, count_low/count_high otherwise, count_failure when the set could not
// be computed.
func GetReadiness(c *gin.Context) {
	paperID := c.Param("id")

	svc := services.NewReadinessService(nil)
	result := svc.Evaluate(paperID)
	if !result.OK {
		c.JSON(http.StatusServiceUnavailable, result)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CheckCanAssign reports whether another reviewer may be assigned. A blocked
// paper gets the overassignment alert; rendering problems fall back to the
// plain message.
func CheckCanAssign(c *gin.Context) {
	paperID := c.Param("id")

	guard := services.NewOverassignmentGuard(nil)
	result, err := guard.CanAssign(paperID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "evaluation_failed"})
		return
	}

	if result.OK {
		c.JSON(http.StatusOK, result)
		return
	}

	alert := guard.ComposeAlert(paperID, result.Count, nil)
	c.JSON(http.StatusOK, gin.H{
		"ok":     false,
		"reason": result.Reason,
		"count":  result.Count,
		"alert":  alert,
	})
}
