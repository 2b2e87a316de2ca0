package controllers

import (
	"net/http"

	"review-management-api/services"

	"github.com/gin-gonic/gin"
)

type AssignRequest struct {
	Emails []string `json:"emails" binding:"required"`
	Limit  int      `json:"limit"`
}

// AssignReviewers creates direct assignments for the paper. Each email is
// evaluated independently; the response carries a per-email outcome.
func AssignReviewers(c *gin.Context) {
	paperID := c.Param("id")

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewAssignmentService(nil)
	results := svc.AssignReviewers(paperID, req.Emails, req.Limit)

	c.JSON(http.StatusOK, gin.H{
		"paper_id": paperID,
		"results":  results,
	})
}

type SubmitAssignmentsRequest struct {
	Emails []string `json:"emails" binding:"required"`
}

// SubmitAssignments runs the batch through the overassignment guard and sends
// invitations for the accepted candidates.
func SubmitAssignments(c *gin.Context) {
	paperID := c.Param("id")

	var req SubmitAssignmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewAssignmentService(nil)
	result := svc.SubmitAssignments(paperID, req.Emails)
	if !result.OK {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": result.Failure})
		return
	}

	c.JSON(http.StatusOK, result)
}

type RemoveAssignmentsRequest struct {
	Emails []string `json:"emails" binding:"required"`
}

// RemoveAssignments drops active assignments for the given reviewers.
func RemoveAssignments(c *gin.Context) {
	paperID := c.Param("id")

	var req RemoveAssignmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewAssignmentService(nil)
	if err := svc.RemoveAssignments(paperID, req.Emails); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove assignments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Assignments removed"})
}
