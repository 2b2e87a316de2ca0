package controllers

import (
	"net/http"

	"review-management-api/services"

	"github.com/gin-gonic/gin"
)

// GetPaper returns a paper with its current referee list.
func GetPaper(c *gin.Context) {
	paperID := c.Param("id")

	svc := services.NewPaperService(nil)
	paper, err := svc.PaperByID(paperID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Paper not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"paper":    paper,
		"referees": paper.RefereeEmails(),
	})
}

type PaperStatusRequest struct {
	Status          string `json:"status" binding:"required"`
	ExpectedVersion int    `json:"expected_version"`
}

// UpdatePaperStatus transitions the paper status under the optimistic
// assignment-version check. A stale version answers 409.
func UpdatePaperStatus(c *gin.Context) {
	paperID := c.Param("id")

	var req PaperStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewPaperService(nil)
	result := svc.UpdatePaperStatus(paperID, req.Status, req.ExpectedVersion)
	if !result.OK {
		switch result.Reason {
		case "not_found":
			c.JSON(http.StatusNotFound, result)
		case "concurrent_change":
			c.JSON(http.StatusConflict, result)
		default:
			c.JSON(http.StatusInternalServerError, result)
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

type RefereeListRequest struct {
	Emails          []string `json:"emails" binding:"required"`
	ExpectedVersion int      `json:"expected_version"`
}

// UpdateRefereeList replaces the paper's denormalized referee list, guarded by
// the same optimistic version check.
func UpdateRefereeList(c *gin.Context) {
	paperID := c.Param("id")

	var req RefereeListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewPaperService(nil)
	result := svc.UpdateRefereeList(paperID, req.Emails, req.ExpectedVersion)
	if !result.OK {
		switch result.Reason {
		case "not_found":
			c.JSON(http.StatusNotFound, result)
		case "concurrent_change":
			c.JSON(http.StatusConflict, result)
		default:
			c.JSON(http.StatusInternalServerError, result)
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
