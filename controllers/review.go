package controllers

import (
	"net/http"

	"review-management-api/services"

	"github.com/gin-gonic/gin"
)

func formReasonStatus(reason string) int {
	switch reason {
	case "access_denied", "not_assigned", "not_accepted":
		return http.StatusForbidden
	case "form_missing":
		return http.StatusNotFound
	case "duplicate", "form_closed":
		return http.StatusConflict
	case "validation_failed":
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetReviewForm returns the review form for the assigned reviewer, with their
// last draft when one exists. A closed review period yields a view-only form.
func GetReviewForm(c *gin.Context) {
	paperID := c.Param("id")
	email, _ := getCurrentEmail(c)

	svc := services.NewReviewFormService(nil)
	result := svc.GetForm(paperID, email)
	if !result.OK {
		c.JSON(formReasonStatus(result.Reason), gin.H{"error": result.Reason})
		return
	}

	c.JSON(http.StatusOK, result)
}

type ReviewContentRequest struct {
	Content map[string]string `json:"content" binding:"required"`
}

// SubmitReview submits the final review for the paper. Failed validation and
// failed persistence preserve the attempted content as a draft.
func SubmitReview(c *gin.Context) {
	paperID := c.Param("id")
	email, _ := getCurrentEmail(c)

	var req ReviewContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewReviewSubmissionService(nil)
	result := svc.Submit(paperID, email, req.Content)
	if !result.OK {
		c.JSON(formReasonStatus(result.Reason), result)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SaveReviewDraft stores the reviewer's work in progress. Drafts are
// overwritten wholesale and carry no validation.
func SaveReviewDraft(c *gin.Context) {
	paperID := c.Param("id")
	email, _ := getCurrentEmail(c)

	var req ReviewContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewReviewSubmissionService(nil)
	svc.PreserveDraft(paperID, email, req.Content, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Draft saved"})
}

type InvitationResponseRequest struct {
	Decision string `json:"decision" binding:"required,oneof=accepted declined"`
}

// RespondToInvitation records the referee's accept/decline response to a
// review invitation.
func RespondToInvitation(c *gin.Context) {
	paperID := c.Param("id")
	email, _ := getCurrentEmail(c)

	var req InvitationResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	store := services.NewRequestStore(nil)
	if err := store.RecordRequestDecision(paperID, email, req.Decision); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record response"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Response recorded", "decision": req.Decision})
}

type FormStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active closed"`
}

// SetFormStatus opens or closes the review period for a form.
func SetFormStatus(c *gin.Context) {
	formID := c.Param("form_id")

	var req FormStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	store := services.NewFormStore(nil)
	if err := store.SetFormStatus(formID, req.Status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update form status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Form status updated", "status": req.Status})
}

// ListSubmittedReviews returns the final reviews for a paper (editor view).
func ListSubmittedReviews(c *gin.Context) {
	paperID := c.Param("id")

	store := services.NewSubmittedReviewStore(nil)
	reviews, err := store.SubmittedReviewsForPaper(paperID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"paper_id": paperID, "reviews": reviews})
}
