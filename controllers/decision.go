package controllers

import (
	"net/http"
	"sync"

	"review-management-api/services"

	"github.com/gin-gonic/gin"
)

// scheduledReleases tracks the armed release tasks so a scheduled release can
// be cancelled before it fires. Cancel is idempotent either way.
var (
	scheduledMu       sync.Mutex
	scheduledReleases = map[string]*services.ReleaseTask{}
)

type CreateDecisionRequest struct {
	Value string `json:"value" binding:"required"`
	Notes string `json:"notes"`
}

// CreateDecision records an unreleased decision for the paper.
func CreateDecision(c *gin.Context) {
	paperID := c.Param("id")

	var req CreateDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewDecisionService(nil)
	decision, err := svc.CreateDecision(paperID, req.Value, req.Notes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create decision"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"decision": decision})
}

type ScheduleReleaseRequest struct {
	ReleaseAt string `json:"release_at" binding:"required"`
}

// ScheduleDecisionRelease stores the release gate on the paper and arms a
// deferred release task. A release time already in the past releases
// immediately.
func ScheduleDecisionRelease(c *gin.Context) {
	decisionID := c.Param("decision_id")

	var req ScheduleReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	releaseAt, ok := services.ParseReleaseTime(req.ReleaseAt)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "release_at must be RFC3339"})
		return
	}

	svc := services.NewDecisionService(nil)
	task, err := svc.ScheduleRelease(decisionID, releaseAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to schedule release"})
		return
	}

	scheduledMu.Lock()
	if prev, ok := scheduledReleases[decisionID]; ok {
		prev.Cancel()
	}
	scheduledReleases[decisionID] = task
	scheduledMu.Unlock()

	c.JSON(http.StatusOK, gin.H{"message": "Release scheduled", "release_at": releaseAt})
}

// CancelScheduledRelease cancels an armed release task. Cancelling a task
// that already fired or does not exist is a no-op.
func CancelScheduledRelease(c *gin.Context) {
	decisionID := c.Param("decision_id")

	scheduledMu.Lock()
	task, ok := scheduledReleases[decisionID]
	if ok {
		task.Cancel()
		delete(scheduledReleases, decisionID)
	}
	scheduledMu.Unlock()

	c.JSON(http.StatusOK, gin.H{"message": "Scheduled release cancelled", "was_scheduled": ok})
}

// ReleaseDecision performs a conflict-checked manual release. A missing
// decision, an already-released one, and a not-yet-due release gate all answer
// 409.
func ReleaseDecision(c *gin.Context) {
	decisionID := c.Param("decision_id")

	svc := services.NewDecisionService(nil)
	result := svc.ReleaseDecisionByID(decisionID)
	c.JSON(result.Status, result)
}

// GetPaperDecision returns the visibility-gated decision state for the
// paper's authors. Before the release gate elapses the value stays hidden.
func GetPaperDecision(c *gin.Context) {
	paperID := c.Param("id")

	svc := services.NewDecisionService(nil)
	view, err := svc.DecisionForPaper(paperID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load decision"})
		return
	}

	c.JSON(http.StatusOK, view)
}
