package services

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"review-management-api/config"
	"review-management-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type decisionNotifier interface {
	SendDecisionNotifications(paper *models.Paper, decision *models.Decision) FanoutResult
}

// ReleaseTask is a single-shot deferred release. Cancel is idempotent and
// guarantees the callback never fires afterwards; an uncancelled task fires
// exactly once.
type ReleaseTask struct {
	mu        sync.Mutex
	timer     *time.Timer
	fired     bool
	cancelled bool
}

func (t *ReleaseTask) run(fn func()) {
	t.mu.Lock()
	if t.cancelled || t.fired {
		t.mu.Unlock()
		return
	}
	t.fired = true
	t.mu.Unlock()
	fn()
}

// Cancel stops the task. Safe to call multiple times or after firing.
func (t *ReleaseTask) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelled || t.fired {
		return
	}
	t.cancelled = true
	if t.timer != nil {
		t.timer.Stop()
	}
}

// ReleaseResult is the outcome of a conflict-checked release. Status carries
// the HTTP code the controller should answer with.
type ReleaseResult struct {
	OK       bool             `json:"ok"`
	Status   int              `json:"-"`
	Reason   string           `json:"reason,omitempty"`
	Decision *models.Decision `json:"decision,omitempty"`
}

// DecisionView is the author-facing, visibility-gated decision state.
type DecisionView struct {
	Status    string     `json:"status"` // none|pending|released
	Value     string     `json:"value,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	ReleaseAt *time.Time `json:"release_at,omitempty"`
}

// DecisionService gates decision visibility by release timestamp, schedules
// deferred releases and performs conflict-checked manual ones.
type DecisionService struct {
	db       *gorm.DB
	papers   paperReader
	notifier decisionNotifier
	audit    auditSink
	errs     errorSink
	now      func() time.Time
}

func NewDecisionService(db *gorm.DB) *DecisionService {
	if db == nil {
		db = config.DB
	}
	sink := NewAuditService(db)
	return &DecisionService{
		db:       db,
		papers:   NewPaperService(db),
		notifier: NewNotificationService(db),
		audit:    sink,
		errs:     sink,
		now:      time.Now,
	}
}

// DecisionVisibleAt applies the visibility rule: visible once the release
// time is at or before now. A missing timestamp is treated as already
// released — fail-open for visibility only, never for mutation.
func DecisionVisibleAt(releaseAt *time.Time, now time.Time) bool {
	return releaseAt == nil || !releaseAt.After(now)
}

// ParseReleaseTime parses an RFC3339 release timestamp. The second return is
// false for a blank or unparseable value, which visibility treats as already
// released.
func ParseReleaseTime(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}

// Schedule arms a single-shot release at releaseAt. A release time at or
// before now invokes the callback synchronously; otherwise a deferred task
// is armed and its handle returned.
func (s *DecisionService) Schedule(releaseAt time.Time, onRelease func()) *ReleaseTask {
	task := &ReleaseTask{}
	delay := releaseAt.Sub(s.now())
	if delay <= 0 {
		task.run(onRelease)
		return task
	}

	task.mu.Lock()
	task.timer = time.AfterFunc(delay, func() { task.run(onRelease) })
	task.mu.Unlock()
	return task
}

// CreateDecision records an unreleased decision for a paper.
func (s *DecisionService) CreateDecision(paperID, value, notes string) (*models.Decision, error) {
	decision := models.Decision{
		DecisionID: uuid.NewString(),
		PaperID:    paperID,
		Value:      value,
		Notes:      notes,
		CreatedAt:  s.now(),
	}
	if err := s.db.Create(&decision).Error; err != nil {
		return nil, fmt.Errorf("%w: decision for %s: %v", ErrSaveFailed, paperID, err)
	}
	return &decision, nil
}

// DecisionByID loads a decision, nil when unknown.
func (s *DecisionService) DecisionByID(decisionID string) (*models.Decision, error) {
	var decision models.Decision
	err := s.db.Where("decision_id = ?", decisionID).First(&decision).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: decision %s: %v", ErrLookupFailed, decisionID, err)
	}
	return &decision, nil
}

// ReleaseDecisionByID performs the conflict-checked release transition:
// unknown decision, an already-released one, and a not-yet-due release gate
// all yield 409 conflicts. Success sets ReleasedAt, persists, notifies and
// audit-logs. Notification and audit are fire-and-forget: their failures
// never unwind the release.
func (s *DecisionService) ReleaseDecisionByID(decisionID string) ReleaseResult {
	decision, err := s.DecisionByID(decisionID)
	if err != nil {
		s.errs.LogFailure("lookup_failed", err.Error(), decisionID)
		return ReleaseResult{Status: http.StatusInternalServerError, Reason: "lookup_failed"}
	}
	if decision == nil {
		return ReleaseResult{Status: http.StatusConflict, Reason: "decision_missing"}
	}
	if decision.IsReleased() {
		return ReleaseResult{Status: http.StatusConflict, Reason: "already_released"}
	}

	paper, err := s.papers.PaperByID(decision.PaperID)
	if err != nil {
		s.errs.LogFailure("lookup_failed", err.Error(), decision.PaperID)
		return ReleaseResult{Status: http.StatusInternalServerError, Reason: "lookup_failed"}
	}

	now := s.now()
	if paper.DecisionReleaseAt != nil && paper.DecisionReleaseAt.After(now) {
		return ReleaseResult{Status: http.StatusConflict, Reason: "release_pending"}
	}

	err = s.db.Model(&models.Decision{}).
		Where("decision_id = ? AND released_at IS NULL", decisionID).
		Update("released_at", now).Error
	if err != nil {
		s.errs.LogFailure("save_failed", err.Error(), decisionID)
		return ReleaseResult{Status: http.StatusInternalServerError, Reason: "save_failed"}
	}
	decision.ReleasedAt = &now

	s.notifier.SendDecisionNotifications(paper, decision)
	s.audit.Log("decision_released", decisionID, fmt.Sprintf("paper %s decision released", decision.PaperID))

	return ReleaseResult{OK: true, Status: http.StatusOK, Decision: decision}
}

// ScheduleRelease stores the release gate on the paper and arms a deferred
// task that performs the release when the time arrives.
func (s *DecisionService) ScheduleRelease(decisionID string, releaseAt time.Time) (*ReleaseTask, error) {
	decision, err := s.DecisionByID(decisionID)
	if err != nil {
		return nil, err
	}
	if decision == nil {
		return nil, fmt.Errorf("%w: decision %s not found", ErrLookupFailed, decisionID)
	}

	papers, ok := s.papers.(*PaperService)
	if ok {
		if err := papers.SetDecisionReleaseAt(decision.PaperID, &releaseAt); err != nil {
			return nil, err
		}
	}

	task := s.Schedule(releaseAt, func() {
		res := s.ReleaseDecisionByID(decisionID)
		if !res.OK && res.Reason != "already_released" {
			s.errs.LogFailure("scheduled_release_failure", res.Reason, decisionID)
		}
	})
	s.audit.Log("decision_release_scheduled", decisionID, releaseAt.Format(time.RFC3339))
	return task, nil
}

// DecisionForPaper returns the visibility-gated decision state for authors.
// Before the release gate elapses the value and notes stay hidden.
func (s *DecisionService) DecisionForPaper(paperID string) (DecisionView, error) {
	paper, err := s.papers.PaperByID(paperID)
	if err != nil {
		return DecisionView{}, err
	}

	var decisions []models.Decision
	err = s.db.Where("paper_id = ?", paperID).
		Order("created_at DESC").Limit(1).Find(&decisions).Error
	if err != nil {
		return DecisionView{}, fmt.Errorf("%w: decision for %s: %v", ErrLookupFailed, paperID, err)
	}
	if len(decisions) == 0 {
		return DecisionView{Status: "none"}, nil
	}
	decision := decisions[0]

	now := s.now()
	visible := DecisionVisibleAt(paper.DecisionReleaseAt, now) ||
		(decision.IsReleased() && DecisionVisibleAt(decision.ReleasedAt, now))
	if !visible {
		return DecisionView{Status: "pending", ReleaseAt: paper.DecisionReleaseAt}, nil
	}
	return DecisionView{Status: "released", Value: decision.Value, Notes: decision.Notes, ReleaseAt: paper.DecisionReleaseAt}, nil
}
