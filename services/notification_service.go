package services

import (
	"fmt"
	"strings"

	"review-management-api/config"
	"review-management-api/models"
	"review-management-api/utils"

	"gorm.io/gorm"
)

type authorReader interface {
	AuthorsForPaper(paperID string) ([]models.User, error)
}

type preferenceReader interface {
	PreferenceFor(userID int) (models.NotificationPreference, error)
}

type inAppSender interface {
	CreateNotification(n *models.Notification) error
}

type editorReader interface {
	EditorIDs() ([]int, error)
}

// FanoutResult summarizes a delivery fan-out. Per-channel failures are
// observability events, not caller-visible errors: OK is false only for a
// missing payload.
type FanoutResult struct {
	OK       bool   `json:"ok"`
	Reason   string `json:"reason,omitempty"`
	Notified int    `json:"notified"`
	Failures int    `json:"failures"`
}

// NotificationService fans decision notifications out to authors across
// their enabled channels, and posts in-app events to editors.
type NotificationService struct {
	authors authorReader
	prefs   preferenceReader
	inapp   inAppSender
	editors editorReader
	mail    func(to []string, subject, html string) error
	audit   auditSink
	errs    errorSink
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	store := NewNotificationStore(db)
	sink := NewAuditService(db)
	return &NotificationService{
		authors: NewPaperService(db),
		prefs:   store,
		inapp:   store,
		editors: store,
		mail:    config.SendMail,
		audit:   sink,
		errs:    sink,
	}
}

// SendDecisionNotifications delivers the released decision to each author on
// their enabled channels. An invalid email address degrades that channel
// and, when in-app is also enabled, the in-app delivery keeps the author
// from ending with zero notifications. Failures are isolated per author and
// channel.
func (s *NotificationService) SendDecisionNotifications(paper *models.Paper, decision *models.Decision) FanoutResult {
	if paper == nil || decision == nil {
		return FanoutResult{Reason: "missing_payload"}
	}

	authors, err := s.authors.AuthorsForPaper(paper.PaperID)
	if err != nil {
		s.errs.LogFailure("author_lookup_failure", err.Error(), paper.PaperID)
		return FanoutResult{OK: true}
	}

	result := FanoutResult{OK: true}
	for _, author := range authors {
		pref, err := s.prefs.PreferenceFor(author.UserID)
		if err != nil {
			// Preference lookup failure falls back to the default (both
			// channels) so a storage fault cannot silence an author.
			s.errs.LogFailure("preference_lookup_failure", err.Error(), fmt.Sprintf("user %d", author.UserID))
			pref = models.NotificationPreference{UserID: author.UserID, Email: true, InApp: true}
		}

		delivered := false
		if pref.Email {
			if s.deliverEmail(author, paper, decision) {
				delivered = true
			}
		}
		if pref.InApp {
			if s.deliverInApp(author, paper, decision) {
				delivered = true
			}
		}

		if delivered {
			result.Notified++
		} else {
			result.Failures++
		}
	}
	return result
}

func (s *NotificationService) deliverEmail(author models.User, paper *models.Paper, decision *models.Decision) bool {
	email := utils.NormalizeEmail(author.Email)
	if !utils.ValidateEmail(email) {
		s.audit.Log("email_failure", decision.DecisionID, fmt.Sprintf("invalid address for user %d", author.UserID))
		return false
	}

	name := strings.TrimSpace(author.UserFname + " " + author.UserLname)
	html := buildDecisionEmailHTML(name, paper.Title, decision.Value, decision.Notes)
	if err := s.mail([]string{email}, "Editorial decision released", html); err != nil {
		s.audit.Log("email_failure", decision.DecisionID, fmt.Sprintf("user %d: %v", author.UserID, err))
		return false
	}
	return true
}

func (s *NotificationService) deliverInApp(author models.User, paper *models.Paper, decision *models.Decision) bool {
	n := models.Notification{
		UserID:         author.UserID,
		Title:          "Editorial decision released",
		Message:        fmt.Sprintf("The decision for \"%s\" is now available: %s", paper.Title, decision.Value),
		Type:           "info",
		RelatedPaperID: &paper.PaperID,
	}
	if err := s.inapp.CreateNotification(&n); err != nil {
		s.audit.Log("inapp_failure", decision.DecisionID, fmt.Sprintf("user %d: %v", author.UserID, err))
		return false
	}
	return true
}

// NotifyReviewSubmitted posts an in-app event to every editor when a review
// lands. Used by the submission service after the final review is committed;
// its failure never unwinds the submission.
func (s *NotificationService) NotifyReviewSubmitted(paperID, reviewerEmail string) error {
	editorIDs, err := s.editors.EditorIDs()
	if err != nil {
		return err
	}

	var firstErr error
	for _, id := range editorIDs {
		n := models.Notification{
			UserID:         id,
			Title:          "Review submitted",
			Message:        fmt.Sprintf("A review for paper %s was submitted by %s.", paperID, reviewerEmail),
			Type:           "success",
			RelatedPaperID: &paperID,
		}
		if err := s.inapp.CreateNotification(&n); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
