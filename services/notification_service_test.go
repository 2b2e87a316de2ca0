package services

import (
	"errors"
	"testing"

	"review-management-api/models"
)

type mailRecorder struct {
	failFor map[string]error
	sent    [][]string
}

func (m *mailRecorder) send(to []string, subject, html string) error {
	if len(to) > 0 {
		if err, ok := m.failFor[to[0]]; ok {
			return err
		}
	}
	m.sent = append(m.sent, to)
	return nil
}

func fanoutService(authors []models.User, prefs map[int]models.NotificationPreference, mail *mailRecorder, inapp *fakeInApp, sink *recordingSink) *NotificationService {
	return &NotificationService{
		authors: &fakeAuthors{authors: authors},
		prefs:   &fakePrefs{prefs: prefs},
		inapp:   inapp,
		editors: &fakeEditors{},
		mail:    mail.send,
		audit:   sink,
		errs:    sink,
	}
}

func TestSendDecisionNotificationsMissingPayload(t *testing.T) {
	svc := fanoutService(nil, nil, &mailRecorder{}, &fakeInApp{}, &recordingSink{})

	if res := svc.SendDecisionNotifications(nil, &models.Decision{}); res.OK || res.Reason != "missing_payload" {
		t.Fatalf("expected missing_payload for nil paper, got %+v", res)
	}
	if res := svc.SendDecisionNotifications(&models.Paper{}, nil); res.OK || res.Reason != "missing_payload" {
		t.Fatalf("expected missing_payload for nil decision, got %+v", res)
	}
}

func TestSendDecisionNotificationsBothChannels(t *testing.T) {
	mail := &mailRecorder{}
	inapp := &fakeInApp{}
	authors := []models.User{{UserID: 1, Email: "author@x.com", UserFname: "Ada"}}
	svc := fanoutService(authors, nil, mail, inapp, &recordingSink{})

	res := svc.SendDecisionNotifications(testPaper(), &models.Decision{DecisionID: "dec-1", Value: "accept"})
	if !res.OK || res.Notified != 1 || res.Failures != 0 {
		t.Fatalf("expected one notified author, got %+v", res)
	}
	if len(mail.sent) != 1 || len(inapp.created) != 1 {
		t.Fatalf("expected both channels delivered: mail=%d inapp=%d", len(mail.sent), len(inapp.created))
	}
}

func TestInvalidEmailFallsBackToInApp(t *testing.T) {
	mail := &mailRecorder{}
	inapp := &fakeInApp{}
	sink := &recordingSink{}
	authors := []models.User{{UserID: 1, Email: "not-an-address"}}
	svc := fanoutService(authors, nil, mail, inapp, sink)

	res := svc.SendDecisionNotifications(testPaper(), &models.Decision{DecisionID: "dec-1", Value: "accept"})
	if !res.OK || res.Notified != 1 {
		t.Fatalf("author must still receive at least one notification, got %+v", res)
	}
	if len(mail.sent) != 0 {
		t.Fatal("invalid address must not be mailed")
	}
	if len(inapp.created) != 1 {
		t.Fatal("expected in-app fallback delivery")
	}
	if len(sink.events) != 1 || sink.events[0] != "email_failure" {
		t.Fatalf("expected email_failure audit event, got %v", sink.events)
	}
}

func TestChannelFailuresAreIsolatedPerAuthor(t *testing.T) {
	mail := &mailRecorder{failFor: map[string]error{"broken@x.com": errors.New("bounce")}}
	inapp := &fakeInApp{}
	sink := &recordingSink{}
	authors := []models.User{
		{UserID: 1, Email: "broken@x.com"},
		{UserID: 2, Email: "fine@x.com"},
	}
	prefs := map[int]models.NotificationPreference{
		1: {UserID: 1, Email: true, InApp: false},
		2: {UserID: 2, Email: true, InApp: false},
	}
	svc := fanoutService(authors, prefs, mail, inapp, sink)

	res := svc.SendDecisionNotifications(testPaper(), &models.Decision{DecisionID: "dec-1", Value: "reject"})
	if !res.OK {
		t.Fatalf("aggregate result must stay ok, got %+v", res)
	}
	if res.Notified != 1 || res.Failures != 1 {
		t.Fatalf("expected one delivered, one failed author, got %+v", res)
	}
	if len(mail.sent) != 1 {
		t.Fatalf("second author must still be mailed, got %d", len(mail.sent))
	}
	if len(sink.events) != 1 || sink.events[0] != "email_failure" {
		t.Fatalf("expected one email_failure audit event, got %v", sink.events)
	}
}

func TestPreferenceLookupFailureDefaultsToBothChannels(t *testing.T) {
	mail := &mailRecorder{}
	inapp := &fakeInApp{}
	sink := &recordingSink{}
	svc := &NotificationService{
		authors: &fakeAuthors{authors: []models.User{{UserID: 1, Email: "author@x.com"}}},
		prefs:   &fakePrefs{err: errors.New("storage down")},
		inapp:   inapp,
		editors: &fakeEditors{},
		mail:    mail.send,
		audit:   sink,
		errs:    sink,
	}

	res := svc.SendDecisionNotifications(testPaper(), &models.Decision{DecisionID: "dec-1", Value: "accept"})
	if !res.OK || res.Notified != 1 {
		t.Fatalf("expected delivery despite preference fault, got %+v", res)
	}
	if len(mail.sent) != 1 || len(inapp.created) != 1 {
		t.Fatal("expected both default channels attempted")
	}
	if sink.failureCount() != 1 {
		t.Fatal("preference fault must be logged")
	}
}

func TestNotifyReviewSubmittedPostsToEveryEditor(t *testing.T) {
	inapp := &fakeInApp{}
	svc := &NotificationService{
		editors: &fakeEditors{ids: []int{7, 9}},
		inapp:   inapp,
	}

	if err := svc.NotifyReviewSubmitted("paper-1", "rev@x.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inapp.created) != 2 {
		t.Fatalf("expected two editor notifications, got %d", len(inapp.created))
	}
}
