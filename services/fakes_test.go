package services

import (
	"sync"

	"review-management-api/models"
)

// recordingSink captures audit and failure events for assertions.
type recordingSink struct {
	mu       sync.Mutex
	events   []string
	failures []string
}

func (r *recordingSink) Log(eventType, relatedID, details string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, eventType)
}

func (r *recordingSink) LogFailure(errorType, message, context string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, errorType)
}

func (r *recordingSink) failureCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.failures)
}

type fakePapers struct {
	paper *models.Paper
	err   error
}

func (f *fakePapers) PaperByID(string) (*models.Paper, error) {
	return f.paper, f.err
}

type fakeRequests struct {
	requests []models.ReviewRequest
	err      error
}

func (f *fakeRequests) RequestsForPaper(string) ([]models.ReviewRequest, error) {
	return f.requests, f.err
}

type fakeCounter struct {
	count int
	err   error
}

func (f *fakeCounter) NonDeclinedCount(string) (int, error) {
	return f.count, f.err
}

type fakeRenderer struct {
	message string
	err     error
}

func (f *fakeRenderer) RenderAlert(int, []string) (string, error) {
	return f.message, f.err
}

type fakeAssignmentWriter struct {
	addErrs map[string]error
	added   []models.ReviewerAssignment
	removed []string
}

func (f *fakeAssignmentWriter) AddAssignment(a *models.ReviewerAssignment, limit int) error {
	if err, ok := f.addErrs[a.ReviewerEmail]; ok {
		return err
	}
	f.added = append(f.added, *a)
	return nil
}

func (f *fakeAssignmentWriter) RemoveAssignments(paperID string, emails []string) error {
	f.removed = append(f.removed, emails...)
	return nil
}

type fakeGuard struct {
	result GuardResult
	err    error
}

func (f *fakeGuard) CanAssign(string) (GuardResult, error) {
	return f.result, f.err
}

type fakeInvitationSender struct {
	errs map[string]error
	sent []string
}

func (f *fakeInvitationSender) SendInvitation(paperID, email string) error {
	if err, ok := f.errs[email]; ok {
		return err
	}
	f.sent = append(f.sent, email)
	return nil
}

type fakeAssignmentReader struct {
	assignment *models.ReviewerAssignment
	err        error
}

func (f *fakeAssignmentReader) ActiveAssignment(string, string) (*models.ReviewerAssignment, error) {
	return f.assignment, f.err
}

type fakeFormReader struct {
	form *models.ReviewForm
	err  error
}

func (f *fakeFormReader) FormForPaper(string) (*models.ReviewForm, error) {
	return f.form, f.err
}

type fakeDraftStore struct {
	draft     *models.ReviewDraft
	readErr   error
	upsertErr error

	savedContent map[string]string
	savedErrors  map[string]string
	upserts      int
}

func (f *fakeDraftStore) DraftFor(string, string) (*models.ReviewDraft, error) {
	return f.draft, f.readErr
}

func (f *fakeDraftStore) UpsertDraft(paperID, email string, content map[string]string, validationErrors map[string]string) error {
	f.upserts++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.savedContent = content
	f.savedErrors = validationErrors
	return nil
}

type fakeReviewStore struct {
	submitted bool
	hasErr    error
	saveErr   error
	saved     []models.SubmittedReview
}

func (f *fakeReviewStore) HasSubmitted(string, string) (bool, error) {
	return f.submitted, f.hasErr
}

func (f *fakeReviewStore) SaveSubmitted(r *models.SubmittedReview) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if r.ReviewID == "" {
		r.ReviewID = "review-1"
	}
	f.saved = append(f.saved, *r)
	return nil
}

type fakeSubmissionNotifier struct {
	err   error
	calls int
}

func (f *fakeSubmissionNotifier) NotifyReviewSubmitted(string, string) error {
	f.calls++
	return f.err
}

type fakeAuthors struct {
	authors []models.User
	err     error
}

func (f *fakeAuthors) AuthorsForPaper(string) ([]models.User, error) {
	return f.authors, f.err
}

type fakePrefs struct {
	prefs map[int]models.NotificationPreference
	err   error
}

func (f *fakePrefs) PreferenceFor(userID int) (models.NotificationPreference, error) {
	if f.err != nil {
		return models.NotificationPreference{}, f.err
	}
	if pref, ok := f.prefs[userID]; ok {
		return pref, nil
	}
	return models.NotificationPreference{UserID: userID, Email: true, InApp: true}, nil
}

type fakeInApp struct {
	err     error
	created []models.Notification
}

func (f *fakeInApp) CreateNotification(n *models.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, *n)
	return nil
}

type fakeEditors struct {
	ids []int
	err error
}

func (f *fakeEditors) EditorIDs() ([]int, error) {
	return f.ids, f.err
}

type fakeDecisionNotifier struct {
	calls  int
	result FanoutResult
}

func (f *fakeDecisionNotifier) SendDecisionNotifications(*models.Paper, *models.Decision) FanoutResult {
	f.calls++
	return f.result
}
