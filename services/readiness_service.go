package services

import (
	"fmt"

	"review-management-api/models"
	"review-management-api/utils"

	"gorm.io/gorm"
)

// ReadinessTarget is the referee count a paper needs before review can
// proceed. The overassignment guard refuses additions at or beyond it.
const ReadinessTarget = 3

type paperReader interface {
	PaperByID(paperID string) (*models.Paper, error)
}

type requestReader interface {
	RequestsForPaper(paperID string) ([]models.ReviewRequest, error)
}

// ReadinessResult classifies a paper's referee situation. OK is false only
// when the count itself could not be computed; count_low and count_high are
// successful evaluations of an unready paper.
type ReadinessResult struct {
	OK                 bool     `json:"ok"`
	Ready              bool     `json:"ready"`
	Count              int      `json:"count"`
	Reason             string   `json:"reason,omitempty"`
	MissingInvitations []string `json:"missing_invitations,omitempty"`
}

// ReadinessService computes the non-declined referee set for a paper: the
// union of the paper's assigned-referee list and its live invitations.
type ReadinessService struct {
	papers   paperReader
	requests requestReader
	audit    auditSink
	errs     errorSink

	// TrackInvitations enables the missing-invitation report on ready papers.
	TrackInvitations bool
}

func NewReadinessService(db *gorm.DB) *ReadinessService {
	sink := NewAuditService(db)
	return &ReadinessService{
		papers:           NewPaperService(db),
		requests:         NewRequestStore(db),
		audit:            sink,
		errs:             sink,
		TrackInvitations: true,
	}
}

// NonDeclinedEmails returns the merged, normalized referee set with
// duplicates and blanks dropped.
func (s *ReadinessService) NonDeclinedEmails(paperID string) ([]string, error) {
	emails, _, err := s.nonDeclinedSet(paperID)
	return emails, err
}

// NonDeclinedCount is the guard-facing count of the non-declined set.
func (s *ReadinessService) NonDeclinedCount(paperID string) (int, error) {
	emails, _, err := s.nonDeclinedSet(paperID)
	if err != nil {
		return 0, err
	}
	return len(emails), nil
}

func (s *ReadinessService) nonDeclinedSet(paperID string) ([]string, []models.ReviewRequest, error) {
	paper, err := s.papers.PaperByID(paperID)
	if err != nil {
		return nil, nil, fmt.Errorf("non-declined set for %s: %w", paperID, err)
	}

	requests, err := s.requests.RequestsForPaper(paperID)
	if err != nil {
		return nil, nil, fmt.Errorf("non-declined set for %s: %w", paperID, err)
	}

	seen := make(map[string]bool)
	var emails []string
	for _, e := range paper.RefereeEmails() {
		if !seen[e] {
			seen[e] = true
			emails = append(emails, e)
		}
	}
	for _, req := range requests {
		if req.IsDeclined() {
			continue
		}
		e := utils.NormalizeEmail(req.ReviewerEmail)
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		emails = append(emails, e)
	}
	return emails, requests, nil
}

// Evaluate classifies readiness: ready iff the non-declined count equals
// ReadinessTarget exactly. An infrastructure failure never surfaces as an
// error or an ambiguous result; it is logged and reported as count_failure.
func (s *ReadinessService) Evaluate(paperID string) ReadinessResult {
	emails, requests, err := s.nonDeclinedSet(paperID)
	if err != nil {
		s.errs.LogFailure("count_failure", err.Error(), paperID)
		s.audit.Log("readiness_failure", paperID, "non-declined referee count unavailable")
		return ReadinessResult{OK: false, Reason: "count_failure"}
	}

	count := len(emails)
	switch {
	case count < ReadinessTarget:
		return ReadinessResult{OK: true, Count: count, Reason: "count_low"}
	case count > ReadinessTarget:
		return ReadinessResult{OK: true, Count: count, Reason: "count_high"}
	}

	result := ReadinessResult{OK: true, Ready: true, Count: count}
	if s.TrackInvitations {
		result.MissingInvitations = missingInvitations(emails, requests)
	}
	return result
}

// missingInvitations lists non-declined referees without a pending or
// delivered invitation.
func missingInvitations(emails []string, requests []models.ReviewRequest) []string {
	invited := make(map[string]bool, len(requests))
	for _, req := range requests {
		if req.IsDeclined() {
			continue
		}
		if req.Status == models.RequestPending || req.Status == models.RequestSent {
			invited[utils.NormalizeEmail(req.ReviewerEmail)] = true
		}
	}

	var missing []string
	for _, e := range emails {
		if !invited[e] {
			missing = append(missing, e)
		}
	}
	return missing
}
