package services

import (
	"fmt"
	"html/template"
	"strings"

	"gorm.io/gorm"
)

type nonDeclinedCounter interface {
	NonDeclinedCount(paperID string) (int, error)
}

type alertRenderer interface {
	RenderAlert(count int, blocked []string) (string, error)
}

// GuardResult is the outcome of a capacity check. Count carries the current
// non-declined referee count either way.
type GuardResult struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
	Count  int    `json:"count"`
}

// OverassignmentAlert is the guidance shown when an assignment is blocked.
// Fallback marks that the primary rendering failed and the plain message was
// used instead.
type OverassignmentAlert struct {
	Message  string   `json:"message"`
	Fallback bool     `json:"fallback"`
	Count    int      `json:"count"`
	Blocked  []string `json:"blocked,omitempty"`
}

// OverassignmentGuard blocks assignments once a paper reaches the target
// referee count. Papers already above the target are the readiness engine's
// concern (count_high); the guard only prevents going further.
type OverassignmentGuard struct {
	counter  nonDeclinedCounter
	renderer alertRenderer
	errs     errorSink
}

func NewOverassignmentGuard(db *gorm.DB) *OverassignmentGuard {
	return &OverassignmentGuard{
		counter:  NewReadinessService(db),
		renderer: htmlAlertRenderer{},
		errs:     NewAuditService(db),
	}
}

// CanAssign refuses the next assignment once the non-declined count has
// reached ReadinessTarget. A count lookup failure is returned as an error for
// the caller to degrade on.
func (g *OverassignmentGuard) CanAssign(paperID string) (GuardResult, error) {
	count, err := g.counter.NonDeclinedCount(paperID)
	if err != nil {
		return GuardResult{}, fmt.Errorf("guard evaluation for %s: %w", paperID, err)
	}
	if count >= ReadinessTarget {
		return GuardResult{OK: false, Reason: "fourth_assignment", Count: count}, nil
	}
	return GuardResult{OK: true, Count: count}, nil
}

// ComposeAlert builds the guidance message for a blocked assignment. When the
// primary renderer fails, a plain fallback message is produced and the
// rendering failure logged; the condition must never become invisible.
func (g *OverassignmentGuard) ComposeAlert(paperID string, count int, blocked []string) OverassignmentAlert {
	message, err := g.renderer.RenderAlert(count, blocked)
	if err != nil {
		g.errs.LogFailure("alert_render_failure", err.Error(), paperID)
		return OverassignmentAlert{
			Message:  plainAlertMessage(count, blocked),
			Fallback: true,
			Count:    count,
			Blocked:  blocked,
		}
	}
	return OverassignmentAlert{Message: message, Count: count, Blocked: blocked}
}

func plainAlertMessage(count int, blocked []string) string {
	msg := fmt.Sprintf("This paper already has %d non-declined referees; the target is %d.", count, ReadinessTarget)
	if len(blocked) > 0 {
		msg += " Not added: " + strings.Join(blocked, ", ")
	}
	return msg
}

var alertTemplate = template.Must(template.New("overassignment").Parse(
	`<strong>Referee capacity reached.</strong> This paper has {{.Count}} non-declined referees (target {{.Target}}).` +
		`{{if .Blocked}} The following reviewers were not added: {{range $i, $e := .Blocked}}{{if $i}}, {{end}}{{$e}}{{end}}.{{end}}`))

type htmlAlertRenderer struct{}

func (htmlAlertRenderer) RenderAlert(count int, blocked []string) (string, error) {
	var b strings.Builder
	data := struct {
		Count   int
		Target  int
		Blocked []string
	}{Count: count, Target: ReadinessTarget, Blocked: blocked}
	if err := alertTemplate.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
