package services

import (
	"fmt"
	"html/template"
	"strings"
)

func buildFormalEmailHTML(subject, recipientName, message string) string {
	name := strings.TrimSpace(recipientName)
	if name == "" {
		name = "Author"
	}

	escapedSubject := template.HTMLEscapeString(subject)
	escapedGreeting := template.HTMLEscapeString(fmt.Sprintf("Dear %s,", name))
	escapedMessage := template.HTMLEscapeString(strings.TrimSpace(message))
	escapedMessage = strings.ReplaceAll(strings.ReplaceAll(escapedMessage, "\r\n", "\n"), "\r", "\n")
	escapedMessage = strings.ReplaceAll(escapedMessage, "\n", "<br />")

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin:0;padding:0;background-color:#f9fafb;font-family:'Segoe UI',Tahoma,Arial,sans-serif;">
<div style="max-width:640px;margin:0 auto;padding:24px 20px;">
  <div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px 24px 28px 24px;">
    <p style="margin:0 0 16px 0;font-size:16px;line-height:1.7;color:#111827;">%s</p>
    <p style="margin:0 0 0 0;font-size:16px;line-height:1.7;color:#111827;word-break:break-word;">%s</p>
  </div>
</div>
</body>
</html>`, escapedSubject, escapedGreeting, escapedMessage)
}

func buildDecisionEmailHTML(recipientName, paperTitle, value, notes string) string {
	message := fmt.Sprintf("The editorial decision for your paper \"%s\" has been released.\n\nDecision: %s", paperTitle, value)
	if strings.TrimSpace(notes) != "" {
		message += "\n\nNotes from the editors:\n" + notes
	}
	return buildFormalEmailHTML("Editorial decision released", recipientName, message)
}

func buildInvitationEmailHTML(recipientEmail, paperID string) string {
	message := fmt.Sprintf("You have been invited to review paper %s.\n\nPlease sign in to accept or decline the invitation.", paperID)
	return buildFormalEmailHTML("Invitation to review", recipientEmail, message)
}
