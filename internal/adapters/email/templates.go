package email

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// ErrNoRecipients is returned when a request has no To addresses.
var ErrNoRecipients = errors.New("at least one recipient is required")

var welcomeTmpl = template.Must(template.New("welcome").Parse(`<p>Welcome to Ascend!</p>
<p>You're subscribed with <strong>{{.Email}}</strong>. Expect practical guides on funding, pricing and growing your business, plus first word on new programs and events.</p>
<p>If this wasn't you, simply ignore this message.</p>`))

var inquiryTmpl = template.Must(template.New("inquiry").Parse(`<p>New contact inquiry from <strong>{{.Name}}</strong> &lt;{{.Email}}&gt;{{if .Phone}}, {{.Phone}}{{end}}.</p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<p>{{range .Lines}}{{.}}<br>{{end}}</p>`))

// Welcome builds the newsletter welcome email.
// PRE: to is a normalized address
// POST: Returns a request addressed to to
func Welcome(to string) (SendRequest, error) {
	var buf bytes.Buffer
	if err := welcomeTmpl.Execute(&buf, struct{ Email string }{to}); err != nil {
		return SendRequest{}, fmt.Errorf("render welcome: %w", err)
	}
	return SendRequest{
		To:      []string{to},
		Subject: "Welcome to the Ascend newsletter",
		HTML:    buf.String(),
	}, nil
}

// InquiryNotice is the data shown in an inquiry notification.
type InquiryNotice struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// InquiryNotification builds the admin notification for a contact inquiry.
// Replies go straight to the person who wrote in.
// PRE: notice fields have been validated
// POST: Returns a request addressed to recipients with ReplyTo set to the sender
func InquiryNotification(recipients []string, notice InquiryNotice) (SendRequest, error) {
	var buf bytes.Buffer
	data := struct {
		InquiryNotice
		Lines []string
	}{notice, strings.Split(notice.Message, "\n")}
	if err := inquiryTmpl.Execute(&buf, data); err != nil {
		return SendRequest{}, fmt.Errorf("render inquiry notification: %w", err)
	}
	return SendRequest{
		To:      recipients,
		Subject: "New inquiry: " + notice.Subject,
		HTML:    buf.String(),
		ReplyTo: notice.Email,
	}, nil
}
