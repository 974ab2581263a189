package mail

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/landing-leads/internal/usecase"
)

var alertTemplate = template.Must(template.New("alert").Parse(`A landing page lead did not reach the CRM.

Submission: {{.SubmissionID}}
Form:       {{.FormName}}
Outcome:    {{.Outcome}}
Detail:     {{.Detail}}

Lead
  Name:    {{.FirstName}} {{.LastName}}
  Email:   {{.Email}}
  Phone:   {{.Phone}}
  Company: {{.Company}}
  Title:   {{.Title}}
  Source:  {{.Source}}
{{- if .Website}}
  Website: {{.Website}}
{{- end}}
{{if .Description}}
{{.Description}}
{{end}}`))

func NewAlertSender(host string, port int, user, password, from, to string) *AlertSender {
	return &AlertSender{
		From:   from,
		To:     to,
		dialer: gomail.NewDialer(host, port, user, password),
	}
}

// NotifySubmissionFailure mails the operator one alert with the normalized
// lead, so it can be entered by hand. It is sent once and never retried.
func (s *AlertSender) NotifySubmissionFailure(ctx context.Context, alert usecase.FailureAlert) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data := FailureAlertData{
		SubmissionID: alert.SubmissionID,
		FormName:     alert.FormName,
		Outcome:      alert.Outcome.String(),
		Detail:       alert.Detail,
		FirstName:    alert.Lead.FirstName,
		LastName:     alert.Lead.LastName,
		Email:        alert.Lead.EmailAddress,
		Phone:        alert.Lead.PhoneNumber,
		Company:      alert.Lead.AccountName,
		Title:        alert.Lead.Title,
		Description:  alert.Lead.Description,
		Source:       alert.Lead.Source,
		Website:      alert.Lead.Website,
	}

	var body bytes.Buffer
	if err := alertTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("render alert: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", fmt.Sprintf("[lead capture] %s: %s", data.Outcome, data.FormName))
	m.SetBody("text/plain", body.String())
	if data.Email != "" {
		m.SetHeader("Reply-To", data.Email)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send alert via SMTP: %w", err)
	}
	return nil
}
