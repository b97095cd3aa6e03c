package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"slices"

	"github.com/resend/resend-go/v3"
	"github.com/samber/lo"

	"vertitrack/internal/config"
	"vertitrack/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var digestTemplate = template.Must(template.ParseFS(templateFS, "templates/critical_digest.html"))

type Service interface {
	NotifyCritical(ctx context.Context, alerts []domain.Alert) error
}

type service struct {
	client     *resend.Client
	from       string
	recipients []string
}

// NewService returns nil when mail is not configured.
func NewService(cfg *config.Config) Service {
	if cfg.ResendAPIKey == "" || len(cfg.AlertRecipients) == 0 {
		return nil
	}
	return &service{
		client:     resend.NewClient(cfg.ResendAPIKey),
		from:       fmt.Sprintf("VertiTrack Alerts <%s>", cfg.FromEmail),
		recipients: cfg.AlertRecipients,
	}
}

func (s *service) NotifyCritical(ctx context.Context, alerts []domain.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	subject, body, err := RenderDigest(alerts)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      s.recipients,
		Html:    body,
		Subject: subject,
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send critical digest via Resend: %w", err)
	}
	return nil
}

type digestRow struct {
	DueDate  string
	Category domain.AlertCategory
	Title    string
	Message  string
}

// RenderDigest builds the subject and HTML body for a batch of CRITICAL
// alerts, ordered by due date.
func RenderDigest(alerts []domain.Alert) (string, string, error) {
	sorted := append([]domain.Alert(nil), alerts...)
	slices.SortStableFunc(sorted, func(a, b domain.Alert) int {
		return a.DueDate.Compare(b.DueDate)
	})

	raised := lo.MaxBy(sorted, func(a, b domain.Alert) bool { return a.RaisedOn.After(b.RaisedOn) }).RaisedOn

	data := struct {
		Title  string
		Count  int
		Date   string
		Alerts []digestRow
	}{
		Title: fmt.Sprintf("%d critical lift alert%s", len(sorted), lo.Ternary(len(sorted) == 1, "", "s")),
		Count: len(sorted),
		Date:  raised.Format(domain.DateLayout),
		Alerts: lo.Map(sorted, func(a domain.Alert, _ int) digestRow {
			return digestRow{
				DueDate:  a.DueDate.Format(domain.DateLayout),
				Category: a.Category,
				Title:    a.Title,
				Message:  a.Message,
			}
		}),
	}

	var body bytes.Buffer
	if err := digestTemplate.Execute(&body, data); err != nil {
		return "", "", fmt.Errorf("failed to execute digest template: %w", err)
	}

	return "[VertiTrack] " + data.Title, body.String(), nil
}
