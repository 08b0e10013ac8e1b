// Package mail renders and delivers the transactional mails of bambushain.
//
// Mailer turns domain events into rendered Messages and hands them to a
// Sender:
//
//   - ResendSender delivers through the Resend API
//   - LogSender only logs, for development without an API key
//   - QueueSender enqueues into redis; Worker delivers with retries
//
// Bodies are html/template files embedded from templates/. Each body
// defines "content" and is rendered inside the shared "layout".
package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/Creastina/bambushain/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names a mail body in templates/
type Template string

const (
	TemplateUserCreated    Template = "user_created"
	TemplatePasswordReset  Template = "password_reset"
	TemplateTwoFactor      Template = "two_factor"
	TemplateForgotPassword Template = "forgot_password"
	TemplateSupportRequest Template = "support_request"
)

var allTemplates = []Template{
	TemplateUserCreated,
	TemplatePasswordReset,
	TemplateTwoFactor,
	TemplateForgotPassword,
	TemplateSupportRequest,
}

// MailerConfig configures a Mailer
type MailerConfig struct {
	Sender         Sender
	SupportAddress string
	BaseURL        string
	TwoFactorTTL   time.Duration
}

// Mailer renders and sends the application mails
type Mailer struct {
	sender         Sender
	supportAddress string
	baseURL        string
	twoFactorTTL   time.Duration
	templates      map[Template]*template.Template
}

// NewMailer parses the embedded templates and creates a mailer
func NewMailer(cfg MailerConfig) (*Mailer, error) {
	templates := make(map[Template]*template.Template, len(allTemplates))
	for _, name := range allTemplates {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", fmt.Sprintf("templates/%s.html", name))
		if err != nil {
			return nil, fmt.Errorf("failed to parse email template %s: %w", name, err)
		}
		templates[name] = tmpl
	}

	return &Mailer{
		sender:         cfg.Sender,
		supportAddress: cfg.SupportAddress,
		baseURL:        cfg.BaseURL,
		twoFactorTTL:   cfg.TwoFactorTTL,
		templates:      templates,
	}, nil
}

// Render executes a template with the given data
func (m *Mailer) Render(name Template, subject string, data map[string]any) (string, error) {
	tmpl, ok := m.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown email template %s", name)
	}

	values := map[string]any{"Subject": subject, "BaseURL": m.baseURL}
	for k, v := range data {
		values[k] = v
	}

	var body bytes.Buffer
	if err := tmpl.ExecuteTemplate(&body, "layout", values); err != nil {
		return "", fmt.Errorf("failed to execute email template %s: %w", name, err)
	}
	return body.String(), nil
}

func (m *Mailer) send(ctx context.Context, to []string, replyTo, subject string, name Template, data map[string]any) error {
	html, err := m.Render(name, subject, data)
	if err != nil {
		return err
	}

	return m.sender.Send(ctx, Message{
		To:      to,
		Subject: subject,
		HTML:    html,
		ReplyTo: replyTo,
	})
}

// SendTwoFactorCode mails a login code
func (m *Mailer) SendTwoFactorCode(ctx context.Context, user *model.User, code string) error {
	return m.send(ctx, []string{user.Email}, "", "Dein Anmeldecode", TemplateTwoFactor, map[string]any{
		"User":         user,
		"Code":         code,
		"ValidMinutes": int(m.twoFactorTTL.Minutes()),
	})
}

// SendUserCreated mails the initial password of a new user
func (m *Mailer) SendUserCreated(ctx context.Context, user *model.User, grove *model.Grove, password string) error {
	return m.send(ctx, []string{user.Email}, "", "Willkommen im Bambushain", TemplateUserCreated, map[string]any{
		"User":     user,
		"Grove":    grove,
		"Password": password,
	})
}

// SendPasswordReset mails a password set by a mod
func (m *Mailer) SendPasswordReset(ctx context.Context, user *model.User, password string) error {
	return m.send(ctx, []string{user.Email}, "", "Dein Passwort wurde zurückgesetzt", TemplatePasswordReset, map[string]any{
		"User":     user,
		"Password": password,
	})
}

// SendForgotPassword tells a mod that a user forgot their password
func (m *Mailer) SendForgotPassword(ctx context.Context, mod *model.User, user *model.User) error {
	return m.send(ctx, []string{mod.Email}, user.Email, fmt.Sprintf("%s hat das Passwort vergessen", user.DisplayName), TemplateForgotPassword, map[string]any{
		"Mod":  mod,
		"User": user,
	})
}

// SendSupportRequest forwards a support request to the support address
func (m *Mailer) SendSupportRequest(ctx context.Context, from *model.User, req model.SupportRequest) error {
	return m.send(ctx, []string{m.supportAddress}, from.Email, "Supportanfrage: "+req.Subject, TemplateSupportRequest, map[string]any{
		"From":    from,
		"Request": req,
	})
}
