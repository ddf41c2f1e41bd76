package utils

import (
	"coachhub/config"
	"context"
	"errors"
	"fmt"
	"html"
	"net/smtp"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailMessage is one outbound transactional email.
type EmailMessage struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

// Mailer sends transactional email and returns the provider's message id when known.
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) (string, error)
}

// Mail is the process-wide mailer, chosen by InitMailer.
var Mail Mailer = disabledMailer{}

var ErrMailerDisabled = errors.New("email provider is not configured")

// InitMailer prefers SendGrid, then SMTP, otherwise leaves email disabled.
func InitMailer(cfg *config.Config) {
	switch {
	case cfg.SendGridApiKey != "":
		Mail = &SendGridMailer{
			client:   sendgrid.NewSendClient(cfg.SendGridApiKey),
			from:     cfg.EmailSender,
			fromName: cfg.EmailSenderName,
		}
		Log.Infof("[EMAIL] using SendGrid sender %s", cfg.EmailSender)
	case cfg.SMTPPassword != "":
		Mail = &SMTPMailer{
			host:     cfg.SMTPHost,
			port:     cfg.SMTPPort,
			from:     cfg.EmailSender,
			fromName: cfg.EmailSenderName,
			password: cfg.SMTPPassword,
		}
		Log.Infof("[EMAIL] using SMTP %s:%s", cfg.SMTPHost, cfg.SMTPPort)
	default:
		Mail = disabledMailer{}
		Log.Warn("[EMAIL] no provider configured, email deliveries will fail")
	}
}

type SendGridMailer struct {
	client   *sendgrid.Client
	from     string
	fromName string
}

func (m *SendGridMailer) Send(ctx context.Context, msg EmailMessage) (string, error) {
	v3 := mail.NewV3Mail()
	v3.SetFrom(mail.NewEmail(m.fromName, m.from))
	v3.Subject = msg.Subject

	p := mail.NewPersonalization()
	for _, to := range msg.To {
		p.AddTos(mail.NewEmail("", to))
	}
	v3.AddPersonalizations(p)

	if msg.Text != "" {
		v3.AddContent(mail.NewContent("text/plain", msg.Text))
	}
	v3.AddContent(mail.NewContent("text/html", msg.HTML))

	resp, err := m.client.SendWithContext(ctx, v3)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("sendgrid responded %d: %s", resp.StatusCode, resp.Body)
	}
	if ids := resp.Headers["X-Message-Id"]; len(ids) > 0 {
		return ids[0], nil
	}
	return "", nil
}

type SMTPMailer struct {
	host     string
	port     string
	from     string
	fromName string
	password string
}

func (m *SMTPMailer) Send(_ context.Context, msg EmailMessage) (string, error) {
	// MIME basics
	body := "MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n"
	body += fmt.Sprintf("From: %s <%s>\r\n", m.fromName, m.from)
	body += fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ","))
	body += fmt.Sprintf("Subject: %s\r\n\r\n", msg.Subject)
	body += msg.HTML

	auth := smtp.PlainAuth("", m.from, m.password, m.host)
	if err := smtp.SendMail(m.host+":"+m.port, auth, m.from, msg.To, []byte(body)); err != nil {
		return "", err
	}
	return "", nil
}

type disabledMailer struct{}

func (disabledMailer) Send(context.Context, EmailMessage) (string, error) {
	return "", ErrMailerDisabled
}

// RenderEmail wraps a title and message in the program's HTML email layout.
// The message is escaped and newlines become <br>.
func RenderEmail(title, message string) string {
	bodyContent := strings.ReplaceAll(html.EscapeString(message), "\n", "<br>")
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<meta charset="UTF-8">
		<style>
			body { font-family: 'Hiragino Sans', 'Helvetica Neue', Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1E5AA8; padding: 24px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 20px; letter-spacing: 1px; }
			.content { padding: 32px 28px; color: #222222; line-height: 1.7; }
			.content h2 { margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 16px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>SPORTS ENGLISH</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				<p>%s</p>
			</div>
			<div class="footer">
				このメールは送信専用です。 / This is an automated message.
			</div>
		</div>
	</body>
	</html>
	`, html.EscapeString(title), bodyContent)
}
