package email

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/emersion/go-message/mail"

	"github.com/girmesh03/task-manager-api/internal/config"
)

// SMTPSender delivers jobs over plain SMTP as multipart/alternative
// messages with a text and an HTML part.
type SMTPSender struct {
	host   string
	port   int
	user   string
	pass   string
	from   string
	logger *slog.Logger
}

// NewSMTPSender creates a sender from the email configuration.
func NewSMTPSender(cfg config.EmailConfig, logger *slog.Logger) *SMTPSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &SMTPSender{
		host:   cfg.SMTPHost,
		port:   cfg.SMTPPort,
		user:   cfg.SMTPUsername,
		pass:   cfg.SMTPPassword,
		from:   cfg.FromAddress,
		logger: logger.With("component", "smtp_sender"),
	}
}

// Send builds the MIME message and hands it to the SMTP server.
func (s *SMTPSender) Send(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := buildMessage(s.from, job)
	if err != nil {
		return fmt.Errorf("build message for %s: %w", job.To, err)
	}

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.pass, s.host)
	}
	if err := smtp.SendMail(addr, auth, s.from, []string{job.To}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", job.To, err)
	}
	s.logger.Debug("email sent", "job_id", job.ID, "to", job.To)
	return nil
}

// buildMessage renders a multipart/alternative MIME message. The text part
// comes first so clients that stop at the first readable part pick it up.
func buildMessage(from string, job Job) ([]byte, error) {
	var buf bytes.Buffer

	var h mail.Header
	h.SetDate(time.Now())
	h.SetAddressList("From", []*mail.Address{{Address: from}})
	h.SetAddressList("To", []*mail.Address{{Address: job.To}})
	h.SetSubject(job.Subject)

	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("create mail writer: %w", err)
	}

	tw, err := mw.CreateInline()
	if err != nil {
		return nil, fmt.Errorf("create inline writer: %w", err)
	}

	var textHeader mail.InlineHeader
	textHeader.Set("Content-Type", "text/plain; charset=utf-8")
	pw, err := tw.CreatePart(textHeader)
	if err != nil {
		return nil, fmt.Errorf("create text part: %w", err)
	}
	if _, err := io.WriteString(pw, job.Text); err != nil {
		return nil, fmt.Errorf("write text part: %w", err)
	}
	if err := pw.Close(); err != nil {
		return nil, err
	}

	var htmlHeader mail.InlineHeader
	htmlHeader.Set("Content-Type", "text/html; charset=utf-8")
	pw, err = tw.CreatePart(htmlHeader)
	if err != nil {
		return nil, fmt.Errorf("create html part: %w", err)
	}
	if _, err := io.WriteString(pw, job.HTML); err != nil {
		return nil, fmt.Errorf("write html part: %w", err)
	}
	if err := pw.Close(); err != nil {
		return nil, err
	}

	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
