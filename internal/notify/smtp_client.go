package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/google/uuid"

	"mailbot/internal/logger"
	"mailbot/internal/service"
)

// smtpSender delivers through a plain SMTP submission endpoint instead of
// the Resend API, for deployments that already have an outbound relay.
type smtpSender struct {
	addr     string
	username string
	password string
	from     string
	logger   *logger.Logger
}

// NewSMTPNotifier sends notifications over SMTP with implicit TLS and
// SASL PLAIN authentication.
func NewSMTPNotifier(addr, username, password, from string, logger *logger.Logger) service.Notifier {
	return &notifier{sender: &smtpSender{
		addr:     addr,
		username: username,
		password: password,
		from:     from,
		logger:   logger,
	}}
}

func (s *smtpSender) Send(ctx context.Context, to, subject, html string) (string, error) {
	host, _, err := net.SplitHostPort(s.addr)
	if err != nil {
		return "", fmt.Errorf("invalid SMTP address %q: %w", s.addr, err)
	}

	dialer := &tls.Dialer{Config: &tls.Config{ServerName: host}}
	conn, err := dialer.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return "", fmt.Errorf("failed to send notification: SMTP dial failed: %w", err)
	}

	client := smtp.NewClient(conn)
	defer client.Close()

	if s.username != "" {
		auth := sasl.NewPlainClient("", s.username, s.password)
		if err := client.Auth(auth); err != nil {
			return "", fmt.Errorf("failed to send notification: SMTP auth failed: %w", err)
		}
	}

	messageID := uuid.New().String()
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	fmt.Fprintf(&msg, "Message-ID: <%s@mailbot>\r\n", messageID)
	fmt.Fprintf(&msg, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(html)

	if err := client.SendMail(envelopeAddress(s.from), []string{to}, strings.NewReader(msg.String())); err != nil {
		return "", fmt.Errorf("failed to send notification: %w", err)
	}

	s.logger.Info("Sent notification", messageID, "to", to, "via SMTP")
	return messageID, nil
}

// envelopeAddress strips a display name, e.g. "mailbot <a@b>" -> "a@b".
func envelopeAddress(from string) string {
	if start := strings.Index(from, "<"); start != -1 {
		if end := strings.Index(from[start:], ">"); end != -1 {
			return from[start+1 : start+end]
		}
	}
	return from
}
