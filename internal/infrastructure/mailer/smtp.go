package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/pickem-league/internal/domain/notification"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
	"github.com/valyala/bytebufferpool"
)

var ErrInvalidMessage = crerr.New("invalid email message")

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	Timeout   time.Duration
}

// SMTPMailer delivers messages over SMTP, upgrading with STARTTLS when the
// server offers it.
type SMTPMailer struct {
	cfg    SMTPConfig
	logger *logging.Logger
	now    func() time.Time
}

func NewSMTPMailer(cfg SMTPConfig, logger *logging.Logger) *SMTPMailer {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Port <= 0 {
		cfg.Port = 587
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &SMTPMailer{cfg: cfg, logger: logger, now: time.Now}
}

func (m *SMTPMailer) Send(ctx context.Context, msg notification.Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return crerr.Wrap(ErrInvalidMessage, "recipient is required")
	}
	if strings.TrimSpace(m.cfg.Host) == "" || strings.TrimSpace(m.cfg.FromEmail) == "" {
		return crerr.New("smtp host and from email are required")
	}

	payload, err := m.compose(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return crerr.Wrapf(err, "dial smtp %s", addr)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return crerr.Wrap(err, "create smtp client")
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
			return crerr.Wrap(err, "start tls")
		}
	}
	if m.cfg.Username != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return crerr.Wrap(err, "smtp auth")
		}
	}
	if err := client.Mail(m.cfg.FromEmail); err != nil {
		return crerr.Wrap(err, "smtp mail from")
	}
	if err := client.Rcpt(msg.To); err != nil {
		return crerr.Wrapf(err, "smtp rcpt to %s", msg.To)
	}

	w, err := client.Data()
	if err != nil {
		return crerr.Wrap(err, "smtp data")
	}
	if _, err := w.Write(payload); err != nil {
		_ = w.Close()
		return crerr.Wrap(err, "write smtp body")
	}
	if err := w.Close(); err != nil {
		return crerr.Wrap(err, "close smtp body")
	}
	if err := client.Quit(); err != nil {
		m.logger.WarnContext(ctx, "smtp quit failed", "error", err)
	}
	return nil
}

// compose renders a multipart/alternative message with text and HTML parts.
func (m *SMTPMailer) compose(msg notification.Message) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	writer := multipart.NewWriter(buf)
	from := mail.Address{Name: m.cfg.FromName, Address: m.cfg.FromEmail}
	headers := []string{
		"From: " + from.String(),
		"To: " + msg.To,
		"Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject),
		"Date: " + m.now().UTC().Format(time.RFC1123Z),
		"MIME-Version: 1.0",
		fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q", writer.Boundary()),
	}
	prelude := strings.Join(headers, "\r\n") + "\r\n\r\n"

	parts := []struct {
		contentType string
		body        string
	}{
		{"text/plain; charset=utf-8", msg.TextBody},
		{"text/html; charset=utf-8", msg.HTMLBody},
	}
	for _, part := range parts {
		if part.body == "" {
			continue
		}
		w, err := writer.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {part.contentType},
			"Content-Transfer-Encoding": {"8bit"},
		})
		if err != nil {
			return nil, crerr.Wrap(err, "create mime part")
		}
		if _, err := w.Write([]byte(part.body)); err != nil {
			return nil, crerr.Wrap(err, "write mime part")
		}
	}
	if err := writer.Close(); err != nil {
		return nil, crerr.Wrap(err, "close mime writer")
	}

	out := make([]byte, 0, len(prelude)+buf.Len())
	out = append(out, prelude...)
	out = append(out, buf.B...)
	return out, nil
}

// LogMailer only logs what would have been sent. Used when SMTP is disabled.
type LogMailer struct {
	logger *logging.Logger
}

func NewLogMailer(logger *logging.Logger) *LogMailer {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, msg notification.Message) error {
	m.logger.InfoContext(ctx, "email delivery disabled, message dropped",
		"to", msg.To,
		"subject", msg.Subject,
		"text_bytes", len(msg.TextBody),
		"html_bytes", len(msg.HTMLBody),
	)
	return nil
}
