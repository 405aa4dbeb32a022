package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	gomail "github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/samber/lo"
	"github.com/shandysiswandi/gomailer/internal/pkg/uid"
)

// smtpLocalConnectTimeout bounds the TCP connect in local mode.
const smtpLocalConnectTimeout = 10 * time.Second

var errSMTPNoRecipients = errors.New("no recipients provided")

// SMTP is a Mailer backed by an SMTP relay.
//
// No connection is kept between sends; each Send dials the relay afresh.
type SMTP struct {
	cfg     SMTPConfig
	ids     uid.StringID
	now     func() time.Time
	rootCAs *x509.CertPool
}

// NewSMTP constructs an SMTP mailer. It performs no I/O.
func NewSMTP(cfg SMTPConfig) *SMTP {
	slog.Info("starting smtp client",
		"relay", cfg.Relay,
		"port", cfg.Port,
		"tls", cfg.TLS.String(),
		"authenticated", cfg.TLS != TLSModeLocal && cfg.Username != "",
	)

	return &SMTP{
		cfg: cfg,
		ids: uid.NewUUID(),
		now: time.Now,
	}
}

// Sender returns the configured sender.
func (s *SMTP) Sender() Address {
	return s.cfg.Sender
}

// Send composes a multipart/alternative message and submits it.
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	from, err := s.cfg.Sender.mailbox()
	if err != nil {
		return err
	}

	if len(msg.Recipients) == 0 {
		return newMessageBuild(errSMTPNoRecipients)
	}

	to := make([]*gomail.Address, 0, len(msg.Recipients))
	for _, rcpt := range msg.Recipients {
		mb, err := rcpt.mailbox()
		if err != nil {
			return err
		}
		to = append(to, mb)
	}

	raw, err := s.compose(from, to, msg)
	if err != nil {
		return newMessageBuild(err)
	}

	tr := s.transport()
	client, err := tr.dial(ctx)
	if err != nil {
		return newTransport(err)
	}
	defer client.Close()

	if tr.auth != nil {
		if err := client.Auth(tr.auth); err != nil {
			return newTransport(err)
		}
	}

	envelope := lo.Map(to, func(a *gomail.Address, _ int) string { return a.Address })
	if err := client.SendMail(from.Address, envelope, bytes.NewReader(raw)); err != nil {
		return newTransport(err)
	}

	if err := client.Quit(); err != nil {
		slog.WarnContext(ctx, "smtp quit failed after delivery", "relay", s.cfg.Relay, "error", err)
	}

	return nil
}

func (s *SMTP) compose(from *gomail.Address, to []*gomail.Address, msg Message) ([]byte, error) {
	var h gomail.Header
	h.SetDate(s.now())
	h.SetAddressList("From", []*gomail.Address{from})
	h.SetAddressList("Reply-To", []*gomail.Address{from})
	h.SetAddressList("To", to)
	h.SetSubject(msg.Subject)
	h.SetMessageID(s.ids.Generate() + "@" + domainOf(from.Address))

	var buf bytes.Buffer
	w, err := gomail.CreateInlineWriter(&buf, h)
	if err != nil {
		return nil, err
	}

	parts := []struct {
		contentType string
		body        string
	}{
		{contentType: "text/plain", body: msg.Text},
		{contentType: "text/html", body: msg.HTML},
	}
	for _, part := range parts {
		var ph gomail.InlineHeader
		ph.SetContentType(part.contentType, map[string]string{"charset": "utf-8"})
		ph.Set("Content-Transfer-Encoding", "quoted-printable")

		pw, err := w.CreatePart(ph)
		if err != nil {
			return nil, err
		}
		if _, err := io.WriteString(pw, part.body); err != nil {
			return nil, err
		}
		if err := pw.Close(); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// smtpTransport describes how to reach the relay. Building it performs no
// I/O and needs no credentials in local mode.
type smtpTransport struct {
	addr    string
	mode    TLSMode
	tls     *tls.Config
	auth    sasl.Client
	timeout time.Duration
}

func (s *SMTP) transport() smtpTransport {
	cfg := s.cfg
	tr := smtpTransport{
		addr: net.JoinHostPort(cfg.Relay, strconv.Itoa(int(cfg.Port))),
		mode: cfg.TLS,
	}

	switch cfg.TLS {
	case TLSModeTLS, TLSModeStartTLS:
		tr.tls = &tls.Config{
			ServerName: cfg.Relay,
			MinVersion: tls.VersionTLS12,
			RootCAs:    s.rootCAs,
		}
		if cfg.Username != "" {
			tr.auth = sasl.NewPlainClient("", cfg.Username, cfg.Password.Expose())
		}
	default:
		tr.timeout = smtpLocalConnectTimeout
	}

	return tr
}

func (t smtpTransport) connect(ctx context.Context) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: t.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}
	return conn, nil
}

// - TLS mode wraps the TCP connection before the greeting (SMTPS, port 465)
// - StartTLS mode upgrades after EHLO when the server offers it (port 587)
func (t smtpTransport) dial(ctx context.Context) (*smtp.Client, error) {
	conn, err := t.connect(ctx)
	if err != nil {
		return nil, err
	}

	switch t.mode {
	case TLSModeTLS:
		return smtp.NewClient(tls.Client(conn, t.tls)), nil
	case TLSModeStartTLS:
		return t.dialStartTLS(ctx, conn)
	default:
		return smtp.NewClient(conn), nil
	}
}

// dialStartTLS reads the relay's EHLO reply on conn. Without STARTTLS the
// plain client is returned as is. Otherwise the relay is dialled again and
// the new session is upgraded before any other command.
func (t smtpTransport) dialStartTLS(ctx context.Context, conn net.Conn) (*smtp.Client, error) {
	plain := smtp.NewClient(conn)
	if ok, _ := plain.Extension("STARTTLS"); !ok {
		return plain, nil
	}
	_ = plain.Close()

	conn, err := t.connect(ctx)
	if err != nil {
		return nil, err
	}
	return smtp.NewClientStartTLS(conn, t.tls)
}

func domainOf(email string) string {
	if i := strings.LastIndexByte(email, '@'); i >= 0 && i < len(email)-1 {
		return email[i+1:]
	}
	return "localhost"
}
