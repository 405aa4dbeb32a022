package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/http/httpguts"
)

// StatusError reports a non-2xx response from the MailerSend API.
type StatusError struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Status is the HTTP status line, e.g. "401 Unauthorized".
	Status string
	// URL is the requested endpoint.
	URL string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	class := "client error"
	if e.StatusCode >= http.StatusInternalServerError {
		class = "server error"
	}
	return fmt.Sprintf("http status %s (%s) for url (%s)", class, e.Status, e.URL)
}

type mailerSendPayload struct {
	From    Address   `json:"from"`
	To      []Address `json:"to"`
	Subject string    `json:"subject"`
	Text    string    `json:"text"`
	HTML    string    `json:"html"`
}

// MailerSend is a Mailer backed by the MailerSend HTTP API.
type MailerSend struct {
	cfg  MailerSendConfig
	http *http.Client
}

// NewMailerSend constructs a MailerSend mailer with a reusable HTTP client.
// It performs no I/O.
func NewMailerSend(cfg MailerSendConfig) *MailerSend {
	return &MailerSend{
		cfg: cfg,
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Sender returns the configured sender.
func (m *MailerSend) Sender() Address {
	return m.cfg.Sender
}

// BaseURL returns the API root used for requests.
func (m *MailerSend) BaseURL() string {
	return m.cfg.BaseURL
}

func (m *MailerSend) url() string {
	return strings.TrimRight(m.cfg.BaseURL, "/") + "/email"
}

// Send posts the message to <base_url>/email.
func (m *MailerSend) Send(ctx context.Context, msg Message) error {
	authorization := "Bearer " + m.cfg.APIToken.Expose()
	if !httpguts.ValidHeaderFieldValue(authorization) {
		return newInvalidCredential()
	}

	from := msg.Sender
	if from.Email == "" {
		from = m.cfg.Sender
	}

	body, err := json.Marshal(mailerSendPayload{
		From:    from,
		To:      msg.Recipients,
		Subject: msg.Subject,
		Text:    msg.Text,
		HTML:    msg.HTML,
	})
	if err != nil {
		return newHTTPRequest(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url(), bytes.NewReader(body))
	if err != nil {
		return newHTTPRequest(err)
	}
	req.Header.Set("Authorization", authorization)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := m.http.Do(req)
	if err != nil {
		return newHTTPRequest(err)
	}
	defer resp.Body.Close()

	// drain so the connection goes back to the pool.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return newHTTPRequest(&StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        m.url(),
		})
	}

	return nil
}
