package validator_test

import (
	"errors"
	"testing"

	"github.com/shandysiswandi/gomailer/internal/pkg/mail"
	"github.com/shandysiswandi/gomailer/internal/pkg/validator"
)

func newValidator(t *testing.T) *validator.V10Validator {
	t.Helper()
	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator: %v", err)
	}
	return v
}

func TestValidateAcceptsDefaults(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name string
		data any
	}{
		{name: "terminal", data: mail.NewTerminalConfig("dev@example.com")},
		{name: "memory", data: mail.MemoryConfig{}},
		{name: "smtp", data: mail.NewSMTPConfig().WithSender(mail.NewAddress("noreply@example.com"))},
		{name: "smtp ip relay", data: mail.NewSMTPConfig().WithRelay("10.0.0.7")},
		{name: "mailersend", data: mail.NewMailerSendConfig().WithAPIToken("API_TOKEN")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := v.Validate(tt.data); err != nil {
				t.Fatalf("Validate: %v", err)
			}
		})
	}
}

func TestValidateReportsConfigKeys(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name string
		data any
		keys []string
	}{
		{
			name: "smtp missing relay and port",
			data: mail.SMTPConfig{},
			keys: []string{"relay", "port"},
		},
		{
			name: "smtp bad relay",
			data: mail.NewSMTPConfig().WithRelay("not a host!"),
			keys: []string{"relay"},
		},
		{
			name: "smtp bad sender",
			data: mail.NewSMTPConfig().WithSender(mail.NewAddress("nope")),
			keys: []string{"sender.email"},
		},
		{
			name: "smtp tls out of range",
			data: mail.NewSMTPConfig().WithTLS(mail.TLSMode(9)),
			keys: []string{"tls"},
		},
		{
			name: "mailersend missing token and url",
			data: mail.MailerSendConfig{},
			keys: []string{"base_url", "api_token"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.data)

			var verr validator.V10ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected V10ValidationError, got %v", err)
			}
			if len(verr.Values()) != len(tt.keys) {
				t.Errorf("got %d errors: %v", len(verr), verr)
			}
			for _, k := range tt.keys {
				if _, ok := verr[k]; !ok {
					t.Errorf("missing key %q in %v", k, verr)
				}
			}
		})
	}
}

func TestValidateTranslatesMessages(t *testing.T) {
	v := newValidator(t)

	err := v.Validate(mail.SMTPConfig{Port: 25})
	var verr validator.V10ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected V10ValidationError, got %v", err)
	}
	if got := verr["relay"]; got != "relay is a required field" {
		t.Fatalf("relay message = %q", got)
	}
}

func TestValidateNonStruct(t *testing.T) {
	v := newValidator(t)

	err := v.Validate("plain string")
	if err == nil {
		t.Fatal("expected error")
	}
	var verr validator.V10ValidationError
	if errors.As(err, &verr) {
		t.Fatal("non-struct input must not produce field errors")
	}
}

func TestV10ValidationErrorString(t *testing.T) {
	if got := (validator.V10ValidationError{}).Error(); got != "validation error" {
		t.Errorf("empty Error() = %q", got)
	}
	if got := (validator.V10ValidationError{"relay": "bad"}).Error(); got != `{"relay":"bad"}` {
		t.Errorf("Error() = %q", got)
	}
}
