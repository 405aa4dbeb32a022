package mail

import (
	"context"
	"testing"
)

func TestNewClient(t *testing.T) {
	sender := Address{Name: "Sender", Email: "sender@example.com"}

	tests := []struct {
		name string
		cfg  Configuration
		kind Kind
	}{
		{name: "terminal", cfg: FromTerminal(TerminalConfig{}.WithSender(sender)), kind: KindTerminal},
		{name: "memory", cfg: FromMemory(MemoryConfig{}.WithSender(sender)), kind: KindMemory},
		{name: "smtp", cfg: FromSMTP(NewSMTPConfig().WithSender(sender)), kind: KindSMTP},
		{name: "mailersend", cfg: FromMailerSend(NewMailerSendConfig().WithSender(sender)), kind: KindMailerSend},
		{name: "unknown kind", cfg: Configuration{Kind: Kind(42), Terminal: TerminalConfig{}.WithSender(sender)}, kind: KindTerminal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.cfg)
			if c.Kind() != tt.kind {
				t.Errorf("Kind() = %s, want %s", c.Kind(), tt.kind)
			}
			if got := c.Mailer().Sender(); got != sender {
				t.Errorf("Sender() = %+v, want %+v", got, sender)
			}
		})
	}
}

func TestNewClientDefault(t *testing.T) {
	c := NewClient(Configuration{})
	if c.Kind() != KindTerminal {
		t.Fatalf("Kind() = %s", c.Kind())
	}
	if got := c.Mailer().Sender(); got != (Address{}) {
		t.Fatalf("Sender() = %+v", got)
	}
}

func TestNewClientMailerSendDefaultBaseURL(t *testing.T) {
	c := NewClient(Configuration{Kind: KindMailerSend, MailerSend: MailerSendConfig{}.WithAPIToken("API_TOKEN")})
	ms, ok := c.Mailer().(*MailerSend)
	if !ok {
		t.Fatalf("Mailer() = %T", c.Mailer())
	}
	if ms.BaseURL() != DefaultMailerSendBaseURL {
		t.Fatalf("BaseURL() = %q", ms.BaseURL())
	}
}

func TestZeroClient(t *testing.T) {
	var c Client
	if c.Kind() != KindTerminal {
		t.Fatalf("Kind() = %s", c.Kind())
	}
	if _, ok := c.Mailer().(*Terminal); !ok {
		t.Fatalf("Mailer() = %T", c.Mailer())
	}
}

func TestClientOf(t *testing.T) {
	tests := []struct {
		mailer Mailer
		kind   Kind
	}{
		{mailer: NewTerminal(TerminalConfig{}), kind: KindTerminal},
		{mailer: NewMemory(MemoryConfig{}), kind: KindMemory},
		{mailer: NewSMTP(NewSMTPConfig()), kind: KindSMTP},
		{mailer: NewMailerSend(NewMailerSendConfig()), kind: KindMailerSend},
	}

	for _, tt := range tests {
		c := ClientOf(tt.mailer)
		if c.Kind() != tt.kind {
			t.Errorf("ClientOf(%T).Kind() = %s", tt.mailer, c.Kind())
		}
		if c.Mailer() != tt.mailer {
			t.Errorf("ClientOf(%T) did not keep the mailer", tt.mailer)
		}
	}
}

func TestClientMemoryRoundTrip(t *testing.T) {
	ch := make(chan Message, 1)
	c := NewClient(FromMemory(NewMemoryConfig("sender@example.com").WithChannel(ch)))

	if err := c.Mailer().Send(context.Background(), testMessage()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got := <-ch; got.Subject != "New subject" {
		t.Fatalf("received %+v", got)
	}
}
