package mail

import (
	"fmt"
	"io"
	"strings"

	"github.com/shandysiswandi/gomailer/internal/pkg/secret"
)

// Kind selects the backend of a Configuration.
type Kind int

const (
	// KindTerminal echoes messages to stdout. It is the zero value.
	KindTerminal Kind = iota
	// KindMemory hands messages to a bounded channel.
	KindMemory
	// KindSMTP submits messages to an SMTP relay.
	KindSMTP
	// KindMailerSend posts messages to the MailerSend API.
	KindMailerSend
)

// String returns the config name of the kind.
func (k Kind) String() string {
	switch k {
	case KindTerminal:
		return "terminal"
	case KindMemory:
		return "memory"
	case KindSMTP:
		return "smtp"
	case KindMailerSend:
		return "mailersend"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// UnmarshalText parses a kind name case-insensitively.
func (k *Kind) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "terminal":
		*k = KindTerminal
	case "memory":
		*k = KindMemory
	case "smtp":
		*k = KindSMTP
	case "mailersend":
		*k = KindMailerSend
	default:
		return fmt.Errorf("mail: unknown backend kind %q", text)
	}
	return nil
}

// TLSMode is the connection security policy of the SMTP backend.
type TLSMode int

const (
	// TLSModeLocal uses an insecure, unauthenticated connection. Meant for
	// local relays such as mailpit.
	TLSModeLocal TLSMode = iota
	// TLSModeTLS requires implicit TLS from the first byte (SMTPS).
	TLSModeTLS
	// TLSModeStartTLS starts in clear text and upgrades via STARTTLS when
	// the server advertises it. A relay that does not advertise it keeps the
	// session in clear text, credentials included.
	TLSModeStartTLS
)

// String returns the config name of the mode.
func (m TLSMode) String() string {
	switch m {
	case TLSModeLocal:
		return "local"
	case TLSModeTLS:
		return "tls"
	case TLSModeStartTLS:
		return "starttls"
	default:
		return fmt.Sprintf("tlsmode(%d)", int(m))
	}
}

// UnmarshalText parses a mode name case-insensitively.
func (m *TLSMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "local":
		*m = TLSModeLocal
	case "tls", "ssl":
		*m = TLSModeTLS
	case "starttls", "start_tls":
		*m = TLSModeStartTLS
	default:
		return fmt.Errorf("mail: unknown tls mode %q", text)
	}
	return nil
}

// Configuration selects one backend and carries the settings of each.
//
// Only the sub-configuration matching Kind is used. The zero value is a
// terminal configuration with an empty sender.
type Configuration struct {
	// Kind selects the backend.
	Kind Kind `mapstructure:"kind"`
	// Terminal configures the terminal backend.
	Terminal TerminalConfig `mapstructure:"terminal"`
	// Memory configures the memory backend.
	Memory MemoryConfig `mapstructure:"memory"`
	// SMTP configures the SMTP backend.
	SMTP SMTPConfig `mapstructure:"smtp"`
	// MailerSend configures the MailerSend backend.
	MailerSend MailerSendConfig `mapstructure:"mailersend"`
}

// FromTerminal returns a terminal Configuration.
func FromTerminal(cfg TerminalConfig) Configuration {
	return Configuration{Kind: KindTerminal, Terminal: cfg}
}

// FromMemory returns a memory Configuration.
func FromMemory(cfg MemoryConfig) Configuration {
	return Configuration{Kind: KindMemory, Memory: cfg}
}

// FromSMTP returns an SMTP Configuration.
func FromSMTP(cfg SMTPConfig) Configuration {
	return Configuration{Kind: KindSMTP, SMTP: cfg}
}

// FromMailerSend returns a MailerSend Configuration.
func FromMailerSend(cfg MailerSendConfig) Configuration {
	return Configuration{Kind: KindMailerSend, MailerSend: cfg}
}

// Active returns the sub-configuration selected by Kind.
func (c Configuration) Active() any {
	switch c.Kind {
	case KindMemory:
		return c.Memory
	case KindSMTP:
		return c.SMTP
	case KindMailerSend:
		return c.MailerSend
	default:
		return c.Terminal
	}
}

// WithDefaults fills values a decoded record may leave out: an empty
// MailerSend base URL becomes DefaultMailerSendBaseURL and trailing slashes
// are dropped.
func (c Configuration) WithDefaults() Configuration {
	if strings.TrimSpace(c.MailerSend.BaseURL) == "" {
		c.MailerSend.BaseURL = DefaultMailerSendBaseURL
	}
	c.MailerSend = c.MailerSend.WithBaseURL(c.MailerSend.BaseURL)
	return c
}

// Sender returns the sender of the active backend.
func (c Configuration) Sender() Address {
	switch c.Kind {
	case KindMemory:
		return c.Memory.Sender
	case KindSMTP:
		return c.SMTP.Sender
	case KindMailerSend:
		return c.MailerSend.Sender
	default:
		return c.Terminal.Sender
	}
}

// TerminalConfig configures the terminal backend.
type TerminalConfig struct {
	// Sender is printed on the From line.
	Sender Address `mapstructure:"sender"`

	out io.Writer
}

// NewTerminalConfig returns a terminal configuration for sender.
func NewTerminalConfig(sender string) TerminalConfig {
	return TerminalConfig{Sender: NewAddress(sender)}
}

// WithSender sets the sender.
func (c TerminalConfig) WithSender(sender Address) TerminalConfig {
	c.Sender = sender
	return c
}

// WithWriter redirects output, stdout when unset.
func (c TerminalConfig) WithWriter(w io.Writer) TerminalConfig {
	c.out = w
	return c
}

// MemoryConfig configures the memory backend.
type MemoryConfig struct {
	// Sender is reported by Sender().
	Sender Address `mapstructure:"sender"`

	ch chan<- Message
}

// NewMemoryConfig returns a memory configuration for sender.
func NewMemoryConfig(sender string) MemoryConfig {
	return MemoryConfig{Sender: NewAddress(sender)}
}

// WithSender sets the sender.
func (c MemoryConfig) WithSender(sender Address) MemoryConfig {
	c.Sender = sender
	return c
}

// WithChannel makes the backend deliver into ch; the caller keeps the
// receiving end. Unbuffered channels reject every send.
func (c MemoryConfig) WithChannel(ch chan<- Message) MemoryConfig {
	c.ch = ch
	return c
}

// DefaultSMTPPort is the plain SMTP port.
const DefaultSMTPPort uint16 = 25

// SMTPConfig configures the SMTP backend.
type SMTPConfig struct {
	// Sender is used for the From and Reply-To headers and the envelope.
	Sender Address `mapstructure:"sender"`
	// Relay is the SMTP server hostname.
	Relay string `mapstructure:"relay" validate:"required,hostname_rfc1123|ip"`
	// Username authenticates against the relay in tls and starttls modes.
	Username string `mapstructure:"username"`
	// Password authenticates against the relay in tls and starttls modes.
	Password secret.Value `mapstructure:"password"`
	// Port is the relay port.
	Port uint16 `mapstructure:"port" validate:"required"`
	// TLS is the connection security policy.
	TLS TLSMode `mapstructure:"tls" validate:"min=0,max=2"`
}

// NewSMTPConfig returns an SMTP configuration with defaults: relay
// localhost, port 25, local mode, empty credentials.
func NewSMTPConfig() SMTPConfig {
	return SMTPConfig{
		Relay: "localhost",
		Port:  DefaultSMTPPort,
		TLS:   TLSModeLocal,
	}
}

// WithSender sets the sender.
func (c SMTPConfig) WithSender(sender Address) SMTPConfig {
	c.Sender = sender
	return c
}

// WithRelay sets the relay hostname.
func (c SMTPConfig) WithRelay(relay string) SMTPConfig {
	c.Relay = relay
	return c
}

// WithUsername sets the username.
func (c SMTPConfig) WithUsername(username string) SMTPConfig {
	c.Username = username
	return c
}

// WithPassword sets the password.
func (c SMTPConfig) WithPassword(password string) SMTPConfig {
	c.Password = secret.New(password)
	return c
}

// WithPort sets the relay port.
func (c SMTPConfig) WithPort(port uint16) SMTPConfig {
	c.Port = port
	return c
}

// WithTLS sets the connection security policy.
func (c SMTPConfig) WithTLS(mode TLSMode) SMTPConfig {
	c.TLS = mode
	return c
}

// DefaultMailerSendBaseURL is the MailerSend API root.
const DefaultMailerSendBaseURL = "https://api.mailersend.com/v1"

// MailerSendConfig configures the MailerSend backend.
type MailerSendConfig struct {
	// Sender is used when a message carries no sender of its own.
	Sender Address `mapstructure:"sender"`
	// BaseURL is the API root without trailing slash.
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	// APIToken is sent as the bearer token.
	APIToken secret.Value `mapstructure:"api_token" validate:"required"`
}

// NewMailerSendConfig returns a MailerSend configuration pointing at the
// public API with empty sender and token.
func NewMailerSendConfig() MailerSendConfig {
	return MailerSendConfig{BaseURL: DefaultMailerSendBaseURL}
}

// WithSender sets the sender.
func (c MailerSendConfig) WithSender(sender Address) MailerSendConfig {
	c.Sender = sender
	return c
}

// WithBaseURL sets the API root; trailing slashes are dropped.
func (c MailerSendConfig) WithBaseURL(baseURL string) MailerSendConfig {
	c.BaseURL = strings.TrimRight(baseURL, "/")
	return c
}

// WithAPIToken sets the bearer token.
func (c MailerSendConfig) WithAPIToken(token string) MailerSendConfig {
	c.APIToken = secret.New(token)
	return c
}
