package mail

// Client is a concrete backend selected from a Configuration.
//
// The zero value behaves as a terminal client with an empty sender.
type Client struct {
	kind   Kind
	mailer Mailer
}

// NewClient constructs the client matching cfg.Kind. It only transfers
// fields; no connection is opened. Unknown kinds fall back to terminal.
func NewClient(cfg Configuration) Client {
	cfg = cfg.WithDefaults()
	switch cfg.Kind {
	case KindMemory:
		return Client{kind: KindMemory, mailer: NewMemory(cfg.Memory)}
	case KindSMTP:
		return Client{kind: KindSMTP, mailer: NewSMTP(cfg.SMTP)}
	case KindMailerSend:
		return Client{kind: KindMailerSend, mailer: NewMailerSend(cfg.MailerSend)}
	default:
		return Client{kind: KindTerminal, mailer: NewTerminal(cfg.Terminal)}
	}
}

// ClientOf wraps an already constructed backend of this package. Other
// Mailer implementations are reported as KindTerminal.
func ClientOf(m Mailer) Client {
	switch m.(type) {
	case *Memory:
		return Client{kind: KindMemory, mailer: m}
	case *SMTP:
		return Client{kind: KindSMTP, mailer: m}
	case *MailerSend:
		return Client{kind: KindMailerSend, mailer: m}
	default:
		return Client{kind: KindTerminal, mailer: m}
	}
}

// Kind reports the backend of the client.
func (c Client) Kind() Kind {
	return c.kind
}

// Mailer returns the client as the common Mailer capability.
func (c Client) Mailer() Mailer {
	if c.mailer == nil {
		return NewTerminal(TerminalConfig{})
	}
	return c.mailer
}
