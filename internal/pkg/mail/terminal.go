package mail

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Terminal is a Mailer that prints messages instead of sending them.
// Useful for local development.
type Terminal struct {
	sender Address
	out    io.Writer
}

// NewTerminal constructs a terminal mailer. Output goes to stdout unless the
// configuration carries a writer.
func NewTerminal(cfg TerminalConfig) *Terminal {
	out := cfg.out
	if out == nil {
		out = os.Stdout
	}
	return &Terminal{sender: cfg.Sender, out: out}
}

// Sender returns the configured sender.
func (t *Terminal) Sender() Address {
	return t.sender
}

// Send prints the message. The whole message is written at once so that
// concurrent sends do not interleave.
func (t *Terminal) Send(_ context.Context, msg Message) error {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\n", t.sender)
	for _, rcpt := range msg.Recipients {
		fmt.Fprintf(&b, "To: %s <%s>\n", rcpt.Name, rcpt.Email)
	}
	fmt.Fprintf(&b, "Subject: %s\n\n\n", msg.Subject)
	fmt.Fprintln(&b, msg.Text)
	fmt.Fprintln(&b, strings.Repeat("-", 10))
	fmt.Fprintln(&b, msg.HTML)

	if _, err := t.out.Write(b.Bytes()); err != nil {
		return newUnexpected(fmt.Sprintf("write to terminal: %v", err))
	}
	return nil
}
