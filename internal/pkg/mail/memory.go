package mail

import (
	"context"
)

// MemoryChannelSize is the capacity of the channel a Memory mailer creates
// when the configuration does not supply one.
const MemoryChannelSize = 5

// Memory is a Mailer that hands messages to a bounded channel. It exists so
// that backend-agnostic code can be tested without a real transport.
type Memory struct {
	sender Address
	tx     chan<- Message
	rx     <-chan Message
}

// NewMemory constructs a memory mailer. When cfg has no channel, one of
// MemoryChannelSize is created and exposed through Outbox.
func NewMemory(cfg MemoryConfig) *Memory {
	if cfg.ch != nil {
		return &Memory{sender: cfg.Sender, tx: cfg.ch}
	}

	ch := make(chan Message, MemoryChannelSize)
	return &Memory{sender: cfg.Sender, tx: ch, rx: ch}
}

// Sender returns the configured sender.
func (m *Memory) Sender() Address {
	return m.sender
}

// Outbox returns the receiving end of the internally created channel, or nil
// when the caller supplied its own channel.
func (m *Memory) Outbox() <-chan Message {
	return m.rx
}

// Send places a copy of msg on the channel without blocking. It fails when
// the channel is full or closed.
func (m *Memory) Send(_ context.Context, msg Message) (err error) {
	defer func() {
		// sending on a closed channel panics; the receiver is gone.
		if r := recover(); r != nil {
			err = newUnexpected("cannot send email in memory")
		}
	}()

	select {
	case m.tx <- msg.Clone():
		return nil
	default:
		return newUnexpected("cannot send email in memory")
	}
}
