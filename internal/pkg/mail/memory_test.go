package mail

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func testMessage() Message {
	return Message{
		Sender:     NewAddress("test@example.com"),
		Recipients: []Address{{Name: "Mail", Email: "mail@example.com"}},
		Subject:    "New subject",
		Text:       "plain",
		HTML:       "<p>html</p>",
	}
}

func TestMemorySendDeliversMessage(t *testing.T) {
	ch := make(chan Message, 1)
	m := NewMemory(NewMemoryConfig("test@example.com").WithChannel(ch))

	if m.Sender() != NewAddress("test@example.com") {
		t.Fatalf("Sender() = %+v", m.Sender())
	}
	if m.Outbox() != nil {
		t.Fatal("Outbox must be nil when the caller owns the channel")
	}

	msg := testMessage()
	if err := m.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send: %v", err)
	}

	got := <-ch
	if !reflect.DeepEqual(got, msg) {
		t.Fatalf("received %+v, want %+v", got, msg)
	}
}

func TestMemorySendDoesNotAliasCaller(t *testing.T) {
	ch := make(chan Message, 1)
	m := NewMemory(MemoryConfig{}.WithChannel(ch))

	msg := testMessage()
	if err := m.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send: %v", err)
	}
	msg.Recipients[0].Email = "changed@example.com"

	if got := <-ch; got.Recipients[0].Email != "mail@example.com" {
		t.Fatalf("queued message was mutated: %+v", got.Recipients)
	}
}

func TestMemorySendIdempotent(t *testing.T) {
	ch := make(chan Message, 2)
	m := NewMemory(MemoryConfig{}.WithChannel(ch))

	msg := testMessage()
	for range 2 {
		if err := m.Send(context.Background(), msg); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}

	first, second := <-ch, <-ch
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated sends differ: %+v vs %+v", first, second)
	}
}

func TestMemorySendKeepsOrder(t *testing.T) {
	ch := make(chan Message, 3)
	m := NewMemory(MemoryConfig{}.WithChannel(ch))

	subjects := []string{"first", "second", "third"}
	for _, subject := range subjects {
		msg := testMessage()
		msg.Subject = subject
		if err := m.Send(context.Background(), msg); err != nil {
			t.Fatalf("Send(%s): %v", subject, err)
		}
	}

	for _, want := range subjects {
		if got := (<-ch).Subject; got != want {
			t.Fatalf("received %q, want %q", got, want)
		}
	}
}

func TestMemorySendFullChannel(t *testing.T) {
	ch := make(chan Message, 1)
	m := NewMemory(MemoryConfig{}.WithChannel(ch))

	if err := m.Send(context.Background(), testMessage()); err != nil {
		t.Fatalf("first Send: %v", err)
	}

	err := m.Send(context.Background(), testMessage())
	if !errors.Is(err, ErrUnexpected) {
		t.Fatalf("expected ErrUnexpected on full channel, got %v", err)
	}
	if err.Error() != "unexpected error: cannot send email in memory" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	<-ch
	if err := m.Send(context.Background(), testMessage()); err != nil {
		t.Fatalf("Send after drain: %v", err)
	}
}

func TestMemorySendUnbufferedChannel(t *testing.T) {
	ch := make(chan Message)
	m := NewMemory(MemoryConfig{}.WithChannel(ch))

	if err := m.Send(context.Background(), testMessage()); !errors.Is(err, ErrUnexpected) {
		t.Fatalf("expected ErrUnexpected without a ready receiver, got %v", err)
	}
}

func TestMemorySendClosedChannel(t *testing.T) {
	ch := make(chan Message, 1)
	m := NewMemory(MemoryConfig{}.WithChannel(ch))
	close(ch)

	if err := m.Send(context.Background(), testMessage()); !errors.Is(err, ErrUnexpected) {
		t.Fatalf("expected ErrUnexpected on closed channel, got %v", err)
	}
}

func TestMemoryOutbox(t *testing.T) {
	m := NewMemory(MemoryConfig{})
	out := m.Outbox()
	if out == nil {
		t.Fatal("expected internal outbox")
	}
	if cap(out) != MemoryChannelSize {
		t.Fatalf("outbox capacity = %d", cap(out))
	}

	for i := range MemoryChannelSize {
		if err := m.Send(context.Background(), testMessage()); err != nil {
			t.Fatalf("Send #%d: %v", i, err)
		}
	}
	if err := m.Send(context.Background(), testMessage()); !errors.Is(err, ErrUnexpected) {
		t.Fatalf("expected overflow error, got %v", err)
	}
	if len(out) != MemoryChannelSize {
		t.Fatalf("outbox holds %d messages", len(out))
	}
}
