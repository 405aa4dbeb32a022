package mail

import (
	"context"
	"slices"

	gomail "github.com/emersion/go-message/mail"
)

// Address is an email address with an optional display name.
type Address struct {
	// Name is the display name, e.g. "John Doe".
	Name string `mapstructure:"name" json:"name"`
	// Email is the address itself, e.g. "john.doe@example.com".
	Email string `mapstructure:"email" json:"email" validate:"omitempty,email"`
}

// NewAddress returns an Address without display name.
func NewAddress(email string) Address {
	return Address{Email: email}
}

// ParseAddress parses an RFC 5322 address such as "Jane <jane@example.com>"
// or a bare "jane@example.com".
func ParseAddress(s string) (Address, error) {
	addr, err := gomail.ParseAddress(s)
	if err != nil {
		return Address{}, newAddressParse(s, err)
	}
	return Address{Name: addr.Name, Email: addr.Address}, nil
}

// ParseAddressList parses a comma separated list of RFC 5322 addresses.
func ParseAddressList(s string) ([]Address, error) {
	list, err := gomail.ParseAddressList(s)
	if err != nil {
		return nil, newAddressParse(s, err)
	}

	addrs := make([]Address, 0, len(list))
	for _, addr := range list {
		addrs = append(addrs, Address{Name: addr.Name, Email: addr.Address})
	}
	return addrs, nil
}

// String renders "Name <email>" when a name is set, otherwise the bare email.
func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return a.Name + " <" + a.Email + ">"
}

// mailbox converts the address into the header representation used by the
// SMTP backend, validating the email part.
func (a Address) mailbox() (*gomail.Address, error) {
	parsed, err := gomail.ParseAddress(a.Email)
	if err != nil {
		return nil, newAddressParse(a.Email, err)
	}
	return &gomail.Address{Name: a.Name, Address: parsed.Address}, nil
}

// Message represents an email payload.
type Message struct {
	// Sender is the author of the message.
	Sender Address `json:"sender"`
	// Recipients lists the To addresses in order.
	Recipients []Address `json:"recipients"`
	// Subject is the email subject line.
	Subject string `json:"subject"`
	// Text is the plain-text body.
	Text string `json:"text"`
	// HTML is the HTML body.
	HTML string `json:"html"`
}

// Clone returns a deep copy of the message.
func (m Message) Clone() Message {
	m.Recipients = slices.Clone(m.Recipients)
	return m
}

// Mailer is the capability every backend provides.
type Mailer interface {
	// Sender returns the configured sender address.
	Sender() Address
	// Send delivers the message through the backend transport. A failed
	// send leaves the mailer usable for later calls.
	Send(ctx context.Context, msg Message) error
}
