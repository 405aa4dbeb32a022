// Package mail defines the contracts for sending email messages and the
// backends that deliver them.
//
// Callers work with the Mailer interface and the Message payload. The concrete
// delivery mechanism is chosen at runtime from a Configuration value:
//
//   - terminal: echoes the message to stdout, the zero-configuration default
//   - memory: hands the message to a bounded channel, for tests
//   - smtp: submits the message to an SMTP relay (local, tls or starttls)
//   - mailersend: posts the message to the MailerSend HTTP API
//
// NewClient maps a Configuration to its concrete client and Client.Mailer
// erases it to the common Mailer capability.
package mail
