// Package secret provides a string wrapper for credentials that must not
// leak through logs, formatting or serialization.
package secret

import (
	"crypto/subtle"
	"errors"
	"log/slog"
)

const masked = "******"

// ErrForbidden is returned when a secret is asked to serialize itself.
var ErrForbidden = errors.New("secret: serialization forbidden")

// Value represents a secret value that must not be exposed.
//
// The raw value is only reachable through Expose, which should be called at
// the single place that builds the wire-level credential.
type Value string

// New wraps s as a secret.
func New(s string) Value {
	return Value(s)
}

// Expose returns the raw secret.
func (v Value) Expose() string {
	return string(v)
}

// IsZero reports whether the secret is empty.
func (v Value) IsZero() bool {
	return v == ""
}

// Is returns true if two secrets are equal. Empty secrets never match.
func (v Value) Is(other Value) bool {
	if len(v) == 0 || len(other) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(v), []byte(other)) == 1
}

// UnmarshalText lets config decoders populate the secret.
func (v *Value) UnmarshalText(text []byte) error {
	*v = Value(text)
	return nil
}

// Forbid certain interface to avoid stupid mistakes.
func (Value) String() string               { return masked }
func (Value) GoString() string             { return masked }
func (Value) LogValue() slog.Value         { return slog.StringValue(masked) }
func (Value) MarshalJSON() ([]byte, error) { return nil, ErrForbidden }
