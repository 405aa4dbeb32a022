// Package validator provides a small validation abstraction for configuration
// and message structs.
//
// Callers should depend on the Validator interface so validation can be
// shared and tested consistently. Concrete implementations (for example
// go-playground/validator v10) live in this package.
package validator

// Validator validates a struct and returns a descriptive error on failure.
type Validator interface {
	Validate(data any) error
}
