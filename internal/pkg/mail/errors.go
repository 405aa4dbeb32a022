package mail

import (
	"errors"
	"fmt"
)

// Code classifies mail errors.
type Code int

const (
	// CodeUnexpected is the catch-all, e.g. a memory channel hand-off failure.
	CodeUnexpected Code = iota
	// CodeAddressParse indicates a malformed sender or recipient address.
	CodeAddressParse
	// CodeMessageBuild indicates the message could not be composed.
	CodeMessageBuild
	// CodeTransport indicates an SMTP connection or protocol failure.
	CodeTransport
	// CodeHTTPRequest indicates a network failure or non-2xx API response.
	CodeHTTPRequest
	// CodeInvalidCredential indicates a token unusable as a header value.
	CodeInvalidCredential
)

// String returns the string representation of the error code.
func (c Code) String() string {
	switch c {
	case CodeAddressParse:
		return "ERROR_CODE_ADDRESS_PARSE"
	case CodeMessageBuild:
		return "ERROR_CODE_MESSAGE_BUILD"
	case CodeTransport:
		return "ERROR_CODE_TRANSPORT"
	case CodeHTTPRequest:
		return "ERROR_CODE_HTTP_REQUEST"
	case CodeInvalidCredential:
		return "ERROR_CODE_INVALID_CREDENTIAL"
	case CodeUnexpected:
		return "ERROR_CODE_UNEXPECTED"
	default:
		return "ERROR_CODE_UNEXPECTED"
	}
}

// Sentinels for errors.Is; they match any *Error carrying the same code.
var (
	ErrUnexpected        error = &Error{code: CodeUnexpected}
	ErrAddressParse      error = &Error{code: CodeAddressParse}
	ErrMessageBuild      error = &Error{code: CodeMessageBuild}
	ErrTransport         error = &Error{code: CodeTransport}
	ErrHTTPRequest       error = &Error{code: CodeHTTPRequest}
	ErrInvalidCredential error = &Error{code: CodeInvalidCredential}
)

// Error is returned by every Mailer.Send implementation in this package.
type Error struct {
	code Code
	msg  string
	err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	default:
		return "mail: " + e.code.String()
	}
}

// Code returns the error classification.
func (e *Error) Code() Code {
	return e.code
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.err
}

// Is reports whether target is the sentinel for the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.msg == "" && t.err == nil && t.code == e.code
}

// CodeOf returns the code of the first *Error in err's chain.
// Errors not produced by this package report CodeUnexpected.
func CodeOf(err error) Code {
	var mErr *Error
	if errors.As(err, &mErr) {
		return mErr.code
	}
	return CodeUnexpected
}

func newAddressParse(addr string, err error) error {
	return &Error{code: CodeAddressParse, msg: fmt.Sprintf("invalid address %q", addr), err: err}
}

func newMessageBuild(err error) error {
	return &Error{code: CodeMessageBuild, msg: "failed to build email", err: err}
}

func newTransport(err error) error {
	return &Error{code: CodeTransport, msg: "failed to send email", err: err}
}

func newHTTPRequest(err error) error {
	return &Error{code: CodeHTTPRequest, msg: "failed during making an API request", err: err}
}

func newInvalidCredential() error {
	return &Error{code: CodeInvalidCredential, msg: "invalid api token for mailersend"}
}

func newUnexpected(msg string) error {
	return &Error{code: CodeUnexpected, msg: "unexpected error: " + msg}
}
