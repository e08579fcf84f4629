package usecase

import "fmt"

// ErrorCode classifies why a chat request was rejected.
type ErrorCode string

const (
	ErrorMissingMessage   ErrorCode = "MISSING_MESSAGE"
	ErrorMalformedRequest ErrorCode = "MALFORMED_REQUEST"
)

// Error is returned by ChatService for every rejected request. Reason is a
// short snake_case tag for logs; Err is the decoder failure, if any.
type Error struct {
	Code   ErrorCode
	Reason string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return ""
	case e.Err != nil:
		return fmt.Sprintf("usecase: %s (%s): %v", e.Code, e.Reason, e.Err)
	default:
		return fmt.Sprintf("usecase: %s (%s)", e.Code, e.Reason)
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Message is the client-facing error text. Anything other than a missing
// message reads as malformed.
func (e *Error) Message() string {
	if e != nil && e.Code == ErrorMissingMessage {
		return "No message provided"
	}
	return "Malformed request"
}

func missing(reason string) *Error {
	return &Error{Code: ErrorMissingMessage, Reason: reason}
}

func malformed(reason string, err error) *Error {
	return &Error{Code: ErrorMalformedRequest, Reason: reason, Err: err}
}
