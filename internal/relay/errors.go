package relay

import "net/http"

type Kind int

const (
	InvalidPayload Kind = iota + 1
	UploadFailed
)

// Message is the only text about a failure that callers ever see.
func (k Kind) Message() string {
	switch k {
	case InvalidPayload:
		return "Invalid payload"
	case UploadFailed:
		return "Upload failed"
	}
	return http.StatusText(http.StatusInternalServerError)
}

func (k Kind) Status() int {
	switch k {
	case InvalidPayload:
		return http.StatusBadRequest
	case UploadFailed:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// Error carries the public Kind alongside the internal detail that only
// reaches the logs.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same Kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

var (
	ErrInvalidPayload = &Error{Kind: InvalidPayload, Message: "invalid payload"}
	ErrUploadFailed   = &Error{Kind: UploadFailed, Message: "upload failed"}
)

func invalid(message string) *Error {
	return &Error{Kind: InvalidPayload, Message: message}
}

func failed(message string, cause error) *Error {
	return &Error{Kind: UploadFailed, Message: message, Cause: cause}
}
