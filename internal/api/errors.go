package api

import "errors"

var (
	ErrSessionExpired = errors.New("session_expired")
	ErrNoCredentials  = errors.New("no_credentials")
)

// genericTransportMessage is shown when the error envelope cannot be decoded.
const genericTransportMessage = "request failed, please try again"

// FieldError is one entry of the error envelope's errors array.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is an API error decoded from the service error envelope
// {statusCode, message, errors, stack}. The stack is dropped client-side.
type Error struct {
	StatusCode int
	Message    string
	Fields     []FieldError
}

func (e *Error) Error() string {
	if e.Message == "" {
		return genericTransportMessage
	}
	return e.Message
}

// IsTransport reports whether err is a transport-level failure rather than a
// decoded API error, so callers can fall back to a generic banner message.
func IsTransport(err error) bool {
	var apiErr *Error
	return err != nil && !errors.As(err, &apiErr) &&
		!errors.Is(err, ErrSessionExpired) && !errors.Is(err, ErrNoCredentials)
}
