package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrNotSignedIn        = errors.New("not_signed_in")
	ErrMalformedToken     = errors.New("malformed_token")
)
