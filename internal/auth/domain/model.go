package domain

import (
	"context"
	"time"

	"github.com/smallbiznis/ledgerline/internal/api"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Service handles the auth endpoints of the user service. These calls are
// exempt from the transport's refresh-and-replay policy.
type Service interface {
	Login(ctx context.Context, email, password string) (*api.Credentials, error)
	Logout(ctx context.Context) error
	// Refresh performs a manual token refresh, e.g. before a long-running
	// report run. The automatic 401 path in the transport stays authoritative.
	Refresh(ctx context.Context) (*api.Credentials, error)
	// Current returns the stored credentials, or api.ErrNoCredentials.
	Current(ctx context.Context) (*api.Credentials, error)
}

// TokenExpiry extracts the expiry claim from an access token without
// verifying the signature; verification is the server's job.
type TokenExpiry func(accessToken string) (time.Time, error)
