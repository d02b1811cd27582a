package api

import "context"

// Credentials are the stored tokens plus the user they belong to.
type Credentials struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	Role         string `json:"role"`
}

// CredentialStore persists credentials across runs. Load returns
// ErrNoCredentials when nothing is stored.
type CredentialStore interface {
	Load(ctx context.Context) (*Credentials, error)
	Save(ctx context.Context, creds *Credentials) error
	Clear(ctx context.Context) error
}
