package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/smallbiznis/ledgerline/internal/api"
	"github.com/smallbiznis/ledgerline/internal/auth/domain"
	"go.uber.org/zap"
)

type service struct {
	client *api.Client
	store  api.CredentialStore
	log    *zap.Logger
}

func NewService(client *api.Client, store api.CredentialStore, log *zap.Logger) domain.Service {
	return &service{client: client, store: store, log: log}
}

type loginData struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         struct {
		ID          string `json:"id"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
		Role        string `json:"role"`
	} `json:"user"`
}

func (s *service) Login(ctx context.Context, email, password string) (*api.Credentials, error) {
	var data loginData
	req := domain.LoginRequest{Email: email, Password: password}
	if err := s.client.Do(ctx, http.MethodPost, api.ServiceUser, "/auth/login", nil, req, &data); err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	creds := &api.Credentials{
		AccessToken:  data.AccessToken,
		RefreshToken: data.RefreshToken,
		UserID:       data.User.ID,
		Email:        data.User.Email,
		DisplayName:  data.User.DisplayName,
		Role:         data.User.Role,
	}
	if err := s.store.Save(ctx, creds); err != nil {
		return nil, fmt.Errorf("persist credentials: %w", err)
	}
	s.log.Info("signed in", zap.String("user_id", creds.UserID))
	return creds, nil
}

// Logout revokes the refresh token server-side on a best-effort basis; the
// local credentials are cleared regardless.
func (s *service) Logout(ctx context.Context) error {
	creds, err := s.store.Load(ctx)
	if err == nil && creds.RefreshToken != "" {
		body := map[string]string{"refreshToken": creds.RefreshToken}
		if err := s.client.Do(ctx, http.MethodPost, api.ServiceUser, "/auth/logout", nil, body, nil); err != nil {
			s.log.Warn("logout call failed, clearing local credentials anyway", zap.Error(err))
		}
	}
	return s.store.Clear(ctx)
}

func (s *service) Refresh(ctx context.Context) (*api.Credentials, error) {
	creds, err := s.store.Load(ctx)
	if err != nil {
		return nil, domain.ErrNotSignedIn
	}
	var data loginData
	body := map[string]string{"refreshToken": creds.RefreshToken}
	if err := s.client.Do(ctx, http.MethodPost, api.ServiceUser, "/auth/refresh-token", nil, body, &data); err != nil {
		return nil, err
	}
	next := *creds
	next.AccessToken = data.AccessToken
	if data.RefreshToken != "" {
		next.RefreshToken = data.RefreshToken
	}
	if err := s.store.Save(ctx, &next); err != nil {
		return nil, fmt.Errorf("persist refreshed credentials: %w", err)
	}
	return &next, nil
}

func (s *service) Current(ctx context.Context) (*api.Credentials, error) {
	return s.store.Load(ctx)
}

// TokenExpiry parses the exp claim without signature verification.
func TokenExpiry(accessToken string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}, domain.ErrMalformedToken
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, domain.ErrMalformedToken
	}
	return exp.Time, nil
}

// NeedsRefresh reports whether the access token expires within leeway. It is
// a best-effort pre-check; the transport's 401 path remains authoritative.
func NeedsRefresh(creds *api.Credentials, now time.Time, leeway time.Duration) bool {
	if creds == nil || creds.AccessToken == "" {
		return true
	}
	exp, err := TokenExpiry(creds.AccessToken)
	if err != nil {
		return false // opaque token: let the 401 path decide
	}
	return now.Add(leeway).After(exp)
}
