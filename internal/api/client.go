// Package api is the HTTP transport shared by every feature module. All
// backend calls flow through Client, which attaches the bearer token and
// applies the retry-once-on-401 refresh policy.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/ledgerline/internal/config"
	"github.com/smallbiznis/ledgerline/pkg/pagination"
	"go.uber.org/zap"
)

// Service names the five backend services the client orchestrates.
type Service string

const (
	ServiceBilling   Service = "billing"
	ServiceInventory Service = "inventory"
	ServiceUser      Service = "user"
	ServiceSysadmin  Service = "sysadmin"
	ServiceReport    Service = "report"
)

const refreshPath = "/auth/refresh-token"

// auth endpoints never trigger the refresh-and-replay policy.
var authExemptPaths = map[string]struct{}{
	"/auth/login":  {},
	"/auth/logout": {},
	refreshPath:    {},
}

type Client struct {
	http     *http.Client
	urls     map[Service]string
	store    CredentialStore
	log      *zap.Logger
	onLogout func()

	// refreshMu serializes refresh attempts within this client. Concurrent
	// 401s still each run their own refresh once they acquire the lock; the
	// source behaves the same way and this client keeps that semantics.
	refreshMu sync.Mutex
}

type Option func(*Client)

// WithForcedLogoutHook registers the callback invoked when a refresh fails
// and the stored credentials are cleared.
func WithForcedLogoutHook(fn func()) Option {
	return func(c *Client) { c.onLogout = fn }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(cfg config.Config, store CredentialStore, log *zap.Logger, opts ...Option) *Client {
	timeout := time.Duration(cfg.HTTPTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	c := &Client{
		http: &http.Client{Timeout: timeout},
		urls: map[Service]string{
			ServiceBilling:   strings.TrimRight(cfg.Services.BillingURL, "/"),
			ServiceInventory: strings.TrimRight(cfg.Services.InventoryURL, "/"),
			ServiceUser:      strings.TrimRight(cfg.Services.UserURL, "/"),
			ServiceSysadmin:  strings.TrimRight(cfg.Services.SysadminURL, "/"),
			ServiceReport:    strings.TrimRight(cfg.Services.ReportURL, "/"),
		},
		store: store,
		log:   log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListRequest is the body of a get-all call.
type ListRequest struct {
	PageSize  int      `json:"pageSize"`
	CompanyID string   `json:"companyId,omitempty"`
	Cursor    string   `json:"cursor,omitempty"`
	Query     any      `json:"query,omitempty"`
	Select    []string `json:"select,omitempty"`
}

type envelope struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
}

type errorEnvelope struct {
	StatusCode int          `json:"statusCode"`
	Message    string       `json:"message"`
	Errors     []FieldError `json:"errors"`
	Stack      string       `json:"stack"`
}

type listData struct {
	Items          json.RawMessage `json:"items"`
	HasNextPage    bool            `json:"hasNextPage"`
	NextPageCursor string          `json:"nextPageCursor"`
}

// List calls POST {service}/{resource}/get-all-{resource} and decodes one
// page of results.
func List[T any](ctx context.Context, c *Client, svc Service, resource string, req ListRequest) (pagination.Page[T], error) {
	var data listData
	path := fmt.Sprintf("/%s/get-all-%s", resource, resource)
	if err := c.Do(ctx, http.MethodPost, svc, path, nil, req, &data); err != nil {
		return pagination.Page[T]{}, err
	}
	var items []T
	if len(data.Items) > 0 {
		if err := json.Unmarshal(data.Items, &items); err != nil {
			return pagination.Page[T]{}, fmt.Errorf("decode %s items: %w", resource, err)
		}
	}
	return pagination.Page[T]{
		Items:          items,
		HasNextPage:    data.HasNextPage,
		NextPageCursor: data.NextPageCursor,
	}, nil
}

// GetOne calls GET {service}/{resource}/get-{resource}?id=&companyId=.
func GetOne[T any](ctx context.Context, c *Client, svc Service, resource, id, companyID string) (*T, error) {
	q := url.Values{}
	q.Set("id", id)
	if companyID != "" {
		q.Set("companyId", companyID)
	}
	var out T
	path := fmt.Sprintf("/%s/get-%s", resource, resource)
	if err := c.Do(ctx, http.MethodGet, svc, path, q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Do issues one call under the refresh policy and decodes the success
// envelope's data into out (skipped when out is nil).
func (c *Client) Do(ctx context.Context, method string, svc Service, path string, query url.Values, body, out any) error {
	return c.call(ctx, method, svc, path, query, body, out, false)
}

func (c *Client) call(ctx context.Context, method string, svc Service, path string, query url.Values, body, out any, retried bool) error {
	req, err := c.newRequest(ctx, method, svc, path, query, body)
	if err != nil {
		return err
	}

	creds, _ := c.store.Load(ctx)
	if creds != nil && creds.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && !retried && !isAuthExempt(path) {
		if err := c.refreshCredentials(ctx); err != nil {
			return err
		}
		return c.call(ctx, method, svc, path, query, body, out, true)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envErr errorEnvelope
		if decodeErr := json.NewDecoder(resp.Body).Decode(&envErr); decodeErr != nil || envErr.Message == "" {
			return &Error{StatusCode: resp.StatusCode, Message: genericTransportMessage}
		}
		return &Error{StatusCode: envErr.StatusCode, Message: envErr.Message, Fields: envErr.Errors}
	}

	if out == nil {
		return nil
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s data: %w", path, err)
	}
	return nil
}

// refreshCredentials attempts exactly one token refresh. On any failure the
// stored credentials are cleared and the forced-logout hook fires; the
// original request is discarded by the caller returning ErrSessionExpired.
func (c *Client) refreshCredentials(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	creds, err := c.store.Load(ctx)
	if err != nil || creds == nil || creds.RefreshToken == "" {
		return c.forceLogout(ctx)
	}

	var refreshed struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	body := map[string]string{"refreshToken": creds.RefreshToken}
	if err := c.call(ctx, http.MethodPost, ServiceUser, refreshPath, nil, body, &refreshed, true); err != nil {
		c.log.Warn("token refresh failed", zap.Error(err))
		return c.forceLogout(ctx)
	}
	if refreshed.AccessToken == "" {
		return c.forceLogout(ctx)
	}

	next := *creds
	next.AccessToken = refreshed.AccessToken
	if refreshed.RefreshToken != "" {
		next.RefreshToken = refreshed.RefreshToken
	}
	if err := c.store.Save(ctx, &next); err != nil {
		return fmt.Errorf("persist refreshed credentials: %w", err)
	}
	return nil
}

func (c *Client) forceLogout(ctx context.Context) error {
	_ = c.store.Clear(ctx)
	if c.onLogout != nil {
		c.onLogout()
	}
	return ErrSessionExpired
}

func (c *Client) newRequest(ctx context.Context, method string, svc Service, path string, query url.Values, body any) (*http.Request, error) {
	base, ok := c.urls[svc]
	if !ok || base == "" {
		return nil, fmt.Errorf("no base url configured for service %q", svc)
	}
	target := base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-Id", uuid.NewString())
	return req, nil
}

func isAuthExempt(path string) bool {
	_, ok := authExemptPaths[path]
	return ok
}
