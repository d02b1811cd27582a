package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/smallbiznis/ledgerline/internal/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type memStore struct {
	mu    sync.Mutex
	creds *Credentials
}

func (m *memStore) Load(context.Context) (*Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.creds == nil {
		return nil, ErrNoCredentials
	}
	cp := *m.creds
	return &cp, nil
}

func (m *memStore) Save(_ context.Context, c *Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.creds = &cp
	return nil
}

func (m *memStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = nil
	return nil
}

func testConfig(userURL, billingURL string) config.Config {
	return config.Config{
		HTTPTimeoutSeconds: 5,
		Services: config.ServiceConfig{
			BillingURL:   billingURL,
			InventoryURL: billingURL,
			UserURL:      userURL,
			SysadminURL:  userURL,
			ReportURL:    billingURL,
		},
	}
}

func writeEnvelope(w http.ResponseWriter, data any) {
	raw, _ := json.Marshal(data)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":    true,
		"statusCode": 200,
		"data":       json.RawMessage(raw),
	})
}

func TestExpiredToken_RefreshesOnceAndReplays(t *testing.T) {
	var refreshCalls, protectedCalls int

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "refresh-1", body["refreshToken"])
		writeEnvelope(w, map[string]string{"accessToken": "access-2", "refreshToken": "refresh-2"})
	})
	mux.HandleFunc("/party/get-party", func(w http.ResponseWriter, r *http.Request) {
		protectedCalls++
		if r.Header.Get("Authorization") != "Bearer access-2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeEnvelope(w, map[string]string{"id": "p1", "displayName": "Acme"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := &memStore{creds: &Credentials{AccessToken: "access-1", RefreshToken: "refresh-1"}}
	forced := false
	c := New(testConfig(srv.URL, srv.URL), store, zap.NewNop(), WithForcedLogoutHook(func() { forced = true }))

	type party struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
	}
	got, err := GetOne[party](context.Background(), c, ServiceBilling, "party", "p1", "c1")
	assert.NoError(t, err)
	assert.Equal(t, "Acme", got.DisplayName)

	assert.Equal(t, 1, refreshCalls, "exactly one refresh call")
	assert.Equal(t, 2, protectedCalls, "original request replayed exactly once")
	assert.False(t, forced)

	creds, err := store.Load(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "access-2", creds.AccessToken)
	assert.Equal(t, "refresh-2", creds.RefreshToken)
}

func TestExpiredToken_NoRefreshToken_ForcesLogout(t *testing.T) {
	var refreshCalls, protectedCalls int

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, _ *http.Request) {
		refreshCalls++
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/party/get-party", func(w http.ResponseWriter, _ *http.Request) {
		protectedCalls++
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := &memStore{creds: &Credentials{AccessToken: "stale", RefreshToken: ""}}
	forced := false
	c := New(testConfig(srv.URL, srv.URL), store, zap.NewNop(), WithForcedLogoutHook(func() { forced = true }))

	err := c.Do(context.Background(), http.MethodGet, ServiceBilling, "/party/get-party", nil, nil, nil)
	assert.ErrorIs(t, err, ErrSessionExpired)

	assert.Equal(t, 0, refreshCalls, "no refresh attempt without a refresh token")
	assert.Equal(t, 1, protectedCalls, "original request not replayed")
	assert.True(t, forced)

	_, err = store.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestFailedRefresh_ClearsCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/item/get-item", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := &memStore{creds: &Credentials{AccessToken: "stale", RefreshToken: "dead"}}
	c := New(testConfig(srv.URL, srv.URL), store, zap.NewNop())

	err := c.Do(context.Background(), http.MethodGet, ServiceInventory, "/item/get-item", nil, nil, nil)
	assert.ErrorIs(t, err, ErrSessionExpired)

	_, err = store.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestErrorEnvelope_SurfacesMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/party/add-party", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"statusCode": 400,
			"message":    "party already exists",
			"errors":     []map[string]string{{"field": "name", "message": "duplicate"}},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := &memStore{creds: &Credentials{AccessToken: "ok", RefreshToken: "r"}}
	c := New(testConfig(srv.URL, srv.URL), store, zap.NewNop())

	err := c.Do(context.Background(), http.MethodPost, ServiceBilling, "/party/add-party", nil, map[string]string{"name": "Acme"}, nil)
	var apiErr *Error
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "party already exists", apiErr.Message)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Len(t, apiErr.Fields, 1)
}

func TestList_DecodesPage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/party/get-all-party", func(w http.ResponseWriter, r *http.Request) {
		var req ListRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, 10, req.PageSize)
		assert.Equal(t, "c1", req.CompanyID)
		writeEnvelope(w, map[string]any{
			"items":          []map[string]string{{"id": "p1"}, {"id": "p2"}},
			"hasNextPage":    true,
			"nextPageCursor": "cur-2",
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := &memStore{creds: &Credentials{AccessToken: "ok"}}
	c := New(testConfig(srv.URL, srv.URL), store, zap.NewNop())

	type party struct {
		ID string `json:"id"`
	}
	page, err := List[party](context.Background(), c, ServiceBilling, "party", ListRequest{PageSize: 10, CompanyID: "c1"})
	assert.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.True(t, page.HasNextPage)
	assert.Equal(t, "cur-2", page.NextPageCursor)
}
