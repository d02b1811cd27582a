package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerline/internal/api"
	"github.com/smallbiznis/ledgerline/internal/clock"
	"github.com/smallbiznis/ledgerline/internal/config"
	itemdomain "github.com/smallbiznis/ledgerline/internal/item/domain"
	partydomain "github.com/smallbiznis/ledgerline/internal/party/domain"
	"github.com/smallbiznis/ledgerline/internal/sale/domain"
	"github.com/smallbiznis/ledgerline/internal/session"
	"github.com/smallbiznis/ledgerline/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testSession() session.Context {
	return session.Context{
		User: session.User{ID: "u1", Role: "owner"},
		Company: session.Company{
			ID:               "c1",
			Name:             "Acme Traders",
			DecimalPrecision: 2,
			Timezone:         "UTC",
			TaxName:          "VAT",
			TaxPercent:       decimal.RequireFromString("10"),
		},
		Branch: session.Branch{ID: "b1"},
	}
}

func newTestService(t *testing.T, handler http.Handler) domain.Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	st, err := store.OpenInMemory()
	require.NoError(t, err)
	require.NoError(t, st.Save(context.Background(), &api.Credentials{AccessToken: "acc"}))

	cfg := config.Config{
		HTTPTimeoutSeconds: 5,
		DefaultPageSize:    10,
		Services: config.ServiceConfig{
			BillingURL:   srv.URL,
			InventoryURL: srv.URL,
			UserURL:      srv.URL,
			SysadminURL:  srv.URL,
			ReportURL:    srv.URL,
		},
	}
	client := api.New(cfg, st, zap.NewNop())
	return NewService(client, cfg, zap.NewNop())
}

func TestSubmit_SendsCoercedBody(t *testing.T) {
	var got domain.CreateRequest

	mux := http.NewServeMux()
	mux.HandleFunc("/sale/add-sale", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":    true,
			"statusCode": 200,
			"data":       map[string]any{"id": "s1", "invoiceNumber": "INV-0001"},
		})
	})
	svc := newTestService(t, mux)

	clk := clock.NewFakeClock(time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC))
	customer := partydomain.Party{ID: "p1", DisplayName: "Bolt Ltd", PaymentAllowanceDays: 14}
	f := domain.NewForm(testSession(), customer, clk)
	f.AddItem(itemdomain.Item{ID: "i1", Name: "Widget", SalePrice: decimal.RequireFromString("40")}, decimal.RequireFromString("3"))
	f.SetDiscount("20")

	out, err := svc.Submit(context.Background(), f)
	assert.NoError(t, err)
	assert.Equal(t, "INV-0001", out.InvoiceNumber)

	assert.Equal(t, "c1", got.CompanyID)
	assert.Equal(t, "b1", got.BranchID)
	assert.Equal(t, "p1", got.PartyID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, float64(120), got.Items[0].Subtotal)

	// subtotal 120, discount 20, 10% tax on 100
	assert.Equal(t, float64(120), got.Subtotal)
	assert.Equal(t, float64(20), got.Discount)
	assert.Equal(t, float64(10), got.Tax)
	assert.Equal(t, float64(110), got.TotalAfterTax)
	// cash document: fully paid on submit
	assert.False(t, got.IsCredit)
	assert.Equal(t, float64(110), got.AmountPaid)
	assert.Equal(t, float64(0), got.AmountDue)
	assert.Equal(t, "2026-05-15T10:00:00Z", got.PaymentDueDate)
}

func TestSubmit_ValidationBeforeNetwork(t *testing.T) {
	called := false
	mux := http.NewServeMux()
	mux.HandleFunc("/sale/add-sale", func(http.ResponseWriter, *http.Request) { called = true })
	svc := newTestService(t, mux)

	f := domain.NewForm(testSession(), partydomain.Party{}, clock.NewFakeClock(time.Now()))
	_, err := svc.Submit(context.Background(), f)
	assert.ErrorIs(t, err, domain.ErrNoParty)

	f = domain.NewForm(testSession(), partydomain.Party{ID: "p1"}, clock.NewFakeClock(time.Now()))
	_, err = svc.Submit(context.Background(), f)
	assert.ErrorIs(t, err, domain.ErrNoItems)

	assert.False(t, called)
}

func TestSubmit_SurfacesEnvelopeMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/sale/add-sale", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]any{"statusCode": 422, "message": "insufficient stock for item i1"})
	})
	svc := newTestService(t, mux)

	f := domain.NewForm(testSession(), partydomain.Party{ID: "p1"}, clock.NewFakeClock(time.Now()))
	f.AddItem(itemdomain.Item{ID: "i1", Name: "Widget", SalePrice: decimal.RequireFromString("5")}, decimal.RequireFromString("1"))

	_, err := svc.Submit(context.Background(), f)
	var apiErr *api.Error
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "insufficient stock for item i1", apiErr.Message)
}

func TestBuildRequest_DraftRoundTrip(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC))
	customer := partydomain.Party{ID: "p1", DisplayName: "Bolt Ltd", PaymentAllowanceDays: 14}
	f := domain.NewForm(testSession(), customer, clk)
	f.AddItem(itemdomain.Item{ID: "i1", Name: "Widget", SalePrice: decimal.RequireFromString("40")}, decimal.RequireFromString("3"))
	f.SetCredit(true)

	req, err := BuildRequest(f)
	require.NoError(t, err)

	// A draft persists the built request as JSON and submits it later.
	payload, err := json.Marshal(req)
	require.NoError(t, err)
	var restored domain.CreateRequest
	require.NoError(t, json.Unmarshal(payload, &restored))

	var got domain.CreateRequest
	mux := http.NewServeMux()
	mux.HandleFunc("/sale/add-sale", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":    true,
			"statusCode": 200,
			"data":       map[string]any{"id": "s2", "invoiceNumber": "INV-0002"},
		})
	})
	svc := newTestService(t, mux)

	out, err := svc.SubmitRequest(context.Background(), restored)
	assert.NoError(t, err)
	assert.Equal(t, "INV-0002", out.InvoiceNumber)
	assert.Equal(t, req, got)
	assert.True(t, got.IsCredit)
	assert.Equal(t, float64(0), got.AmountPaid)
}

func TestBuildRequest_RejectsInvalidForm(t *testing.T) {
	f := domain.NewForm(testSession(), partydomain.Party{}, clock.NewFakeClock(time.Now()))
	_, err := BuildRequest(f)
	assert.ErrorIs(t, err, domain.ErrNoParty)
}
