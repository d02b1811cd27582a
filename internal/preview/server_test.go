package preview

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerline/internal/document"
	itemdomain "github.com/smallbiznis/ledgerline/internal/item/domain"
	"github.com/smallbiznis/ledgerline/internal/printing"
	purchasedomain "github.com/smallbiznis/ledgerline/internal/purchase/domain"
	quotationdomain "github.com/smallbiznis/ledgerline/internal/quotation/domain"
	saledomain "github.com/smallbiznis/ledgerline/internal/sale/domain"
	"github.com/smallbiznis/ledgerline/internal/session"
	"github.com/smallbiznis/ledgerline/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubSales struct {
	invoice *saledomain.SaleInvoice
	err     error
}

func (s *stubSales) Submit(ctx context.Context, f *saledomain.Form) (*saledomain.SaleInvoice, error) {
	return nil, nil
}

func (s *stubSales) SubmitRequest(ctx context.Context, req saledomain.CreateRequest) (*saledomain.SaleInvoice, error) {
	return nil, nil
}

func (s *stubSales) Get(ctx context.Context, id, companyID string) (*saledomain.SaleInvoice, error) {
	return s.invoice, s.err
}

func (s *stubSales) List(ctx context.Context, companyID, cursor, term string) (pagination.Page[saledomain.SaleInvoice], error) {
	return pagination.Page[saledomain.SaleInvoice]{}, nil
}

func (s *stubSales) PageFetcher(companyID string) pagination.FetchFunc[saledomain.SaleInvoice] {
	return nil
}

type stubPurchases struct{}

func (s *stubPurchases) Submit(ctx context.Context, f *purchasedomain.Form) (*purchasedomain.PurchaseInvoice, error) {
	return nil, nil
}

func (s *stubPurchases) Get(ctx context.Context, id, companyID string) (*purchasedomain.PurchaseInvoice, error) {
	return nil, ErrNotFound
}

func (s *stubPurchases) List(ctx context.Context, companyID, cursor, term string) (pagination.Page[purchasedomain.PurchaseInvoice], error) {
	return pagination.Page[purchasedomain.PurchaseInvoice]{}, nil
}

func (s *stubPurchases) PageFetcher(companyID string) pagination.FetchFunc[purchasedomain.PurchaseInvoice] {
	return nil
}

type stubQuotations struct{}

func (s *stubQuotations) Submit(ctx context.Context, f *quotationdomain.Form) (*quotationdomain.Quotation, error) {
	return nil, nil
}

func (s *stubQuotations) Get(ctx context.Context, id, companyID string) (*quotationdomain.Quotation, error) {
	return nil, ErrNotFound
}

func (s *stubQuotations) List(ctx context.Context, companyID, cursor, term string) (pagination.Page[quotationdomain.Quotation], error) {
	return pagination.Page[quotationdomain.Quotation]{}, nil
}

type stubItems struct {
	names map[string]string
}

func (s *stubItems) List(ctx context.Context, companyID, branchID, cursor, term string) (pagination.Page[itemdomain.Item], error) {
	return pagination.Page[itemdomain.Item]{}, nil
}

func (s *stubItems) Get(ctx context.Context, id, companyID string) (*itemdomain.Item, error) {
	name, ok := s.names[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &itemdomain.Item{ID: id, Name: name, SalePrice: decimal.Zero}, nil
}

func (s *stubItems) AdjustStock(ctx context.Context, req itemdomain.AdjustStockRequest) error {
	return nil
}

func (s *stubItems) Transfer(ctx context.Context, req itemdomain.TransferRequest) error {
	return nil
}

func (s *stubItems) PageFetcher(companyID, branchID string) pagination.FetchFunc[itemdomain.Item] {
	return nil
}

func testServer(t *testing.T) *Server {
	t.Helper()
	invoice := &saledomain.SaleInvoice{
		ID:            "s1",
		CompanyID:     "c1",
		InvoiceNumber: "INV-001",
		PartyName:     "Globex",
		Date:          "2026-05-01T00:00:00Z",
		Items: []document.WireItem{
			{ItemID: "i1", Quantity: 2, UnitPrice: 50, Subtotal: 100, Tax: 10, Total: 110},
		},
		WireTotals: document.WireTotals{
			Subtotal:      100,
			TaxName:       "VAT",
			TaxPercent:    10,
			Tax:           10,
			TotalAfterTax: 110,
			AmountPaid:    110,
		},
	}
	return NewServer(Params{
		Sess: session.Context{
			Company: session.Company{
				ID:               "c1",
				Name:             "Acme Traders",
				Currency:         "USD",
				DecimalPrecision: 2,
				Timezone:         "UTC",
			},
		},
		Log:        zap.NewNop(),
		Sales:      &stubSales{invoice: invoice},
		Purchases:  &stubPurchases{},
		Quotations: &stubQuotations{},
		Items:      &stubItems{names: map[string]string{"i1": "Widget"}},
		HTML:       printing.NewHTMLRenderer(),
		PDF:        printing.NewPDFRenderer(),
	})
}

func TestPreview_SaleHTML(t *testing.T) {
	srv := testServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/sale/s1", nil)
	srv.Engine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "INV-001")
	assert.Contains(t, w.Body.String(), "Widget")
	assert.Contains(t, w.Body.String(), "Globex")
}

func TestPreview_SalePDF(t *testing.T) {
	srv := testServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/sale/s1/pdf", nil)
	srv.Engine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
}

func TestPreview_NotFoundMapsTo404(t *testing.T) {
	srv := testServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/purchase/missing", nil)
	srv.Engine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
}

func TestPreview_Health(t *testing.T) {
	srv := testServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	srv.Engine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
