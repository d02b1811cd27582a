package service

import (
	"context"
	"net/http"

	"github.com/smallbiznis/ledgerline/internal/api"
	"github.com/smallbiznis/ledgerline/internal/config"
	"github.com/smallbiznis/ledgerline/internal/document"
	"github.com/smallbiznis/ledgerline/internal/purchase/domain"
	"github.com/smallbiznis/ledgerline/pkg/pagination"
	"go.uber.org/zap"
)

type service struct {
	client   *api.Client
	pageSize int
	log      *zap.Logger
}

func NewService(client *api.Client, cfg config.Config, log *zap.Logger) domain.Service {
	return &service{client: client, pageSize: cfg.DefaultPageSize, log: log}
}

func (s *service) Submit(ctx context.Context, f *domain.Form) (*domain.PurchaseInvoice, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	tz := f.Session.Company.Timezone
	totals, err := document.Totals(f.Form, tz)
	if err != nil {
		return nil, err
	}
	date, err := document.DateUTC(f.Date, tz)
	if err != nil {
		return nil, err
	}
	req := domain.CreateRequest{
		CompanyID:             f.Session.Company.ID,
		BranchID:              f.Session.Branch.ID,
		PartyID:               f.Party.ID,
		SupplierInvoiceNumber: f.SupplierInvoiceNumber,
		Date:                  date,
		Items:                 document.WireItems(f.Form),
		WireTotals:            totals,
	}

	var out domain.PurchaseInvoice
	if err := s.client.Do(ctx, http.MethodPost, api.ServiceBilling, "/purchase/add-purchase", nil, req, &out); err != nil {
		return nil, err
	}
	s.log.Info("purchase submitted",
		zap.String("invoice_number", out.InvoiceNumber),
		zap.String("party_id", f.Party.ID),
	)
	return &out, nil
}

func (s *service) Get(ctx context.Context, id, companyID string) (*domain.PurchaseInvoice, error) {
	return api.GetOne[domain.PurchaseInvoice](ctx, s.client, api.ServiceBilling, "purchase", id, companyID)
}

type listQuery struct {
	Term string `json:"term,omitempty"`
}

func (s *service) List(ctx context.Context, companyID, cursor, term string) (pagination.Page[domain.PurchaseInvoice], error) {
	return api.List[domain.PurchaseInvoice](ctx, s.client, api.ServiceBilling, "purchase", api.ListRequest{
		PageSize:  s.pageSize,
		CompanyID: companyID,
		Cursor:    cursor,
		Query:     listQuery{Term: term},
	})
}

func (s *service) PageFetcher(companyID string) pagination.FetchFunc[domain.PurchaseInvoice] {
	return func(ctx context.Context, cursor, term string) (pagination.Page[domain.PurchaseInvoice], error) {
		return s.List(ctx, companyID, cursor, term)
	}
}
