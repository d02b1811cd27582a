package service

import (
	"context"
	"net/http"

	"github.com/smallbiznis/ledgerline/internal/api"
	"github.com/smallbiznis/ledgerline/internal/config"
	"github.com/smallbiznis/ledgerline/internal/document"
	"github.com/smallbiznis/ledgerline/internal/sale/domain"
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

// BuildRequest coerces a validated form into the add-sale mutation body.
// Drafts persist this shape, so it has to be buildable without submitting.
func BuildRequest(f *domain.Form) (domain.CreateRequest, error) {
	if err := f.Validate(); err != nil {
		return domain.CreateRequest{}, err
	}
	tz := f.Session.Company.Timezone
	totals, err := document.Totals(f.Form, tz)
	if err != nil {
		return domain.CreateRequest{}, err
	}
	date, err := document.DateUTC(f.Date, tz)
	if err != nil {
		return domain.CreateRequest{}, err
	}
	return domain.CreateRequest{
		CompanyID:  f.Session.Company.ID,
		BranchID:   f.Session.Branch.ID,
		PartyID:    f.Party.ID,
		Date:       date,
		Items:      document.WireItems(f.Form),
		WireTotals: totals,
	}, nil
}

func (s *service) Submit(ctx context.Context, f *domain.Form) (*domain.SaleInvoice, error) {
	req, err := BuildRequest(f)
	if err != nil {
		return nil, err
	}
	return s.SubmitRequest(ctx, req)
}

func (s *service) SubmitRequest(ctx context.Context, req domain.CreateRequest) (*domain.SaleInvoice, error) {
	var out domain.SaleInvoice
	if err := s.client.Do(ctx, http.MethodPost, api.ServiceBilling, "/sale/add-sale", nil, req, &out); err != nil {
		return nil, err
	}
	s.log.Info("sale submitted",
		zap.String("invoice_number", out.InvoiceNumber),
		zap.String("party_id", req.PartyID),
	)
	return &out, nil
}

func (s *service) Get(ctx context.Context, id, companyID string) (*domain.SaleInvoice, error) {
	return api.GetOne[domain.SaleInvoice](ctx, s.client, api.ServiceBilling, "sale", id, companyID)
}

type listQuery struct {
	Term string `json:"term,omitempty"`
}

func (s *service) List(ctx context.Context, companyID, cursor, term string) (pagination.Page[domain.SaleInvoice], error) {
	return api.List[domain.SaleInvoice](ctx, s.client, api.ServiceBilling, "sale", api.ListRequest{
		PageSize:  s.pageSize,
		CompanyID: companyID,
		Cursor:    cursor,
		Query:     listQuery{Term: term},
	})
}

func (s *service) PageFetcher(companyID string) pagination.FetchFunc[domain.SaleInvoice] {
	return func(ctx context.Context, cursor, term string) (pagination.Page[domain.SaleInvoice], error) {
		return s.List(ctx, companyID, cursor, term)
	}
}
