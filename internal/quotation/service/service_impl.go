package service

import (
	"context"
	"net/http"

	"github.com/smallbiznis/ledgerline/internal/api"
	"github.com/smallbiznis/ledgerline/internal/config"
	"github.com/smallbiznis/ledgerline/internal/document"
	"github.com/smallbiznis/ledgerline/internal/quotation/domain"
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

func (s *service) Submit(ctx context.Context, f *domain.Form) (*domain.Quotation, error) {
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
	validUntil, err := document.DateUTC(f.ValidUntil, tz)
	if err != nil {
		return nil, err
	}
	req := domain.CreateRequest{
		CompanyID:  f.Session.Company.ID,
		BranchID:   f.Session.Branch.ID,
		PartyID:    f.Party.ID,
		Date:       date,
		ValidUntil: validUntil,
		Items:      document.WireItems(f.Form),
		WireTotals: totals,
	}

	var out domain.Quotation
	if err := s.client.Do(ctx, http.MethodPost, api.ServiceBilling, "/quotation/add-quotation", nil, req, &out); err != nil {
		return nil, err
	}
	s.log.Info("quotation submitted", zap.String("quotation_number", out.QuotationNumber))
	return &out, nil
}

func (s *service) Get(ctx context.Context, id, companyID string) (*domain.Quotation, error) {
	return api.GetOne[domain.Quotation](ctx, s.client, api.ServiceBilling, "quotation", id, companyID)
}

type listQuery struct {
	Term string `json:"term,omitempty"`
}

func (s *service) List(ctx context.Context, companyID, cursor, term string) (pagination.Page[domain.Quotation], error) {
	return api.List[domain.Quotation](ctx, s.client, api.ServiceBilling, "quotation", api.ListRequest{
		PageSize:  s.pageSize,
		CompanyID: companyID,
		Cursor:    cursor,
		Query:     listQuery{Term: term},
	})
}
