package service

import (
	"context"
	"net/http"
	"net/url"

	"github.com/smallbiznis/ledgerline/internal/api"
	"github.com/smallbiznis/ledgerline/internal/report/domain"
	"github.com/smallbiznis/ledgerline/internal/session"
	"github.com/smallbiznis/ledgerline/pkg/timeutil"
)

type service struct {
	client *api.Client
}

func NewService(client *api.Client) domain.Service {
	return &service{client: client}
}

func (s *service) SalesSummary(ctx context.Context, sess session.Context, r domain.Range) (*domain.SalesSummary, error) {
	q, err := rangeQuery(sess, r)
	if err != nil {
		return nil, err
	}
	var out domain.SalesSummary
	if err := s.client.Do(ctx, http.MethodGet, api.ServiceReport, "/sales/get-sales-summary", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) PurchaseSummary(ctx context.Context, sess session.Context, r domain.Range) (*domain.PurchaseSummary, error) {
	q, err := rangeQuery(sess, r)
	if err != nil {
		return nil, err
	}
	var out domain.PurchaseSummary
	if err := s.client.Do(ctx, http.MethodGet, api.ServiceReport, "/purchases/get-purchases-summary", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) StockSummary(ctx context.Context, sess session.Context) (*domain.StockSummary, error) {
	q := url.Values{}
	q.Set("companyId", sess.Company.ID)
	if sess.Branch.ID != "" {
		q.Set("branchId", sess.Branch.ID)
	}
	var out domain.StockSummary
	if err := s.client.Do(ctx, http.MethodGet, api.ServiceReport, "/stock/get-stock-summary", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// rangeQuery normalizes both edges of the window through the company
// timezone so a "May 1 to May 31" report means those calendar days locally.
func rangeQuery(sess session.Context, r domain.Range) (url.Values, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	from, err := timeutil.ToServiceUTC(r.From, sess.Company.Timezone)
	if err != nil {
		return nil, err
	}
	to, err := timeutil.ToServiceUTC(r.To, sess.Company.Timezone)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("companyId", sess.Company.ID)
	if sess.Branch.ID != "" {
		q.Set("branchId", sess.Branch.ID)
	}
	q.Set("from", from)
	q.Set("to", to)
	return q, nil
}
