package service

import (
	"context"
	"net/http"

	"github.com/smallbiznis/ledgerline/internal/api"
	"github.com/smallbiznis/ledgerline/internal/config"
	"github.com/smallbiznis/ledgerline/internal/party/domain"
	"github.com/smallbiznis/ledgerline/pkg/pagination"
)

type service struct {
	client   *api.Client
	pageSize int
}

func NewService(client *api.Client, cfg config.Config) domain.Service {
	return &service{client: client, pageSize: cfg.DefaultPageSize}
}

type listQuery struct {
	Kind domain.Kind `json:"kind,omitempty"`
	Term string      `json:"term,omitempty"`
}

func (s *service) List(ctx context.Context, companyID string, kind domain.Kind, cursor, term string) (pagination.Page[domain.Party], error) {
	return api.List[domain.Party](ctx, s.client, api.ServiceBilling, "party", api.ListRequest{
		PageSize:  s.pageSize,
		CompanyID: companyID,
		Cursor:    cursor,
		Query:     listQuery{Kind: kind, Term: term},
		Select:    []string{"id", "displayName", "kind", "paymentAllowanceDays"},
	})
}

func (s *service) Get(ctx context.Context, id, companyID string) (*domain.Party, error) {
	return api.GetOne[domain.Party](ctx, s.client, api.ServiceBilling, "party", id, companyID)
}

func (s *service) Create(ctx context.Context, req domain.UpsertRequest) (*domain.Party, error) {
	var out domain.Party
	if err := s.client.Do(ctx, http.MethodPost, api.ServiceBilling, "/party/add-party", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) Update(ctx context.Context, req domain.UpsertRequest) (*domain.Party, error) {
	var out domain.Party
	if err := s.client.Do(ctx, http.MethodPut, api.ServiceBilling, "/party/update-party", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) PageFetcher(companyID string, kind domain.Kind) pagination.FetchFunc[domain.Party] {
	return func(ctx context.Context, cursor, term string) (pagination.Page[domain.Party], error) {
		return s.List(ctx, companyID, kind, cursor, term)
	}
}
