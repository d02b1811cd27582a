package service

import (
	"context"
	"net/http"

	"github.com/smallbiznis/ledgerline/internal/api"
	"github.com/smallbiznis/ledgerline/internal/config"
	"github.com/smallbiznis/ledgerline/internal/item/domain"
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
	BranchID string `json:"branchId,omitempty"`
	Term     string `json:"term,omitempty"`
}

func (s *service) List(ctx context.Context, companyID, branchID, cursor, term string) (pagination.Page[domain.Item], error) {
	return api.List[domain.Item](ctx, s.client, api.ServiceInventory, "item", api.ListRequest{
		PageSize:  s.pageSize,
		CompanyID: companyID,
		Cursor:    cursor,
		Query:     listQuery{BranchID: branchID, Term: term},
	})
}

func (s *service) Get(ctx context.Context, id, companyID string) (*domain.Item, error) {
	return api.GetOne[domain.Item](ctx, s.client, api.ServiceInventory, "item", id, companyID)
}

func (s *service) AdjustStock(ctx context.Context, req domain.AdjustStockRequest) error {
	return s.client.Do(ctx, http.MethodPatch, api.ServiceInventory, "/stock/adjust-stock", nil, req, nil)
}

func (s *service) Transfer(ctx context.Context, req domain.TransferRequest) error {
	return s.client.Do(ctx, http.MethodPost, api.ServiceInventory, "/transfer/add-transfer", nil, req, nil)
}

func (s *service) PageFetcher(companyID, branchID string) pagination.FetchFunc[domain.Item] {
	return func(ctx context.Context, cursor, term string) (pagination.Page[domain.Item], error) {
		return s.List(ctx, companyID, branchID, cursor, term)
	}
}
