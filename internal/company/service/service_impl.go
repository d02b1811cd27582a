package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/gosimple/slug"
	"github.com/smallbiznis/ledgerline/internal/api"
	"github.com/smallbiznis/ledgerline/internal/company/domain"
	"github.com/smallbiznis/ledgerline/internal/config"
	"github.com/smallbiznis/ledgerline/pkg/pagination"
)

type service struct {
	client   *api.Client
	pageSize int
}

func NewService(client *api.Client, cfg config.Config) domain.Service {
	return &service{client: client, pageSize: cfg.DefaultPageSize}
}

func (s *service) List(ctx context.Context, cursor string) (pagination.Page[domain.Company], error) {
	return api.List[domain.Company](ctx, s.client, api.ServiceSysadmin, "company", api.ListRequest{
		PageSize: s.pageSize,
		Cursor:   cursor,
	})
}

func (s *service) Get(ctx context.Context, id string) (*domain.Company, error) {
	return api.GetOne[domain.Company](ctx, s.client, api.ServiceSysadmin, "company", id, "")
}

// Create derives a URL-safe company code from the name when none is given.
func (s *service) Create(ctx context.Context, req domain.CreateCompanyRequest) (*domain.Company, error) {
	if strings.TrimSpace(req.Code) == "" {
		req.Code = slug.Make(req.Name)
	}
	var out domain.Company
	if err := s.client.Do(ctx, http.MethodPost, api.ServiceSysadmin, "/company/add-company", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) Branches(ctx context.Context, companyID, cursor string) (pagination.Page[domain.Branch], error) {
	return api.List[domain.Branch](ctx, s.client, api.ServiceSysadmin, "branch", api.ListRequest{
		PageSize:  s.pageSize,
		CompanyID: companyID,
		Cursor:    cursor,
	})
}
