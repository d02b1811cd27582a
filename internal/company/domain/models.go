package domain

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerline/pkg/pagination"
)

// Company mirrors the sysadmin service's company shape. DecimalPrecision and
// Timezone drive all client-side money formatting and date normalization;
// the country tax block is the invoice-level rate every document form uses.
type Company struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Code             string          `json:"code"`
	Country          string          `json:"country"`
	Currency         string          `json:"currency"`
	DecimalPrecision int32           `json:"decimalPrecision"`
	Timezone         string          `json:"timezone"`
	TaxName          string          `json:"taxName"`
	TaxPercent       decimal.Decimal `json:"taxPercent"`
	Address          string          `json:"address"`
}

type Branch struct {
	ID        string `json:"id"`
	CompanyID string `json:"companyId"`
	Name      string `json:"name"`
	Address   string `json:"address"`
}

type CreateCompanyRequest struct {
	Name             string  `json:"name"`
	Code             string  `json:"code"`
	Country          string  `json:"country"`
	Currency         string  `json:"currency"`
	DecimalPrecision int32   `json:"decimalPrecision"`
	Timezone         string  `json:"timezone"`
	TaxName          string  `json:"taxName"`
	TaxPercent       float64 `json:"taxPercent"`
	Address          string  `json:"address"`
}

type Service interface {
	List(ctx context.Context, cursor string) (pagination.Page[Company], error)
	Get(ctx context.Context, id string) (*Company, error)
	Create(ctx context.Context, req CreateCompanyRequest) (*Company, error)
	Branches(ctx context.Context, companyID, cursor string) (pagination.Page[Branch], error)
}
