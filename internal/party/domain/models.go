package domain

import (
	"context"

	"github.com/smallbiznis/ledgerline/pkg/pagination"
)

type Kind string

const (
	KindCustomer Kind = "customer"
	KindVendor   Kind = "vendor"
)

// Party is a customer or vendor. PaymentAllowanceDays feeds the default
// payment due date on credit documents for this party.
type Party struct {
	ID                   string `json:"id"`
	CompanyID            string `json:"companyId"`
	Kind                 Kind   `json:"kind"`
	DisplayName          string `json:"displayName"`
	Phone                string `json:"phone"`
	Email                string `json:"email"`
	Address              string `json:"address"`
	TaxNumber            string `json:"taxNumber"`
	PaymentAllowanceDays int    `json:"paymentAllowanceDays"`
}

type UpsertRequest struct {
	ID                   string `json:"id,omitempty"`
	CompanyID            string `json:"companyId"`
	Kind                 Kind   `json:"kind"`
	DisplayName          string `json:"displayName"`
	Phone                string `json:"phone,omitempty"`
	Email                string `json:"email,omitempty"`
	Address              string `json:"address,omitempty"`
	TaxNumber            string `json:"taxNumber,omitempty"`
	PaymentAllowanceDays int    `json:"paymentAllowanceDays"`
}

type Service interface {
	List(ctx context.Context, companyID string, kind Kind, cursor, term string) (pagination.Page[Party], error)
	Get(ctx context.Context, id, companyID string) (*Party, error)
	Create(ctx context.Context, req UpsertRequest) (*Party, error)
	Update(ctx context.Context, req UpsertRequest) (*Party, error)
	// PageFetcher adapts List into the fetch shape the selector consumes.
	PageFetcher(companyID string, kind Kind) pagination.FetchFunc[Party]
}

// Equals matches parties by id, regardless of which API shape either value
// came from.
func Equals(a, b Party) bool { return a.ID == b.ID }
