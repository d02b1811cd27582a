// Package session carries the signed-in user and selected company/branch
// context. It is passed explicitly to the code that needs it; nothing in
// this module reads session state through a global.
package session

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID          string
	Email       string
	DisplayName string
	Role        string
}

// Company is the selected company plus the settings every form reads:
// monetary precision, timezone, and the country tax applied at invoice level.
type Company struct {
	ID               string
	Name             string
	Code             string
	Country          string
	Currency         string
	DecimalPrecision int32
	Timezone         string
	TaxName          string
	TaxPercent       decimal.Decimal
}

type Branch struct {
	ID   string
	Name string
}

// Context is the session/company context a screen or form operates under.
type Context struct {
	User    User
	Company Company
	Branch  Branch
}

// Location resolves the company timezone, falling back to UTC when the
// setting is absent or invalid.
func (c Context) Location() *time.Location {
	if c.Company.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Company.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
