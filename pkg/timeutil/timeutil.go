// Package timeutil normalizes dates between the company's configured
// timezone and the UTC strings the backend services transmit.
package timeutil

import (
	"fmt"
	"time"
)

// ToServiceUTC reinterprets t's wall clock in the company timezone and
// returns the RFC3339 UTC string the services expect on submission.
func ToServiceUTC(t time.Time, companyTZ string) (string, error) {
	loc, err := time.LoadLocation(companyTZ)
	if err != nil {
		return "", fmt.Errorf("load company timezone %q: %w", companyTZ, err)
	}
	local := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
	return local.UTC().Format(time.RFC3339), nil
}

// FromServiceUTC parses a service-transmitted UTC string into the company
// timezone for display and editing.
func FromServiceUTC(s, companyTZ string) (time.Time, error) {
	loc, err := time.LoadLocation(companyTZ)
	if err != nil {
		return time.Time{}, fmt.Errorf("load company timezone %q: %w", companyTZ, err)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse service date %q: %w", s, err)
	}
	return t.In(loc), nil
}
