// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package domains

import "time"

// Domain is the mirror-store view of a registered name. The chain is the
// source of truth; rows here are repaired from chain state on read.
type Domain struct {
	Label        string    `json:"label"`
	FullName     string    `json:"name"`
	TokenID      string    `json:"token_id"`
	Owner        string    `json:"owner"`
	ExpiresAt    time.Time `json:"expires_at"`
	RegisteredAt time.Time `json:"registered_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Expired reports whether the domain is past its expiration timestamp.
func (d *Domain) Expired(now time.Time) bool {
	return now.After(d.ExpiresAt)
}

// View is a Domain enriched with its mirrored resolver records.
type View struct {
	*Domain
	Records map[string]string `json:"records"`
}

// Registration pricing in whole TRUST per year, fixed by label length.
const (
	PriceThreeChar    = 100
	PriceFourChar     = 70
	PriceFivePlusChar = 30
)

// PricePerYear returns the yearly price in whole TRUST for a label. The
// price is a pure function of length; no stored state is consulted.
func PricePerYear(label string) int {
	switch len(label) {
	case 3:
		return PriceThreeChar
	case 4:
		return PriceFourChar
	default:
		return PriceFivePlusChar
	}
}

// Tier describes one row of the public pricing table.
type Tier struct {
	Characters   string `json:"characters"`
	PricePerYear string `json:"price_per_year"`
	Description  string `json:"description"`
}

// Tiers returns the published pricing table, cheapest first.
func Tiers() []Tier {
	return []Tier{
		{Characters: "5+", PricePerYear: "30", Description: "5+ characters"},
		{Characters: "4", PricePerYear: "70", Description: "4 characters"},
		{Characters: "3", PricePerYear: "100", Description: "3 characters"},
	}
}

// Global field names for validation
const (
	FieldName    = "name"
	FieldOwner   = "owner"
	FieldTokenID = "token_id"
)
