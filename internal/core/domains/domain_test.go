// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package domains_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tnslabs/trustns/internal/core/domains"
)

/*
TestPricePerYear verifies the length-tiered price table. The price must be
a pure function of label length.
*/
func TestPricePerYear(t *testing.T) {
	tests := []struct {
		name  string
		label string
		price int
	}{
		{"three_chars", "abc", 100},
		{"four_chars", "abcd", 70},
		{"five_chars", "abcde", 30},
		{"long_label", "averylongdomainname", 30},
		{"numeric_three", "123", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.price, domains.PricePerYear(tt.label))
		})
	}
}

/*
TestTiers checks the published pricing table is ordered cheapest first and
consistent with the per-label price function.
*/
func TestTiers(t *testing.T) {
	tiers := domains.Tiers()

	assert.Len(t, tiers, 3)
	assert.Equal(t, "30", tiers[0].PricePerYear)
	assert.Equal(t, "70", tiers[1].PricePerYear)
	assert.Equal(t, "100", tiers[2].PricePerYear)
}

/*
TestDomain_Expired covers the expiry boundary.
*/
func TestDomain_Expired(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	domain := &domains.Domain{ExpiresAt: now}

	assert.False(t, domain.Expired(now))
	assert.False(t, domain.Expired(now.Add(-time.Second)))
	assert.True(t, domain.Expired(now.Add(time.Second)))
}
