// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package wei_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnslabs/trustns/pkg/wei"
)

/*
TestFromDecimal checks exact integer conversion, including the fractional
values a float64 round trip would corrupt.
*/
func TestFromDecimal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"whole", "1", "1000000000000000000", false},
		{"fraction", "0.05", "50000000000000000", false},
		{"mixed", "1.5", "1500000000000000000", false},
		{"max_precision", "0.000000000000000001", "1", false},
		{"large", "123456789.123456789123456789", "123456789123456789123456789", false},
		{"leading_dot", ".5", "500000000000000000", false},
		{"zero", "0", "0", false},
		{"empty", "", "", true},
		{"too_many_digits", "0.0000000000000000001", "", true},
		{"negative", "-1", "", true},
		{"not_a_number", "abc", "", true},
		{"double_dot", "1.2.3", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := wei.FromDecimal(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			want, ok := new(big.Int).SetString(tt.want, 10)
			require.True(t, ok)
			assert.Zero(t, want.Cmp(got), "got %s, want %s", got, want)
		})
	}
}

func TestToDecimal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"whole", "1000000000000000000", "1"},
		{"fraction", "1500000000000000000", "1.5"},
		{"small", "1", "0.000000000000000001"},
		{"zero", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, ok := new(big.Int).SetString(tt.input, 10)
			require.True(t, ok)
			assert.Equal(t, tt.want, wei.ToDecimal(amount))
		})
	}
}

/*
TestRoundTrip ensures FromDecimal and ToDecimal invert each other for
canonical inputs.
*/
func TestRoundTrip(t *testing.T) {
	for _, input := range []string{"1", "0.05", "123456789.000000001", "30"} {
		parsed, err := wei.FromDecimal(input)
		require.NoError(t, err)
		assert.Equal(t, input, wei.ToDecimal(parsed))
	}
}

func TestMulYears(t *testing.T) {
	pricePerYear := big.NewInt(30_000_000)

	// One full year keeps the price unchanged.
	assert.Zero(t, pricePerYear.Cmp(wei.MulYears(pricePerYear, 31536000)))

	// Half a year halves it exactly.
	half := wei.MulYears(pricePerYear, 15768000)
	assert.Zero(t, big.NewInt(15_000_000).Cmp(half))
}
