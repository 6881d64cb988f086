// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

// Package wei converts between decimal token-amount strings and exact wei
// integers.
//
// # Precision
//
// All conversions run on [math/big.Int]. Floating point must never appear
// on any path that determines a transaction value: a float round trip
// silently corrupts large or fractional amounts.
package wei

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Decimals is the native token precision (18, like ether).
const Decimals = 18

// ErrInvalidAmount is returned for amounts that are not plain decimal
// numbers or carry more fractional digits than the token supports.
var ErrInvalidAmount = errors.New("wei: invalid decimal amount")

var unit = new(big.Int).Exp(big.NewInt(10), big.NewInt(Decimals), nil)

// FromDecimal parses a decimal token amount ("1", "0.05", "123.456789")
// into exact wei.
func FromDecimal(amount string) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, ErrInvalidAmount
	}

	wholePart := amount
	fractionPart := ""
	if dot := strings.IndexByte(amount, '.'); dot >= 0 {
		wholePart = amount[:dot]
		fractionPart = amount[dot+1:]
		if strings.IndexByte(fractionPart, '.') >= 0 {
			return nil, ErrInvalidAmount
		}
	}
	if wholePart == "" {
		wholePart = "0"
	}
	if len(fractionPart) > Decimals {
		return nil, fmt.Errorf("%w: more than %d fractional digits", ErrInvalidAmount, Decimals)
	}

	whole, ok := new(big.Int).SetString(wholePart, 10)
	if !ok || whole.Sign() < 0 {
		return nil, ErrInvalidAmount
	}

	result := new(big.Int).Mul(whole, unit)
	if fractionPart != "" {
		fraction, ok := new(big.Int).SetString(fractionPart, 10)
		if !ok {
			return nil, ErrInvalidAmount
		}
		// Scale the fraction up to 18 digits: "05" means 5 * 10^16.
		scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(Decimals-len(fractionPart))), nil)
		result.Add(result, fraction.Mul(fraction, scale))
	}

	return result, nil
}

// ToDecimal renders a wei amount as a decimal token string with trailing
// zeros trimmed ("1500000000000000000" -> "1.5").
func ToDecimal(amount *big.Int) string {
	if amount == nil {
		return "0"
	}

	whole := new(big.Int)
	fraction := new(big.Int)
	whole.QuoRem(amount, unit, fraction)

	if fraction.Sign() == 0 {
		return whole.String()
	}

	fractionDigits := fmt.Sprintf("%018s", fraction.String())
	fractionDigits = strings.TrimRight(fractionDigits, "0")
	return whole.String() + "." + fractionDigits
}

// MulYears multiplies a per-year wei price by a duration in seconds,
// rounding the year fraction exactly: price * seconds / secondsPerYear.
func MulYears(pricePerYear *big.Int, durationSeconds int64) *big.Int {
	const secondsPerYear = 31536000
	result := new(big.Int).Mul(pricePerYear, big.NewInt(durationSeconds))
	return result.Quo(result, big.NewInt(secondsPerYear))
}
