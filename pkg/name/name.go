// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

// Package name normalizes and validates Trust Name Service labels.
//
// # Usage
//
// A label is the registrable part of a name ("alice" in "alice.trust").
// All hashing and pricing operates on the normalized form, so every input
// path must pass through [Normalize] before it touches a hash or a price.
package name

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// TLD is the fixed top-level suffix for all names in the service.
const TLD = "trust"

// Label length bounds enforced at registration time.
const (
	MinLabelLength = 3
	MaxLabelLength = 63
)

var (
	// ErrInvalidLabel is returned for labels that fail charset or length rules.
	ErrInvalidLabel = errors.New("name: invalid label")

	// labelRegex matches the registrable charset: lowercase letters, digits,
	// hyphens, with no leading or trailing hyphen.
	labelRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Normalize lowercases and Unicode-normalizes a raw label, stripping a
// trailing ".trust" suffix if the caller passed a full name.
//
// It returns [ErrInvalidLabel] if the result violates the charset or the
// length bounds.
func Normalize(raw string) (string, error) {
	label := strings.TrimSpace(raw)
	label = strings.TrimSuffix(label, "."+TLD)
	label = norm.NFKC.String(label)
	label = strings.ToLower(label)

	if len(label) < MinLabelLength || len(label) > MaxLabelLength {
		return "", ErrInvalidLabel
	}
	if !labelRegex.MatchString(label) {
		return "", ErrInvalidLabel
	}

	return label, nil
}

// Full returns the fully qualified name for a label ("alice" -> "alice.trust").
func Full(label string) string {
	return label + "." + TLD
}

// Split breaks a fully qualified name into its label, or returns the input
// unchanged when it carries no suffix.
func Split(fullName string) string {
	return strings.TrimSuffix(fullName, "."+TLD)
}

// IsFullName reports whether the input carries the service suffix.
func IsFullName(s string) bool {
	return strings.HasSuffix(s, "."+TLD)
}
