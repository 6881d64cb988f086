// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package domains

import (
	"fmt"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"
	requestutil "github.com/tnslabs/trustns/internal/platform/request"
	"github.com/tnslabs/trustns/internal/platform/respond"
)

// RegisterMetadataRoutes mounts the ERC-721 token metadata endpoints.
func (handler *Handler) RegisterMetadataRoutes(router chi.Router) {
	router.Get("/{tokenID}", handler.tokenMetadata)
	router.Get("/{tokenID}/image", handler.tokenImage)
}

type metadataAttribute struct {
	TraitType   string `json:"trait_type"`
	DisplayType string `json:"display_type,omitempty"`
	Value       any    `json:"value"`
}

type tokenMetadata struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Image       string              `json:"image"`
	ExternalURL string              `json:"external_url"`
	Attributes  []metadataAttribute `json:"attributes"`
}

var (
	lettersOnly = regexp.MustCompile(`^[a-z]+$`)
	digitsOnly  = regexp.MustCompile(`^[0-9]+$`)
)

func (handler *Handler) tokenMetadata(writer http.ResponseWriter, request *http.Request) {
	tokenID := requestutil.ID(request, "tokenID")

	domain, err := handler.service.GetByTokenID(request.Context(), tokenID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	base := requestBaseURL(request)
	length := len(domain.Label)
	tier, yearly := pricingTier(length)

	characterSet := "mixed"
	switch {
	case lettersOnly.MatchString(domain.Label):
		characterSet = "letters"
	case digitsOnly.MatchString(domain.Label):
		characterSet = "numbers"
	}

	respond.OK(writer, tokenMetadata{
		Name: domain.FullName,
		Description: fmt.Sprintf(
			"%s, a Trust Name Service domain on %s. This NFT represents ownership of the domain name.",
			domain.FullName, handler.service.metadata.Name,
		),
		Image:       fmt.Sprintf("%s/api/metadata/%s/image", base, tokenID),
		ExternalURL: fmt.Sprintf("%s/manage/%s", base, domain.Label),
		Attributes: []metadataAttribute{
			{TraitType: "Domain Length", DisplayType: "number", Value: length},
			{TraitType: "Character Set", Value: characterSet},
			{TraitType: "Pricing Tier", Value: tier},
			{TraitType: "Price Per Year", Value: yearly},
			{TraitType: "Expiration Date", DisplayType: "date", Value: domain.ExpiresAt.Unix()},
			{TraitType: "Token ID", Value: domain.TokenID},
		},
	})
}

func (handler *Handler) tokenImage(writer http.ResponseWriter, request *http.Request) {
	tokenID := requestutil.ID(request, "tokenID")

	domain, err := handler.service.GetByTokenID(request.Context(), tokenID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	start, end := tierGradient(len(domain.Label))
	svg := domainSVG(domain.FullName, domain.TokenID, start, end)

	writer.Header().Set("Content-Type", "image/svg+xml")
	writer.Header().Set("Cache-Control", "public, max-age=3600")
	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write([]byte(svg))
}

func pricingTier(length int) (tier, yearly string) {
	switch length {
	case 3:
		return "Premium (3 characters)", "100 TRUST/year"
	case 4:
		return "Standard (4 characters)", "70 TRUST/year"
	default:
		return "Basic (5+ characters)", "30 TRUST/year"
	}
}

func tierGradient(length int) (start, end string) {
	switch length {
	case 3:
		return "#FFD700", "#FFA500"
	case 4:
		return "#4A90E2", "#357ABD"
	default:
		return "#9B59B6", "#8E44AD"
	}
}

func requestBaseURL(request *http.Request) string {
	scheme := "http"
	if request.TLS != nil || request.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + request.Host
}

// domainSVG renders the on-the-fly token art: gradient background keyed to
// pricing tier, the domain name on a card and a truncated token badge.
func domainSVG(fullName, tokenID, gradientStart, gradientEnd string) string {
	badge := tokenID
	if len(badge) > 10 {
		badge = badge[:10] + "…"
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg width="500" height="500" viewBox="0 0 500 500" xmlns="http://www.w3.org/2000/svg">
  <defs>
    <linearGradient id="bgGradient" x1="0%%" y1="0%%" x2="100%%" y2="100%%">
      <stop offset="0%%" style="stop-color:%s;stop-opacity:1" />
      <stop offset="100%%" style="stop-color:%s;stop-opacity:1" />
    </linearGradient>
    <filter id="shadow">
      <feDropShadow dx="0" dy="4" stdDeviation="8" flood-opacity="0.3"/>
    </filter>
  </defs>
  <rect width="500" height="500" fill="url(#bgGradient)"/>
  <circle cx="50" cy="50" r="30" fill="white" opacity="0.1"/>
  <circle cx="450" cy="450" r="40" fill="white" opacity="0.1"/>
  <circle cx="100" cy="400" r="20" fill="white" opacity="0.1"/>
  <circle cx="400" cy="100" r="25" fill="white" opacity="0.1"/>
  <rect x="40" y="150" width="420" height="200" rx="20" fill="white" opacity="0.95" filter="url(#shadow)"/>
  <text x="250" y="120" font-family="Arial, sans-serif" font-size="32" font-weight="bold"
        fill="white" text-anchor="middle" opacity="0.9">TNS</text>
  <text x="250" y="240" font-family="Arial, sans-serif" font-size="36" font-weight="bold"
        fill="#2C3E50" text-anchor="middle">%s</text>
  <text x="250" y="280" font-family="Arial, sans-serif" font-size="16"
        fill="#7F8C8D" text-anchor="middle">Trust Name Service Domain</text>
  <rect x="150" y="300" width="200" height="30" rx="15" fill="%s" opacity="0.2"/>
  <text x="250" y="320" font-family="Arial, sans-serif" font-size="14"
        fill="#2C3E50" text-anchor="middle">Token #%s</text>
  <text x="250" y="430" font-family="Arial, sans-serif" font-size="14"
        fill="white" text-anchor="middle" opacity="0.8">Intuition Mainnet</text>
</svg>`, gradientStart, gradientEnd, fullName, gradientStart, badge)
}
