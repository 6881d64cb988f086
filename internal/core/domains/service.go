// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package domains

import (
	"context"
	"errors"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tnslabs/trustns/internal/chain"
	"github.com/tnslabs/trustns/internal/ens"
	"github.com/tnslabs/trustns/internal/platform/apperr"
	"github.com/tnslabs/trustns/internal/platform/dberr"
	"github.com/tnslabs/trustns/pkg/name"
)

// AvailabilityChecker is the slice of the registrar controller the search
// path needs.
type AvailabilityChecker interface {
	Available(context context.Context, label string) (bool, error)
}

// RegistrarReader is the slice of the base registrar used for read-repair.
type RegistrarReader interface {
	OwnerOf(context context.Context, tokenID *big.Int) (common.Address, error)
	NameExpires(context context.Context, tokenID *big.Int) (*big.Int, error)
}

type Service struct {
	repo       Repository
	controller AvailabilityChecker
	registrar  RegistrarReader
	metadata   chain.Metadata
	logger     *slog.Logger
}

func NewService(repo Repository, controller AvailabilityChecker, registrar RegistrarReader, metadata chain.Metadata, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		controller: controller,
		registrar:  registrar,
		metadata:   metadata,
		logger:     logger,
	}
}

// Quote is the price attached to a search result.
type Quote struct {
	PricePerYear string `json:"price_per_year"`
	Currency     string `json:"currency"`
}

// SearchResult reports on-chain availability for a single name.
type SearchResult struct {
	Name        string   `json:"name"`
	Available   bool     `json:"available"`
	Pricing     Quote    `json:"pricing"`
	Suggestions []string `json:"suggestions"`
}

var suggestionAffixes = []struct {
	prefix string
	suffix string
}{
	{suffix: "app"},
	{suffix: "dao"},
	{suffix: "web3"},
	{prefix: "my"},
	{prefix: "the"},
	{suffix: "official"},
}

const maxSuggestions = 3

// Search checks on-chain availability for a label and, when the name is
// taken, proposes up to three available variants.
func (service *Service) Search(context context.Context, raw string) (*SearchResult, error) {
	label, err := name.Normalize(raw)
	if err != nil {
		return nil, apperr.ValidationError(err.Error())
	}

	available, err := service.controller.Available(context, label)
	if err != nil {
		return nil, err
	}

	result := &SearchResult{
		Name:      name.Full(label),
		Available: available,
		Pricing: Quote{
			PricePerYear: quotePrice(label),
			Currency:     service.metadata.CurrencySymbol,
		},
		Suggestions: []string{},
	}

	if !available {
		result.Suggestions = service.suggest(context, label)
	}

	return result, nil
}

func (service *Service) suggest(context context.Context, label string) []string {
	suggestions := []string{}
	for _, affix := range suggestionAffixes {
		candidate := affix.prefix + label + affix.suffix
		if len(candidate) > name.MaxLabelLength {
			continue
		}

		available, err := service.controller.Available(context, candidate)
		if err != nil {
			service.logger.Debug("suggestion_check_failed",
				slog.String("label", candidate), slog.String("error", err.Error()))
			continue
		}
		if available {
			suggestions = append(suggestions, name.Full(candidate))
		}
		if len(suggestions) == maxSuggestions {
			break
		}
	}
	return suggestions
}

// Get resolves a domain from the mirror store, repairing the row from chain
// state when the two disagree. Chain truth always wins.
func (service *Service) Get(context context.Context, raw string) (*View, error) {
	label, err := name.Normalize(raw)
	if err != nil {
		return nil, apperr.ValidationError(err.Error())
	}

	mirrored, err := service.repo.GetByLabel(context, label)
	if err != nil && !errors.Is(err, dberr.ErrNotFound) {
		return nil, err
	}
	if errors.Is(err, dberr.ErrNotFound) {
		mirrored = nil
	}

	repaired, err := service.readRepair(context, label, mirrored)
	if err != nil {
		return nil, err
	}
	if repaired == nil {
		return nil, apperr.NotFound("Domain")
	}

	records, err := service.repo.RecordsFor(context, label)
	if err != nil {
		return nil, err
	}

	return &View{Domain: repaired, Records: records}, nil
}

// readRepair reconciles a mirror row with chain state. A nil return with a
// nil error means the name is not registered anywhere.
func (service *Service) readRepair(context context.Context, label string, mirrored *Domain) (*Domain, error) {
	tokenID := ens.TokenID(label)

	owner, err := service.registrar.OwnerOf(context, tokenID)
	if err != nil {
		// ownerOf reverts for unminted tokens; a revert with a mirror row
		// means the mirror is stale.
		if chain.IsAtomLookupMiss(err) {
			if mirrored != nil {
				service.logger.Info("mirror_stale_removed", slog.String("label", label))
				if deleteErr := service.repo.Delete(context, label); deleteErr != nil {
					service.logger.Warn("mirror_repair_failed", slog.String("label", label),
						slog.String("error", deleteErr.Error()))
				}
			}
			return nil, nil
		}
		if mirrored != nil {
			// Chain unreachable; serve the stale mirror rather than fail.
			service.logger.Warn("chain_read_failed", slog.String("label", label),
				slog.String("error", err.Error()))
			return mirrored, nil
		}
		return nil, err
	}

	if owner == (common.Address{}) {
		return mirrored, nil
	}

	expires, err := service.registrar.NameExpires(context, tokenID)
	if err != nil {
		if mirrored != nil {
			return mirrored, nil
		}
		return nil, err
	}

	expiresAt := time.Unix(expires.Int64(), 0).UTC()
	ownerHex := owner.Hex()

	if mirrored != nil && mirrored.Owner == ownerHex && mirrored.ExpiresAt.Equal(expiresAt) {
		return mirrored, nil
	}

	repaired := &Domain{
		Label:     label,
		FullName:  name.Full(label),
		TokenID:   tokenID.String(),
		Owner:     ownerHex,
		ExpiresAt: expiresAt,
	}
	if err := service.repo.Upsert(context, repaired); err != nil {
		service.logger.Warn("mirror_repair_failed", slog.String("label", label),
			slog.String("error", err.Error()))
		if mirrored != nil {
			return mirrored, nil
		}
	}

	service.logger.Info("mirror_repaired", slog.String("label", label), slog.String("owner", ownerHex))
	return repaired, nil
}

// GetByTokenID maps an ERC-721 token identifier back to its domain. Token
// identifiers are label hashes, so the mirror row is the only way to recover
// the label; expiry and ownership are still refreshed from chain.
func (service *Service) GetByTokenID(context context.Context, tokenID string) (*Domain, error) {
	if _, ok := new(big.Int).SetString(tokenID, 10); !ok {
		return nil, apperr.ValidationError("token ID must be a decimal integer")
	}

	mirrored, err := service.repo.GetByTokenID(context, tokenID)
	if err != nil {
		return nil, err
	}

	repaired, err := service.readRepair(context, mirrored.Label, mirrored)
	if err != nil {
		return nil, err
	}
	if repaired == nil {
		return nil, apperr.NotFound("Domain")
	}
	return repaired, nil
}

// ListByOwner returns the mirror's view of an address's portfolio, verifying
// each row's ownership against the registrar.
func (service *Service) ListByOwner(context context.Context, address string, limit, offset int) ([]*View, int, error) {
	if !common.IsHexAddress(address) {
		return nil, 0, apperr.ValidationError("invalid Ethereum address")
	}

	mirrored, total, err := service.repo.ListByOwner(context, address, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	views := []*View{}
	for _, domain := range mirrored {
		repaired, err := service.readRepair(context, domain.Label, domain)
		if err != nil {
			continue
		}
		if repaired == nil {
			// Repair removed a stale row; it no longer counts toward the total.
			total--
			continue
		}
		if common.HexToAddress(repaired.Owner) != common.HexToAddress(address) {
			// Repair moved the name to another owner; drop it from this list.
			total--
			continue
		}

		records, err := service.repo.RecordsFor(context, domain.Label)
		if err != nil {
			records = map[string]string{}
		}
		views = append(views, &View{Domain: repaired, Records: records})
	}

	return views, total, nil
}

// Pricing returns the published tier table.
func (service *Service) Pricing() map[string]any {
	return map[string]any{
		"tiers":    Tiers(),
		"currency": service.metadata.CurrencySymbol,
	}
}

// Network returns the chain parameters a wallet needs for an add-chain call.
func (service *Service) Network() map[string]any {
	return map[string]any{
		"chainId":        service.metadata.ChainID.Int64(),
		"networkName":    service.metadata.Name,
		"rpcUrl":         service.metadata.RPCURL,
		"currencySymbol": service.metadata.CurrencySymbol,
		"explorerUrl":    service.metadata.ExplorerURL,
	}
}

func quotePrice(label string) string {
	return big.NewInt(int64(PricePerYear(label))).String()
}
