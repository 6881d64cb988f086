// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package agents

import (
	"context"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tnslabs/trustns/internal/chain"
	"github.com/tnslabs/trustns/internal/core/domains"
	"github.com/tnslabs/trustns/internal/ens"
	"github.com/tnslabs/trustns/internal/platform/apperr"
	"github.com/tnslabs/trustns/internal/platform/validate"
	"github.com/tnslabs/trustns/pkg/name"
	"github.com/tnslabs/trustns/pkg/pagination"
)

// OwnershipReader resolves the current token owner for registration
// authorization.
type OwnershipReader interface {
	OwnerOf(context context.Context, tokenID *big.Int) (common.Address, error)
}

type Service struct {
	repo       Repository
	domainRepo domains.Repository
	registrar  OwnershipReader
	logger     *slog.Logger
}

func NewService(repo Repository, domainRepo domains.Repository, registrar OwnershipReader, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		domainRepo: domainRepo,
		registrar:  registrar,
		logger:     logger,
	}
}

// RegisterParams describes a new or updated agent profile.
type RegisterParams struct {
	Domain      string `json:"domain"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Endpoint    string `json:"endpoint"`
}

// RegisterResult is the response for a successful registration.
type RegisterResult struct {
	Domain  string `json:"domain"`
	AtomURI string `json:"atomUri"`
	Agent   *Agent `json:"agent"`
}

// Register claims a domain as an agent identity. The caller must own
// the domain on chain; the directory row is upserted so re-registering
// updates the profile.
func (service *Service) Register(ctx context.Context, caller string, p RegisterParams) (*RegisterResult, error) {
	validator := &validate.Validator{}
	validator.Required(FieldDomain, p.Domain)
	validator.Required(FieldCategory, p.Category)
	validator.MaxLen(FieldCategory, p.Category, 50)
	validator.MaxLen(FieldDescription, p.Description, 500)
	validator.MaxLen(FieldEndpoint, p.Endpoint, 200)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	label, err := service.authorizeOwner(ctx, p.Domain, caller)
	if err != nil {
		return nil, err
	}

	agent := &Agent{
		DomainLabel: label,
		Owner:       common.HexToAddress(caller).Hex(),
		Category:    strings.ToLower(strings.TrimSpace(p.Category)),
		Description: strings.TrimSpace(p.Description),
		Endpoint:    strings.TrimSpace(p.Endpoint),
	}
	if err := service.repo.Upsert(ctx, agent); err != nil {
		return nil, err
	}

	service.logger.Info("agent_registered", "label", label, "category", agent.Category)
	return &RegisterResult{
		Domain:  name.Full(label),
		AtomURI: AtomURI(label),
		Agent:   agent,
	}, nil
}

// DirectoryEntry is one agent in a listing, with the full domain name
// and atom URI resolved.
type DirectoryEntry struct {
	*Agent
	Domain  string `json:"domain"`
	AtomURI string `json:"atomUri"`
}

// Discover lists agents filtered by category. The category filter is
// case-insensitive; an empty filter returns everything up to the page
// limit.
func (service *Service) Discover(ctx context.Context, category string, page pagination.Params) ([]*DirectoryEntry, int, error) {
	list, total, err := service.repo.List(ctx, strings.ToLower(strings.TrimSpace(category)), page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	return directoryEntries(list), total, nil
}

// Resolved is the public identity of one agent.
type Resolved struct {
	Domain      string `json:"domain"`
	Address     string `json:"address"`
	AtomURI     string `json:"atomUri"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	Endpoint    string `json:"endpoint,omitempty"`
}

// Resolve returns an agent by domain name. The answering address comes
// from the chain when reachable, falling back to the directory row.
func (service *Service) Resolve(ctx context.Context, rawName string) (*Resolved, error) {
	label, err := name.Normalize(rawName)
	if err != nil {
		return nil, apperr.ValidationError(err.Error())
	}

	agent, err := service.repo.GetByLabel(ctx, label)
	if err != nil {
		return nil, apperr.NotFound("Agent")
	}

	address := agent.Owner
	if owner, err := service.registrar.OwnerOf(ctx, ens.TokenID(label)); err == nil {
		address = owner.Hex()
	} else if !chain.IsAtomLookupMiss(err) {
		service.logger.Warn("agent_owner_read_failed", "label", label, "error", err)
	}

	return &Resolved{
		Domain:      name.Full(label),
		Address:     address,
		AtomURI:     AtomURI(label),
		Category:    agent.Category,
		Description: agent.Description,
		Endpoint:    agent.Endpoint,
	}, nil
}

// ProfileRecords combines the directory row with the domain's
// "agent."-prefixed text records.
type ProfileRecords struct {
	Domain  string            `json:"domain"`
	AtomURI string            `json:"atomUri"`
	Agent   *Agent            `json:"agent"`
	Records map[string]string `json:"records"`
}

// Records returns the agent profile with its domain text records,
// filtered to the agent namespace.
func (service *Service) Records(ctx context.Context, rawName string) (*ProfileRecords, error) {
	label, err := name.Normalize(rawName)
	if err != nil {
		return nil, apperr.ValidationError(err.Error())
	}

	agent, err := service.repo.GetByLabel(ctx, label)
	if err != nil {
		return nil, apperr.NotFound("Agent")
	}

	all, err := service.domainRepo.RecordsFor(ctx, label)
	if err != nil {
		return nil, err
	}

	records := map[string]string{}
	for key, value := range all {
		if strings.HasPrefix(key, RecordPrefix) {
			records[key] = value
		}
	}

	return &ProfileRecords{
		Domain:  name.Full(label),
		AtomURI: AtomURI(label),
		Agent:   agent,
		Records: records,
	}, nil
}

// Unregister removes the directory row. Only the domain owner may do it.
func (service *Service) Unregister(ctx context.Context, rawName, caller string) error {
	label, err := service.authorizeOwner(ctx, rawName, caller)
	if err != nil {
		return err
	}
	if err := service.repo.Delete(ctx, label); err != nil {
		return apperr.NotFound("Agent")
	}

	service.logger.Info("agent_unregistered", "label", label)
	return nil
}

func (service *Service) authorizeOwner(ctx context.Context, rawName, caller string) (string, error) {
	label, err := name.Normalize(rawName)
	if err != nil {
		return "", apperr.ValidationError(err.Error())
	}
	if !common.IsHexAddress(caller) {
		return "", apperr.Unauthorized("Authenticated wallet address is invalid")
	}

	owner, err := service.registrar.OwnerOf(ctx, ens.TokenID(label))
	if err != nil {
		if chain.IsAtomLookupMiss(err) {
			return "", apperr.NotFound("Domain")
		}
		return "", err
	}
	if owner != common.HexToAddress(caller) {
		return "", apperr.Forbidden("Not domain owner")
	}
	return label, nil
}

func directoryEntries(list []*Agent) []*DirectoryEntry {
	entries := make([]*DirectoryEntry, 0, len(list))
	for _, agent := range list {
		entries = append(entries, &DirectoryEntry{
			Agent:   agent,
			Domain:  name.Full(agent.DomainLabel),
			AtomURI: AtomURI(agent.DomainLabel),
		})
	}
	return entries
}
