// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package sync

import (
	"context"
	"errors"
	"log/slog"
	"math/big"
	"regexp"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tnslabs/trustns/internal/chain"
	"github.com/tnslabs/trustns/internal/core/domains"
	"github.com/tnslabs/trustns/internal/platform/apperr"
	"github.com/tnslabs/trustns/internal/platform/dberr"
	"github.com/tnslabs/trustns/internal/platform/validate"
	"github.com/tnslabs/trustns/pkg/name"
)

// userSyncLimit caps how many mirror domains a single user overview
// enumerates with live chain reads.
const userSyncLimit = 200

var txHashPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// MultiVaultClient is the subset of the Knowledge-Graph contract the
// sync engine needs.
type MultiVaultClient interface {
	AtomIDByHash(ctx context.Context, uriHash common.Hash) (*big.Int, error)
	GetAtomCost(ctx context.Context) (*big.Int, error)
	BuildCreateAtomsTx(uris []string, perAtomCostWei *big.Int) (chain.TxRequest, error)
	BuildCreateTripleTx(subjectID, predicateID, objectID, costWei *big.Int) (chain.TxRequest, error)
}

// CostCache holds the per-atom stake as a decimal wei string. Get
// returns "" on a cache miss.
type CostCache interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, costWei string) error
}

type Service struct {
	repo         Repository
	domainRepo   domains.Repository
	vault        MultiVaultClient
	costs        CostCache
	fallbackCost *big.Int
	logger       *slog.Logger
}

func NewService(
	repo Repository,
	domainRepo domains.Repository,
	vault MultiVaultClient,
	costs CostCache,
	fallbackCost *big.Int,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:         repo,
		domainRepo:   domainRepo,
		vault:        vault,
		costs:        costs,
		fallbackCost: fallbackCost,
		logger:       logger,
	}
}

// CheckAtomExists resolves an atom URI to its on-chain ID. A missing
// atom is a normal outcome, not an error, and is logged at debug only.
func (service *Service) CheckAtomExists(ctx context.Context, uri string) (*big.Int, error) {
	atomID, err := service.vault.AtomIDByHash(ctx, crypto.Keccak256Hash([]byte(uri)))
	if chain.IsAtomLookupMiss(err) {
		service.logger.Debug("atom_lookup_miss", "uri", uri)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if atomID == nil || atomID.Sign() == 0 {
		return nil, nil
	}
	return atomID, nil
}

// AtomCost returns the per-atom stake in wei. The value is cached in
// Redis; when both the cache and the chain view are unavailable the
// configured fallback is used so prepare calls keep working.
func (service *Service) AtomCost(ctx context.Context) *big.Int {
	cached, err := service.costs.Get(ctx)
	if err != nil {
		service.logger.Warn("atom_cost_cache_read_failed", "error", err)
	} else if cached != "" {
		if cost, ok := new(big.Int).SetString(cached, 10); ok {
			return cost
		}
	}

	cost, err := service.vault.GetAtomCost(ctx)
	if err != nil || cost == nil || cost.Sign() == 0 {
		service.logger.Warn("atom_cost_unavailable", "error", err)
		return new(big.Int).Set(service.fallbackCost)
	}

	if err := service.costs.Set(ctx, cost.String()); err != nil {
		service.logger.Warn("atom_cost_cache_write_failed", "error", err)
	}
	return cost
}

// DomainCheck reports the live and stored sync state of one domain.
type DomainCheck struct {
	Domain        string `json:"domain"`
	Owner         string `json:"owner,omitempty"`
	AtomURI       string `json:"atomUri"`
	ExistsOnChain bool   `json:"existsOnChain"`
	AtomID        string `json:"atomId,omitempty"`
	StoredStatus  string `json:"storedStatus"`
}

// CheckDomain resolves the domain atom on chain and compares it with
// the stored ledger row.
func (service *Service) CheckDomain(ctx context.Context, rawName string) (*DomainCheck, error) {
	label, err := name.Normalize(rawName)
	if err != nil {
		return nil, apperr.ValidationError(err.Error())
	}

	check := &DomainCheck{
		Domain:       name.Full(label),
		AtomURI:      DomainAtomURI(label),
		StoredStatus: StateUnsynced,
	}

	if mirror, err := service.domainRepo.GetByLabel(ctx, label); err == nil {
		check.Owner = mirror.Owner
	}

	atomID, err := service.CheckAtomExists(ctx, check.AtomURI)
	if err != nil {
		return nil, err
	}
	if atomID != nil {
		check.ExistsOnChain = true
		check.AtomID = atomID.String()
	}

	if stored, err := service.repo.Get(ctx, label, ""); err == nil {
		check.StoredStatus = stored.State
	}
	return check, nil
}

// DomainPrepare is the wallet-facing payload for creating a domain atom.
type DomainPrepare struct {
	Domain        string        `json:"domain"`
	AtomURI       string        `json:"atomUri"`
	AlreadySynced bool          `json:"alreadySynced"`
	AtomID        string        `json:"atomId,omitempty"`
	AtomCostWei   string        `json:"atomCostWei,omitempty"`
	Transaction   *chain.TxWire `json:"transaction,omitempty"`
}

// PrepareDomainSync builds the createAtoms transaction for a domain
// atom. If the atom already exists on chain, the ledger row is marked
// synced and no transaction is returned.
func (service *Service) PrepareDomainSync(ctx context.Context, rawName string) (*DomainPrepare, error) {
	label, err := name.Normalize(rawName)
	if err != nil {
		return nil, apperr.ValidationError(err.Error())
	}

	uri := DomainAtomURI(label)
	prepare := &DomainPrepare{Domain: name.Full(label), AtomURI: uri}

	atomID, err := service.CheckAtomExists(ctx, uri)
	if err != nil {
		return nil, err
	}
	if atomID != nil {
		prepare.AlreadySynced = true
		prepare.AtomID = atomID.String()
		if err := service.markSynced(ctx, label, "", "", uri, atomID.String(), ""); err != nil {
			return nil, err
		}
		return prepare, nil
	}

	cost := service.AtomCost(ctx)
	tx, err := service.vault.BuildCreateAtomsTx([]string{uri}, cost)
	if err != nil {
		return nil, err
	}

	if err := service.upsertState(ctx, label, "", "", uri, StatePending); err != nil {
		return nil, err
	}

	wire := tx.Wire()
	prepare.AtomCostWei = cost.String()
	prepare.Transaction = &wire

	service.logger.Info("domain_sync_prepared", "label", label, "atom_uri", uri)
	return prepare, nil
}

// ConfirmParams reports a mined domain atom back to the ledger.
type ConfirmParams struct {
	Domain string `json:"domain"`
	TxHash string `json:"txHash"`
	AtomID string `json:"atomId,omitempty"`
}

// ConfirmDomainSync transitions the domain row to synced. It is a local
// state change; the chain is not consulted.
func (service *Service) ConfirmDomainSync(ctx context.Context, p ConfirmParams) (*Status, error) {
	validator := &validate.Validator{}
	validator.Required(FieldDomain, p.Domain)
	validator.Required(FieldTxHash, p.TxHash)
	validator.Custom(FieldTxHash, p.TxHash != "" && !txHashPattern.MatchString(p.TxHash), "must be a 0x-prefixed 32-byte hex string")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	label, err := name.Normalize(p.Domain)
	if err != nil {
		return nil, apperr.ValidationError(err.Error())
	}

	stored, err := service.repo.Get(ctx, label, "")
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("Sync status")
		}
		return nil, err
	}
	if stored.State == StateSynced {
		return stored, nil
	}

	stored.State = StateSynced
	stored.AtomsCreated = true
	stored.TxHash = p.TxHash
	stored.AtomID = p.AtomID
	stored.LastError = ""
	if err := service.repo.Upsert(ctx, stored); err != nil {
		return nil, err
	}

	service.logger.Info("domain_sync_confirmed", "label", label, "tx_hash", p.TxHash)
	return stored, nil
}

// FailParams records a failed sync attempt.
type FailParams struct {
	Domain string `json:"domain"`
	Reason string `json:"reason"`
}

// FailDomainSync transitions the domain row to failed, keeping the
// reason for later inspection.
func (service *Service) FailDomainSync(ctx context.Context, p FailParams) (*Status, error) {
	validator := &validate.Validator{}
	validator.Required(FieldDomain, p.Domain)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	label, err := name.Normalize(p.Domain)
	if err != nil {
		return nil, apperr.ValidationError(err.Error())
	}

	stored, err := service.repo.Get(ctx, label, "")
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("Sync status")
		}
		return nil, err
	}

	stored.State = StateFailed
	stored.LastError = p.Reason
	if err := service.repo.Upsert(ctx, stored); err != nil {
		return nil, err
	}

	service.logger.Warn("domain_sync_failed", "label", label, "reason", p.Reason)
	return stored, nil
}

// Overview is the aggregate ledger breakdown.
func (service *Service) Overview(ctx context.Context) (Counters, error) {
	return service.repo.Counters(ctx)
}

// PendingItem is a pending ledger row. Domain-level rows carry a
// rebuilt createAtoms transaction so the wallet can retry directly.
type PendingItem struct {
	*Status
	Transaction *chain.TxWire `json:"transaction,omitempty"`
}

// PendingList is the response for the pending queue.
type PendingList struct {
	Count       int            `json:"count"`
	AtomCostWei string         `json:"atomCostWei"`
	Items       []*PendingItem `json:"items"`
}

// Pending lists every pending ledger row with retry transactions for
// domain atoms. Record rows are re-prepared per record instead.
func (service *Service) Pending(ctx context.Context) (*PendingList, error) {
	rows, err := service.repo.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	cost := service.AtomCost(ctx)
	list := &PendingList{
		Count:       len(rows),
		AtomCostWei: cost.String(),
		Items:       make([]*PendingItem, 0, len(rows)),
	}

	for _, row := range rows {
		item := &PendingItem{Status: row}
		if row.RecordKey == "" && !row.AtomsCreated {
			tx, err := service.vault.BuildCreateAtomsTx([]string{row.AtomURI}, cost)
			if err != nil {
				return nil, err
			}
			wire := tx.Wire()
			item.Transaction = &wire
		}
		list.Items = append(list.Items, item)
	}
	return list, nil
}

// UserDomainStatus is one domain in a user's sync overview.
type UserDomainStatus struct {
	Name        string        `json:"name"`
	Label       string        `json:"label"`
	AtomURI     string        `json:"atomUri"`
	Synced      bool          `json:"synced"`
	AtomID      string        `json:"atomId,omitempty"`
	Transaction *chain.TxWire `json:"transaction,omitempty"`
}

// UserOverview aggregates the sync state of every domain a user owns.
type UserOverview struct {
	Address      string              `json:"address"`
	TotalDomains int                 `json:"totalDomains"`
	Synced       int                 `json:"synced"`
	Pending      int                 `json:"pending"`
	AtomCostWei  string              `json:"atomCostWei"`
	Domains      []*UserDomainStatus `json:"domains"`
}

// UserSyncStatus enumerates the user's mirror domains with live atom
// existence. Chain truth overrides stale ledger rows: a row still
// marked pending for an atom that exists on chain is repaired in place.
func (service *Service) UserSyncStatus(ctx context.Context, address string) (*UserOverview, error) {
	if !common.IsHexAddress(address) {
		validator := &validate.Validator{}
		validator.Custom(FieldAddress, true, "must be a hex Ethereum address")
		return nil, validator.Err()
	}

	list, total, err := service.domainRepo.ListByOwner(ctx, address, userSyncLimit, 0)
	if err != nil {
		return nil, err
	}

	cost := service.AtomCost(ctx)
	overview := &UserOverview{
		Address:      common.HexToAddress(address).Hex(),
		TotalDomains: total,
		AtomCostWei:  cost.String(),
		Domains:      make([]*UserDomainStatus, 0, len(list)),
	}

	for _, domain := range list {
		entry := &UserDomainStatus{
			Name:    domain.FullName,
			Label:   domain.Label,
			AtomURI: DomainAtomURI(domain.Label),
		}

		atomID, err := service.CheckAtomExists(ctx, entry.AtomURI)
		if err != nil {
			return nil, err
		}

		if atomID != nil {
			entry.Synced = true
			entry.AtomID = atomID.String()
			overview.Synced++
			service.repairStale(ctx, domain.Label, entry.AtomURI, atomID.String())
		} else {
			tx, err := service.vault.BuildCreateAtomsTx([]string{entry.AtomURI}, cost)
			if err != nil {
				return nil, err
			}
			wire := tx.Wire()
			entry.Transaction = &wire
			overview.Pending++
		}
		overview.Domains = append(overview.Domains, entry)
	}
	return overview, nil
}

// RecordParams identifies one record to mirror into the graph.
type RecordParams struct {
	Domain string `json:"domain"`
	Key    string `json:"recordKey"`
	Value  string `json:"recordValue"`
}

// AtomURISet holds the three URIs of a record triple.
type AtomURISet struct {
	Domain    string `json:"domain"`
	Predicate string `json:"predicate"`
	Value     string `json:"value"`
}

// AtomExistsSet reports per-URI existence.
type AtomExistsSet struct {
	Domain    bool `json:"domain"`
	Predicate bool `json:"predicate"`
	Value     bool `json:"value"`
}

// AtomIDSet holds the resolved atom IDs as decimal strings, "" when the
// atom does not exist yet.
type AtomIDSet struct {
	Domain    string `json:"domain,omitempty"`
	Predicate string `json:"predicate,omitempty"`
	Value     string `json:"value,omitempty"`
}

// WireTransaction is a typed transaction in a prepare response.
type WireTransaction struct {
	Type string `json:"type"`
	chain.TxWire
}

// RecordPrepare is the two-phase plan for mirroring one record: first
// create the missing atoms, then create the triple.
type RecordPrepare struct {
	Success             bool              `json:"success"`
	DomainName          string            `json:"domainName"`
	RecordKey           string            `json:"recordKey"`
	RecordValue         string            `json:"recordValue"`
	AlreadySynced       bool              `json:"alreadySynced"`
	AtomURIs            AtomURISet        `json:"atomUris"`
	ExistingAtoms       AtomExistsSet     `json:"existingAtoms"`
	ExistingAtomIDs     AtomIDSet         `json:"existingAtomIds"`
	AtomsToCreate       []string          `json:"atomsToCreate"`
	AtomCostWei         string            `json:"atomCostWei"`
	TotalCostWei        string            `json:"totalCostWei"`
	Transactions        []WireTransaction `json:"transactions"`
	NeedsAtomCreation   bool              `json:"needsAtomCreation"`
	NeedsTripleCreation bool              `json:"needsTripleCreation"`
	ReadyForTriple      bool              `json:"readyForTriple"`
}

// PrepareRecordSync plans the atom and triple creation for one record.
// It is read-only and idempotent: calling it twice with the same inputs
// returns the same plan and never writes anything.
func (service *Service) PrepareRecordSync(ctx context.Context, p RecordParams) (*RecordPrepare, error) {
	validator := &validate.Validator{}
	validator.Required(FieldDomain, p.Domain)
	validator.Required(FieldRecordKey, p.Key)
	validator.MaxLen(FieldRecordKey, p.Key, 100)
	validator.Required(FieldRecordValue, p.Value)
	validator.MaxLen(FieldRecordValue, p.Value, 2000)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	label, err := name.Normalize(p.Domain)
	if err != nil {
		return nil, apperr.ValidationError(err.Error())
	}

	prepare := &RecordPrepare{
		Success:     true,
		DomainName:  name.Full(label),
		RecordKey:   p.Key,
		RecordValue: p.Value,
		AtomURIs: AtomURISet{
			Domain:    DomainAtomURI(label),
			Predicate: PredicateAtomURI(p.Key),
			Value:     ValueAtomURI(p.Key, p.Value),
		},
		AtomsToCreate: make([]string, 0, 3),
		Transactions:  make([]WireTransaction, 0, 1),
		TotalCostWei:  "0",
	}

	if stored, err := service.repo.Get(ctx, label, p.Key); err == nil &&
		stored.State == StateSynced && stored.RecordValue == p.Value {
		prepare.AlreadySynced = true
		prepare.AtomCostWei = service.AtomCost(ctx).String()
		return prepare, nil
	}

	domainID, err := service.CheckAtomExists(ctx, prepare.AtomURIs.Domain)
	if err != nil {
		return nil, err
	}
	predicateID, err := service.CheckAtomExists(ctx, prepare.AtomURIs.Predicate)
	if err != nil {
		return nil, err
	}
	valueID, err := service.CheckAtomExists(ctx, prepare.AtomURIs.Value)
	if err != nil {
		return nil, err
	}

	if domainID != nil {
		prepare.ExistingAtoms.Domain = true
		prepare.ExistingAtomIDs.Domain = domainID.String()
	} else {
		prepare.AtomsToCreate = append(prepare.AtomsToCreate, prepare.AtomURIs.Domain)
	}
	if predicateID != nil {
		prepare.ExistingAtoms.Predicate = true
		prepare.ExistingAtomIDs.Predicate = predicateID.String()
	} else {
		prepare.AtomsToCreate = append(prepare.AtomsToCreate, prepare.AtomURIs.Predicate)
	}
	if valueID != nil {
		prepare.ExistingAtoms.Value = true
		prepare.ExistingAtomIDs.Value = valueID.String()
	} else {
		prepare.AtomsToCreate = append(prepare.AtomsToCreate, prepare.AtomURIs.Value)
	}

	cost := service.AtomCost(ctx)
	prepare.AtomCostWei = cost.String()

	if len(prepare.AtomsToCreate) > 0 {
		tx, err := service.vault.BuildCreateAtomsTx(prepare.AtomsToCreate, cost)
		if err != nil {
			return nil, err
		}
		prepare.NeedsAtomCreation = true
		prepare.NeedsTripleCreation = true
		prepare.TotalCostWei = new(big.Int).Mul(cost, big.NewInt(int64(len(prepare.AtomsToCreate)))).String()
		prepare.Transactions = append(prepare.Transactions, WireTransaction{Type: "createAtoms", TxWire: tx.Wire()})
		return prepare, nil
	}

	tripleTx, err := service.vault.BuildCreateTripleTx(domainID, predicateID, valueID, cost)
	if err != nil {
		return nil, err
	}
	prepare.NeedsTripleCreation = true
	prepare.ReadyForTriple = true
	prepare.TotalCostWei = cost.String()
	prepare.Transactions = append(prepare.Transactions, WireTransaction{Type: "createTriple", TxWire: tripleTx.Wire()})
	return prepare, nil
}

// Stages of the record sync saga.
const (
	StageAtoms  = "atoms"
	StageTriple = "triple"
)

// RecordConfirmParams reports a mined sync transaction for a record.
type RecordConfirmParams struct {
	Domain string `json:"domain"`
	Key    string `json:"recordKey"`
	Value  string `json:"recordValue"`
	TxHash string `json:"txHash"`
	Stage  string `json:"stage"`
}

// ConfirmRecordSync advances the record saga. The atoms stage keeps the
// row pending with atomsCreated set, so a restart resumes at the triple
// stage; the triple stage marks the row synced.
func (service *Service) ConfirmRecordSync(ctx context.Context, p RecordConfirmParams) (*Status, error) {
	validator := &validate.Validator{}
	validator.Required(FieldDomain, p.Domain)
	validator.Required(FieldRecordKey, p.Key)
	validator.Required(FieldTxHash, p.TxHash)
	validator.Custom(FieldTxHash, p.TxHash != "" && !txHashPattern.MatchString(p.TxHash), "must be a 0x-prefixed 32-byte hex string")
	validator.OneOf(FieldStage, p.Stage, StageAtoms, StageTriple)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	label, err := name.Normalize(p.Domain)
	if err != nil {
		return nil, apperr.ValidationError(err.Error())
	}

	stored, err := service.repo.Get(ctx, label, p.Key)
	if err != nil {
		if !errors.Is(err, dberr.ErrNotFound) {
			return nil, err
		}
		stored = &Status{
			DomainLabel: label,
			RecordKey:   p.Key,
			AtomURI:     ValueAtomURI(p.Key, p.Value),
			State:       StatePending,
		}
	}

	stored.RecordValue = p.Value
	stored.TxHash = p.TxHash
	stored.LastError = ""

	switch p.Stage {
	case StageAtoms:
		stored.AtomsCreated = true
		stored.State = StatePending
	case StageTriple:
		stored.AtomsCreated = true
		stored.State = StateSynced
	}

	if err := service.repo.Upsert(ctx, stored); err != nil {
		return nil, err
	}

	service.logger.Info("record_sync_confirmed",
		"label", label, "record_key", p.Key, "stage", p.Stage)
	return stored, nil
}

// PredicateCheck is the live existence of one predicate atom.
type PredicateCheck struct {
	Key     string `json:"key"`
	AtomURI string `json:"atomUri"`
	Exists  bool   `json:"exists"`
	AtomID  string `json:"atomId,omitempty"`
}

// RecordChecks combines the stored record sync rows of a domain with
// the live existence of the standard predicate atoms.
type RecordChecks struct {
	Domain     string           `json:"domain"`
	DomainAtom PredicateCheck   `json:"domainAtom"`
	Predicates []PredicateCheck `json:"predicates"`
	Stored     []*Status        `json:"stored"`
}

// RecordSyncRows checks the domain atom plus every standard predicate
// atom and returns the stored ledger rows alongside.
func (service *Service) RecordSyncRows(ctx context.Context, rawName string) (*RecordChecks, error) {
	label, err := name.Normalize(rawName)
	if err != nil {
		return nil, apperr.ValidationError(err.Error())
	}

	checks := &RecordChecks{
		Domain:     name.Full(label),
		Predicates: make([]PredicateCheck, 0, len(RecordPredicateKeys)),
	}

	checks.DomainAtom = PredicateCheck{AtomURI: DomainAtomURI(label)}
	if atomID, err := service.CheckAtomExists(ctx, checks.DomainAtom.AtomURI); err != nil {
		return nil, err
	} else if atomID != nil {
		checks.DomainAtom.Exists = true
		checks.DomainAtom.AtomID = atomID.String()
	}

	for _, key := range RecordPredicateKeys {
		check := PredicateCheck{Key: key, AtomURI: PredicateAtomURI(key)}
		atomID, err := service.CheckAtomExists(ctx, check.AtomURI)
		if err != nil {
			return nil, err
		}
		if atomID != nil {
			check.Exists = true
			check.AtomID = atomID.String()
		}
		checks.Predicates = append(checks.Predicates, check)
	}

	stored, err := service.repo.ListByDomain(ctx, label)
	if err != nil {
		return nil, err
	}
	checks.Stored = stored
	return checks, nil
}

// markSynced records chain truth for a row, creating it if needed.
func (service *Service) markSynced(ctx context.Context, label, recordKey, recordValue, uri, atomID, txHash string) error {
	stored, err := service.repo.Get(ctx, label, recordKey)
	if err != nil {
		if !errors.Is(err, dberr.ErrNotFound) {
			return err
		}
		stored = &Status{DomainLabel: label, RecordKey: recordKey}
	}

	stored.RecordValue = recordValue
	stored.AtomURI = uri
	stored.AtomID = atomID
	stored.State = StateSynced
	stored.AtomsCreated = true
	stored.LastError = ""
	if txHash != "" {
		stored.TxHash = txHash
	}
	return service.repo.Upsert(ctx, stored)
}

// upsertState writes a row in the given state without touching chain
// bookkeeping fields of an existing row beyond the state itself.
func (service *Service) upsertState(ctx context.Context, label, recordKey, recordValue, uri, state string) error {
	stored, err := service.repo.Get(ctx, label, recordKey)
	if err != nil {
		if !errors.Is(err, dberr.ErrNotFound) {
			return err
		}
		stored = &Status{DomainLabel: label, RecordKey: recordKey}
	}
	if stored.State == StateSynced {
		return nil
	}

	stored.RecordValue = recordValue
	stored.AtomURI = uri
	stored.State = state
	return service.repo.Upsert(ctx, stored)
}

// repairStale marks a ledger row synced when the chain already has the
// atom. Failures are logged and ignored; the live answer was served.
func (service *Service) repairStale(ctx context.Context, label, uri, atomID string) {
	stored, err := service.repo.Get(ctx, label, "")
	if err == nil && stored.State == StateSynced && stored.AtomID == atomID {
		return
	}
	if err != nil && !errors.Is(err, dberr.ErrNotFound) {
		return
	}
	if err := service.markSynced(ctx, label, "", "", uri, atomID, ""); err != nil {
		service.logger.Warn("sync_repair_failed", "label", label, "error", err)
		return
	}
	service.logger.Info("sync_status_repaired", "label", label, "atom_id", atomID)
}
