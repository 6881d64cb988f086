// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package registration

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"regexp"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tnslabs/trustns/internal/chain"
	"github.com/tnslabs/trustns/internal/core/domains"
	"github.com/tnslabs/trustns/internal/ens"
	"github.com/tnslabs/trustns/internal/platform/apperr"
	"github.com/tnslabs/trustns/internal/platform/dberr"
	"github.com/tnslabs/trustns/internal/platform/validate"
	"github.com/tnslabs/trustns/pkg/name"
	"github.com/tnslabs/trustns/pkg/wei"
)

// ControllerClient is the slice of the registrar controller the state
// machine drives.
type ControllerClient interface {
	Available(context context.Context, label string) (bool, error)
	RentPrice(context context.Context, label string, durationSeconds *big.Int) (*big.Int, error)
	CommitmentTimestamp(context context.Context, commitment common.Hash) (*big.Int, error)
	MinCommitmentAge(context context.Context) (*big.Int, error)
	MaxCommitmentAge(context context.Context) (*big.Int, error)
	BuildCommitTx(commitment common.Hash) (chain.TxRequest, error)
	BuildRegisterTx(label string, owner common.Address, durationSeconds *big.Int, secret [32]byte, resolver common.Address, data [][]byte, reverseRecord bool, fuses uint16, costWei *big.Int) (chain.TxRequest, error)
	BuildRenewTx(label string, durationSeconds *big.Int, costWei *big.Int) (chain.TxRequest, error)
}

// RegistrarClient covers the registrar reads needed around expiry.
type RegistrarClient interface {
	OwnerOf(context context.Context, tokenID *big.Int) (common.Address, error)
	NameExpires(context context.Context, tokenID *big.Int) (*big.Int, error)
	GracePeriod(context context.Context) (*big.Int, error)
	BuildBurnExpiredTx(label string) (chain.TxRequest, error)
}

type Service struct {
	repo       Repository
	domainRepo domains.Repository
	controller ControllerClient
	registrar  RegistrarClient
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(repo Repository, domainRepo domains.Repository, controller ControllerClient, registrar RegistrarClient, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		domainRepo: domainRepo,
		controller: controller,
		registrar:  registrar,
		logger:     logger,
		now:        time.Now,
	}
}

// legacyMinRevealAge is the fixed delay of the deprecated off-chain reveal
// path. The on-chain path reads MIN_COMMITMENT_AGE from the contract
// instead.
const legacyMinRevealAge = 60 * time.Second

var (
	secretPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)
	txHashPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)
)

// Params carries the full commit-reveal parameter tuple. The same values
// must be presented at commit and at register or the hashes will not match.
type Params struct {
	Name          string `json:"name"`
	Owner         string `json:"owner"`
	Duration      int64  `json:"duration"`
	Secret        string `json:"secret"`
	Resolver      string `json:"resolver,omitempty"`
	ReverseRecord bool   `json:"reverse_record"`
	Fuses         uint16 `json:"fuses"`
}

type parsedParams struct {
	label    string
	owner    common.Address
	duration *big.Int
	secret   [32]byte
	resolver common.Address
}

func (service *Service) parseParams(p Params) (*parsedParams, error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, p.Name)
	validator.Required(FieldOwner, p.Owner)
	validator.Required(FieldSecret, p.Secret)
	validator.Custom(FieldOwner, p.Owner != "" && !common.IsHexAddress(p.Owner), "must be a hex Ethereum address")
	validator.Custom(FieldSecret, p.Secret != "" && !secretPattern.MatchString(p.Secret), "must be a 0x-prefixed 32-byte hex string")
	validator.Custom(FieldDuration, p.Duration <= 0, "must be a positive number of seconds")
	validator.Custom(FieldResolver, p.Resolver != "" && !common.IsHexAddress(p.Resolver), "must be a hex Ethereum address")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	label, err := name.Normalize(p.Name)
	if err != nil {
		return nil, apperr.ValidationError(err.Error())
	}

	parsed := &parsedParams{
		label:    label,
		owner:    common.HexToAddress(p.Owner),
		duration: big.NewInt(p.Duration),
	}
	copy(parsed.secret[:], common.FromHex(p.Secret))
	if p.Resolver != "" {
		parsed.resolver = common.HexToAddress(p.Resolver)
	}
	return parsed, nil
}

func (service *Service) commitmentHash(parsed *parsedParams, p Params) (common.Hash, error) {
	return ens.Commitment{
		Label:         parsed.label,
		Owner:         parsed.owner,
		Duration:      parsed.duration,
		Secret:        parsed.secret,
		Resolver:      parsed.resolver,
		ReverseRecord: p.ReverseRecord,
		Fuses:         p.Fuses,
	}.Hash()
}

// CommitResult hands the prepared commit transaction back to the client.
type CommitResult struct {
	Commitment  string       `json:"commitment"`
	CommitID    string       `json:"commit_id"`
	Transaction chain.TxWire `json:"transaction"`
	RevealAfter time.Time    `json:"reveal_after"`
}

// Commit validates the tuple, checks availability, records the commitment
// mirror row and returns the prepared commit transaction.
func (service *Service) Commit(context context.Context, p Params) (*CommitResult, error) {
	parsed, err := service.parseParams(p)
	if err != nil {
		return nil, err
	}

	available, err := service.controller.Available(context, parsed.label)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, chain.DomainUnavailable(parsed.label)
	}

	hash, err := service.commitmentHash(parsed, p)
	if err != nil {
		return nil, err
	}

	if existing, err := service.repo.GetByHash(context, hash.Hex()); err == nil && existing != nil {
		return nil, apperr.Conflict("Commitment already exists")
	} else if err != nil && !errors.Is(err, dberr.ErrNotFound) {
		return nil, err
	}

	commitment := &Commitment{
		CommitmentHash:  hash.Hex(),
		Label:           parsed.label,
		Owner:           parsed.owner.Hex(),
		DurationSeconds: p.Duration,
		SecretDigest:    digestSecret(parsed.label, parsed.owner.Hex(), p.Duration, p.Secret),
		Resolver:        p.Resolver,
	}
	if err := service.repo.Create(context, commitment); err != nil {
		return nil, err
	}

	tx, err := service.controller.BuildCommitTx(hash)
	if err != nil {
		return nil, err
	}

	service.logger.Info("commitment_recorded",
		slog.String("label", parsed.label), slog.String("commitment", hash.Hex()))

	return &CommitResult{
		Commitment:  hash.Hex(),
		CommitID:    commitment.ID,
		Transaction: tx.Wire(),
		RevealAfter: commitment.CreatedAt.Add(legacyMinRevealAge),
	}, nil
}

// RegisterResult is the prepared register transaction plus its exact cost.
type RegisterResult struct {
	Commitment  string       `json:"commitment"`
	CostWei     string       `json:"cost_wei"`
	Transaction chain.TxWire `json:"transaction"`
}

// Register pre-verifies the on-chain commitment and its age window before
// preparing the register transaction, so a doomed reveal is rejected
// locally instead of burning gas.
func (service *Service) Register(context context.Context, p Params) (*RegisterResult, error) {
	parsed, err := service.parseParams(p)
	if err != nil {
		return nil, err
	}

	available, err := service.controller.Available(context, parsed.label)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, chain.DomainUnavailable(parsed.label)
	}

	hash, err := service.commitmentHash(parsed, p)
	if err != nil {
		return nil, err
	}

	if err := service.verifyCommitmentAge(context, hash); err != nil {
		return nil, err
	}

	cost, err := service.controller.RentPrice(context, parsed.label, parsed.duration)
	if err != nil {
		return nil, err
	}
	service.checkPublishedPrice(parsed.label, parsed.duration, cost)

	tx, err := service.controller.BuildRegisterTx(
		parsed.label, parsed.owner, parsed.duration, parsed.secret,
		parsed.resolver, [][]byte{}, p.ReverseRecord, p.Fuses, cost,
	)
	if err != nil {
		return nil, err
	}

	return &RegisterResult{
		Commitment:  hash.Hex(),
		CostWei:     cost.String(),
		Transaction: tx.Wire(),
	}, nil
}

// checkPublishedPrice compares the oracle quote against the published
// length-tier table. A deviation is logged, never enforced: the oracle is
// the source of truth for the payable value.
func (service *Service) checkPublishedPrice(label string, durationSeconds *big.Int, quoted *big.Int) {
	perYear, err := wei.FromDecimal(strconv.Itoa(domains.PricePerYear(label)))
	if err != nil {
		return
	}
	published := wei.MulYears(perYear, durationSeconds.Int64())
	if published.Cmp(quoted) != 0 {
		service.logger.Warn("rent_price_off_published_tier",
			slog.String("label", label),
			slog.String("quoted_wei", quoted.String()),
			slog.String("published_wei", published.String()))
	}
}

// verifyCommitmentAge checks the on-chain commitment exists and its age is
// inside [MIN_COMMITMENT_AGE, MAX_COMMITMENT_AGE]. The lower bound is
// inclusive.
func (service *Service) verifyCommitmentAge(context context.Context, hash common.Hash) error {
	timestamp, err := service.controller.CommitmentTimestamp(context, hash)
	if err != nil {
		return err
	}
	if timestamp.Sign() == 0 {
		return chain.CommitmentNotFound(hash.Hex())
	}

	minAge, err := service.controller.MinCommitmentAge(context)
	if err != nil {
		return err
	}
	maxAge, err := service.controller.MaxCommitmentAge(context)
	if err != nil {
		return err
	}

	age := service.now().Unix() - timestamp.Int64()
	if age < minAge.Int64() {
		return chain.CommitmentTooNew(minAge.Int64() - age)
	}
	if age > maxAge.Int64() {
		return chain.CommitmentTooOld(hash.Hex())
	}
	return nil
}

// ConfirmParams mirrors an already-confirmed on-chain registration.
type ConfirmParams struct {
	Name     string `json:"name"`
	Owner    string `json:"owner"`
	Duration int64  `json:"duration"`
	TxHash   string `json:"tx_hash"`
}

// Confirm records a registration the client reports as mined. Chain state
// is consulted for the authoritative owner and expiry; the reported values
// only gate the upsert.
func (service *Service) Confirm(context context.Context, p ConfirmParams) (*domains.Domain, error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, p.Name)
	validator.Required(FieldOwner, p.Owner)
	validator.Required(FieldTxHash, p.TxHash)
	validator.Custom(FieldOwner, p.Owner != "" && !common.IsHexAddress(p.Owner), "must be a hex Ethereum address")
	validator.Custom(FieldTxHash, p.TxHash != "" && !txHashPattern.MatchString(p.TxHash), "must be a 0x-prefixed 32-byte hex string")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	label, err := name.Normalize(p.Name)
	if err != nil {
		return nil, apperr.ValidationError(err.Error())
	}

	tokenID := ens.TokenID(label)
	owner, err := service.registrar.OwnerOf(context, tokenID)
	if err != nil {
		if chain.IsAtomLookupMiss(err) {
			return nil, apperr.Unprocessable("Registration not visible on chain yet")
		}
		return nil, err
	}
	if owner != common.HexToAddress(p.Owner) {
		return nil, apperr.Forbidden("Reported owner does not match chain state")
	}

	expires, err := service.registrar.NameExpires(context, tokenID)
	if err != nil {
		return nil, err
	}

	domain := &domains.Domain{
		Label:     label,
		FullName:  name.Full(label),
		TokenID:   tokenID.String(),
		Owner:     owner.Hex(),
		ExpiresAt: time.Unix(expires.Int64(), 0).UTC(),
	}
	if err := service.domainRepo.Upsert(context, domain); err != nil {
		return nil, err
	}

	service.logger.Info("registration_mirrored",
		slog.String("label", label), slog.String("owner", owner.Hex()),
		slog.String("tx_hash", p.TxHash))

	return domain, nil
}

// RenewResult is the prepared renew transaction with its live price.
type RenewResult struct {
	CostWei     string       `json:"cost_wei"`
	Transaction chain.TxWire `json:"transaction"`
}

// Renew prepares a renewal at the live rentPrice. Client-cached figures are
// never trusted for the payable value.
func (service *Service) Renew(context context.Context, rawName string, durationSeconds int64) (*RenewResult, error) {
	if durationSeconds <= 0 {
		return nil, apperr.ValidationError("duration must be a positive number of seconds")
	}
	label, err := name.Normalize(rawName)
	if err != nil {
		return nil, apperr.ValidationError(err.Error())
	}

	duration := big.NewInt(durationSeconds)
	cost, err := service.controller.RentPrice(context, label, duration)
	if err != nil {
		return nil, err
	}
	service.checkPublishedPrice(label, duration, cost)

	tx, err := service.controller.BuildRenewTx(label, duration, cost)
	if err != nil {
		return nil, err
	}

	return &RenewResult{CostWei: cost.String(), Transaction: tx.Wire()}, nil
}

// BurnResult is the prepared burn transaction for an expired name.
type BurnResult struct {
	Transaction chain.TxWire `json:"transaction"`
}

// BurnExpired prepares the burn of a name past expiry plus the grace
// period. Early attempts fail locally with DomainNotExpired.
func (service *Service) BurnExpired(context context.Context, rawName string) (*BurnResult, error) {
	label, err := name.Normalize(rawName)
	if err != nil {
		return nil, apperr.ValidationError(err.Error())
	}

	tokenID := ens.TokenID(label)
	expires, err := service.registrar.NameExpires(context, tokenID)
	if err != nil {
		return nil, err
	}
	if expires.Sign() == 0 {
		return nil, apperr.NotFound("Domain")
	}

	grace, err := service.registrar.GracePeriod(context)
	if err != nil {
		return nil, err
	}

	burnableAt := expires.Int64() + grace.Int64()
	if service.now().Unix() < burnableAt {
		return nil, chain.DomainNotExpired(name.Full(label), burnableAt)
	}

	tx, err := service.registrar.BuildBurnExpiredTx(label)
	if err != nil {
		return nil, err
	}
	return &BurnResult{Transaction: tx.Wire()}, nil
}

// LegacyRevealParams is the request body of the deprecated off-chain reveal.
type LegacyRevealParams struct {
	Commitment string `json:"commitment"`
	Name       string `json:"name"`
	Owner      string `json:"owner"`
	Duration   int64  `json:"duration"`
	Secret     string `json:"secret"`
	TxHash     string `json:"tx_hash,omitempty"`
}

// LegacyReveal completes the deprecated off-chain commit-reveal: the stored
// commitment must match sha256(name+owner+duration+secret) and be at least
// sixty seconds old.
//
// Deprecated: the on-chain commit-reveal path supersedes this. Kept for
// clients that still drive the old flow.
func (service *Service) LegacyReveal(context context.Context, p LegacyRevealParams) (*domains.Domain, error) {
	commitment, err := service.repo.GetByHash(context, p.Commitment)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.ValidationError("Commitment not found")
		}
		return nil, err
	}
	if commitment.Revealed() {
		return nil, apperr.Conflict("Commitment already revealed")
	}

	revealableAt := commitment.CreatedAt.Add(legacyMinRevealAge)
	if service.now().Before(revealableAt) {
		return nil, apperr.ValidationError(
			fmt.Sprintf("Must wait until %s before revealing", revealableAt.UTC().Format(time.RFC3339)))
	}

	label, err := name.Normalize(p.Name)
	if err != nil {
		return nil, apperr.ValidationError(err.Error())
	}
	ownerHex := common.HexToAddress(p.Owner).Hex()
	if digestSecret(label, ownerHex, p.Duration, p.Secret) != commitment.SecretDigest {
		return nil, apperr.ValidationError("Invalid commitment data")
	}

	available, err := service.controller.Available(context, label)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, chain.DomainUnavailable(label)
	}

	expiresAt := service.now().Add(time.Duration(p.Duration) * time.Second).UTC()
	domain := &domains.Domain{
		Label:     label,
		FullName:  name.Full(label),
		TokenID:   ens.TokenID(label).String(),
		Owner:     ownerHex,
		ExpiresAt: expiresAt,
	}
	if err := service.domainRepo.Upsert(context, domain); err != nil {
		return nil, err
	}
	if err := service.repo.MarkRevealed(context, p.Commitment); err != nil {
		return nil, err
	}

	service.logger.Info("legacy_reveal_completed", slog.String("label", label))
	return domain, nil
}

// digestSecret is the legacy reveal digest: sha256 over the concatenated
// tuple, hex encoded.
func digestSecret(label, owner string, duration int64, secret string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s%s%d%s", label, owner, duration, secret)))
	return hex.EncodeToString(sum[:])
}
