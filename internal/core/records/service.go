// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package records

import (
	"context"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tnslabs/trustns/internal/chain"
	"github.com/tnslabs/trustns/internal/ens"
	"github.com/tnslabs/trustns/internal/platform/apperr"
	"github.com/tnslabs/trustns/internal/platform/validate"
	"github.com/tnslabs/trustns/pkg/name"
)

// ResolverClient is the resolver binding surface the record manager uses.
type ResolverClient interface {
	Addr(context context.Context, node common.Hash) (common.Address, error)
	Text(context context.Context, node common.Hash, key string) (string, error)
	Contenthash(context context.Context, node common.Hash) ([]byte, error)
	Name(context context.Context, node common.Hash) (string, error)
	GetResolverData(context context.Context, label string) (*chain.ResolverData, error)
	BuildSetAddrTx(node common.Hash, address common.Address) (chain.TxRequest, error)
	BuildSetTextTx(node common.Hash, key, value string) (chain.TxRequest, error)
	BuildSetContenthashTx(node common.Hash, hash []byte) (chain.TxRequest, error)
	BuildClearRecordsTx(label string) (chain.TxRequest, error)
}

// ReverseClient prepares primary-name writes.
type ReverseClient interface {
	BuildSetNameTx(fullName string) (chain.TxRequest, error)
}

// OwnershipReader resolves the current token owner for write authorization.
type OwnershipReader interface {
	OwnerOf(context context.Context, tokenID *big.Int) (common.Address, error)
}

type Service struct {
	repo      Repository
	resolver  ResolverClient
	reverse   ReverseClient
	registrar OwnershipReader
	logger    *slog.Logger
}

func NewService(repo Repository, resolver ResolverClient, reverse ReverseClient, registrar OwnershipReader, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		resolver:  resolver,
		reverse:   reverse,
		registrar: registrar,
		logger:    logger,
	}
}

// RecordSet is the aggregated, sentinel-filtered view of a name's records.
type RecordSet struct {
	Name        string            `json:"name"`
	Address     string            `json:"address,omitempty"`
	ContentHash string            `json:"contenthash,omitempty"`
	Texts       map[string]string `json:"texts"`
}

// GetAll fetches the combined resolver view for a name and filters the
// contract's sentinel values: the zero address, empty or "0x" content
// hashes, and empty text values. The mirror is repaired from the result.
func (service *Service) GetAll(context context.Context, rawName string) (*RecordSet, error) {
	label, err := name.Normalize(rawName)
	if err != nil {
		return nil, apperr.ValidationError(err.Error())
	}

	data, err := service.resolver.GetResolverData(context, label)
	if err != nil {
		if chain.IsAtomLookupMiss(err) {
			return nil, apperr.NotFound("Domain")
		}
		// Chain unreachable; serve the mirror rather than fail the read.
		service.logger.Warn("resolver_read_failed", slog.String("label", label),
			slog.String("error", err.Error()))
		return service.mirrorRecordSet(context, label)
	}

	set := &RecordSet{Name: name.Full(label), Texts: map[string]string{}}
	if data.EthAddress != (common.Address{}) {
		set.Address = data.EthAddress.Hex()
	}
	if hash := contentHashString(data.ContentHash); hash != "" {
		set.ContentHash = hash
	}
	for i, key := range data.TextKeys {
		if i >= len(data.TextValues) {
			break
		}
		value := strings.TrimSpace(data.TextValues[i])
		if key != "" && value != "" {
			set.Texts[key] = value
		}
	}

	service.repairMirror(context, label, set)
	return set, nil
}

func (service *Service) mirrorRecordSet(context context.Context, label string) (*RecordSet, error) {
	mirrored, err := service.repo.ListByDomain(context, label)
	if err != nil {
		return nil, err
	}

	set := &RecordSet{Name: name.Full(label), Texts: map[string]string{}}
	for _, record := range mirrored {
		switch record.Key {
		case KeyAddress:
			set.Address = record.Value
		case KeyContentHash:
			set.ContentHash = record.Value
		default:
			set.Texts[record.Key] = record.Value
		}
	}
	return set, nil
}

// repairMirror overwrites mirror rows with chain truth. Best effort: a
// failed repair only logs.
func (service *Service) repairMirror(context context.Context, label string, set *RecordSet) {
	upsert := func(key, value string) {
		record := &Record{DomainLabel: label, Key: key, Value: value}
		if err := service.repo.Upsert(context, record); err != nil {
			service.logger.Warn("record_mirror_repair_failed",
				slog.String("label", label), slog.String("key", key),
				slog.String("error", err.Error()))
		}
	}

	if set.Address != "" {
		upsert(KeyAddress, set.Address)
	}
	if set.ContentHash != "" {
		upsert(KeyContentHash, set.ContentHash)
	}
	for key, value := range set.Texts {
		upsert(key, value)
	}
}

// PreparedWrite is a validated record mutation ready for the owner's
// wallet.
type PreparedWrite struct {
	Name        string       `json:"name"`
	Kind        string       `json:"kind"`
	Key         string       `json:"key,omitempty"`
	Transaction chain.TxWire `json:"transaction"`
}

// PrepareWrite validates a record mutation and returns the prepared
// transaction. Validation failures never reach the chain. Only the current
// token owner may write.
func (service *Service) PrepareWrite(context context.Context, rawName, caller string, request WriteRequest) (*PreparedWrite, error) {
	label, err := service.authorizeOwner(context, rawName, caller)
	if err != nil {
		return nil, err
	}

	if err := validateWrite(request); err != nil {
		return nil, err
	}

	node := ens.NameHash(name.Full(label))

	var tx chain.TxRequest
	switch request.Kind {
	case KindAddress:
		tx, err = service.resolver.BuildSetAddrTx(node, common.HexToAddress(request.Value))
	case KindContentHash:
		tx, err = service.resolver.BuildSetContenthashTx(node, contentHashBytes(request.Value))
	case KindText:
		tx, err = service.resolver.BuildSetTextTx(node, request.Key, strings.TrimSpace(request.Value))
	}
	if err != nil {
		return nil, err
	}

	return &PreparedWrite{
		Name:        name.Full(label),
		Kind:        request.Kind,
		Key:         request.Key,
		Transaction: tx.Wire(),
	}, nil
}

// ConfirmWrite verifies a reported record write against chain state and
// mirrors it. The reported value only gates the upsert; the stored value is
// what the chain returns.
func (service *Service) ConfirmWrite(context context.Context, rawName string, request WriteRequest) (*Record, error) {
	label, err := name.Normalize(rawName)
	if err != nil {
		return nil, apperr.ValidationError(err.Error())
	}
	if err := validateWrite(request); err != nil {
		return nil, err
	}

	node := ens.NameHash(name.Full(label))

	var key, chainValue string
	switch request.Kind {
	case KindAddress:
		address, err := service.resolver.Addr(context, node)
		if err != nil {
			return nil, err
		}
		key, chainValue = KeyAddress, address.Hex()
		if common.HexToAddress(request.Value) != address {
			return nil, apperr.Unprocessable("Record write not visible on chain yet")
		}
	case KindContentHash:
		hash, err := service.resolver.Contenthash(context, node)
		if err != nil {
			return nil, err
		}
		key, chainValue = KeyContentHash, contentHashString(hash)
		if chainValue == "" {
			return nil, apperr.Unprocessable("Record write not visible on chain yet")
		}
	case KindText:
		value, err := service.resolver.Text(context, node, request.Key)
		if err != nil {
			return nil, err
		}
		key, chainValue = request.Key, value
		if strings.TrimSpace(value) != strings.TrimSpace(request.Value) {
			return nil, apperr.Unprocessable("Record write not visible on chain yet")
		}
	}

	record := &Record{DomainLabel: label, Key: key, Value: chainValue}
	if err := service.repo.Upsert(context, record); err != nil {
		return nil, err
	}

	service.logger.Info("record_mirrored", slog.String("label", label), slog.String("key", key))
	return record, nil
}

// PrepareClear returns the transaction wiping every record for a name. The
// mirror rows stay until [Service.ConfirmClear] sees the wipe on chain; a
// prepared transaction the wallet never broadcasts must not touch the mirror.
func (service *Service) PrepareClear(context context.Context, rawName, caller string) (*PreparedWrite, error) {
	label, err := service.authorizeOwner(context, rawName, caller)
	if err != nil {
		return nil, err
	}

	tx, err := service.resolver.BuildClearRecordsTx(label)
	if err != nil {
		return nil, err
	}

	return &PreparedWrite{Name: name.Full(label), Kind: "clear", Transaction: tx.Wire()}, nil
}

// ConfirmClear verifies the resolver no longer serves records for the name
// and drops the mirror rows.
func (service *Service) ConfirmClear(context context.Context, rawName string) error {
	label, err := name.Normalize(rawName)
	if err != nil {
		return apperr.ValidationError(err.Error())
	}

	data, err := service.resolver.GetResolverData(context, label)
	if err != nil {
		if chain.IsAtomLookupMiss(err) {
			return apperr.NotFound("Domain")
		}
		return err
	}
	if data.EthAddress != (common.Address{}) || contentHashString(data.ContentHash) != "" || hasLiveText(data) {
		return apperr.Unprocessable("Records still visible on chain")
	}

	if err := service.repo.DeleteAll(context, label); err != nil {
		return err
	}
	service.logger.Info("record_mirror_cleared", slog.String("label", label))
	return nil
}

func hasLiveText(data *chain.ResolverData) bool {
	for _, value := range data.TextValues {
		if strings.TrimSpace(value) != "" {
			return true
		}
	}
	return false
}

// PreparePrimary returns the reverse-registrar setName transaction making a
// name the caller's primary name.
func (service *Service) PreparePrimary(context context.Context, rawName, caller string) (*PreparedWrite, error) {
	label, err := service.authorizeOwner(context, rawName, caller)
	if err != nil {
		return nil, err
	}

	tx, err := service.reverse.BuildSetNameTx(name.Full(label))
	if err != nil {
		return nil, err
	}

	return &PreparedWrite{Name: name.Full(label), Kind: "primary", Transaction: tx.Wire()}, nil
}

// Primary resolves an address's primary name through the reverse node.
func (service *Service) Primary(context context.Context, address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", apperr.ValidationError("invalid Ethereum address")
	}

	node := ens.ReverseNode(common.HexToAddress(address))
	primary, err := service.resolver.Name(context, node)
	if err != nil {
		if chain.IsAtomLookupMiss(err) {
			return "", apperr.NotFound("Primary name")
		}
		return "", err
	}
	if primary == "" {
		return "", apperr.NotFound("Primary name")
	}
	return primary, nil
}

func (service *Service) authorizeOwner(context context.Context, rawName, caller string) (string, error) {
	label, err := name.Normalize(rawName)
	if err != nil {
		return "", apperr.ValidationError(err.Error())
	}
	if !common.IsHexAddress(caller) {
		return "", apperr.Unauthorized("Authenticated wallet address is invalid")
	}

	owner, err := service.registrar.OwnerOf(context, ens.TokenID(label))
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

var contentHashPrefixes = []string{"0x", "ipfs://", "ipns://"}

func validateWrite(request WriteRequest) error {
	validator := &validate.Validator{}
	validator.Required(FieldKind, request.Kind)
	validator.OneOf(FieldKind, request.Kind, KindAddress, KindText, KindContentHash)

	switch request.Kind {
	case KindAddress:
		validator.Custom(FieldValue, !common.IsHexAddress(request.Value), "must be a 20-byte hex address")
	case KindContentHash:
		validator.Custom(FieldValue, !hasContentHashPrefix(request.Value), "must start with 0x, ipfs:// or ipns://")
	case KindText:
		validator.Required(FieldKey, request.Key)
		validator.MaxLen(FieldKey, request.Key, 100)
		validator.Custom(FieldValue, strings.TrimSpace(request.Value) == "", "must not be empty")
		validator.MaxLen(FieldValue, request.Value, 2000)
	}

	return validator.Err()
}

func hasContentHashPrefix(value string) bool {
	for _, prefix := range contentHashPrefixes {
		if strings.HasPrefix(value, prefix) && len(value) > len(prefix) {
			return true
		}
	}
	return false
}

// contentHashBytes encodes a validated content hash for the resolver: hex
// input is decoded, URI input is stored as UTF-8 bytes.
func contentHashBytes(value string) []byte {
	if strings.HasPrefix(value, "0x") {
		return common.FromHex(value)
	}
	return []byte(value)
}

// contentHashString renders resolver bytes for clients, filtering the
// empty and "0x" sentinels.
func contentHashString(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	text := string(raw)
	if strings.HasPrefix(text, "ipfs://") || strings.HasPrefix(text, "ipns://") {
		return text
	}
	encoded := "0x" + common.Bytes2Hex(raw)
	if encoded == "0x" {
		return ""
	}
	return encoded
}
