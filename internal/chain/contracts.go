// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// # Contract Bindings
//
// One typed struct per deployed contract role. Reads go through the
// gateway; writes are returned as [TxRequest] values for the caller's
// wallet to sign. All ABI fragments live here, next to the revert mapping
// they produce.

// Fixed gas ceilings for prepared transactions. Generous on purpose: the
// register path mints an NFT and underestimation is the common failure.
const (
	GasLimitCommit      = 100_000
	GasLimitRegister    = 500_000
	GasLimitRenew       = 200_000
	GasLimitBurnExpired = 200_000
	GasLimitSetRecord   = 200_000
	GasLimitSetName     = 150_000
	GasLimitCreateAtoms = 800_000
	GasLimitTriple      = 500_000
)

type boundContract struct {
	address common.Address
	abi     abi.ABI
	gateway *Gateway
}

// call packs a method, executes it read-only, and unpacks the results.
func (c *boundContract) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("chain: pack %s: %w", method, err)
	}
	output, err := c.gateway.Call(ctx, c.address, data)
	if err != nil {
		return nil, err
	}
	results, err := c.abi.Unpack(method, output)
	if err != nil {
		return nil, fmt.Errorf("chain: unpack %s: %w", method, err)
	}
	return results, nil
}

// buildTx packs a method invocation into a signable [TxRequest].
func (c *boundContract) buildTx(method string, valueWei *big.Int, gasLimit uint64, args ...interface{}) (TxRequest, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return TxRequest{}, fmt.Errorf("chain: pack %s: %w", method, err)
	}
	return TxRequest{To: c.address, Data: data, Value: valueWei, GasLimit: gasLimit}, nil
}

func mustABI(definition string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		panic(fmt.Sprintf("chain: invalid ABI: %v", err))
	}
	return parsed
}

// # Registry

var registryABI = mustABI(`[
{"type":"function","name":"owner","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"type":"address"}]},
{"type":"function","name":"resolver","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"type":"address"}]},
{"type":"function","name":"ttl","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"type":"uint64"}]},
{"type":"function","name":"recordExists","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"type":"bool"}]}
]`)

// Registry answers node-level ownership and resolver questions.
type Registry struct{ contract boundContract }

func NewRegistry(address common.Address, gateway *Gateway) *Registry {
	return &Registry{contract: boundContract{address: address, abi: registryABI, gateway: gateway}}
}

func (r *Registry) Owner(ctx context.Context, node common.Hash) (common.Address, error) {
	results, err := r.contract.call(ctx, "owner", node)
	if err != nil {
		return common.Address{}, err
	}
	return results[0].(common.Address), nil
}

func (r *Registry) Resolver(ctx context.Context, node common.Hash) (common.Address, error) {
	results, err := r.contract.call(ctx, "resolver", node)
	if err != nil {
		return common.Address{}, err
	}
	return results[0].(common.Address), nil
}

func (r *Registry) RecordExists(ctx context.Context, node common.Hash) (bool, error) {
	results, err := r.contract.call(ctx, "recordExists", node)
	if err != nil {
		return false, err
	}
	return results[0].(bool), nil
}

// # Base Registrar (ERC-721 ownership + expiry)

var baseRegistrarABI = mustABI(`[
{"type":"function","name":"ownerOf","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"type":"address"}]},
{"type":"function","name":"nameExpires","stateMutability":"view","inputs":[{"name":"id","type":"uint256"}],"outputs":[{"type":"uint256"}]},
{"type":"function","name":"available","stateMutability":"view","inputs":[{"name":"id","type":"uint256"}],"outputs":[{"type":"bool"}]},
{"type":"function","name":"GRACE_PERIOD","stateMutability":"view","inputs":[],"outputs":[{"type":"uint256"}]},
{"type":"function","name":"baseNode","stateMutability":"view","inputs":[],"outputs":[{"type":"bytes32"}]},
{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"type":"uint256"}]},
{"type":"function","name":"tokenOfOwnerByIndex","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"index","type":"uint256"}],"outputs":[{"type":"uint256"}]},
{"type":"function","name":"burnExpiredDomain","stateMutability":"nonpayable","inputs":[{"name":"name","type":"string"}],"outputs":[]}
]`)

// BaseRegistrar exposes token-level ownership and expiry reads.
type BaseRegistrar struct{ contract boundContract }

func NewBaseRegistrar(address common.Address, gateway *Gateway) *BaseRegistrar {
	return &BaseRegistrar{contract: boundContract{address: address, abi: baseRegistrarABI, gateway: gateway}}
}

func (r *BaseRegistrar) OwnerOf(ctx context.Context, tokenID *big.Int) (common.Address, error) {
	results, err := r.contract.call(ctx, "ownerOf", tokenID)
	if err != nil {
		return common.Address{}, err
	}
	return results[0].(common.Address), nil
}

func (r *BaseRegistrar) NameExpires(ctx context.Context, tokenID *big.Int) (*big.Int, error) {
	results, err := r.contract.call(ctx, "nameExpires", tokenID)
	if err != nil {
		return nil, err
	}
	return results[0].(*big.Int), nil
}

func (r *BaseRegistrar) Available(ctx context.Context, tokenID *big.Int) (bool, error) {
	results, err := r.contract.call(ctx, "available", tokenID)
	if err != nil {
		return false, err
	}
	return results[0].(bool), nil
}

func (r *BaseRegistrar) GracePeriod(ctx context.Context) (*big.Int, error) {
	results, err := r.contract.call(ctx, "GRACE_PERIOD")
	if err != nil {
		return nil, err
	}
	return results[0].(*big.Int), nil
}

func (r *BaseRegistrar) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	results, err := r.contract.call(ctx, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	return results[0].(*big.Int), nil
}

func (r *BaseRegistrar) TokenOfOwnerByIndex(ctx context.Context, owner common.Address, index *big.Int) (*big.Int, error) {
	results, err := r.contract.call(ctx, "tokenOfOwnerByIndex", owner, index)
	if err != nil {
		return nil, err
	}
	return results[0].(*big.Int), nil
}

// BuildBurnExpiredTx prepares the burn of a name past expiry plus grace.
// The contract enforces the timing; callers should pre-check to avoid a
// wasted signature prompt.
func (r *BaseRegistrar) BuildBurnExpiredTx(label string) (TxRequest, error) {
	return r.contract.buildTx("burnExpiredDomain", nil, GasLimitBurnExpired, label)
}

// # Registrar Controller (commit-reveal)

var controllerABI = mustABI(`[
{"type":"function","name":"available","stateMutability":"view","inputs":[{"name":"name","type":"string"}],"outputs":[{"type":"bool"}]},
{"type":"function","name":"rentPrice","stateMutability":"view","inputs":[{"name":"name","type":"string"},{"name":"duration","type":"uint256"}],"outputs":[{"type":"uint256"}]},
{"type":"function","name":"commitments","stateMutability":"view","inputs":[{"name":"","type":"bytes32"}],"outputs":[{"type":"uint256"}]},
{"type":"function","name":"MIN_COMMITMENT_AGE","stateMutability":"view","inputs":[],"outputs":[{"type":"uint256"}]},
{"type":"function","name":"MAX_COMMITMENT_AGE","stateMutability":"view","inputs":[],"outputs":[{"type":"uint256"}]},
{"type":"function","name":"MIN_REGISTRATION_DURATION","stateMutability":"view","inputs":[],"outputs":[{"type":"uint256"}]},
{"type":"function","name":"commit","stateMutability":"nonpayable","inputs":[{"name":"commitment","type":"bytes32"}],"outputs":[]},
{"type":"function","name":"register","stateMutability":"payable","inputs":[{"name":"name","type":"string"},{"name":"owner","type":"address"},{"name":"duration","type":"uint256"},{"name":"secret","type":"bytes32"},{"name":"resolver","type":"address"},{"name":"data","type":"bytes[]"},{"name":"reverseRecord","type":"bool"},{"name":"ownerControlledFuses","type":"uint16"}],"outputs":[]},
{"type":"function","name":"renew","stateMutability":"payable","inputs":[{"name":"name","type":"string"},{"name":"duration","type":"uint256"}],"outputs":[]}
]`)

// Controller drives the commit-reveal registration flow.
type Controller struct{ contract boundContract }

func NewController(address common.Address, gateway *Gateway) *Controller {
	return &Controller{contract: boundContract{address: address, abi: controllerABI, gateway: gateway}}
}

func (c *Controller) Available(ctx context.Context, label string) (bool, error) {
	results, err := c.contract.call(ctx, "available", label)
	if err != nil {
		return false, err
	}
	return results[0].(bool), nil
}

func (c *Controller) RentPrice(ctx context.Context, label string, durationSeconds *big.Int) (*big.Int, error) {
	results, err := c.contract.call(ctx, "rentPrice", label, durationSeconds)
	if err != nil {
		return nil, err
	}
	return results[0].(*big.Int), nil
}

// CommitmentTimestamp returns the on-chain commit timestamp for a
// commitment hash, zero when no commitment exists.
func (c *Controller) CommitmentTimestamp(ctx context.Context, commitment common.Hash) (*big.Int, error) {
	results, err := c.contract.call(ctx, "commitments", commitment)
	if err != nil {
		return nil, err
	}
	return results[0].(*big.Int), nil
}

func (c *Controller) MinCommitmentAge(ctx context.Context) (*big.Int, error) {
	results, err := c.contract.call(ctx, "MIN_COMMITMENT_AGE")
	if err != nil {
		return nil, err
	}
	return results[0].(*big.Int), nil
}

func (c *Controller) MaxCommitmentAge(ctx context.Context) (*big.Int, error) {
	results, err := c.contract.call(ctx, "MAX_COMMITMENT_AGE")
	if err != nil {
		return nil, err
	}
	return results[0].(*big.Int), nil
}

// BuildCommitTx prepares the commit(bytes32) transaction.
func (c *Controller) BuildCommitTx(commitment common.Hash) (TxRequest, error) {
	return c.contract.buildTx("commit", nil, GasLimitCommit, commitment)
}

// BuildRegisterTx prepares the full 8-parameter register call. The value
// must be the exact rent price in wei.
func (c *Controller) BuildRegisterTx(label string, owner common.Address, durationSeconds *big.Int, secret [32]byte, resolver common.Address, data [][]byte, reverseRecord bool, fuses uint16, costWei *big.Int) (TxRequest, error) {
	if data == nil {
		data = [][]byte{}
	}
	return c.contract.buildTx("register", costWei, GasLimitRegister,
		label, owner, durationSeconds, secret, resolver, data, reverseRecord, fuses)
}

// BuildRenewTx prepares the payable renew call.
func (c *Controller) BuildRenewTx(label string, durationSeconds *big.Int, costWei *big.Int) (TxRequest, error) {
	return c.contract.buildTx("renew", costWei, GasLimitRenew, label, durationSeconds)
}

// # Resolver

var resolverABI = mustABI(`[
{"type":"function","name":"addr","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"type":"address"}]},
{"type":"function","name":"text","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"},{"name":"key","type":"string"}],"outputs":[{"type":"string"}]},
{"type":"function","name":"contenthash","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"type":"bytes"}]},
{"type":"function","name":"name","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"type":"string"}]},
{"type":"function","name":"setAddr","stateMutability":"nonpayable","inputs":[{"name":"node","type":"bytes32"},{"name":"addr","type":"address"}],"outputs":[]},
{"type":"function","name":"setText","stateMutability":"nonpayable","inputs":[{"name":"node","type":"bytes32"},{"name":"key","type":"string"},{"name":"value","type":"string"}],"outputs":[]},
{"type":"function","name":"setContenthash","stateMutability":"nonpayable","inputs":[{"name":"node","type":"bytes32"},{"name":"hash","type":"bytes"}],"outputs":[]},
{"type":"function","name":"getResolverData","stateMutability":"view","inputs":[{"name":"name","type":"string"}],"outputs":[{"type":"address"},{"type":"bytes"},{"type":"string[]"},{"type":"string[]"}]},
{"type":"function","name":"clearRecords","stateMutability":"nonpayable","inputs":[{"name":"name","type":"string"}],"outputs":[]}
]`)

// Resolver reads and prepares writes for node-addressed records.
type Resolver struct{ contract boundContract }

func NewResolver(address common.Address, gateway *Gateway) *Resolver {
	return &Resolver{contract: boundContract{address: address, abi: resolverABI, gateway: gateway}}
}

func (r *Resolver) Addr(ctx context.Context, node common.Hash) (common.Address, error) {
	results, err := r.contract.call(ctx, "addr", node)
	if err != nil {
		return common.Address{}, err
	}
	return results[0].(common.Address), nil
}

func (r *Resolver) Text(ctx context.Context, node common.Hash, key string) (string, error) {
	results, err := r.contract.call(ctx, "text", node, key)
	if err != nil {
		return "", err
	}
	return results[0].(string), nil
}

func (r *Resolver) Contenthash(ctx context.Context, node common.Hash) ([]byte, error) {
	results, err := r.contract.call(ctx, "contenthash", node)
	if err != nil {
		return nil, err
	}
	return results[0].([]byte), nil
}

func (r *Resolver) Name(ctx context.Context, node common.Hash) (string, error) {
	results, err := r.contract.call(ctx, "name", node)
	if err != nil {
		return "", err
	}
	return results[0].(string), nil
}

// ResolverData is the combined record view returned by the contract's
// aggregate getter. Sentinel values (zero address, empty or "0x" content
// hash, empty text values) are preserved here; consumers filter them.
type ResolverData struct {
	EthAddress  common.Address
	ContentHash []byte
	TextKeys    []string
	TextValues  []string
}

// GetResolverData fetches the aggregate record view for a label.
func (r *Resolver) GetResolverData(ctx context.Context, label string) (*ResolverData, error) {
	results, err := r.contract.call(ctx, "getResolverData", label)
	if err != nil {
		return nil, err
	}
	return &ResolverData{
		EthAddress:  results[0].(common.Address),
		ContentHash: results[1].([]byte),
		TextKeys:    results[2].([]string),
		TextValues:  results[3].([]string),
	}, nil
}

func (r *Resolver) BuildSetAddrTx(node common.Hash, address common.Address) (TxRequest, error) {
	return r.contract.buildTx("setAddr", nil, GasLimitSetRecord, node, address)
}

func (r *Resolver) BuildSetTextTx(node common.Hash, key, value string) (TxRequest, error) {
	return r.contract.buildTx("setText", nil, GasLimitSetRecord, node, key, value)
}

func (r *Resolver) BuildSetContenthashTx(node common.Hash, hash []byte) (TxRequest, error) {
	return r.contract.buildTx("setContenthash", nil, GasLimitSetRecord, node, hash)
}

func (r *Resolver) BuildClearRecordsTx(label string) (TxRequest, error) {
	return r.contract.buildTx("clearRecords", nil, GasLimitSetRecord, label)
}

// # Reverse Registrar

var reverseRegistrarABI = mustABI(`[
{"type":"function","name":"node","stateMutability":"pure","inputs":[{"name":"addr","type":"address"}],"outputs":[{"type":"bytes32"}]},
{"type":"function","name":"defaultResolver","stateMutability":"view","inputs":[],"outputs":[{"type":"address"}]},
{"type":"function","name":"setName","stateMutability":"nonpayable","inputs":[{"name":"name","type":"string"}],"outputs":[{"type":"bytes32"}]}
]`)

// ReverseRegistrar manages primary-name (address -> name) records.
type ReverseRegistrar struct{ contract boundContract }

func NewReverseRegistrar(address common.Address, gateway *Gateway) *ReverseRegistrar {
	return &ReverseRegistrar{contract: boundContract{address: address, abi: reverseRegistrarABI, gateway: gateway}}
}

func (r *ReverseRegistrar) Node(ctx context.Context, address common.Address) (common.Hash, error) {
	results, err := r.contract.call(ctx, "node", address)
	if err != nil {
		return common.Hash{}, err
	}
	return common.Hash(results[0].([32]byte)), nil
}

func (r *ReverseRegistrar) DefaultResolver(ctx context.Context) (common.Address, error) {
	results, err := r.contract.call(ctx, "defaultResolver")
	if err != nil {
		return common.Address{}, err
	}
	return results[0].(common.Address), nil
}

func (r *ReverseRegistrar) BuildSetNameTx(fullName string) (TxRequest, error) {
	return r.contract.buildTx("setName", nil, GasLimitSetName, fullName)
}

// # Price Oracle

var priceOracleABI = mustABI(`[
{"type":"function","name":"price","stateMutability":"view","inputs":[{"name":"name","type":"string"},{"name":"duration","type":"uint256"}],"outputs":[{"type":"uint256"}]},
{"type":"function","name":"price3Char","stateMutability":"view","inputs":[],"outputs":[{"type":"uint256"}]},
{"type":"function","name":"price4Char","stateMutability":"view","inputs":[],"outputs":[{"type":"uint256"}]},
{"type":"function","name":"price5PlusChar","stateMutability":"view","inputs":[],"outputs":[{"type":"uint256"}]}
]`)

// PriceOracle reads the tiered per-length pricing.
type PriceOracle struct{ contract boundContract }

func NewPriceOracle(address common.Address, gateway *Gateway) *PriceOracle {
	return &PriceOracle{contract: boundContract{address: address, abi: priceOracleABI, gateway: gateway}}
}

func (o *PriceOracle) Price(ctx context.Context, label string, durationSeconds *big.Int) (*big.Int, error) {
	results, err := o.contract.call(ctx, "price", label, durationSeconds)
	if err != nil {
		return nil, err
	}
	return results[0].(*big.Int), nil
}

// # Payment Forwarder

var paymentForwarderABI = mustABI(`[
{"type":"function","name":"resolveAddress","stateMutability":"view","inputs":[{"name":"name","type":"string"}],"outputs":[{"type":"address"}]},
{"type":"function","name":"sendPayment","stateMutability":"payable","inputs":[{"name":"name","type":"string"}],"outputs":[]}
]`)

// PaymentForwarder resolves a name to its payment address and forwards
// value to it.
type PaymentForwarder struct{ contract boundContract }

func NewPaymentForwarder(address common.Address, gateway *Gateway) *PaymentForwarder {
	return &PaymentForwarder{contract: boundContract{address: address, abi: paymentForwarderABI, gateway: gateway}}
}

func (f *PaymentForwarder) ResolveAddress(ctx context.Context, label string) (common.Address, error) {
	results, err := f.contract.call(ctx, "resolveAddress", label)
	if err != nil {
		return common.Address{}, err
	}
	return results[0].(common.Address), nil
}

func (f *PaymentForwarder) BuildSendPaymentTx(label string, amountWei *big.Int) (TxRequest, error) {
	return f.contract.buildTx("sendPayment", amountWei, GasLimitSetRecord, label)
}

// # Knowledge-Graph MultiVault

var multiVaultABI = mustABI(`[
{"type":"function","name":"createAtoms","stateMutability":"payable","inputs":[{"name":"atomUris","type":"bytes[]"},{"name":"curveIds","type":"uint256[]"}],"outputs":[{"type":"uint256[]"}]},
{"type":"function","name":"createTriple","stateMutability":"payable","inputs":[{"name":"subjectId","type":"uint256"},{"name":"predicateId","type":"uint256"},{"name":"objectId","type":"uint256"}],"outputs":[{"type":"uint256"}]},
{"type":"function","name":"atomsByHash","stateMutability":"view","inputs":[{"name":"","type":"bytes32"}],"outputs":[{"type":"uint256"}]},
{"type":"function","name":"atoms","stateMutability":"view","inputs":[{"name":"","type":"uint256"}],"outputs":[{"type":"bytes"}]},
{"type":"function","name":"count","stateMutability":"view","inputs":[],"outputs":[{"type":"uint256"}]},
{"type":"function","name":"getAtomCost","stateMutability":"view","inputs":[],"outputs":[{"type":"uint256"}]},
{"type":"function","name":"paused","stateMutability":"view","inputs":[],"outputs":[{"type":"bool"}]}
]`)

// MultiVault is the Knowledge-Graph triple store: atoms are nodes
// addressed by the keccak256 of their URI bytes, triples are
// subject-predicate-object edges over atom IDs.
type MultiVault struct{ contract boundContract }

func NewMultiVault(address common.Address, gateway *Gateway) *MultiVault {
	return &MultiVault{contract: boundContract{address: address, abi: multiVaultABI, gateway: gateway}}
}

// AtomIDByHash returns the atom ID for a URI hash. A miss surfaces as an
// error matching [IsAtomLookupMiss]; callers translate it to exists=false.
func (v *MultiVault) AtomIDByHash(ctx context.Context, uriHash common.Hash) (*big.Int, error) {
	results, err := v.contract.call(ctx, "atomsByHash", uriHash)
	if err != nil {
		return nil, err
	}
	return results[0].(*big.Int), nil
}

func (v *MultiVault) AtomCount(ctx context.Context) (*big.Int, error) {
	results, err := v.contract.call(ctx, "count")
	if err != nil {
		return nil, err
	}
	return results[0].(*big.Int), nil
}

func (v *MultiVault) GetAtomCost(ctx context.Context) (*big.Int, error) {
	results, err := v.contract.call(ctx, "getAtomCost")
	if err != nil {
		return nil, err
	}
	return results[0].(*big.Int), nil
}

func (v *MultiVault) Paused(ctx context.Context) (bool, error) {
	results, err := v.contract.call(ctx, "paused")
	if err != nil {
		return false, err
	}
	return results[0].(bool), nil
}

// BuildCreateAtomsTx prepares a batched atom creation. The value must be
// the exact per-atom cost summed over the batch.
func (v *MultiVault) BuildCreateAtomsTx(uris []string, perAtomCostWei *big.Int) (TxRequest, error) {
	uriBytes := make([][]byte, len(uris))
	deposits := make([]*big.Int, len(uris))
	for i, uri := range uris {
		uriBytes[i] = []byte(uri)
		deposits[i] = perAtomCostWei
	}
	totalCost := new(big.Int).Mul(perAtomCostWei, big.NewInt(int64(len(uris))))
	return v.contract.buildTx("createAtoms", totalCost, GasLimitCreateAtoms, uriBytes, deposits)
}

// BuildCreateTripleTx prepares a triple creation over three mined atom IDs.
func (v *MultiVault) BuildCreateTripleTx(subjectID, predicateID, objectID, costWei *big.Int) (TxRequest, error) {
	return v.contract.buildTx("createTriple", costWei, GasLimitTriple, subjectID, predicateID, objectID)
}

// Address exposes the deployed contract address for response payloads.
func (v *MultiVault) Address() common.Address { return v.contract.address }
