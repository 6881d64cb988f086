// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

/*
Package ens implements the hash primitives the Trust Name Service is
addressed by: labelhash, the recursive namehash, token IDs, reverse nodes,
and registration commitment hashes.

Everything here is a pure function over strings and byte slices. The
namehash fold must match the ENS algorithm bit for bit because the resolver
contract knows nothing about labels, only nodes.
*/
package ens

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ReverseSuffix is the reserved namespace for reverse (address -> name)
// resolution. The reverse node of an address is
// namehash("<lowercase-hex-address-without-0x>.addr.reverse").
const ReverseSuffix = "addr.reverse"

// LabelHash returns keccak256 of the UTF-8 bytes of a single label.
//
// The resulting hash, read as a uint256, is also the ERC-721 token ID of
// the name (see [TokenID]).
func LabelHash(label string) common.Hash {
	return crypto.Keccak256Hash([]byte(label))
}

// NameHash maps a dot-separated domain name to its node identifier.
//
// The fold starts from the zero hash and consumes labels from the TLD
// inward: node = keccak256(node || labelhash(label)). The empty name maps
// to the zero hash.
func NameHash(name string) common.Hash {
	if name == "" {
		return common.Hash{}
	}
	labels := strings.Split(name, ".")
	labelHash := crypto.Keccak256([]byte(labels[len(labels)-1]))
	remainderHash := NameHash(strings.Join(labels[:len(labels)-1], ".")).Bytes()
	return crypto.Keccak256Hash(append(remainderHash, labelHash...))
}

// TokenID returns the ERC-721 token identifier for a label: its labelhash
// interpreted as an unsigned 256-bit integer.
func TokenID(label string) *big.Int {
	return new(big.Int).SetBytes(LabelHash(label).Bytes())
}

// ReverseNode computes the node under the reverse namespace for an address.
//
// The label is the lowercased hex form of the address without the 0x
// prefix. This is a distinct computation from forward resolution and must
// not be conflated with it.
func ReverseNode(address common.Address) common.Hash {
	label := strings.ToLower(strings.TrimPrefix(address.Hex(), "0x"))
	return NameHash(label + "." + ReverseSuffix)
}

// commitmentArguments is the ABI tuple hashed into a registration
// commitment. The order matches the controller contract's makeCommitment
// exactly; a single differing byte between commit and register yields a
// non-matching commitment and an opaque revert.
var commitmentArguments = mustArguments(
	"bytes32", // labelhash
	"address", // owner
	"uint256", // duration
	"bytes32", // secret
	"address", // resolver
	"bytes[]", // data
	"bool",    // reverseRecord
	"uint16",  // ownerControlledFuses
)

// Commitment holds the full parameter tuple for a commit-reveal
// registration. The same values must be presented at both commit and
// register time.
type Commitment struct {
	Label         string
	Owner         common.Address
	Duration      *big.Int
	Secret        [32]byte
	Resolver      common.Address
	Data          [][]byte
	ReverseRecord bool
	Fuses         uint16
}

// Hash ABI-encodes the commitment tuple and returns its keccak256 digest.
func (c Commitment) Hash() (common.Hash, error) {
	data := c.Data
	if data == nil {
		data = [][]byte{}
	}
	encoded, err := commitmentArguments.Pack(
		LabelHash(c.Label),
		c.Owner,
		c.Duration,
		c.Secret,
		c.Resolver,
		data,
		c.ReverseRecord,
		c.Fuses,
	)
	if err != nil {
		return common.Hash{}, fmt.Errorf("ens: failed to encode commitment: %w", err)
	}
	return crypto.Keccak256Hash(encoded), nil
}

// mustArguments builds an [abi.Arguments] list from Solidity type names.
// Panics on invalid types; the inputs are compile-time constants.
func mustArguments(types ...string) abi.Arguments {
	arguments := make(abi.Arguments, 0, len(types))
	for _, typeName := range types {
		abiType, err := abi.NewType(typeName, "", nil)
		if err != nil {
			panic(fmt.Sprintf("ens: invalid ABI type %q: %v", typeName, err))
		}
		arguments = append(arguments, abi.Argument{Type: abiType})
	}
	return arguments
}
