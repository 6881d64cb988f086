package ens_test

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnslabs/trustns/internal/ens"
)

/*
TestNameHash verifies the fold against the canonical ENS test vectors.
*/
func TestNameHash(t *testing.T) {
	tests := []struct {
		name   string
		domain string
		want   string
	}{
		{"empty_is_zero", "", "0x0000000000000000000000000000000000000000000000000000000000000000"},
		{"tld", "eth", "0x93cdeb708b7545dc668eb9280176169d1c33cfd8ed6f04690a0bcc88a93fc4ae"},
		{"second_level", "foo.eth", "0xde9b09fd7c5f901e23a3f19fecc54828e9c848539801e86591bd9801b019f84f"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, common.HexToHash(tt.want), ens.NameHash(tt.domain))
		})
	}
}

/*
TestNameHash_Distinct checks collision-freedom over a batch of random-ish
distinct names, and that a subdomain node differs from its parent.
*/
func TestNameHash_Distinct(t *testing.T) {
	seen := make(map[common.Hash]string)
	for i := 0; i < 200; i++ {
		domain := fmt.Sprintf("name%d.trust", i)
		node := ens.NameHash(domain)
		previous, duplicate := seen[node]
		require.False(t, duplicate, "collision between %q and %q", domain, previous)
		seen[node] = domain
	}

	assert.NotEqual(t, ens.NameHash("alice.trust"), ens.NameHash("sub.alice.trust"))
}

/*
TestTokenID confirms the ENS convention: token identity is the labelhash
read as a uint256, not a sequential counter.
*/
func TestTokenID(t *testing.T) {
	label := "alice"
	tokenID := ens.TokenID(label)

	expected := new(big.Int).SetBytes(ens.LabelHash(label).Bytes())
	assert.Zero(t, tokenID.Cmp(expected))
	assert.Equal(t, common.BigToHash(tokenID), ens.LabelHash(label))
}

/*
TestReverseNode checks that the reverse node is derived from the lowercased
address label and differs from any forward node.
*/
func TestReverseNode(t *testing.T) {
	address := common.HexToAddress("0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B")
	node := ens.ReverseNode(address)

	manual := ens.NameHash("ab5801a7d398351b8be11c439e05c5b3259aec9b.addr.reverse")
	assert.Equal(t, manual, node)
	assert.NotEqual(t, ens.NameHash("alice.trust"), node)
}

/*
TestCommitment_Hash covers determinism and single-parameter sensitivity.
*/
func TestCommitment_Hash(t *testing.T) {
	base := ens.Commitment{
		Label:         "alice",
		Owner:         common.HexToAddress("0x00000000000000000000000000000000000000AA"),
		Duration:      big.NewInt(31536000),
		Secret:        [32]byte{1, 2, 3},
		Resolver:      common.HexToAddress("0x00000000000000000000000000000000000000BB"),
		ReverseRecord: true,
		Fuses:         0,
	}

	first, err := base.Hash()
	require.NoError(t, err)
	second, err := base.Hash()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	mutations := []struct {
		name   string
		mutate func(c ens.Commitment) ens.Commitment
	}{
		{"label", func(c ens.Commitment) ens.Commitment { c.Label = "alicia"; return c }},
		{"owner", func(c ens.Commitment) ens.Commitment {
			c.Owner = common.HexToAddress("0x00000000000000000000000000000000000000AB")
			return c
		}},
		{"duration", func(c ens.Commitment) ens.Commitment {
			c.Duration = big.NewInt(31536001)
			return c
		}},
		{"secret", func(c ens.Commitment) ens.Commitment { c.Secret[31] = 0xFF; return c }},
		{"resolver", func(c ens.Commitment) ens.Commitment {
			c.Resolver = common.HexToAddress("0x00000000000000000000000000000000000000BC")
			return c
		}},
		{"reverse_record", func(c ens.Commitment) ens.Commitment { c.ReverseRecord = false; return c }},
		{"fuses", func(c ens.Commitment) ens.Commitment { c.Fuses = 1; return c }},
	}

	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			mutated, err := tt.mutate(base).Hash()
			require.NoError(t, err)
			assert.NotEqual(t, first, mutated)
		})
	}
}

/*
TestCommitment_Hash_NilData ensures a nil extra-data slice encodes the same
as an explicit empty slice.
*/
func TestCommitment_Hash_NilData(t *testing.T) {
	withNil := ens.Commitment{Label: "bob", Duration: big.NewInt(1)}
	withEmpty := withNil
	withEmpty.Data = [][]byte{}

	first, err := withNil.Hash()
	require.NoError(t, err)
	second, err := withEmpty.Hash()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
