// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package records_test

import (
	"context"
	"errors"
	"log/slog"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnslabs/trustns/internal/chain"
	"github.com/tnslabs/trustns/internal/core/records"
	"github.com/tnslabs/trustns/internal/ens"
	"github.com/tnslabs/trustns/internal/platform/apperr"
	"github.com/tnslabs/trustns/internal/platform/dberr"
)

type fakeRepo struct {
	rows map[string]map[string]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[string]map[string]string{}}
}

func (r *fakeRepo) ListByDomain(_ context.Context, label string) ([]*records.Record, error) {
	var list []*records.Record
	for key, value := range r.rows[label] {
		list = append(list, &records.Record{DomainLabel: label, Key: key, Value: value})
	}
	return list, nil
}

func (r *fakeRepo) Upsert(_ context.Context, record *records.Record) error {
	if r.rows[record.DomainLabel] == nil {
		r.rows[record.DomainLabel] = map[string]string{}
	}
	r.rows[record.DomainLabel][record.Key] = record.Value
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, label, key string) error {
	if _, ok := r.rows[label][key]; !ok {
		return dberr.ErrNotFound
	}
	delete(r.rows[label], key)
	return nil
}

func (r *fakeRepo) DeleteAll(_ context.Context, label string) error {
	delete(r.rows, label)
	return nil
}

type fakeResolver struct {
	data      *chain.ResolverData
	dataErr   error
	texts     map[string]string
	addr      common.Address
	content   []byte
	names     map[common.Hash]string
	builtKind string
}

func (f *fakeResolver) Addr(_ context.Context, _ common.Hash) (common.Address, error) {
	return f.addr, nil
}

func (f *fakeResolver) Text(_ context.Context, _ common.Hash, key string) (string, error) {
	return f.texts[key], nil
}

func (f *fakeResolver) Contenthash(_ context.Context, _ common.Hash) ([]byte, error) {
	return f.content, nil
}

func (f *fakeResolver) Name(_ context.Context, node common.Hash) (string, error) {
	return f.names[node], nil
}

func (f *fakeResolver) GetResolverData(_ context.Context, _ string) (*chain.ResolverData, error) {
	if f.dataErr != nil {
		return nil, f.dataErr
	}
	return f.data, nil
}

func (f *fakeResolver) BuildSetAddrTx(_ common.Hash, _ common.Address) (chain.TxRequest, error) {
	f.builtKind = records.KindAddress
	return chain.TxRequest{Data: []byte{0x01}, GasLimit: chain.GasLimitSetRecord}, nil
}

func (f *fakeResolver) BuildSetTextTx(_ common.Hash, _, _ string) (chain.TxRequest, error) {
	f.builtKind = records.KindText
	return chain.TxRequest{Data: []byte{0x02}, GasLimit: chain.GasLimitSetRecord}, nil
}

func (f *fakeResolver) BuildSetContenthashTx(_ common.Hash, _ []byte) (chain.TxRequest, error) {
	f.builtKind = records.KindContentHash
	return chain.TxRequest{Data: []byte{0x03}, GasLimit: chain.GasLimitSetRecord}, nil
}

func (f *fakeResolver) BuildClearRecordsTx(_ string) (chain.TxRequest, error) {
	f.builtKind = "clear"
	return chain.TxRequest{Data: []byte{0x04}, GasLimit: chain.GasLimitSetRecord}, nil
}

type fakeReverse struct{ setName string }

func (f *fakeReverse) BuildSetNameTx(fullName string) (chain.TxRequest, error) {
	f.setName = fullName
	return chain.TxRequest{Data: []byte{0x05}, GasLimit: chain.GasLimitSetName}, nil
}

type fakeOwners struct {
	owners map[string]common.Address
}

func (f *fakeOwners) OwnerOf(_ context.Context, tokenID *big.Int) (common.Address, error) {
	owner, ok := f.owners[tokenID.String()]
	if !ok {
		return common.Address{}, errors.New("execution reverted: ERC721NonexistentToken")
	}
	return owner, nil
}

var (
	owner    = common.HexToAddress("0x1111111111111111111111111111111111111111")
	stranger = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

func newTestService(repo *fakeRepo, resolver *fakeResolver, reverse *fakeReverse, owners *fakeOwners) *records.Service {
	return records.NewService(repo, resolver, reverse, owners, slog.New(slog.DiscardHandler))
}

func aliceOwners() *fakeOwners {
	return &fakeOwners{owners: map[string]common.Address{
		ens.TokenID("alice").String(): owner,
	}}
}

/*
TestService_GetAll verifies sentinel filtering and mirror repair.
*/
func TestService_GetAll(t *testing.T) {
	t.Run("filters_sentinels", func(t *testing.T) {
		repo := newFakeRepo()
		resolver := &fakeResolver{data: &chain.ResolverData{
			EthAddress:  common.Address{},
			ContentHash: []byte{},
			TextKeys:    []string{"email", "url", "empty"},
			TextValues:  []string{"a@b.com", "https://alice.example", "  "},
		}}
		service := newTestService(repo, resolver, &fakeReverse{}, aliceOwners())

		set, err := service.GetAll(context.Background(), "alice.trust")
		require.NoError(t, err)

		assert.Empty(t, set.Address)
		assert.Empty(t, set.ContentHash)
		assert.Equal(t, map[string]string{
			"email": "a@b.com",
			"url":   "https://alice.example",
		}, set.Texts)

		assert.Equal(t, "a@b.com", repo.rows["alice"]["email"])
	})

	t.Run("keeps_real_values", func(t *testing.T) {
		resolver := &fakeResolver{data: &chain.ResolverData{
			EthAddress:  owner,
			ContentHash: []byte("ipfs://bafyexample"),
			TextKeys:    []string{},
			TextValues:  []string{},
		}}
		service := newTestService(newFakeRepo(), resolver, &fakeReverse{}, aliceOwners())

		set, err := service.GetAll(context.Background(), "alice")
		require.NoError(t, err)

		assert.Equal(t, owner.Hex(), set.Address)
		assert.Equal(t, "ipfs://bafyexample", set.ContentHash)
	})

	t.Run("chain_unreachable_serves_mirror", func(t *testing.T) {
		repo := newFakeRepo()
		repo.rows["alice"] = map[string]string{"email": "a@b.com", records.KeyAddress: owner.Hex()}
		resolver := &fakeResolver{dataErr: errors.New("connection refused")}
		service := newTestService(repo, resolver, &fakeReverse{}, aliceOwners())

		set, err := service.GetAll(context.Background(), "alice")
		require.NoError(t, err)

		assert.Equal(t, owner.Hex(), set.Address)
		assert.Equal(t, "a@b.com", set.Texts["email"])
	})

	t.Run("unregistered_name_not_found", func(t *testing.T) {
		resolver := &fakeResolver{dataErr: errors.New("execution reverted")}
		service := newTestService(newFakeRepo(), resolver, &fakeReverse{}, aliceOwners())

		_, err := service.GetAll(context.Background(), "ghost")
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}

/*
TestService_PrepareWrite exercises ownership gating and per-kind
validation. Invalid input must never produce a transaction.
*/
func TestService_PrepareWrite(t *testing.T) {
	t.Run("owner_writes_text", func(t *testing.T) {
		resolver := &fakeResolver{}
		service := newTestService(newFakeRepo(), resolver, &fakeReverse{}, aliceOwners())

		prepared, err := service.PrepareWrite(context.Background(), "alice", owner.Hex(), records.WriteRequest{
			Kind: records.KindText, Key: "email", Value: "a@b.com",
		})
		require.NoError(t, err)

		assert.Equal(t, records.KindText, resolver.builtKind)
		assert.Equal(t, "alice.trust", prepared.Name)
		assert.Equal(t, uint64(chain.GasLimitSetRecord), prepared.Transaction.GasLimit)
	})

	t.Run("non_owner_forbidden", func(t *testing.T) {
		service := newTestService(newFakeRepo(), &fakeResolver{}, &fakeReverse{}, aliceOwners())

		_, err := service.PrepareWrite(context.Background(), "alice", stranger.Hex(), records.WriteRequest{
			Kind: records.KindText, Key: "email", Value: "a@b.com",
		})
		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	})

	t.Run("validation_per_kind", func(t *testing.T) {
		tests := []struct {
			name    string
			request records.WriteRequest
		}{
			{"bad_address", records.WriteRequest{Kind: records.KindAddress, Value: "0x1234"}},
			{"bad_contenthash_prefix", records.WriteRequest{Kind: records.KindContentHash, Value: "ftp://nope"}},
			{"empty_text_value", records.WriteRequest{Kind: records.KindText, Key: "email", Value: "   "}},
			{"missing_text_key", records.WriteRequest{Kind: records.KindText, Value: "a@b.com"}},
			{"unknown_kind", records.WriteRequest{Kind: "cname", Value: "x"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				resolver := &fakeResolver{}
				service := newTestService(newFakeRepo(), resolver, &fakeReverse{}, aliceOwners())

				_, err := service.PrepareWrite(context.Background(), "alice", owner.Hex(), tt.request)
				require.Error(t, err)
				assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
				assert.Empty(t, resolver.builtKind)
			})
		}
	})

	t.Run("contenthash_prefixes_accepted", func(t *testing.T) {
		for _, value := range []string{"0xe301017012", "ipfs://bafyexample", "ipns://example"} {
			resolver := &fakeResolver{}
			service := newTestService(newFakeRepo(), resolver, &fakeReverse{}, aliceOwners())

			_, err := service.PrepareWrite(context.Background(), "alice", owner.Hex(), records.WriteRequest{
				Kind: records.KindContentHash, Value: value,
			})
			require.NoError(t, err, value)
			assert.Equal(t, records.KindContentHash, resolver.builtKind)
		}
	})
}

/*
TestService_ConfirmWrite checks the chain-verified mirror write.
*/
func TestService_ConfirmWrite(t *testing.T) {
	t.Run("text_match_mirrored", func(t *testing.T) {
		repo := newFakeRepo()
		resolver := &fakeResolver{texts: map[string]string{"email": "a@b.com"}}
		service := newTestService(repo, resolver, &fakeReverse{}, aliceOwners())

		record, err := service.ConfirmWrite(context.Background(), "alice", records.WriteRequest{
			Kind: records.KindText, Key: "email", Value: "a@b.com",
		})
		require.NoError(t, err)

		assert.Equal(t, "a@b.com", record.Value)
		assert.Equal(t, "a@b.com", repo.rows["alice"]["email"])
	})

	t.Run("not_visible_yet", func(t *testing.T) {
		resolver := &fakeResolver{texts: map[string]string{}}
		service := newTestService(newFakeRepo(), resolver, &fakeReverse{}, aliceOwners())

		_, err := service.ConfirmWrite(context.Background(), "alice", records.WriteRequest{
			Kind: records.KindText, Key: "email", Value: "a@b.com",
		})
		require.Error(t, err)
		assert.Equal(t, "UNPROCESSABLE", apperr.As(err).Code)
	})
}

/*
TestService_Primary covers reverse resolution through the address reverse
node.
*/
func TestService_Primary(t *testing.T) {
	t.Run("resolves_primary_name", func(t *testing.T) {
		resolver := &fakeResolver{names: map[common.Hash]string{
			ens.ReverseNode(owner): "alice.trust",
		}}
		service := newTestService(newFakeRepo(), resolver, &fakeReverse{}, aliceOwners())

		primary, err := service.Primary(context.Background(), owner.Hex())
		require.NoError(t, err)
		assert.Equal(t, "alice.trust", primary)
	})

	t.Run("no_primary_set", func(t *testing.T) {
		resolver := &fakeResolver{names: map[common.Hash]string{}}
		service := newTestService(newFakeRepo(), resolver, &fakeReverse{}, aliceOwners())

		_, err := service.Primary(context.Background(), stranger.Hex())
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})

	t.Run("invalid_address", func(t *testing.T) {
		service := newTestService(newFakeRepo(), &fakeResolver{}, &fakeReverse{}, aliceOwners())

		_, err := service.Primary(context.Background(), "nope")
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})
}

/*
TestService_ClearRecords covers the prepare/confirm split for the full wipe:
preparing the clear must not touch the mirror, confirming drops the rows
only once the resolver serves nothing.
*/
func TestService_ClearRecords(t *testing.T) {
	t.Run("prepare_keeps_mirror_rows", func(t *testing.T) {
		repo := newFakeRepo()
		repo.rows["alice"] = map[string]string{"email": "a@b.com"}
		resolver := &fakeResolver{}
		service := newTestService(repo, resolver, &fakeReverse{}, aliceOwners())

		prepared, err := service.PrepareClear(context.Background(), "alice", owner.Hex())
		require.NoError(t, err)
		assert.Equal(t, "clear", prepared.Kind)
		assert.Equal(t, "clear", resolver.builtKind)
		assert.Equal(t, map[string]string{"email": "a@b.com"}, repo.rows["alice"])
	})

	t.Run("confirm_drops_mirror_once_chain_is_empty", func(t *testing.T) {
		repo := newFakeRepo()
		repo.rows["alice"] = map[string]string{"email": "a@b.com"}
		resolver := &fakeResolver{data: &chain.ResolverData{}}
		service := newTestService(repo, resolver, &fakeReverse{}, aliceOwners())

		require.NoError(t, service.ConfirmClear(context.Background(), "alice"))
		_, ok := repo.rows["alice"]
		assert.False(t, ok)
	})

	t.Run("confirm_rejected_while_records_still_on_chain", func(t *testing.T) {
		repo := newFakeRepo()
		repo.rows["alice"] = map[string]string{"email": "a@b.com"}
		resolver := &fakeResolver{data: &chain.ResolverData{
			TextKeys:   []string{"email"},
			TextValues: []string{"a@b.com"},
		}}
		service := newTestService(repo, resolver, &fakeReverse{}, aliceOwners())

		err := service.ConfirmClear(context.Background(), "alice")
		require.Error(t, err)
		assert.Equal(t, "UNPROCESSABLE", apperr.As(err).Code)
		assert.Equal(t, "a@b.com", repo.rows["alice"]["email"])
	})
}

/*
TestService_PreparePrimary verifies ownership gating on the reverse-record
write.
*/
func TestService_PreparePrimary(t *testing.T) {
	reverse := &fakeReverse{}
	service := newTestService(newFakeRepo(), &fakeResolver{}, reverse, aliceOwners())

	prepared, err := service.PreparePrimary(context.Background(), "alice", owner.Hex())
	require.NoError(t, err)
	assert.Equal(t, "alice.trust", reverse.setName)
	assert.Equal(t, uint64(chain.GasLimitSetName), prepared.Transaction.GasLimit)

	_, err = service.PreparePrimary(context.Background(), "alice", stranger.Hex())
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}
