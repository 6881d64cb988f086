// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package sync_test

import (
	"context"
	"errors"
	"log/slog"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnslabs/trustns/internal/chain"
	"github.com/tnslabs/trustns/internal/core/domains"
	"github.com/tnslabs/trustns/internal/core/sync"
	"github.com/tnslabs/trustns/internal/platform/apperr"
	"github.com/tnslabs/trustns/internal/platform/dberr"
)

type fakeRepo struct {
	rows map[string]*sync.Status
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[string]*sync.Status{}}
}

func rowKey(label, recordKey string) string {
	return label + "\x00" + recordKey
}

func (r *fakeRepo) Get(_ context.Context, label, recordKey string) (*sync.Status, error) {
	row, ok := r.rows[rowKey(label, recordKey)]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	clone := *row
	return &clone, nil
}

func (r *fakeRepo) Upsert(_ context.Context, status *sync.Status) error {
	if status.ID == "" {
		status.ID = "fixed-id"
	}
	clone := *status
	r.rows[rowKey(status.DomainLabel, status.RecordKey)] = &clone
	return nil
}

func (r *fakeRepo) ListByDomain(_ context.Context, label string) ([]*sync.Status, error) {
	var list []*sync.Status
	for _, row := range r.rows {
		if row.DomainLabel == label {
			clone := *row
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (r *fakeRepo) ListPending(_ context.Context) ([]*sync.Status, error) {
	var list []*sync.Status
	for _, row := range r.rows {
		if row.State == sync.StatePending {
			clone := *row
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (r *fakeRepo) Counters(_ context.Context) (sync.Counters, error) {
	var counters sync.Counters
	for _, row := range r.rows {
		switch row.State {
		case sync.StateSynced:
			counters.Synced++
		case sync.StatePending:
			counters.Pending++
		case sync.StateFailed:
			counters.Failed++
		}
		counters.Total++
	}
	return counters, nil
}

type fakeVault struct {
	atoms     map[common.Hash]*big.Int
	lookupErr error
	cost      *big.Int
	costErr   error
	costCalls int
}

func newFakeVault() *fakeVault {
	return &fakeVault{atoms: map[common.Hash]*big.Int{}, cost: big.NewInt(100)}
}

func (f *fakeVault) addAtom(uri string, id int64) {
	f.atoms[crypto.Keccak256Hash([]byte(uri))] = big.NewInt(id)
}

func (f *fakeVault) AtomIDByHash(_ context.Context, uriHash common.Hash) (*big.Int, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	id, ok := f.atoms[uriHash]
	if !ok {
		return nil, errors.New("execution reverted")
	}
	return id, nil
}

func (f *fakeVault) GetAtomCost(_ context.Context) (*big.Int, error) {
	f.costCalls++
	if f.costErr != nil {
		return nil, f.costErr
	}
	return f.cost, nil
}

func (f *fakeVault) BuildCreateAtomsTx(uris []string, perAtomCostWei *big.Int) (chain.TxRequest, error) {
	total := new(big.Int).Mul(perAtomCostWei, big.NewInt(int64(len(uris))))
	return chain.TxRequest{Data: []byte{0x01}, Value: total, GasLimit: chain.GasLimitCreateAtoms}, nil
}

func (f *fakeVault) BuildCreateTripleTx(_, _, _, costWei *big.Int) (chain.TxRequest, error) {
	return chain.TxRequest{Data: []byte{0x02}, Value: costWei, GasLimit: chain.GasLimitTriple}, nil
}

type fakeCostCache struct {
	value  string
	getErr error
	sets   []string
}

func (f *fakeCostCache) Get(_ context.Context) (string, error) {
	return f.value, f.getErr
}

func (f *fakeCostCache) Set(_ context.Context, costWei string) error {
	f.sets = append(f.sets, costWei)
	return nil
}

type fakeDomainRepo struct {
	byLabel map[string]*domains.Domain
}

func newFakeDomainRepo() *fakeDomainRepo {
	return &fakeDomainRepo{byLabel: map[string]*domains.Domain{}}
}

func (r *fakeDomainRepo) GetByLabel(_ context.Context, label string) (*domains.Domain, error) {
	domain, ok := r.byLabel[label]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	return domain, nil
}

func (r *fakeDomainRepo) GetByTokenID(_ context.Context, tokenID string) (*domains.Domain, error) {
	for _, domain := range r.byLabel {
		if domain.TokenID == tokenID {
			return domain, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (r *fakeDomainRepo) ListByOwner(_ context.Context, owner string, _, _ int) ([]*domains.Domain, int, error) {
	var list []*domains.Domain
	for _, domain := range r.byLabel {
		if strings.EqualFold(domain.Owner, owner) {
			list = append(list, domain)
		}
	}
	return list, len(list), nil
}

func (r *fakeDomainRepo) Upsert(_ context.Context, domain *domains.Domain) error {
	r.byLabel[domain.Label] = domain
	return nil
}

func (r *fakeDomainRepo) Delete(_ context.Context, label string) error {
	delete(r.byLabel, label)
	return nil
}

func (r *fakeDomainRepo) RecordsFor(_ context.Context, _ string) (map[string]string, error) {
	return nil, nil
}

const testOwner = "0x1111111111111111111111111111111111111111"

var testTxHash = "0x" + strings.Repeat("ab", 32)

func newTestService(repo *fakeRepo, domainRepo *fakeDomainRepo, vault *fakeVault, costs *fakeCostCache) *sync.Service {
	return sync.NewService(
		repo, domainRepo, vault, costs,
		big.NewInt(555), slog.New(slog.DiscardHandler),
	)
}

/*
TestAtomCost verifies the cache-then-chain-then-fallback resolution of
the per-atom stake.
*/
func TestAtomCost(t *testing.T) {
	t.Run("cache_hit_skips_chain", func(t *testing.T) {
		vault := newFakeVault()
		service := newTestService(newFakeRepo(), newFakeDomainRepo(), vault, &fakeCostCache{value: "42"})

		cost := service.AtomCost(context.Background())

		assert.Equal(t, "42", cost.String())
		assert.Zero(t, vault.costCalls)
	})

	t.Run("chain_value_written_back_to_cache", func(t *testing.T) {
		vault := newFakeVault()
		vault.cost = big.NewInt(77)
		costs := &fakeCostCache{}
		service := newTestService(newFakeRepo(), newFakeDomainRepo(), vault, costs)

		cost := service.AtomCost(context.Background())

		assert.Equal(t, "77", cost.String())
		assert.Equal(t, []string{"77"}, costs.sets)
	})

	t.Run("fallback_when_view_unavailable", func(t *testing.T) {
		vault := newFakeVault()
		vault.costErr = errors.New("rpc timeout")
		service := newTestService(newFakeRepo(), newFakeDomainRepo(), vault, &fakeCostCache{})

		cost := service.AtomCost(context.Background())

		assert.Equal(t, "555", cost.String())
	})
}

/*
TestPrepareDomainSync covers the single-atom preparation path and the
already-on-chain short circuit.
*/
func TestPrepareDomainSync(t *testing.T) {
	t.Run("new_domain_builds_create_atoms_tx", func(t *testing.T) {
		repo := newFakeRepo()
		service := newTestService(repo, newFakeDomainRepo(), newFakeVault(), &fakeCostCache{})

		prepare, err := service.PrepareDomainSync(context.Background(), "alice.trust")
		require.NoError(t, err)

		assert.False(t, prepare.AlreadySynced)
		assert.Equal(t, "alice.trust", prepare.Domain)
		assert.Equal(t, "tns:domain:alice", prepare.AtomURI)
		require.NotNil(t, prepare.Transaction)
		assert.Equal(t, "100", prepare.Transaction.Value)
		assert.Equal(t, uint64(chain.GasLimitCreateAtoms), prepare.Transaction.GasLimit)

		stored, err := repo.Get(context.Background(), "alice", "")
		require.NoError(t, err)
		assert.Equal(t, sync.StatePending, stored.State)
	})

	t.Run("already_on_chain_marks_synced", func(t *testing.T) {
		repo := newFakeRepo()
		vault := newFakeVault()
		vault.addAtom("tns:domain:alice", 42)
		service := newTestService(repo, newFakeDomainRepo(), vault, &fakeCostCache{})

		prepare, err := service.PrepareDomainSync(context.Background(), "alice")
		require.NoError(t, err)

		assert.True(t, prepare.AlreadySynced)
		assert.Equal(t, "42", prepare.AtomID)
		assert.Nil(t, prepare.Transaction)

		stored, err := repo.Get(context.Background(), "alice", "")
		require.NoError(t, err)
		assert.Equal(t, sync.StateSynced, stored.State)
		assert.Equal(t, "42", stored.AtomID)
	})

	t.Run("invalid_name_rejected", func(t *testing.T) {
		service := newTestService(newFakeRepo(), newFakeDomainRepo(), newFakeVault(), &fakeCostCache{})

		_, err := service.PrepareDomainSync(context.Background(), "ab")
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})
}

/*
TestConfirmDomainSync exercises the local pending-to-synced transition.
*/
func TestConfirmDomainSync(t *testing.T) {
	t.Run("pending_row_becomes_synced", func(t *testing.T) {
		repo := newFakeRepo()
		require.NoError(t, repo.Upsert(context.Background(), &sync.Status{
			DomainLabel: "alice", AtomURI: "tns:domain:alice", State: sync.StatePending,
		}))
		service := newTestService(repo, newFakeDomainRepo(), newFakeVault(), &fakeCostCache{})

		status, err := service.ConfirmDomainSync(context.Background(), sync.ConfirmParams{
			Domain: "alice.trust", TxHash: testTxHash, AtomID: "42",
		})
		require.NoError(t, err)

		assert.Equal(t, sync.StateSynced, status.State)
		assert.True(t, status.AtomsCreated)
		assert.Equal(t, testTxHash, status.TxHash)
		assert.Equal(t, "42", status.AtomID)
	})

	t.Run("unknown_row_not_found", func(t *testing.T) {
		service := newTestService(newFakeRepo(), newFakeDomainRepo(), newFakeVault(), &fakeCostCache{})

		_, err := service.ConfirmDomainSync(context.Background(), sync.ConfirmParams{
			Domain: "ghost", TxHash: testTxHash,
		})
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})

	t.Run("malformed_tx_hash_rejected", func(t *testing.T) {
		service := newTestService(newFakeRepo(), newFakeDomainRepo(), newFakeVault(), &fakeCostCache{})

		_, err := service.ConfirmDomainSync(context.Background(), sync.ConfirmParams{
			Domain: "alice", TxHash: "0xnope",
		})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})
}

/*
TestFailDomainSync verifies the failure transition keeps the reason.
*/
func TestFailDomainSync(t *testing.T) {
	repo := newFakeRepo()
	require.NoError(t, repo.Upsert(context.Background(), &sync.Status{
		DomainLabel: "alice", AtomURI: "tns:domain:alice", State: sync.StatePending,
	}))
	service := newTestService(repo, newFakeDomainRepo(), newFakeVault(), &fakeCostCache{})

	status, err := service.FailDomainSync(context.Background(), sync.FailParams{
		Domain: "alice", Reason: "user rejected signature",
	})
	require.NoError(t, err)

	assert.Equal(t, sync.StateFailed, status.State)
	assert.Equal(t, "user rejected signature", status.LastError)
}

/*
TestPrepareRecordSync covers the three-atom existence plan: batched
atom creation when anything is missing, triple creation when all three
atoms exist, and the read-only idempotence of prepare itself.
*/
func TestPrepareRecordSync(t *testing.T) {
	params := sync.RecordParams{Domain: "alice.trust", Key: "email", Value: "a@b.com"}

	t.Run("no_atoms_exist_batches_all_three", func(t *testing.T) {
		repo := newFakeRepo()
		service := newTestService(repo, newFakeDomainRepo(), newFakeVault(), &fakeCostCache{})

		prepare, err := service.PrepareRecordSync(context.Background(), params)
		require.NoError(t, err)

		assert.True(t, prepare.Success)
		assert.Equal(t, "alice.trust", prepare.DomainName)
		assert.Equal(t, []string{
			"tns:domain:alice",
			"tns:predicate:email",
			"tns:value:email:a@b.com",
		}, prepare.AtomsToCreate)
		assert.True(t, prepare.NeedsAtomCreation)
		assert.False(t, prepare.ReadyForTriple)
		assert.Equal(t, "300", prepare.TotalCostWei)
		require.Len(t, prepare.Transactions, 1)
		assert.Equal(t, "createAtoms", prepare.Transactions[0].Type)
		assert.Equal(t, "300", prepare.Transactions[0].Value)
		assert.Empty(t, repo.rows)
	})

	t.Run("prepare_is_idempotent", func(t *testing.T) {
		repo := newFakeRepo()
		service := newTestService(repo, newFakeDomainRepo(), newFakeVault(), &fakeCostCache{})

		first, err := service.PrepareRecordSync(context.Background(), params)
		require.NoError(t, err)
		second, err := service.PrepareRecordSync(context.Background(), params)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Empty(t, repo.rows)
	})

	t.Run("all_atoms_exist_builds_triple", func(t *testing.T) {
		vault := newFakeVault()
		vault.addAtom("tns:domain:alice", 1)
		vault.addAtom("tns:predicate:email", 2)
		vault.addAtom("tns:value:email:a@b.com", 3)
		service := newTestService(newFakeRepo(), newFakeDomainRepo(), vault, &fakeCostCache{})

		prepare, err := service.PrepareRecordSync(context.Background(), params)
		require.NoError(t, err)

		assert.True(t, prepare.ReadyForTriple)
		assert.True(t, prepare.NeedsTripleCreation)
		assert.False(t, prepare.NeedsAtomCreation)
		assert.Empty(t, prepare.AtomsToCreate)
		assert.Equal(t, sync.AtomIDSet{Domain: "1", Predicate: "2", Value: "3"}, prepare.ExistingAtomIDs)
		assert.Equal(t, "100", prepare.TotalCostWei)
		require.Len(t, prepare.Transactions, 1)
		assert.Equal(t, "createTriple", prepare.Transactions[0].Type)
		assert.Equal(t, uint64(chain.GasLimitTriple), prepare.Transactions[0].GasLimit)
	})

	t.Run("partial_atoms_batch_only_missing", func(t *testing.T) {
		vault := newFakeVault()
		vault.addAtom("tns:domain:alice", 1)
		service := newTestService(newFakeRepo(), newFakeDomainRepo(), vault, &fakeCostCache{})

		prepare, err := service.PrepareRecordSync(context.Background(), params)
		require.NoError(t, err)

		assert.True(t, prepare.ExistingAtoms.Domain)
		assert.False(t, prepare.ExistingAtoms.Predicate)
		assert.Equal(t, []string{
			"tns:predicate:email",
			"tns:value:email:a@b.com",
		}, prepare.AtomsToCreate)
		assert.Equal(t, "200", prepare.TotalCostWei)
	})

	t.Run("synced_row_short_circuits", func(t *testing.T) {
		repo := newFakeRepo()
		require.NoError(t, repo.Upsert(context.Background(), &sync.Status{
			DomainLabel: "alice", RecordKey: "email", RecordValue: "a@b.com",
			AtomURI: "tns:value:email:a@b.com", State: sync.StateSynced, AtomsCreated: true,
		}))
		service := newTestService(repo, newFakeDomainRepo(), newFakeVault(), &fakeCostCache{})

		prepare, err := service.PrepareRecordSync(context.Background(), params)
		require.NoError(t, err)

		assert.True(t, prepare.AlreadySynced)
		assert.Empty(t, prepare.Transactions)
		assert.False(t, prepare.NeedsAtomCreation)
		assert.False(t, prepare.NeedsTripleCreation)
	})

	t.Run("missing_fields_rejected", func(t *testing.T) {
		service := newTestService(newFakeRepo(), newFakeDomainRepo(), newFakeVault(), &fakeCostCache{})

		_, err := service.PrepareRecordSync(context.Background(), sync.RecordParams{Domain: "alice"})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})
}

/*
TestConfirmRecordSync verifies the two-stage saga: the atoms stage keeps
the row pending with atomsCreated set, the triple stage marks it synced.
*/
func TestConfirmRecordSync(t *testing.T) {
	t.Run("atoms_stage_keeps_row_pending", func(t *testing.T) {
		repo := newFakeRepo()
		service := newTestService(repo, newFakeDomainRepo(), newFakeVault(), &fakeCostCache{})

		status, err := service.ConfirmRecordSync(context.Background(), sync.RecordConfirmParams{
			Domain: "alice", Key: "email", Value: "a@b.com",
			TxHash: testTxHash, Stage: sync.StageAtoms,
		})
		require.NoError(t, err)

		assert.Equal(t, sync.StatePending, status.State)
		assert.True(t, status.AtomsCreated)
		assert.Equal(t, "tns:value:email:a@b.com", status.AtomURI)
	})

	t.Run("triple_stage_marks_synced", func(t *testing.T) {
		repo := newFakeRepo()
		require.NoError(t, repo.Upsert(context.Background(), &sync.Status{
			DomainLabel: "alice", RecordKey: "email", RecordValue: "a@b.com",
			AtomURI: "tns:value:email:a@b.com", State: sync.StatePending, AtomsCreated: true,
		}))
		service := newTestService(repo, newFakeDomainRepo(), newFakeVault(), &fakeCostCache{})

		status, err := service.ConfirmRecordSync(context.Background(), sync.RecordConfirmParams{
			Domain: "alice", Key: "email", Value: "a@b.com",
			TxHash: testTxHash, Stage: sync.StageTriple,
		})
		require.NoError(t, err)

		assert.Equal(t, sync.StateSynced, status.State)
		assert.True(t, status.AtomsCreated)
	})

	t.Run("unknown_stage_rejected", func(t *testing.T) {
		service := newTestService(newFakeRepo(), newFakeDomainRepo(), newFakeVault(), &fakeCostCache{})

		_, err := service.ConfirmRecordSync(context.Background(), sync.RecordConfirmParams{
			Domain: "alice", Key: "email", Value: "a@b.com",
			TxHash: testTxHash, Stage: "receipt",
		})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})
}

/*
TestUserSyncStatus aggregates a user's mirror domains against live atom
existence and repairs stale ledger rows from chain truth.
*/
func TestUserSyncStatus(t *testing.T) {
	t.Run("mixes_synced_and_pending_domains", func(t *testing.T) {
		domainRepo := newFakeDomainRepo()
		require.NoError(t, domainRepo.Upsert(context.Background(), &domains.Domain{
			Label: "alice", FullName: "alice.trust", Owner: testOwner,
		}))
		require.NoError(t, domainRepo.Upsert(context.Background(), &domains.Domain{
			Label: "bobby", FullName: "bobby.trust", Owner: testOwner,
		}))

		repo := newFakeRepo()
		require.NoError(t, repo.Upsert(context.Background(), &sync.Status{
			DomainLabel: "alice", AtomURI: "tns:domain:alice", State: sync.StatePending,
		}))

		vault := newFakeVault()
		vault.addAtom("tns:domain:alice", 42)
		service := newTestService(repo, domainRepo, vault, &fakeCostCache{})

		overview, err := service.UserSyncStatus(context.Background(), testOwner)
		require.NoError(t, err)

		assert.Equal(t, 2, overview.TotalDomains)
		assert.Equal(t, 1, overview.Synced)
		assert.Equal(t, 1, overview.Pending)

		byLabel := map[string]*sync.UserDomainStatus{}
		for _, entry := range overview.Domains {
			byLabel[entry.Label] = entry
		}
		require.Contains(t, byLabel, "alice")
		require.Contains(t, byLabel, "bobby")
		assert.True(t, byLabel["alice"].Synced)
		assert.Nil(t, byLabel["alice"].Transaction)
		assert.False(t, byLabel["bobby"].Synced)
		require.NotNil(t, byLabel["bobby"].Transaction)
		assert.Equal(t, "100", byLabel["bobby"].Transaction.Value)

		repaired, err := repo.Get(context.Background(), "alice", "")
		require.NoError(t, err)
		assert.Equal(t, sync.StateSynced, repaired.State)
		assert.Equal(t, "42", repaired.AtomID)
	})

	t.Run("invalid_address_rejected", func(t *testing.T) {
		service := newTestService(newFakeRepo(), newFakeDomainRepo(), newFakeVault(), &fakeCostCache{})

		_, err := service.UserSyncStatus(context.Background(), "not-an-address")
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})
}

/*
TestCheckDomain compares live atom existence with the stored ledger
state for a single domain.
*/
func TestCheckDomain(t *testing.T) {
	t.Run("on_chain_with_stored_row", func(t *testing.T) {
		repo := newFakeRepo()
		require.NoError(t, repo.Upsert(context.Background(), &sync.Status{
			DomainLabel: "alice", AtomURI: "tns:domain:alice", State: sync.StateSynced,
		}))
		domainRepo := newFakeDomainRepo()
		require.NoError(t, domainRepo.Upsert(context.Background(), &domains.Domain{
			Label: "alice", FullName: "alice.trust", Owner: testOwner,
		}))
		vault := newFakeVault()
		vault.addAtom("tns:domain:alice", 7)
		service := newTestService(repo, domainRepo, vault, &fakeCostCache{})

		check, err := service.CheckDomain(context.Background(), "alice.trust")
		require.NoError(t, err)

		assert.Equal(t, "alice.trust", check.Domain)
		assert.Equal(t, testOwner, check.Owner)
		assert.True(t, check.ExistsOnChain)
		assert.Equal(t, "7", check.AtomID)
		assert.Equal(t, sync.StateSynced, check.StoredStatus)
	})

	t.Run("unknown_domain_reports_unsynced", func(t *testing.T) {
		service := newTestService(newFakeRepo(), newFakeDomainRepo(), newFakeVault(), &fakeCostCache{})

		check, err := service.CheckDomain(context.Background(), "ghost")
		require.NoError(t, err)

		assert.False(t, check.ExistsOnChain)
		assert.Equal(t, sync.StateUnsynced, check.StoredStatus)
		assert.Empty(t, check.Owner)
	})
}

/*
TestRecordSyncRows checks the standard predicate sweep for a domain.
*/
func TestRecordSyncRows(t *testing.T) {
	vault := newFakeVault()
	vault.addAtom("tns:domain:alice", 1)
	vault.addAtom("tns:predicate:email", 2)
	repo := newFakeRepo()
	require.NoError(t, repo.Upsert(context.Background(), &sync.Status{
		DomainLabel: "alice", RecordKey: "email", RecordValue: "a@b.com",
		AtomURI: "tns:value:email:a@b.com", State: sync.StateSynced,
	}))
	service := newTestService(repo, newFakeDomainRepo(), vault, &fakeCostCache{})

	checks, err := service.RecordSyncRows(context.Background(), "alice")
	require.NoError(t, err)

	assert.True(t, checks.DomainAtom.Exists)
	assert.Equal(t, "1", checks.DomainAtom.AtomID)
	require.Len(t, checks.Predicates, len(sync.RecordPredicateKeys))

	byKey := map[string]sync.PredicateCheck{}
	for _, check := range checks.Predicates {
		byKey[check.Key] = check
	}
	assert.True(t, byKey["email"].Exists)
	assert.Equal(t, "2", byKey["email"].AtomID)
	assert.False(t, byKey["com.twitter"].Exists)

	require.Len(t, checks.Stored, 1)
	assert.Equal(t, "email", checks.Stored[0].RecordKey)
}

/*
TestPending lists pending rows with retry transactions for domain atoms.
*/
func TestPending(t *testing.T) {
	repo := newFakeRepo()
	require.NoError(t, repo.Upsert(context.Background(), &sync.Status{
		DomainLabel: "alice", AtomURI: "tns:domain:alice", State: sync.StatePending,
	}))
	require.NoError(t, repo.Upsert(context.Background(), &sync.Status{
		DomainLabel: "alice", RecordKey: "email", RecordValue: "a@b.com",
		AtomURI: "tns:value:email:a@b.com", State: sync.StatePending, AtomsCreated: true,
	}))
	service := newTestService(repo, newFakeDomainRepo(), newFakeVault(), &fakeCostCache{})

	list, err := service.Pending(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, list.Count)
	assert.Equal(t, "100", list.AtomCostWei)

	var domainTx, recordTx *chain.TxWire
	for _, item := range list.Items {
		if item.RecordKey == "" {
			domainTx = item.Transaction
		} else {
			recordTx = item.Transaction
		}
	}
	require.NotNil(t, domainTx)
	assert.Equal(t, "100", domainTx.Value)
	assert.Nil(t, recordTx)
}
