package app

import (
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weave"
)

// CommitStore keeps the persisted state together with the two pending
// layers a block works on: deliver is flushed on Commit, check is thrown
// away.
type CommitStore struct {
	committed weave.CommitKVStore
	deliver   weave.KVCacheWrap
	check     weave.KVCacheWrap
}

// NewCommitStore opens the newest version of store. It panics when the
// state cannot be loaded, as there is no way to continue without it.
func NewCommitStore(store weave.CommitKVStore) *CommitStore {
	if err := store.LoadLatestVersion(); err != nil {
		panic(err)
	}
	cs := &CommitStore{committed: store}
	cs.reset()
	return cs
}

func (cs *CommitStore) reset() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

// CommitInfo returns the version and root hash of the last commit.
func (cs *CommitStore) CommitInfo() (weave.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit persists everything delivered since the previous commit and
// starts a fresh pair of pending layers. Calls are serialized by the ABCI
// connection, there is no locking.
func (cs *CommitStore) Commit() (weave.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return weave.CommitID{}, errors.Wrap(err, "flush deliver")
	}
	cs.check.Discard()

	id, err := cs.committed.Commit()
	if err != nil {
		return id, err
	}
	cs.reset()
	return id, nil
}

// CheckStore is the layer CheckTx runs against.
func (cs *CommitStore) CheckStore() weave.CacheableKVStore {
	return cs.check
}

// DeliverStore is the layer DeliverTx and InitChain write to.
func (cs *CommitStore) DeliverStore() weave.CacheableKVStore {
	return cs.deliver
}

// chainIDKey lives outside of every bucket namespace, bucket names cannot
// start with an underscore.
const chainIDKey = "_sw:chainID"

// mustLoadChainID returns the stored chain id or an empty string if the
// chain was never initialized.
func mustLoadChainID(kv weave.ReadOnlyKVStore) string {
	raw, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		panic(err)
	}
	return string(raw)
}

// saveChainID records the chain id once. A second call fails.
func saveChainID(kv weave.KVStore, chainID string) error {
	if !weave.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	switch known, err := kv.Has([]byte(chainIDKey)); {
	case err != nil:
		return errors.Wrap(err, "load chain id")
	case known:
		return errors.Wrap(errors.ErrUnauthorized, "chain id is set at genesis only")
	}
	return errors.Wrap(kv.Set([]byte(chainIDKey), []byte(chainID)), "save chain id")
}
