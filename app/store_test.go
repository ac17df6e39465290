package app

import (
	"context"
	"testing"

	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/orm"
	"github.com/iov-one/tokenswap/store/iavl"
	"github.com/iov-one/tokenswap/weave"
	"github.com/iov-one/tokenswap/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

type genesisRecorder struct {
	opts weave.Options
}

func (g *genesisRecorder) FromGenesis(opts weave.Options, kv weave.KVStore) error {
	g.opts = opts
	return kv.Set([]byte("genesis"), []byte("loaded"))
}

func newTestApp(t *testing.T, kv weave.CommitKVStore, h weave.Handler) BaseApp {
	t.Helper()
	qr := weave.NewQueryRouter()
	qr.RegisterAll(orm.RegisterQuery)
	decoder := func(raw []byte) (weave.Tx, error) {
		if len(raw) == 0 {
			return nil, errors.Wrap(errors.ErrInput, "empty tx")
		}
		return &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/write", Serialized: raw}}, nil
	}
	return NewBaseApp(NewStoreApp("swaptest", kv, qr, context.Background()), decoder, h, false)
}

func queryOne(t *testing.T, a BaseApp, path string, key []byte) []byte {
	t.Helper()
	res := a.Query(abci.RequestQuery{Path: path, Data: key})
	require.Equal(t, uint32(errors.SuccessABCICode), res.Code, res.Log)
	var keys, values ResultSet
	require.NoError(t, keys.Unmarshal(res.Key))
	require.NoError(t, values.Unmarshal(res.Value))
	models, err := JoinResults(&keys, &values)
	require.NoError(t, err)
	if len(models) == 0 {
		return nil
	}
	return models[0].Value
}

func TestStoreAppLifecycle(t *testing.T) {
	kv, err := iavl.NewCommitStore("", "")
	require.NoError(t, err)
	defer kv.Close()

	h := weavetest.WriteHandler{Key: []byte("written"), Value: []byte("by tx")}
	a := newTestApp(t, kv, h)
	init := &genesisRecorder{}
	a.WithInit(init)

	assert.Panics(t, func() {
		a.InitChain(abci.RequestInitChain{ChainId: "swap-test-1"})
	}, "missing app_state")

	a.InitChain(abci.RequestInitChain{
		ChainId:       "swap-test-1",
		AppStateBytes: []byte(`{"escrow": {"ids": 1}}`),
	})
	assert.Equal(t, "swap-test-1", a.GetChainID())
	assert.Contains(t, init.opts, "escrow")

	assert.Panics(t, func() {
		a.InitChain(abci.RequestInitChain{ChainId: "swap-test-2", AppStateBytes: []byte(`{}`)})
	}, "chain id can be set only once")

	a.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1}})
	height, ok := weave.GetHeight(a.BlockContext())
	require.True(t, ok)
	assert.Equal(t, int64(1), height)

	cres := a.CheckTx([]byte("tx"))
	require.Equal(t, uint32(errors.SuccessABCICode), cres.Code, cres.Log)
	dres := a.DeliverTx([]byte("tx"))
	require.Equal(t, uint32(errors.SuccessABCICode), dres.Code, dres.Log)

	bad := a.DeliverTx(nil)
	assert.Equal(t, errors.ErrInput.ABCICode(), bad.Code)

	// nothing is visible to queries until committed
	assert.Nil(t, queryOne(t, a, "/", []byte("written")))
	a.EndBlock(abci.RequestEndBlock{Height: 1})
	commit := a.Commit()
	assert.NotEmpty(t, commit.Data)

	assert.Equal(t, []byte("by tx"), queryOne(t, a, "/", []byte("written")))
	assert.Equal(t, []byte("loaded"), queryOne(t, a, "/", []byte("genesis")))

	info := a.Info(abci.RequestInfo{})
	assert.Equal(t, "swaptest", info.Data)
	assert.Equal(t, int64(1), info.LastBlockHeight)
	assert.Equal(t, commit.Data, info.LastBlockAppHash)

	unknown := a.Query(abci.RequestQuery{Path: "/nothing/here"})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), unknown.Code)

	// a restarted application picks up the stored chain id
	again := newTestApp(t, kv, h)
	assert.Equal(t, "swap-test-1", again.GetChainID())
	assert.Equal(t, "swap-test-1", weave.GetChainID(again.BlockContext()))
}

func TestSplitPath(t *testing.T) {
	path, mod := splitPath("/escrows/initializer?prefix")
	assert.Equal(t, "/escrows/initializer", path)
	assert.Equal(t, "prefix", mod)

	path, mod = splitPath("/accounts")
	assert.Equal(t, "/accounts", path)
	assert.Equal(t, "", mod)
}
