package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weave"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp is the state half of an ABCI application. It owns the store,
// answers Info and Query, commits blocks and loads genesis. Transaction
// processing is added by BaseApp, which embeds it.
//
// Info, InitChain and Commit have no way to return an error to the
// consensus engine. A failure there means local state is broken and the
// node panics.
type StoreApp struct {
	logger log.Logger
	name   string
	store  *CommitStore

	initializer weave.Initializer
	queryRouter weave.QueryRouter

	// chainID is empty until InitChain ran, on restarts it is read back
	// from the store.
	chainID string

	// baseContext lives as long as the process, blockContext is replaced
	// on every BeginBlock.
	baseContext  weave.Context
	blockContext weave.Context
}

// NewStoreApp loads the latest state from store. It panics if that state
// cannot be read.
func NewStoreApp(name string, store weave.CommitKVStore,
	queryRouter weave.QueryRouter, baseContext weave.Context) *StoreApp {
	s := &StoreApp{
		name:        name,
		store:       NewCommitStore(store),
		queryRouter: queryRouter,
		baseContext: baseContext,
	}
	s.WithLogger(log.NewNopLogger())

	if id := mustLoadChainID(s.DeliverStore()); id != "" {
		s.setChainID(id)
	}

	last, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.blockContext = weave.WithHeight(s.baseContext, last.Version)
	return s
}

// GetChainID returns the chain this state belongs to.
func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// WithInit sets the genesis loader run by InitChain.
func (s *StoreApp) WithInit(init weave.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithLogger replaces the logger of the app and of every context derived
// from it.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger
	s.baseContext = weave.WithLogger(s.baseContext, logger)
	return s
}

func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// BlockContext returns the context of the block being processed.
func (s *StoreApp) BlockContext() weave.Context {
	return s.blockContext
}

func (s *StoreApp) DeliverStore() weave.CacheableKVStore {
	return s.store.DeliverStore()
}

func (s *StoreApp) CheckStore() weave.CacheableKVStore {
	return s.store.CheckStore()
}

func (s *StoreApp) setChainID(id string) {
	s.chainID = id
	s.baseContext = weave.WithChainID(s.baseContext, id)
}

// loadGenesis runs once per chain. It persists the chain id and hands the
// decoded app_state to the initializer.
func (s *StoreApp) loadGenesis(appState []byte, chainID string) error {
	switch {
	case s.chainID != "":
		return errors.Wrapf(errors.ErrState, "genesis already loaded for %s", s.chainID)
	case len(appState) == 0:
		return errors.Wrap(errors.ErrEmpty, "genesis has no app_state, run init first")
	}

	var opts weave.Options
	if err := json.Unmarshal(appState, &opts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := saveChainID(s.DeliverStore(), chainID); err != nil {
		return err
	}
	s.setChainID(chainID)

	if s.initializer == nil {
		return nil
	}
	return s.initializer.FromGenesis(opts, s.DeliverStore())
}

// Info reports the name of the application and the last committed block.
func (s *StoreApp) Info(abci.RequestInfo) abci.ResponseInfo {
	last, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.logger.Info("state loaded", "height", last.Version, "hash", fmt.Sprintf("%X", last.Hash))
	return abci.ResponseInfo{
		Data:             s.name,
		LastBlockHeight:  last.Version,
		LastBlockAppHash: last.Hash,
	}
}

// SetOption is not supported.
func (s *StoreApp) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

// Query reads the last committed state. The request path selects a query
// handler and may carry a modifier after "?", for example
// "/escrows?prefix". Key and Value of the response are both encoded
// ResultSets of equal length.
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	path, mod := splitPath(req.Path)
	h := s.queryRouter.Handler(path)
	if h == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "query path %q", req.Path))
	}

	last, err := s.store.CommitInfo()
	if err != nil {
		return queryError(err)
	}
	view := s.store.committed.CacheWrap()
	defer view.Discard()

	found, err := h.Query(view, mod, req.Data)
	if err != nil {
		return queryError(err)
	}

	keys, err := ResultsFromKeys(found).Marshal()
	if err != nil {
		return queryError(err)
	}
	values, err := ResultsFromValues(found).Marshal()
	if err != nil {
		return queryError(err)
	}
	return abci.ResponseQuery{Height: last.Version, Key: keys, Value: values}
}

// splitPath separates the handler path from the optional modifier.
func splitPath(full string) (path, mod string) {
	if i := strings.IndexByte(full, '?'); i >= 0 {
		return full[:i], full[i+1:]
	}
	return full, ""
}

func queryError(err error) abci.ResponseQuery {
	code, msg := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{Code: code, Log: msg}
}

// Commit persists the delivered block.
func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.store.Commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("block committed", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}

// InitChain loads the genesis app_state.
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.loadGenesis(req.AppStateBytes, req.ChainId); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// BeginBlock prepares the context shared by all transactions of the block.
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := weave.WithHeight(s.baseContext, req.Header.GetHeight())
	s.blockContext = weave.WithBlockTime(ctx, req.Header.GetTime())
	return abci.ResponseBeginBlock{}
}

// EndBlock does nothing, the validator set never changes.
func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}
