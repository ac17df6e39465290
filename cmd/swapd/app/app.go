/*
Package app links together all the various components
to construct the token swap application.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/tokenswap/app"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/orm"
	"github.com/iov-one/tokenswap/store/iavl"
	"github.com/iov-one/tokenswap/weave"
	"github.com/iov-one/tokenswap/x"
	"github.com/iov-one/tokenswap/x/escrow"
	"github.com/iov-one/tokenswap/x/feesplit"
	"github.com/iov-one/tokenswap/x/sigs"
	"github.com/iov-one/tokenswap/x/token"
	"github.com/iov-one/tokenswap/x/utils"
)

// Name is reported by the ABCI Info call.
const Name = "swapd"

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return sigs.Authenticate{}
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment nonce
		// even if the message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching to the ledger, escrow, fee split and
// sequence handlers.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	token.RegisterRoutes(r, authFn, token.NewController(authFn))
	// vault accounts are owned by the program authority, only the
	// escrow handlers can sign for it
	escrow.RegisterRoutes(r, authFn, token.NewController(x.ChainAuth(authFn, escrow.ProgramAuth{})))
	feesplit.RegisterRoutes(r, authFn, token.NewController(authFn))
	sigs.RegisterRoutes(r, authFn)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/escrows", "/accounts", "/reserves", "/auth" and "/"
func QueryRouter() weave.QueryRouter {
	r := weave.NewQueryRouter()
	r.RegisterAll(
		escrow.RegisterQuery,
		token.RegisterQuery,
		sigs.RegisterQuery,
		orm.RegisterQuery,
	)
	return r
}

// Initializers returns all genesis initializers of the application.
func Initializers() weave.Initializer {
	return weave.ChainInitializers(
		token.Initializer{},
		escrow.Initializer{},
		feesplit.Initializer{},
	)
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack() weave.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn))
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h weave.Handler,
	tx weave.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {

	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	store.WithInit(Initializers())
	return app.NewBaseApp(store, tx, h, debug), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path. An empty path keeps the data in memory.
func CommitKVStore(dbPath string) (weave.CommitKVStore, error) {
	if dbPath == "" {
		return openCommitStore("", "")
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return openCommitStore(dir, name)
}

func openCommitStore(dir, name string) (weave.CommitKVStore, error) {
	s, err := iavl.NewCommitStore(dir, name)
	if err != nil {
		return nil, err
	}
	return s, nil
}
