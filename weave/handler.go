package weave

import (
	"encoding/json"
)

// Checker validates a tx against the current state without persisting it.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer executes a tx. Every write is kept unless an outer layer rolls
// it back.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Handler processes one or more message types, for example an escrow
// exchange or a fee split transfer.
type Handler interface {
	Checker
	Deliverer
}

// Decorator is middleware shared by all handlers, such as signature
// verification or logging. It decides whether and how next is called.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry binds message types to handlers. Registering a path twice
// panics.
type Registry interface {
	Handle(Msg, Handler)
}

// CheckResult is returned by a successful Check. Data is machine readable,
// such as a new escrow id, Log is meant for humans. GasPayment is the fee
// the tx offers and GasAllocated the work it may perform.
type CheckResult struct {
	Data         []byte
	Log          string
	GasAllocated int64
	GasPayment   int64
}

// DeliverResult is returned by a successful Deliver.
type DeliverResult struct {
	Data    []byte
	Log     string
	GasUsed int64
}

// Options is the decoded genesis app_state. Every extension reads its own
// key.
type Options map[string]json.RawMessage

// ReadOptions decodes the value under key into obj. A missing key leaves
// obj untouched.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw, ok := o[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, obj)
}

// Initializer loads the genesis state of one extension.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// ChainInitializers runs inits in order and stops at the first failure.
func ChainInitializers(inits ...Initializer) Initializer {
	return initializers(inits)
}

type initializers []Initializer

func (list initializers) FromGenesis(opts Options, kv KVStore) error {
	for _, init := range list {
		if err := init.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
