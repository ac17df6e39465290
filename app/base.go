package app

import (
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weave"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp is a StoreApp that also runs transactions through a handler.
type BaseApp struct {
	*StoreApp
	decoder weave.TxDecoder
	handler weave.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp wires a decoder and a handler stack to the store. With debug
// set, error logs keep their full stack.
func NewBaseApp(store *StoreApp, decoder weave.TxDecoder, handler weave.Handler, debug bool) BaseApp {
	return BaseApp{StoreApp: store, decoder: decoder, handler: handler, debug: debug}
}

func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, ctx, err := b.prepare("check_tx", txBytes)
	if err != nil {
		return weave.CheckTxError(err, b.debug)
	}
	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return weave.CheckOrError(res, err, b.debug)
}

func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, ctx, err := b.prepare("deliver_tx", txBytes)
	if err != nil {
		return weave.DeliverTxError(err, b.debug)
	}
	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return weave.DeliverOrError(res, err, b.debug)
}

// prepare decodes the tx and tags the block context logger with the call
// and the message path. A panicking decoder is reported as an error.
func (b BaseApp) prepare(call string, raw []byte) (tx weave.Tx, ctx weave.Context, err error) {
	defer errors.Recover(&err)
	if tx, err = b.decoder(raw); err != nil {
		return nil, nil, err
	}
	ctx = weave.WithLogInfo(b.BlockContext(), "call", call, "path", weave.GetPath(tx))
	return tx, ctx, nil
}
