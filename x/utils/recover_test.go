package utils

import (
	"context"
	"testing"

	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/store"
	"github.com/iov-one/tokenswap/weavetest"
	"github.com/stretchr/testify/assert"
)

func TestRecovery(t *testing.T) {
	h := weavetest.Decorate(weavetest.PanicHandler{Value: "boom"}, NewRecovery())
	kv := store.MemStore()
	tx := &weavetest.Tx{}

	_, err := h.Check(context.Background(), kv, tx)
	assert.True(t, errors.ErrPanic.Is(err))
	assert.Contains(t, err.Error(), "boom")

	_, err = h.Deliver(context.Background(), kv, tx)
	assert.True(t, errors.ErrPanic.Is(err))

	// errors of a healthy handler pass through untouched
	ok := &weavetest.Handler{DeliverErr: errors.ErrNotFound.New("escrow")}
	h = weavetest.Decorate(ok, NewRecovery())
	_, err = h.Deliver(context.Background(), kv, &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "escrow/exchange"}})
	assert.True(t, errors.ErrNotFound.Is(err))
	assert.False(t, errors.ErrPanic.Is(err))
	assert.Equal(t, 1, ok.DeliverCallCount())
}

func TestLoggingPassesThrough(t *testing.T) {
	kv := store.MemStore()
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "escrow/cancel"}}

	ok := &weavetest.Handler{}
	h := weavetest.Decorate(ok, NewLogging())
	_, err := h.Deliver(context.Background(), kv, tx)
	assert.NoError(t, err)
	assert.Equal(t, 1, ok.DeliverCallCount())

	fail := &weavetest.Handler{CheckErr: errors.ErrNotFound.New("escrow")}
	h = weavetest.Decorate(fail, NewLogging())
	_, err = h.Check(context.Background(), kv, tx)
	assert.True(t, errors.ErrNotFound.Is(err))
}
