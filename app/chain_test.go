package app

import (
	"context"
	"testing"

	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weavetest"
	"github.com/iov-one/tokenswap/x/utils"
	"github.com/stretchr/testify/assert"
)

func TestChain(t *testing.T) {
	c1 := &weavetest.Decorator{}
	c2 := &weavetest.Decorator{}
	c3 := &weavetest.Decorator{}
	var skipped *weavetest.Decorator
	h := &weavetest.Handler{}

	stack := ChainDecorators(
		c1,
		utils.NewLogging(),
		utils.NewRecovery(),
		skipped,
		c2,
	).Chain(c3).WithHandler(h)

	ctx := context.Background()
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/chain"}}

	_, err := stack.Check(ctx, nil, tx)
	assert.NoError(t, err)
	_, err = stack.Deliver(ctx, nil, tx)
	assert.NoError(t, err)

	assert.Equal(t, 2, c1.CallCount())
	assert.Equal(t, 2, c2.CallCount())
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())

	// a panic is stopped by the recovery decorator
	panicking := ChainDecorators(c1, utils.NewRecovery(), c2).
		WithHandler(weavetest.PanicHandler{Value: "boom"})
	_, err = panicking.Check(ctx, nil, tx)
	assert.True(t, errors.ErrPanic.Is(err))
	_, err = panicking.Deliver(ctx, nil, tx)
	assert.True(t, errors.ErrPanic.Is(err))

	assert.Equal(t, 4, c1.CallCount())
	assert.Equal(t, 4, c2.CallCount())
}

func TestChainDoesNotShareDecorators(t *testing.T) {
	base := ChainDecorators(&weavetest.Decorator{})
	a := base.Chain(&weavetest.Decorator{DeliverErr: errors.ErrAmount})
	b := base.Chain(&weavetest.Decorator{})

	ctx := context.Background()
	tx := &weavetest.Tx{}
	_, err := a.WithHandler(&weavetest.Handler{}).Deliver(ctx, nil, tx)
	assert.True(t, errors.ErrAmount.Is(err))
	_, err = b.WithHandler(&weavetest.Handler{}).Deliver(ctx, nil, tx)
	assert.NoError(t, err)
}
