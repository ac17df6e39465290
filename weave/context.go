package weave

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/iov-one/tokenswap/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Context carries block data from the app down to the handlers. Height and
// chain id are set once by the app and cannot be replaced further down the
// stack, setting them twice panics.
type Context = context.Context

type ctxKey int

const (
	heightKey ctxKey = iota
	chainIDKey
	blockTimeKey
	loggerKey
)

// DefaultLogger is returned by GetLogger when no logger was attached.
var DefaultLogger = log.NewNopLogger()

var chainIDFormat = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`)

// IsValidChainID reports whether id can name a chain.
func IsValidChainID(id string) bool {
	return chainIDFormat.MatchString(id)
}

func WithHeight(ctx Context, height int64) Context {
	if _, ok := GetHeight(ctx); ok {
		panic("height already set")
	}
	return context.WithValue(ctx, heightKey, height)
}

// GetHeight returns false when the context is not bound to a block.
func GetHeight(ctx Context) (int64, bool) {
	h, ok := ctx.Value(heightKey).(int64)
	return h, ok
}

// WithBlockTime stores t in UTC.
func WithBlockTime(ctx Context, t time.Time) Context {
	return context.WithValue(ctx, blockTimeKey, t.UTC())
}

func BlockTime(ctx Context) (time.Time, error) {
	t, ok := ctx.Value(blockTimeKey).(time.Time)
	if !ok {
		return time.Time{}, errors.Wrap(errors.ErrHuman, "block time not present in the context")
	}
	return t, nil
}

func WithChainID(ctx Context, chainID string) Context {
	switch {
	case ctx.Value(chainIDKey) != nil:
		panic("chain id already set")
	case !IsValidChainID(chainID):
		panic(fmt.Sprintf("invalid chain id %q", chainID))
	}
	return context.WithValue(ctx, chainIDKey, chainID)
}

// GetChainID panics outside of an app context, handlers always run with a
// chain id.
func GetChainID(ctx Context) string {
	id, ok := ctx.Value(chainIDKey).(string)
	if !ok {
		panic("chain id not set")
	}
	return id
}

func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// WithLogInfo attaches keyvals to every entry logged through the returned
// context.
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	return WithLogger(ctx, GetLogger(ctx).With(keyvals...))
}

func GetLogger(ctx Context) log.Logger {
	if l, ok := ctx.Value(loggerKey).(log.Logger); ok {
		return l
	}
	return DefaultLogger
}
