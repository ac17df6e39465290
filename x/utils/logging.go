package utils

import (
	"time"

	"github.com/iov-one/tokenswap/weave"
)

// Logging writes one entry per processed tx with its path and duration.
// Failures are logged as errors, successful deliveries as info and
// successful checks as debug.
type Logging struct{}

var _ weave.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	var log string
	if res != nil {
		log = res.Log
	}
	logTx(ctx, tx, time.Since(start), log, err, true)
	return res, err
}

func (Logging) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	var log string
	if res != nil {
		log = res.Log
	}
	logTx(ctx, tx, time.Since(start), log, err, false)
	return res, err
}

// logTx emits the entry even for an empty message.
func logTx(ctx weave.Context, tx weave.Tx, took time.Duration, msg string, err error, check bool) {
	logger := weave.GetLogger(ctx).With("path", weave.GetPath(tx), "duration", took/time.Microsecond)
	if err != nil {
		logger.With("err", err).Error(msg)
	} else if check {
		logger.Debug(msg)
	} else {
		logger.Info(msg)
	}
}
