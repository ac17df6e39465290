package weave

import (
	"github.com/iov-one/tokenswap/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// DeliverOrError builds the DeliverTx response of a processed transaction.
func DeliverOrError(res *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	return res.ToABCI()
}

// CheckOrError builds the CheckTx response of a checked transaction.
func CheckOrError(res *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	return res.ToABCI()
}

// ParseDeliverOrError reverses DeliverOrError. A failed response gives an
// error that matches its root error with Is.
func ParseDeliverOrError(res abci.ResponseDeliverTx) (*DeliverResult, error) {
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return &DeliverResult{Data: res.Data, Log: res.Log, GasUsed: res.GasUsed}, nil
}

func (d *DeliverResult) ToABCI() abci.ResponseDeliverTx {
	if d == nil {
		return abci.ResponseDeliverTx{}
	}
	return abci.ResponseDeliverTx{Data: d.Data, Log: d.Log, GasUsed: d.GasUsed}
}

func (c *CheckResult) ToABCI() abci.ResponseCheckTx {
	if c == nil {
		return abci.ResponseCheckTx{}
	}
	return abci.ResponseCheckTx{Data: c.Data, Log: c.Log, GasWanted: c.GasAllocated}
}

// DeliverTxError reports err with its ABCI code. The log is redacted for
// internal errors unless debug is set.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := txErrorInfo("deliver", err, debug)
	return abci.ResponseDeliverTx{Code: code, Log: log}
}

// CheckTxError is DeliverTxError for CheckTx.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := txErrorInfo("check", err, debug)
	return abci.ResponseCheckTx{Code: code, Log: log}
}

func txErrorInfo(phase string, err error, debug bool) (uint32, string) {
	code, log := errors.ABCIInfo(err, debug)
	if code != errors.SuccessABCICode {
		log = "cannot " + phase + " tx: " + log
	}
	return code, log
}
