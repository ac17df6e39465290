package feesplit

import (
	"encoding/binary"

	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weave"
	"github.com/iov-one/tokenswap/x"
	"github.com/iov-one/tokenswap/x/token"
	"github.com/iov-one/tokenswap/x/utils"
)

const transferCost int64 = 60

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r weave.Registry, auth x.Authenticator, tokens token.Controller) {
	r.Handle(&TransferMsg{}, TransferHandler{auth: auth, tokens: tokens})
}

// Split returns the part of amount going to the receiver and the fee.
func Split(fee weave.Fraction, amount uint64) (net uint64, paid uint64, err error) {
	paid, err = fee.MulFloor(amount)
	if err != nil {
		return 0, 0, err
	}
	if paid > amount {
		return 0, 0, errors.Wrapf(errors.ErrOverflow, "fee %d above amount %d", paid, amount)
	}
	return amount - paid, paid, nil
}

// TransferHandler executes the fee split transfer.
type TransferHandler struct {
	auth   x.Authenticator
	tokens token.Controller
}

var _ weave.Handler = TransferHandler{}

func (h TransferHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: transferCost}, nil
}

// Deliver pays the receiver and then the service account. Both
// transfers succeed or none is applied.
func (h TransferHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	s, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	err = utils.Atomic(db, func(db weave.KVStore) error {
		if err := h.tokens.Transfer(ctx, db, s.msg.Source, s.msg.Receiver, s.net); err != nil {
			return errors.Wrap(err, "pay receiver")
		}
		if s.fee == 0 {
			return nil
		}
		return errors.Wrap(h.tokens.Transfer(ctx, db, s.msg.Source, s.conf.ServiceAccount, s.fee), "pay fee")
	})
	if err != nil {
		return nil, err
	}

	weave.GetLogger(ctx).Debug("fee split transfer",
		"source", s.msg.Source, "net", s.net, "fee", s.fee)
	return &weave.DeliverResult{Data: encodeSplit(s.net, s.fee)}, nil
}

type split struct {
	msg  *TransferMsg
	conf *Configuration
	net  uint64
	fee  uint64
}

func (h TransferHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*split, error) {
	var msg TransferMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	src, err := h.tokens.Account(db, msg.Source)
	if err != nil {
		return nil, errors.Wrap(err, "source")
	}
	if src.Amount < msg.Amount {
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "source holds %d, required %d", src.Amount, msg.Amount)
	}
	if !h.auth.HasAddress(ctx, src.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "source owner signature missing")
	}
	net, fee, err := Split(conf.Fee, msg.Amount)
	if err != nil {
		return nil, err
	}
	return &split{msg: &msg, conf: conf, net: net, fee: fee}, nil
}

// encodeSplit serializes net and fee as two big endian integers.
func encodeSplit(net, fee uint64) []byte {
	res := make([]byte, 16)
	binary.BigEndian.PutUint64(res[:8], net)
	binary.BigEndian.PutUint64(res[8:], fee)
	return res
}

// DecodeSplit parses the result data of a fee split transfer.
func DecodeSplit(data []byte) (net, fee uint64, err error) {
	if len(data) != 16 {
		return 0, 0, errors.Wrapf(errors.ErrInput, "result must be 16 bytes, got %d", len(data))
	}
	return binary.BigEndian.Uint64(data[:8]), binary.BigEndian.Uint64(data[8:]), nil
}
