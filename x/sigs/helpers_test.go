package sigs

import (
	"github.com/iov-one/tokenswap/weave"
	"github.com/iov-one/tokenswap/weavetest"
)

// StdTx is a signed transaction carrying a mock message.
type StdTx struct {
	weavetest.Tx
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)
var _ weave.Tx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	msg := &weavetest.Msg{RoutePath: "test/mock", Serialized: payload}
	return &StdTx{Tx: weavetest.Tx{Msg: msg}}
}

func (tx *StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx *StdTx) GetSignBytes() ([]byte, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return msg.Marshal()
}

// SigCheckHandler stores the seen signers on each call
type SigCheckHandler struct {
	Signers []weave.Condition
}

var _ weave.Handler = (*SigCheckHandler)(nil)

func (s *SigCheckHandler) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &weave.CheckResult{}, nil
}

func (s *SigCheckHandler) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &weave.DeliverResult{}, nil
}
