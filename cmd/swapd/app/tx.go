package app

import (
	"github.com/iov-one/tokenswap/codec"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weave"
	"github.com/iov-one/tokenswap/x/escrow"
	"github.com/iov-one/tokenswap/x/feesplit"
	"github.com/iov-one/tokenswap/x/sigs"
	"github.com/iov-one/tokenswap/x/token"
)

// Message field numbers of the transaction envelope. Exactly one of them is
// set on a valid transaction.
const (
	fieldTokenOpen        = 1
	fieldTokenTransfer    = 2
	fieldEscrowInitialize = 3
	fieldEscrowExchange   = 4
	fieldEscrowCancel     = 5
	fieldFeesplitTransfer = 6
	fieldBumpSequence     = 7

	fieldSignatures = 20
)

// Tx is the transaction envelope of the swap daemon. It carries a single
// message and the signatures of all parties authorizing it.
type Tx struct {
	Msg        weave.Msg
	Signatures []*sigs.StdSignature
}

// make sure tx fulfills all interfaces
var _ weave.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (weave.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetMsg returns the single message carried by this transaction.
func (tx *Tx) GetMsg() (weave.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "transaction without message")
	}
	return tx.Msg, nil
}

// GetSignatures returns all signatures attached to the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign. Signatures are not part of the
// signed content.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Msg: tx.Msg}
	return unsigned.Marshal()
}

func (tx *Tx) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	if tx.Msg != nil {
		field, err := msgField(tx.Msg)
		if err != nil {
			return nil, err
		}
		if err := e.Message(field, tx.Msg); err != nil {
			return nil, err
		}
	}
	for _, s := range tx.Signatures {
		if err := e.Message(fieldSignatures, s); err != nil {
			return nil, err
		}
	}
	return e.Result(), nil
}

func (tx *Tx) Unmarshal(raw []byte) error {
	*tx = Tx{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		field := d.Field()
		if field == fieldSignatures {
			bz, err := d.Bytes()
			if err != nil {
				return err
			}
			var sig sigs.StdSignature
			if err := sig.Unmarshal(bz); err != nil {
				return errors.Wrap(err, "signature")
			}
			tx.Signatures = append(tx.Signatures, &sig)
			continue
		}

		msg := newMsg(field)
		if msg == nil {
			if err := d.Skip(); err != nil {
				return err
			}
			continue
		}
		if tx.Msg != nil {
			return errors.Wrap(errors.ErrMsg, "more than one message")
		}
		bz, err := d.Bytes()
		if err != nil {
			return err
		}
		if err := msg.Unmarshal(bz); err != nil {
			return errors.Wrapf(err, "message %d", field)
		}
		tx.Msg = msg
	}
	return d.Err()
}

func newMsg(field int) weave.Msg {
	switch field {
	case fieldTokenOpen:
		return &token.OpenMsg{}
	case fieldTokenTransfer:
		return &token.TransferMsg{}
	case fieldEscrowInitialize:
		return &escrow.InitializeMsg{}
	case fieldEscrowExchange:
		return &escrow.ExchangeMsg{}
	case fieldEscrowCancel:
		return &escrow.CancelMsg{}
	case fieldFeesplitTransfer:
		return &feesplit.TransferMsg{}
	case fieldBumpSequence:
		return &sigs.BumpSequenceMsg{}
	}
	return nil
}

func msgField(msg weave.Msg) (int, error) {
	switch msg.(type) {
	case *token.OpenMsg:
		return fieldTokenOpen, nil
	case *token.TransferMsg:
		return fieldTokenTransfer, nil
	case *escrow.InitializeMsg:
		return fieldEscrowInitialize, nil
	case *escrow.ExchangeMsg:
		return fieldEscrowExchange, nil
	case *escrow.CancelMsg:
		return fieldEscrowCancel, nil
	case *feesplit.TransferMsg:
		return fieldFeesplitTransfer, nil
	case *sigs.BumpSequenceMsg:
		return fieldBumpSequence, nil
	}
	return 0, errors.Wrapf(errors.ErrMsg, "unsupported message %T", msg)
}
