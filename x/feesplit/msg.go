package feesplit

import (
	"github.com/iov-one/tokenswap/codec"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weave"
)

const pathTransferMsg = "feesplit/transfer"

// TransferMsg pays Amount from Source, split between Receiver and the
// configured service account.
type TransferMsg struct {
	Source   weave.Address
	Receiver weave.Address
	Amount   uint64
}

var _ weave.Msg = (*TransferMsg)(nil)

func (TransferMsg) Path() string {
	return pathTransferMsg
}

func (m *TransferMsg) Validate() error {
	if err := m.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := m.Receiver.Validate(); err != nil {
		return errors.Wrap(err, "receiver")
	}
	if m.Source.Equals(m.Receiver) {
		return errors.Wrap(errors.ErrInput, "source and receiver must differ")
	}
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "amount must be positive")
	}
	return nil
}

func (m *TransferMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, m.Source).
		Bytes(2, m.Receiver).
		Uint64(3, m.Amount).
		Result(), nil
}

func (m *TransferMsg) Unmarshal(raw []byte) error {
	*m = TransferMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			m.Source, err = d.Bytes()
		case 2:
			m.Receiver, err = d.Bytes()
		case 3:
			m.Amount, err = d.Uint64()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}
