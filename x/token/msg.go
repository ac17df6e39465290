package token

import (
	"github.com/iov-one/tokenswap/codec"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weave"
)

const (
	pathOpenMsg     = "token/open"
	pathTransferMsg = "token/transfer"
)

// OpenMsg opens an empty token account. Payer covers the storage deposit
// and must sign the transaction.
type OpenMsg struct {
	ID    weave.Address
	Mint  string
	Owner weave.Address
	Payer weave.Address
}

var _ weave.Msg = (*OpenMsg)(nil)

func (OpenMsg) Path() string {
	return pathOpenMsg
}

func (m *OpenMsg) Validate() error {
	if err := m.ID.Validate(); err != nil {
		return errors.Wrap(err, "id")
	}
	if !IsMint(m.Mint) {
		return errors.Wrapf(errors.ErrCurrency, "invalid mint %q", m.Mint)
	}
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := m.Payer.Validate(); err != nil {
		return errors.Wrap(err, "payer")
	}
	return nil
}

func (m *OpenMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, m.ID).
		String(2, m.Mint).
		Bytes(3, m.Owner).
		Bytes(4, m.Payer).
		Result(), nil
}

func (m *OpenMsg) Unmarshal(raw []byte) error {
	*m = OpenMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			m.ID, err = d.Bytes()
		case 2:
			m.Mint, err = d.String()
		case 3:
			m.Owner, err = d.Bytes()
		case 4:
			m.Payer, err = d.Bytes()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// TransferMsg moves tokens between two accounts of the same mint. The
// owner of the source account must sign the transaction.
type TransferMsg struct {
	Source      weave.Address
	Destination weave.Address
	Amount      uint64
}

var _ weave.Msg = (*TransferMsg)(nil)

func (TransferMsg) Path() string {
	return pathTransferMsg
}

func (m *TransferMsg) Validate() error {
	if err := m.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero amount")
	}
	return nil
}

func (m *TransferMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, m.Source).
		Bytes(2, m.Destination).
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
			m.Destination, err = d.Bytes()
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
