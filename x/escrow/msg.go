package escrow

import (
	"github.com/iov-one/tokenswap/codec"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weave"
)

const (
	pathInitializeMsg = "escrow/initialize"
	pathExchangeMsg   = "escrow/exchange"
	pathCancelMsg     = "escrow/cancel"
)

func validateID(id []byte) error {
	if n := len(id); n < minIDLength || n > maxIDLength {
		return errors.Wrapf(errors.ErrInput, "escrow id must be %d to %d bytes, got %d", minIDLength, maxIDLength, n)
	}
	return nil
}

// InitializeMsg locks InitializerAmount of the deposit account token in a
// new vault, asking for TakerAmount of the receive account token.
type InitializeMsg struct {
	EscrowID                  []byte
	Initializer               weave.Address
	InitializerDepositAccount weave.Address
	InitializerReceiveAccount weave.Address
	VaultBump                 uint32
	InitializerAmount         uint64
	TakerAmount               uint64
}

var _ weave.Msg = (*InitializeMsg)(nil)

func (InitializeMsg) Path() string {
	return pathInitializeMsg
}

func (m *InitializeMsg) Validate() error {
	if err := validateID(m.EscrowID); err != nil {
		return err
	}
	if err := m.Initializer.Validate(); err != nil {
		return errors.Wrap(err, "initializer")
	}
	if err := m.InitializerDepositAccount.Validate(); err != nil {
		return errors.Wrap(err, "initializer deposit account")
	}
	if err := m.InitializerReceiveAccount.Validate(); err != nil {
		return errors.Wrap(err, "initializer receive account")
	}
	if m.InitializerDepositAccount.Equals(m.InitializerReceiveAccount) {
		return errors.Wrap(errors.ErrInput, "deposit and receive accounts must differ")
	}
	if m.VaultBump > 255 {
		return errors.Wrapf(errors.ErrInput, "vault bump %d", m.VaultBump)
	}
	if m.InitializerAmount == 0 {
		return errors.Wrap(errors.ErrAmount, "initializer amount must be positive")
	}
	if m.TakerAmount == 0 {
		return errors.Wrap(errors.ErrAmount, "taker amount must be positive")
	}
	return nil
}

func (m *InitializeMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, m.EscrowID).
		Bytes(2, m.Initializer).
		Bytes(3, m.InitializerDepositAccount).
		Bytes(4, m.InitializerReceiveAccount).
		Uint32(5, m.VaultBump).
		Uint64(6, m.InitializerAmount).
		Uint64(7, m.TakerAmount).
		Result(), nil
}

func (m *InitializeMsg) Unmarshal(raw []byte) error {
	*m = InitializeMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			m.EscrowID, err = d.Bytes()
		case 2:
			m.Initializer, err = d.Bytes()
		case 3:
			m.InitializerDepositAccount, err = d.Bytes()
		case 4:
			m.InitializerReceiveAccount, err = d.Bytes()
		case 5:
			m.VaultBump, err = d.Uint32()
		case 6:
			m.InitializerAmount, err = d.Uint64()
		case 7:
			m.TakerAmount, err = d.Uint64()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// ExchangeMsg completes the swap. The initializer fields must repeat the
// terms stored with the escrow.
type ExchangeMsg struct {
	EscrowID                  []byte
	Taker                     weave.Address
	TakerDepositAccount       weave.Address
	TakerReceiveAccount       weave.Address
	Initializer               weave.Address
	InitializerDepositAccount weave.Address
	InitializerReceiveAccount weave.Address
}

var _ weave.Msg = (*ExchangeMsg)(nil)

func (ExchangeMsg) Path() string {
	return pathExchangeMsg
}

func (m *ExchangeMsg) Validate() error {
	if err := validateID(m.EscrowID); err != nil {
		return err
	}
	if err := m.Taker.Validate(); err != nil {
		return errors.Wrap(err, "taker")
	}
	if err := m.TakerDepositAccount.Validate(); err != nil {
		return errors.Wrap(err, "taker deposit account")
	}
	if err := m.TakerReceiveAccount.Validate(); err != nil {
		return errors.Wrap(err, "taker receive account")
	}
	if err := m.Initializer.Validate(); err != nil {
		return errors.Wrap(err, "initializer")
	}
	if err := m.InitializerDepositAccount.Validate(); err != nil {
		return errors.Wrap(err, "initializer deposit account")
	}
	if err := m.InitializerReceiveAccount.Validate(); err != nil {
		return errors.Wrap(err, "initializer receive account")
	}
	return nil
}

func (m *ExchangeMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, m.EscrowID).
		Bytes(2, m.Taker).
		Bytes(3, m.TakerDepositAccount).
		Bytes(4, m.TakerReceiveAccount).
		Bytes(5, m.Initializer).
		Bytes(6, m.InitializerDepositAccount).
		Bytes(7, m.InitializerReceiveAccount).
		Result(), nil
}

func (m *ExchangeMsg) Unmarshal(raw []byte) error {
	*m = ExchangeMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			m.EscrowID, err = d.Bytes()
		case 2:
			m.Taker, err = d.Bytes()
		case 3:
			m.TakerDepositAccount, err = d.Bytes()
		case 4:
			m.TakerReceiveAccount, err = d.Bytes()
		case 5:
			m.Initializer, err = d.Bytes()
		case 6:
			m.InitializerDepositAccount, err = d.Bytes()
		case 7:
			m.InitializerReceiveAccount, err = d.Bytes()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// CancelMsg returns the locked funds to the initializer deposit account.
type CancelMsg struct {
	EscrowID                  []byte
	Initializer               weave.Address
	InitializerDepositAccount weave.Address
}

var _ weave.Msg = (*CancelMsg)(nil)

func (CancelMsg) Path() string {
	return pathCancelMsg
}

func (m *CancelMsg) Validate() error {
	if err := validateID(m.EscrowID); err != nil {
		return err
	}
	if err := m.Initializer.Validate(); err != nil {
		return errors.Wrap(err, "initializer")
	}
	if err := m.InitializerDepositAccount.Validate(); err != nil {
		return errors.Wrap(err, "initializer deposit account")
	}
	return nil
}

func (m *CancelMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, m.EscrowID).
		Bytes(2, m.Initializer).
		Bytes(3, m.InitializerDepositAccount).
		Result(), nil
}

func (m *CancelMsg) Unmarshal(raw []byte) error {
	*m = CancelMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			m.EscrowID, err = d.Bytes()
		case 2:
			m.Initializer, err = d.Bytes()
		case 3:
			m.InitializerDepositAccount, err = d.Bytes()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}
