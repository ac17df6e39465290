package sigs

import (
	"github.com/iov-one/tokenswap/codec"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weave"
)

const (
	pathBumpSequenceMsg = "sigs/bump_sequence"

	maxSequenceIncrement = 1000
	minSequenceIncrement = 1
)

// BumpSequenceMsg increments the sequence of the signer by given value,
// invalidating every signature prepared for the skipped sequences.
type BumpSequenceMsg struct {
	Increment uint32
}

var _ weave.Msg = (*BumpSequenceMsg)(nil)

func (msg *BumpSequenceMsg) Validate() error {
	if msg.Increment < minSequenceIncrement {
		return errors.Wrapf(errors.ErrMsg, "increment must be at least %d", minSequenceIncrement)
	}
	if msg.Increment > maxSequenceIncrement {
		return errors.Wrapf(errors.ErrMsg, "increment must not be greater than %d", maxSequenceIncrement)
	}
	return nil
}

func (BumpSequenceMsg) Path() string {
	return pathBumpSequenceMsg
}

func (msg *BumpSequenceMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().Uint32(1, msg.Increment).Result(), nil
}

func (msg *BumpSequenceMsg) Unmarshal(raw []byte) error {
	*msg = BumpSequenceMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		if d.Field() == 1 {
			msg.Increment, err = d.Uint32()
		} else {
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}
