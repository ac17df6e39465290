package sigs

import (
	"github.com/iov-one/tokenswap/codec"
	"github.com/iov-one/tokenswap/crypto"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/orm"
	"github.com/iov-one/tokenswap/weave"
)

// BucketName is the key space of signer records.
const BucketName = "sigs"

// maxSequence is Number.MAX_SAFE_INTEGER, the largest nonce a javascript
// client can hold.
const maxSequence = 1<<53 - 1

// UserData holds the public key of a signer and the sequence its next
// signature must carry.
type UserData struct {
	Pubkey   *crypto.PublicKey
	Sequence int64
}

var _ orm.CloneableData = (*UserData)(nil)

func (u *UserData) Validate() error {
	switch {
	case u.Sequence < 0:
		return errors.Wrap(ErrInvalidSequence, "negative")
	case u.Sequence > 0 && u.Pubkey == nil:
		return errors.Wrap(ErrInvalidSequence, "sequence without public key")
	}
	return nil
}

func (u *UserData) Copy() orm.CloneableData {
	c := *u
	return &c
}

// CheckAndIncrementSequence consumes expected, which must be the current
// sequence.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "want %d, got %d", u.Sequence, expected)
	}
	if u.Sequence >= maxSequence {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence++
	return nil
}

func (u *UserData) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	if u.Pubkey != nil {
		if err := e.Message(1, u.Pubkey); err != nil {
			return nil, err
		}
	}
	return e.Int64(2, u.Sequence).Result(), nil
}

func (u *UserData) Unmarshal(raw []byte) error {
	*u = UserData{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			u.Pubkey = &crypto.PublicKey{}
			err = decodeInto(d, u.Pubkey)
		case 2:
			u.Sequence, err = d.Int64()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

func decodeInto(d *codec.Decoder, p weave.Persistent) error {
	raw, err := d.Bytes()
	if err != nil {
		return err
	}
	return p.Unmarshal(raw)
}

// AsUser returns the UserData of a bucket object, nil for a miss.
func AsUser(obj orm.Object) *UserData {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*UserData)
}

// NewUser returns a fresh record keyed by the address of pubkey.
func NewUser(pubkey *crypto.PublicKey) orm.Object {
	var key weave.Address
	if pubkey != nil {
		key = pubkey.Address()
	}
	return orm.NewSimpleObj(key, &UserData{Pubkey: pubkey})
}

// Bucket stores one UserData per signer address.
type Bucket struct {
	orm.Bucket
}

func NewBucket() Bucket {
	return Bucket{Bucket: orm.NewBucket(BucketName, NewUser(nil))}
}

// GetOrCreate returns the stored record of pubkey or an unsaved one with
// sequence zero.
func (b Bucket) GetOrCreate(db weave.KVStore, pubkey *crypto.PublicKey) (orm.Object, error) {
	obj, err := b.Get(db, pubkey.Address())
	if err != nil {
		return nil, err
	}
	if obj == nil {
		obj = NewUser(pubkey)
	}
	return obj, nil
}

// NextNonce returns the sequence the next signature of signer must carry.
// Unknown signers start at zero.
func NextNonce(db weave.ReadOnlyKVStore, signer weave.Address) (int64, error) {
	obj, err := NewBucket().Get(db, signer)
	if err != nil {
		return 0, errors.Wrap(err, "load signer")
	}
	if u := AsUser(obj); u != nil {
		return u.Sequence, nil
	}
	return 0, nil
}
