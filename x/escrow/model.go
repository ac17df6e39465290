package escrow

import (
	"github.com/iov-one/tokenswap/codec"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/orm"
	"github.com/iov-one/tokenswap/weave"
)

// BucketName is where we store the escrows
const BucketName = "escrow"

const (
	minIDLength = 4
	maxIDLength = 32
)

// Escrow holds the terms of a pending swap. It is immutable and lives for
// as long as its vault exists.
type Escrow struct {
	Initializer               weave.Address
	InitializerDepositAccount weave.Address
	InitializerReceiveAccount weave.Address
	InitializerAmount         uint64
	TakerAmount               uint64
	Vault                     weave.Address
}

var _ orm.CloneableData = (*Escrow)(nil)

// Validate ensures the escrow is sane before saving it.
func (e *Escrow) Validate() error {
	if err := e.Initializer.Validate(); err != nil {
		return errors.Wrap(err, "initializer")
	}
	if err := e.InitializerDepositAccount.Validate(); err != nil {
		return errors.Wrap(err, "initializer deposit account")
	}
	if err := e.InitializerReceiveAccount.Validate(); err != nil {
		return errors.Wrap(err, "initializer receive account")
	}
	if err := e.Vault.Validate(); err != nil {
		return errors.Wrap(err, "vault")
	}
	if e.InitializerAmount == 0 {
		return errors.Wrap(errors.ErrAmount, "initializer amount")
	}
	if e.TakerAmount == 0 {
		return errors.Wrap(errors.ErrAmount, "taker amount")
	}
	return nil
}

// Copy makes a deep copy of the escrow.
func (e *Escrow) Copy() orm.CloneableData {
	return &Escrow{
		Initializer:               e.Initializer.Clone(),
		InitializerDepositAccount: e.InitializerDepositAccount.Clone(),
		InitializerReceiveAccount: e.InitializerReceiveAccount.Clone(),
		InitializerAmount:         e.InitializerAmount,
		TakerAmount:               e.TakerAmount,
		Vault:                     e.Vault.Clone(),
	}
}

func (e *Escrow) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, e.Initializer).
		Bytes(2, e.InitializerDepositAccount).
		Bytes(3, e.InitializerReceiveAccount).
		Uint64(4, e.InitializerAmount).
		Uint64(5, e.TakerAmount).
		Bytes(6, e.Vault).
		Result(), nil
}

func (e *Escrow) Unmarshal(raw []byte) error {
	*e = Escrow{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			e.Initializer, err = d.Bytes()
		case 2:
			e.InitializerDepositAccount, err = d.Bytes()
		case 3:
			e.InitializerReceiveAccount, err = d.Bytes()
		case 4:
			e.InitializerAmount, err = d.Uint64()
		case 5:
			e.TakerAmount, err = d.Uint64()
		case 6:
			e.Vault, err = d.Bytes()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// Bucket is a type-safe wrapper around orm.Bucket
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a Bucket with the initializer index.
func NewBucket() Bucket {
	b := orm.NewBucket(BucketName, orm.NewSimpleObj(nil, new(Escrow)))
	return Bucket{
		Bucket: b.WithIndex("initializer", initializerIndexer, false),
	}
}

func initializerIndexer(obj orm.Object) ([]byte, error) {
	e, ok := obj.Value().(*Escrow)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return e.Initializer, nil
}

// Get returns the escrow stored under id or nil.
func (b Bucket) Get(db weave.ReadOnlyKVStore, id []byte) (*Escrow, error) {
	obj, err := b.Bucket.Get(db, id)
	if err != nil || obj == nil {
		return nil, err
	}
	e, ok := obj.Value().(*Escrow)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return e, nil
}

// Put stores the escrow under id.
func (b Bucket) Put(db weave.KVStore, id []byte, e *Escrow) error {
	return b.Bucket.Save(db, orm.NewSimpleObj(id, e))
}

// ByInitializer returns all pending escrows created by given initializer.
func (b Bucket) ByInitializer(db weave.ReadOnlyKVStore, initializer weave.Address) ([]orm.Object, error) {
	return b.GetIndexed(db, "initializer", initializer)
}
