package token

import (
	"regexp"

	"github.com/iov-one/tokenswap/codec"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/orm"
	"github.com/iov-one/tokenswap/weave"
)

const (
	// AccountBucketName is where token accounts are stored.
	AccountBucketName = "account"
	// ReserveBucketName is where storage reserves are stored.
	ReserveBucketName = "reserve"
)

// IsMint checks that a token ticker is 3 or 4 upper case letters.
var IsMint = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

// Account is a token account. It holds Amount units of the Mint token and
// can only be spent by Owner.
type Account struct {
	Mint    string
	Owner   weave.Address
	Amount  uint64
	Deposit uint64
}

var _ orm.CloneableData = (*Account)(nil)

// Validate ensures the account is stored in a sane state.
func (a *Account) Validate() error {
	if !IsMint(a.Mint) {
		return errors.Wrapf(errors.ErrCurrency, "invalid mint %q", a.Mint)
	}
	if err := a.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	return nil
}

// Copy returns a deep copy.
func (a *Account) Copy() orm.CloneableData {
	return &Account{
		Mint:    a.Mint,
		Owner:   a.Owner.Clone(),
		Amount:  a.Amount,
		Deposit: a.Deposit,
	}
}

func (a *Account) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		String(1, a.Mint).
		Bytes(2, a.Owner).
		Uint64(3, a.Amount).
		Uint64(4, a.Deposit).
		Result(), nil
}

func (a *Account) Unmarshal(raw []byte) error {
	*a = Account{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			a.Mint, err = d.String()
		case 2:
			a.Owner, err = d.Bytes()
		case 3:
			a.Amount, err = d.Uint64()
		case 4:
			a.Deposit, err = d.Uint64()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// Reserve holds the native units an identity can spend on storage
// deposits.
type Reserve struct {
	Amount uint64
}

var _ orm.CloneableData = (*Reserve)(nil)

func (r *Reserve) Validate() error {
	return nil
}

func (r *Reserve) Copy() orm.CloneableData {
	return &Reserve{Amount: r.Amount}
}

func (r *Reserve) Marshal() ([]byte, error) {
	return codec.NewEncoder().Uint64(1, r.Amount).Result(), nil
}

func (r *Reserve) Unmarshal(raw []byte) error {
	*r = Reserve{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		if d.Field() == 1 {
			r.Amount, err = d.Uint64()
		} else {
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// AccountBucket is a type-safe wrapper around orm.Bucket. Accounts are
// indexed by their owner.
type AccountBucket struct {
	orm.Bucket
}

// NewAccountBucket initializes an AccountBucket with the owner index.
func NewAccountBucket() AccountBucket {
	b := orm.NewBucket(AccountBucketName, orm.NewSimpleObj(nil, new(Account)))
	return AccountBucket{
		Bucket: b.WithIndex("owner", ownerIndexer, false),
	}
}

func ownerIndexer(obj orm.Object) ([]byte, error) {
	acc, ok := obj.Value().(*Account)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return acc.Owner, nil
}

// Get returns the account stored under given address or nil.
func (b AccountBucket) Get(db weave.ReadOnlyKVStore, id weave.Address) (*Account, error) {
	obj, err := b.Bucket.Get(db, id)
	if err != nil || obj == nil {
		return nil, err
	}
	acc, ok := obj.Value().(*Account)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return acc, nil
}

// Put stores the account under given address.
func (b AccountBucket) Put(db weave.KVStore, id weave.Address, acc *Account) error {
	return b.Bucket.Save(db, orm.NewSimpleObj(id, acc))
}

// ByOwner returns the addresses of all accounts controlled by owner.
func (b AccountBucket) ByOwner(db weave.ReadOnlyKVStore, owner weave.Address) ([]weave.Address, error) {
	objs, err := b.GetIndexed(db, "owner", owner)
	if err != nil {
		return nil, err
	}
	ids := make([]weave.Address, 0, len(objs))
	for _, o := range objs {
		ids = append(ids, o.Key())
	}
	return ids, nil
}

// ReserveBucket is a type-safe wrapper around orm.Bucket.
type ReserveBucket struct {
	orm.Bucket
}

// NewReserveBucket initializes a ReserveBucket with default name.
func NewReserveBucket() ReserveBucket {
	return ReserveBucket{
		Bucket: orm.NewBucket(ReserveBucketName, orm.NewSimpleObj(nil, new(Reserve))),
	}
}

// Get returns the reserve of given identity. A missing reserve is empty.
func (b ReserveBucket) Get(db weave.ReadOnlyKVStore, owner weave.Address) (*Reserve, error) {
	obj, err := b.Bucket.Get(db, owner)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return &Reserve{}, nil
	}
	r, ok := obj.Value().(*Reserve)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return r, nil
}

// Put stores the reserve of given identity.
func (b ReserveBucket) Put(db weave.KVStore, owner weave.Address, r *Reserve) error {
	return b.Bucket.Save(db, orm.NewSimpleObj(owner, r))
}
