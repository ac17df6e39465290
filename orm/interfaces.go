package orm

import (
	"github.com/iov-one/tokenswap/weave"
	"github.com/iov-one/tokenswap/x"
)

// Object is a keyed record a Bucket can save and load. Clone returns an
// empty object of the same type for the bucket to decode into.
type Object interface {
	x.Validater
	Key() []byte
	SetKey([]byte)
	Value() weave.Persistent
	Clone() Object
}

// CloneableData is a model value that SimpleObj can carry.
type CloneableData interface {
	x.Validater
	weave.Persistent
	Copy() CloneableData
}
