package orm

import (
	"reflect"

	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weave"
)

// SimpleObj is the Object implementation used by every bucket in this
// module. Models only provide the CloneableData part.
type SimpleObj struct {
	key   []byte
	value CloneableData
}

var _ Object = (*SimpleObj)(nil)

func NewSimpleObj(key []byte, value CloneableData) *SimpleObj {
	return &SimpleObj{key: key, value: value}
}

func (o SimpleObj) Key() []byte { return o.key }

func (o SimpleObj) Value() weave.Persistent { return o.value }

func (o *SimpleObj) SetKey(key []byte) { o.key = key }

func (o SimpleObj) Validate() error {
	switch {
	case len(o.key) == 0:
		return errors.Wrap(errors.ErrEmpty, "missing key")
	case o.value == nil:
		return errors.Wrap(errors.ErrEmpty, "missing value")
	}
	return o.value.Validate()
}

// Clone returns an object with a copy of the key and a zero value of the
// same model type.
func (o *SimpleObj) Clone() Object {
	empty := reflect.New(reflect.TypeOf(o.value).Elem()).Interface().(CloneableData)
	var key []byte
	if len(o.key) != 0 {
		key = append(key, o.key...)
	}
	return &SimpleObj{key: key, value: empty}
}
