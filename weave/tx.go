package weave

import (
	"reflect"

	"github.com/iov-one/tokenswap/errors"
)

// Marshaller serializes a value into its binary form.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent is a Marshaller that can also be restored from bytes. Restoring
// usually needs a pointer receiver.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Msg is a single state transition request. It carries no authentication,
// signatures travel in the wrapping Tx.
type Msg interface {
	Persistent

	// Path routes the message to its handler. It must match
	// [0-9A-Za-z_\-/]+ and several message types may share one path.
	Path() string

	// Validate runs stateless sanity checks.
	Validate() error
}

// Tx is what a client submits: one message plus whatever the decorators
// need to authenticate it.
type Tx interface {
	Persistent
	GetMsg() (Msg, error)
}

// TxDecoder restores a Tx from its wire bytes.
type TxDecoder func(txBytes []byte) (Tx, error)

// GetPath returns the routing path of the tx message or "(missing)".
func GetPath(tx Tx) string {
	if msg, err := tx.GetMsg(); err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LoadMsg validates the tx message and copies it into destination, which
// must point to a value of the message type.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	switch {
	case err != nil:
		return errors.Wrap(err, "cannot get message")
	case msg == nil:
		return errors.Wrap(errors.ErrMsg, "no message")
	}

	dst := reflect.ValueOf(destination)
	if dst.Kind() != reflect.Ptr {
		return errors.Wrap(errors.ErrType, "destination must be a pointer")
	}
	src := reflect.Indirect(reflect.ValueOf(msg))
	if !src.Type().AssignableTo(dst.Elem().Type()) {
		return errors.Wrapf(errors.ErrType, "want %T message, got %T", destination, msg)
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	dst.Elem().Set(src)
	return nil
}
