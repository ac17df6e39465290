package errors

import (
	"fmt"
	"reflect"
)

// Root errors. The number is the ABCI code a client receives, it must
// never change once released.
var (
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound also reports escrows that were already exchanged or
	// cancelled.
	ErrNotFound  = Register(3, "not found")
	ErrMsg       = Register(4, "invalid message")
	ErrModel     = Register(5, "invalid model")
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman marks a code path that correct code never reaches.
	ErrHuman = Register(7, "coding error")
	ErrEmpty = Register(9, "value is empty")
	ErrState = Register(10, "invalid state")
	ErrType  = Register(11, "invalid type")

	// ErrInsufficientAmount is a balance below what a transfer, deposit
	// or fee requires.
	ErrInsufficientAmount = Register(12, "insufficient amount")
	ErrAmount             = Register(13, "invalid amount")
	ErrInput              = Register(14, "invalid input")
	ErrOverflow           = Register(16, "an operation cannot be completed due to value overflow")

	// ErrMismatchedTerms is returned when accounts passed with a message
	// differ from the ones an escrow recorded.
	ErrMismatchedTerms = Register(17, "mismatched terms")

	// ErrDerivation means no valid vault address exists for an escrow.
	ErrDerivation = Register(18, "authority derivation failure")

	// ErrCurrency is a transfer between accounts of different mints.
	ErrCurrency = Register(19, "currency mismatch")
	ErrDatabase = Register(20, "database")

	// ErrPanic wraps recovered panics. Its message is never shown outside
	// of debug mode.
	ErrPanic = Register(111222, "panic")
)

// registry holds every root error by code. Code 1 is reserved for errors
// that carry no code at all.
var registry = map[uint32]*Error{1: nil}

// Register declares a root error. It panics when code is taken, so it
// belongs in package initialization only.
func Register(code uint32, description string) *Error {
	if prev, taken := registry[code]; taken {
		name := "reserved"
		if prev != nil {
			name = prev.desc
		}
		panic(fmt.Sprintf("error code %d already registered as %q", code, name))
	}
	e := &Error{code: code, desc: description}
	registry[code] = e
	return e
}

// Error is a root error kind. Runtime errors wrap one of them.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

func (e Error) ABCICode() uint32 {
	return e.code
}

// New is a shortcut for Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

func (e *Error) Newf(format string, args ...interface{}) error {
	return Wrap(e, fmt.Sprintf(format, args...))
}

// Is reports whether err is e or wraps it. A nil kind matches only a nil
// error.
func (e *Error) Is(err error) bool {
	if e == nil {
		return isNil(err)
	}
	for err != nil {
		if err == error(e) {
			return true
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}

// isNil also catches typed nil pointers stored in an error interface.
func isNil(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
