package errors

import "fmt"

const (
	// SuccessABCICode is the code of a response without error.
	SuccessABCICode = 0

	// Errors without a registered root share this code and, outside of
	// debug mode, this log.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

type coder interface {
	ABCICode() uint32
}

// ABCIInfo returns the code and log of an ABCI response for err. In debug
// mode the log carries the stack trace. Otherwise internal errors get a
// generic log so no system details leak to clients.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if isNil(err) {
		return SuccessABCICode, ""
	}
	code := codeOf(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return code, internalABCILog
	default:
		return code, err.Error()
	}
}

// codeOf returns the code of the first registered root found while
// unwrapping err.
func codeOf(err error) uint32 {
	for !isNil(err) {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		next, ok := err.(causer)
		if !ok {
			break
		}
		err = next.Cause()
	}
	return internalABCICode
}

// ABCIError rebuilds an error from the code and log of an ABCI response,
// so that a client can test it with the Is method of the root error.
func ABCIError(code uint32, log string) error {
	if code == SuccessABCICode {
		return nil
	}
	root := registry[code]
	if root == nil {
		root = &Error{code: code, desc: "unknown error"}
	}
	return Wrap(root, log)
}
