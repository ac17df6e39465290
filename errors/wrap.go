package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

type causer interface {
	Cause() error
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Wrap adds context to err and returns nil for a nil err. The innermost
// wrap records a stack trace. Errors without a registered root are
// reported as internal errors.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackOf(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrapped{msg: description, cause: err}
}

func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Recover turns a panic into an ErrPanic stored in *err. It must be
// deferred.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type wrapped struct {
	msg   string
	cause error
}

func (w *wrapped) Error() string {
	return w.msg + ": " + w.cause.Error()
}

func (w *wrapped) Cause() error {
	return w.cause
}

// Format adds the recorded stack trace for %+v.
func (w *wrapped) Format(s fmt.State, verb rune) {
	switch {
	case verb == 'v' && s.Flag('+'):
		fmt.Fprint(s, w.Error())
		if st := stackOf(w); st != nil {
			fmt.Fprintf(s, "%+v", st)
		}
	case verb == 'q':
		fmt.Fprintf(s, "%q", w.Error())
	default:
		fmt.Fprint(s, w.Error())
	}
}

// stackOf returns the first stack trace found while unwrapping err.
func stackOf(err error) errors.StackTrace {
	for err != nil {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		c, ok := err.(causer)
		if !ok {
			return nil
		}
		err = c.Cause()
	}
	return nil
}
