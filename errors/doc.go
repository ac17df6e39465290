/*
Package errors implements the error kinds shared by all tokenswap extensions.

Every failure returned by a handler should wrap one of the root errors
declared in this package, so that clients can tell the kind of a failure by
its ABCI code. If an extension needs a custom root error, declare it with
Register(code, description) during package initialization.

Create errors at the point of failure with ErrXyz.New("...") or
errors.Wrap(err, "..."), so that a stack trace is attached. Only the
innermost wrap records the stack.

	%s is the error message
	%+v is the message together with the stack trace
*/
package errors
