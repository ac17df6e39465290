package errors

import (
	stdlib "errors"
	"fmt"
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestErrorMatching(t *testing.T) {
	Convey("Given a chain of wrapped errors", t, func() {
		std := stdlib.New("disk full")
		nested := Wrap(Wrap(ErrMismatchedTerms, "receive account"), "exchange")

		Convey("the root cause is revealed", func() {
			So(errors.Cause(ErrNotFound), ShouldEqual, ErrNotFound)
			So(errors.Cause(nested), ShouldEqual, ErrMismatchedTerms)
			So(errors.Cause(Wrap(std, "save vault")), ShouldEqual, std)
		})

		Convey("Is matches the kind through any depth", func() {
			So(ErrMismatchedTerms.Is(nested), ShouldBeTrue)
			So(ErrNotFound.Is(ErrNotFound), ShouldBeTrue)
			So(ErrNotFound.Is(nested), ShouldBeFalse)
			So(ErrNotFound.Is(errors.Wrap(ErrOverflow, "too big")), ShouldBeFalse)
			So(ErrNotFound.Is(fmt.Errorf("not found")), ShouldBeFalse)
		})

		Convey("a nil kind only matches a nil error", func() {
			var none *Error
			So(none.Is(nil), ShouldBeTrue)
			So(none.Is(ErrUnauthorized), ShouldBeFalse)
		})
	})
}

func TestRegisterDuplicatedCodePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("registering a used code must panic")
		}
	}()
	Register(ErrNotFound.ABCICode(), "another not found")
}

func TestABCIInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"no error": {
			wantCode: SuccessABCICode,
		},
		"registered error": {
			err:      Wrap(ErrInsufficientAmount, "deposit"),
			wantCode: ErrInsufficientAmount.ABCICode(),
			wantLog:  "deposit: insufficient amount",
		},
		"stdlib error is redacted": {
			err:      stdlib.New("disk on fire"),
			wantCode: internalABCICode,
			wantLog:  internalABCILog,
		},
		"panic keeps its code": {
			err:      Wrap(ErrPanic, "boom"),
			wantCode: ErrPanic.ABCICode(),
			wantLog:  "boom: panic",
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := ABCIInfo(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("want %d code, got %d", tc.wantCode, code)
			}
			if log != tc.wantLog {
				t.Errorf("want %q log, got %q", tc.wantLog, log)
			}
		})
	}
}

func TestRecover(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		panic("what a surprise")
	}
	if err := run(); !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %+v", err)
	}
}

func TestABCIErrorRoundTrip(t *testing.T) {
	code, log := ABCIInfo(Wrap(ErrMismatchedTerms, "initializer"), false)
	err := ABCIError(code, log)
	if !ErrMismatchedTerms.Is(err) {
		t.Fatalf("want mismatched terms, got %+v", err)
	}

	if err := ABCIError(SuccessABCICode, ""); err != nil {
		t.Fatalf("success code must not be an error: %+v", err)
	}

	code, _ = ABCIInfo(ABCIError(4242, "whatever"), false)
	if code != 4242 {
		t.Fatalf("unknown code not preserved: %d", code)
	}
}
