package weave

import (
	"encoding/json"
	"math/bits"
	"strconv"
	"strings"

	"github.com/iov-one/tokenswap/errors"
)

// Fraction is a non negative rational number. The fee split rate is one.
type Fraction struct {
	Numerator   uint32
	Denominator uint32
}

// ParseFractionString reads either "n" or "n/d". A well formed value with a
// zero denominator is accepted here and rejected by Validate.
func ParseFractionString(raw string) (*Fraction, error) {
	num, den := raw, "1"
	if i := strings.IndexByte(raw, '/'); i >= 0 {
		num, den = raw[:i], raw[i+1:]
	}
	n, err := strconv.ParseUint(num, 10, 32)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "numerator %q", num)
	}
	d, err := strconv.ParseUint(den, 10, 32)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "denominator %q", den)
	}
	return &Fraction{Numerator: uint32(n), Denominator: uint32(d)}, nil
}

func (f *Fraction) String() string {
	switch {
	case f == nil:
		return "nil"
	case f.Numerator == 0:
		return "0"
	case f.Denominator == 1:
		return strconv.FormatUint(uint64(f.Numerator), 10)
	}
	return strconv.FormatUint(uint64(f.Numerator), 10) + "/" + strconv.FormatUint(uint64(f.Denominator), 10)
}

func (f Fraction) Validate() error {
	if f.Denominator == 0 {
		return errors.Wrap(errors.ErrState, "zero division")
	}
	return nil
}

// MulFloor returns floor(amount * f). The product is kept on 128 bits and
// only the quotient must fit in a uint64.
func (f Fraction) MulFloor(amount uint64) (uint64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}
	den := uint64(f.Denominator)
	hi, lo := bits.Mul64(amount, uint64(f.Numerator))
	if hi >= den {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d * %s", amount, f.String())
	}
	q, _ := bits.Div64(hi, lo, den)
	return q, nil
}

func (f Fraction) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// UnmarshalJSON accepts the "n/d" string form as well as an object with
// numerator and denominator fields.
func (f *Fraction) UnmarshalJSON(raw []byte) error {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		parsed, err := ParseFractionString(s)
		if err != nil {
			return errors.Wrap(err, "fraction string")
		}
		*f = *parsed
		return nil
	}
	type plain Fraction
	return json.Unmarshal(raw, (*plain)(f))
}
