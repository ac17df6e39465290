package weave

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/iov-one/tokenswap/errors"
)

func TestFractionJSON(t *testing.T) {
	decode := map[string]*Fraction{
		`"4"`:     {Numerator: 4, Denominator: 1},
		`"5/100"`: {Numerator: 5, Denominator: 100},
		`"0/0"`:   {},
		`"1/2/3"`: nil,
		`"-1"`:    nil,
		`"1/"`:    nil,
		`[1, 2]`:  nil,
	}
	decode[`{"numerator": 1, "denominator": 2}`] = &Fraction{Numerator: 1, Denominator: 2}
	for raw, want := range decode {
		var got Fraction
		err := json.Unmarshal([]byte(raw), &got)
		if want == nil {
			if err == nil {
				t.Errorf("%s: want error, got %+v", raw, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: %+v", raw, err)
		} else if got != *want {
			t.Errorf("%s: got %+v, want %+v", raw, got, *want)
		}
	}

	encode := map[string]Fraction{
		`"0"`:     {Denominator: 7},
		`"3"`:     {Numerator: 3, Denominator: 1},
		`"5/100"`: {Numerator: 5, Denominator: 100},
	}
	for want, f := range encode {
		raw, err := json.Marshal(f)
		if err != nil {
			t.Fatalf("marshal %+v: %s", f, err)
		}
		if string(raw) != want {
			t.Errorf("marshal %+v: got %s, want %s", f, raw, want)
		}
	}
}

func TestFractionMulFloor(t *testing.T) {
	cases := map[string]struct {
		frac    Fraction
		amount  uint64
		want    uint64
		wantErr *errors.Error
	}{
		"five percent of a thousand": {
			frac:   Fraction{Numerator: 5, Denominator: 100},
			amount: 1000,
			want:   50,
		},
		"five percent rounds down": {
			frac:   Fraction{Numerator: 5, Denominator: 100},
			amount: 119,
			want:   5,
		},
		"small amounts give no fee": {
			frac:   Fraction{Numerator: 5, Denominator: 100},
			amount: 19,
			want:   0,
		},
		"max amount does not overflow": {
			frac:   Fraction{Numerator: 5, Denominator: 100},
			amount: math.MaxUint64,
			want:   math.MaxUint64 / 20,
		},
		"result exceeding 64 bits": {
			frac:    Fraction{Numerator: 2, Denominator: 1},
			amount:  math.MaxUint64,
			wantErr: errors.ErrOverflow,
		},
		"zero denominator": {
			frac:    Fraction{Numerator: 2},
			amount:  10,
			wantErr: errors.ErrState,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := tc.frac.MulFloor(tc.amount)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if got != tc.want {
				t.Fatalf("want %d, got %d", tc.want, got)
			}
		})
	}
}
