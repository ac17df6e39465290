package codec

import (
	"testing"

	"github.com/iov-one/tokenswap/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID     []byte
	Ticker string
	Amount uint64
	Inner  *sample
}

func (s *sample) Marshal() ([]byte, error) {
	e := NewEncoder().
		Bytes(1, s.ID).
		String(2, s.Ticker).
		Uint64(3, s.Amount)
	if s.Inner != nil {
		if err := e.Message(4, s.Inner); err != nil {
			return nil, err
		}
	}
	return e.Result(), nil
}

func (s *sample) Unmarshal(raw []byte) error {
	var err error
	d := NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			s.ID, err = d.Bytes()
		case 2:
			s.Ticker, err = d.String()
		case 3:
			s.Amount, err = d.Uint64()
		case 4:
			var b []byte
			if b, err = d.Bytes(); err == nil {
				s.Inner = &sample{}
				err = s.Inner.Unmarshal(b)
			}
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

func TestEncoderWireFormat(t *testing.T) {
	raw, err := (&sample{ID: []byte{0xAA}, Amount: 300}).Marshal()
	require.NoError(t, err)
	// field 1 bytes, field 3 varint 300
	assert.Equal(t, []byte{0x0a, 0x01, 0xAA, 0x18, 0xac, 0x02}, raw)
}

func TestNestedMessage(t *testing.T) {
	src := &sample{
		ID:     []byte("escrow-1"),
		Ticker: "ETH",
		Amount: 1 << 40,
		Inner:  &sample{Ticker: "BTC", Amount: 7},
	}
	raw, err := src.Marshal()
	require.NoError(t, err)

	var got sample
	require.NoError(t, got.Unmarshal(raw))
	assert.Equal(t, src, &got)
}

func TestDecoderErrors(t *testing.T) {
	cases := map[string]struct {
		raw     []byte
		wantErr *errors.Error
	}{
		"truncated bytes": {
			raw:     []byte{0x0a, 0x05, 0x01},
			wantErr: errors.ErrInput,
		},
		"wrong wire type": {
			raw:     []byte{0x18 | 0x02, 0x01, 0x01},
			wantErr: errors.ErrType,
		},
		"field zero": {
			raw:     []byte{0x00, 0x01},
			wantErr: errors.ErrInput,
		},
		"unknown fields are skipped": {
			raw:     []byte{0x78, 0x01},
			wantErr: nil,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var s sample
			err := s.Unmarshal(tc.raw)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestRepeatedBytesKeepsEmptyElements(t *testing.T) {
	raw := NewEncoder().RepeatedBytes(1, [][]byte{[]byte("a"), nil, []byte("bc")}).Result()
	assert.Equal(t, []byte{0x0a, 0x01, 'a', 0x0a, 0x00, 0x0a, 0x02, 'b', 'c'}, raw)

	var got [][]byte
	d := NewDecoder(raw)
	for d.Next() {
		b, err := d.Bytes()
		require.NoError(t, err)
		got = append(got, b)
	}
	require.NoError(t, d.Err())
	require.Len(t, got, 3)
	assert.Empty(t, got[1])
	assert.Equal(t, []byte("bc"), got[2])
}
