/*
Package codec implements the protobuf wire format used to persist models and
to serialize messages and transactions. Types describe their own layout by
writing tagged fields to an Encoder and reading them back with a Decoder, so
that the binary representation stays compatible with a .proto declaration of
the same fields.
*/
package codec

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/tokenswap/errors"
)

// Wire types as defined by the protobuf encoding.
const (
	WireVarint = 0
	WireBytes  = 2
)

// Marshaller is implemented by every type that can be embedded as a nested
// message.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Encoder accumulates protobuf encoded fields. Zero values are skipped, as
// with proto3 scalar fields.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an empty encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

func (e *Encoder) key(field int, wire int) {
	e.buf = append(e.buf, proto.EncodeVarint(uint64(field)<<3|uint64(wire))...)
}

// Uint64 writes a varint field.
func (e *Encoder) Uint64(field int, v uint64) *Encoder {
	if v == 0 {
		return e
	}
	e.key(field, WireVarint)
	e.buf = append(e.buf, proto.EncodeVarint(v)...)
	return e
}

// Int64 writes a varint field holding a signed value.
func (e *Encoder) Int64(field int, v int64) *Encoder {
	return e.Uint64(field, uint64(v))
}

// Uint32 writes a varint field.
func (e *Encoder) Uint32(field int, v uint32) *Encoder {
	return e.Uint64(field, uint64(v))
}

// Bytes writes a length delimited field.
func (e *Encoder) Bytes(field int, b []byte) *Encoder {
	if len(b) == 0 {
		return e
	}
	e.key(field, WireBytes)
	e.buf = append(e.buf, proto.EncodeVarint(uint64(len(b)))...)
	e.buf = append(e.buf, b...)
	return e
}

// RepeatedBytes writes every element as a separate length delimited field.
// Empty elements are kept so that the decoded list has the same length.
func (e *Encoder) RepeatedBytes(field int, list [][]byte) *Encoder {
	for _, b := range list {
		e.key(field, WireBytes)
		e.buf = append(e.buf, proto.EncodeVarint(uint64(len(b)))...)
		e.buf = append(e.buf, b...)
	}
	return e
}

// String writes a length delimited field.
func (e *Encoder) String(field int, s string) *Encoder {
	return e.Bytes(field, []byte(s))
}

// Message writes a nested message. A nil message is skipped.
func (e *Encoder) Message(field int, m Marshaller) error {
	if m == nil {
		return nil
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(err, "field %d", field)
	}
	if raw == nil {
		raw = []byte{}
	}
	// Presence of a nested message is significant even when it is empty.
	e.key(field, WireBytes)
	e.buf = append(e.buf, proto.EncodeVarint(uint64(len(raw)))...)
	e.buf = append(e.buf, raw...)
	return nil
}

// Result returns the encoded bytes.
func (e *Encoder) Result() []byte {
	return e.buf
}

// Decoder reads protobuf encoded fields one by one.
//
//   d := codec.NewDecoder(raw)
//   for d.Next() {
//     switch d.Field() {
//     case 1:
//       m.Amount, err = d.Uint64()
//     default:
//       err = d.Skip()
//     }
//   }
//   return d.Err()
type Decoder struct {
	buf   []byte
	field int
	wire  int
	err   error
}

// NewDecoder returns a decoder reading given bytes.
func NewDecoder(raw []byte) *Decoder {
	return &Decoder{buf: raw}
}

// Next reads the next field key. It returns false when the input is
// consumed or a decoding error occurred.
func (d *Decoder) Next() bool {
	if d.err != nil || len(d.buf) == 0 {
		return false
	}
	k, n := proto.DecodeVarint(d.buf)
	if n == 0 {
		d.err = errors.Wrap(errors.ErrInput, "malformed field key")
		return false
	}
	d.buf = d.buf[n:]
	d.field = int(k >> 3)
	d.wire = int(k & 0x7)
	if d.field == 0 {
		d.err = errors.Wrap(errors.ErrInput, "illegal field number zero")
		return false
	}
	return true
}

// Field returns the number of the current field.
func (d *Decoder) Field() int {
	return d.field
}

// Err returns the first error encountered while decoding.
func (d *Decoder) Err() error {
	return d.err
}

func (d *Decoder) fail(err error) error {
	if d.err == nil {
		d.err = err
	}
	return err
}

// Uint64 reads the current field as a varint.
func (d *Decoder) Uint64() (uint64, error) {
	if d.wire != WireVarint {
		return 0, d.fail(errors.Wrapf(errors.ErrType, "field %d: want varint, got wire type %d", d.field, d.wire))
	}
	v, n := proto.DecodeVarint(d.buf)
	if n == 0 {
		return 0, d.fail(errors.Wrapf(errors.ErrInput, "field %d: malformed varint", d.field))
	}
	d.buf = d.buf[n:]
	return v, nil
}

// Int64 reads the current field as a signed varint.
func (d *Decoder) Int64() (int64, error) {
	v, err := d.Uint64()
	return int64(v), err
}

// Uint32 reads the current field as a varint and ensures it fits 32 bits.
func (d *Decoder) Uint32() (uint32, error) {
	v, err := d.Uint64()
	if err != nil {
		return 0, err
	}
	if v > 0xFFFFFFFF {
		return 0, d.fail(errors.Wrapf(errors.ErrOverflow, "field %d", d.field))
	}
	return uint32(v), nil
}

// Bytes reads the current field as length delimited data. Returned slice is
// a copy and can be retained.
func (d *Decoder) Bytes() ([]byte, error) {
	if d.wire != WireBytes {
		return nil, d.fail(errors.Wrapf(errors.ErrType, "field %d: want bytes, got wire type %d", d.field, d.wire))
	}
	size, n := proto.DecodeVarint(d.buf)
	if n == 0 || uint64(len(d.buf)-n) < size {
		return nil, d.fail(errors.Wrapf(errors.ErrInput, "field %d: truncated", d.field))
	}
	out := make([]byte, size)
	copy(out, d.buf[n:n+int(size)])
	d.buf = d.buf[n+int(size):]
	return out, nil
}

// String reads the current field as a string.
func (d *Decoder) String() (string, error) {
	b, err := d.Bytes()
	return string(b), err
}

// Skip discards the value of an unknown field.
func (d *Decoder) Skip() error {
	switch d.wire {
	case WireVarint:
		_, err := d.Uint64()
		return err
	case WireBytes:
		_, err := d.Bytes()
		return err
	default:
		return d.fail(errors.Wrapf(errors.ErrType, "field %d: unsupported wire type %d", d.field, d.wire))
	}
}
