package weave

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/btcsuite/btcutil/bech32"
	"github.com/iov-one/tokenswap/errors"
)

var (
	// AddressLength is the size of every Address. It must not change
	// once a store holds addresses.
	AddressLength = 20

	// AddressPrefix is the bech32 human readable part.
	AddressPrefix = "swap"
)

// Address is the truncated sha256 of a Condition.
type Address []byte

func NewAddress(data []byte) Address {
	if data == nil {
		return nil
	}
	sum := sha256.Sum256(data)
	return sum[:AddressLength]
}

func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInput, "address length %d", len(a))
	}
	return nil
}

func (a Address) Equals(o Address) bool {
	return bytes.Equal(a, o)
}

func (a Address) Clone() Address {
	if a == nil {
		return nil
	}
	return append(Address{}, a...)
}

// String is upper case hex.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a))
}

// Bech32 returns the "bech32:" prefixed encoding understood by
// ParseAddress.
func (a Address) Bech32() (string, error) {
	five, err := bech32.ConvertBits(a, 8, 5, true)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInput, "convert bits: %s", err)
	}
	enc, err := bech32.Encode(AddressPrefix, five)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInput, "bech32: %s", err)
	}
	return "bech32:" + enc, nil
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToUpper(hex.EncodeToString(a)))
}

func (a *Address) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	addr, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// ParseAddress reads an address written as plain hex, "hex:<hex>",
// "cond:<condition>" or "bech32:<bech32>". An empty value gives a nil
// address.
func ParseAddress(s string) (Address, error) {
	format, value := "hex", s
	if i := strings.IndexByte(s, ':'); i >= 0 {
		format, value = s[:i], s[i+1:]
	}
	if value == "" {
		return nil, nil
	}

	var addr Address
	switch format {
	case "hex":
		raw, err := hex.DecodeString(value)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "hex address: %s", err)
		}
		addr = raw
	case "cond":
		c, err := parseCondition(value)
		if err != nil {
			return nil, err
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		addr = c.Address()
	case "bech32":
		_, five, err := bech32.Decode(value)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "bech32 address: %s", err)
		}
		raw, err := bech32.ConvertBits(five, 5, 8, false)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "bech32 address: %s", err)
		}
		addr = raw
	default:
		return nil, errors.Wrapf(errors.ErrType, "address format %q", format)
	}
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}
