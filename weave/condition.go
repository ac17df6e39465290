package weave

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/iov-one/tokenswap/errors"
)

// conditionFormat matches "<extension>/<type>/<data>". The data part is
// binary, (?s) lets it contain newlines.
var conditionFormat = regexp.MustCompile(`(?s)^([a-zA-Z0-9_\-]{3,8})/([a-zA-Z0-9_\-]{3,8})/(.+)$`)

// Condition names a party that can authorize an action: a signature key,
// an escrow vault or any other extension defined authority. Its Address
// is what state records refer to.
type Condition []byte

func NewCondition(ext, typ string, data []byte) Condition {
	c := make(Condition, 0, len(ext)+len(typ)+2+len(data))
	c = append(c, ext...)
	c = append(c, '/')
	c = append(c, typ...)
	c = append(c, '/')
	return append(c, data...)
}

// Parse splits the condition into extension, type and data.
func (c Condition) Parse() (ext, typ string, data []byte, err error) {
	m := conditionFormat.FindSubmatch(c)
	if m == nil {
		return "", "", nil, errors.Wrapf(errors.ErrInput, "condition: %X", []byte(c))
	}
	return string(m[1]), string(m[2]), m[3], nil
}

func (c Condition) Validate() error {
	_, _, _, err := c.Parse()
	return err
}

func (c Condition) Address() Address {
	return NewAddress(c)
}

func (c Condition) Equals(o Condition) bool {
	return bytes.Equal(c, o)
}

// String prints the data part in hex, for example "sigs/ed25519/0A1B".
func (c Condition) String() string {
	ext, typ, data, err := c.Parse()
	if err != nil {
		return fmt.Sprintf("Invalid Condition: %X", []byte(c))
	}
	return fmt.Sprintf("%s/%s/%X", ext, typ, data)
}

func (c Condition) MarshalJSON() ([]byte, error) {
	if c == nil {
		return json.Marshal("")
	}
	return json.Marshal(c.String())
}

func (c *Condition) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	parsed, err := parseCondition(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// parseCondition reads the String form back. An empty string is a nil
// condition.
func parseCondition(s string) (Condition, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return nil, errors.Wrapf(errors.ErrInput, "condition %q", s)
	}
	data, err := hex.DecodeString(parts[2])
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "condition data: %s", err)
	}
	return NewCondition(parts[0], parts[1], data), nil
}
