package weavetest

import "github.com/iov-one/tokenswap/weave"

// Tx carries a single Msg. A non nil Err is returned by GetMsg instead.
type Tx struct {
	Msg weave.Msg
	Err error
}

var _ weave.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (weave.Msg, error) { return tx.Msg, tx.Err }

// Marshal and Unmarshal are not supported, test transactions never travel
// as bytes.
func (tx *Tx) Marshal() ([]byte, error) { panic("weavetest: Tx cannot be marshaled") }

func (tx *Tx) Unmarshal([]byte) error { panic("weavetest: Tx cannot be unmarshaled") }

// Msg routes to RoutePath and keeps its raw payload in Serialized. A non
// nil Err fails validation and both codec methods.
type Msg struct {
	RoutePath  string
	Serialized []byte
	Err        error
}

var _ weave.Msg = (*Msg)(nil)

func (m *Msg) Path() string { return m.RoutePath }

func (m *Msg) Validate() error { return m.Err }

func (m *Msg) Marshal() ([]byte, error) { return m.Serialized, m.Err }

func (m *Msg) Unmarshal(raw []byte) error {
	m.Serialized = raw
	return m.Err
}
