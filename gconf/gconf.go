package gconf

import (
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weave"
)

// ReadStore is the part of a KVStore Load needs.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is the part of a KVStore Save needs.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// ValidMarshaler is a configuration that can be checked and serialized.
type ValidMarshaler interface {
	Marshal() ([]byte, error)
	Validate() error
}

type Unmarshaler interface {
	Unmarshal([]byte) error
}

// Configuration is the settings object of one extension.
type Configuration interface {
	ValidMarshaler
	Unmarshaler
}

// dbKey is the singleton key of an extension configuration.
func dbKey(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save validates src and overwrites the configuration of pkg.
func Save(db Store, pkg string, src ValidMarshaler) error {
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "validate %s configuration", pkg)
	}
	raw, err := src.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal %s configuration", pkg)
	}
	return db.Set(dbKey(pkg), raw)
}

// Load decodes the configuration of pkg into dst. A missing configuration
// is ErrNotFound.
func Load(db ReadStore, pkg string, dst Unmarshaler) error {
	raw, err := db.Get(dbKey(pkg))
	switch {
	case err != nil:
		return errors.Wrap(errors.ErrDatabase, err.Error())
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "no %s configuration", pkg)
	}
	if err := dst.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "unmarshal %s configuration", pkg)
	}
	return nil
}

// InitConfig reads the genesis section conf.<pkg> into conf and saves it.
// The section is required.
func InitConfig(db Store, opts weave.Options, pkg string, conf Configuration) error {
	var sections weave.Options
	if err := opts.ReadOptions("conf", &sections); err != nil {
		return errors.Wrap(err, "read conf")
	}
	if _, ok := sections[pkg]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "no configuration in genesis for %q package", pkg)
	}
	if err := sections.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(errors.ErrInput, "read %s configuration: %s", pkg, err)
	}
	return errors.Wrapf(Save(db, pkg, conf), "save %s configuration", pkg)
}
