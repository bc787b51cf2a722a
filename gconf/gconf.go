package gconf

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// ReadStore is the part of ledger.ReadOnlyKVStore needed to load a
// configuration.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is the part of ledger.KVStore needed to save a configuration.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// ValidMarshaler is implemented by a configuration that can be validated and
// serialized.
type ValidMarshaler interface {
	Marshal() ([]byte, error)
	Validate() error
}

// Unmarshaler is implemented by a configuration that can be loaded from its
// serialized form.
type Unmarshaler interface {
	Unmarshal([]byte) error
}

// Configuration is implemented by any configuration object.
type Configuration interface {
	ValidMarshaler
	Unmarshaler
}

func confKey(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save validates the configuration and writes it as the singleton of the
// given package.
func Save(db Store, pkg string, src ValidMarshaler) error {
	key := confKey(pkg)
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "validation: key %q", key)
	}
	raw, err := src.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal: key %q", key)
	}
	return db.Set(key, raw)
}

// Load reads the configuration of the given package into dst. ErrNotFound
// is returned when the package has no configuration stored.
func Load(db ReadStore, pkg string, dst Unmarshaler) error {
	key := confKey(pkg)
	raw, err := db.Get(key)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "key %q", key)
	}
	if err := dst.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "unmarshal: key %q", key)
	}
	return nil
}

// InitConfig reads opts["conf"][pkg] into conf, validates it and saves it.
func InitConfig(db Store, opts ledger.Options, pkg string, conf Configuration) error {
	var confOptions ledger.Options
	if err := opts.ReadOptions("conf", &confOptions); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if confOptions[pkg] == nil {
		return errors.Wrapf(errors.ErrNotFound, "no configuration in genesis for %q package", pkg)
	}
	if err := confOptions.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(errors.ErrInput, "read configuration for %s: %s", pkg, err)
	}
	if err := Save(db, pkg, conf); err != nil {
		return errors.Wrapf(err, "save configuration for %s", pkg)
	}
	return nil
}

// Initializer stores a package configuration from genesis. A missing
// configuration is ignored unless Required is set.
type Initializer struct {
	Package  string
	Config   func() Configuration
	Required bool
}

var _ ledger.Initializer = Initializer{}

// FromGenesis implements ledger.Initializer.
func (i Initializer) FromGenesis(opts ledger.Options, db ledger.KVStore) error {
	err := InitConfig(db, opts, i.Package, i.Config())
	if errors.ErrNotFound.Is(err) && !i.Required {
		return nil
	}
	return err
}
