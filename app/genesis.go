package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// Genesis file format, designed to be overlayed with tendermint genesis
type Genesis struct {
	ChainID  string         `json:"chain_id"`
	AppState ledger.Options `json:"app_state"`
}

// loadGenesis tries to load a given file into a Genesis struct
func loadGenesis(filePath string) (Genesis, error) {
	var gen Genesis

	bytes, err := ioutil.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrapf(errors.ErrInput, "loading genesis file: %s", err)
	}
	if err := json.Unmarshal(bytes, &gen); err != nil {
		return gen, errors.Wrapf(errors.ErrInput, "unmarshaling genesis file: %s", err)
	}
	return gen, nil
}

// LoadGenesis reads the genesis file and initializes the state the same way
// InitChain does.
func (s *StoreApp) LoadGenesis(filePath string, init ledger.Initializer) error {
	gen, err := loadGenesis(filePath)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(gen.AppState)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return s.parseAppState(raw, gen.ChainID, init)
}

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...ledger.Initializer) ledger.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []ledger.Initializer
}

// FromGenesis passes opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts ledger.Options, kv ledger.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
