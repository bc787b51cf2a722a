package server

import (
	"encoding/json"
	"io/ioutil"
	"path/filepath"

	"github.com/iov-one/ledger/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const appStateKey = "app_state"

// GenOptions builds the application state for the genesis file from the
// command arguments.
type GenOptions func(args []string) (json.RawMessage, error)

// InitCmd writes the application state into the genesis file that
// `tendermint init` created under home. An existing application state is
// never overwritten.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	genFile := filepath.Join(home, "config", "genesis.json")

	options, err := gen(args)
	if err != nil {
		return err
	}
	if err := addGenesisOptions(genFile, options); err != nil {
		return err
	}
	logger.Info("App state written to genesis", "path", genFile)
	return nil
}

// genesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type genesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, options json.RawMessage) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "read genesis: %s", err)
	}

	var doc genesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "parse genesis: %s", err)
	}
	if len(doc[appStateKey]) > 0 && string(doc[appStateKey]) != "null" {
		return errors.Wrap(errors.ErrState, "app_state already set in genesis")
	}

	doc[appStateKey] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return ioutil.WriteFile(filename, out, 0600)
}
