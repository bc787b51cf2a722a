package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest/assert"
	"github.com/iov-one/ledger/tmtest"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

func genOptions(args []string) (json.RawMessage, error) {
	if len(args) == 0 {
		return nil, errors.Wrap(errors.ErrInput, "value required")
	}
	return json.Marshal(map[string]string{"value": args[0]})
}

func TestInit(t *testing.T) {
	home, cleanup := tmtest.SetupConfig(t, "testdata")
	defer cleanup()

	logger := log.NewNopLogger()
	assert.Nil(t, InitCmd(genOptions, logger, home, []string{"secret"}))

	genFile := filepath.Join(home, "config", "genesis.json")
	raw, err := ioutil.ReadFile(genFile)
	assert.Nil(t, err)
	var doc struct {
		ChainID    string          `json:"chain_id"`
		Validators json.RawMessage `json:"validators"`
		State      struct {
			Value string `json:"value"`
		} `json:"app_state"`
	}
	assert.Nil(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "test-chain-Q4SDNv", doc.ChainID)
	assert.Equal(t, "secret", doc.State.Value)
	if len(doc.Validators) == 0 {
		t.Fatal("validators were dropped")
	}

	// A second run must not overwrite the state.
	err = InitCmd(genOptions, logger, home, []string{"other"})
	assert.IsErr(t, errors.ErrState, err)

	err = InitCmd(genOptions, logger, home, nil)
	assert.IsErr(t, errors.ErrInput, err)

	assert.Nil(t, ValidateGenesis(valueInit{want: "secret"}, []string{genFile}))
	err = ValidateGenesis(valueInit{want: "other"}, []string{genFile})
	assert.IsErr(t, errors.ErrState, err)
	err = ValidateGenesis(valueInit{want: "secret"}, []string{filepath.Join(home, "missing.json")})
	assert.IsErr(t, errors.ErrInput, err)
}

func TestStartChecksGenesis(t *testing.T) {
	home, cleanup := tmtest.SetupConfig(t, "testdata")
	defer cleanup()

	logger := log.NewNopLogger()
	// Nothing written yet, the home genesis is not checked.
	empty, err := ioutil.TempDir("", "start")
	assert.Nil(t, err)
	defer os.RemoveAll(empty)
	assert.Nil(t, checkHomeGenesis(valueInit{want: "secret"}, empty))

	assert.Nil(t, InitCmd(genOptions, logger, home, []string{"secret"}))
	assert.Nil(t, checkHomeGenesis(valueInit{want: "secret"}, home))

	// A rejected genesis stops the start before the app is generated.
	gen := func(string, log.Logger, bool) (abci.Application, error) {
		t.Fatal("app generated for a rejected genesis")
		return nil, nil
	}
	err = StartCmd(gen, valueInit{want: "other"}, logger, home, nil)
	assert.IsErr(t, errors.ErrState, err)
}

type valueInit struct {
	want string
}

func (v valueInit) FromGenesis(opts ledger.Options, db ledger.KVStore) error {
	var value string
	if err := opts.ReadOptions("value", &value); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if value != v.want {
		return errors.Wrapf(errors.ErrState, "got %q", value)
	}
	return nil
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags(nil)
	assert.Nil(t, err)
	assert.Equal(t, "tcp://localhost:26658", opts.bind)
	assert.Equal(t, false, opts.debug)
	assert.Equal(t, "", opts.metrics)

	opts, err = parseFlags([]string{"-bind", "unix:///tmp/app.sock", "-debug", "-metrics", ":9090"})
	assert.Nil(t, err)
	assert.Equal(t, "unix:///tmp/app.sock", opts.bind)
	assert.Equal(t, true, opts.debug)
	assert.Equal(t, ":9090", opts.metrics)

	_, err = parseFlags([]string{"-unknown"})
	if err == nil {
		t.Fatal("unknown flag accepted")
	}
}
