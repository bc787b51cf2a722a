package escrowd

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/cash"
	"github.com/iov-one/ledger/x/token"
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode.
//
// The optional first argument is the native ticker (IOV by default), the
// optional second one the hex address of the account. Without an address a
// new key is generated and printed out. The account also owns the token
// configuration, which charges one native coin per opened token account.
func GenInitOptions(args []string) (json.RawMessage, error) {
	ticker := "IOV"
	if len(args) > 0 {
		ticker = args[0]
		if !coin.IsCC(ticker) {
			return nil, errors.Wrapf(errors.ErrCurrency, "invalid ticker %s", ticker)
		}
	}

	var addr ledger.Address
	if len(args) > 1 {
		raw, err := hex.DecodeString(args[1])
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "address: %s", err)
		}
		addr = raw
		if err := addr.Validate(); err != nil {
			return nil, errors.Wrap(err, "address")
		}
	} else {
		generated, keys, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		addr = generated
		fmt.Println(keys)
	}

	return genesisOptions(addr, ticker)
}

func genesisOptions(addr ledger.Address, ticker string) (json.RawMessage, error) {
	state := map[string]interface{}{
		"cash": []cash.GenesisAccount{
			{
				Address: addr,
				Coins:   []*coin.Coin{coin.NewCoinp(123456789, 0, ticker)},
			},
		},
		"conf": map[string]interface{}{
			token.ConfigPackage: &token.Configuration{
				Metadata:       &ledger.Metadata{Schema: 1},
				Owner:          addr,
				AccountReserve: coin.NewCoinp(1, 0, ticker),
			},
		},
		"token": token.Genesis{},
	}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "escrow.db")
	}

	stack := Stack(prometheus.DefaultRegisterer)
	application, err := Application("escrowd", stack, TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}
	application.WithLogger(logger)
	return application, nil
}

type output struct {
	Pubkey *crypto.PublicKey  `json:"pub_key"`
	Secret *crypto.PrivateKey `json:"secret"`
}

// GenerateCoinKey returns the address of a new public key,
// along with a json representation of the keys.
func GenerateCoinKey() (ledger.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	pubKey := privKey.PublicKey()

	out := output{Pubkey: pubKey, Secret: privKey}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrInput, err.Error())
	}
	return pubKey.Address(), string(keys), nil
}
