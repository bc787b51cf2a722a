package escrowd

import (
	"encoding/hex"
	"strings"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/commands"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/orm"
	"github.com/iov-one/ledger/x/cash"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/sigs"
	"github.com/iov-one/ledger/x/token"
)

// The keys are fixed so that testgen output is reproducible. They are not
// secure at all.
var (
	initializerKey = makePrivKey("1234567890")
	takerKey       = makePrivKey("F00BA411")
	authorityKey   = makePrivKey("00CAFE00F00D")
)

// makePrivKey repeats the string as long as needed to get 64 digits, then
// parses it as hex and uses the result as the private key seed.
func makePrivKey(seed string) *crypto.PrivateKey {
	rep := 64/len(seed) + 1
	in := strings.Repeat(seed, rep)[:64]
	bin, err := hex.DecodeString(in)
	if err != nil {
		panic(err)
	}
	return crypto.PrivKeyEd25519FromSeed(bin)
}

func mustAddr(addr ledger.Address, err error) ledger.Address {
	if err != nil {
		panic(err)
	}
	return addr
}

// Examples generates some example structs to dump out with testgen
func Examples() []commands.Example {
	initializer := initializerKey.PublicKey().Address()
	taker := takerKey.PublicKey().Address()

	mintA := mustAddr(token.MintAddress("AAA"))
	mintB := mustAddr(token.MintAddress("BBB"))
	vault, bump, err := escrow.FindVault([]byte("example"))
	if err != nil {
		panic(err)
	}
	authority, _ := escrow.Authority()

	wallet := &cash.Set{
		Metadata: &ledger.Metadata{Schema: 1},
		Coins:    []*coin.Coin{coin.NewCoinp(50000, 0, "IOV")},
	}
	user := &sigs.UserData{
		Metadata: &ledger.Metadata{Schema: 1},
		Pubkey:   initializerKey.PublicKey(),
		Sequence: 17,
	}
	createMint := &token.CreateMintMsg{
		Metadata:  &ledger.Metadata{Schema: 1},
		Authority: authorityKey.PublicKey().Address(),
		Ticker:    "AAA",
	}
	openAccount := &token.OpenAccountMsg{
		Metadata: &ledger.Metadata{Schema: 1},
		Payer:    initializer,
		Owner:    initializer,
		Mint:     mintA,
	}
	initialize := &escrow.InitializeMsg{
		Metadata:                  &ledger.Metadata{Schema: 1},
		Initializer:               initializer,
		Vault:                     vault,
		VaultSeed:                 []byte("example"),
		VaultBump:                 uint32(bump),
		Mint:                      mintA,
		InitializerDepositAccount: mustAddr(token.AccountAddress(initializer, mintA)),
		InitializerReceiveAccount: mustAddr(token.AccountAddress(initializer, mintB)),
		InitializerAmount:         500,
		TakerAmount:               1000,
	}
	exchange := &escrow.ExchangeMsg{
		Metadata:                  &ledger.Metadata{Schema: 1},
		EscrowID:                  orm.EncodeSequence(1),
		Taker:                     taker,
		TakerDepositAccount:       mustAddr(token.AccountAddress(taker, mintB)),
		TakerReceiveAccount:       mustAddr(token.AccountAddress(taker, mintA)),
		Initializer:               initializer,
		InitializerDepositAccount: initialize.InitializerDepositAccount,
		InitializerReceiveAccount: initialize.InitializerReceiveAccount,
		Vault:                     vault,
		VaultAuthority:            authority.Address(),
	}
	cancel := &escrow.CancelMsg{
		Metadata:                  &ledger.Metadata{Schema: 1},
		EscrowID:                  orm.EncodeSequence(1),
		Initializer:               initializer,
		InitializerDepositAccount: initialize.InitializerDepositAccount,
		Vault:                     vault,
		VaultAuthority:            authority.Address(),
	}

	unsigned, err := NewTx(initialize)
	if err != nil {
		panic(err)
	}
	signed := *unsigned
	sig, err := sigs.SignTx(initializerKey, &signed, "test-123", 17)
	if err != nil {
		panic(err)
	}
	signed.Signatures = []*sigs.StdSignature{sig}

	return []commands.Example{
		{Filename: "wallet", Obj: wallet},
		{Filename: "priv_key", Obj: initializerKey},
		{Filename: "pub_key", Obj: initializerKey.PublicKey()},
		{Filename: "user", Obj: user},
		{Filename: "create_mint_msg", Obj: createMint},
		{Filename: "open_account_msg", Obj: openAccount},
		{Filename: "initialize_msg", Obj: initialize},
		{Filename: "exchange_msg", Obj: exchange},
		{Filename: "cancel_msg", Obj: cancel},
		{Filename: "unsigned_tx", Obj: unsigned},
		{Filename: "signed_tx", Obj: &signed},
	}
}
