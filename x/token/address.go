package token

import (
	"regexp"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// ProgramName is the extension name of all conditions derived by this
// package.
const ProgramName = "token"

var isTicker = regexp.MustCompile(`^[A-Z0-9]{3,8}$`).MatchString

// ReserveAddress holds the native coin reserves of all open accounts.
var ReserveAddress = ledger.NewCondition(ProgramName, "reserve", []byte("accounts")).Address()

// MintAddress returns the address of the mint with the given ticker.
func MintAddress(ticker string) (ledger.Address, error) {
	if !isTicker(ticker) {
		return nil, errors.Wrapf(errors.ErrInput, "invalid ticker %q", ticker)
	}
	c, _, err := ledger.FindProgramAddress(ProgramName, []byte("mint"), []byte(ticker))
	if err != nil {
		return nil, err
	}
	return c.Address(), nil
}

// AccountAddress returns the address of the default account of owner for
// the given mint. Accounts at any other address can be opened by other
// extensions through the Controller.
func AccountAddress(owner, mint ledger.Address) (ledger.Address, error) {
	if err := owner.Validate(); err != nil {
		return nil, errors.Wrap(err, "owner")
	}
	if err := mint.Validate(); err != nil {
		return nil, errors.Wrap(err, "mint")
	}
	c, _, err := ledger.FindProgramAddress(ProgramName, owner, mint)
	if err != nil {
		return nil, err
	}
	return c.Address(), nil
}
