/*
Package bech32 converts raw bytes, such as addresses, to and from the bech32
format shown to users.
*/
package bech32

import (
	"github.com/btcsuite/btcutil/bech32"
	"github.com/iov-one/ledger/errors"
)

// Decode returns the human readable part and the payload of enc. A malformed
// string or a bad checksum is ErrInput.
func Decode(enc string) (string, []byte, error) {
	hrp, words, err := bech32.Decode(enc)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	payload, err := bech32.ConvertBits(words, 5, 8, false)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return hrp, payload, nil
}

// Encode returns payload in bech32 form, prefixed with hrp.
func Encode(hrp string, payload []byte) (string, error) {
	words, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", errors.Wrap(errors.ErrInput, err.Error())
	}
	enc, err := bech32.Encode(hrp, words)
	if err != nil {
		return "", errors.Wrap(errors.ErrInput, err.Error())
	}
	return enc, nil
}
