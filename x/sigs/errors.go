package sigs

import "github.com/iov-one/ledger/errors"

// ErrInvalidSequence is returned when a signature nonce does not match the
// one stored for the public key.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
