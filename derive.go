package ledger

import (
	"crypto/sha256"

	"github.com/agl/ed25519/edwards25519"
	"github.com/iov-one/ledger/errors"
)

const (
	// MaxSeeds is the maximum number of seeds accepted by a program
	// address derivation.
	MaxSeeds = 16
	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32

	// ProgramAddressType is the condition type used by all program derived
	// addresses.
	ProgramAddressType = "pda"

	programAddressMarker = "ProgramDerivedAddress"
)

// CreateProgramAddress computes the condition owned by the given program
// for the seeds and bump. The result is deterministic and can be recomputed
// by anyone.
//
// A digest that is a valid ed25519 point is rejected, as a private key
// might exist for it. FindProgramAddress searches for a bump that avoids
// this.
func CreateProgramAddress(program string, bump uint8, seeds ...[]byte) (Condition, error) {
	if err := validateSeeds(program, seeds); err != nil {
		return nil, err
	}
	digest := programDigest(program, bump, seeds)
	if isOnCurve(&digest) {
		return nil, errors.Wrapf(errors.ErrInput, "bump %d derives an address on curve", bump)
	}
	return NewCondition(program, ProgramAddressType, digest[:]), nil
}

// FindProgramAddress returns the first valid program address for the
// seeds, trying bumps from 255 down to 0, together with the bump that
// produced it.
func FindProgramAddress(program string, seeds ...[]byte) (Condition, uint8, error) {
	if err := validateSeeds(program, seeds); err != nil {
		return nil, 0, err
	}
	for bump := 255; bump >= 0; bump-- {
		digest := programDigest(program, uint8(bump), seeds)
		if !isOnCurve(&digest) {
			return NewCondition(program, ProgramAddressType, digest[:]), uint8(bump), nil
		}
	}
	return nil, 0, errors.Wrap(errors.ErrInput, "no valid bump found")
}

// IsProgramAddress returns true if the condition was created by a program
// address derivation for the given program.
func IsProgramAddress(c Condition, program string) bool {
	ext, typ, data, err := c.Parse()
	if err != nil {
		return false
	}
	return ext == program && typ == ProgramAddressType && len(data) == sha256.Size
}

func validateSeeds(program string, seeds [][]byte) error {
	if !conditionRx.MatchString(program + "/" + ProgramAddressType + "/x") {
		return errors.Wrapf(errors.ErrInput, "invalid program name %q", program)
	}
	if len(seeds) > MaxSeeds {
		return errors.Wrapf(errors.ErrInput, "too many seeds: %d", len(seeds))
	}
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return errors.Wrapf(errors.ErrInput, "seed %d too long", i)
		}
	}
	return nil
}

// programDigest is sha256(seeds | bump | program | marker).
func programDigest(program string, bump uint8, seeds [][]byte) [32]byte {
	h := sha256.New()
	for _, s := range seeds {
		_, _ = h.Write(s)
	}
	_, _ = h.Write([]byte{bump})
	_, _ = h.Write([]byte(program))
	_, _ = h.Write([]byte(programAddressMarker))

	var digest [32]byte
	copy(digest[:], h.Sum(nil))
	return digest
}

func isOnCurve(b *[32]byte) bool {
	var p edwards25519.ExtendedGroupElement
	return p.FromBytes(b)
}
