package ledger

import (
	"bytes"
	"testing"

	"github.com/iov-one/ledger/errors"
)

func TestFindProgramAddress(t *testing.T) {
	cond, bump, err := FindProgramAddress("escrow", []byte("escrow"))
	if err != nil {
		t.Fatalf("cannot find: %s", err)
	}
	if !IsProgramAddress(cond, "escrow") {
		t.Fatalf("not a program address: %s", cond)
	}

	again, againBump, err := FindProgramAddress("escrow", []byte("escrow"))
	if err != nil {
		t.Fatalf("cannot find: %s", err)
	}
	if !cond.Equals(again) || bump != againBump {
		t.Fatal("derivation is not deterministic")
	}

	created, err := CreateProgramAddress("escrow", bump, []byte("escrow"))
	if err != nil {
		t.Fatalf("cannot create with found bump: %s", err)
	}
	if !created.Equals(cond) {
		t.Fatal("create and find disagree")
	}

	_, _, data, err := cond.Parse()
	if err != nil {
		t.Fatalf("cannot parse: %s", err)
	}
	var point [32]byte
	copy(point[:], data)
	if isOnCurve(&point) {
		t.Fatal("program address must not be a valid public key")
	}
}

func TestProgramAddressSeparation(t *testing.T) {
	a, _, err := FindProgramAddress("escrow", []byte("token-seed"))
	if err != nil {
		t.Fatalf("cannot find: %s", err)
	}
	b, _, err := FindProgramAddress("escrow", []byte("token-seed"), []byte("swap-1"))
	if err != nil {
		t.Fatalf("cannot find: %s", err)
	}
	c, _, err := FindProgramAddress("other", []byte("token-seed"))
	if err != nil {
		t.Fatalf("cannot find: %s", err)
	}
	if a.Equals(b) || a.Equals(c) || bytes.Equal(a.Address(), c.Address()) {
		t.Fatal("different inputs must derive different addresses")
	}
	if IsProgramAddress(c, "escrow") {
		t.Fatal("address of another program accepted")
	}
}

func TestCreateProgramAddressErrors(t *testing.T) {
	cases := map[string]struct {
		program string
		seeds   [][]byte
	}{
		"program name too short": {
			program: "ab",
			seeds:   [][]byte{[]byte("x")},
		},
		"seed too long": {
			program: "escrow",
			seeds:   [][]byte{bytes.Repeat([]byte("x"), MaxSeedLength+1)},
		},
		"too many seeds": {
			program: "escrow",
			seeds:   make([][]byte, MaxSeeds+1),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if _, err := CreateProgramAddress(tc.program, 255, tc.seeds...); !errors.ErrInput.Is(err) {
				t.Fatalf("want input error, got %v", err)
			}
			if _, _, err := FindProgramAddress(tc.program, tc.seeds...); !errors.ErrInput.Is(err) {
				t.Fatalf("want input error, got %v", err)
			}
		})
	}
}

func TestCreateProgramAddressRejectsCurvePoints(t *testing.T) {
	// Roughly half of all digests decode to a point, so among all bumps at
	// least one must be rejected.
	var rejected int
	for bump := 0; bump < 256; bump++ {
		if _, err := CreateProgramAddress("escrow", uint8(bump), []byte("escrow")); err != nil {
			if !errors.ErrInput.Is(err) {
				t.Fatalf("unexpected error: %s", err)
			}
			rejected++
		}
	}
	if rejected == 0 {
		t.Fatal("no on curve digest was rejected")
	}
}
