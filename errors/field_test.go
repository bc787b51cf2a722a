package errors

import (
	"reflect"
	"testing"
)

func TestFieldErrors(t *testing.T) {
	// Shared instances, so that DeepEqual compares identity.
	var (
		vaultAuthErr  = Field("Vault", ErrUnauthorized, "not the escrow authority")
		vaultInputErr = Field("Vault", ErrInput, "not derived from the seed")
		amountErr     = Field("TakerAmount", ErrAmount, "must be positive")
		escrowErr     = Field("Escrow", Append(
			vaultInputErr,
			Append(amountErr, ErrState),
		), "invalid escrow")

		amountWrapErr = Field("TakerAmount", amountErr, "outer")
	)

	cases := map[string]struct {
		err   error
		field string
		want  []error
	}{
		"single field error": {
			err:   vaultAuthErr,
			field: "Vault",
			want:  []error{vaultAuthErr},
		},
		"two errors of the same field": {
			err:   Append(vaultAuthErr, vaultInputErr),
			field: "Vault",
			want:  []error{vaultAuthErr, vaultInputErr},
		},
		"field holding a multi error": {
			err:   escrowErr,
			field: "Escrow",
			want:  []error{escrowErr},
		},
		"nested field inside a multi error": {
			err:   escrowErr,
			field: "TakerAmount",
			want:  []error{amountErr},
		},
		"nil error": {
			err:   nil,
			field: "Vault",
		},
		"plain error has no fields": {
			err:   ErrUnauthorized,
			field: "Vault",
		},
		"other field name": {
			err:   Field("Mint", ErrUnauthorized, "a description"),
			field: "Vault",
		},
		"wrapped field error": {
			err:   Wrap(Wrap(vaultInputErr, "inner"), "outer"),
			field: "Vault",
			want:  []error{vaultInputErr},
		},
		"wrapped multi error": {
			err:   Wrap(Wrap(escrowErr, "inner"), "outer"),
			field: "TakerAmount",
			want:  []error{amountErr},
		},
		"wrapped multi error without a match": {
			err:   Wrap(Wrap(escrowErr, "inner"), "outer"),
			field: "Taker",
		},
		"innermost field under other fields": {
			err:   Field("Escrow", Field("Vault", amountErr, "vault"), "escrow"),
			field: "TakerAmount",
			want:  []error{amountErr},
		},
		"outermost of two wraps of the same field": {
			err:   amountWrapErr,
			field: "TakerAmount",
			want:  []error{amountWrapErr},
		},
		"matches collected across an appended list": {
			err: Wrap(Append(
				Wrap(vaultAuthErr, "a"),
				Wrap(vaultInputErr, "b"),
				Wrap(amountErr, "c"),
			), "outer"),
			field: "Vault",
			want:  []error{vaultAuthErr, vaultInputErr},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got := FieldErrors(tc.err, tc.field)
			if !reflect.DeepEqual(tc.want, got) {
				t.Logf("want: %#v", tc.want)
				t.Logf(" got: %#v", got)
				t.Fatal("unexpected result")
			}
		})
	}
}

func TestAppendField(t *testing.T) {
	if err := AppendField(nil, "Vault", nil); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	err := AppendField(nil, "Vault", ErrCollision)
	if !ErrCollision.Is(err) {
		t.Fatalf("want collision, got %v", err)
	}
	if got := FieldErrors(err, "Vault"); len(got) != 1 {
		t.Fatalf("want one vault error, got %d", len(got))
	}
}
