package ledger_test

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionParts(t *testing.T) {
	Convey("Given a program condition", t, func() {
		cond := ledger.NewCondition("escrow", "pda", []byte{0x01, 0xAB})

		Convey("Parse returns every section", func() {
			ext, typ, data, err := cond.Parse()
			So(err, ShouldBeNil)
			So(ext, ShouldEqual, "escrow")
			So(typ, ShouldEqual, "pda")
			So(data, ShouldResemble, []byte{0x01, 0xAB})
		})

		Convey("String hex encodes the data only", func() {
			So(cond.String(), ShouldEqual, "escrow/pda/01AB")
		})

		Convey("The address is a 20 byte digest", func() {
			So(cond.Address(), ShouldHaveLength, ledger.AddressLength)
			So(cond.Address().Validate(), ShouldBeNil)
			So(cond.Address().Equals(ledger.NewCondition("escrow", "pda", []byte{0x01}).Address()), ShouldBeFalse)
		})
	})

	Convey("Extension and type must be 3 to 8 characters", t, func() {
		So(ledger.NewCondition("ab", "pda", []byte("x")).Validate(), ShouldNotBeNil)
		So(ledger.NewCondition("escrow", "toolongtype", []byte("x")).Validate(), ShouldNotBeNil)
		So(ledger.NewCondition("escrow", "pda", nil).Validate(), ShouldNotBeNil)
		So(ledger.NewCondition("sigs", "ed25519", []byte("\n")).Validate(), ShouldBeNil)
	})
}

func TestAddressString(t *testing.T) {
	addr := ledger.Address(bytes.Repeat([]byte{0xab}, ledger.AddressLength))
	assert.Equal(t, strings.Repeat("AB", ledger.AddressLength), addr.String())
	assert.Equal(t, "(nil)", ledger.Address(nil).String())
}

func TestAddressUnmarshalJSON(t *testing.T) {
	vault := ledger.NewCondition("escrow", "pda", []byte("vault"))
	raw := bytes.Repeat([]byte{0x42}, ledger.AddressLength)
	rawHex := hex.EncodeToString(raw)

	cases := map[string]struct {
		json     string
		wantErr  *errors.Error
		wantAddr ledger.Address
	}{
		"default decoding": {
			json:     `"` + rawHex + `"`,
			wantAddr: raw,
		},
		"hex decoding": {
			json:     `"hex:` + strings.ToUpper(rawHex) + `"`,
			wantAddr: raw,
		},
		"cond decoding": {
			json:     `"cond:escrow/pda/` + hex.EncodeToString([]byte("vault")) + `"`,
			wantAddr: vault.Address(),
		},
		"short address": {
			json:    `"6865782d61646472"`,
			wantErr: errors.ErrInput,
		},
		"malformed hex": {
			json:    `"hex:zz"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition format": {
			json:    `"cond:escrow/7661756c74"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition data": {
			json:    `"cond:escrow/pda/zzzzz"`,
			wantErr: errors.ErrInput,
		},
		"unknown format": {
			json:    `"foobar:xxx"`,
			wantErr: errors.ErrType,
		},
		"zero address": {
			json: `""`,
		},
		"zero hex address": {
			json: `"hex:"`,
		},
		"zero cond address": {
			json: `"cond:"`,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var a ledger.Address
			err := json.Unmarshal([]byte(tc.json), &a)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil && !reflect.DeepEqual(a, tc.wantAddr) {
				t.Fatalf("got address: %q", a)
			}
		})
	}
}

func TestAddressJSONRoundTrip(t *testing.T) {
	addr := ledger.NewCondition("sigs", "ed25519", []byte("key")).Address()
	raw, err := json.Marshal(addr)
	require.NoError(t, err)
	assert.Equal(t, `"`+addr.String()+`"`, string(raw))

	var got ledger.Address
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, addr, got)
}

func TestConditionUnmarshalJSON(t *testing.T) {
	cases := map[string]struct {
		json          string
		wantErr       *errors.Error
		wantCondition ledger.Condition
	}{
		"default decoding": {
			json:          `"escrow/pda/7661756c74"`,
			wantCondition: ledger.NewCondition("escrow", "pda", []byte("vault")),
		},
		"invalid condition format": {
			json:    `"escrow/7661756c74"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition data": {
			json:    `"escrow/pda/zzzzz"`,
			wantErr: errors.ErrInput,
		},
		"zero condition": {
			json: `""`,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got ledger.Condition
			err := json.Unmarshal([]byte(tc.json), &got)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil && !got.Equals(tc.wantCondition) {
				t.Fatalf("expected %q but got condition: %q", tc.wantCondition, got)
			}
		})
	}
}

func TestConditionMarshalJSON(t *testing.T) {
	cases := map[string]struct {
		source   ledger.Condition
		wantJSON string
	}{
		"program condition": {
			source:   ledger.NewCondition("escrow", "pda", []byte("vault")),
			wantJSON: `"escrow/pda/7661756C74"`,
		},
		"nil condition": {
			source:   nil,
			wantJSON: `""`,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := json.Marshal(tc.source)
			require.NoError(t, err)
			assert.Equal(t, tc.wantJSON, string(got))
		})
	}
}

func TestAddressBech32RoundTrip(t *testing.T) {
	addr := ledger.NewCondition("escrow", "pda", []byte("vault")).Address()

	enc, err := addr.Bech32("tiov")
	require.NoError(t, err)

	var got ledger.Address
	require.NoError(t, json.Unmarshal([]byte(`"bech32:`+enc+`"`), &got))
	assert.Equal(t, addr, got)
}
