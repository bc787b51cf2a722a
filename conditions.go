package ledger

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/iov-one/ledger/crypto/bech32"
	"github.com/iov-one/ledger/errors"
)

// AddressLength is the size of every address. Token accounts, mints, vaults
// and wallets are all keyed by one.
const AddressLength = 20

// (?s) lets the data section contain any byte, newlines included.
var conditionRx = regexp.MustCompile(`(?s)^([a-zA-Z0-9_\-]{3,8})/([a-zA-Z0-9_\-]{3,8})/(.+)$`)

// Condition names who can authorize an action, in the form
// "<extension>/<type>/<data>". A signature check produces "sigs/ed25519/..."
// and the escrow program "escrow/pda/...".
type Condition []byte

// NewCondition builds a Condition. Extension and type must be 3 to 8
// characters long, as enforced by Validate.
func NewCondition(ext, typ string, data []byte) Condition {
	c := make(Condition, 0, len(ext)+len(typ)+len(data)+2)
	c = append(c, ext...)
	c = append(c, '/')
	c = append(c, typ...)
	c = append(c, '/')
	return append(c, data...)
}

// Parse returns the extension, type and data of the condition.
func (c Condition) Parse() (string, string, []byte, error) {
	m := conditionRx.FindSubmatch(c)
	if m == nil {
		return "", "", nil, errors.ErrInput.Newf("condition: %X", []byte(c))
	}
	return string(m[1]), string(m[2]), m[3], nil
}

// Address returns the identity the condition controls.
func (c Condition) Address() Address {
	return NewAddress(c)
}

func (c Condition) Equals(o Condition) bool {
	return bytes.Equal(c, o)
}

// String keeps extension and type readable and hex encodes the data.
func (c Condition) String() string {
	ext, typ, data, err := c.Parse()
	if err != nil {
		return fmt.Sprintf("Invalid Condition: %X", []byte(c))
	}
	return fmt.Sprintf("%s/%s/%X", ext, typ, data)
}

func (c Condition) Validate() error {
	if !conditionRx.Match(c) {
		return errors.ErrInput.Newf("condition: %X", []byte(c))
	}
	return nil
}

func (c Condition) MarshalJSON() ([]byte, error) {
	if c == nil {
		return json.Marshal("")
	}
	return json.Marshal(c.String())
}

func (c *Condition) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	cond, err := parseCondition(enc)
	if err != nil {
		return err
	}
	*c = cond
	return nil
}

// parseCondition reads the String form. An empty string is a nil
// condition.
func parseCondition(s string) (Condition, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return nil, errors.ErrInput.Newf("invalid condition format")
	}
	data, err := hex.DecodeString(parts[2])
	if err != nil {
		return nil, errors.ErrInput.Newf("malformed condition data: %s", err)
	}
	return NewCondition(parts[0], parts[1], data), nil
}

// Address is the truncated sha256 digest of a Condition. No private key
// exists for an address, only for the conditions hashing to it.
type Address []byte

// NewAddress hashes data into an address. Nil data gives a nil address.
func NewAddress(data []byte) Address {
	if data == nil {
		return nil
	}
	h := sha256.Sum256(data)
	return h[:AddressLength]
}

func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// String returns the upper case hex form. Bech32 gives the form shown to
// end users.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a))
}

// Bech32 returns the address encoded with the given human readable prefix.
func (a Address) Bech32(hrp string) (string, error) {
	return bech32.Encode(hrp, a)
}

func (a Address) Clone() Address {
	if a == nil {
		return nil
	}
	return append(Address{}, a...)
}

func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.ErrInput.Newf("address: %v", a)
	}
	return nil
}

// MarshalJSON writes the hex form instead of base64.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToUpper(hex.EncodeToString(a)))
}

// UnmarshalJSON reads a hex address. A "cond:" prefix takes a condition and
// stores its address, a "bech32:" prefix a bech32 address.
func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	format, value := "hex", enc
	if i := strings.Index(enc, ":"); i >= 0 {
		format, value = enc[:i], enc[i+1:]
	}
	if value == "" {
		*a = nil
		return nil
	}
	decode, ok := addressDecoders[format]
	if !ok {
		return errors.ErrType.Newf("unknown format %q", format)
	}
	addr, err := decode(value)
	if err != nil {
		return err
	}
	if err := addr.Validate(); err != nil {
		return err
	}
	*a = addr
	return nil
}

var addressDecoders = map[string]func(string) (Address, error){
	"hex": func(s string) (Address, error) {
		raw, err := hex.DecodeString(s)
		if err != nil {
			return nil, errors.Wrap(errors.ErrInput, "cannot decode hex")
		}
		return raw, nil
	},
	"cond": func(s string) (Address, error) {
		c, err := parseCondition(s)
		if err != nil {
			return nil, err
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		return c.Address(), nil
	},
	"bech32": func(s string) (Address, error) {
		_, payload, err := bech32.Decode(s)
		if err != nil {
			return nil, errors.Wrap(err, "deserialize bech32")
		}
		return payload, nil
	},
}
