package coin

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger/errors"
)

// Coin is an amount of the native currency. It pays for token account
// reserves. The value is Whole + Fractional / FracUnit units of Ticker, both
// parts carrying the same sign.
type Coin struct {
	Whole      int64  `protobuf:"varint,1,opt,name=whole,proto3" json:"whole,omitempty"`
	Fractional int64  `protobuf:"varint,2,opt,name=fractional,proto3" json:"fractional,omitempty"`
	Ticker     string `protobuf:"bytes,3,opt,name=ticker,proto3" json:"ticker,omitempty"`
}

// IsCC reports whether the ticker is a valid currency code.
var IsCC = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

const (
	// MaxInt is the largest whole value accepted, 10^15-1.
	MaxInt int64 = 999999999999999
	MinInt       = -MaxInt

	// FracUnit is the number of fractional units in one whole, 10^9.
	FracUnit int64 = 1000000000
	MaxFrac        = FracUnit - 1
	MinFrac        = -MaxFrac

	fracDigits = 9
)

func NewCoin(whole int64, fractional int64, ticker string) Coin {
	return Coin{Whole: whole, Fractional: fractional, Ticker: ticker}
}

// NewCoinp returns a pointer to a new coin.
func NewCoinp(whole, fractional int64, ticker string) *Coin {
	c := NewCoin(whole, fractional, ticker)
	return &c
}

// ID returns the ticker. Coins sorts by it.
func (c Coin) ID() string {
	return c.Ticker
}

// Add returns the sum of both coins. A zero coin without a ticker is
// neutral. Different tickers are ErrCurrency and a result outside of the
// accepted range is ErrOverflow.
func (c Coin) Add(o Coin) (Coin, error) {
	switch {
	case c.Ticker == "" && c.IsZero():
		return o, nil
	case o.Ticker == "" && o.IsZero():
		return c, nil
	case !c.SameType(o):
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "adding %s to %s", c.Ticker, o.Ticker)
	}
	c.Whole += o.Whole
	c.Fractional += o.Fractional
	return c.normalize()
}

// Negative returns the additive inverse.
func (c Coin) Negative() Coin {
	return Coin{Ticker: c.Ticker, Whole: -c.Whole, Fractional: -c.Fractional}
}

func (c Coin) Subtract(amount Coin) (Coin, error) {
	return c.Add(amount.Negative())
}

// Compare returns 1, 0 or -1 as c is greater than, equal to or less than o.
// Tickers are ignored and both coins must be normalized.
func (c Coin) Compare(o Coin) int {
	if c.Whole != o.Whole {
		return sign(c.Whole - o.Whole)
	}
	return sign(c.Fractional - o.Fractional)
}

func sign(n int64) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}

func (c Coin) Equals(o Coin) bool {
	return c == o
}

// IsEmpty returns true for a nil or zero coin.
func IsEmpty(c *Coin) bool {
	return c == nil || c.IsZero()
}

func (c Coin) IsZero() bool {
	return c.Whole == 0 && c.Fractional == 0
}

func (c Coin) IsPositive() bool {
	return c.Whole > 0 || (c.Whole == 0 && c.Fractional > 0)
}

func (c Coin) IsNonNegative() bool {
	return c.Whole >= 0 && c.Fractional >= 0
}

// IsGTE returns true if o has the same ticker and c is at least o.
func (c Coin) IsGTE(o Coin) bool {
	return c.SameType(o) && c.Compare(o) >= 0
}

func (c Coin) SameType(o Coin) bool {
	return c.Ticker == o.Ticker
}

// Clone returns an independent copy.
func (c *Coin) Clone() *Coin {
	if c == nil {
		return nil
	}
	cpy := *c
	return &cpy
}

// Validate checks the ticker, the ranges and that both parts share a sign.
// Negative values are valid.
func (c Coin) Validate() error {
	var err error
	if !IsCC(c.Ticker) {
		err = errors.Append(err, errors.Wrapf(errors.ErrCurrency, "invalid currency: %s", c.Ticker))
	}
	if c.Whole < MinInt || c.Whole > MaxInt {
		err = errors.Append(err, errors.ErrOverflow)
	}
	if c.Fractional < MinFrac || c.Fractional > MaxFrac {
		err = errors.Append(err, errors.Wrap(errors.ErrOverflow, "fractional"))
	}
	if c.Whole != 0 && c.Fractional != 0 && (c.Whole > 0) != (c.Fractional > 0) {
		err = errors.Append(err, errors.Wrap(errors.ErrState, "mismatched sign"))
	}
	return err
}

// normalize moves whole units out of the fractional part and aligns the
// signs of both parts.
func (c Coin) normalize() (Coin, error) {
	c.Whole += c.Fractional / FracUnit
	c.Fractional %= FracUnit

	switch {
	case c.Whole > 0 && c.Fractional < 0:
		c.Whole--
		c.Fractional += FracUnit
	case c.Whole < 0 && c.Fractional > 0:
		c.Whole++
		c.Fractional -= FracUnit
	}

	if c.Whole < MinInt || c.Whole > MaxInt {
		return Coin{}, errors.Wrap(errors.ErrOverflow, "whole")
	}
	return c, nil
}

// UnmarshalJSON accepts the human format ("1.5 IOV") as well as an object
// with whole, fractional and ticker attributes.
func (c *Coin) UnmarshalJSON(raw []byte) error {
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		parsed, err := ParseHumanFormat(human)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	// A type without the UnmarshalJSON method, to avoid recursion.
	var obj struct {
		Whole      int64
		Fractional int64
		Ticker     string
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return err
	}
	*c = Coin{Whole: obj.Whole, Fractional: obj.Fractional, Ticker: obj.Ticker}
	return nil
}

// String returns the human format of the coin. For a valid coin it can be
// parsed back with ParseHumanFormat.
func (c Coin) String() string {
	if n, err := c.normalize(); err == nil {
		c = n
	}

	var b strings.Builder
	if c.Whole == 0 && c.Fractional < 0 {
		b.WriteString("-")
	}
	b.WriteString(strconv.FormatInt(c.Whole, 10))
	if f := c.Fractional; f != 0 {
		if f < 0 {
			f = -f
		}
		b.WriteString(strings.TrimRight(fmt.Sprintf(".%09d", f), "0"))
	}
	if c.Ticker != "" {
		b.WriteString(" ")
		b.WriteString(c.Ticker)
	}
	return b.String()
}

var humanCoinFormatRx = regexp.MustCompile(`^(\-?)\s*(\d+)(?:\.(\d+))?\s*([A-Z]{3,4})$`)

// ParseHumanFormat parses "<whole>[.<fractional>] <ticker>", for example
// "-2.5 IOV". At most nine fractional digits are accepted.
func ParseHumanFormat(h string) (Coin, error) {
	m := humanCoinFormatRx.FindStringSubmatch(h)
	if m == nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "invalid coin format %q", h)
	}
	negative, wholeDigits, fracDigitsRaw, ticker := m[1] == "-", m[2], m[3], m[4]

	whole, err := strconv.ParseInt(wholeDigits, 10, 64)
	if err != nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "invalid whole value: %s", err)
	}

	var fract int64
	if fracDigitsRaw != "" {
		if len(fracDigitsRaw) > fracDigits {
			return Coin{}, errors.Wrapf(errors.ErrInput, "more than %d fractional digits", fracDigits)
		}
		padded := fracDigitsRaw + strings.Repeat("0", fracDigits-len(fracDigitsRaw))
		if fract, err = strconv.ParseInt(padded, 10, 64); err != nil {
			return Coin{}, errors.Wrapf(errors.ErrInput, "invalid fractional value: %s", err)
		}
	}

	if negative {
		whole, fract = -whole, -fract
	}
	return Coin{Ticker: ticker, Whole: whole, Fractional: fract}, nil
}

// Set implements flag.Value.
func (c *Coin) Set(raw string) error {
	val, err := ParseHumanFormat(raw)
	if err != nil {
		return err
	}
	*c = val
	return nil
}

type coinPB Coin

func (m *coinPB) Reset()         { *m = coinPB{} }
func (m *coinPB) String() string { return proto.CompactTextString(m) }
func (*coinPB) ProtoMessage()    {}

func (c *Coin) Marshal() ([]byte, error) {
	return proto.Marshal((*coinPB)(c))
}

func (c *Coin) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*coinPB)(c))
}
