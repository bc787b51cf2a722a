package gconf

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/ledgertest/assert"
	"github.com/iov-one/ledger/store"
)

func TestUpdateConfigurationHandler(t *testing.T) {
	cond := ledgertest.NewCondition()

	initial := &myconfig{
		Owner: cond.Address(),
		Num:   5125,
		Str:   "foobar",
		Cn:    coin.NewCoin(10, 409, "IOV"),
	}

	cases := map[string]struct {
		// Init is the stored configuration, if any.
		Init           ValidMarshaler
		Msg            ledger.Msg
		MsgConditions  []ledger.Condition
		WantCheckErr   *errors.Error
		WantDeliverErr *errors.Error
		WantConfig     *myconfig
	}{
		"success": {
			Init: initial,
			Msg: &myconfigMsg{
				Patch: &myconfig{
					Owner: cond.Address(),
					Num:   333,
					Str:   "boing!",
					Cn:    coin.NewCoin(4, 4, "XYZ"),
				},
			},
			MsgConditions: []ledger.Condition{cond},
			WantConfig: &myconfig{
				Owner: cond.Address(),
				Num:   333,
				Str:   "boing!",
				Cn:    coin.NewCoin(4, 4, "XYZ"),
			},
		},
		"message must be signed by the configuration owner": {
			Init:           initial,
			Msg:            &myconfigMsg{Patch: &myconfig{Owner: cond.Address(), Cn: coin.NewCoin(1, 0, "IOV")}},
			MsgConditions:  []ledger.Condition{ledgertest.NewCondition()},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
			WantConfig:     initial,
		},
		"zero values are not updating the configuration": {
			Init: initial,
			Msg: &myconfigMsg{
				Patch: &myconfig{Owner: cond.Address(), Cn: coin.NewCoin(0, 4, "IOV")},
			},
			MsgConditions: []ledger.Condition{cond},
			WantConfig: &myconfig{
				Owner: cond.Address(),
				Num:   5125,
				Str:   "foobar",
				Cn:    coin.NewCoin(0, 4, "IOV"),
			},
		},
		"invalid configuration is not accepted": {
			Init: initial,
			Msg: &myconfigMsg{
				Patch: &myconfig{Owner: cond.Address(), Num: 123, Cn: coin.NewCoin(4, 0, "")},
			},
			MsgConditions:  []ledger.Condition{cond},
			WantCheckErr:   errors.ErrCurrency,
			WantDeliverErr: errors.ErrCurrency,
			WantConfig:     initial,
		},
		"missing patch": {
			Init:           initial,
			Msg:            &myconfigMsg{},
			MsgConditions:  []ledger.Condition{cond},
			WantCheckErr:   errors.ErrEmpty,
			WantDeliverErr: errors.ErrEmpty,
		},
		"configuration must exist": {
			Msg:            &myconfigMsg{Patch: initial},
			MsgConditions:  []ledger.Condition{cond},
			WantCheckErr:   errors.ErrState,
			WantDeliverErr: errors.ErrState,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()

			if tc.Init != nil {
				if err := Save(db, "mypkg", tc.Init); err != nil {
					t.Fatalf("cannot save initial configuration: %s", err)
				}
			}

			auth := &ledgertest.CtxAuth{Key: "auth"}
			handler := NewUpdateConfigurationHandler("mypkg", func() OwnedConfig { return &myconfig{} }, auth)

			ctx := ledger.WithHeight(context.Background(), 999)
			ctx = ledger.WithChainID(ctx, "mychain-123")
			ctx = auth.SetConditions(ctx, tc.MsgConditions...)

			tx := &ledgertest.Tx{Msg: tc.Msg}

			cache := db.CacheWrap()
			if _, err := handler.Check(ctx, cache, tx); !tc.WantCheckErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			cache.Discard()

			if _, err := handler.Deliver(ctx, db, tx); !tc.WantDeliverErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}

			if tc.WantConfig != nil {
				var got myconfig
				if err := Load(db, "mypkg", &got); err != nil {
					t.Fatalf("cannot load configuration from the database: %s", err)
				}
				assert.Equal(t, tc.WantConfig, &got)
			}
		})
	}
}

type myconfig struct {
	Owner ledger.Address `json:"owner"`
	Num   int64          `json:"num"`
	Str   string         `json:"str"`
	Cn    coin.Coin      `json:"cn"`
}

func (c *myconfig) GetOwner() ledger.Address   { return c.Owner }
func (c *myconfig) Marshal() ([]byte, error)   { return json.Marshal(c) }
func (c *myconfig) Unmarshal(raw []byte) error { return json.Unmarshal(raw, c) }

func (c *myconfig) Validate() error {
	if err := c.Owner.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	if err := c.Cn.Validate(); err != nil {
		return errors.Wrap(err, "coin")
	}
	return nil
}

type myconfigMsg struct {
	Patch *myconfig
}

var _ ledger.Msg = (*myconfigMsg)(nil)

func (msg *myconfigMsg) Marshal() ([]byte, error)   { return json.Marshal(msg) }
func (msg *myconfigMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, msg) }
func (msg *myconfigMsg) Path() string               { return "myconfig" }

func (msg *myconfigMsg) Validate() error {
	if msg.Patch == nil {
		return nil
	}
	return msg.Patch.Validate()
}
