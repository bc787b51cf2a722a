package ledger_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

func TestCreateErrorResult(t *testing.T) {
	cases := map[string]struct {
		err  error
		msg  string
		code uint32
	}{
		"stdlib error is internal": {
			err:  fmt.Errorf("base"),
			msg:  "internal error",
			code: 1,
		},
		"registered error keeps its code": {
			err:  errors.Wrap(errors.ErrUnauthorized, "nonce"),
			msg:  "nonce: unauthorized",
			code: 2,
		},
		"state error": {
			err:  errors.ErrState.New("escrow closed"),
			msg:  "escrow closed: invalid state",
			code: 10,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			dres := ledger.DeliverTxError(tc.err, false)
			assert.True(t, dres.IsErr())
			assert.True(t, strings.HasSuffix(dres.Log, tc.msg), dres.Log)
			assert.Equal(t, tc.code, dres.Code)

			cres := ledger.CheckTxError(tc.err, false)
			assert.True(t, cres.IsErr())
			assert.True(t, strings.HasSuffix(cres.Log, tc.msg), cres.Log)
			assert.Equal(t, tc.code, cres.Code)
		})
	}
}

func TestCreateResults(t *testing.T) {
	d, msg := []byte{1, 3, 4}, "got it"
	dres := ledger.DeliverResult{Data: d, Log: msg}
	ad := dres.ToABCI()
	assert.EqualValues(t, d, ad.Data)
	assert.Equal(t, msg, ad.Log)
	assert.Empty(t, ad.Tags)

	c, gas := "aok", int64(12345)
	cres := ledger.NewCheck(gas, c)
	ac := cres.ToABCI()
	assert.Equal(t, c, ac.Log)
	assert.Equal(t, gas, ac.GasWanted)
	assert.Empty(t, ac.Data)
}
