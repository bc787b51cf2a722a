package ledger

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/ledger/ledgertest/assert"
)

func TestReadOptions(t *testing.T) {
	type conf struct {
		Owner  string `json:"owner"`
		Amount int    `json:"amount"`
	}

	cases := map[string]struct {
		raw     string
		key     string
		want    conf
		wantErr bool
	}{
		"value is read": {
			raw:  `{"token": {"owner": "a", "amount": 3}}`,
			key:  "token",
			want: conf{Owner: "a", Amount: 3},
		},
		"missing key is not an error": {
			raw:  `{"cash": []}`,
			key:  "token",
			want: conf{},
		},
		"invalid value": {
			raw:     `{"token": ["a"]}`,
			key:     "token",
			wantErr: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts Options
			assert.Nil(t, json.Unmarshal([]byte(tc.raw), &opts))

			var got conf
			err := opts.ReadOptions(tc.key, &got)
			if tc.wantErr {
				if err == nil {
					t.Fatal("want an error")
				}
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
