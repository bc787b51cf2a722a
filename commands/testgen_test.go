package commands

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/ledgertest/assert"
)

func TestTestGen(t *testing.T) {
	dir, err := ioutil.TempDir("", "testgen")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	meta := &ledger.Metadata{Schema: 1}
	examples := []Example{{Filename: "metadata", Obj: meta}}
	assert.Nil(t, TestGenCmd(examples, []string{dir}))

	js, err := ioutil.ReadFile(filepath.Join(dir, "metadata.json"))
	assert.Nil(t, err)
	assert.Equal(t, "{\n  \"schema\": 1\n}", string(js))

	bin, err := ioutil.ReadFile(filepath.Join(dir, "metadata.bin"))
	assert.Nil(t, err)
	var got ledger.Metadata
	assert.Nil(t, got.Unmarshal(bin))
	assert.Equal(t, meta, &got)
}
