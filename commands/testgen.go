package commands

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// Example is written out to <Filename>.json and <Filename>.bin. Filename
// has no path and no extension.
type Example struct {
	Filename string
	Obj      ledger.Marshaller
}

// TestGenCmd writes the JSON and the protobuf encoding of every example into
// the directory given as the first argument, "testdata" by default. Client
// libraries test their codecs against these files.
func TestGenCmd(examples []Example, args []string) error {
	outdir := "testdata"
	if len(args) > 0 {
		outdir = args[0]
	}
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return errors.Wrapf(errors.ErrInput, "create %s: %s", outdir, err)
	}

	for _, ex := range examples {
		js, err := json.MarshalIndent(ex.Obj, "", "  ")
		if err != nil {
			return errors.Wrapf(errors.ErrInput, "%s: %s", ex.Filename, err)
		}
		if err := ioutil.WriteFile(filepath.Join(outdir, ex.Filename+".json"), js, 0644); err != nil {
			return err
		}

		pb, err := ex.Obj.Marshal()
		if err != nil {
			return errors.Wrap(err, ex.Filename)
		}
		if err := ioutil.WriteFile(filepath.Join(outdir, ex.Filename+".bin"), pb, 0644); err != nil {
			return err
		}
	}
	return nil
}
