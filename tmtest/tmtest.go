/*
Package tmtest provides helpers for tests that need a tendermint home
directory or a running tendermint node.
*/
package tmtest

import (
	"context"
	"io"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/iov-one/ledger/ledgertest/assert"
)

// TestReporter is the minimal subset of testing.TB needed to run these test helpers
type TestReporter interface {
	assert.Tester
	Skipf(string, ...interface{})
	Logf(string, ...interface{})
}

// RunTendermint starts a tendermint node using the given home directory.
// The returned cleanup function stops the process and blocks until it is
// gone. The process is also stopped when ctx is done.
//
// The test is skipped when the tendermint binary cannot be found, unless the
// FORCE_TM_TEST=1 environment variable is set. TM_DEBUG=1 forwards the node
// output to stderr.
func RunTendermint(ctx context.Context, t TestReporter, home string) (cleanup func()) {
	t.Helper()

	tmpath, err := exec.LookPath("tendermint")
	if err != nil {
		if os.Getenv("FORCE_TM_TEST") != "1" {
			t.Skipf("Tendermint binary not found. Set FORCE_TM_TEST=1 to fail this test.")
		}
		t.Fatalf("Tendermint binary not found. Do not set FORCE_TM_TEST=1 to skip this test.")
	}

	cmd := exec.CommandContext(ctx, tmpath, "node", "--home", home)
	if os.Getenv("TM_DEBUG") != "" {
		cmd.Stdout = os.Stderr
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Start(); err != nil {
		t.Fatalf("Tendermint process failed: %s", err)
	}

	time.Sleep(2 * time.Second)
	t.Logf("Running %s pid=%d", tmpath, cmd.Process.Pid)

	done := make(chan struct{})
	var once sync.Once
	cleanup = func() {
		once.Do(func() {
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
			close(done)
		})
		<-done
	}
	go func() {
		select {
		case <-ctx.Done():
			cleanup()
		case <-done:
		}
	}()
	return cleanup
}

// SetupConfig creates a temporary home directory and copies the "config"
// and, if present, the "data" directories of sourceDir into it. The files
// can be created with `tendermint init`.
//
// The second value removes the directory.
func SetupConfig(t assert.Tester, sourceDir string) (string, func()) {
	t.Helper()

	rootDir, err := ioutil.TempDir("", "ledger-home")
	assert.Nil(t, err)
	cleanup := func() { os.RemoveAll(rootDir) }

	for _, sub := range []string{"config", "data"} {
		in := filepath.Join(sourceDir, sub)
		if _, err := os.Stat(in); os.IsNotExist(err) && sub == "data" {
			continue
		}
		if err := copyDir(in, filepath.Join(rootDir, sub)); err != nil {
			cleanup()
			t.Fatalf("Cannot copy %s files: %+v", sub, err)
		}
	}
	return rootDir, cleanup
}

// copyDir copies regular files of inDir into a new outDir.
func copyDir(inDir, outDir string) error {
	if err := os.Mkdir(outDir, 0755); err != nil {
		return err
	}
	files, err := ioutil.ReadDir(inDir)
	if err != nil {
		return err
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if err := copyFile(filepath.Join(inDir, f.Name()), filepath.Join(outDir, f.Name()), f.Mode()); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(input, output string, mode os.FileMode) error {
	from, err := os.Open(input)
	if err != nil {
		return err
	}
	defer from.Close()

	to, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE, mode)
	if err != nil {
		return err
	}
	defer to.Close()

	_, err = io.Copy(to, from)
	return err
}
