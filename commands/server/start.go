package server

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind    = "bind"
	flagDebug   = "debug"
	flagMetrics = "metrics"
)

type startOptions struct {
	bind    string
	debug   bool
	metrics string
}

func parseFlags(args []string) (startOptions, error) {
	var opts startOptions
	startFlags := flag.NewFlagSet("start", flag.ContinueOnError)
	startFlags.StringVar(&opts.bind, flagBind, "tcp://localhost:26658", "address server listens on")
	startFlags.BoolVar(&opts.debug, flagDebug, false, "call stack returned on error")
	startFlags.StringVar(&opts.metrics, flagMetrics, "", "address of the prometheus /metrics endpoint, disabled when empty")
	err := startFlags.Parse(args)
	return opts, err
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(home string, logger log.Logger, debug bool) (abci.Application, error)

// StartCmd initializes the application and serves it over the ABCI socket
// until the process is terminated. A genesis file in the home directory is
// checked against ini before anything is served.
func StartCmd(gen AppGenerator, ini ledger.Initializer, logger log.Logger, home string, args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := checkHomeGenesis(ini, home); err != nil {
		return err
	}

	app, err := gen(home, logger, opts.debug)
	if err != nil {
		return err
	}

	if opts.metrics != "" {
		go serveMetrics(logger, opts.metrics)
	}

	logger.Info("Starting ABCI app", "bind", opts.bind)

	svr, err := server.NewServer(opts.bind, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrapf(errors.ErrState, "cannot start server: %s", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	s := <-sig
	logger.Info("Stopping ABCI app", "signal", s.String())
	return svr.Stop()
}

// checkHomeGenesis validates <home>/config/genesis.json when it exists. A node
// run with a separate tendermint home has no genesis file next to the app.
func checkHomeGenesis(ini ledger.Initializer, home string) error {
	path := filepath.Join(home, "config", "genesis.json")
	switch _, err := os.Stat(path); {
	case os.IsNotExist(err):
		return nil
	case err != nil:
		return errors.Wrapf(errors.ErrInput, "cannot stat genesis file: %s", err)
	}
	return ValidateGenesis(ini, []string{path})
}

func serveMetrics(logger log.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Info("Serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Metrics server stopped", "err", err)
	}
}
