package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/ledger"
	escrowd "github.com/iov-one/ledger/cmd/escrowd/app"
	"github.com/iov-one/ledger/commands"
	"github.com/iov-one/ledger/commands/server"
	"github.com/tendermint/tendermint/libs/cli/flags"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	flagHome     = "home"
	flagLogLevel = "log_level"
	varHome      *string
	varLogLevel  *string
)

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".escrowd")
	varHome = flag.String(flagHome, defaultHome, "directory to store files under")
	varLogLevel = flag.String(flagLogLevel, "*:info", "log filter, for example \"*:debug\"")

	flag.CommandLine.Usage = helpMessage
}

func helpMessage() {
	fmt.Println("escrowd")
	fmt.Println("          Token swap escrow node")
	fmt.Println("")
	fmt.Println("help      Print this message")
	fmt.Println("init      Initialize app options in genesis file")
	fmt.Println("start     Run the abci server")
	fmt.Println("testgen   Write example objects for client codec tests")
	fmt.Println("version   Print the app version")
	fmt.Println(`
  -home string
        directory to store files under (default "$HOME/.escrowd")
  -log_level string
        log filter (default "*:info")`)
}

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	logger, err := flags.ParseLogLevel(*varLogLevel,
		log.NewTMLogger(log.NewSyncWriter(os.Stdout)), "info")
	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		helpMessage()
		os.Exit(1)
	}
	logger = logger.With("module", "escrowd")

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]

	switch cmd {
	case "help":
		helpMessage()
	case "init":
		err = server.InitCmd(escrowd.GenInitOptions, logger, *varHome, rest)
	case "start":
		err = server.StartCmd(escrowd.GenerateApp, escrowd.Initializers(), logger, *varHome, rest)
	case "testgen":
		err = commands.TestGenCmd(escrowd.Examples(), rest)
	case "version":
		fmt.Println(ledger.Version())
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		helpMessage()
		os.Exit(1)
	}
}
