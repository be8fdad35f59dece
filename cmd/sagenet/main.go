package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sagenet-research/sagenet-contract/common"
	"github.com/urfave/cli"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "sagenet"
	app.Usage = "Publish papers and fund their reviews on Neo"
	app.Version = versionString(common.Version)
	app.Description = "Configuration is read from SAGENET_* environment variables: " +
		"SAGENET_RPC_ENDPOINT, SAGENET_WALLET, SAGENET_WALLET_PASSWORD, SAGENET_ACCOUNT, " +
		"SAGENET_REGISTRY, SAGENET_ESCROW, SAGENET_CAS_DIR, SAGENET_INDEX_DIR, SAGENET_TIMEOUT, SAGENET_DEBUG."
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "debug, d",
			Usage: "Enable debug logging",
		},
	}
	app.Commands = []cli.Command{
		paperCommand(),
		bountyCommand(),
		reviewCommand(),
		deployCommand(),
		indexCommand(),
	}

	return app
}

// versionString formats contract version number as major.minor.patch.
func versionString(v int) string {
	return strconv.Itoa(v/1_000_000) + "." + strconv.Itoa(v/1_000%1_000) + "." + strconv.Itoa(v%1_000)
}
