package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/urfave/cli"

	"github.com/nethawk/cadence/commands"
	"github.com/nethawk/cadence/config"
)

// Entry point of cadence
func main() {
	app := cli.NewApp()
	app.Name = "cadence"
	app.Usage = "Hunt for command and control beacons in connection logs."
	app.Version = config.Version
	app.EnableBashCompletion = true
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "use a given `CONFIG_FILE` when running this command",
			Value: "",
		},
	}

	cli.VersionPrinter = commands.GetVersionPrinter()

	// Define commands used with this application
	app.Commands = commands.Commands()

	runtime.GOMAXPROCS(runtime.NumCPU())
	err := app.Run(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err.Error())
		os.Exit(1)
	}
}
