package commands

import (
	"github.com/urfave/cli"
)

var allCommands []cli.Command

//bootstrapCommands registers a set of commands with the command line
//front end
func bootstrapCommands(commands ...cli.Command) {
	allCommands = append(allCommands, commands...)
}

//Commands provides all of the defined commands to the front end
func Commands() []cli.Command {
	return allCommands
}

//below are some prebuilt flags shared by several commands

//configFlag allows users to specify an alternative config file to use
var configFlag = cli.StringFlag{
	Name:  "config, c",
	Usage: "use a given `CONFIG_FILE` when running this command",
	Value: "",
}

//humanFlag flags the command to print results in a human readable table
var humanFlag = cli.BoolFlag{
	Name:  "human-readable, H",
	Usage: "print a formatted table instead of csv",
}
