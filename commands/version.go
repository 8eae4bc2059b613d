package commands

import (
	"fmt"

	"github.com/skratchdot/open-golang/open"
	"github.com/urfave/cli"

	"github.com/nethawk/cadence/resources"
)

//cadenceReleasesURL points at the published release listing
const cadenceReleasesURL = "https://github.com/nethawk/cadence/releases"

func init() {
	command := cli.Command{
		Name:  "version",
		Usage: "Show cadence version",
		Flags: []cli.Flag{
			configFlag,
			cli.BoolFlag{
				Name:  "open, o",
				Usage: "open the releases page in a browser",
			},
		},
		Action: showVersion,
	}

	bootstrapCommands(command)
}

func showVersion(c *cli.Context) error {
	res := resources.InitResources(c.String("config"))
	fmt.Println(res.Config.S.ExactVersion)
	if c.Bool("open") {
		return open.Run(cadenceReleasesURL)
	}
	return nil
}
