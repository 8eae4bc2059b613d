package commands

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
	yaml "gopkg.in/yaml.v2"

	"github.com/nethawk/cadence/config"
	"github.com/nethawk/cadence/resources"
)

func init() {
	command := cli.Command{
		Flags: []cli.Flag{
			configFlag,
		},
		Name:   "test-config",
		Usage:  "Check the configuration file for validity",
		Action: testConfiguration,
	}

	bootstrapCommands(command)
}

// testConfiguration prints out the result of parsing the config file
func testConfiguration(c *cli.Context) error {
	// First, print out the config as it was parsed
	conf, err := config.GetConfig(c.String("config"))
	if err != nil {
		fmt.Fprintf(os.Stdout, "Failed to load config: %s\n", err.Error())
		os.Exit(-1)
	}

	staticConfig, err := yaml.Marshal(conf.S)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "\n%s\n", string(staticConfig))

	// Then test initializing the derived resources like the allowlist
	// matcher and log file handles
	resources.InitResources(c.String("config"))

	return nil
}
