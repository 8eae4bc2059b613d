package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/urfave/cli"

	"github.com/nethawk/cadence/pkg/beacon"
	"github.com/nethawk/cadence/reporting"
	"github.com/nethawk/cadence/resources"
)

func init() {
	command := cli.Command{
		Name:      "html-report",
		Usage:     "Write analysis results to an html report and open it",
		ArgsUsage: "<conn log> [<conn log>...]",
		Flags: []cli.Flag{
			configFlag,
			cli.IntFlag{
				Name:  "workers, w",
				Usage: "number of analysis threads to use, defaults to half the cores",
				Value: 0,
			},
			cli.BoolFlag{
				Name:  "no-browser",
				Usage: "write the report without opening it in a browser",
			},
		},
		Action: htmlReport,
	}

	bootstrapCommands(command)
}

func htmlReport(c *cli.Context) error {
	if len(c.Args()) == 0 {
		return cli.NewExitError("Specify at least one connection log", -1)
	}
	res := resources.InitResources(c.String("config"))

	records, unparsable, err := readConnLogs(c.Args(), res)
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	if unparsable > 0 {
		fmt.Fprintf(os.Stderr, "\t[!] Skipped %d unparsable log lines\n", unparsable)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := beacon.AnalyzeConnections(ctx, records,
		res.Config.R.Allowlist, res.Config.S.Scoring, analysisWorkers(c.Int("workers")), res.Log)
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}

	err = reporting.PrintHTML(summary, !c.Bool("no-browser"))
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	return nil
}
