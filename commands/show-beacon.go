package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/nethawk/cadence/pkg/beacon"
	"github.com/nethawk/cadence/pkg/data"
	"github.com/nethawk/cadence/resources"
	"github.com/nethawk/cadence/util"
)

func init() {
	command := cli.Command{
		Name:      "show-beacon",
		Usage:     "Print the full timing evidence for a single host pair",
		ArgsUsage: "<conn log> [<conn log>...]",
		Flags: []cli.Flag{
			configFlag,
			cli.StringFlag{
				Name:  "source, s",
				Usage: "the `SOURCE_IP` of the pair to inspect",
			},
			cli.StringFlag{
				Name:  "destination, d",
				Usage: "the `DESTINATION_IP` of the pair to inspect",
			},
			cli.IntFlag{
				Name:  "dst-port, p",
				Usage: "the destination `PORT` of the pair to inspect",
			},
			cli.BoolFlag{
				Name:  "json, j",
				Usage: "print the evidence as json",
			},
		},
		Action: showBeacon,
	}

	bootstrapCommands(command)
}

func showBeacon(c *cli.Context) error {
	if len(c.Args()) == 0 {
		return cli.NewExitError("Specify at least one connection log", -1)
	}
	if c.String("source") == "" || c.String("destination") == "" {
		return cli.NewExitError("Specify a host pair with -s, -d, and -p", -1)
	}
	res := resources.InitResources(c.String("config"))

	records, unparsable, err := readConnLogs(c.Args(), res)
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	if unparsable > 0 {
		fmt.Fprintf(os.Stderr, "\t[!] Skipped %d unparsable log lines\n", unparsable)
	}

	pair := data.NewPair(c.String("source"), c.String("destination"), c.Int("dst-port"))
	detail, err := beacon.AnalyzePairDetailed(context.Background(), records,
		pair, res.Config.S.Scoring, res.Log)
	if err == beacon.ErrPairNotFound {
		return cli.NewExitError("No connections found for "+pair.String(), -1)
	}
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}

	if c.Bool("json") {
		out, err := jsoniter.MarshalIndent(detail, "", "  ")
		if err != nil {
			return cli.NewExitError(err.Error(), -1)
		}
		fmt.Println(string(out))
		return nil
	}

	showBeaconDetail(detail)
	return nil
}

func showBeaconDetail(detail *beacon.DetailedResult) {
	fmt.Fprintf(os.Stdout, "%s\n\n", detail.Pair.String())

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Score", "Confidence", "Connections", "Span",
		"Mean Intvl", "Median Intvl", "Intvl StdDev", "Jitter %",
		"Sent Bytes Mean", "Recv Bytes Mean"})
	table.Append([]string{
		f(detail.Score), string(detail.Confidence), i(detail.Connections),
		util.FormatDuration(time.Duration(detail.Stats.Span) * time.Second),
		f(detail.Stats.Mean), f(detail.Stats.Median), f(detail.Stats.StDev),
		f(detail.Stats.JitterPct), f(detail.Stats.OrigBytesMean),
		f(detail.Stats.RespBytesMean),
	})
	table.Render()

	if len(detail.Histogram) > 0 {
		fmt.Fprintf(os.Stdout,
			"\nInterval histogram (concentration %.2f, entropy %.2f):\n",
			detail.Concentration, detail.Entropy)
		topBin := 0
		for _, count := range detail.Histogram {
			if count > topBin {
				topBin = count
			}
		}
		for idx, count := range detail.Histogram {
			width := 0
			if topBin > 0 {
				width = count * 40 / topBin
			}
			fmt.Fprintf(os.Stdout, "  bin %2d: %-40s %d\n",
				idx, strings.Repeat("*", width), count)
		}
	}

	if len(detail.Techniques) > 0 {
		fmt.Fprintf(os.Stdout, "\nTechniques: %s\n", strings.Join(detail.Techniques, " "))
	}

	fmt.Fprintf(os.Stdout, "\nReasons:\n")
	for _, reason := range detail.Reasons {
		fmt.Fprintf(os.Stdout, "  - %s\n", reason)
	}
}
