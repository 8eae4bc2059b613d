package commands

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/olekukonko/tablewriter"
	"github.com/pbnjay/memory"
	"github.com/urfave/cli"
	"github.com/vbauerster/mpb"
	"github.com/vbauerster/mpb/decor"

	"github.com/nethawk/cadence/pkg/beacon"
	"github.com/nethawk/cadence/pkg/conn"
	"github.com/nethawk/cadence/resources"
	"github.com/nethawk/cadence/util"
)

func init() {
	command := cli.Command{
		Name:      "analyze",
		Usage:     "Analyze connection logs for beaconing behavior",
		ArgsUsage: "<conn log> [<conn log>...]",
		Flags: []cli.Flag{
			configFlag,
			humanFlag,
			cli.IntFlag{
				Name:  "workers, w",
				Usage: "number of analysis threads to use, defaults to half the cores",
				Value: 0,
			},
			cli.BoolFlag{
				Name:  "json, j",
				Usage: "print the full analysis summary as json",
			},
		},
		Action: analyze,
	}

	bootstrapCommands(command)
}

func analyze(c *cli.Context) error {
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

	// interrupting a long run still produces the partial summary
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := beacon.AnalyzeConnections(ctx, records,
		res.Config.R.Allowlist, res.Config.S.Scoring, analysisWorkers(c.Int("workers")), res.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\t[!] Analysis interrupted: %s\n", err.Error())
	}

	if c.Bool("json") {
		out, err := jsoniter.MarshalIndent(summary, "", "  ")
		if err != nil {
			return cli.NewExitError(err.Error(), -1)
		}
		fmt.Println(string(out))
		return nil
	}

	if c.Bool("human-readable") {
		showBeaconReport(summary)
		return nil
	}

	err = showBeaconCsv(summary)
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	return nil
}

//analysisWorkers picks the analysis fan-out: the requested value if
//given, otherwise half the cores capped so that each worker has at
//least 512MB of system memory to work with
func analysisWorkers(requested int) int {
	if requested > 0 {
		return requested
	}
	memCap := util.Max(1, int(memory.TotalMemory()/(512*1024*1024)))
	return util.Min(util.Max(1, runtime.NumCPU()/2), memCap)
}

//readConnLogs reads each given log file into memory behind a progress
//bar, returning the records alongside the count of unparsable lines
func readConnLogs(paths []string, res *resources.Resources) ([]conn.Record, int, error) {
	var records []conn.Record
	unparsable := 0

	p := mpb.New(mpb.WithWidth(20))
	bar := p.AddBar(int64(len(paths)),
		mpb.PrependDecorators(
			decor.Name("\t[-] Reading connection logs:", decor.WC{W: 30, C: decor.DidentRight}),
			decor.CountersNoUnit(" %d / %d ", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(decor.Percentage()),
	)

	for _, path := range paths {
		fileRecords, skipped, err := conn.ReadJSONFile(path, res.Log)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, fileRecords...)
		unparsable += skipped
		bar.IncrBy(1)
	}
	p.Wait()

	return records, unparsable, nil
}

func showBeaconReport(summary *beacon.Summary) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Score", "Confidence", "Source IP",
		"Destination IP", "Port", "Connections", "Avg. Intvl", "Jitter %",
		"Strobe", "Techniques"})

	for _, d := range summary.Results {
		table.Append(
			[]string{
				f(d.Score), string(d.Confidence), d.Src, d.Dst,
				strconv.Itoa(d.DstPort), i(d.Connections), f(d.AvgInterval),
				f(d.JitterPct), strconv.FormatBool(d.Strobe),
				strings.Join(d.Techniques, " "),
			},
		)
	}
	table.Render()

	fmt.Fprintf(os.Stdout,
		"Run %s: analyzed %d flows from %d records (%d skipped, %d flows allowlisted), %d beacons reported\n",
		summary.RunID, summary.AnalyzedFlows, summary.TotalRecords,
		summary.SkippedRecords, summary.AllowlistedFlows, len(summary.Results))
}

func showBeaconCsv(summary *beacon.Summary) error {
	csvWriter := csv.NewWriter(os.Stdout)
	headers := []string{
		"Score", "Confidence", "Source", "Destination", "Port",
		"Connections", "Avg Interval", "Jitter Pct", "Strobe", "Techniques",
	}
	csvWriter.Write(headers)

	for _, d := range summary.Results {
		csvWriter.Write(
			[]string{
				f(d.Score), string(d.Confidence), d.Src, d.Dst,
				strconv.Itoa(d.DstPort), i(d.Connections), f(d.AvgInterval),
				f(d.JitterPct), strconv.FormatBool(d.Strobe),
				strings.Join(d.Techniques, " "),
			},
		)
	}
	csvWriter.Flush()
	return csvWriter.Error()
}
