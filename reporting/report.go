package reporting

import (
	"bytes"
	"fmt"
	"html/template"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"

	"github.com/skratchdot/open-golang/open"

	"github.com/nethawk/cadence/pkg/beacon"
	htmlTempl "github.com/nethawk/cadence/reporting/templates"
)

// PrintHTML writes the results of a beacon analysis run into a
// directory named cadence-report within the current working directory
// and opens the report in a browser. When the directory already exists
// a numeric suffix is appended so earlier reports are never clobbered.
func PrintHTML(summary *beacon.Summary, showInBrowser bool) error {
	//while the folder exists, append the next counter
	outFolder := "cadence-report"
	counter := 1
	for _, err := os.Stat(outFolder); err == nil; _, err = os.Stat(outFolder) {
		outFolder = "cadence-report" + strconv.Itoa(counter)
		counter++
	}

	err := os.Mkdir(outFolder, 0755)
	if err != nil {
		return err
	}

	err = ioutil.WriteFile(filepath.Join(outFolder, "style.css"), htmlTempl.CSStempl, 0644)
	if err != nil {
		return err
	}

	err = writeReportPage(filepath.Join(outFolder, "index.html"), summary)
	if err != nil {
		return err
	}

	fmt.Println("[-] Wrote outputs, check " + outFolder + " for files")
	if showInBrowser {
		open.Run("./" + outFolder + "/index.html")
	}
	return nil
}

func writeReportPage(path string, summary *beacon.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	out, err := template.New("beacons.html").Parse(htmlTempl.BeaconsTempl)
	if err != nil {
		return err
	}

	w, err := getBeaconWriter(summary.Results)
	if err != nil {
		return err
	}

	return out.Execute(f, &htmlTempl.ReportingInfo{
		RunID:    summary.RunID,
		Analyzed: summary.AnalyzedFlows,
		Skipped:  summary.SkippedRecords,
		Writer:   template.HTML(w),
	})
}

func getBeaconWriter(results []beacon.Result) (string, error) {
	tmpl := "<tr><td>{{printf \"%.3f\" .Score}}</td><td>{{.Confidence}}</td><td>{{.Src}}</td><td>{{.Dst}}</td><td>"
	tmpl += "{{.DstPort}}</td><td>{{.Connections}}</td><td>{{printf \"%.3f\" .AvgInterval}}</td><td>"
	tmpl += "{{printf \"%.1f\" .JitterPct}}</td><td>{{.Strobe}}</td><td>{{range .Techniques}}{{.}} {{end}}</td></tr>\n"

	out, err := template.New("beacon").Parse(tmpl)
	if err != nil {
		return "", err
	}

	w := new(bytes.Buffer)

	for _, result := range results {
		err = out.Execute(w, result)
		if err != nil {
			return "", err
		}
	}

	return w.String(), nil
}
