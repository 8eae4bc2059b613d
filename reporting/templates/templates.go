package templates

import "html/template"

//ReportingInfo fills the templates listed in html/template
type ReportingInfo struct {
	RunID    string
	Analyzed int
	Skipped  int
	Writer   template.HTML
}

var reportHeader = `
<head>
<meta content="text/html;charset=utf-8" http-equiv="Content-Type">
<meta content="utf-8" http-equiv="encoding">
<link rel="stylesheet" type="text/css" href="./style.css">
</head>

<ul>
  <li><a href="./index.html">cadence</a></li>
  <li><a>Run: {{.RunID}}</a></li>
  <li style="float:right">
    <a href="https://github.com/nethawk/cadence" target="_blank">cadence on GitHub</a>
  </li>
</ul>
`

// BeaconsTempl is the beacon report html template
var BeaconsTempl = reportHeader + `
<div class="info">Analyzed {{.Analyzed}} flows ({{.Skipped}} records skipped).
Suspected beacons are listed below, strongest first.</div>
<div class="container">
  <table>
  <tr><th>Score</th><th>Confidence</th><th>Source</th><th>Destination</th>
	<th>Port</th><th>Connections</th><th>Avg. Interval</th><th>Jitter %</th>
	<th>Strobe</th><th>Techniques</th></tr>
      {{.Writer}}
  </table>
</div>
`
