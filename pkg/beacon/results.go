package beacon

import (
	"errors"

	"github.com/nethawk/cadence/pkg/data"
)

//ErrPairNotFound is returned by AnalyzePairDetailed when no connection
//in the batch matches the requested host pair
var ErrPairNotFound = errors.New("no connections found for host pair")

//Confidence is the coarse categorical summary of a beacon score
type Confidence string

const (
	//ConfidenceLow marks scores at or above the report threshold
	ConfidenceLow Confidence = "low"
	//ConfidenceMedium marks scores at or above the medium cutoff
	ConfidenceMedium Confidence = "medium"
	//ConfidenceHigh marks scores at or above the high cutoff
	ConfidenceHigh Confidence = "high"
)

//IntervalStats holds the derived inter-arrival timing and data size
//statistics for one flow
type IntervalStats struct {
	Count     int64   `json:"connection_count"`
	Span      int64   `json:"span"`
	Mean      float64 `json:"mean"`
	Median    float64 `json:"median"`
	StDev     float64 `json:"stddev"`
	JitterPct float64 `json:"jitter_pct"`

	Intervals []int64 `json:"intervals"`

	OrigBytesMean  float64 `json:"orig_bytes_mean"`
	OrigBytesStDev float64 `json:"orig_bytes_stddev"`
	RespBytesMean  float64 `json:"resp_bytes_mean"`
	RespBytesStDev float64 `json:"resp_bytes_stddev"`
}

//Result represents a suspected beacon between two hosts
type Result struct {
	data.Pair
	Connections int64      `json:"connection_count"`
	AvgInterval float64    `json:"avg_interval"`
	JitterPct   float64    `json:"jitter_pct"`
	Score       float64    `json:"score"`
	Confidence  Confidence `json:"confidence"`
	Techniques  []string   `json:"techniques"`
	Strobe      bool       `json:"strobe"`
}

//DetailedResult carries everything in Result plus the evidence needed
//to explain the score to an analyst
type DetailedResult struct {
	Result
	Stats         IntervalStats `json:"stats"`
	Histogram     []int         `json:"histogram"`
	Concentration float64       `json:"concentration"`
	Entropy       float64       `json:"entropy"`
	Reasons       []string      `json:"reasons"`

	// qualifies records whether the flow cleared the hard gates and
	// the report threshold for inclusion in summary results
	qualifies bool
}

//Summary is the output of one analysis run
type Summary struct {
	RunID            string   `json:"run_id"`
	Results          []Result `json:"results"`
	TotalRecords     int      `json:"total_records"`
	SkippedRecords   int      `json:"skipped_records"`
	AnalyzedFlows    int      `json:"analyzed_flows"`
	AllowlistedFlows int      `json:"allowlisted_flows"`
}
