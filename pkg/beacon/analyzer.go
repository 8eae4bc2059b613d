package beacon

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/nethawk/cadence/config"
	"github.com/nethawk/cadence/util"
)

type (
	//analyzer handles calculating statistical measures of the
	//distributions of the timestamps and data sizes between pairs of
	//hosts. Timelines are read-only, so any number of analyzer threads
	//may run side by side.
	analyzer struct {
		scoring          config.ScoringStaticCfg // thresholds for this run
		log              *log.Logger             // main logger for cadence
		analyzedCallback func(*DetailedResult)   // analysis results are sent to this callback
		closedCallback   func()                  // called when .close() is called and no more calls to analyzedCallback will be made
		analysisChannel  chan *timeline          // holds unanalyzed flow timelines
		analysisWg       sync.WaitGroup          // wait for analysis to finish
	}
)

//newAnalyzer creates a new analyzer for calculating the beacon
//statistics of flows
func newAnalyzer(scoring config.ScoringStaticCfg, logger *log.Logger,
	analyzedCallback func(*DetailedResult), closedCallback func()) *analyzer {
	return &analyzer{
		scoring:          scoring,
		log:              logger,
		analyzedCallback: analyzedCallback,
		closedCallback:   closedCallback,
		analysisChannel:  make(chan *timeline),
	}
}

//collect gathers a flow timeline for analysis
func (a *analyzer) collect(entry *timeline) {
	a.analysisChannel <- entry
}

//close waits for the analyzer to finish
func (a *analyzer) close() {
	close(a.analysisChannel)
	a.analysisWg.Wait()
	a.closedCallback()
}

//start kicks off a new analysis thread
func (a *analyzer) start() {
	a.analysisWg.Add(1)
	go func() {
		for entry := range a.analysisChannel {
			a.analyzedCallback(a.analyze(entry))
		}
		a.analysisWg.Done()
	}()
}

//analyze scores a single flow timeline
func (a *analyzer) analyze(entry *timeline) *DetailedResult {
	count := int64(len(entry.ts))

	// flows with an immense number of connections are classified as
	// strobes and scored on volume alone; full interval statistics
	// would cost a lot and prove nothing extra
	if count > a.scoring.ConnectionLimit {
		return a.analyzeStrobe(entry, count)
	}

	stats := deriveIntervalStats(entry)

	histogram, concentration, entropy, histSub := scoreHistogram(
		stats.Intervals, stats.Median, a.scoring.HistogramBins)
	jitterSub := jitterScore(stats.JitterPct, a.scoring.MaxJitterPct)

	score := combineScore(jitterSub, histSub, a.scoring)

	gated := count < int64(a.scoring.MinConnections) ||
		stats.Span < int64(a.scoring.MinTimeSpan/time.Second)

	reasons := buildReasons(stats, concentration, histSub, jitterSub, score, gated, a.scoring)

	result := &DetailedResult{
		Result: Result{
			Pair:        entry.pair,
			Connections: count,
			AvgInterval: stats.Mean,
			JitterPct:   stats.JitterPct,
			Score:       score,
			Confidence:  confidenceFor(score, a.scoring),
			Techniques:  tagTechniques(reasons, entry.pair.DstPort),
		},
		Stats:         stats,
		Histogram:     histogram,
		Concentration: concentration,
		Entropy:       entropy,
		Reasons:       reasonStrings(reasons),
		qualifies:     !gated && score >= a.scoring.ScoreThreshold,
	}
	return result
}

//analyzeStrobe produces a result for a flow whose connection count
//exceeds the strobe limit
func (a *analyzer) analyzeStrobe(entry *timeline, count int64) *DetailedResult {
	span := entry.ts[len(entry.ts)-1] - entry.ts[0]
	reasons := []reason{{
		code: reasonStrobe,
		text: fmt.Sprintf(
			"connection count %d exceeds the strobe limit of %d; flood of connections to a single destination",
			count, a.scoring.ConnectionLimit),
	}}

	return &DetailedResult{
		Result: Result{
			Pair:        entry.pair,
			Connections: count,
			Score:       1.0,
			Confidence:  confidenceFor(1.0, a.scoring),
			Techniques:  tagTechniques(reasons, entry.pair.DstPort),
			Strobe:      true,
		},
		Stats:     IntervalStats{Count: count, Span: span},
		Reasons:   reasonStrings(reasons),
		qualifies: true,
	}
}

//deriveIntervalStats computes the inter-arrival and data size
//statistics for one flow timeline
func deriveIntervalStats(entry *timeline) IntervalStats {
	count := len(entry.ts)
	stats := IntervalStats{Count: int64(count)}
	if count == 0 {
		return stats
	}

	stats.Span = entry.ts[count-1] - entry.ts[0]
	stats.OrigBytesMean, stats.OrigBytesStDev = meanStdDev(entry.origBytes)
	stats.RespBytesMean, stats.RespBytesStDev = meanStdDev(entry.respBytes)

	// an interval requires two points
	if count < 2 {
		return stats
	}

	intervals := make([]int64, count-1)
	for i := 0; i < count-1; i++ {
		intervals[i] = entry.ts[i+1] - entry.ts[i]
	}
	stats.Intervals = intervals

	stats.Mean, stats.StDev = meanStdDev(intervals)
	stats.Median = median(intervals)

	// the coefficient of variation is undefined for a zero mean or a
	// single interval; such sequences are treated as perfectly regular
	if stats.Mean > 0 && len(intervals) > 1 {
		stats.JitterPct = stats.StDev / stats.Mean * 100
	}

	return stats
}

//meanStdDev returns the mean and the unbiased sample standard
//deviation of the given values
func meanStdDev(values []int64) (float64, float64) {
	n := len(values)
	if n == 0 {
		return 0, 0
	}

	var sum int64
	for _, v := range values {
		sum += v
	}
	mean := float64(sum) / float64(n)

	if n < 2 {
		return mean, 0
	}

	var squares float64
	for _, v := range values {
		diff := float64(v) - mean
		squares += diff * diff
	}
	return mean, math.Sqrt(squares / float64(n-1))
}

//median returns the middle value of the given sequence
func median(values []int64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]int64, n)
	copy(sorted, values)
	sort.Sort(util.SortableInt64(sorted))

	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}

//scoreHistogram buckets the interval sequence into a histogram spanning
//the observed min-max range and quantifies how clock-like the sequence
//is, independent of the absolute period length. The sub-score combines
//the fraction of intervals in the most populous bin (concentration)
//with the inverted, normalized Shannon entropy of the bin occupancy.
//Bins are never narrower than a quarter of the median interval, which
//keeps the measure scale-invariant: a spread of seconds around a
//minute-scale period lands in one bin, while the same spread around a
//seconds-scale period does not.
func scoreHistogram(intervals []int64, medianInterval float64, bins int) ([]int, float64, float64, float64) {
	n := len(intervals)

	// fewer than 3 intervals cannot support a histogram; hand back a
	// neutral sub-score instead of an artificially extreme one
	if n < 3 {
		return nil, 0, 0, 0.5
	}

	minInterval, maxInterval := intervals[0], intervals[0]
	for _, interval := range intervals {
		if interval < minInterval {
			minInterval = interval
		}
		if interval > maxInterval {
			maxInterval = interval
		}
	}

	// single-valued sequences are perfectly regular
	if minInterval == maxInterval {
		return []int{n}, 1.0, 0, 1.0
	}

	binCount := bins
	if medianInterval > 0 {
		minWidth := medianInterval / 4
		maxBins := int(math.Ceil(float64(maxInterval-minInterval) / minWidth))
		binCount = util.Min(bins, util.Max(1, maxBins))
	}
	if binCount < 2 {
		// the whole observed range is narrow relative to the period
		return []int{n}, 1.0, 0, 1.0
	}

	histogram := make([]int, binCount)
	span := float64(maxInterval - minInterval)
	for _, interval := range intervals {
		idx := int(float64(interval-minInterval) / span * float64(binCount))
		if idx == binCount {
			idx--
		}
		histogram[idx]++
	}

	topBin := 0
	entropy := float64(0)
	for _, freq := range histogram {
		if freq > topBin {
			topBin = freq
		}
		if freq > 0 {
			p := float64(freq) / float64(n)
			entropy -= p * math.Log2(p)
		}
	}

	concentration := float64(topBin) / float64(n)
	normEntropy := entropy / math.Log2(float64(binCount))

	subScore := util.ClampFloat64(0.5*concentration+0.5*(1-normEntropy), 0, 1)
	return histogram, concentration, entropy, subScore
}

//jitterScore converts a jitter percentage into a sub-score. Jitter at
//or near zero scores one; jitter at or beyond maxJitterPct scores zero.
func jitterScore(jitterPct float64, maxJitterPct float64) float64 {
	if maxJitterPct <= 0 {
		return 0
	}
	return util.ClampFloat64(1.0-jitterPct/maxJitterPct, 0, 1)
}

//combineScore merges the jitter and periodicity sub-scores using the
//configured weights. Weights are normalized so misconfigured callers
//cannot push the score outside [0, 1].
func combineScore(jitterSub float64, histSub float64, scoring config.ScoringStaticCfg) float64 {
	jw := scoring.JitterWeight
	hw := scoring.HistogramWeight
	if jw+hw <= 0 {
		jw, hw = 1, 1
	}

	score := (jitterSub*jw + histSub*hw) / (jw + hw)
	return math.Ceil(score*1000) / 1000
}

//confidenceFor derives the confidence band from the score. Bands are
//monotonic by construction: cutoffs are validated in ascending order.
func confidenceFor(score float64, scoring config.ScoringStaticCfg) Confidence {
	switch {
	case score >= scoring.HighCutoff:
		return ConfidenceHigh
	case score >= scoring.MediumCutoff:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
