package beacon

import (
	"fmt"
	"sort"
	"time"

	"github.com/nethawk/cadence/config"
	"github.com/nethawk/cadence/util"
)

//reason codes tie human-readable explanations to technique identifiers
const (
	reasonRegularTiming         = "regular-timing"
	reasonIntervalConcentration = "interval-concentration"
	reasonConsistentSizes       = "consistent-sizes"
	reasonLongSpan              = "long-span"
	reasonStrobe                = "strobe"
	reasonPeriodicOverall       = "periodic-overall"
	reasonInsufficientData      = "insufficient-data"
	reasonSparseIntervals       = "sparse-intervals"
	reasonBelowThreshold        = "below-threshold"
)

type reason struct {
	code string
	text string
}

//reasonTechniques is the static mapping from triggered reasons to
//MITRE ATT&CK technique identifiers. A reason may map to zero, one, or
//several identifiers; duplicates are collapsed in the final tag list.
var reasonTechniques = map[string][]string{
	reasonRegularTiming:         {"T1029", "T1071"},
	reasonIntervalConcentration: {"T1029"},
	reasonPeriodicOverall:       {"T1029"},
	reasonConsistentSizes:       {"T1001"},
	reasonStrobe:                {"T1071"},
}

//encryptedPorts carry TLS or otherwise encrypted application traffic;
//regular encrypted-looking traffic earns the Encrypted Channel tag
var encryptedPorts = map[int]struct{}{
	443:  {},
	563:  {},
	853:  {},
	993:  {},
	995:  {},
	8443: {},
}

//standardPorts are commonly assigned services; a periodic flow to a
//port outside this set earns the Non-Standard Port tag
var standardPorts = map[int]struct{}{
	21:   {},
	22:   {},
	25:   {},
	53:   {},
	80:   {},
	110:  {},
	123:  {},
	143:  {},
	443:  {},
	465:  {},
	563:  {},
	587:  {},
	853:  {},
	993:  {},
	995:  {},
	8080: {},
	8443: {},
}

//tagTechniques maps the triggered reasons and the destination port to
//a sorted, de-duplicated list of adversary technique identifiers
func tagTechniques(reasons []reason, dstPort int) []string {
	tagged := make(map[string]struct{})

	fired := false
	for _, r := range reasons {
		ids, ok := reasonTechniques[r.code]
		if !ok {
			continue
		}
		fired = true
		for _, id := range ids {
			tagged[id] = struct{}{}
		}
	}

	// port-derived tags only make sense once a behavioral signal fired
	if fired {
		if _, ok := encryptedPorts[dstPort]; ok {
			tagged["T1573"] = struct{}{}
		}
		if _, ok := standardPorts[dstPort]; !ok {
			tagged["T1571"] = struct{}{}
		}
	}

	if len(tagged) == 0 {
		return nil
	}

	techniques := make([]string, 0, len(tagged))
	for id := range tagged {
		techniques = append(techniques, id)
	}
	sort.Strings(techniques)
	return techniques
}

//buildReasons assembles the explanation list for one scored flow. The
//list is guaranteed non-empty for any flow whose score clears the
//report threshold.
func buildReasons(stats IntervalStats, concentration float64, histSub float64,
	jitterSub float64, score float64, gated bool, scoring config.ScoringStaticCfg) []reason {

	var reasons []reason

	if len(stats.Intervals) >= 2 && stats.JitterPct <= scoring.MaxJitterPct/2 {
		reasons = append(reasons, reason{
			code: reasonRegularTiming,
			text: fmt.Sprintf(
				"inter-arrival timing is highly regular: jitter %.1f%% around a mean interval of %s",
				stats.JitterPct, util.FormatDuration(secondsToDuration(stats.Mean))),
		})
	}

	if len(stats.Intervals) >= 3 && concentration >= 0.5 {
		reasons = append(reasons, reason{
			code: reasonIntervalConcentration,
			text: fmt.Sprintf(
				"%.0f%% of inter-arrival intervals fall within a single histogram bin",
				concentration*100),
		})
	}

	if stats.Count >= 3 && stats.OrigBytesMean > 0 &&
		stats.OrigBytesStDev/stats.OrigBytesMean < 0.1 {
		reasons = append(reasons, reason{
			code: reasonConsistentSizes,
			text: fmt.Sprintf(
				"sent payload sizes are nearly constant (mean %.0f bytes, standard deviation %.1f)",
				stats.OrigBytesMean, stats.OrigBytesStDev),
		})
	}

	if scoring.MinTimeSpan > 0 &&
		stats.Span >= 4*int64(scoring.MinTimeSpan/time.Second) {
		reasons = append(reasons, reason{
			code: reasonLongSpan,
			text: fmt.Sprintf(
				"flow observed for %s, well beyond the minimum analysis window",
				util.FormatDuration(time.Duration(stats.Span)*time.Second)),
		})
	}

	if len(stats.Intervals) > 0 && len(stats.Intervals) < 3 {
		reasons = append(reasons, reason{
			code: reasonSparseIntervals,
			text: fmt.Sprintf(
				"only %d inter-arrival intervals observed; histogram analysis skipped and a neutral periodicity assumed",
				len(stats.Intervals)),
		})
	}

	if gated {
		if stats.Count < int64(scoring.MinConnections) {
			reasons = append(reasons, reason{
				code: reasonInsufficientData,
				text: fmt.Sprintf(
					"flow excluded from reporting: %d connections observed, %d required to support a periodicity claim",
					stats.Count, scoring.MinConnections),
			})
		}
		if stats.Span < int64(scoring.MinTimeSpan/time.Second) {
			reasons = append(reasons, reason{
				code: reasonInsufficientData,
				text: fmt.Sprintf(
					"flow excluded from reporting: observed span %s is below the minimum of %s",
					util.FormatDuration(time.Duration(stats.Span)*time.Second),
					util.FormatDuration(scoring.MinTimeSpan)),
			})
		}
	}

	// a flagged flow must always carry at least one reason which maps
	// to a technique identifier
	hasSignal := false
	for _, r := range reasons {
		if _, ok := reasonTechniques[r.code]; ok {
			hasSignal = true
			break
		}
	}

	if !gated && score >= scoring.ScoreThreshold && !hasSignal {
		reasons = append(reasons, reason{
			code: reasonPeriodicOverall,
			text: fmt.Sprintf(
				"combined timing regularity score %.3f exceeds the report threshold %.2f",
				score, scoring.ScoreThreshold),
		})
	}

	if len(reasons) == 0 {
		reasons = append(reasons, reason{
			code: reasonBelowThreshold,
			text: fmt.Sprintf(
				"timing statistics do not support a periodicity claim (score %.3f)",
				score),
		})
	}

	return reasons
}

//reasonStrings flattens reasons into their human-readable sentences
func reasonStrings(reasons []reason) []string {
	texts := make([]string, len(reasons))
	for i, r := range reasons {
		texts[i] = r.text
	}
	return texts
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
