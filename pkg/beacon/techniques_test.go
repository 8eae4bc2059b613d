package beacon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagTechniquesDeduplicates(t *testing.T) {
	reasons := []reason{
		{code: reasonRegularTiming, text: "regular"},
		{code: reasonIntervalConcentration, text: "concentrated"},
		{code: reasonPeriodicOverall, text: "periodic"},
	}

	techniques := tagTechniques(reasons, 8088)

	// T1029 is contributed by all three reasons but appears once
	count := 0
	for _, id := range techniques {
		if id == "T1029" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Contains(t, techniques, "T1071")
	// 8088 is not a standard service port
	assert.Contains(t, techniques, "T1571")
}

func TestTagTechniquesEncryptedPort(t *testing.T) {
	reasons := []reason{{code: reasonRegularTiming, text: "regular"}}

	techniques := tagTechniques(reasons, 443)
	assert.Contains(t, techniques, "T1573")
	assert.NotContains(t, techniques, "T1571")
}

func TestTagTechniquesNoSignalNoTags(t *testing.T) {
	reasons := []reason{{code: reasonBelowThreshold, text: "nothing fired"}}
	assert.Nil(t, tagTechniques(reasons, 443))

	assert.Nil(t, tagTechniques(nil, 443))
}

func TestBuildReasonsFlaggedFlowAlwaysExplained(t *testing.T) {
	scoring := testScoring(t)

	// a flow over the threshold with no individual signal firing still
	// receives an explanation which maps to a technique
	stats := IntervalStats{
		Count:     10,
		Span:      3600,
		Intervals: repeatInterval(400, 9),
		Mean:      400,
		Median:    400,
		JitterPct: scoring.MaxJitterPct * 0.9,
	}
	reasons := buildReasons(stats, 0.3, 0.6, 0.64, 0.62, false, scoring)

	require.NotEmpty(t, reasons)
	techniques := tagTechniques(reasons, 8443)
	assert.NotEmpty(t, techniques)
}

func TestBuildReasonsGatedFlow(t *testing.T) {
	scoring := testScoring(t)

	stats := IntervalStats{
		Count:     3,
		Span:      10,
		Intervals: []int64{5, 5},
		Mean:      5,
		Median:    5,
	}
	reasons := buildReasons(stats, 0, 0.5, 1.0, 0.75, true, scoring)

	require.NotEmpty(t, reasons)
	found := false
	for _, r := range reasons {
		if r.code == reasonInsufficientData {
			found = true
		}
	}
	assert.True(t, found, "gated flows must explain the gate")
}
