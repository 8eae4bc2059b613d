package beacon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nethawk/cadence/pkg/allowlist"
	"github.com/nethawk/cadence/pkg/conn"
)

func record(uid string, ts float64, src, dst string, dstPort int, origBytes int64) conn.Record {
	return conn.Record{
		UID:       uid,
		Timestamp: ts,
		Source:    src,
		SrcPort:   49000,
		Dest:      dst,
		DstPort:   dstPort,
		Proto:     "tcp",
		OrigBytes: origBytes,
		RespBytes: origBytes * 2,
	}
}

func TestDissectGroupsAndSorts(t *testing.T) {
	records := []conn.Record{
		record("C3", 300, "10.0.0.5", "203.0.113.9", 443, 512),
		record("C1", 100, "10.0.0.5", "203.0.113.9", 443, 512),
		record("C2", 200, "10.0.0.5", "203.0.113.9", 443, 512),
		record("C4", 150, "10.0.0.6", "198.51.100.4", 8443, 64),
	}

	timelines, counts := dissect(records, nil, nil)

	assert.Equal(t, 4, counts.total)
	assert.Equal(t, 0, counts.skipped)
	require.Len(t, timelines, 2)

	entry := timelines[records[0].Pair().MapKey()]
	require.NotNil(t, entry)
	assert.Equal(t, []int64{100, 200, 300}, entry.ts)
	assert.Equal(t, []int64{512, 512, 512}, entry.origBytes)
	assert.Equal(t, []int64{1024, 1024, 1024}, entry.respBytes)
}

func TestDissectRetainsDuplicateTimestamps(t *testing.T) {
	records := []conn.Record{
		record("C1", 100, "10.0.0.5", "203.0.113.9", 443, 10),
		record("C2", 100, "10.0.0.5", "203.0.113.9", 443, 20),
		record("C3", 100, "10.0.0.5", "203.0.113.9", 443, 30),
	}

	timelines, _ := dissect(records, nil, nil)
	entry := timelines[records[0].Pair().MapKey()]
	require.NotNil(t, entry)

	// repeated keep-alive timestamps are retained, encounter order kept
	assert.Equal(t, []int64{100, 100, 100}, entry.ts)
	assert.Equal(t, []int64{10, 20, 30}, entry.origBytes)
}

func TestDissectSkipsMalformedRecords(t *testing.T) {
	bad := record("", 100, "10.0.0.5", "203.0.113.9", 443, 512)
	records := []conn.Record{
		bad,
		record("C1", 100, "10.0.0.5", "203.0.113.9", 443, 512),
		record("C2", 0, "10.0.0.5", "203.0.113.9", 443, 512),
	}

	timelines, counts := dissect(records, nil, nil)

	assert.Equal(t, 3, counts.total)
	assert.Equal(t, 2, counts.skipped)
	require.Len(t, timelines, 1)
}

func TestDissectDropsAllowlistedFlows(t *testing.T) {
	matcher, err := allowlist.NewMatcher([]string{"8.8.8.8"}, []int{53}, nil)
	require.Nil(t, err)

	records := []conn.Record{
		record("C1", 100, "10.0.0.5", "8.8.8.8", 53, 64),
		record("C2", 130, "10.0.0.5", "8.8.8.8", 53, 64),
		record("C3", 100, "10.0.0.5", "203.0.113.9", 443, 512),
		record("C4", 160, "10.0.0.5", "203.0.113.9", 443, 512),
	}

	timelines, counts := dissect(records, matcher, nil)

	assert.Equal(t, 1, counts.allowlisted)
	require.Len(t, timelines, 1)
	for _, entry := range timelines {
		assert.Equal(t, "203.0.113.9", entry.pair.Dst)
	}
}

func TestDissectDifferentPortsAreDifferentFlows(t *testing.T) {
	records := []conn.Record{
		record("C1", 100, "10.0.0.5", "203.0.113.9", 443, 512),
		record("C2", 200, "10.0.0.5", "203.0.113.9", 8443, 512),
	}

	timelines, _ := dissect(records, nil, nil)
	assert.Len(t, timelines, 2)
}

func TestDissectProtocolNotPartOfKey(t *testing.T) {
	tcp := record("C1", 100, "10.0.0.5", "203.0.113.9", 443, 512)
	udp := record("C2", 200, "10.0.0.5", "203.0.113.9", 443, 512)
	udp.Proto = "udp"

	timelines, _ := dissect([]conn.Record{tcp, udp}, nil, nil)
	require.Len(t, timelines, 1)
	for _, entry := range timelines {
		assert.Len(t, entry.ts, 2)
	}
}
