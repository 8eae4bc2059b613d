package beacon

import (
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/nethawk/cadence/pkg/allowlist"
	"github.com/nethawk/cadence/pkg/conn"
	"github.com/nethawk/cadence/pkg/data"
)

type (
	//timeline holds the time-ordered connection history for one flow.
	//Once built it is read-only; analyzer workers may consume disjoint
	//timelines concurrently without locking.
	timeline struct {
		pair      data.Pair
		ts        []int64 // sorted ascending, duplicates retained
		origBytes []int64 // bytes sent, aligned with ts
		respBytes []int64 // bytes received, aligned with ts
	}

	//dissectCounts tracks the per-record and per-flow accounting of
	//one grouping pass
	dissectCounts struct {
		total       int
		skipped     int
		allowlisted int
	}

	event struct {
		ts        int64
		origBytes int64
		respBytes int64
	}
)

//dissect partitions an unordered batch of connection records into
//per-flow timelines sorted ascending by timestamp. Malformed records
//are skipped and counted rather than failing the batch. When a matcher
//is provided, flows to allowlisted destinations are dropped before any
//statistics are computed; each key is checked exactly once. Ties on
//timestamp preserve encounter order.
func dissect(records []conn.Record, matcher *allowlist.Matcher, logger *log.Logger) (map[string]*timeline, dissectCounts) {
	counts := dissectCounts{total: len(records)}

	allowed := make(map[string]bool)
	grouped := make(map[string][]event)
	pairs := make(map[string]data.Pair)

	for i := range records {
		record := &records[i]
		if err := record.Validate(); err != nil {
			counts.skipped++
			if logger != nil {
				logger.WithFields(log.Fields{
					"error": err.Error(),
				}).Warn("Skipping malformed connection record")
			}
			continue
		}

		pair := record.Pair()
		key := pair.MapKey()

		if matcher != nil {
			verdict, checked := allowed[key]
			if !checked {
				verdict = matcher.IsAllowed(pair.Dst, pair.DstPort)
				allowed[key] = verdict
				if verdict {
					counts.allowlisted++
				}
			}
			if verdict {
				continue
			}
		}

		grouped[key] = append(grouped[key], event{
			ts:        int64(record.Timestamp),
			origBytes: record.OrigBytes,
			respBytes: record.RespBytes,
		})
		pairs[key] = pair
	}

	timelines := make(map[string]*timeline, len(grouped))
	for key, events := range grouped {
		// stable keeps encounter order for repeated keep-alive timestamps
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].ts < events[j].ts
		})

		entry := &timeline{
			pair:      pairs[key],
			ts:        make([]int64, len(events)),
			origBytes: make([]int64, len(events)),
			respBytes: make([]int64, len(events)),
		}
		for i, ev := range events {
			entry.ts[i] = ev.ts
			entry.origBytes[i] = ev.origBytes
			entry.respBytes[i] = ev.respBytes
		}
		timelines[key] = entry
	}

	return timelines, counts
}
