//Package beacon implements the beacon detection engine: it groups
//connection records into directed host-pair flows, computes
//inter-arrival timing statistics per flow, scores periodicity, filters
//known infrastructure, and emits ranked, explainable results tagged
//with adversary technique identifiers.
package beacon

import (
	"context"
	"runtime"
	"sort"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/nethawk/cadence/config"
	"github.com/nethawk/cadence/pkg/allowlist"
	"github.com/nethawk/cadence/pkg/conn"
	"github.com/nethawk/cadence/pkg/data"
	"github.com/nethawk/cadence/util"
)

//AnalyzeConnections runs the full detection pipeline over a batch of
//connection records: allowlist filtering, flow grouping, parallel
//per-flow scoring, and ranking. Results are ordered by descending
//score with deterministic tie-breaking. The analysis is stateless;
//nothing is retained between invocations.
//
//workers bounds the analysis fan-out; values below 1 select a default
//based on the available cores. Cancellation via ctx is honored between
//per-flow computations and returns the partial summary alongside the
//context error.
func AnalyzeConnections(ctx context.Context, records []conn.Record,
	matcher *allowlist.Matcher, scoring config.ScoringStaticCfg,
	workers int, logger *log.Logger) (*Summary, error) {

	timelines, counts := dissect(records, matcher, logger)

	// flows with fewer than 2 connections cannot produce an interval
	// and are excluded before scoring
	for key, entry := range timelines {
		if len(entry.ts) < 2 {
			delete(timelines, key)
		}
	}

	if workers < 1 {
		workers = util.Max(1, runtime.NumCPU()/2)
	}

	writerWorker := newWriter()
	analyzerWorker := newAnalyzer(
		scoring,
		logger,
		writerWorker.collect,
		writerWorker.close,
	)

	//kick off the threaded goroutines
	writerWorker.start()
	for i := 0; i < workers; i++ {
		analyzerWorker.start()
	}

	analyzed := 0
	var ctxErr error
	for _, entry := range timelines {
		if ctx != nil {
			select {
			case <-ctx.Done():
				ctxErr = ctx.Err()
			default:
			}
			if ctxErr != nil {
				break
			}
		}
		analyzerWorker.collect(entry)
		analyzed++
	}
	analyzerWorker.close()

	summary := &Summary{
		RunID:            uuid.New().String(),
		TotalRecords:     counts.total,
		SkippedRecords:   counts.skipped,
		AnalyzedFlows:    analyzed,
		AllowlistedFlows: counts.allowlisted,
	}

	for _, detail := range writerWorker.results {
		if detail.qualifies {
			summary.Results = append(summary.Results, detail.Result)
		}
	}
	sort.Sort(byScore(summary.Results))

	if logger != nil {
		logger.WithFields(log.Fields{
			"run_id":            summary.RunID,
			"total_records":     summary.TotalRecords,
			"skipped_records":   summary.SkippedRecords,
			"analyzed_flows":    summary.AnalyzedFlows,
			"allowlisted_flows": summary.AllowlistedFlows,
			"reported_beacons":  len(summary.Results),
		}).Info("Completed beacon analysis")
	}

	return summary, ctxErr
}

//AnalyzePairDetailed produces the full evidence for one host pair:
//interval histogram, interval sequence, entropy, and the reasons
//behind each sub-score. The allowlist gate is bypassed intentionally
//so analysts can drill into any pair, reported or not. Returns
//ErrPairNotFound when the batch holds no connections for the pair.
func AnalyzePairDetailed(ctx context.Context, records []conn.Record,
	pair data.Pair, scoring config.ScoringStaticCfg,
	logger *log.Logger) (*DetailedResult, error) {

	if ctx != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
	}

	timelines, _ := dissect(records, nil, logger)

	entry, ok := timelines[pair.MapKey()]
	if !ok {
		return nil, ErrPairNotFound
	}

	analyzerWorker := newAnalyzer(scoring, logger, nil, nil)
	return analyzerWorker.analyze(entry), nil
}
