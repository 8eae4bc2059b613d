package config

import (
	"fmt"

	"github.com/blang/semver"

	"github.com/nethawk/cadence/pkg/allowlist"
)

type (
	//RunningCfg holds configuration options that are parsed at run time
	RunningCfg struct {
		Allowlist *allowlist.Matcher
		Version   semver.Version
	}
)

//initRunningConfig deserializes the static config into the running config
func initRunningConfig(static *StaticCfg, running *RunningCfg) error {
	var err error

	if err := validateScoring(&static.Scoring); err != nil {
		return err
	}

	running.Allowlist, err = allowlist.NewMatcher(
		static.Allowlist.Addresses,
		static.Allowlist.Ports,
		static.Allowlist.Subnets,
	)
	if err != nil {
		return err
	}

	running.Version, err = semver.ParseTolerant(static.Version)
	if err != nil {
		// a bad build version shouldn't stop analysis
		running.Version = semver.Version{}
		err = nil
	}

	return err
}

//validateScoring rejects threshold combinations which would make the
//confidence bands non-monotonic
func validateScoring(scoring *ScoringStaticCfg) error {
	if scoring.ScoreThreshold < 0 || scoring.ScoreThreshold > 1 {
		return fmt.Errorf("ScoreThreshold %f must be within [0, 1]", scoring.ScoreThreshold)
	}
	if scoring.MediumCutoff < scoring.ScoreThreshold {
		return fmt.Errorf(
			"MediumCutoff %f must not be less than ScoreThreshold %f",
			scoring.MediumCutoff, scoring.ScoreThreshold,
		)
	}
	if scoring.HighCutoff < scoring.MediumCutoff {
		return fmt.Errorf(
			"HighCutoff %f must not be less than MediumCutoff %f",
			scoring.HighCutoff, scoring.MediumCutoff,
		)
	}
	if scoring.JitterWeight < 0 || scoring.HistogramWeight < 0 {
		return fmt.Errorf("scoring weights must not be negative")
	}
	if scoring.MinConnections < 2 {
		return fmt.Errorf("MinConnections %d must be at least 2", scoring.MinConnections)
	}
	if scoring.HistogramBins < 1 {
		return fmt.Errorf("HistogramBins %d must be at least 1", scoring.HistogramBins)
	}
	return nil
}
