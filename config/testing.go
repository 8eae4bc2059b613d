package config

import (
	"time"

	"github.com/creasty/defaults"
)

const testConfig = `
LogConfig:
    LogLevel: 3
    LogPath: null
    LogToFile: false
Scoring:
    MinConnections: 5
    MaxJitterPct: 25
    MinTimeSpanMinutes: 5
    ScoreThreshold: 0.6
    MediumCutoff: 0.7
    HighCutoff: 0.85
    JitterWeight: 0.5
    HistogramWeight: 0.5
    HistogramBins: 10
    ConnectionLimit: 100000
Allowlist:
    Addresses: ["8.8.8.8", "8.8.4.4", "1.1.1.1"]
    Ports: [53, 123]
    Subnets: []
UserConfig:
    UpdateCheckFrequency: 14
`

//LoadTestingConfig loads the hard coded testing config
func LoadTestingConfig() (*Config, error) {
	config := &Config{}

	// Initialize static config to the default values
	if err := defaults.Set(&config.S); err != nil {
		return nil, err
	}

	// Deserialize the yaml file contents into the static config
	if err := parseStaticConfig([]byte(testConfig), &config.S); err != nil {
		return nil, err
	}

	config.S.Version = "v0.0.0+testing"
	config.S.ExactVersion = "v0.0.0+testing"

	// Use the static config to initialize the running config
	if err := initRunningConfig(&config.S, &config.R); err != nil {
		return nil, err
	}

	return config, nil
}

//ScoringDefaults returns the default scoring thresholds without
//touching the filesystem. Useful for library callers which supply
//their own configuration plumbing.
func ScoringDefaults() (ScoringStaticCfg, error) {
	var scoring ScoringStaticCfg
	if err := defaults.Set(&scoring); err != nil {
		return scoring, err
	}
	scoring.MinTimeSpan *= time.Minute
	return scoring, nil
}
