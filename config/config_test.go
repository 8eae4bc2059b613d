package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTestingConfig(t *testing.T) {
	conf, err := LoadTestingConfig()
	require.Nil(t, err)

	assert.Equal(t, 5, conf.S.Scoring.MinConnections)
	assert.Equal(t, 25.0, conf.S.Scoring.MaxJitterPct)
	assert.Equal(t, 5*time.Minute, conf.S.Scoring.MinTimeSpan)
	assert.Equal(t, 0.6, conf.S.Scoring.ScoreThreshold)
	assert.Equal(t, "v0.0.0+testing", conf.S.Version)

	require.NotNil(t, conf.R.Allowlist)
	assert.True(t, conf.R.Allowlist.IsAllowed("8.8.8.8", 443))
	assert.False(t, conf.R.Allowlist.IsAllowed("203.0.113.9", 443))
}

func TestParseStaticConfigDefaults(t *testing.T) {
	var static StaticCfg
	err := parseStaticConfig([]byte("LogConfig:\n    LogLevel: 1\n"), &static)
	require.Nil(t, err)

	// explicit value kept, missing values defaulted
	assert.Equal(t, 1, static.Log.LogLevel)
	assert.Equal(t, 5, static.Scoring.MinConnections)
	assert.Equal(t, 0.85, static.Scoring.HighCutoff)
	assert.Equal(t, 10, static.Scoring.HistogramBins)
	assert.Contains(t, static.Allowlist.Addresses, "8.8.8.8")
	assert.Contains(t, static.Allowlist.Ports, 53)
}

func TestValidateScoring(t *testing.T) {
	conf, err := LoadTestingConfig()
	require.Nil(t, err)

	valid := conf.S.Scoring
	assert.Nil(t, validateScoring(&valid))

	inverted := conf.S.Scoring
	inverted.MediumCutoff = 0.9
	inverted.HighCutoff = 0.7
	assert.NotNil(t, validateScoring(&inverted))

	belowThreshold := conf.S.Scoring
	belowThreshold.MediumCutoff = 0.5
	assert.NotNil(t, validateScoring(&belowThreshold))

	negativeWeight := conf.S.Scoring
	negativeWeight.JitterWeight = -1
	assert.NotNil(t, validateScoring(&negativeWeight))

	tooFewConns := conf.S.Scoring
	tooFewConns.MinConnections = 1
	assert.NotNil(t, validateScoring(&tooFewConns))
}
