package beacon

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nethawk/cadence/pkg/data"
)

func TestByScoreOrdering(t *testing.T) {
	results := []Result{
		{Pair: data.NewPair("10.0.0.5", "203.0.113.9", 443), Score: 0.7, Connections: 10},
		{Pair: data.NewPair("10.0.0.5", "198.51.100.4", 443), Score: 0.9, Connections: 10},
		{Pair: data.NewPair("10.0.0.5", "192.0.2.7", 443), Score: 0.9, Connections: 40},
	}

	sort.Sort(byScore(results))

	// highest score first, more connections breaking the tie
	assert.Equal(t, "192.0.2.7", results[0].Dst)
	assert.Equal(t, "198.51.100.4", results[1].Dst)
	assert.Equal(t, "203.0.113.9", results[2].Dst)
}

func TestByScoreDeterministicTieBreak(t *testing.T) {
	results := []Result{
		{Pair: data.NewPair("10.0.0.9", "203.0.113.9", 443), Score: 0.8, Connections: 10},
		{Pair: data.NewPair("10.0.0.1", "203.0.113.9", 443), Score: 0.8, Connections: 10},
		{Pair: data.NewPair("10.0.0.1", "203.0.113.9", 80), Score: 0.8, Connections: 10},
		{Pair: data.NewPair("10.0.0.1", "198.51.100.4", 443), Score: 0.8, Connections: 10},
	}

	sort.Sort(byScore(results))

	assert.Equal(t, "10.0.0.1", results[0].Src)
	assert.Equal(t, "198.51.100.4", results[0].Dst)
	assert.Equal(t, "203.0.113.9", results[1].Dst)
	assert.Equal(t, 80, results[1].DstPort)
	assert.Equal(t, 443, results[2].DstPort)
	assert.Equal(t, "10.0.0.9", results[3].Src)
}
