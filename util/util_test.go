package util

import (
	"math"
	"net"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortableInt64(t *testing.T) {
	ints := []int64{3434, -1, -20, 0}
	sort.Sort(SortableInt64(ints))
	assert.Equal(t, int64(-20), ints[0])
	assert.Equal(t, int64(-1), ints[1])
	assert.Equal(t, int64(0), ints[2])
	assert.Equal(t, int64(3434), ints[3])
}

func TestAbs(t *testing.T) {
	max := int64(math.MaxInt64)
	pos := int64(1)
	zero := int64(0)
	neg := int64(-1)

	assert.Equal(t, max, Abs(max))
	assert.Equal(t, pos, Abs(pos))
	assert.Equal(t, zero, Abs(zero))
	assert.Equal(t, -1*neg, Abs(neg))
}

func TestRound(t *testing.T) {
	assert.Equal(t, int64(-17), Round(-16.6))
	assert.Equal(t, int64(-16), Round(-16.1))
	assert.Equal(t, int64(16), Round(16.1))
	assert.Equal(t, int64(17), Round(16.6))
}

func TestMinMax(t *testing.T) {
	large := 100
	small := -100
	assert.Equal(t, large, Max(large, small))
	assert.Equal(t, large, Max(small, large))
	assert.Equal(t, small, Min(large, small))
	assert.Equal(t, small, Min(small, large))
}

func TestClampFloat64(t *testing.T) {
	assert.Equal(t, 0.0, ClampFloat64(-2.5, 0, 1))
	assert.Equal(t, 1.0, ClampFloat64(1.01, 0, 1))
	assert.Equal(t, 0.33, ClampFloat64(0.33, 0, 1))
}

func TestIsIP(t *testing.T) {
	assert.True(t, IsIP("1.1.1.1"))
	assert.True(t, IsIP("2606:4700:4700::1111"))
	assert.False(t, IsIP("a.b.c.d"))
}

func TestParseSubnets(t *testing.T) {
	parsed, err := ParseSubnets([]string{"10.0.0.0/8", "8.8.8.8", "fc00::/7"})
	assert.Nil(t, err)
	assert.Len(t, parsed, 3)
	assert.True(t, ContainedInSubnets(net.ParseIP("10.44.2.1"), parsed))
	assert.True(t, ContainedInSubnets(net.ParseIP("8.8.8.8"), parsed))
	assert.False(t, ContainedInSubnets(net.ParseIP("1.2.3.4"), parsed))

	_, err = ParseSubnets([]string{"not-a-subnet"})
	assert.NotNil(t, err)
}
