package conn

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() Record {
	return Record{
		UID:       "CUM8I83kpVjOG14U5",
		Timestamp: 1617231999,
		Source:    "10.0.0.5",
		SrcPort:   49230,
		Dest:      "203.0.113.9",
		DstPort:   443,
		Proto:     "tcp",
		Duration:  0.23,
		OrigBytes: 512,
		RespBytes: 1024,
	}
}

func TestValidate(t *testing.T) {
	good := validRecord()
	assert.Nil(t, good.Validate())

	tests := []struct {
		name   string
		mangle func(*Record)
	}{
		{"missing uid", func(r *Record) { r.UID = "" }},
		{"missing ts", func(r *Record) { r.Timestamp = 0 }},
		{"bad source", func(r *Record) { r.Source = "not-an-ip" }},
		{"bad dest", func(r *Record) { r.Dest = "" }},
		{"port too low", func(r *Record) { r.DstPort = 0 }},
		{"port too high", func(r *Record) { r.DstPort = 70000 }},
		{"negative bytes", func(r *Record) { r.OrigBytes = -1 }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			record := validRecord()
			test.mangle(&record)
			err := record.Validate()
			require.NotNil(t, err)
			assert.True(t, errors.Is(err, ErrMalformedRecord))
		})
	}
}

func TestPair(t *testing.T) {
	record := validRecord()
	pair := record.Pair()
	assert.Equal(t, "10.0.0.5", pair.Src)
	assert.Equal(t, "203.0.113.9", pair.Dst)
	assert.Equal(t, 443, pair.DstPort)
}

func TestReadJSON(t *testing.T) {
	input := `
{"uid":"C1","ts":1617231999,"id.orig_h":"10.0.0.5","id.orig_p":49230,"id.resp_h":"203.0.113.9","id.resp_p":443,"proto":"tcp","orig_bytes":512,"resp_bytes":1024}
not json at all
{"uid":"C2","ts":1617232059,"id.orig_h":"10.0.0.5","id.orig_p":49231,"id.resp_h":"203.0.113.9","id.resp_p":443,"proto":"tcp","orig_bytes":512,"resp_bytes":1024}
# comment line

`
	records, unparsable, err := ReadJSON(strings.NewReader(input), nil)
	require.Nil(t, err)
	assert.Equal(t, 1, unparsable)
	require.Len(t, records, 2)
	assert.Equal(t, "C1", records[0].UID)
	assert.Equal(t, "203.0.113.9", records[1].Dest)
	assert.Equal(t, float64(1617232059), records[1].Timestamp)
}
