package conn

import (
	"errors"
	"fmt"

	"github.com/nethawk/cadence/pkg/data"
	"github.com/nethawk/cadence/util"
)

//ErrMalformedRecord is returned by Validate when a record is missing
//required fields. Malformed records are skipped and counted, never
//treated as fatal to a batch.
var ErrMalformedRecord = errors.New("malformed connection record")

//Record is a single observed connection as produced by a passive
//traffic observation tool (Zeek conn.log naming). The engine never
//mutates records; they are grouped and summarized per host pair.
type Record struct {
	UID       string  `json:"uid"`
	Timestamp float64 `json:"ts"`
	Source    string  `json:"id.orig_h"`
	SrcPort   int     `json:"id.orig_p"`
	Dest      string  `json:"id.resp_h"`
	DstPort   int     `json:"id.resp_p"`
	Proto     string  `json:"proto"`
	Duration  float64 `json:"duration"`
	OrigBytes int64   `json:"orig_bytes"`
	RespBytes int64   `json:"resp_bytes"`
}

//Validate checks that the fields beacon analysis depends on are present
//and well formed. Validation failures become skip-and-count outcomes
//upstream rather than silent attribute defaults.
func (r *Record) Validate() error {
	if r.UID == "" {
		return fmt.Errorf("%w: missing uid", ErrMalformedRecord)
	}
	if r.Timestamp <= 0 {
		return fmt.Errorf("%w: missing or non-positive ts (uid %s)", ErrMalformedRecord, r.UID)
	}
	if !util.IsIP(r.Source) {
		return fmt.Errorf("%w: invalid source address %q (uid %s)", ErrMalformedRecord, r.Source, r.UID)
	}
	if !util.IsIP(r.Dest) {
		return fmt.Errorf("%w: invalid destination address %q (uid %s)", ErrMalformedRecord, r.Dest, r.UID)
	}
	if r.DstPort < 1 || r.DstPort > 65535 {
		return fmt.Errorf("%w: destination port %d out of range (uid %s)", ErrMalformedRecord, r.DstPort, r.UID)
	}
	if r.OrigBytes < 0 || r.RespBytes < 0 {
		return fmt.Errorf("%w: negative byte count (uid %s)", ErrMalformedRecord, r.UID)
	}
	return nil
}

//Pair returns the flow identity for this record
func (r *Record) Pair() data.Pair {
	return data.NewPair(r.Source, r.Dest, r.DstPort)
}
