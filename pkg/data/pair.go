package data

import (
	"fmt"
	"strconv"
	"strings"
)

//Pair identifies a directed flow between two hosts: all connections
//from one source address to one destination address and port belong
//to the same Pair. Protocol is intentionally not part of the identity;
//beacons frequently reconnect over the same destination while flipping
//between transports.
type Pair struct {
	Src     string `json:"src"`
	Dst     string `json:"dst"`
	DstPort int    `json:"dst_port"`
}

//NewPair returns a flow Pair for the given endpoints
func NewPair(src string, dst string, dstPort int) Pair {
	return Pair{Src: src, Dst: dst, DstPort: dstPort}
}

//MapKey generates a string which may be used to index a given Pair.
//Concatenates the source, destination, and destination port.
func (p Pair) MapKey() string {
	var builder strings.Builder
	port := strconv.Itoa(p.DstPort)
	builder.Grow(len(p.Src) + len(p.Dst) + len(port) + 2)
	builder.WriteString(p.Src)
	builder.WriteByte(0)
	builder.WriteString(p.Dst)
	builder.WriteByte(0)
	builder.WriteString(port)

	return builder.String()
}

func (p Pair) String() string {
	return fmt.Sprintf("%s -> %s:%d", p.Src, p.Dst, p.DstPort)
}
