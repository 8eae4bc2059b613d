//Package allowlist decides whether a destination belongs to known
//legitimate periodic infrastructure (public DNS resolvers, NTP pools)
//which must be excluded from beacon flagging entirely.
package allowlist

import (
	"fmt"
	"net"

	"github.com/nethawk/cadence/util"
)

//Matcher holds the parsed allowlist. It is read-only after
//construction and safe for concurrent use during an analysis run.
type Matcher struct {
	addresses map[string]struct{}
	ports     map[int]struct{}
	subnets   []*net.IPNet
}

//NewMatcher parses allowlist entries into a Matcher. Addresses must be
//valid IPs, subnets valid CIDR ranges.
func NewMatcher(addresses []string, ports []int, subnets []string) (*Matcher, error) {
	matcher := &Matcher{
		addresses: make(map[string]struct{}, len(addresses)),
		ports:     make(map[int]struct{}, len(ports)),
	}

	for _, address := range addresses {
		if !util.IsIP(address) {
			return nil, fmt.Errorf("invalid allowlist address: %s", address)
		}
		matcher.addresses[address] = struct{}{}
	}

	for _, port := range ports {
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid allowlist port: %d", port)
		}
		matcher.ports[port] = struct{}{}
	}

	parsedSubnets, err := util.ParseSubnets(subnets)
	if err != nil {
		return nil, fmt.Errorf("invalid allowlist subnet: %s", err.Error())
	}
	matcher.subnets = parsedSubnets

	return matcher, nil
}

//IsAllowed returns true if the destination address and port identify
//known infrastructure. A destination is allowed when its address is
//listed exactly, when it falls inside an allowlisted subnet, or when
//the destination port carries a well-known periodic service (DNS, NTP).
//Allowed flows are dropped before any statistics are computed.
func (m *Matcher) IsAllowed(dstAddress string, dstPort int) bool {
	if _, ok := m.addresses[dstAddress]; ok {
		return true
	}

	if _, ok := m.ports[dstPort]; ok {
		return true
	}

	if len(m.subnets) > 0 {
		if ip := net.ParseIP(dstAddress); ip != nil {
			return util.ContainedInSubnets(ip, m.subnets)
		}
	}

	return false
}
