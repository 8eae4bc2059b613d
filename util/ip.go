package util

import (
	"net"
)

// ParseSubnets parses the provided subnets into net.IPNet format.
// Bare IP addresses are treated as single-host subnets.
func ParseSubnets(subnets []string) ([]*net.IPNet, error) {
	var parsedSubnets []*net.IPNet

	for _, entry := range subnets {
		// Try to parse out CIDR range
		_, block, err := net.ParseCIDR(entry)

		// If there was an error, check if entry was a bare IP
		if err != nil {
			ipAddr := net.ParseIP(entry)
			if ipAddr == nil {
				return parsedSubnets, err
			}

			// Append the appropriate subnet mask and reparse
			var subnetMask string
			if ipAddr.To4() != nil {
				subnetMask = "/32"
			} else {
				subnetMask = "/128"
			}

			_, block, err = net.ParseCIDR(entry + subnetMask)
			if err != nil {
				return parsedSubnets, err
			}
		}

		parsedSubnets = append(parsedSubnets, block)
	}
	return parsedSubnets, nil
}

//ContainedInSubnets checks if a given ip address is contained in any
//of the provided subnets
func ContainedInSubnets(ip net.IP, subnets []*net.IPNet) bool {
	for _, block := range subnets {
		if block.Contains(ip) {
			return true
		}
	}
	return false
}

//IsIP returns true if the string is a valid IPv4 or IPv6 address
func IsIP(place string) bool {
	return net.ParseIP(place) != nil
}
