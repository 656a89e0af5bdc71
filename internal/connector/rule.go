package connector

import (
	"fmt"
	"net/netip"

	"github.com/alex-sviridov/webserver/internal/config"
)

// Supported rule protocols
const (
	ProtocolTCP = "tcp"
	ProtocolUDP = "udp"
)

// AccessRule allows inbound traffic on one port from a source prefix.
type AccessRule struct {
	Protocol    string
	Port        int
	Source      netip.Prefix
	Description string
}

// AllowTCPFromAnyIPv4 returns a rule allowing TCP on port from 0.0.0.0/0.
func AllowTCPFromAnyIPv4(port int) AccessRule {
	return AccessRule{
		Protocol:    ProtocolTCP,
		Port:        port,
		Source:      netip.MustParsePrefix(config.AnyIPv4Source),
		Description: fmt.Sprintf("Allow from any IPv4 on tcp/%d", port),
	}
}

// Validate checks the rule can be expressed by every engine.
func (r AccessRule) Validate() error {
	var problems []string
	if r.Protocol != ProtocolTCP && r.Protocol != ProtocolUDP {
		problems = append(problems, fmt.Sprintf("protocol %q", r.Protocol))
	}
	if r.Port < 1 || r.Port > 65535 {
		problems = append(problems, fmt.Sprintf("port %d", r.Port))
	}
	if !r.Source.IsValid() {
		problems = append(problems, "source prefix")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid access rule: %v", problems)
	}
	return nil
}

// PortString returns the port as engines expect it in their APIs.
func (r AccessRule) PortString() string {
	return fmt.Sprintf("%d", r.Port)
}

func (r AccessRule) String() string {
	return fmt.Sprintf("%s/%d from %s", r.Protocol, r.Port, r.Source)
}
