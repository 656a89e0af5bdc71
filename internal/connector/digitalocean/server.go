package digitalocean

import (
	"context"
	"fmt"
	"strconv"

	"github.com/alex-sviridov/webserver/internal/connector"
	"github.com/digitalocean/godo"
)

var anyAddress = []string{"0.0.0.0/0", "::/0"}

type Server struct {
	id         int
	name       string
	ipv4       string
	userData   string
	firewallID string
	rules      []connector.AccessRule
	connector  *Connector
}

func (s *Server) GetID() string {
	return strconv.Itoa(s.id)
}

func (s *Server) GetName() string {
	return s.name
}

func (s *Server) GetPublicIPv4() string {
	return s.ipv4
}

func (s *Server) GetUserData() string {
	return s.userData
}

func (s *Server) GetAccessRules() []connector.AccessRule {
	rules := make([]connector.AccessRule, len(s.rules))
	copy(rules, s.rules)
	return rules
}

// AllowInbound adds rule to the firewall owned by this droplet, creating
// the firewall on first use. DigitalOcean firewalls drop all outbound
// traffic without outbound rules, so the firewall also allows all egress.
func (s *Server) AllowInbound(ctx context.Context, rule connector.AccessRule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	inbound := toInboundRule(rule)
	log := s.connector.log.With("droplet_id", s.id, "rule", rule.String())

	if s.connector.dryrun {
		log.Info("[DRY-RUN] Would allow inbound traffic", "firewall", s.firewallName())
		s.rules = append(s.rules, rule)
		return nil
	}

	if s.firewallID == "" {
		log.Info("creating firewall", "firewall", s.firewallName())
		fw, _, err := s.connector.client.Firewalls.Create(ctx, &godo.FirewallRequest{
			Name:          s.firewallName(),
			InboundRules:  []godo.InboundRule{inbound},
			OutboundRules: allowAllOutbound(),
			DropletIDs:    []int{s.id},
		})
		if err != nil {
			return fmt.Errorf("create firewall: %w", err)
		}
		s.firewallID = fw.ID
	} else {
		log.Info("adding firewall rule", "firewall_id", s.firewallID)
		_, err := s.connector.client.Firewalls.AddRules(ctx, s.firewallID, &godo.FirewallRulesRequest{
			InboundRules: []godo.InboundRule{inbound},
		})
		if err != nil {
			return fmt.Errorf("add firewall rule: %w", err)
		}
	}

	s.rules = append(s.rules, rule)
	return nil
}

func (s *Server) firewallName() string {
	return s.name + "-fw"
}

func (s *Server) String() string {
	return fmt.Sprintf("%v [%v]", s.name, s.ipv4)
}

func toInboundRule(rule connector.AccessRule) godo.InboundRule {
	return godo.InboundRule{
		Protocol:  rule.Protocol,
		PortRange: rule.PortString(),
		Sources: &godo.Sources{
			Addresses: []string{rule.Source.String()},
		},
	}
}

func allowAllOutbound() []godo.OutboundRule {
	return []godo.OutboundRule{
		{Protocol: "tcp", PortRange: "all", Destinations: &godo.Destinations{Addresses: anyAddress}},
		{Protocol: "udp", PortRange: "all", Destinations: &godo.Destinations{Addresses: anyAddress}},
		{Protocol: "icmp", Destinations: &godo.Destinations{Addresses: anyAddress}},
	}
}

var _ connector.Server = (*Server)(nil)
