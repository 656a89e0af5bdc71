package hcloud

import (
	"context"
	"fmt"
	"net"

	"github.com/alex-sviridov/webserver/internal/connector"
	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// AllowInbound adds rule to the firewall owned by this server. The firewall
// is created and applied to the server on the first call.
func (s *Server) AllowInbound(ctx context.Context, rule connector.AccessRule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	rules, err := toFirewallRules(append(s.GetAccessRules(), rule))
	if err != nil {
		return err
	}

	if s.connector.dryrun {
		s.log.Info("[DRY-RUN] Would allow inbound traffic",
			"server_id", s.id,
			"firewall", s.firewallName(),
			"rule", rule.String())
		s.rules = append(s.rules, rule)
		return nil
	}

	if s.firewall == nil {
		s.log.Info("creating firewall", "server_id", s.id, "firewall", s.firewallName(), "rule", rule.String())
		result, _, err := s.connector.client.Firewall.Create(ctx, hcloud.FirewallCreateOpts{
			Name:   s.firewallName(),
			Labels: s.labels,
			Rules:  rules,
			ApplyTo: []hcloud.FirewallResource{
				{
					Type:   hcloud.FirewallResourceTypeServer,
					Server: &hcloud.FirewallResourceServer{ID: s.id},
				},
			},
		})
		if err != nil {
			return fmt.Errorf("create firewall: %w", err)
		}
		s.firewall = result.Firewall
	} else {
		s.log.Info("updating firewall rules", "server_id", s.id, "firewall_id", s.firewall.ID, "rule", rule.String())
		_, _, err := s.connector.client.Firewall.SetRules(ctx, s.firewall, hcloud.FirewallSetRulesOpts{
			Rules: rules,
		})
		if err != nil {
			return fmt.Errorf("set firewall rules: %w", err)
		}
	}

	s.rules = append(s.rules, rule)
	return nil
}

func (s *Server) firewallName() string {
	return s.name + "-fw"
}

// toFirewallRules converts access rules to inbound hcloud firewall rules
func toFirewallRules(rules []connector.AccessRule) ([]hcloud.FirewallRule, error) {
	out := make([]hcloud.FirewallRule, 0, len(rules))
	for _, rule := range rules {
		_, source, err := net.ParseCIDR(rule.Source.String())
		if err != nil {
			return nil, fmt.Errorf("parse source %s: %w", rule.Source, err)
		}
		out = append(out, hcloud.FirewallRule{
			Direction:   hcloud.FirewallRuleDirectionIn,
			SourceIPs:   []net.IPNet{*source},
			Protocol:    hcloud.FirewallRuleProtocol(rule.Protocol),
			Port:        hcloud.Ptr(rule.PortString()),
			Description: hcloud.Ptr(rule.Description),
		})
	}
	return out, nil
}
