package scaleway

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alex-sviridov/webserver/internal/connector"
	"github.com/scaleway/scaleway-sdk-go/scw"
)

type Server struct {
	id              string
	name            string
	ipv4            string
	userData        string
	securityGroupID string
	rules           []connector.AccessRule
	connector       *Connector
	log             *slog.Logger
}

func (s *Server) GetID() string {
	return s.id
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

// AllowInbound adds an accept rule to the server's security group
func (s *Server) AllowInbound(ctx context.Context, rule connector.AccessRule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	req := buildSecurityGroupRuleRequest(rule, s.connector.config, s.securityGroupID)

	if s.connector.dryrun {
		s.log.Info("[DRY-RUN] Would allow inbound traffic",
			"server_id", s.id,
			"security_group_id", s.securityGroupID,
			"rule", rule.String())
		s.rules = append(s.rules, rule)
		return nil
	}

	s.log.Info("adding security group rule", "server_id", s.id, "security_group_id", s.securityGroupID, "rule", rule.String())
	if _, err := s.connector.instanceApi.CreateSecurityGroupRule(req, scw.WithContext(ctx)); err != nil {
		return fmt.Errorf("create security group rule: %w", err)
	}

	s.rules = append(s.rules, rule)
	return nil
}

func (s *Server) String() string {
	return fmt.Sprintf("%v [%v]", s.name, s.ipv4)
}

var _ connector.Server = (*Server)(nil)
