package scaleway

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/alex-sviridov/webserver/internal/connector"
	"github.com/scaleway/scaleway-sdk-go/api/instance/v1"
	"github.com/scaleway/scaleway-sdk-go/scw"
)

// Config contains Scaleway credentials and placement read from the environment
type Config struct {
	AccessKey      string
	SecretKey      string
	OrganizationID string
	ProjectID      string
	Zone           scw.Zone
}

// GetConfigFromEnv reads Scaleway configuration from environment
func GetConfigFromEnv() (*Config, error) {
	accessKey := os.Getenv("SCW_ACCESS_KEY")
	secretKey := os.Getenv("SCW_SECRET_KEY")
	organizationID := os.Getenv("SCW_ORGANIZATION_ID")
	projectID := os.Getenv("SCW_PROJECT_ID")
	defaultZone := os.Getenv("SCW_DEFAULT_ZONE")

	var missing []string
	if accessKey == "" {
		missing = append(missing, "SCW_ACCESS_KEY")
	}
	if secretKey == "" {
		missing = append(missing, "SCW_SECRET_KEY")
	}
	if organizationID == "" {
		missing = append(missing, "SCW_ORGANIZATION_ID")
	}
	if projectID == "" {
		missing = append(missing, "SCW_PROJECT_ID")
	}
	if defaultZone == "" {
		missing = append(missing, "SCW_DEFAULT_ZONE")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %v", missing)
	}

	return &Config{
		AccessKey:      accessKey,
		SecretKey:      secretKey,
		OrganizationID: organizationID,
		ProjectID:      projectID,
		Zone:           scw.Zone(defaultZone),
	}, nil
}

var commercialTypes = map[string]string{
	"small":  "DEV1-S",
	"medium": "DEV1-M",
}

var images = map[string]string{
	"ubuntu-lts": "ubuntu_noble",
	"debian":     "debian_bookworm",
}

// buildSecurityGroupRequest describes the security group owned by one server.
// Inbound traffic is dropped unless a rule allows it.
func buildSecurityGroupRequest(req connector.CreateServerRequest, cfg Config) *instance.CreateSecurityGroupRequest {
	return &instance.CreateSecurityGroupRequest{
		Zone:                  cfg.Zone,
		Name:                  req.Name + "-sg",
		Description:           fmt.Sprintf("Inbound access for %s", req.Name),
		Project:               scw.StringPtr(cfg.ProjectID),
		Tags:                  labelsToTags(req.Labels),
		Stateful:              true,
		InboundDefaultPolicy:  instance.SecurityGroupPolicyDrop,
		OutboundDefaultPolicy: instance.SecurityGroupPolicyAccept,
	}
}

// buildServerRequest maps an engine-neutral request to a Scaleway create request
func buildServerRequest(req connector.CreateServerRequest, cfg Config, securityGroupID string) (*instance.CreateServerRequest, error) {
	commercialType, ok := commercialTypes[req.Spec.Size]
	if !ok {
		return nil, fmt.Errorf("unknown size class %q", req.Spec.Size)
	}
	image, ok := images[req.Spec.Image]
	if !ok {
		return nil, fmt.Errorf("unknown image family %q", req.Spec.Image)
	}

	return &instance.CreateServerRequest{
		Zone:           cfg.Zone,
		Name:           req.Name,
		Project:        scw.StringPtr(cfg.ProjectID),
		CommercialType: commercialType,
		Image:          scw.StringPtr(image),
		Tags:           labelsToTags(req.Labels),
		// The public IPv4 is created explicitly once the server exists.
		DynamicIPRequired: scw.BoolPtr(false),
		SecurityGroup:     scw.StringPtr(securityGroupID),
	}, nil
}

// buildSecurityGroupRuleRequest maps an access rule to an inbound accept rule
func buildSecurityGroupRuleRequest(rule connector.AccessRule, cfg Config, securityGroupID string) *instance.CreateSecurityGroupRuleRequest {
	port := uint32(rule.Port)
	protocol := instance.SecurityGroupRuleProtocolTCP
	if rule.Protocol == connector.ProtocolUDP {
		protocol = instance.SecurityGroupRuleProtocolUDP
	}
	return &instance.CreateSecurityGroupRuleRequest{
		Zone:            cfg.Zone,
		SecurityGroupID: securityGroupID,
		Protocol:        protocol,
		Direction:       instance.SecurityGroupRuleDirectionInbound,
		Action:          instance.SecurityGroupRuleActionAccept,
		IPRange:         scw.IPNet{IPNet: prefixToIPNet(rule)},
		DestPortFrom:    &port,
		DestPortTo:      &port,
	}
}

// labelsToTags flattens labels into key:value tags, sorted for stable requests
func labelsToTags(labels map[string]string) []string {
	tags := make([]string, 0, len(labels))
	for _, key := range slices.Sorted(maps.Keys(labels)) {
		tags = append(tags, fmt.Sprintf("%s:%s", key, labels[key]))
	}
	return tags
}
