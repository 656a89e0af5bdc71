package scaleway

import (
	"bytes"
	"context"
	"fmt"
	"net"

	"github.com/alex-sviridov/webserver/internal/connector"
	"github.com/scaleway/scaleway-sdk-go/api/instance/v1"
	"github.com/scaleway/scaleway-sdk-go/scw"
)

const dryRunIPv4 = "192.0.2.10"

// CreateServer creates a server with its own security group and a routed
// public IPv4, attaches it to the private network, uploads the cloud-init
// user data and powers it on. None of the steps wait for the server to
// reach a state.
func (c *Connector) CreateServer(ctx context.Context, req connector.CreateServerRequest) (connector.Server, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sgReq := buildSecurityGroupRequest(req, c.config)
	if _, err := buildServerRequest(req, c.config, ""); err != nil {
		return nil, err
	}

	if c.dryrun {
		dryRunServer := &Server{
			id:              "dry-run-" + req.Name,
			name:            req.Name,
			ipv4:            dryRunIPv4,
			userData:        req.UserData,
			securityGroupID: "dry-run-" + sgReq.Name,
			connector:       c,
			log:             c.log,
		}
		c.log.Info("[DRY-RUN] Would create server",
			"name", req.Name,
			"security_group", sgReq.Name,
			"private_network_id", req.Network.GetID(),
			"zone", c.config.Zone)
		return dryRunServer, nil
	}

	// Step 1: Create the security group owned by this server
	securityGroupID, err := c.createSecurityGroup(ctx, sgReq)
	if err != nil {
		return nil, fmt.Errorf("create security group: %w", err)
	}

	// Step 2: Create the server
	serverID, err := c.createServer(ctx, req, securityGroupID)
	if err != nil {
		return nil, fmt.Errorf("create server: %w", err)
	}

	// Step 3: Attach a public IPv4
	ipv4, err := c.attachRoutedIPv4(ctx, serverID, req.Labels)
	if err != nil {
		return nil, fmt.Errorf("attach public IPv4: %w", err)
	}

	// Step 4: Attach to the private network
	if err := c.attachPrivateNetwork(ctx, serverID, req.Network.GetID()); err != nil {
		return nil, fmt.Errorf("attach private network: %w", err)
	}

	// Step 5: Upload cloud-init
	if err := c.uploadCloudInitContent(ctx, serverID, []byte(req.UserData)); err != nil {
		return nil, fmt.Errorf("upload cloud-init: %w", err)
	}

	// Step 6: Power on the server
	if err := c.powerOnServer(ctx, serverID); err != nil {
		return nil, fmt.Errorf("power on server: %w", err)
	}

	c.log.Info("server created successfully",
		"server_id", serverID,
		"server_name", req.Name,
		"security_group_id", securityGroupID,
		"ipv4", ipv4)

	return &Server{
		id:              serverID,
		name:            req.Name,
		ipv4:            ipv4,
		userData:        req.UserData,
		securityGroupID: securityGroupID,
		connector:       c,
		log:             c.log,
	}, nil
}

// createSecurityGroup creates the security group and returns its ID
func (c *Connector) createSecurityGroup(ctx context.Context, req *instance.CreateSecurityGroupRequest) (string, error) {
	resp, err := c.instanceApi.CreateSecurityGroup(req, scw.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return resp.SecurityGroup.ID, nil
}

// createServer creates a new server instance
func (c *Connector) createServer(ctx context.Context, req connector.CreateServerRequest, securityGroupID string) (string, error) {
	createReq, err := buildServerRequest(req, c.config, securityGroupID)
	if err != nil {
		return "", err
	}

	c.log.Info("creating server",
		"name", req.Name,
		"type", createReq.CommercialType,
		"image", *createReq.Image,
		"zone", c.config.Zone)

	resp, err := c.instanceApi.CreateServer(createReq, scw.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return resp.Server.ID, nil
}

// attachPrivateNetwork plugs a private NIC into the given private network
func (c *Connector) attachPrivateNetwork(ctx context.Context, serverID, privateNetworkID string) error {
	_, err := c.instanceApi.CreatePrivateNIC(&instance.CreatePrivateNICRequest{
		Zone:             c.config.Zone,
		ServerID:         serverID,
		PrivateNetworkID: privateNetworkID,
	}, scw.WithContext(ctx))
	return err
}

// uploadCloudInitContent uploads cloud-init user data from memory
func (c *Connector) uploadCloudInitContent(ctx context.Context, serverID string, content []byte) error {
	req := &instance.SetServerUserDataRequest{
		Zone:     c.config.Zone,
		ServerID: serverID,
		Key:      "cloud-init",
		Content:  bytes.NewReader(content),
	}

	return c.instanceApi.SetServerUserData(req, scw.WithContext(ctx))
}

// powerOnServer starts the server
func (c *Connector) powerOnServer(ctx context.Context, serverID string) error {
	req := &instance.ServerActionRequest{
		Zone:     c.config.Zone,
		ServerID: serverID,
		Action:   instance.ServerActionPoweron,
	}

	_, err := c.instanceApi.ServerAction(req, scw.WithContext(ctx))
	return err
}

// attachRoutedIPv4 creates a routed public IPv4 attached to the server and
// returns its address
func (c *Connector) attachRoutedIPv4(ctx context.Context, serverID string, labels map[string]string) (string, error) {
	req := &instance.CreateIPRequest{
		Zone:    c.config.Zone,
		Project: scw.StringPtr(c.config.ProjectID),
		Type:    instance.IPTypeRoutedIPv4,
		Server:  scw.StringPtr(serverID),
		Tags:    labelsToTags(labels),
	}

	resp, err := c.instanceApi.CreateIP(req, scw.WithContext(ctx))
	if err != nil {
		return "", err
	}
	if resp.IP == nil || resp.IP.Address.To4() == nil {
		return "", fmt.Errorf("no public IPv4 returned for server %s", serverID)
	}
	return resp.IP.Address.String(), nil
}

func prefixToIPNet(rule connector.AccessRule) net.IPNet {
	_, ipNet, err := net.ParseCIDR(rule.Source.String())
	if err != nil {
		return net.IPNet{}
	}
	return *ipNet
}
