package hcloud

import (
	"context"
	"fmt"

	"github.com/alex-sviridov/webserver/internal/connector"
)

const (
	dryRunIPv4   = "192.0.2.10"
	dryRunIDBase = 900000
)

// CreateServer creates one server attached to the requested network.
// It does not wait for the create action to finish.
func (c *Connector) CreateServer(ctx context.Context, req connector.CreateServerRequest) (connector.Server, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	networkID, err := parseID("network", req.Network.GetID())
	if err != nil {
		return nil, err
	}

	opts, err := buildServerCreateOpts(req, networkID, c.config)
	if err != nil {
		return nil, err
	}

	if c.dryrun {
		dryRunServer := &Server{
			id:        dryRunIDBase + c.dryRunSeq.Add(1),
			name:      req.Name,
			ipv4:      dryRunIPv4,
			userData:  req.UserData,
			labels:    req.Labels,
			connector: c,
			log:       c.log,
		}
		c.log.Info("[DRY-RUN] Would create server",
			"name", req.Name,
			"type", opts.ServerType.Name,
			"image", opts.Image.Name,
			"network_id", networkID)
		return dryRunServer, nil
	}

	c.log.Info("creating server",
		"name", req.Name,
		"type", opts.ServerType.Name,
		"image", opts.Image.Name,
		"location", c.config.Location,
		"network_id", networkID)

	result, _, err := c.client.Server.Create(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("create server: %w", err)
	}
	if result.Server == nil {
		return nil, fmt.Errorf("create server: empty response")
	}

	c.log.Info("server created successfully",
		"server_id", result.Server.ID,
		"server_name", result.Server.Name)

	return newServer(result.Server, req, c, c.log), nil
}
