package hcloud

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/alex-sviridov/webserver/internal/config"
	"github.com/alex-sviridov/webserver/internal/connector"
	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

type Connector struct {
	client *hcloud.Client
	config Config
	dryrun bool
	log    *slog.Logger

	// dry-run servers get sequential IDs
	dryRunSeq atomic.Int64
}

func NewConnector(log *slog.Logger, dryrun bool) (*Connector, error) {
	cfg, err := GetConfigFromEnv()
	if err != nil {
		return nil, err
	}

	opts := []hcloud.ClientOption{
		hcloud.WithToken(cfg.Token),
		hcloud.WithApplication(config.ManagedByValue, ""),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, hcloud.WithEndpoint(cfg.Endpoint))
	}

	return newConnector(hcloud.NewClient(opts...), *cfg, log, dryrun), nil
}

func newConnector(client *hcloud.Client, cfg Config, log *slog.Logger, dryrun bool) *Connector {
	return &Connector{
		client: client,
		config: cfg,
		dryrun: dryrun,
		log:    log,
	}
}

func (c *Connector) Name() string {
	return config.EngineHCloud
}

// ResolveNetwork looks up an existing network by ID or name.
// The subnets are not inspected.
func (c *Connector) ResolveNetwork(ctx context.Context, idOrName string) (connector.Network, error) {
	if idOrName == "" {
		return nil, connector.ErrMissingNetwork
	}
	if c.dryrun {
		c.log.Info("[DRY-RUN] Would resolve network", "network", idOrName)
		// names resolve to a placeholder ID so later steps can still parse it
		if _, err := parseID("network", idOrName); err != nil {
			return connector.NetworkRef{ID: "0", Name: idOrName}, nil
		}
		return connector.NetworkRef{ID: idOrName, Name: idOrName}, nil
	}

	network, _, err := c.client.Network.Get(ctx, idOrName)
	if err != nil {
		return nil, fmt.Errorf("get network: %w", err)
	}
	if network == nil {
		return nil, fmt.Errorf("network '%s' not found", idOrName)
	}
	return connector.NetworkRef{
		ID:   strconv.FormatInt(network.ID, 10),
		Name: network.Name,
	}, nil
}

// parseID converts a string resource ID to int64
func parseID(kind, id string) (int64, error) {
	idInt, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s ID: %w", kind, err)
	}
	return idInt, nil
}

var _ connector.Connector = (*Connector)(nil)
