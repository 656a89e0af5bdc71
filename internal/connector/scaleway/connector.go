package scaleway

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alex-sviridov/webserver/internal/config"
	"github.com/alex-sviridov/webserver/internal/connector"
	"github.com/scaleway/scaleway-sdk-go/api/instance/v1"
	"github.com/scaleway/scaleway-sdk-go/scw"
)

type Connector struct {
	client      *scw.Client
	instanceApi *instance.API
	config      Config
	dryrun      bool
	log         *slog.Logger
}

func NewConnector(log *slog.Logger, dryrun bool) (*Connector, error) {
	cfg, err := GetConfigFromEnv()
	if err != nil {
		return nil, err
	}

	opts := []scw.ClientOption{
		scw.WithDefaultOrganizationID(cfg.OrganizationID),
		scw.WithDefaultProjectID(cfg.ProjectID),
		scw.WithAuth(cfg.AccessKey, cfg.SecretKey),
		scw.WithDefaultZone(cfg.Zone),
		scw.WithUserAgent(config.ManagedByValue),
	}
	if apiURL := os.Getenv("SCW_API_URL"); apiURL != "" {
		opts = append(opts, scw.WithAPIURL(apiURL))
	}

	client, err := scw.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create scaleway client: %w", err)
	}

	return newConnector(client, *cfg, log, dryrun), nil
}

func newConnector(client *scw.Client, cfg Config, log *slog.Logger, dryrun bool) *Connector {
	return &Connector{
		client:      client,
		instanceApi: instance.NewAPI(client),
		config:      cfg,
		dryrun:      dryrun,
		log:         log,
	}
}

func (c *Connector) Name() string {
	return config.EngineScaleway
}

var _ connector.Connector = (*Connector)(nil)
