package digitalocean

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/alex-sviridov/webserver/internal/config"
	"github.com/alex-sviridov/webserver/internal/connector"
	"github.com/digitalocean/godo"
)

const defaultRegion = "fra1"

type Connector struct {
	client *godo.Client
	region string
	dryrun bool
	log    *slog.Logger

	// dry-run servers get sequential IDs
	dryRunSeq atomic.Int64
}

func NewConnector(log *slog.Logger, dryrun bool) (*Connector, error) {
	token := os.Getenv("DIGITALOCEAN_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("missing required environment variable: DIGITALOCEAN_TOKEN")
	}

	region := os.Getenv("DIGITALOCEAN_REGION")
	if region == "" {
		region = defaultRegion
	}

	client := godo.NewFromToken(token)
	client.UserAgent = config.ManagedByValue + " " + client.UserAgent

	return newConnector(client, region, log, dryrun), nil
}

func newConnector(client *godo.Client, region string, log *slog.Logger, dryrun bool) *Connector {
	return &Connector{
		client: client,
		region: region,
		dryrun: dryrun,
		log:    log,
	}
}

func (c *Connector) Name() string {
	return config.EngineDigitalOcean
}

var _ connector.Connector = (*Connector)(nil)
