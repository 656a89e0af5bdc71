package commands

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/alex-sviridov/webserver/internal/config"
	"github.com/alex-sviridov/webserver/internal/connector"
	"github.com/alex-sviridov/webserver/internal/connector/digitalocean"
	"github.com/alex-sviridov/webserver/internal/connector/hcloud"
	"github.com/alex-sviridov/webserver/internal/connector/scaleway"
	"github.com/alex-sviridov/webserver/internal/redis"
)

// networkResolver is implemented by engines that can look a network up by name.
type networkResolver interface {
	ResolveNetwork(ctx context.Context, idOrName string) (connector.Network, error)
}

// Overridable in tests.
var (
	newConnector   = defaultConnector
	newOutputStore = defaultOutputStore
)

func defaultConnector(engine string, log *slog.Logger, dryrun bool) (connector.Connector, error) {
	switch engine {
	case config.EngineHCloud:
		return hcloud.NewConnector(log, dryrun)
	case config.EngineScaleway:
		return scaleway.NewConnector(log, dryrun)
	case config.EngineDigitalOcean:
		return digitalocean.NewConnector(log, dryrun)
	default:
		return nil, fmt.Errorf("unknown engine %q (supported: %v)", engine, config.Engines())
	}
}

func defaultOutputStore(ctx context.Context, address string) (redis.ClientInterface, error) {
	return redis.NewClient(ctx, redis.Config{Address: address})
}

func validateEngine(engine string) error {
	if !slices.Contains(config.Engines(), engine) {
		return fmt.Errorf("unknown engine %q (supported: %v)", engine, config.Engines())
	}
	return nil
}

// resolveNetwork turns a user supplied reference into a network handle.
// Engines without lookup support take the reference as the network ID.
func resolveNetwork(ctx context.Context, conn connector.Connector, ref string) (connector.Network, error) {
	if ref == "" {
		return nil, connector.ErrMissingNetwork
	}
	if r, ok := conn.(networkResolver); ok {
		return r.ResolveNetwork(ctx, ref)
	}
	return connector.NetworkRef{ID: ref}, nil
}
