package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/alex-sviridov/webserver/internal/config"
	"github.com/alex-sviridov/webserver/internal/logger"
	"github.com/alex-sviridov/webserver/internal/redis"
	"github.com/alex-sviridov/webserver/internal/stack"
	"github.com/alex-sviridov/webserver/internal/webserver"
)

type deployOptions struct {
	network string
	engine  string
	stack   string
	id      string
	workDir string
	dryrun  bool
	verbose bool
	redis   string
	output  string
}

// Deploy returns the command that provisions one web server.
//
// Environment variables (per engine):
//
//	hcloud:       HCLOUD_TOKEN, HCLOUD_LOCATION
//	scaleway:     SCW_ACCESS_KEY, SCW_SECRET_KEY, SCW_ORGANIZATION_ID, SCW_PROJECT_ID, SCW_DEFAULT_ZONE
//	digitalocean: DIGITALOCEAN_TOKEN, DIGITALOCEAN_REGION
func Deploy() *cobra.Command {
	opts := deployOptions{}

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Provision a web server and print its public URL",
		Long: `Provision one web server inside an existing network.

The server boots with the script at ` + config.BootstrapScriptPath + ` (relative to
--workdir), accepts HTTP on port 80 from any IPv4 address and is reported
as http://<public-ip>.

Examples:
  # Hetzner Cloud network by name
  webserver deploy --network web

  # DigitalOcean VPC, outputs as JSON and stored in Redis
  webserver deploy --engine digitalocean --network 5a4981aa-9653-4bd1-bef5-d6bff52042e4 \
    --output json --redis redis://localhost:6379/0

  # See what would be created
  webserver deploy --network web --dry-run --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDeploy(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.network, "network", "", "Existing network ID or name (required)")
	cmd.Flags().StringVar(&opts.engine, "engine", config.EngineHCloud, fmt.Sprintf("Provisioning engine %v", config.Engines()))
	cmd.Flags().StringVar(&opts.stack, "stack", "webserver", "Stack name used for labels and stored outputs")
	cmd.Flags().StringVar(&opts.id, "id", "WebServer", "Construct id, unique within the stack")
	cmd.Flags().StringVar(&opts.workDir, "workdir", ".", "Directory the bootstrap script path is resolved against")
	cmd.Flags().BoolVar(&opts.dryrun, "dry-run", false, "Log what would be created without calling the engine")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging (info level)")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "Redis address or URL to store the outputs in")
	cmd.Flags().StringVarP(&opts.output, "output", "o", formatText, fmt.Sprintf("Output format %v", formats))
	_ = cmd.MarkFlagRequired("network")

	return cmd
}

func runDeploy(ctx context.Context, opts deployOptions, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := validateEngine(opts.engine); err != nil {
		return err
	}
	if err := validateFormat(opts.output); err != nil {
		return err
	}

	log := logger.NewWithWriter(errOut, opts.verbose)
	if opts.dryrun {
		log.Info("[DRY-RUN] Running in dry-run mode, nothing will be created")
	}

	conn, err := newConnector(opts.engine, log, opts.dryrun)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", opts.engine, err)
	}

	network, err := resolveNetwork(ctx, conn, opts.network)
	if err != nil {
		return fmt.Errorf("resolve network: %w", err)
	}

	st, err := stack.New(opts.stack, conn, log, stack.WithWorkDir(opts.workDir), stack.WithContext(ctx))
	if err != nil {
		return err
	}

	if _, err := webserver.New(st, opts.id, webserver.Props{Network: network}); err != nil {
		return err
	}

	record := redis.StackOutputs{
		Stack:      st.Name(),
		Engine:     conn.Name(),
		Outputs:    st.Outputs(),
		DeployedAt: time.Now().UTC(),
	}

	if opts.redis != "" {
		if err := storeOutputs(ctx, opts.redis, record); err != nil {
			return err
		}
		log.Info("outputs stored", "key", config.StackOutputsKey(record.Stack))
	}

	return render(out, opts.output, []redis.StackOutputs{record})
}

func storeOutputs(ctx context.Context, address string, record redis.StackOutputs) error {
	store, err := newOutputStore(ctx, address)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.PushStackOutputs(ctx, record, config.StackOutputsTTL); err != nil {
		return fmt.Errorf("store outputs: %w", err)
	}
	return nil
}
