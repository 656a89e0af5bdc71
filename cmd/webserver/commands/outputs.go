package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alex-sviridov/webserver/internal/redis"
)

// Outputs returns the command that reads outputs stored by deploy --redis.
func Outputs() *cobra.Command {
	var stackName, address, format string

	cmd := &cobra.Command{
		Use:   "outputs",
		Short: "Show stored stack outputs",
		Long: `Show the outputs a previous deploy stored in Redis.

Without --stack every stored stack is listed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOutputs(cmd.Context(), address, stackName, format, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&stackName, "stack", "", "Stack name (default: all stacks)")
	cmd.Flags().StringVar(&address, "redis", "", "Redis address or URL (required)")
	cmd.Flags().StringVarP(&format, "output", "o", formatText, fmt.Sprintf("Output format %v", formats))
	_ = cmd.MarkFlagRequired("redis")

	return cmd
}

func runOutputs(ctx context.Context, address, stackName, format string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := validateFormat(format); err != nil {
		return err
	}

	store, err := newOutputStore(ctx, address)
	if err != nil {
		return err
	}
	defer store.Close()

	var records []redis.StackOutputs
	if stackName != "" {
		rec, err := store.GetStackOutputs(ctx, stackName)
		if err != nil {
			return err
		}
		records = append(records, *rec)
	} else {
		if records, err = store.ListStackOutputs(ctx); err != nil {
			return err
		}
	}

	return render(out, format, records)
}
