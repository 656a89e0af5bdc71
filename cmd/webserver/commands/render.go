package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alex-sviridov/webserver/internal/redis"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var formats = []string{formatText, formatJSON, formatYAML}

// stackView is the rendered shape of one stack's outputs.
type stackView struct {
	Stack      string            `json:"stack" yaml:"stack"`
	Engine     string            `json:"engine" yaml:"engine"`
	DeployedAt string            `json:"deployedAt" yaml:"deployedAt"`
	Outputs    map[string]string `json:"outputs" yaml:"outputs"`
}

func validateFormat(format string) error {
	if !slices.Contains(formats, format) {
		return fmt.Errorf("unknown output format %q (supported: %v)", format, formats)
	}
	return nil
}

func toView(rec redis.StackOutputs) stackView {
	v := stackView{
		Stack:      rec.Stack,
		Engine:     rec.Engine,
		DeployedAt: rec.DeployedAt.UTC().Format(time.RFC3339),
		Outputs:    make(map[string]string, len(rec.Outputs)),
	}
	for _, o := range rec.Outputs {
		v.Outputs[o.Construct+"."+o.Name] = o.Value
	}
	return v
}

func render(w io.Writer, format string, records []redis.StackOutputs) error {
	views := make([]stackView, 0, len(records))
	for _, rec := range records {
		views = append(views, toView(rec))
	}

	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(views); err != nil {
			return err
		}
		return enc.Close()
	default:
		for _, rec := range records {
			fmt.Fprintf(w, "%s (%s, %s)\n", rec.Stack, rec.Engine, rec.DeployedAt.UTC().Format(time.RFC3339))
			for _, o := range rec.Outputs {
				fmt.Fprintf(w, "  %s\n", o)
			}
		}
		return nil
	}
}
