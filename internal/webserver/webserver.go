// Package webserver provisions a single HTTP server instance into an
// existing network and publishes its public URL as a stack output.
package webserver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alex-sviridov/webserver/internal/config"
	"github.com/alex-sviridov/webserver/internal/connector"
	"github.com/alex-sviridov/webserver/internal/stack"
	"github.com/google/uuid"
)

var ErrBootstrapScript = errors.New("bootstrap script unavailable")

// Props are the inputs of a WebServerInstance.
type Props struct {
	// Network the instance is placed in. It must already exist and is never modified.
	Network connector.Network
}

// WebServerInstance is one provisioned web server.
type WebServerInstance struct {
	// Instance is the created server, available for further configuration.
	Instance connector.Server

	id string
}

// New provisions the instance in st and registers its public URL output.
// The bootstrap script is read before anything is created; any failure
// after the server exists is returned without cleanup.
func New(st *stack.Stack, id string, props Props) (*WebServerInstance, error) {
	if st == nil {
		return nil, fmt.Errorf("stack is required")
	}
	if id == "" {
		return nil, fmt.Errorf("construct id is required")
	}
	if props.Network == nil {
		return nil, fmt.Errorf("%s: %w", id, connector.ErrMissingNetwork)
	}

	log := st.Logger().With("construct", id, "network", props.Network.GetName())
	ctx := st.Context()

	userData, err := readBootstrapScript(st.WorkDir())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}

	req := connector.CreateServerRequest{
		Name:     serverName(st.Name(), id),
		Network:  props.Network,
		Spec:     connector.DefaultInstanceSpec(),
		UserData: userData,
		Labels: map[string]string{
			config.LabelStack:     sanitize(st.Name()),
			config.LabelConstruct: sanitize(id),
			config.LabelManagedBy: config.ManagedByValue,
		},
	}

	log.Info("creating web server instance", "name", req.Name)
	server, err := st.Connector().CreateServer(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: create instance: %w", id, err)
	}
	log = log.With("server_id", server.GetID(), "server_name", server.GetName())

	if err := server.AllowInbound(ctx, connector.AllowTCPFromAnyIPv4(config.HTTPPort)); err != nil {
		return nil, fmt.Errorf("%s: allow http: %w", id, err)
	}

	address := server.GetPublicIPv4()
	if address == "" {
		return nil, fmt.Errorf("%s: instance %s has no public address", id, server.GetName())
	}
	if err := st.AddOutput(id, config.PublicURLOutputName, PublicURL(address)); err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}

	log.Info("web server instance ready", "server", server.String())

	return &WebServerInstance{Instance: server, id: id}, nil
}

// ID returns the construct id the instance was created with.
func (w *WebServerInstance) ID() string {
	return w.id
}

// PublicURL formats the address under which the instance serves HTTP.
func PublicURL(address string) string {
	return config.PublicURLScheme + address
}

func readBootstrapScript(workDir string) (string, error) {
	path := filepath.Join(workDir, config.BootstrapScriptPath)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBootstrapScript, err)
	}
	return string(data), nil
}

// serverName builds a hostname-safe, unique name for the instance.
func serverName(stackName, id string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return sanitize(stackName) + "-" + sanitize(id) + "-" + suffix
}

// sanitize lowercases s and replaces anything outside [a-z0-9] with '-',
// which every engine accepts in names and label values.
func sanitize(s string) string {
	return strings.Trim(strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, s), "-")
}
