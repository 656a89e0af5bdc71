package hcloud

import (
	"fmt"
	"os"

	"github.com/alex-sviridov/webserver/internal/connector"
	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// Config contains Hetzner Cloud settings read from the environment
type Config struct {
	Token    string
	Endpoint string
	Location string
}

// GetConfigFromEnv reads Hetzner Cloud configuration from environment
func GetConfigFromEnv() (*Config, error) {
	token := os.Getenv("HCLOUD_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("missing required environment variable: HCLOUD_TOKEN")
	}

	return &Config{
		Token:    token,
		Endpoint: os.Getenv("HCLOUD_ENDPOINT"),
		Location: os.Getenv("HCLOUD_LOCATION"),
	}, nil
}

var serverTypes = map[string]string{
	"small":  "cx22",
	"medium": "cx32",
}

var images = map[string]string{
	"ubuntu-lts": "ubuntu-24.04",
	"debian":     "debian-12",
}

// buildServerCreateOpts maps an engine-neutral request to hcloud create options
func buildServerCreateOpts(req connector.CreateServerRequest, networkID int64, cfg Config) (hcloud.ServerCreateOpts, error) {
	serverType, ok := serverTypes[req.Spec.Size]
	if !ok {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("unknown size class %q", req.Spec.Size)
	}
	image, ok := images[req.Spec.Image]
	if !ok {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("unknown image family %q", req.Spec.Image)
	}

	opts := hcloud.ServerCreateOpts{
		Name:             req.Name,
		ServerType:       &hcloud.ServerType{Name: serverType},
		Image:            &hcloud.Image{Name: image},
		StartAfterCreate: hcloud.Ptr(true),
		// Public placement: the server gets its own public IPv4.
		PublicNet: &hcloud.ServerCreatePublicNet{
			EnableIPv4: true,
			EnableIPv6: false,
		},
		Networks: []*hcloud.Network{{ID: networkID}},
		UserData: req.UserData,
		Labels:   req.Labels,
	}
	if cfg.Location != "" {
		opts.Location = &hcloud.Location{Name: cfg.Location}
	}
	return opts, nil
}
