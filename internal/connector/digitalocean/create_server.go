package digitalocean

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/alex-sviridov/webserver/internal/connector"
	"github.com/digitalocean/godo"
	"github.com/digitalocean/godo/util"
)

const (
	dryRunIPv4   = "192.0.2.10"
	dryRunIDBase = 900000
)

var sizes = map[string]string{
	"small":  "s-1vcpu-2gb",
	"medium": "s-2vcpu-4gb",
}

var images = map[string]string{
	"ubuntu-lts": "ubuntu-24-04-x64",
	"debian":     "debian-12-x64",
}

// buildDropletCreateRequest maps an engine-neutral request to a droplet request.
// The network handle is the VPC UUID.
func buildDropletCreateRequest(req connector.CreateServerRequest, region string) (*godo.DropletCreateRequest, error) {
	size, ok := sizes[req.Spec.Size]
	if !ok {
		return nil, fmt.Errorf("unknown size class %q", req.Spec.Size)
	}
	image, ok := images[req.Spec.Image]
	if !ok {
		return nil, fmt.Errorf("unknown image family %q", req.Spec.Image)
	}

	tags := make([]string, 0, len(req.Labels))
	for _, key := range slices.Sorted(maps.Keys(req.Labels)) {
		tags = append(tags, fmt.Sprintf("%s:%s", key, req.Labels[key]))
	}

	return &godo.DropletCreateRequest{
		Name:     req.Name,
		Region:   region,
		Size:     size,
		Image:    godo.DropletCreateImage{Slug: image},
		UserData: req.UserData,
		VPCUUID:  req.Network.GetID(),
		Tags:     tags,
	}, nil
}

// CreateServer creates one droplet in the requested VPC.
// Droplets get their public address asynchronously, so when the create
// response carries none the create action is awaited before reading it back.
func (c *Connector) CreateServer(ctx context.Context, req connector.CreateServerRequest) (connector.Server, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	dcr, err := buildDropletCreateRequest(req, c.region)
	if err != nil {
		return nil, err
	}

	if c.dryrun {
		c.log.Info("[DRY-RUN] Would create droplet",
			"name", dcr.Name,
			"size", dcr.Size,
			"image", dcr.Image.Slug,
			"region", dcr.Region,
			"vpc_uuid", dcr.VPCUUID)
		return &Server{
			id:        int(dryRunIDBase + c.dryRunSeq.Add(1)),
			name:      req.Name,
			ipv4:      dryRunIPv4,
			userData:  req.UserData,
			connector: c,
		}, nil
	}

	c.log.Info("creating droplet",
		"name", dcr.Name,
		"size", dcr.Size,
		"image", dcr.Image.Slug,
		"region", dcr.Region,
		"vpc_uuid", dcr.VPCUUID)

	d, resp, err := c.client.Droplets.Create(ctx, dcr)
	if err != nil {
		return nil, fmt.Errorf("create droplet: %w", err)
	}

	// PublicIPv4 errors while the droplet has no networks yet
	ipv4, _ := d.PublicIPv4()
	if ipv4 == "" {
		if href := createActionHREF(resp); href != "" {
			if err := util.WaitForActive(ctx, c.client, href); err != nil {
				return nil, fmt.Errorf("wait for droplet: %w", err)
			}
		}
		d, _, err = c.client.Droplets.Get(ctx, d.ID)
		if err != nil {
			return nil, fmt.Errorf("get droplet: %w", err)
		}
		ipv4, _ = d.PublicIPv4()
	}
	if ipv4 == "" {
		return nil, fmt.Errorf("no public IP found for droplet %d", d.ID)
	}

	c.log.Info("droplet created successfully", "droplet_id", d.ID, "droplet_name", d.Name, "ipv4", ipv4)

	return &Server{
		id:        d.ID,
		name:      d.Name,
		ipv4:      ipv4,
		userData:  req.UserData,
		connector: c,
	}, nil
}

// createActionHREF returns the monitor URI of the create action, if any
func createActionHREF(resp *godo.Response) string {
	if resp == nil || resp.Links == nil {
		return ""
	}
	for _, a := range resp.Links.Actions {
		if a.Rel == "create" {
			return a.HREF
		}
	}
	return ""
}
