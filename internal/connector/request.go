package connector

import (
	"errors"
	"fmt"

	"github.com/alex-sviridov/webserver/internal/config"
)

// ErrMissingNetwork is returned when a request carries no network handle.
var ErrMissingNetwork = errors.New("missing network")

// InstanceSpec is the engine-neutral shape of the instance to create.
type InstanceSpec struct {
	Size      string
	Image     string
	Placement string
}

// DefaultInstanceSpec returns the fixed instance shape.
func DefaultInstanceSpec() InstanceSpec {
	return InstanceSpec{
		Size:      config.InstanceSize,
		Image:     config.ImageFamily,
		Placement: config.Placement,
	}
}

// CreateServerRequest contains parameters for creating one server
type CreateServerRequest struct {
	Name     string
	Network  Network
	Spec     InstanceSpec
	UserData string
	Labels   map[string]string
}

// Validate checks required fields. It does not look inside the network.
func (r CreateServerRequest) Validate() error {
	if r.Network == nil || r.Network.GetID() == "" {
		return ErrMissingNetwork
	}

	var missing []string
	if r.Name == "" {
		missing = append(missing, "name")
	}
	if r.Spec.Size == "" {
		missing = append(missing, "size")
	}
	if r.Spec.Image == "" {
		missing = append(missing, "image")
	}
	if r.Spec.Placement == "" {
		missing = append(missing, "placement")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %v", missing)
	}

	if r.Spec.Placement != config.Placement {
		return fmt.Errorf("unsupported placement class %q", r.Spec.Placement)
	}
	return nil
}
