package config

import "time"

// Instance shape. The construct exposes none of these as parameters;
// every engine maps them to its own catalog.
const (
	InstanceSize = "small"
	ImageFamily  = "ubuntu-lts"
	Placement    = "public"
)

// Inbound access
const (
	HTTPPort      = 80
	AnyIPv4Source = "0.0.0.0/0"
)

// Bootstrap script location, relative to the stack working directory
const (
	BootstrapScriptPath = "lib/resources/user-data.sh"
)

// Outputs
const (
	PublicURLOutputName = "WordpressServer1PublicIPAddress"
	PublicURLScheme     = "http://"
)

// Redis output store
const (
	StackOutputsPrefix = "webserver:stack:"
	StackOutputsSuffix = ":outputs"
	StackOutputsTTL    = 7 * 24 * time.Hour
)

// Engines
const (
	EngineHCloud       = "hcloud"
	EngineScaleway     = "scaleway"
	EngineDigitalOcean = "digitalocean"
)

// Labels attached to every provisioned resource
const (
	LabelStack     = "stack"
	LabelConstruct = "construct"
	LabelManagedBy = "managed-by"
	ManagedByValue = "webserver"
)

// StackOutputsKey returns the redis key holding the outputs of a stack.
func StackOutputsKey(stackName string) string {
	return StackOutputsPrefix + stackName + StackOutputsSuffix
}

// Engines returns the supported engine names in display order.
func Engines() []string {
	return []string{EngineHCloud, EngineScaleway, EngineDigitalOcean}
}
