package connector

import "context"

// Connector is a provisioning engine able to create servers.
type Connector interface {
	Name() string
	CreateServer(ctx context.Context, req CreateServerRequest) (Server, error)
}

// Network is a borrowed reference to an existing network.
type Network interface {
	GetID() string
	GetName() string
}

// Server is a created instance. Implementations keep track of the user data
// and access rules they were given so callers can compose further configuration.
type Server interface {
	GetID() string
	GetName() string
	GetPublicIPv4() string
	GetUserData() string
	GetAccessRules() []AccessRule
	AllowInbound(ctx context.Context, rule AccessRule) error
	String() string
}
