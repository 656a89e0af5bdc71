package webserver

import (
	"context"
	"fmt"
	"sync"

	"github.com/alex-sviridov/webserver/internal/connector"
)

// mockConnector records every create request and hands out sequential servers.
type mockConnector struct {
	mu        sync.Mutex
	requests  []connector.CreateServerRequest
	createErr error
	allowErr  error
	noAddress bool
}

func (m *mockConnector) Name() string { return "mock" }

func (m *mockConnector) CreateServer(ctx context.Context, req connector.CreateServerRequest) (connector.Server, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if m.createErr != nil {
		return nil, m.createErr
	}
	n := len(m.requests)
	ipv4 := fmt.Sprintf("203.0.113.%d", n)
	if m.noAddress {
		ipv4 = ""
	}
	return &mockServer{
		id:       fmt.Sprintf("srv-%d", n),
		name:     req.Name,
		ipv4:     ipv4,
		userData: req.UserData,
		network:  req.Network,
		allowErr: m.allowErr,
	}, nil
}

func (m *mockConnector) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

type mockServer struct {
	id       string
	name     string
	ipv4     string
	userData string
	network  connector.Network
	rules    []connector.AccessRule
	allowErr error
}

func (s *mockServer) GetID() string         { return s.id }
func (s *mockServer) GetName() string       { return s.name }
func (s *mockServer) GetPublicIPv4() string { return s.ipv4 }
func (s *mockServer) GetUserData() string   { return s.userData }

func (s *mockServer) GetAccessRules() []connector.AccessRule {
	return append([]connector.AccessRule(nil), s.rules...)
}

func (s *mockServer) AllowInbound(ctx context.Context, rule connector.AccessRule) error {
	if s.allowErr != nil {
		return s.allowErr
	}
	s.rules = append(s.rules, rule)
	return nil
}

func (s *mockServer) String() string { return s.name + " [" + s.ipv4 + "]" }
