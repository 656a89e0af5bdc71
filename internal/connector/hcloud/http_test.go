package hcloud

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/hetznercloud/hcloud-go/v2/hcloud/schema"
)

// testServer mocks the Hetzner Cloud API.
type testServer struct {
	server *httptest.Server
	mux    *http.ServeMux
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return &testServer{server: server, mux: mux}
}

func (ts *testServer) client() *hcloud.Client {
	return hcloud.NewClient(
		hcloud.WithToken("test-token"),
		hcloud.WithEndpoint(ts.server.URL),
	)
}

func (ts *testServer) connector(cfg Config) *Connector {
	return newConnector(ts.client(), cfg, testLogger(), false)
}

func (ts *testServer) handleFunc(pattern string, handler http.HandlerFunc) {
	ts.mux.HandleFunc(pattern, handler)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func jsonResponse(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func errorResponse(w http.ResponseWriter, statusCode int, code, message string) {
	jsonResponse(w, statusCode, map[string]interface{}{
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
	})
}

// serverCreateBody is the subset of the create-server wire format under test.
type serverCreateBody struct {
	Name             string            `json:"name"`
	ServerType       string            `json:"server_type"`
	Image            string            `json:"image"`
	Location         string            `json:"location"`
	UserData         string            `json:"user_data"`
	Networks         []int64           `json:"networks"`
	StartAfterCreate *bool             `json:"start_after_create"`
	Labels           map[string]string `json:"labels"`
	PublicNet        *struct {
		EnableIPv4 bool `json:"enable_ipv4"`
		EnableIPv6 bool `json:"enable_ipv6"`
	} `json:"public_net"`
}

type firewallRuleBody struct {
	Direction   string   `json:"direction"`
	SourceIPs   []string `json:"source_ips"`
	Protocol    string   `json:"protocol"`
	Port        *string  `json:"port"`
	Description *string  `json:"description"`
}

type firewallCreateBody struct {
	Name    string             `json:"name"`
	Labels  map[string]string  `json:"labels"`
	Rules   []firewallRuleBody `json:"rules"`
	ApplyTo []struct {
		Type   string `json:"type"`
		Server *struct {
			ID int64 `json:"id"`
		} `json:"server"`
	} `json:"apply_to"`
}

type setRulesBody struct {
	Rules []firewallRuleBody `json:"rules"`
}

func serverCreateResponse(id int64, name, ipv4 string) map[string]interface{} {
	return map[string]interface{}{
		"server": schema.Server{
			ID:   id,
			Name: name,
			PublicNet: schema.ServerPublicNet{
				IPv4: schema.ServerPublicNetIPv4{
					IP: ipv4,
				},
			},
		},
		"action": schema.Action{
			ID:      1,
			Command: "create_server",
			Status:  "running",
		},
		"next_actions": []schema.Action{},
	}
}

func firewallCreateResponse(id int64, name string) map[string]interface{} {
	return map[string]interface{}{
		"firewall": map[string]interface{}{
			"id":         id,
			"name":       name,
			"labels":     map[string]string{},
			"rules":      []interface{}{},
			"applied_to": []interface{}{},
		},
		"actions": []interface{}{},
	}
}
