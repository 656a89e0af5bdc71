package digitalocean

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/digitalocean/godo"
	"github.com/stretchr/testify/require"
)

// testServer mocks the DigitalOcean API.
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

func (ts *testServer) connector(t *testing.T) *Connector {
	t.Helper()
	client, err := godo.New(ts.server.Client(), godo.SetBaseURL(ts.server.URL+"/"))
	require.NoError(t, err)
	return newConnector(client, "ams3", testLogger(), false)
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

func errorResponse(w http.ResponseWriter, statusCode int, id, message string) {
	jsonResponse(w, statusCode, map[string]interface{}{
		"id":      id,
		"message": message,
	})
}

func dropletResponse(id int, name, ipv4 string) map[string]interface{} {
	v4 := []map[string]interface{}{}
	if ipv4 != "" {
		v4 = append(v4, map[string]interface{}{"ip_address": ipv4, "type": "public"})
	}
	return map[string]interface{}{
		"droplet": map[string]interface{}{
			"id":       id,
			"name":     name,
			"status":   "new",
			"networks": map[string]interface{}{"v4": v4},
		},
	}
}

// dropletCreateBody is the subset of the create-droplet wire format under test.
type dropletCreateBody struct {
	Name     string   `json:"name"`
	Region   string   `json:"region"`
	Size     string   `json:"size"`
	Image    string   `json:"image"`
	UserData string   `json:"user_data"`
	VPCUUID  string   `json:"vpc_uuid"`
	Tags     []string `json:"tags"`
}

type ruleBody struct {
	Protocol  string `json:"protocol"`
	PortRange string `json:"ports"`
	Sources   *struct {
		Addresses []string `json:"addresses"`
	} `json:"sources"`
}

type firewallCreateBody struct {
	Name          string     `json:"name"`
	InboundRules  []ruleBody `json:"inbound_rules"`
	OutboundRules []ruleBody `json:"outbound_rules"`
	DropletIDs    []int      `json:"droplet_ids"`
}

type addRulesBody struct {
	InboundRules []ruleBody `json:"inbound_rules"`
}
