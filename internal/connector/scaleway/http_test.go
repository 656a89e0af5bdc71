package scaleway

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/scaleway/scaleway-sdk-go/scw"
	"github.com/stretchr/testify/require"
)

const (
	zonePath    = "/instance/v1/zones/fr-par-1"
	testImageID = "55555555-5555-5555-5555-555555555555"
)

// testServer mocks the Scaleway Instance API and records every call.
type testServer struct {
	server *httptest.Server
	mux    *http.ServeMux

	mu    sync.Mutex
	calls []string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{mux: http.NewServeMux()}
	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		ts.calls = append(ts.calls, r.Method+" "+strings.TrimPrefix(r.URL.Path, zonePath))
		ts.mu.Unlock()
		ts.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) connector(t *testing.T) *Connector {
	t.Helper()
	cfg := testConfig()
	client, err := scw.NewClient(
		scw.WithAuth(cfg.AccessKey, cfg.SecretKey),
		scw.WithDefaultOrganizationID(cfg.OrganizationID),
		scw.WithDefaultProjectID(cfg.ProjectID),
		scw.WithDefaultZone(cfg.Zone),
		scw.WithAPIURL(ts.server.URL),
		scw.WithHTTPClient(ts.server.Client()),
	)
	require.NoError(t, err)
	return newConnector(client, cfg, testLogger(), false)
}

func (ts *testServer) handleFunc(pattern string, handler http.HandlerFunc) {
	ts.mux.HandleFunc(pattern, handler)
}

func (ts *testServer) recordedCalls() []string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]string(nil), ts.calls...)
}

// useImageID maps the default image family to an image ID. Image labels are
// resolved through the marketplace API, which the mock does not serve.
func useImageID(t *testing.T) {
	t.Helper()
	orig := images["ubuntu-lts"]
	images["ubuntu-lts"] = testImageID
	t.Cleanup(func() { images["ubuntu-lts"] = orig })
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func jsonResponse(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func errorResponse(w http.ResponseWriter, statusCode int, errType, message string) {
	jsonResponse(w, statusCode, map[string]interface{}{
		"type":    errType,
		"message": message,
	})
}

func decodeBody(t *testing.T, r *http.Request, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(r.Body).Decode(v))
}

// Wire-format subsets under test.

type serverCreateBody struct {
	Name              string   `json:"name"`
	CommercialType    string   `json:"commercial_type"`
	Image             string   `json:"image"`
	DynamicIPRequired *bool    `json:"dynamic_ip_required"`
	SecurityGroup     string   `json:"security_group"`
	Tags              []string `json:"tags"`
}

type ipCreateBody struct {
	Project string `json:"project"`
	Type    string `json:"type"`
	Server  string `json:"server"`
}

type privateNICBody struct {
	PrivateNetworkID string `json:"private_network_id"`
}

type serverActionBody struct {
	Action string `json:"action"`
}

type ruleCreateBody struct {
	Protocol     string  `json:"protocol"`
	Direction    string  `json:"direction"`
	Action       string  `json:"action"`
	IPRange      string  `json:"ip_range"`
	DestPortFrom *uint32 `json:"dest_port_from"`
	DestPortTo   *uint32 `json:"dest_port_to"`
}
