package hcloud

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/alex-sviridov/webserver/internal/connector"
	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

type Server struct {
	id        int64
	name      string
	ipv4      string
	userData  string
	labels    map[string]string
	rules     []connector.AccessRule
	firewall  *hcloud.Firewall
	connector *Connector
	log       *slog.Logger
}

func newServer(server *hcloud.Server, req connector.CreateServerRequest, conn *Connector, log *slog.Logger) *Server {
	var ipv4 string
	if server.PublicNet.IPv4.IP != nil {
		ipv4 = server.PublicNet.IPv4.IP.String()
	}
	return &Server{
		id:        server.ID,
		name:      server.Name,
		ipv4:      ipv4,
		userData:  req.UserData,
		labels:    req.Labels,
		connector: conn,
		log:       log,
	}
}

func (s *Server) GetID() string {
	return strconv.FormatInt(s.id, 10)
}

func (s *Server) GetName() string {
	return s.name
}

func (s *Server) GetPublicIPv4() string {
	return s.ipv4
}

func (s *Server) GetUserData() string {
	return s.userData
}

func (s *Server) GetAccessRules() []connector.AccessRule {
	rules := make([]connector.AccessRule, len(s.rules))
	copy(rules, s.rules)
	return rules
}

func (s *Server) String() string {
	return fmt.Sprintf("%v [%v]", s.name, s.ipv4)
}

var _ connector.Server = (*Server)(nil)
