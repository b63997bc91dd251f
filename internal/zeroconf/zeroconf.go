// Package zeroconf registers the NewsBoard control API as an mDNS/DNS-SD
// service so wall clients can find the daemon as newsboard.local.
package zeroconf

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/grandcat/zeroconf"

	"github.com/farleyman/newsboard-go/internal/models"
)

// Service manages mDNS service registration.
type Service struct {
	name    string // instance name / hostname, e.g. "newsboard"
	port    int
	backend string // player backend advertised in TXT
	server  *zeroconf.Server
}

// New creates a zeroconf Service that will advertise the API on the given
// port. name should be the hostname (e.g. "newsboard").
func New(name string, port int, backend string) *Service {
	return &Service{
		name:    name,
		port:    port,
		backend: backend,
	}
}

// Start registers the mDNS service and blocks until ctx is cancelled, at
// which point it shuts down the server cleanly.
func (s *Service) Start(ctx context.Context) error {
	txt := []string{
		"version=" + models.Version,
		"model=NewsBoard",
		"backend=" + s.backend,
	}

	server, err := zeroconf.Register(
		s.name,       // instance name
		"_http._tcp", // service type
		"local.",     // domain
		s.port,       // port
		txt,          // TXT records
		nil,          // ifaces — nil means all interfaces
	)
	if err != nil {
		return fmt.Errorf("zeroconf register: %w", err)
	}
	s.server = server
	slog.Info("zeroconf: registered mDNS service",
		"name", s.name,
		"port", s.port,
		"txt", txt,
	)

	<-ctx.Done()

	server.Shutdown()
	slog.Info("zeroconf: mDNS service unregistered")
	return nil
}
