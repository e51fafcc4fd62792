package grpc

import (
	"context"
	"fmt"
	"net"
	"sort"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Service names reported by the health server. The empty name is the overall
// status: SERVING only while every probe passes.
const (
	ServiceOverall   = ""
	ServiceWorkspace = "idleprofit.workspace"
	ServiceFeeds     = "idleprofit.feeds"
)

// Probe reports whether one part of the server can answer queries
type Probe func() bool

// HealthServer exposes the standard grpc.health.v1 service for `idleprofit serve`
type HealthServer struct {
	listener net.Listener
	server   *grpc.Server
	health   *health.Server
	probes   map[string]Probe

	mu      sync.Mutex
	serving map[string]bool
}

// NewHealthServer listens on address; every probe starts NOT_SERVING until the first Update
func NewHealthServer(address string, probes map[string]Probe) (*HealthServer, error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	s := &HealthServer{
		listener: listener,
		server:   grpc.NewServer(),
		health:   health.NewServer(),
		probes:   probes,
		serving:  make(map[string]bool, len(probes)),
	}
	healthpb.RegisterHealthServer(s.server, s.health)

	s.health.SetServingStatus(ServiceOverall, healthpb.HealthCheckResponse_NOT_SERVING)
	for name := range probes {
		s.health.SetServingStatus(name, healthpb.HealthCheckResponse_NOT_SERVING)
	}
	return s, nil
}

// Start serves in the background; errors after Shutdown are swallowed
func (s *HealthServer) Start() <-chan error {
	errChan := make(chan error, 1)
	go func() {
		if err := s.server.Serve(s.listener); err != nil && err != grpc.ErrServerStopped {
			errChan <- fmt.Errorf("gRPC health server error: %w", err)
		}
		close(errChan)
	}()
	return errChan
}

// Update runs every probe and publishes the statuses. It returns the names of the failing probes.
func (s *HealthServer) Update() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var failing []string
	for name, probe := range s.probes {
		ok := probe()
		s.serving[name] = ok
		s.health.SetServingStatus(name, statusOf(ok))
		if !ok {
			failing = append(failing, name)
		}
	}
	sort.Strings(failing)
	s.health.SetServingStatus(ServiceOverall, statusOf(len(failing) == 0))
	return failing
}

// Shutdown flips every service to NOT_SERVING and drains in-flight checks until ctx expires
func (s *HealthServer) Shutdown(ctx context.Context) error {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.server.Stop()
		return ctx.Err()
	}
}

// Addr returns the bound address, useful when listening on port 0
func (s *HealthServer) Addr() string {
	return s.listener.Addr().String()
}

func statusOf(ok bool) healthpb.HealthCheckResponse_ServingStatus {
	if ok {
		return healthpb.HealthCheckResponse_SERVING
	}
	return healthpb.HealthCheckResponse_NOT_SERVING
}
