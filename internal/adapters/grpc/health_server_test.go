package grpc_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	grpcAdapter "github.com/andrescamacho/idleprofit-go/internal/adapters/grpc"
)

func newHealthClient(t *testing.T, addr string) healthpb.HealthClient {
	t.Helper()
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return healthpb.NewHealthClient(conn)
}

func check(t *testing.T, client healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestHealthServer_ReflectsProbes(t *testing.T) {
	// Arrange
	var loaded, feedsUp atomic.Bool
	feedsUp.Store(true)
	server, err := grpcAdapter.NewHealthServer("127.0.0.1:0", map[string]grpcAdapter.Probe{
		grpcAdapter.ServiceWorkspace: loaded.Load,
		grpcAdapter.ServiceFeeds:     feedsUp.Load,
	})
	require.NoError(t, err)
	server.Start()
	t.Cleanup(func() { _ = server.Shutdown(context.Background()) })
	client := newHealthClient(t, server.Addr())

	// Assert: nothing is serving before the first update
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, client, grpcAdapter.ServiceOverall))

	// Act
	failing := server.Update()

	// Assert
	assert.Equal(t, []string{grpcAdapter.ServiceWorkspace}, failing)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, grpcAdapter.ServiceFeeds))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, client, grpcAdapter.ServiceWorkspace))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, client, grpcAdapter.ServiceOverall))

	// Act: the workspace finishes loading
	loaded.Store(true)
	failing = server.Update()

	// Assert
	assert.Empty(t, failing)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, grpcAdapter.ServiceOverall))
}

func TestHealthServer_UnknownServiceIsNotFound(t *testing.T) {
	server, err := grpcAdapter.NewHealthServer("127.0.0.1:0", nil)
	require.NoError(t, err)
	server.Start()
	t.Cleanup(func() { _ = server.Shutdown(context.Background()) })
	client := newHealthClient(t, server.Addr())

	_, err = client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "nope"})

	require.Error(t, err)
}
