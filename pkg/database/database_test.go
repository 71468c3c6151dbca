package database

import (
	"context"
	"net"
	"os"
	"testing"
	"time"

	"classifieds_service/pkg/logger"
	testtool "classifieds_service/pkg/test_tool"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestMain(m *testing.M) {
	logger.SetNewNop()
	os.Exit(m.Run())
}

func TestHealthServer(t *testing.T) {
	srv, hs := NewHealthServer("chat_service")
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = srv.Serve(lis) }()
	defer srv.Stop()

	conn, err := CreateGRPCClient(lis.Addr().String(), 5*time.Second)
	require.NoError(t, err)
	defer conn.Close()

	client := healthpb.NewHealthClient(conn)
	ctx := context.Background()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: "chat_service"})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.Status)

	hs.SetServingStatus("chat_service", healthpb.HealthCheckResponse_SERVING)
	resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{Service: "chat_service"})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}

func TestKafkaWriterUnreachable(t *testing.T) {
	_, err := NewKafkaWriterWithRetry(KafkaConnection{
		Brokers:    []string{"127.0.0.1:1"},
		Topic:      "chat.activity",
		RetryCount: 1,
	})
	assert.Error(t, err)
}

type cachedUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestRedisRepository(t *testing.T) {
	host, port := testtool.StartContainer(t, testcontainers.ContainerRequest{
		Image:        "redis:7",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	})
	client, err := NewRedisClient("", nil, host+":"+port, 0)
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	repo := NewRedisRepository[cachedUser](client, "test:user:")

	_, err = repo.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, repo.Set(ctx, "u1", cachedUser{ID: "u1", Name: "Ann"}, time.Minute))
	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)

	ttl, err := repo.GetTTL(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ttl > 0 && ttl <= 60)

	require.NoError(t, repo.ExtendTTL(ctx, "u1", 2*time.Minute))
	ttl, err = repo.GetTTL(ctx, "u1")
	require.NoError(t, err)
	assert.Greater(t, ttl, 60)

	require.NoError(t, repo.Del(ctx, "u1"))
	_, err = repo.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	raw, err := client.Exists(ctx, "test:user:u1").Result()
	require.NoError(t, err)
	assert.Zero(t, raw)
}
