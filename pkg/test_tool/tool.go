package testtool

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
)

// SetupContainer 通用函式來啟動測試容器, return host and the mapped first exposed port
func SetupContainer(ctx context.Context, req testcontainers.ContainerRequest) (testcontainers.Container, string, string, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", "", err
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, "", "", err
	}

	natPort, err := nat.NewPort("tcp", strings.TrimSuffix(req.ExposedPorts[0], "/tcp"))
	if err != nil {
		return nil, "", "", err
	}

	port, err := container.MappedPort(ctx, natPort)
	if err != nil {
		return nil, "", "", err
	}

	return container, host, port.Port(), nil
}

// RequireDocker skip integration tests under -short or when no docker daemon answers
func RequireDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skip container test in -short mode")
	}
	if err := dockerHealth(context.Background()); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
}

// dockerHealth ping the docker provider, host lookup panics when no socket exists
func dockerHealth(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	provider, err := testcontainers.NewDockerProvider()
	if err != nil {
		return err
	}
	return provider.Health(ctx)
}

// StartContainer SetupContainer + cleanup bound to t
func StartContainer(t *testing.T, req testcontainers.ContainerRequest) (string, string) {
	t.Helper()
	RequireDocker(t)

	ctx := context.Background()
	container, host, port, err := SetupContainer(ctx, req)
	if err != nil {
		t.Fatalf("start %s: %v", req.Image, err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})
	return host, port
}
