package clipboard_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/clipboardhq/clipboard/pkg/accountsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for account service end-to-end
 * tests: container setup, service operations, and assertions.
 */

const (
	testImageName = "clipboard-account-test:latest"

	testAccessSecret  = "e2e-access-secret"
	testRefreshSecret = "e2e-refresh-secret"
)

// TestMain builds the Docker image once before all tests and cleans it
// up after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building account service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up account service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/clipboard/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Image might not exist
}

// setupAccountContainer starts the account service in a container and
// returns the base URL. Rate limits are raised so rapid test requests
// don't trip the production defaults.
func setupAccountContainer(t *testing.T) (string, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env: map[string]string{
			"JWT_ACCESS_SECRET":  testAccessSecret,
			"JWT_REFRESH_SECRET": testRefreshSecret,
			"DATABASE_FILE":      "/clipboard.db",
			"PEPPER_FILE":        "/pepper",
			"FRONTEND_URL":       "http://frontend.test",
			"ENV":                "test",
			"LOG_LEVEL":          "info",
			"LOG_FORMAT":         "json",
			"RATELIMIT_STRICT_REQUESTS":   "1000",
			"RATELIMIT_STRICT_WINDOW_SEC": "60",
			"RATELIMIT_STRICT_BURST":      "1000",
			"RATELIMIT_MODERATE_REQUESTS": "1000",
			"RATELIMIT_MODERATE_BURST":    "1000",
		},
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

// setupAccountContainerWithDefaultRateLimits starts the service with
// production rate limits for the rate limiting tests.
func setupAccountContainerWithDefaultRateLimits(t *testing.T) (string, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env: map[string]string{
			"JWT_ACCESS_SECRET":  testAccessSecret,
			"JWT_REFRESH_SECRET": testRefreshSecret,
			"DATABASE_FILE":      "/clipboard.db",
			"PEPPER_FILE":        "/pepper",
			"FRONTEND_URL":       "http://frontend.test",
			"ENV":                "test",
			"LOG_LEVEL":          "info",
			"LOG_FORMAT":         "json",
		},
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

func newSDKClient(t *testing.T, baseURL string) *accountsdk.Client {
	t.Helper()
	client, err := accountsdk.NewClient(baseURL)
	require.NoError(t, err)
	return client
}
