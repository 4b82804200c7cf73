package app

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"

	healthcheck "github.com/vladislavdragonenkov/acs/internal/health"
	"github.com/vladislavdragonenkov/acs/internal/version"
)

func TestStartMetricsServer_Endpoints(t *testing.T) {
	logger := log.WithField("test", "http")

	port := findFreePort(t)
	addr := fmt.Sprintf(":%d", port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	srv := startMetricsServer(ctx, addr, logger, healthHandler)
	defer shutdownHTTP(srv, logger)

	// Даём время на запуск
	time.Sleep(100 * time.Millisecond)

	resp := mustGet(t, fmt.Sprintf("http://localhost:%d/metrics", port))
	if resp.status != http.StatusOK {
		t.Errorf("expected status 200 for /metrics, got %d", resp.status)
	}
	if len(resp.body) == 0 {
		t.Error("/metrics should return non-empty response")
	}

	resp = mustGet(t, fmt.Sprintf("http://localhost:%d/healthz", port))
	if resp.status != http.StatusOK {
		t.Errorf("expected status 200 for /healthz, got %d", resp.status)
	}

	resp = mustGet(t, fmt.Sprintf("http://localhost:%d/livez", port))
	if resp.status != http.StatusOK {
		t.Errorf("expected status 200 for /livez, got %d", resp.status)
	}

	resp = mustGet(t, fmt.Sprintf("http://localhost:%d/readyz", port))
	if resp.status != http.StatusOK {
		t.Errorf("expected status 200 for /readyz, got %d", resp.status)
	}
}

func TestStartMetricsServer_UnhealthyChecker(t *testing.T) {
	logger := log.WithField("test", "http-unhealthy")

	port := findFreePort(t)
	addr := fmt.Sprintf(":%d", port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	healthHandler.RegisterChecker("storage", healthcheck.NewSimpleChecker("storage", func() error {
		return fmt.Errorf("storage is down")
	}))

	srv := startMetricsServer(ctx, addr, logger, healthHandler)
	defer shutdownHTTP(srv, logger)

	time.Sleep(100 * time.Millisecond)

	resp := mustGet(t, fmt.Sprintf("http://localhost:%d/healthz", port))
	if resp.status != http.StatusServiceUnavailable {
		t.Errorf("expected status 503 for /healthz, got %d", resp.status)
	}
}

func TestShutdownHTTP_NilServer(t *testing.T) {
	// Не должен паниковать.
	shutdownHTTP(nil, log.WithField("test", "shutdown"))
}

type httpResult struct {
	status int
	body   []byte
}

func mustGet(t *testing.T, url string) httpResult {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("failed to get %s: %v", url, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return httpResult{status: resp.StatusCode, body: body}
}

// findFreePort находит свободный порт для тестов
func findFreePort(t *testing.T) int {
	t.Helper()

	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	defer listener.Close()

	return listener.Addr().(*net.TCPAddr).Port
}
