package ops

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/meridian-sys/standalone/pkg/config"
)

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Read body failed: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestRouter_Healthz(t *testing.T) {
	srv := httptest.NewServer(NewRouter(nil))
	defer srv.Close()

	status, body := get(t, srv.URL+"/healthz")
	if status != http.StatusOK {
		t.Errorf("Expected 200, got %d", status)
	}
	if !strings.Contains(body, "ok") {
		t.Errorf("Expected ok body, got %q", body)
	}
}

func TestRouter_ReadyzFollowsReadiness(t *testing.T) {
	ready := false
	srv := httptest.NewServer(NewRouter(func() bool { return ready }))
	defer srv.Close()

	status, _ := get(t, srv.URL+"/readyz")
	if status != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 while not ready, got %d", status)
	}

	ready = true
	status, _ = get(t, srv.URL+"/readyz")
	if status != http.StatusOK {
		t.Errorf("Expected 200 once ready, got %d", status)
	}
}

func TestRouter_Metrics(t *testing.T) {
	srv := httptest.NewServer(NewRouter(nil))
	defer srv.Close()

	status, body := get(t, srv.URL+"/metrics")
	if status != http.StatusOK {
		t.Errorf("Expected 200, got %d", status)
	}
	// The Go runtime collectors are always registered.
	if !strings.Contains(body, "go_goroutines") {
		t.Error("Expected Prometheus metrics output")
	}
}

func TestServer_StartStopsOnContextCancel(t *testing.T) {
	srv := NewServer(config.OpsConfig{Port: 0}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Start(ctx)
	}()

	// Give the listener a moment to come up, then cancel.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Expected graceful stop, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancellation")
	}
}

func TestServer_StopIdempotent(t *testing.T) {
	srv := NewServer(config.OpsConfig{Port: 0}, nil)
	ctx := context.Background()

	if err := srv.Stop(ctx); err != nil {
		t.Fatalf("First Stop failed: %v", err)
	}
	if err := srv.Stop(ctx); err != nil {
		t.Fatalf("Second Stop failed: %v", err)
	}
}
