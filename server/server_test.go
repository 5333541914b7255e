package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/otelfunc/component"
	"github.com/kbukum/otelfunc/logger"
	"github.com/kbukum/otelfunc/server/endpoint"
)

func quietLogger() *logger.Logger {
	return logger.NewWithWriter(&logger.Config{Level: "error"}, "test", io.Discard)
}

func TestConfigApplyDefaults(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		port     int
		wantPort int
	}{
		{name: "default port", env: "", wantPort: DefaultPort},
		{name: "port from functions host", env: "7071", wantPort: 7071},
		{name: "invalid env ignored", env: "not-a-port", wantPort: DefaultPort},
		{name: "explicit port wins", env: "7071", port: 9000, wantPort: 9000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(PortEnv, tt.env)
			cfg := Config{Port: tt.port}
			cfg.ApplyDefaults()

			if cfg.Port != tt.wantPort {
				t.Errorf("expected port %d, got %d", tt.wantPort, cfg.Port)
			}
			if cfg.ReadTimeout != 15 || cfg.WriteTimeout != 15 {
				t.Errorf("expected 15s read/write timeouts, got %d/%d", cfg.ReadTimeout, cfg.WriteTimeout)
			}
			if cfg.IdleTimeout != 60 {
				t.Errorf("expected idle timeout 60, got %d", cfg.IdleTimeout)
			}
			if cfg.ShutdownTimeout != 5 {
				t.Errorf("expected shutdown timeout 5, got %d", cfg.ShutdownTimeout)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	valid := Config{Port: 8080}
	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	invalid := Config{Port: 70000}
	err := invalid.Validate()
	if err == nil {
		t.Fatal("expected error for out of range port")
	}
	if !strings.Contains(err.Error(), "port") {
		t.Errorf("expected error to name the port field, got %v", err)
	}
}

func TestServerStartStop(t *testing.T) {
	srv := New(Config{Host: "127.0.0.1", Port: 0, ShutdownTimeout: 1}, quietLogger())
	srv.ApplyMiddleware()
	srv.GinEngine().GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	comp := NewComponent(srv)
	ctx := context.Background()

	if h := comp.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}

	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !srv.Running() {
		t.Fatal("expected server to be running")
	}
	if h := comp.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy while serving, got %s", h.Status)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + srv.Addr() + "/ping")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "pong" {
		t.Errorf("expected 'pong', got %q", string(body))
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Error("expected request ID header from middleware")
	}

	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if srv.Running() {
		t.Error("expected server to be stopped")
	}
	if h := comp.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy after stop, got %s", h.Status)
	}
}

func TestServerStartPortInUse(t *testing.T) {
	first := New(Config{Host: "127.0.0.1", Port: 0}, quietLogger())
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer first.Stop(context.Background())

	_, port, _ := strings.Cut(first.Addr(), ":")
	second := New(Config{Host: "127.0.0.1"}, quietLogger())
	second.httpServer.Addr = "127.0.0.1:" + port

	if err := second.Start(context.Background()); err == nil {
		_ = second.Stop(context.Background())
		t.Fatal("expected bind error for port in use")
	}
}

func TestRegisterDefaultEndpoints(t *testing.T) {
	srv := New(Config{}, quietLogger())
	checker := func(context.Context) []component.Health {
		return []component.Health{{Name: "telemetry", Status: component.StatusHealthy}}
	}
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "requests_total 1\n")
	})
	srv.RegisterDefaultEndpoints("otel-azure-function", checker, metrics)

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/health", http.NoBody))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 from /health, got %d", rr.Code)
	}
	var health endpoint.HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &health); err != nil {
		t.Fatalf("invalid health JSON: %v", err)
	}
	if len(health.Components) != 1 || health.Components[0].Name != "telemetry" {
		t.Errorf("expected telemetry component in health, got %+v", health.Components)
	}

	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", http.NoBody))
	if !strings.Contains(rr.Body.String(), "requests_total") {
		t.Errorf("expected metrics body, got %q", rr.Body.String())
	}

	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/version", http.NoBody))
	if rr.Code != http.StatusOK {
		t.Errorf("expected 200 from /version, got %d", rr.Code)
	}
}

func TestRegisterDefaultEndpointsWithoutMetrics(t *testing.T) {
	srv := New(Config{}, quietLogger())
	srv.RegisterDefaultEndpoints("otel-azure-function", nil, nil)

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", http.NoBody))
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 without metrics handler, got %d", rr.Code)
	}
}
