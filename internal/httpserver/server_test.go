// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nerdam Contributors

package httpserver

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startServer(t *testing.T, graphqlHandler http.Handler) *Server {
	t.Helper()

	server := NewServer(Options{Addr: "127.0.0.1:0"}, graphqlHandler, testLogger())
	if _, err := server.Start(); err != nil {
		t.Fatalf("failed to start server: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Stop(ctx)
	})
	return server
}

func TestServer_RootGreeting(t *testing.T) {
	server := startServer(t, http.NotFoundHandler())

	resp, err := http.Get("http://" + server.Addr() + "/")
	if err != nil {
		t.Fatalf("failed to GET /: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	if string(body) != "hello" {
		t.Errorf("expected body 'hello', got %q", string(body))
	}
}

func TestServer_RoutesGraphQL(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"hello":"hello"}}`))
	})
	server := startServer(t, handler)

	resp, err := http.Post("http://"+server.Addr()+"/graphql", "application/json",
		strings.NewReader(`{"query":"{ hello }"}`))
	if err != nil {
		t.Fatalf("failed to POST /graphql: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	if !strings.Contains(string(body), `"hello"`) {
		t.Errorf("unexpected body: %q", string(body))
	}
}

func TestServer_GraphQLRejectsGet(t *testing.T) {
	server := startServer(t, http.NotFoundHandler())

	resp, err := http.Get("http://" + server.Addr() + "/graphql")
	if err != nil {
		t.Fatalf("failed to GET /graphql: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", resp.StatusCode)
	}
}

func TestServer_CORSAllowsConfiguredOrigin(t *testing.T) {
	server := NewServer(Options{
		Addr:           "127.0.0.1:0",
		AllowedOrigins: []string{"http://localhost:3000"},
	}, http.NotFoundHandler(), testLogger())
	if _, err := server.Start(); err != nil {
		t.Fatalf("failed to start server: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Stop(ctx)
	}()

	req, err := http.NewRequest(http.MethodOptions, "http://"+server.Addr()+"/graphql", nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight request failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("expected allowed origin echoed, got %q", got)
	}
	if got := resp.Header.Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("expected credentials allowed, got %q", got)
	}
}

func TestServer_DoubleStartFails(t *testing.T) {
	server := startServer(t, http.NotFoundHandler())

	if _, err := server.Start(); err == nil {
		t.Error("expected error on double start, got nil")
	}
}

func TestServer_StopIdempotent(t *testing.T) {
	server := NewServer(Options{Addr: "127.0.0.1:0"}, http.NotFoundHandler(), testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		t.Errorf("stop without start should not error: %v", err)
	}
}
