package cron

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
)

func testLogger() *log.Entry {
	logger := log.New()
	logger.SetLevel(log.ErrorLevel)
	return logger.WithField("component", "cron-test")
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, 3, 1, 14, 30, 45, 0, time.UTC)
	}
}

func TestHeartbeatWorker_Beat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"hello":"Hello, GraphQL!"}}`))
	}))
	defer server.Close()

	logPath := filepath.Join(t.TempDir(), "heartbeat.txt")
	worker := NewHeartbeatWorker(
		NewGraphQLClient(server.URL, time.Second),
		WithHeartbeatLogger(testLogger()),
		WithHeartbeatLogPath(logPath),
		WithHeartbeatClock(fixedClock()),
	)

	worker.Beat(context.Background())

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read heartbeat log: %v", err)
	}
	want := "01/03/2025-14:30:45 CRM is alive (GraphQL endpoint is responsive).\n"
	if string(content) != want {
		t.Errorf("log = %q, want %q", content, want)
	}
}

func TestHeartbeatWorker_BeatEndpointDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	logPath := filepath.Join(t.TempDir(), "heartbeat.txt")
	worker := NewHeartbeatWorker(
		NewGraphQLClient(server.URL, time.Second),
		WithHeartbeatLogger(testLogger()),
		WithHeartbeatLogPath(logPath),
		WithHeartbeatClock(fixedClock()),
	)

	worker.Beat(context.Background())

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read heartbeat log: %v", err)
	}
	line := string(content)
	if !strings.HasPrefix(line, "01/03/2025-14:30:45 CRM is alive (GraphQL endpoint is unreachable or query failed:") {
		t.Errorf("unexpected log line: %q", line)
	}
}

func TestHeartbeatWorker_BeatAppends(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"hello":"Hello, GraphQL!"}}`))
	}))
	defer server.Close()

	logPath := filepath.Join(t.TempDir(), "heartbeat.txt")
	worker := NewHeartbeatWorker(
		NewGraphQLClient(server.URL, time.Second),
		WithHeartbeatLogger(testLogger()),
		WithHeartbeatLogPath(logPath),
		WithHeartbeatClock(fixedClock()),
	)

	worker.Beat(context.Background())
	worker.Beat(context.Background())

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read heartbeat log: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	if len(lines) != 2 {
		t.Errorf("log has %d lines, want 2", len(lines))
	}
}

func TestHeartbeatWorker_RunStopsOnCancel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "heartbeat.txt")
	worker := NewHeartbeatWorker(
		nil,
		WithHeartbeatLogger(testLogger()),
		WithHeartbeatLogPath(logPath),
		WithHeartbeatInterval(5*time.Millisecond),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Run(ctx)
	}()

	time.Sleep(15 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("heartbeat worker did not stop on context cancel")
	}
}
