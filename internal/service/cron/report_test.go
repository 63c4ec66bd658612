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
)

func TestReportWorker_GenerateOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"crmReport":{"totalCustomers":12,"totalOrders":7,"totalRevenue":"1039.97"}}}`))
	}))
	defer server.Close()

	logPath := filepath.Join(t.TempDir(), "report.txt")
	worker := NewReportWorker(
		NewGraphQLClient(server.URL, time.Second),
		WithReportLogger(testLogger()),
		WithReportLogPath(logPath),
		WithReportClock(fixedClock()),
	)

	worker.GenerateOnce(context.Background())

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read report log: %v", err)
	}
	want := "2025-03-01 14:30:45 - Report: 12 customers, 7 orders, 1039.97 revenue.\n"
	if string(content) != want {
		t.Errorf("log = %q, want %q", content, want)
	}
}

func TestReportWorker_GenerateOnceEndpointError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"errors":[{"message":"boom"}]}`))
	}))
	defer server.Close()

	logPath := filepath.Join(t.TempDir(), "report.txt")
	worker := NewReportWorker(
		NewGraphQLClient(server.URL, time.Second),
		WithReportLogger(testLogger()),
		WithReportLogPath(logPath),
		WithReportClock(fixedClock()),
	)

	worker.GenerateOnce(context.Background())

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read report log: %v", err)
	}
	line := string(content)
	if !strings.HasPrefix(line, "[2025-03-01 14:30:45] ERROR generating report:") {
		t.Errorf("unexpected log line: %q", line)
	}
}

func TestReportWorker_RunStopsOnCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"crmReport":{"totalCustomers":0,"totalOrders":0,"totalRevenue":"0.00"}}}`))
	}))
	defer server.Close()

	logPath := filepath.Join(t.TempDir(), "report.txt")
	worker := NewReportWorker(
		NewGraphQLClient(server.URL, time.Second),
		WithReportLogger(testLogger()),
		WithReportLogPath(logPath),
		WithReportInterval(5*time.Millisecond),
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
		t.Fatal("report worker did not stop on context cancel")
	}
}
