package openai

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Parallel()

	if client := NewClient(Config{APIKey: "   "}); client != nil {
		t.Fatal("expected nil client for blank api key")
	}
}

func TestProbeSuccess(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"gpt-4o-mini","object":"model","created":1,"owned_by":"openai"}`)
	}))
	t.Cleanup(server.Close)

	err := Probe(context.Background(), Config{
		BaseURL: server.URL,
		APIKey:  "sk-test",
		Model:   "gpt-4o-mini",
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if gotPath != "/models/gpt-4o-mini" {
		t.Fatalf("path = %q, want /models/gpt-4o-mini", gotPath)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("authorization = %q", gotAuth)
	}
}

func TestProbeUnauthorized(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"invalid api key","type":"invalid_request_error"}}`)
	}))
	t.Cleanup(server.Close)

	err := Probe(context.Background(), Config{
		BaseURL: server.URL,
		APIKey:  "sk-bad",
		Model:   "gpt-4o-mini",
		Timeout: 5 * time.Second,
	})
	if err == nil {
		t.Fatal("expected probe error")
	}
}

func TestProbeRequiresKey(t *testing.T) {
	t.Parallel()

	if err := Probe(context.Background(), Config{Model: "m"}); err == nil {
		t.Fatal("expected error for missing key")
	}
}
