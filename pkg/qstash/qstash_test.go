package qstash

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewClientValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(Config{URL: "", Token: "t"}); err == nil {
		t.Fatal("expected error for empty url")
	}
	if _, err := NewClient(Config{URL: "https://qstash.upstash.io", Token: "  "}); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestPublishJSON(t *testing.T) {
	t.Parallel()

	var (
		gotPath    string
		gotAuth    string
		gotRetries string
		gotBody    map[string]string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotRetries = r.Header.Get("Upstash-Retries")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		fmt.Fprint(w, `{"messageId":"msg_1"}`)
	}))
	t.Cleanup(server.Close)

	client := MustNew(Config{URL: server.URL, Token: "token", Retries: 2})
	res, err := client.PublishJSON(context.Background(), "https://chef.example.com/orders", map[string]string{"name": "Ana"})
	if err != nil {
		t.Fatalf("PublishJSON() error = %v", err)
	}
	if res.MessageID != "msg_1" {
		t.Fatalf("message id = %q", res.MessageID)
	}
	if gotPath != "/v2/publish/https://chef.example.com/orders" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotAuth != "Bearer token" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if gotRetries != "2" {
		t.Fatalf("retries header = %q", gotRetries)
	}
	if gotBody["name"] != "Ana" {
		t.Fatalf("body = %#v", gotBody)
	}
}

func TestPublishJSONHTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"unauthorized"}`)
	}))
	t.Cleanup(server.Close)

	client := MustNew(Config{URL: server.URL, Token: "token"})
	if _, err := client.PublishJSON(context.Background(), "https://chef.example.com/orders", map[string]string{}); err == nil {
		t.Fatal("expected error on 401")
	}
}

func TestPublishJSONRequiresDestination(t *testing.T) {
	t.Parallel()

	client := MustNew(Config{URL: "https://qstash.upstash.io", Token: "token"})
	if _, err := client.PublishJSON(context.Background(), " ", nil); err == nil {
		t.Fatal("expected error for empty destination")
	}
}
