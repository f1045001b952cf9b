package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	contractx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/contract"
	qstashx "github.com/tanpawarit/Chative-Cake-Order-Agent/pkg/qstash"
)

func TestQStashNotifierPublishesOrder(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotOrder contractx.Order
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotOrder); err != nil {
			t.Errorf("unmarshal body error = %v", err)
		}
		_, _ = w.Write([]byte(`{"messageId":"msg_1"}`))
	}))
	defer server.Close()

	client, err := qstashx.NewClient(qstashx.Config{URL: server.URL, Token: "token", Retries: 1})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	notifier, err := NewQStashNotifier(client, "https://chef.example.com/orders")
	if err != nil {
		t.Fatalf("NewQStashNotifier() error = %v", err)
	}

	order := contractx.Order{UserID: "7", Name: "Ana", CakeSize: "big", Celebration: "wedding", DueDate: "Saturday"}
	if err := notifier.Notify(context.Background(), order); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	if gotPath != "/v2/publish/https://chef.example.com/orders" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotOrder != order {
		t.Fatalf("published order = %+v, want %+v", gotOrder, order)
	}
}

type failingPublisher struct{}

func (failingPublisher) PublishJSON(context.Context, string, any) (qstashx.PublishResult, error) {
	return qstashx.PublishResult{}, errors.New("status=500")
}

func TestQStashNotifierWrapsFailure(t *testing.T) {
	t.Parallel()

	notifier, err := newQStashNotifier(failingPublisher{}, "https://chef.example.com/orders")
	if err != nil {
		t.Fatalf("newQStashNotifier() error = %v", err)
	}

	err = notifier.Notify(context.Background(), contractx.Order{Name: "Ana"})
	if !errors.Is(err, ErrNotify) {
		t.Fatalf("Notify() error = %v, want ErrNotify", err)
	}
}

func TestNewQStashNotifierRequiresDestination(t *testing.T) {
	t.Parallel()

	if _, err := newQStashNotifier(failingPublisher{}, " "); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("newQStashNotifier() error = %v, want ErrValidation", err)
	}
	if _, err := NewQStashNotifier(nil, "https://chef.example.com"); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("NewQStashNotifier(nil) error = %v, want ErrValidation", err)
	}
}
