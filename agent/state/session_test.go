package state

import (
	"testing"
	"time"

	contractx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/contract"
)

func TestTranscriptRender(t *testing.T) {
	t.Parallel()

	tr := NewTranscript("u1", time.Now())
	if got := tr.Render(); got != "" {
		t.Fatalf("Render() on empty transcript = %q, want empty", got)
	}

	tr.Exchanges = append(tr.Exchanges,
		contractx.Exchange{User: "hi", Agent: "Hello! What is your name?"},
		contractx.Exchange{User: " Ana ", Agent: "Nice to meet you, Ana."},
	)
	want := "Client: hi\nAssistant: Hello! What is your name?\nClient: Ana\nAssistant: Nice to meet you, Ana."
	if got := tr.Render(); got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

func TestTranscriptCloneIsIndependent(t *testing.T) {
	t.Parallel()

	tr := NewTranscript("u1", time.Now())
	tr.Exchanges = append(tr.Exchanges, contractx.Exchange{User: "a", Agent: "b"})

	cp := tr.Clone()
	cp.Exchanges = append(cp.Exchanges, contractx.Exchange{User: "c", Agent: "d"})
	cp.Exchanges[0].User = "changed"

	if tr.Len() != 1 || tr.Exchanges[0].User != "a" {
		t.Fatalf("source transcript mutated through clone: %#v", tr.Exchanges)
	}
}
