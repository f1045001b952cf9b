package state

import (
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/contract"
)

// Transcript is the ordered dialogue history of one user.
type Transcript struct {
	UserID    string               `json:"user_id"`
	Exchanges []contractx.Exchange `json:"exchanges,omitempty"`
	UpdatedAt time.Time            `json:"updated_at"`
}

func NewTranscript(userID string, now time.Time) *Transcript {
	return &Transcript{
		UserID:    userID,
		Exchanges: make([]contractx.Exchange, 0, 8),
		UpdatedAt: now.UTC(),
	}
}

func (t *Transcript) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Exchanges)
}

// Clone returns a copy that shares nothing with t.
func (t *Transcript) Clone() *Transcript {
	if t == nil {
		return nil
	}
	out := *t
	out.Exchanges = append(make([]contractx.Exchange, 0, len(t.Exchanges)), t.Exchanges...)
	return &out
}

// Render formats the history as prompt context, oldest exchange first.
func (t *Transcript) Render() string {
	if t.Len() == 0 {
		return ""
	}

	var b strings.Builder
	for i, ex := range t.Exchanges {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("Client: ")
		b.WriteString(strings.TrimSpace(ex.User))
		b.WriteString("\nAssistant: ")
		b.WriteString(strings.TrimSpace(ex.Agent))
	}
	return b.String()
}
