package state

import (
	"context"
	"errors"
	"strings"

	contractx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/contract"
)

var (
	ErrInvalidUser = errors.New("user id is empty")
	ErrBackend     = errors.New("session backend failed")
)

const defaultStoreKeyPrefix = "cakebot:transcript:"

// Store is the conversation state contract used by the orchestrator.
// Load never fails for an unknown user; it yields an empty transcript.
type Store interface {
	Load(ctx context.Context, userID string) (*Transcript, error)
	Append(ctx context.Context, userID string, ex contractx.Exchange) error
}

func normalizeUserID(userID string) (string, error) {
	id := strings.TrimSpace(userID)
	if id == "" {
		return "", ErrInvalidUser
	}
	return id, nil
}
