package orchestratornode

import (
	"errors"
	"strings"
	"time"

	statex "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/state"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidUser    = statex.ErrInvalidUser
)

type GraphInput struct {
	UserID string
	Text   string
}

// TurnState carries one user turn through the prompt graph.
type TurnState struct {
	UserID string
	Text   string
	Now    time.Time

	Transcript *statex.Transcript
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*TurnState, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return nil, ErrInvalidUser
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &TurnState{
		UserID: userID,
		Text:   text,
		Now:    nowFn().UTC(),
	}, nil
}
