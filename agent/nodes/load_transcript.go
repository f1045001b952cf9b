package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/contract"
	statex "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/state"
)

func LoadTranscript(ctx context.Context, in *TurnState, store statex.Store) (*TurnState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: turn state is nil", contractx.ErrValidation)
	}

	tr, err := store.Load(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("load transcript user=%s: %w", in.UserID, err)
	}
	if tr == nil {
		tr = statex.NewTranscript(in.UserID, in.Now)
	}
	in.Transcript = tr
	return in, nil
}
