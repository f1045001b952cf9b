package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/contract"
	statex "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/state"
)

func RecordExchange(ctx context.Context, in *TurnState, reply string, store statex.Store) error {
	if in == nil {
		return fmt.Errorf("%w: turn state is nil", contractx.ErrValidation)
	}
	if err := store.Append(ctx, in.UserID, contractx.Exchange{User: in.Text, Agent: reply}); err != nil {
		return fmt.Errorf("append exchange user=%s: %w", in.UserID, err)
	}
	return nil
}
