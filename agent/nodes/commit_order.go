package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/contract"
	toolx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/tool"
)

// ParseOrder validates the invocation arguments and stamps the order with its owner.
func ParseOrder(in *TurnState, inv contractx.ToolInvocation) (contractx.Order, error) {
	if in == nil {
		return contractx.Order{}, fmt.Errorf("%w: turn state is nil", contractx.ErrValidation)
	}
	order, err := toolx.ParseRecordOrder(inv)
	if err != nil {
		return contractx.Order{}, err
	}
	order.UserID = in.UserID
	return order, nil
}

func CommitOrder(ctx context.Context, order contractx.Order, store contractx.OrderStore) error {
	if err := store.Append(ctx, order); err != nil {
		return fmt.Errorf("%w: %w", contractx.ErrPersist, err)
	}
	return nil
}
