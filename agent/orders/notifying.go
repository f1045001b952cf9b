package orders

import (
	"context"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/contract"
)

// NotifyingStore forwards each stored order to a notifier. The order is already durable
// when the notifier runs, so a notify failure is only logged.
type NotifyingStore struct {
	next     contractx.OrderStore
	notifier contractx.OrderNotifier
}

var _ contractx.OrderStore = (*NotifyingStore)(nil)

func WithNotifier(next contractx.OrderStore, notifier contractx.OrderNotifier) contractx.OrderStore {
	if notifier == nil {
		return next
	}
	return &NotifyingStore{next: next, notifier: notifier}
}

func (s *NotifyingStore) Append(ctx context.Context, order contractx.Order) error {
	if err := s.next.Append(ctx, order); err != nil {
		return err
	}
	if err := s.notifier.Notify(ctx, order); err != nil {
		log.Warn().Err(err).Str("user_id", order.UserID).Str("name", order.Name).Msg("order stored but notification failed")
	}
	return nil
}
