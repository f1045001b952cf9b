package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/contract"
	qstashx "github.com/tanpawarit/Chative-Cake-Order-Agent/pkg/qstash"
)

var ErrNotify = errors.New("order notification failed")

type publisher interface {
	PublishJSON(ctx context.Context, destination string, payload any) (qstashx.PublishResult, error)
}

// QStashNotifier publishes every committed order to the pastry chef's webhook through QStash.
type QStashNotifier struct {
	client      publisher
	destination string
}

var _ contractx.OrderNotifier = (*QStashNotifier)(nil)

func NewQStashNotifier(client *qstashx.Client, destination string) (*QStashNotifier, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: qstash client is nil", contractx.ErrValidation)
	}
	return newQStashNotifier(client, destination)
}

func newQStashNotifier(client publisher, destination string) (*QStashNotifier, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return nil, fmt.Errorf("%w: qstash destination is empty", contractx.ErrValidation)
	}
	return &QStashNotifier{client: client, destination: destination}, nil
}

func (n *QStashNotifier) Notify(ctx context.Context, order contractx.Order) error {
	res, err := n.client.PublishJSON(ctx, n.destination, order)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotify, err)
	}
	log.Info().Str("message_id", res.MessageID).Str("name", order.Name).Msg("order handed to qstash")
	return nil
}
