package contract

import "context"

// OrderStore is the append-only sink for committed orders.
type OrderStore interface {
	Append(ctx context.Context, order Order) error
}

// OrderNotifier hands a committed order to whoever bakes it.
type OrderNotifier interface {
	Notify(ctx context.Context, order Order) error
}
