package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contractx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/contract"
)

type recordingStore struct {
	err    error
	orders []contractx.Order
}

func (r *recordingStore) Append(_ context.Context, order contractx.Order) error {
	if r.err != nil {
		return r.err
	}
	r.orders = append(r.orders, order)
	return nil
}

type recordingNotifier struct {
	err    error
	orders []contractx.Order
}

func (r *recordingNotifier) Notify(_ context.Context, order contractx.Order) error {
	r.orders = append(r.orders, order)
	return r.err
}

func TestWithNotifierNilReturnsNext(t *testing.T) {
	t.Parallel()

	next := &recordingStore{}
	assert.Same(t, next, WithNotifier(next, nil))
}

func TestNotifyingStoreNotifiesAfterAppend(t *testing.T) {
	t.Parallel()

	next := &recordingStore{}
	notifier := &recordingNotifier{}
	store := WithNotifier(next, notifier)

	order := contractx.Order{Name: "Ana", CakeSize: "small", Celebration: "birthday", DueDate: "Friday"}
	require.NoError(t, store.Append(context.Background(), order))
	assert.Equal(t, []contractx.Order{order}, next.orders)
	assert.Equal(t, []contractx.Order{order}, notifier.orders)
}

func TestNotifyingStoreSkipsNotifyOnAppendFailure(t *testing.T) {
	t.Parallel()

	next := &recordingStore{err: contractx.ErrPersist}
	notifier := &recordingNotifier{}
	store := WithNotifier(next, notifier)

	err := store.Append(context.Background(), contractx.Order{Name: "Ana"})
	assert.ErrorIs(t, err, contractx.ErrPersist)
	assert.Empty(t, notifier.orders)
}

func TestNotifyingStoreIgnoresNotifyFailure(t *testing.T) {
	t.Parallel()

	next := &recordingStore{}
	notifier := &recordingNotifier{err: errors.New("qstash down")}
	store := WithNotifier(next, notifier)

	require.NoError(t, store.Append(context.Background(), contractx.Order{Name: "Ana"}))
	assert.Len(t, next.orders, 1)
}
