package channel

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

const (
	CommandStart = "start"
	CommandHelp  = "help"

	defaultMaxWorkers = 16
)

// Event is one inbound message from a chat transport.
type Event struct {
	UserID    string
	ChatID    int64
	MessageID int
	Command   string
	Text      string
}

// Handler produces the reply for one user message.
type Handler interface {
	HandleMessage(ctx context.Context, userID string, text string) (string, error)
}

// Sender delivers a reply back to where the event came from.
type Sender interface {
	Send(ctx context.Context, ev Event, text string) error
}

type Option func(*Dispatcher)

func WithMaxWorkers(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxWorkers = n
		}
	}
}

// Dispatcher runs turns for different users concurrently and for one user strictly in
// arrival order. Greeting commands are answered without reaching the handler.
type Dispatcher struct {
	handler  Handler
	greeting string

	maxWorkers int
	workers    *pool.Pool

	mu     sync.Mutex
	queues map[string]*userQueue
}

type userQueue struct {
	pending []queuedEvent
}

type queuedEvent struct {
	ctx    context.Context
	ev     Event
	sender Sender
}

func NewDispatcher(handler Handler, greeting string, opts ...Option) (*Dispatcher, error) {
	if handler == nil {
		return nil, errors.New("message handler is required")
	}
	greeting = strings.TrimSpace(greeting)
	if greeting == "" {
		return nil, errors.New("greeting is required")
	}

	d := &Dispatcher{
		handler:    handler,
		greeting:   greeting,
		maxWorkers: defaultMaxWorkers,
		queues:     make(map[string]*userQueue),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.workers = pool.New().WithMaxGoroutines(d.maxWorkers)
	return d, nil
}

// Respond computes the reply for ev on the calling goroutine.
func (d *Dispatcher) Respond(ctx context.Context, ev Event) (string, error) {
	if IsGreeting(ev) {
		return d.greeting, nil
	}
	return d.handler.HandleMessage(ctx, ev.UserID, ev.Text)
}

// Dispatch queues ev behind earlier events of the same user and returns. The reply is
// delivered through sender from a worker goroutine.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event, sender Sender) {
	d.mu.Lock()
	q, running := d.queues[ev.UserID]
	if !running {
		q = &userQueue{}
		d.queues[ev.UserID] = q
	}
	q.pending = append(q.pending, queuedEvent{ctx: ctx, ev: ev, sender: sender})
	d.mu.Unlock()

	if !running {
		d.workers.Go(func() { d.drain(ev.UserID) })
	}
}

// Wait blocks until every dispatched event has been answered. The dispatcher must not
// be used afterwards.
func (d *Dispatcher) Wait() {
	d.workers.Wait()
}

func (d *Dispatcher) drain(userID string) {
	for {
		d.mu.Lock()
		q := d.queues[userID]
		if len(q.pending) == 0 {
			delete(d.queues, userID)
			d.mu.Unlock()
			return
		}
		next := q.pending[0]
		q.pending = q.pending[1:]
		d.mu.Unlock()

		d.serve(next)
	}
}

func (d *Dispatcher) serve(item queuedEvent) {
	reply, err := d.Respond(item.ctx, item.ev)
	if err != nil {
		log.Warn().Err(err).Str("user_id", item.ev.UserID).Msg("message dropped")
		return
	}
	if err := item.sender.Send(item.ctx, item.ev, reply); err != nil {
		log.Error().Err(err).Str("user_id", item.ev.UserID).Msg("reply not delivered")
	}
}

func IsGreeting(ev Event) bool {
	return ev.Command == CommandStart || ev.Command == CommandHelp
}

// ParseCommand extracts a leading slash command such as "/start" or "/help@cakebot".
// It returns "" when text is not a command.
func ParseCommand(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	word := strings.Fields(text)[0][1:]
	if i := strings.IndexByte(word, '@'); i >= 0 {
		word = word[:i]
	}
	return strings.ToLower(word)
}
