package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/contract"
	nodex "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/nodes"
	promptx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/prompt"
	statex "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/state"
	toolx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/tool"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidUser    = nodex.ErrInvalidUser
)

const defaultTurnTimeout = 60 * time.Second

type Option func(*Orchestrator)

// WithTurnTimeout bounds the model call of one turn. Zero or less disables the bound.
func WithTurnTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.turnTimeout = d
	}
}

func WithNow(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithCallbacks attaches eino callback handlers to every graph run.
func WithCallbacks(handlers ...einocb.Handler) Option {
	return func(o *Orchestrator) {
		o.callbacks = append(o.callbacks, handlers...)
	}
}

// Orchestrator runs one dialogue turn: load the transcript, ask the model with the
// record_order tool attached, then either store the order or relay the reply.
type Orchestrator struct {
	sessions statex.Store
	orders   contractx.OrderStore
	prompts  promptx.PromptSet

	graphRunner compose.Runnable[*nodex.TurnState, *schema.Message]

	turnTimeout time.Duration
	callbacks   []einocb.Handler
	now         func() time.Time
}

func New(
	chatModel einomodel.ToolCallingChatModel,
	sessions statex.Store,
	orders contractx.OrderStore,
	prompts promptx.PromptSet,
	opts ...Option,
) (*Orchestrator, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}
	if sessions == nil {
		return nil, errors.New("session store is required")
	}
	if orders == nil {
		return nil, errors.New("order store is required")
	}
	if err := prompts.Validate(); err != nil {
		return nil, err
	}

	o := &Orchestrator{
		sessions:    sessions,
		orders:      orders,
		prompts:     prompts,
		turnTimeout: defaultTurnTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	toolModel, err := chatModel.WithTools(toolx.Infos())
	if err != nil {
		return nil, fmt.Errorf("bind order tool: %w", err)
	}

	graphRunner, err := o.compileTurnGraph(context.Background(), toolModel)
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// HandleMessage answers one inbound message. Model, parse and storage failures become
// a reply; the error is only set when the request itself is invalid.
func (o *Orchestrator) HandleMessage(ctx context.Context, userID string, text string) (string, error) {
	in, err := nodex.ValidateRequest(nodex.GraphInput{UserID: userID, Text: text}, o.now)
	if err != nil {
		return "", err
	}

	msg, err := o.invoke(ctx, in)
	if err != nil {
		return o.fail(in, err), nil
	}

	decision, err := nodex.InterpretReply(msg)
	if err != nil {
		return o.fail(in, err), nil
	}

	if decision.IsCommit() {
		return o.commit(ctx, in, decision), nil
	}

	if err := nodex.RecordExchange(ctx, in, decision.Reply, o.sessions); err != nil {
		log.Warn().Err(err).Str("user_id", in.UserID).Msg("reply sent without saving the exchange")
	}
	return decision.Reply, nil
}

func (o *Orchestrator) invoke(ctx context.Context, in *nodex.TurnState) (*schema.Message, error) {
	if o.turnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.turnTimeout)
		defer cancel()
	}

	var opts []compose.Option
	if len(o.callbacks) > 0 {
		opts = append(opts, compose.WithCallbacks(o.callbacks...))
	}

	msg, err := o.graphRunner.Invoke(ctx, in, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", contractx.ErrModelInvoke, err)
	}
	return msg, nil
}

func (o *Orchestrator) commit(ctx context.Context, in *nodex.TurnState, decision nodex.Decision) string {
	if decision.Ignored > 0 {
		log.Warn().
			Str("user_id", in.UserID).
			Int("ignored", decision.Ignored).
			Msg("model returned several tool calls; only the first is used")
	}

	order, err := nodex.ParseOrder(in, *decision.Invocation)
	if err != nil {
		return o.fail(in, err)
	}

	if err := nodex.CommitOrder(ctx, order, o.orders); err != nil {
		log.Error().Err(err).Str("user_id", in.UserID).Str("name", order.Name).Msg("order could not be saved")
		return o.prompts.SaveFailure
	}

	log.Info().
		Str("user_id", in.UserID).
		Str("name", order.Name).
		Str("cake_size", order.CakeSize).
		Str("due_date", order.DueDate).
		Msg("order committed")
	return o.prompts.Confirmation(order.Name)
}

func (o *Orchestrator) fail(in *nodex.TurnState, err error) string {
	log.Error().Err(err).Str("user_id", in.UserID).Msg("turn failed")
	return o.prompts.Failure(err)
}
