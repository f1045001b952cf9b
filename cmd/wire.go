package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	orchestratorx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/agents/orchestrator"
	channelx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/channel"
	contractx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/contract"
	llmx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/llm"
	notifyx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/notify"
	ordersx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/orders"
	promptx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/prompt"
	statex "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/state"
	configx "github.com/tanpawarit/Chative-Cake-Order-Agent/pkg/config"
	postgresx "github.com/tanpawarit/Chative-Cake-Order-Agent/pkg/postgres"
	qstashx "github.com/tanpawarit/Chative-Cake-Order-Agent/pkg/qstash"
	redisx "github.com/tanpawarit/Chative-Cake-Order-Agent/pkg/redis"
)

const (
	backendMemory   = "memory"
	backendRedis    = "redis"
	backendUpstash  = "upstash"
	backendCSV      = "csv"
	backendPostgres = "postgres"
)

type AppConfig struct {
	SessionBackend    string        `envconfig:"SESSION_BACKEND" default:"memory"`
	SessionCapacity   int           `envconfig:"SESSION_CAPACITY" default:"10000"`
	SessionTTL        time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	OrdersBackend     string        `envconfig:"ORDERS_BACKEND" default:"csv"`
	OrdersFile        string        `envconfig:"ORDERS_FILE" default:"orders_file.csv"`
	QStashDestination string        `envconfig:"QSTASH_DESTINATION"`
	TurnTimeout       time.Duration `envconfig:"TURN_TIMEOUT" default:"60s"`
	MaxWorkers        int           `envconfig:"MAX_WORKERS" default:"16"`
}

func (c *AppConfig) Validate() error {
	c.SessionBackend = strings.ToLower(strings.TrimSpace(c.SessionBackend))
	switch c.SessionBackend {
	case backendMemory, backendRedis, backendUpstash:
	default:
		return fmt.Errorf("%w: unknown SESSION_BACKEND %q", contractx.ErrValidation, c.SessionBackend)
	}

	c.OrdersBackend = strings.ToLower(strings.TrimSpace(c.OrdersBackend))
	switch c.OrdersBackend {
	case backendCSV, backendPostgres:
	default:
		return fmt.Errorf("%w: unknown ORDERS_BACKEND %q", contractx.ErrValidation, c.OrdersBackend)
	}
	return nil
}

type app struct {
	orchestrator *orchestratorx.Orchestrator
	dispatcher   *channelx.Dispatcher
	closers      []func() error
}

// Close releases backends in reverse order of creation.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func wireApp(ctx context.Context) (_ *app, err error) {
	appCfg, err := configx.New[AppConfig]("")
	if err != nil {
		return nil, err
	}
	llmCfg, err := configx.New[llmx.Config]("LLM")
	if err != nil {
		return nil, err
	}
	if err := llmCfg.Probe(ctx); err != nil {
		return nil, err
	}

	a := &app{}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	chatModel, err := llmCfg.NewChatModel(ctx)
	if err != nil {
		return nil, err
	}

	sessions, err := a.wireSessions(ctx, appCfg)
	if err != nil {
		return nil, err
	}
	orders, err := a.wireOrders(ctx, appCfg)
	if err != nil {
		return nil, err
	}

	prompts := promptx.LoadPromptSet()
	a.orchestrator, err = orchestratorx.New(chatModel, sessions, orders, prompts,
		orchestratorx.WithTurnTimeout(appCfg.TurnTimeout),
		orchestratorx.WithCallbacks(llmx.NewCallbacks()),
	)
	if err != nil {
		return nil, err
	}

	a.dispatcher, err = channelx.NewDispatcher(a.orchestrator, prompts.Greeting, channelx.WithMaxWorkers(appCfg.MaxWorkers))
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("llm_provider", llmCfg.Provider).
		Str("sessions", appCfg.SessionBackend).
		Str("orders", appCfg.OrdersBackend).
		Bool("notify", appCfg.QStashDestination != "").
		Msg("cakebot wired")
	return a, nil
}

func (a *app) wireSessions(ctx context.Context, cfg *AppConfig) (statex.Store, error) {
	switch cfg.SessionBackend {
	case backendRedis:
		redisCfg, err := configx.New[redisx.Config]("REDIS")
		if err != nil {
			return nil, err
		}
		rdb, err := redisCfg.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.closers = append(a.closers, rdb.Close)
		return statex.NewRedisStore(rdb, cfg.SessionTTL), nil
	case backendUpstash:
		upstashCfg, err := configx.New[statex.UpstashRedisConfig]("UPSTASH_REDIS")
		if err != nil {
			return nil, err
		}
		return statex.NewUpstashRedisStore(*upstashCfg, statex.WithTTL(cfg.SessionTTL))
	default:
		return statex.NewMemoryStore(cfg.SessionCapacity, cfg.SessionTTL), nil
	}
}

func (a *app) wireOrders(ctx context.Context, cfg *AppConfig) (contractx.OrderStore, error) {
	var store contractx.OrderStore
	switch cfg.OrdersBackend {
	case backendPostgres:
		pgCfg, err := configx.New[postgresx.Config]("POSTGRES")
		if err != nil {
			return nil, err
		}
		db, err := pgCfg.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		store = ordersx.NewPostgresStore(db)
	default:
		csvStore, err := ordersx.NewCSVStore(cfg.OrdersFile, 0)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, csvStore.Close)
		store = csvStore
	}

	if strings.TrimSpace(cfg.QStashDestination) == "" {
		return store, nil
	}
	qstashCfg, err := configx.New[qstashx.Config]("QSTASH")
	if err != nil {
		return nil, err
	}
	client, err := qstashx.NewClient(*qstashCfg)
	if err != nil {
		return nil, err
	}
	notifier, err := notifyx.NewQStashNotifier(client, cfg.QStashDestination)
	if err != nil {
		return nil, err
	}
	return ordersx.WithNotifier(store, notifier), nil
}
