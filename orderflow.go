// Package orderflow is a client SDK for the food-ordering API: browse
// the menu, accumulate a cart, submit a two-phase checkout, and read
// back order history and detail.
//
// The smallest useful setup:
//
//	app, err := orderflow.New(core.WithBaseURL("http://localhost:8080"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer app.Close()
//
//	items, _ := app.Menu.Available(ctx)
//	app.Cart.AddItem(items[0])
//	orderID, err := app.Checkout.Submit(ctx, tip, payment)
package orderflow

import (
	"context"
	"time"

	"github.com/foodworks/orderflow/cart"
	"github.com/foodworks/orderflow/checkout"
	"github.com/foodworks/orderflow/client"
	"github.com/foodworks/orderflow/core"
	"github.com/foodworks/orderflow/menu"
	"github.com/foodworks/orderflow/orders"
	"github.com/foodworks/orderflow/telemetry"
)

// App aggregates the ordering components over one configuration. The
// cart store is explicitly owned here and handed to every consumer;
// there is no ambient global cart.
type App struct {
	Config   *core.Config
	Logger   core.Logger
	API      *client.Client
	Cart     *cart.MemoryStore
	Menu     *menu.Lookup
	Checkout *checkout.Orchestrator
	Orders   *orders.Assembler
	History  *orders.History

	// Sessions is non-nil when a redis URL is configured; it persists
	// cart snapshots for session resumption.
	Sessions *cart.RedisSessionStore

	telemetry core.Telemetry
	detach    func()
}

// New builds a fully wired App from configuration options.
func New(opts ...core.Option) (*App, error) {
	cfg, err := core.NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	logger := core.NewSimpleLogger(cfg.Logging.Level)

	var tel core.Telemetry = &core.NoOpTelemetry{}
	if cfg.Telemetry.Enabled {
		provider, err := telemetry.NewProvider(cfg.Telemetry, cfg.Name)
		if err != nil {
			return nil, err
		}
		tel = provider
	}

	api := client.New(cfg.BaseURL,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithLogger(logger),
	)

	store := cart.NewMemoryStore()
	store.SetLogger(logger)

	lookup := menu.NewLookup(api, cfg.Menu.CacheTTL)
	lookup.SetLogger(logger)

	orch := checkout.New(store, api,
		checkout.WithLogger(logger),
		checkout.WithTelemetry(tel),
		checkout.WithTimeout(cfg.RequestTimeout),
		checkout.WithCompensation(cfg.Checkout.Compensate),
	)

	assembler := orders.NewAssembler(api, lookup)
	assembler.SetLogger(logger)
	assembler.SetTelemetry(tel)

	history := orders.NewHistory(api)
	history.SetLogger(logger)

	app := &App{
		Config:    cfg,
		Logger:    logger,
		API:       api,
		Cart:      store,
		Menu:      lookup,
		Checkout:  orch,
		Orders:    assembler,
		History:   history,
		telemetry: tel,
	}

	if cfg.Session.RedisURL != "" {
		sessions, err := cart.NewRedisSessionStore(cfg.Session.RedisURL, cfg.Session.TTL)
		if err != nil {
			return nil, err
		}
		sessions.SetLogger(logger)
		app.Sessions = sessions
	}

	return app, nil
}

// ResumeSession restores a previously saved cart into the store and
// keeps the session's saved copy in sync with further mutations.
// Without a session store it only returns the id unchanged.
func (a *App) ResumeSession(ctx context.Context, sessionID string) (string, error) {
	if a.Sessions == nil {
		return sessionID, nil
	}
	if sessionID == "" {
		sessionID = a.Sessions.NewSessionID()
	} else {
		lines, err := a.Sessions.Load(ctx, sessionID)
		if err != nil {
			return sessionID, err
		}
		if len(lines) > 0 {
			a.Cart.Restore(lines)
		}
	}

	if a.detach != nil {
		a.detach()
	}
	a.detach = a.Sessions.Attach(a.Cart, sessionID)
	return sessionID, nil
}

// Close releases session storage and flushes telemetry.
func (a *App) Close() error {
	if a.detach != nil {
		a.detach()
		a.detach = nil
	}

	var firstErr error
	if a.Sessions != nil {
		if err := a.Sessions.Close(); err != nil {
			firstErr = err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.telemetry.Shutdown(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
