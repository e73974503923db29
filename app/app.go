// Package app assembles the shop bot: configuration, catalog source,
// session store, conversation machine, order dispatch and the Telegram
// routing tables.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"dokonbot/catalog"
	"dokonbot/core/bootstrap"
	"dokonbot/core/logger"
	coretelegram "dokonbot/core/telegram"
	"dokonbot/core/telegram/commands"
	"dokonbot/core/telegram/middleware"
	"dokonbot/core/telegram/router"
	"dokonbot/orders"
	"dokonbot/session"
	"dokonbot/shop"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"
)

// App holds the composed application.
type App struct {
	cfg      *Config
	db       *sqlx.DB
	store    *session.Store
	source   catalog.Source
	notifier *adminNotifier
	orders   *orders.Dispatcher
	machine  *shop.Machine
}

// adminNotifier delivers order notifications to the configured admin chat.
// The bot handle becomes available only once the runtime has started.
type adminNotifier struct {
	adminID int64
	bot     atomic.Pointer[tele.Bot]
}

func (n *adminNotifier) NotifyAdmin(_ context.Context, text string) error {
	b := n.bot.Load()
	if b == nil {
		return errors.New("app: bot not started")
	}
	_, err := b.Send(&tele.User{ID: n.adminID}, text)
	return err
}

// Bootstrap initializes logging, the optional history database and the
// domain components.
func Bootstrap(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config provided")
	}

	var db *sqlx.DB
	if cfg.HistoryEnabled() {
		res, err := bootstrap.Run(bootstrap.Options{
			Config:   cfg.CoreConfig(),
			Database: cfg.Database,
		})
		if err != nil {
			return nil, err
		}
		db = res.DB
	} else {
		if err := logger.InitLogger(cfg.CoreConfig()); err != nil {
			return nil, fmt.Errorf("app: logger init failed: %w", err)
		}
		logger.L.With("component", "app").Info("order history disabled",
			slog.String("event", "history.disabled"),
		)
	}

	notifier := &adminNotifier{adminID: cfg.Telegram.AdminID}
	dispatcher := orders.NewDispatcher(notifier, orders.NewRepo(db))
	store := session.NewStore()
	source := catalog.NewFileSource(cfg.Catalog.Path)

	return &App{
		cfg:      cfg,
		db:       db,
		store:    store,
		source:   source,
		notifier: notifier,
		orders:   dispatcher,
		machine:  shop.NewMachine(source, store, dispatcher),
	}, nil
}

// TelegramRunOptions builds the routing tables and lifecycle hooks for the
// core Telegram runtime.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Description: "Botni ishga tushirish",
		Handler:     a.handleStart,
	})
	reg.RegisterCommand("/orders", commands.Command{
		Description: "So'nggi buyurtmalar",
		AdminOnly:   true,
		Handler:     a.handleOrdersCommand,
	})

	for key, h := range map[string]tele.HandlerFunc{
		shop.CallbackPage:    a.handlePageCallback,
		shop.CallbackProduct: a.handleProductCallback,
		shop.CallbackOrder:   a.handleOrderCallback,
	} {
		if err := reg.RegisterCallback(key, h); err != nil {
			return coretelegram.RunOptions{}, err
		}
	}

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(reg, router.TextOptions{})...)
	routes = append(routes,
		router.EventRoute(tele.OnContact, "contact", a.handleContact),
		router.EventRoute(tele.OnLocation, "location", a.handleLocation,
			middleware.RequireState(a.store, session.StateAwaitingLocation)),
	)

	return coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:      routes,
		OnStart:     a.onStart,
		OnStop:      a.onStop,
	}, nil
}

func (a *App) onStart(ctx context.Context, rt coretelegram.Runtime) error {
	a.notifier.bot.Store(rt.Bot)

	// Probe the catalog once so a missing feed shows up at startup.
	snap, err := a.source.Load(ctx)
	if err != nil && !errors.Is(err, catalog.ErrUnavailable) {
		return err
	}
	logger.L.With("component", "app").Info("catalog probe",
		slog.String("event", "catalog.probe"),
		slog.Int("products", snap.Len()),
		slog.Int("pages", catalog.TotalPages(snap.Len())),
	)
	return nil
}

func (a *App) onStop(_ context.Context, _ coretelegram.Runtime) error {
	a.notifier.bot.Store(nil)
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
