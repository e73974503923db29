package router

import (
	"time"

	tg "dokonbot/core/telegram"
	"dokonbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// TextOptions controls fallback behaviour for plain text updates.
type TextOptions struct {
	UnknownText tele.HandlerFunc
}

// TextRoutes builds the handler for free-form text messages. Text that spells
// a registered command (with or without the slash) is dispatched to it,
// everything else goes to the registry fallback.
func TextRoutes(reg *tg.Registry, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", "", func() error {
					return cmd.Handler(c)
				})
			}
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
		},
	}
}

// EventRoute wires a single non-command endpoint (contact, location and the
// like) through the shared middleware chain with per-handler summary logging.
// Gates run after logging, so skipped updates still leave a receipt line.
func EventRoute(endpoint, name string, h tele.HandlerFunc, gates ...tele.MiddlewareFunc) tg.Route {
	wrapped := func(c tele.Context) error {
		start := time.Now()
		return handleWithSummary(c, name, start, "", "", func() error {
			return h(c)
		})
	}
	var chained tele.HandlerFunc = wrapped
	for i := len(gates) - 1; i >= 0; i-- {
		chained = gates[i](chained)
	}
	return tg.Route{
		Endpoint: endpoint,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(chained)),
	}
}
