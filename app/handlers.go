package app

import (
	"errors"
	"fmt"
	"strings"

	"dokonbot/core/telegram/callbacks"
	"dokonbot/core/telegram/format"
	tghelpers "dokonbot/core/telegram/helpers"
	"dokonbot/orders"
	"dokonbot/shop"

	tele "gopkg.in/telebot.v4"
)

// conn adapts a single update's tele.Context to the shop transport port.
type conn struct {
	c tele.Context
}

func (t conn) Send(text string, markup *tele.ReplyMarkup) error {
	if markup == nil {
		return t.c.Send(text)
	}
	return t.c.Send(text, markup)
}

func (t conn) Edit(text string, markup *tele.ReplyMarkup) error {
	var err error
	if markup == nil {
		err = t.c.EditOrSend(text)
	} else {
		err = t.c.EditOrSend(text, markup)
	}
	// Re-rendering the same page is a valid no-op.
	if errors.Is(err, tele.ErrSameMessageContent) {
		return nil
	}
	return err
}

func (t conn) Answer(text string) error {
	if t.c.Callback() == nil {
		return nil
	}
	return t.c.Respond(&tele.CallbackResponse{Text: text})
}

func (a *App) dispatch(c tele.Context, ev shop.Event) error {
	ctx := tghelpers.BuildContext(c)
	return a.machine.Handle(ctx, c.Sender().ID, ev, conn{c: c})
}

func (a *App) handleStart(c tele.Context) error {
	return a.dispatch(c, shop.Start{})
}

func (a *App) handleContact(c tele.Context) error {
	m := c.Message()
	if m == nil || m.Contact == nil {
		return nil
	}
	return a.dispatch(c, shop.Contact{
		Phone:    m.Contact.PhoneNumber,
		Username: c.Sender().Username,
	})
}

func (a *App) handleLocation(c tele.Context) error {
	m := c.Message()
	if m == nil || m.Location == nil {
		return nil
	}
	return a.dispatch(c, shop.Location{
		Lat: m.Location.Lat,
		Lon: m.Location.Lng,
	})
}

func (a *App) handlePageCallback(c tele.Context) error {
	n, err := callbacks.PayloadInt(c)
	if err != nil {
		return c.Respond()
	}
	return a.dispatch(c, shop.PageNav{Page: n})
}

func (a *App) handleProductCallback(c tele.Context) error {
	ordinal, err := callbacks.PayloadInt(c)
	if err != nil {
		return c.Respond()
	}
	return a.dispatch(c, shop.ProductSelect{Ordinal: ordinal})
}

func (a *App) handleOrderCallback(c tele.Context) error {
	ordinal, err := callbacks.PayloadInt(c)
	if err != nil {
		return c.Respond()
	}
	return a.dispatch(c, shop.Order{Ordinal: ordinal})
}

// handleOrdersCommand lists the most recent orders for the admin.
func (a *App) handleOrdersCommand(c tele.Context) error {
	repo := a.orders.History()
	if repo == nil {
		return tghelpers.SendText(c, "Buyurtmalar tarixi o'chirilgan")
	}

	recs, err := repo.Recent(tghelpers.BuildContext(c), 10)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return tghelpers.SendText(c, "Hozircha buyurtmalar yo'q")
	}
	return tghelpers.SendMD(c, formatOrderHistory(recs))
}

// formatOrderHistory renders the history listing as Markdown. Product names
// and usernames come from user input and must be escaped.
func formatOrderHistory(recs []orders.Record) string {
	var b strings.Builder
	b.WriteString("*So'nggi buyurtmalar:*")
	for i, rec := range recs {
		b.WriteString(fmt.Sprintf("\n%d. *%s* - @%s, %s (%s)",
			i+1, mdEscape(rec.ProductName), mdEscape(rec.Username), rec.Phone,
			rec.CreatedAt.Format("2006-01-02 15:04")))
	}
	return b.String()
}

func mdEscape(s string) string {
	escaped, err := format.EscapeMarkdown(s, format.MarkdownV1)
	if err != nil {
		return s
	}
	return escaped
}
