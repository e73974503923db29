package shop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"dokonbot/catalog"
	"dokonbot/core/logger"
	"dokonbot/core/telegram/keyboard"
	"dokonbot/orders"
	"dokonbot/session"

	tele "gopkg.in/telebot.v4"
)

const msgCatalogChanged = "Mahsulotlar ro'yxati yangilandi"

// Machine validates events against the user's conversation state and emits
// the outbound actions through the event's Transport. One catalog snapshot
// is loaded per event and used for every decision within it, so a reload
// can never happen mid-transition.
type Machine struct {
	source catalog.Source
	store  *session.Store
	orders *orders.Dispatcher
}

// NewMachine wires the conversation flow.
func NewMachine(source catalog.Source, store *session.Store, d *orders.Dispatcher) *Machine {
	return &Machine{source: source, store: store, orders: d}
}

// Handle runs one event through the state machine. Events for the same user
// are serialized by the session store; events for different users run
// concurrently.
func (m *Machine) Handle(ctx context.Context, userID int64, ev Event, t Transport) error {
	snap := m.loadSnapshot(ctx)
	return m.store.Do(userID, func(s *session.Session) error {
		switch e := ev.(type) {
		case Start:
			return m.handleStart(t)
		case Contact:
			return m.handleContact(s, snap, e, t)
		case PageNav:
			return m.handlePageNav(ctx, s, snap, e, t)
		case ProductSelect:
			return m.handleProductSelect(ctx, s, snap, e, t)
		case Order:
			return m.handleOrder(ctx, s, snap, e, t)
		case Location:
			return m.handleLocation(ctx, s, e, t)
		default:
			return fmt.Errorf("shop: unknown event %T", ev)
		}
	})
}

// loadSnapshot treats an unavailable source as an empty catalog.
func (m *Machine) loadSnapshot(ctx context.Context) catalog.Snapshot {
	snap, err := m.source.Load(ctx)
	if err != nil && !errors.Is(err, catalog.ErrUnavailable) {
		logger.SVCShop.LogAttrs(ctx, slog.LevelWarn, "catalog.load_failed",
			slog.String("err", err.Error()),
		)
	}
	return snap
}

func (m *Machine) handleStart(t Transport) error {
	return t.Send(msgAskContact, contactKeyboard())
}

func (m *Machine) handleContact(s *session.Session, snap catalog.Snapshot, e Contact, t Transport) error {
	s.Phone = e.Phone
	s.Username = e.Username
	s.State = session.StateBrowsing
	s.Page = 0

	text, markup := renderList(catalog.View(snap, 0))
	if markup == nil {
		return t.Send(text, keyboard.RemoveKeyboard())
	}
	// The list carries inline buttons, so the contact reply keyboard has to
	// be dismissed with a separate message.
	if err := t.Send(msgContactSaved, keyboard.RemoveKeyboard()); err != nil {
		return err
	}
	return t.Send(text, markup)
}

func (m *Machine) handlePageNav(ctx context.Context, s *session.Session, snap catalog.Snapshot, e PageNav, t Transport) error {
	if !catalog.ValidPage(snap, e.Page) {
		return m.rejectStale(ctx, s, snap, t, "page", e.Page)
	}
	s.Page = e.Page
	s.State = session.StateBrowsing

	text, markup := renderList(catalog.View(snap, e.Page))
	if err := t.Edit(text, markup); err != nil {
		return err
	}
	return t.Answer("")
}

func (m *Machine) handleProductSelect(ctx context.Context, s *session.Session, snap catalog.Snapshot, e ProductSelect, t Transport) error {
	if e.Ordinal < 0 || e.Ordinal >= snap.Len() {
		return m.rejectStale(ctx, s, snap, t, "product", e.Ordinal)
	}
	s.State = session.StateViewingProduct

	if err := t.Edit(detailText(snap.At(e.Ordinal)), detailMarkup(e.Ordinal)); err != nil {
		return err
	}
	return t.Answer("")
}

func (m *Machine) handleOrder(ctx context.Context, s *session.Session, snap catalog.Snapshot, e Order, t Transport) error {
	if !s.Identified() {
		// Redirect to identification instead of failing the order.
		return t.Answer(msgAskContact)
	}
	if e.Ordinal < 0 || e.Ordinal >= snap.Len() {
		return m.rejectStale(ctx, s, snap, t, "product", e.Ordinal)
	}

	product := snap.At(e.Ordinal)
	s.Pending = &session.PendingOrder{
		ProductName: product.Name,
		AdminDraft:  adminDraft(product.Name, s.Username, s.Phone),
	}
	s.State = session.StateAwaitingLocation

	if err := t.Send(msgAskLocation, locationKeyboard()); err != nil {
		s.Pending = nil
		s.State = session.StateViewingProduct
		return err
	}
	return t.Answer("")
}

func (m *Machine) handleLocation(ctx context.Context, s *session.Session, e Location, t Transport) error {
	if s.Pending == nil {
		// Location with no initiated order is silently ignored.
		return nil
	}
	pending := *s.Pending
	s.Pending = nil

	rec := orders.Record{
		UserID:      s.UserID,
		Username:    s.Username,
		Phone:       s.Phone,
		ProductName: pending.ProductName,
		Latitude:    float64(e.Lat),
		Longitude:   float64(e.Lon),
	}
	text := pending.AdminDraft + "\nLokatsiya: " + orders.MapLink(rec.Latitude, rec.Longitude)

	if err := m.orders.Dispatch(ctx, rec, text); err != nil {
		// Put the order back so the user can retry by sharing location again.
		s.Pending = &pending
		return err
	}

	s.State = session.StateBrowsing
	return t.Send(msgOrderAccepted, keyboard.RemoveKeyboard())
}

// rejectStale handles a button referencing a page or product that no longer
// exists in the current snapshot. The session is left untouched; the user
// gets a toast and a re-render of the nearest valid page.
func (m *Machine) rejectStale(ctx context.Context, s *session.Session, snap catalog.Snapshot, t Transport, kind string, value int) error {
	logger.SVCShop.LogAttrs(ctx, slog.LevelInfo, "selection.stale",
		slog.Int64("user_id", s.UserID),
		slog.String("kind", kind),
		slog.Int("ordinal", value),
		slog.Int("products", snap.Len()),
	)

	if err := t.Answer(msgCatalogChanged); err != nil {
		return err
	}

	page := s.Page
	if max := catalog.TotalPages(snap.Len()) - 1; page > max {
		page = max
	}
	if page < 0 {
		page = 0
	}
	text, markup := renderList(catalog.View(snap, page))
	return t.Edit(text, markup)
}

func renderList(page catalog.Page) (string, *tele.ReplyMarkup) {
	if len(page.Items) == 0 {
		return msgEmptyCatalog, nil
	}
	return listText(page), listMarkup(page)
}
