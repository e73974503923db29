package shop

import (
	"context"
	"testing"

	"dokonbot/catalog"
	"dokonbot/orders"
	"dokonbot/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

type fakeSource struct {
	snap catalog.Snapshot
	err  error
}

func (f *fakeSource) Load(context.Context) (catalog.Snapshot, error) {
	return f.snap, f.err
}

type transportCall struct {
	op     string
	text   string
	markup *tele.ReplyMarkup
}

type fakeTransport struct {
	calls   []transportCall
	sendErr error
}

func (f *fakeTransport) Send(text string, markup *tele.ReplyMarkup) error {
	f.calls = append(f.calls, transportCall{op: "send", text: text, markup: markup})
	return f.sendErr
}

func (f *fakeTransport) Edit(text string, markup *tele.ReplyMarkup) error {
	f.calls = append(f.calls, transportCall{op: "edit", text: text, markup: markup})
	return nil
}

func (f *fakeTransport) Answer(text string) error {
	f.calls = append(f.calls, transportCall{op: "answer", text: text})
	return nil
}

func (f *fakeTransport) ops() []string {
	ops := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		ops = append(ops, c.op)
	}
	return ops
}

type fakeNotifier struct {
	texts []string
	err   error
}

func (f *fakeNotifier) NotifyAdmin(_ context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.texts = append(f.texts, text)
	return nil
}

func twoProducts() catalog.Snapshot {
	return catalog.NewSnapshot([]catalog.Product{
		{Name: "Pizza", Price: "25000 so'm", Description: "sous, pishloq"},
		{Name: "Burger", Price: "15000 so'm", Description: "kotlet"},
	})
}

func manyProducts(n int) catalog.Snapshot {
	products := make([]catalog.Product, n)
	for i := range products {
		products[i] = catalog.Product{Name: "P", Price: "1000 so'm", Description: "d"}
	}
	return catalog.NewSnapshot(products)
}

func newTestMachine(snap catalog.Snapshot, n *fakeNotifier) (*Machine, *session.Store) {
	if n == nil {
		n = &fakeNotifier{}
	}
	store := session.NewStore()
	m := NewMachine(&fakeSource{snap: snap}, store, orders.NewDispatcher(n, nil))
	return m, store
}

const testUser = int64(7)

func identify(t *testing.T, m *Machine) {
	t.Helper()
	require.NoError(t, m.Handle(context.Background(), testUser, Contact{
		Phone:    "+998901234567",
		Username: "alice",
	}, &fakeTransport{}))
}

func TestStartPromptsContact(t *testing.T) {
	m, _ := newTestMachine(twoProducts(), nil)
	tr := &fakeTransport{}

	require.NoError(t, m.Handle(context.Background(), testUser, Start{}, tr))

	require.Equal(t, []string{"send"}, tr.ops())
	assert.Equal(t, msgAskContact, tr.calls[0].text)
	require.NotNil(t, tr.calls[0].markup)
}

func TestContactRendersFirstPage(t *testing.T) {
	m, store := newTestMachine(twoProducts(), nil)
	tr := &fakeTransport{}

	require.NoError(t, m.Handle(context.Background(), testUser, Contact{
		Phone:    "+998901234567",
		Username: "alice",
	}, tr))

	// The contact reply keyboard is dismissed before the list renders.
	require.Equal(t, []string{"send", "send"}, tr.ops())
	require.NotNil(t, tr.calls[0].markup)
	assert.True(t, tr.calls[0].markup.RemoveKeyboard)

	assert.Equal(t, "Mahsulotlar ro'yxati:\n1. Pizza 25000 so'm\n2. Burger 15000 so'm", tr.calls[1].text)

	// Single page: selector row only, no navigation row.
	markup := tr.calls[1].markup
	require.NotNil(t, markup)
	require.Len(t, markup.InlineKeyboard, 1)
	assert.Len(t, markup.InlineKeyboard[0], 2)

	s, ok := store.Get(testUser)
	require.True(t, ok)
	assert.Equal(t, session.StateBrowsing, s.State)
	assert.Equal(t, "+998901234567", s.Phone)
}

func TestRoundTripOrder(t *testing.T) {
	notifier := &fakeNotifier{}
	m, store := newTestMachine(twoProducts(), notifier)
	ctx := context.Background()
	identify(t, m)

	tr := &fakeTransport{}
	require.NoError(t, m.Handle(ctx, testUser, ProductSelect{Ordinal: 0}, tr))
	require.Equal(t, []string{"edit", "answer"}, tr.ops())
	assert.Equal(t, "Pizza 25000 so'm\n\nTarkibi: sous, pishloq", tr.calls[0].text)
	assert.Equal(t, session.StateViewingProduct, store.GetState(testUser))

	tr = &fakeTransport{}
	require.NoError(t, m.Handle(ctx, testUser, Order{Ordinal: 0}, tr))
	require.Equal(t, []string{"send", "answer"}, tr.ops())
	assert.Equal(t, msgAskLocation, tr.calls[0].text)
	assert.Equal(t, session.StateAwaitingLocation, store.GetState(testUser))

	tr = &fakeTransport{}
	require.NoError(t, m.Handle(ctx, testUser, Location{Lat: 41.31, Lon: 69.28}, tr))

	require.Len(t, notifier.texts, 1)
	text := notifier.texts[0]
	assert.Contains(t, text, "Mahsulot: Pizza")
	assert.Contains(t, text, "Username: @alice")
	assert.Contains(t, text, "Telefon raqam: +998901234567")
	assert.Contains(t, text, "https://www.google.com/maps?q=41.31,69.28")

	require.Equal(t, []string{"send"}, tr.ops())
	assert.Equal(t, msgOrderAccepted, tr.calls[0].text)

	s, ok := store.Get(testUser)
	require.True(t, ok)
	assert.Nil(t, s.Pending)
	assert.Equal(t, session.StateBrowsing, s.State)
}

func TestOrderWithoutIdentification(t *testing.T) {
	notifier := &fakeNotifier{}
	m, store := newTestMachine(twoProducts(), notifier)
	tr := &fakeTransport{}

	require.NoError(t, m.Handle(context.Background(), testUser, Order{Ordinal: 0}, tr))

	// Redirected to identification, not failed.
	require.Equal(t, []string{"answer"}, tr.ops())
	assert.Equal(t, msgAskContact, tr.calls[0].text)
	assert.Empty(t, notifier.texts)

	s, _ := store.Get(testUser)
	assert.Nil(t, s.Pending)
}

func TestStaleProductSelect(t *testing.T) {
	// Catalog shrank from 12 to 5 between render and click.
	m, store := newTestMachine(manyProducts(5), nil)
	identify(t, m)

	tr := &fakeTransport{}
	require.NoError(t, m.Handle(context.Background(), testUser, ProductSelect{Ordinal: 9}, tr))

	require.Equal(t, []string{"answer", "edit"}, tr.ops())
	assert.Equal(t, msgCatalogChanged, tr.calls[0].text)
	assert.Equal(t, session.StateBrowsing, store.GetState(testUser))
}

func TestStalePageNav(t *testing.T) {
	m, store := newTestMachine(manyProducts(5), nil)
	identify(t, m)

	for _, page := range []int{-1, 1, 99} {
		tr := &fakeTransport{}
		require.NoError(t, m.Handle(context.Background(), testUser, PageNav{Page: page}, tr))
		require.Equal(t, []string{"answer", "edit"}, tr.ops(), "page=%d", page)
		assert.Equal(t, msgCatalogChanged, tr.calls[0].text)
	}

	s, _ := store.Get(testUser)
	assert.Equal(t, 0, s.Page)
}

func TestStaleOrder(t *testing.T) {
	notifier := &fakeNotifier{}
	m, store := newTestMachine(manyProducts(5), notifier)
	identify(t, m)

	tr := &fakeTransport{}
	require.NoError(t, m.Handle(context.Background(), testUser, Order{Ordinal: 11}, tr))

	assert.Equal(t, []string{"answer", "edit"}, tr.ops())
	assert.Empty(t, notifier.texts)
	s, _ := store.Get(testUser)
	assert.Nil(t, s.Pending)
}

func TestLocationWithoutPending(t *testing.T) {
	notifier := &fakeNotifier{}
	m, _ := newTestMachine(twoProducts(), notifier)
	identify(t, m)

	tr := &fakeTransport{}
	require.NoError(t, m.Handle(context.Background(), testUser, Location{Lat: 1, Lon: 2}, tr))

	assert.Empty(t, tr.calls)
	assert.Empty(t, notifier.texts)
}

func TestPageNavIdempotent(t *testing.T) {
	m, _ := newTestMachine(manyProducts(25), nil)
	identify(t, m)
	ctx := context.Background()

	first := &fakeTransport{}
	require.NoError(t, m.Handle(ctx, testUser, PageNav{Page: 1}, first))
	second := &fakeTransport{}
	require.NoError(t, m.Handle(ctx, testUser, PageNav{Page: 1}, second))

	require.Equal(t, []string{"edit", "answer"}, first.ops())
	require.Equal(t, []string{"edit", "answer"}, second.ops())
	assert.Equal(t, first.calls[0].text, second.calls[0].text)
}

func TestNotifyFailureRestoresPending(t *testing.T) {
	notifier := &fakeNotifier{err: assert.AnError}
	m, store := newTestMachine(twoProducts(), notifier)
	ctx := context.Background()
	identify(t, m)

	require.NoError(t, m.Handle(ctx, testUser, Order{Ordinal: 1}, &fakeTransport{}))

	tr := &fakeTransport{}
	err := m.Handle(ctx, testUser, Location{Lat: 1, Lon: 2}, tr)
	require.Error(t, err)

	// The order survives so the user can share location again.
	s, _ := store.Get(testUser)
	require.NotNil(t, s.Pending)
	assert.Equal(t, "Burger", s.Pending.ProductName)
	assert.Equal(t, session.StateAwaitingLocation, s.State)
	assert.Empty(t, tr.calls)
}

func TestEmptyCatalogOnContact(t *testing.T) {
	m, _ := newTestMachine(catalog.Snapshot{}, nil)
	tr := &fakeTransport{}

	require.NoError(t, m.Handle(context.Background(), testUser, Contact{
		Phone: "+998901234567",
	}, tr))

	require.Equal(t, []string{"send"}, tr.ops())
	assert.Equal(t, msgEmptyCatalog, tr.calls[0].text)
	require.NotNil(t, tr.calls[0].markup)
	assert.True(t, tr.calls[0].markup.RemoveKeyboard)
}
