package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureNotifier struct {
	texts []string
	err   error
}

func (c *captureNotifier) NotifyAdmin(_ context.Context, text string) error {
	if c.err != nil {
		return c.err
	}
	c.texts = append(c.texts, text)
	return nil
}

func TestDispatchDeliversNotification(t *testing.T) {
	n := &captureNotifier{}
	d := NewDispatcher(n, nil)

	err := d.Dispatch(context.Background(), Record{
		UserID:      7,
		Username:    "alice",
		Phone:       "+998901234567",
		ProductName: "Pizza",
		Latitude:    41.31,
		Longitude:   69.28,
	}, "Buyurtma: Pizza")

	require.NoError(t, err)
	require.Equal(t, []string{"Buyurtma: Pizza"}, n.texts)
}

func TestDispatchReportsNotifyFailure(t *testing.T) {
	n := &captureNotifier{err: assert.AnError}
	d := NewDispatcher(n, nil)

	err := d.Dispatch(context.Background(), Record{ProductName: "Pizza"}, "text")
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestHistoryDisabled(t *testing.T) {
	d := NewDispatcher(&captureNotifier{}, nil)
	assert.Nil(t, d.History())
	assert.Nil(t, NewRepo(nil))
}

func TestMapLink(t *testing.T) {
	lat := float64(float32(41.31))
	lon := float64(float32(69.28))
	assert.Equal(t, "https://www.google.com/maps?q=41.31,69.28", MapLink(lat, lon))

	assert.Equal(t, "https://www.google.com/maps?q=0,0", MapLink(0, 0))
	assert.Equal(t, "https://www.google.com/maps?q=-12.5,30", MapLink(-12.5, 30))
}
