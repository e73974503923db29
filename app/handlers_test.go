package app

import (
	"testing"
	"time"

	"dokonbot/orders"

	"github.com/stretchr/testify/assert"
)

func TestFormatOrderHistoryEscapesMarkdown(t *testing.T) {
	created := time.Date(2026, 8, 29, 12, 30, 0, 0, time.UTC)
	recs := []orders.Record{
		{
			ProductName: "Pizza *Grande*",
			Username:    "ali_jon",
			Phone:       "+998901234567",
			CreatedAt:   created,
		},
		{
			ProductName: "Burger",
			Username:    "bob",
			Phone:       "+998907654321",
			CreatedAt:   created,
		},
	}

	got := formatOrderHistory(recs)

	assert.Contains(t, got, "*So'nggi buyurtmalar:*")
	// Markup characters from user input must not break the rendering.
	assert.Contains(t, got, `Pizza \*Grande\*`)
	assert.Contains(t, got, `@ali\_jon`)
	assert.Contains(t, got, "+998901234567")
	assert.Contains(t, got, "2. *Burger* - @bob")
	assert.Contains(t, got, "2026-08-29 12:30")
}
