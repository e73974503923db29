package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapOf(n int) Snapshot {
	products := make([]Product, 0, n)
	for i := 0; i < n; i++ {
		products = append(products, Product{
			Name:  fmt.Sprintf("P%d", i),
			Price: "1000 so'm",
		})
	}
	return NewSnapshot(products)
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{0, 0},
		{1, 1},
		{9, 1},
		{10, 1},
		{11, 2},
		{20, 2},
		{25, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.n), "n=%d", tt.n)
	}
}

func TestViewWindows(t *testing.T) {
	snap := snapOf(25)

	first := View(snap, 0)
	require.Len(t, first.Items, PageSize)
	assert.Equal(t, 3, first.Total)
	assert.Equal(t, 0, first.Items[0].Ordinal)
	assert.Equal(t, 9, first.Items[9].Ordinal)
	assert.False(t, first.HasPrev())
	assert.True(t, first.HasNext())

	middle := View(snap, 1)
	require.Len(t, middle.Items, PageSize)
	assert.Equal(t, 10, middle.Items[0].Ordinal)
	assert.True(t, middle.HasPrev())
	assert.True(t, middle.HasNext())

	// Last page holds the remainder.
	last := View(snap, 2)
	require.Len(t, last.Items, 5)
	assert.Equal(t, 20, last.Items[0].Ordinal)
	assert.Equal(t, 24, last.Items[4].Ordinal)
	assert.True(t, last.HasPrev())
	assert.False(t, last.HasNext())
}

func TestViewEmpty(t *testing.T) {
	page := View(Snapshot{}, 0)
	assert.Equal(t, 0, page.Total)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasPrev())
	assert.False(t, page.HasNext())
}

func TestValidPage(t *testing.T) {
	snap := snapOf(11)
	assert.True(t, ValidPage(snap, 0))
	assert.True(t, ValidPage(snap, 1))
	assert.False(t, ValidPage(snap, 2))
	assert.False(t, ValidPage(snap, -1))
	assert.False(t, ValidPage(Snapshot{}, 0))
}
