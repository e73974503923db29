package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Product
		ok   bool
	}{
		{
			name: "valid",
			line: "Pizza Margarita 45000 so'm 'tarkibi': pomidor sousi, mozzarella",
			want: Product{Name: "Pizza Margarita", Price: "45000 so'm", Description: "pomidor sousi, mozzarella"},
			ok:   true,
		},
		{
			name: "single word name",
			line: "Burger 32000 so'm 'tarkibi': kotlet, bulka",
			want: Product{Name: "Burger", Price: "32000 so'm", Description: "kotlet, bulka"},
			ok:   true,
		},
		{
			name: "missing tarkibi marker",
			line: "Burger 32000 so'm kotlet",
			ok:   false,
		},
		{
			name: "missing price",
			line: "Burger 'tarkibi': kotlet",
			ok:   false,
		},
		{
			name: "empty",
			line: "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLine(tt.line)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFileSourceLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.txt")
	feed := "Pizza 25000 so'm 'tarkibi': sous, pishloq\n" +
		"not a product line\n" +
		"\n" +
		"Burger 15000 so'm 'tarkibi': kotlet\n"
	require.NoError(t, os.WriteFile(path, []byte(feed), 0o644))

	snap, err := NewFileSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, snap.Len())
	assert.Equal(t, "Pizza", snap.At(0).Name)
	assert.Equal(t, "25000 so'm", snap.At(0).Price)
	assert.Equal(t, "Burger", snap.At(1).Name)
}

func TestFileSourceMissing(t *testing.T) {
	snap, err := NewFileSource(filepath.Join(t.TempDir(), "missing.txt")).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Equal(t, 0, snap.Len())
}

func TestFileSourceReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.txt")
	require.NoError(t, os.WriteFile(path, []byte("Pizza 25000 so'm 'tarkibi': sous\n"), 0o644))

	src := NewFileSource(path)
	first, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, first.Len())

	require.NoError(t, os.WriteFile(path, []byte(
		"Pizza 25000 so'm 'tarkibi': sous\nBurger 15000 so'm 'tarkibi': kotlet\n"), 0o644))

	second, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, second.Len())
	// The earlier snapshot is unaffected by the reload.
	assert.Equal(t, 1, first.Len())
}
