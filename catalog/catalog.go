// Package catalog loads the product feed from a line-oriented source and
// exposes it as an immutable snapshot. Each line of the feed describes one
// product as `<name> <price> so'm 'tarkibi': <description>`; lines that do
// not match are skipped without error.
package catalog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"time"

	"dokonbot/core/logger"
)

// ErrUnavailable reports that the catalog source is missing or unreadable.
// Callers should treat it as an empty catalog, not a fatal condition.
var ErrUnavailable = errors.New("catalog: source unavailable")

var lineRe = regexp.MustCompile(`^(.+?) (\d+ so'm) 'tarkibi': (.+)$`)

// Product is a single catalog entry. Products carry no stable identifier;
// the ordinal position inside a Snapshot is the only way to reference one.
type Product struct {
	Name        string
	Price       string
	Description string
}

// Snapshot is an immutable view of the catalog taken at load time. All
// pagination and selection decisions for one inbound event must be made
// against the same Snapshot.
type Snapshot struct {
	products []Product
}

// Len returns the number of products in the snapshot.
func (s Snapshot) Len() int { return len(s.products) }

// At returns the product at the given ordinal. The ordinal must be valid.
func (s Snapshot) At(ordinal int) Product { return s.products[ordinal] }

// Products returns the underlying sequence in source order.
func (s Snapshot) Products() []Product { return s.products }

// NewSnapshot builds a snapshot from an already parsed product sequence.
func NewSnapshot(products []Product) Snapshot {
	return Snapshot{products: products}
}

// ParseLine parses a single feed line. ok is false for malformed lines.
func ParseLine(line string) (Product, bool) {
	m := lineRe.FindStringSubmatch(line)
	if m == nil {
		return Product{}, false
	}
	return Product{Name: m[1], Price: m[2], Description: m[3]}, true
}

// Source supplies catalog snapshots. Load is called once per inbound event
// so the whole transition observes a single consistent snapshot.
type Source interface {
	Load(ctx context.Context) (Snapshot, error)
}

// FileSource reads the catalog from a flat file on every Load call.
type FileSource struct {
	Path string
}

// NewFileSource returns a reload-on-read source backed by the given path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Load re-reads the file and parses it leniently. A missing or unreadable
// file yields an empty snapshot wrapped in ErrUnavailable.
func (f *FileSource) Load(ctx context.Context) (Snapshot, error) {
	start := time.Now()

	file, err := os.Open(f.Path)
	if err != nil {
		logger.SVCCatalog.LogAttrs(ctx, slog.LevelWarn, "catalog.unavailable",
			slog.String("path", f.Path),
			slog.String("err", err.Error()),
		)
		return Snapshot{}, fmt.Errorf("%w: %s", ErrUnavailable, f.Path)
	}
	defer file.Close()

	var (
		products []Product
		skipped  int
	)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		p, ok := ParseLine(line)
		if !ok {
			skipped++
			continue
		}
		products = append(products, p)
	}
	if err := scanner.Err(); err != nil {
		logger.SVCCatalog.LogAttrs(ctx, slog.LevelWarn, "catalog.unavailable",
			slog.String("path", f.Path),
			slog.String("err", err.Error()),
		)
		return Snapshot{}, fmt.Errorf("%w: %s", ErrUnavailable, f.Path)
	}

	if logger.ShouldSampleDebug() {
		logger.SVCCatalog.LogAttrs(ctx, slog.LevelDebug, "catalog.loaded",
			slog.Int("products", len(products)),
			slog.Int("skipped", skipped),
			slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
		)
	}
	return Snapshot{products: products}, nil
}
