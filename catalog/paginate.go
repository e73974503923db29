package catalog

// PageSize is the fixed number of products shown per page.
const PageSize = 10

// Item pairs a product with its absolute ordinal in the snapshot. Button
// labels use the 1-based position within the page, but callbacks always
// carry the ordinal.
type Item struct {
	Ordinal int
	Product Product
}

// Page is a derived window over a snapshot.
type Page struct {
	Index int
	Total int
	Items []Item
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Index > 0 }

// HasNext reports whether a following page exists.
func (p Page) HasNext() bool { return p.Index < p.Total-1 }

// TotalPages returns ceil(n / PageSize).
func TotalPages(n int) int {
	return (n + PageSize - 1) / PageSize
}

// ValidPage reports whether pageIndex addresses an existing page of the snapshot.
func ValidPage(s Snapshot, pageIndex int) bool {
	return pageIndex >= 0 && pageIndex < TotalPages(s.Len())
}

// View slices the snapshot into the requested page. The caller must have
// validated pageIndex with ValidPage; an empty snapshot yields an empty
// page with Total 0 regardless of index.
func View(s Snapshot, pageIndex int) Page {
	total := TotalPages(s.Len())
	if total == 0 {
		return Page{Index: pageIndex, Total: 0}
	}

	startAt := pageIndex * PageSize
	end := startAt + PageSize
	if end > s.Len() {
		end = s.Len()
	}

	items := make([]Item, 0, end-startAt)
	for ordinal := startAt; ordinal < end; ordinal++ {
		items = append(items, Item{Ordinal: ordinal, Product: s.At(ordinal)})
	}
	return Page{Index: pageIndex, Total: total, Items: items}
}
