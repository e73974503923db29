// Package shop implements the conversation flow: identify the user, browse
// the paginated catalog, pick a product and complete an order with a shared
// location. Inbound updates are decoded at the transport boundary into the
// Event variants below and dispatched through the state machine.
package shop

// Callback keys used on inline buttons.
const (
	CallbackPage    = "shop_page"
	CallbackProduct = "shop_product"
	CallbackOrder   = "shop_order"
)

// Event is one decoded inbound update.
type Event interface {
	isEvent()
}

// Start is the /start command.
type Start struct{}

// Contact carries shared identification details.
type Contact struct {
	Phone    string
	Username string
}

// PageNav asks for another catalog page.
type PageNav struct {
	Page int
}

// ProductSelect asks for the detail view of one product.
type ProductSelect struct {
	Ordinal int
}

// Order initiates an order for one product.
type Order struct {
	Ordinal int
}

// Location carries shared coordinates. float32 matches the transport's wire
// precision.
type Location struct {
	Lat float32
	Lon float32
}

func (Start) isEvent()         {}
func (Contact) isEvent()       {}
func (PageNav) isEvent()       {}
func (ProductSelect) isEvent() {}
func (Order) isEvent()         {}
func (Location) isEvent()      {}
