package core

import "time"

// MenuItem is a catalog entry owned by the backend catalog API.
// The client treats it as immutable; only available items are offered
// for selection.
type MenuItem struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageurl"`
	Category    string  `json:"category"`
	Available   bool    `json:"available"`
}

// ItemSnapshot is the denormalized slice of a MenuItem captured when an
// item enters the cart. A later catalog price change does not affect
// lines already in the cart.
type ItemSnapshot struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageurl"`
}

// Snapshot captures the add-time view of a menu item.
func Snapshot(item MenuItem) ItemSnapshot {
	return ItemSnapshot{
		ID:       item.ID,
		Name:     item.Name,
		Price:    item.Price,
		ImageURL: item.ImageURL,
	}
}

// CartLine is one entry in the cart. Quantity is always >= 1; a cart
// holds at most one line per item id.
type CartLine struct {
	Item     ItemSnapshot `json:"item"`
	Quantity int          `json:"quantity"`
}

// LineTotal returns price x quantity for this line.
func (l CartLine) LineTotal() float64 {
	return l.Item.Price * float64(l.Quantity)
}

// PaymentDetails carries the raw card fields as entered by the user.
// They are presence-checked only and forwarded verbatim to the order
// API; nothing here is validated, tokenized, or retained after a
// submission completes or fails.
type PaymentDetails struct {
	CardNumber  string
	ExpiryMonth string
	ExpiryYear  string
	CVV         string
}

// Complete reports whether all four fields are non-empty.
func (p PaymentDetails) Complete() bool {
	return p.CardNumber != "" && p.ExpiryMonth != "" && p.ExpiryYear != "" && p.CVV != ""
}

// Order is the server-assigned order aggregate. Status is an opaque
// string controlled by the server; the client never interprets it
// beyond display.
type Order struct {
	ID         int       `json:"id"`
	OrderTime  time.Time `json:"ordertime"`
	PickupTime time.Time `json:"pickuptime"`
	Tax        float64   `json:"tax"`
	Tip        float64   `json:"tip"`
	Status     string    `json:"status"`
}

// OrderItem is one persisted line of an order. Rows are flattened per
// unit: a cart line with quantity N becomes N OrderItem rows, each
// carrying the unit price charged at order time.
type OrderItem struct {
	ID      int     `json:"id"`
	OrderID int     `json:"orderid"`
	ItemID  int     `json:"itemid"`
	Price   float64 `json:"price"`
}

// Fallback values used when an order line no longer matches a catalog
// entry. Historical orders keep their lines even after catalog drift.
const (
	UnknownItemName  = "Unknown Item"
	PlaceholderImage = "/placeholder-image.jpg"
)

// DisplayOrderItem is an OrderItem joined with catalog data for display.
type DisplayOrderItem struct {
	OrderItem
	Name     string `json:"name"`
	ImageURL string `json:"imageurl"`
}

// OrderRequest is the phase-1 creation body. Order and pickup time carry
// the same timestamp; pickup scheduling is not implemented.
type OrderRequest struct {
	OrderTime   string  `json:"ordertime"`
	PickupTime  string  `json:"pickuptime"`
	Tax         float64 `json:"tax"`
	Tip         float64 `json:"tip"`
	CardNumber  string  `json:"pan"`
	ExpiryMonth int     `json:"expiryMonth"`
	ExpiryYear  int     `json:"expiryYear"`
	CVV         string  `json:"cvv"`
	Status      string  `json:"status"`
}

// OrderItemRequest is one element of the phase-2 attach-items body.
type OrderItemRequest struct {
	ItemID int     `json:"itemid"`
	Price  float64 `json:"price"`
}
