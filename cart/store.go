// Package cart implements the client-held, pre-submission collection of
// selected items and quantities for one checkout session.
//
// The in-memory store is the single source of truth for the subtotal
// used at checkout; consumers observe mutations through subscriptions
// rather than an ambient global.
package cart

import "github.com/foodworks/orderflow/core"

// Snapshot is a consistent, immutable view of the cart delivered to
// subscribers and session storage.
type Snapshot struct {
	Lines      []core.CartLine `json:"lines"`
	ItemCount  int             `json:"item_count"`
	TotalPrice float64         `json:"total_price"`
}

// Store holds cart state for one checkout session. Mutations take
// effect before the call returns; any consumer observing the cart sees
// updates immediately, with no asynchronous delay.
type Store interface {
	// AddItem inserts a line with quantity 1, snapshotting id, name,
	// price and image from the menu item; if a line for the item id
	// already exists its quantity is incremented instead. Safe to call
	// repeatedly.
	AddItem(item core.MenuItem)

	// RemoveItem deletes the line with the given item id. Absent ids
	// are a no-op, not an error.
	RemoveItem(itemID int)

	// UpdateQuantity sets a line's quantity. A quantity <= 0 behaves
	// as RemoveItem; degenerate zero-quantity lines never exist.
	// Callers must convert user input to an int at the boundary
	// (strconv); this method takes integers only.
	UpdateQuantity(itemID, quantity int)

	// Clear empties all lines. Called exactly once, after a
	// successful checkout submission.
	Clear()

	// Lines returns the cart lines in insertion order.
	Lines() []core.CartLine

	// TotalItemCount returns the sum of all quantities.
	TotalItemCount() int

	// TotalPrice returns the sum over lines of price x quantity. The
	// checkout orchestrator uses this value as the subtotal for tax
	// computation; nothing recomputes it independently.
	TotalPrice() float64

	// Subscribe registers a callback invoked synchronously with a
	// consistent snapshot after every mutation. The returned function
	// unsubscribes.
	Subscribe(fn func(Snapshot)) (unsubscribe func())
}
