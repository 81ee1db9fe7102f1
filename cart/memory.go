package cart

import (
	"sync"

	"github.com/foodworks/orderflow/core"
)

// MemoryStore is the in-memory implementation of Store. It is safe for
// concurrent use, though the ordering flow mutates it from one logical
// actor at a time.
type MemoryStore struct {
	mu          sync.RWMutex
	lines       []core.CartLine
	index       map[int]int // item id -> position in lines
	subscribers map[int]func(Snapshot)
	nextSubID   int
	logger      core.Logger
}

// NewMemoryStore creates an empty cart store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		index:       make(map[int]int),
		subscribers: make(map[int]func(Snapshot)),
		logger:      &core.NoOpLogger{},
	}
}

// SetLogger configures the logger for this store.
func (s *MemoryStore) SetLogger(logger core.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// AddItem implements Store.
func (s *MemoryStore) AddItem(item core.MenuItem) {
	s.mu.Lock()
	if pos, ok := s.index[item.ID]; ok {
		s.lines[pos].Quantity++
	} else {
		s.index[item.ID] = len(s.lines)
		s.lines = append(s.lines, core.CartLine{
			Item:     core.Snapshot(item),
			Quantity: 1,
		})
	}
	s.logger.Debug("Item added to cart", map[string]interface{}{
		"item_id": item.ID,
		"name":    item.Name,
	})
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// RemoveItem implements Store.
func (s *MemoryStore) RemoveItem(itemID int) {
	s.mu.Lock()
	pos, ok := s.index[itemID]
	if !ok {
		s.mu.Unlock()
		return
	}
	s.lines = append(s.lines[:pos], s.lines[pos+1:]...)
	delete(s.index, itemID)
	for i := pos; i < len(s.lines); i++ {
		s.index[s.lines[i].Item.ID] = i
	}
	s.logger.Debug("Item removed from cart", map[string]interface{}{
		"item_id": itemID,
	})
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// UpdateQuantity implements Store.
func (s *MemoryStore) UpdateQuantity(itemID, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(itemID)
		return
	}

	s.mu.Lock()
	pos, ok := s.index[itemID]
	if !ok {
		s.mu.Unlock()
		return
	}
	s.lines[pos].Quantity = quantity
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// Clear implements Store.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	s.lines = nil
	s.index = make(map[int]int)
	s.logger.Debug("Cart cleared", nil)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// Lines implements Store.
func (s *MemoryStore) Lines() []core.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// TotalItemCount implements Store.
func (s *MemoryStore) TotalItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, l := range s.lines {
		count += l.Quantity
	}
	return count
}

// TotalPrice implements Store.
func (s *MemoryStore) TotalPrice() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0.0
	for _, l := range s.lines {
		total += l.LineTotal()
	}
	return total
}

// Subscribe implements Store.
func (s *MemoryStore) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Restore replaces the cart contents with previously saved lines,
// dropping any degenerate entries. Used by session resumption.
func (s *MemoryStore) Restore(lines []core.CartLine) {
	s.mu.Lock()
	s.lines = nil
	s.index = make(map[int]int)
	for _, l := range lines {
		if l.Quantity < 1 {
			continue
		}
		if _, ok := s.index[l.Item.ID]; ok {
			continue
		}
		s.index[l.Item.ID] = len(s.lines)
		s.lines = append(s.lines, l)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// snapshotLocked builds a Snapshot; callers must hold the lock.
func (s *MemoryStore) snapshotLocked() Snapshot {
	lines := make([]core.CartLine, len(s.lines))
	copy(lines, s.lines)

	count := 0
	total := 0.0
	for _, l := range lines {
		count += l.Quantity
		total += l.LineTotal()
	}
	return Snapshot{Lines: lines, ItemCount: count, TotalPrice: total}
}

// notify delivers a snapshot to all subscribers outside the lock so a
// callback can safely call back into the store.
func (s *MemoryStore) notify(snap Snapshot) {
	s.mu.RLock()
	subs := make([]func(Snapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(snap)
	}
}
