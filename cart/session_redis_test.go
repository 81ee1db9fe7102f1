package cart

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/foodworks/orderflow/core"
)

// newTestSessionStore connects to the redis named by ORDERFLOW_TEST_REDIS_URL,
// skipping when no server is available.
func newTestSessionStore(t *testing.T) *RedisSessionStore {
	t.Helper()

	url := os.Getenv("ORDERFLOW_TEST_REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379"
	}

	store, err := NewRedisSessionStore(url, time.Minute)
	if err != nil {
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRedisSessionRoundTrip(t *testing.T) {
	sessions := newTestSessionStore(t)
	ctx := context.Background()

	sessionID := sessions.NewSessionID()
	t.Cleanup(func() { sessions.Delete(context.Background(), sessionID) })

	snap := Snapshot{
		Lines: []core.CartLine{
			{Item: core.ItemSnapshot{ID: 1, Name: "Burger", Price: 10.00, ImageURL: "/b.jpg"}, Quantity: 2},
			{Item: core.ItemSnapshot{ID: 2, Name: "Fries", Price: 3.50}, Quantity: 1},
		},
		ItemCount:  3,
		TotalPrice: 23.50,
	}

	if err := sessions.Save(ctx, sessionID, snap); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	lines, err := sessions.Load(ctx, sessionID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
	if lines[0].Item.Name != "Burger" || lines[0].Quantity != 2 {
		t.Errorf("line 0 = %+v", lines[0])
	}
}

func TestRedisSessionLoadMissing(t *testing.T) {
	sessions := newTestSessionStore(t)

	lines, err := sessions.Load(context.Background(), sessions.NewSessionID())
	if err != nil {
		t.Fatalf("Load() of unknown session error = %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("unknown session returned %d lines, want 0", len(lines))
	}
}

func TestRedisSessionAttach(t *testing.T) {
	sessions := newTestSessionStore(t)
	ctx := context.Background()

	store := NewMemoryStore()
	sessionID := sessions.NewSessionID()
	t.Cleanup(func() { sessions.Delete(context.Background(), sessionID) })

	detach := sessions.Attach(store, sessionID)
	defer detach()

	store.AddItem(core.MenuItem{ID: 7, Name: "Taco", Price: 2.75, Available: true})

	lines, err := sessions.Load(ctx, sessionID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(lines) != 1 || lines[0].Item.ID != 7 {
		t.Errorf("persisted lines = %+v, want the taco", lines)
	}
}
