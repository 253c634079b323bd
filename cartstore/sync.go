package cartstore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// DefaultDebounce is the quiescence window after the last local mutation
// before the cart is pushed to the server.
const DefaultDebounce = 500 * time.Millisecond

// Coordinator keeps the local Store consistent with the server cart record
// for signed-in users. Guest mutations stay local; a sign-in triggers one
// reconciliation merge; steady-state mutations while signed in schedule a
// debounced wholesale push; sign-out cancels any pending push and clears
// the local cart. Every failure path degrades to "local state stays
// authoritative, the server catches up later".
type Coordinator struct {
	store    *Store
	api      CartAPI
	debounce time.Duration

	mu       sync.Mutex
	timer    *time.Timer
	loaded   bool
	signedIn bool
	syncing  bool
}

type CoordinatorOption func(*Coordinator)

// WithDebounce overrides the push quiescence window.
func WithDebounce(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) { c.debounce = d }
}

// NewCoordinator wires the coordinator to the store's items-changed hook.
func NewCoordinator(store *Store, api CartAPI, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		store:    store,
		api:      api,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(c)
	}
	store.setOnChange(c.itemsChanged)
	return c
}

// AuthStateChanged feeds the identity collaborator's observable state into
// the coordinator. Calls with loaded=false are ignored so that "not yet
// loaded" is never mistaken for "signed out". A guest→signed-in edge runs
// the reconciliation merge before returning; a signed-in→guest edge cancels
// the pending push and clears the local cart.
func (c *Coordinator) AuthStateChanged(loaded, signedIn bool) {
	if !loaded {
		return
	}

	c.mu.Lock()
	was := c.loaded && c.signedIn
	c.loaded = true
	c.signedIn = signedIn

	switch {
	case signedIn && !was:
		c.mu.Unlock()
		c.MergeWithServer(context.Background())
	case !signedIn && was:
		if c.timer != nil {
			c.timer.Stop()
			c.timer = nil
		}
		c.mu.Unlock()
		// Next guest session starts with an empty cart.
		c.store.Clear()
	default:
		c.mu.Unlock()
	}
}

// itemsChanged is the store's mutation hook. While signed in it (re)arms the
// debounce timer; each mutation within the window pushes the deadline out,
// so a burst of quantity changes coalesces into one push of the final state.
func (c *Coordinator) itemsChanged() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded || !c.signedIn {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		c.SyncToServer(context.Background())
	})
}

// SyncToServer pushes the full current item set to the server record as a
// wholesale replace. Skipped when a sync is already in flight or the user
// signed out after the push was scheduled. A 401 means the session ended
// mid-flight and is not an error.
func (c *Coordinator) SyncToServer(ctx context.Context) {
	c.mu.Lock()
	if !c.signedIn || c.syncing {
		c.mu.Unlock()
		return
	}
	c.syncing = true
	c.mu.Unlock()
	defer c.release()

	// State is captured here, at fire time, so mutations made after the
	// timer was armed are still included.
	items := c.store.Items()
	if err := c.api.Replace(ctx, items); err != nil && !errors.Is(err, ErrUnauthorized) {
		log.Printf("❌ Cart sync failed: %v", err)
	}
}

// LoadFromServer fetches the server's current item set without touching
// local state.
func (c *Coordinator) LoadFromServer(ctx context.Context) ([]Item, error) {
	return c.api.Fetch(ctx)
}

// MergeWithServer reconciles a local cart and a server cart that evolved
// independently, then pushes the result so both sides converge. Per item id
// the larger quantity wins (max-merge); items present on only one side are
// kept. If the merged total exceeds the cap, quantities are scaled down
// proportionally. Skipped entirely when a sync is already in flight.
func (c *Coordinator) MergeWithServer(ctx context.Context) {
	c.mu.Lock()
	if c.syncing {
		c.mu.Unlock()
		return
	}
	c.syncing = true
	c.mu.Unlock()
	defer c.release()

	serverItems, err := c.LoadFromServer(ctx)
	if err != nil {
		if !errors.Is(err, ErrUnauthorized) {
			log.Printf("❌ Failed to load server cart: %v", err)
		}
		return
	}

	merged := mergeItems(serverItems, c.store.Items())
	merged, scaled := scaleToCap(merged)
	if scaled {
		c.store.warn(fmt.Sprintf("You can't have more than %d items in the cart.", MaxCartQuantity))
	}

	c.store.ReplaceItems(merged)

	if err := c.api.Replace(ctx, merged); err != nil && !errors.Is(err, ErrUnauthorized) {
		log.Printf("❌ Failed to push merged cart: %v", err)
	}
}

// Close cancels any pending debounced push.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Coordinator) release() {
	c.mu.Lock()
	c.syncing = false
	c.mu.Unlock()
}

// mergeItems builds the reconciled set: server items first in their order,
// local-only items appended, and the larger quantity kept where an id
// appears on both sides. Max-merge assumes divergence is the same cart
// evolving in two places, not two independent additions.
func mergeItems(server, local []Item) []Item {
	merged := append([]Item(nil), server...)
	index := make(map[string]int, len(merged))
	for i, it := range merged {
		index[it.ID] = i
	}
	for _, it := range local {
		if i, ok := index[it.ID]; ok {
			if it.Quantity > merged[i].Quantity {
				merged[i].Quantity = it.Quantity
			}
			continue
		}
		index[it.ID] = len(merged)
		merged = append(merged, it)
	}
	return merged
}

// scaleToCap shrinks quantities proportionally when the merged total
// exceeds the cap: floor(quantity × cap ÷ total), never below one per line.
// The one-per-line floor means a set of more than MaxCartQuantity distinct
// lines cannot be brought under the cap; since each side totals at most
// MaxCartQuantity units, that would take over 99 single-quantity lines on
// both sides at once.
func scaleToCap(items []Item) ([]Item, bool) {
	total := 0
	for _, it := range items {
		total += it.Quantity
	}
	if total <= MaxCartQuantity {
		return items, false
	}
	for i := range items {
		q := items[i].Quantity * MaxCartQuantity / total
		if q < 1 {
			q = 1
		}
		items[i].Quantity = q
	}
	return items, true
}
