package cartstore

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/shopspring/decimal"
)

// MaxCartQuantity caps the summed quantity across all lines in a cart.
const MaxCartQuantity = 99

// DefaultStorageKey is the key the cart persists under when none is given.
const DefaultStorageKey = "cart-storage"

// Item is one cart line in the client/wire shape. Name, price and image are
// snapshots taken when the product was added; they are not re-fetched from
// the catalog.
type Item struct {
	ID        string          `json:"id"` // provider product id
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"` // major units
	ImageURL  string          `json:"imageUrl,omitempty"`
	Quantity  int             `json:"quantity"`
}

// Notifier receives advisory warnings (the quantity cap). Warnings are never
// errors: a cart mutation must not block the shopper.
type Notifier interface {
	Warn(message string)
}

type logNotifier struct{}

func (logNotifier) Warn(message string) { log.Printf("⚠️ %s", message) }

// persistedState is the slice of store state that survives a reload.
// The syncing and auth flags are runtime-only and never serialize.
type persistedState struct {
	Items     []Item `json:"items"`
	PanelOpen bool   `json:"isPanelOpen"`
}

// Store holds the canonical local cart state. Every mutation enforces the
// quantity cap, writes through to durable storage and reports partial
// satisfaction via the Notifier instead of returning an error.
type Store struct {
	mu         sync.Mutex
	items      []Item
	panelOpen  bool
	storage    Storage
	storageKey string
	notifier   Notifier
	onChange   func()
}

type StoreOption func(*Store)

// WithStorage makes the store write through to s under the given key and
// rehydrate from it on construction. An empty key uses DefaultStorageKey.
func WithStorage(s Storage, key string) StoreOption {
	return func(st *Store) {
		st.storage = s
		if key != "" {
			st.storageKey = key
		}
	}
}

func WithNotifier(n Notifier) StoreOption {
	return func(st *Store) { st.notifier = n }
}

func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		notifier:   logNotifier{},
		storageKey: DefaultStorageKey,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.rehydrate()
	return s
}

// AddItem inserts item, or tops up the existing line with the same id.
// The granted quantity is clamped to the cap headroom; a truncated or
// rejected add emits a warning and returns normally.
func (s *Store) AddItem(item Item) {
	if item.Quantity <= 0 {
		return
	}

	s.mu.Lock()
	headroom := MaxCartQuantity - s.totalQuantityLocked()
	if headroom <= 0 {
		s.mu.Unlock()
		s.notifier.Warn(fmt.Sprintf("You can't have more than %d items in the cart.", MaxCartQuantity))
		return
	}

	granted := item.Quantity
	if granted > headroom {
		granted = headroom
	}
	capped := granted < item.Quantity

	found := false
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Quantity += granted
			found = true
			break
		}
	}
	if !found {
		item.Quantity = granted
		s.items = append(s.items, item)
	}
	s.persistLocked()
	changed := s.onChange
	s.mu.Unlock()

	if capped {
		s.notifier.Warn(fmt.Sprintf("You can't have more than %d items in your cart.", MaxCartQuantity))
	}
	if changed != nil {
		changed()
	}
}

// RemoveItem deletes the line with the given id. Removing an unknown id is
// a silent no-op.
func (s *Store) RemoveItem(id string) {
	s.mu.Lock()
	kept := s.items[:0]
	removed := false
	for _, it := range s.items {
		if it.ID == id {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	s.items = kept
	var changed func()
	if removed {
		s.persistLocked()
		changed = s.onChange
	}
	s.mu.Unlock()

	if changed != nil {
		changed()
	}
}

// UpdateItemQuantity sets the quantity of an existing line. Non-positive
// quantities remove the line; requests beyond the cap headroom (computed
// from the other lines) are clamped and warned about. Unknown ids are a
// no-op.
func (s *Store) UpdateItemQuantity(id string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(id)
		return
	}

	s.mu.Lock()
	idx := -1
	othersTotal := 0
	for i, it := range s.items {
		if it.ID == id {
			idx = i
			continue
		}
		othersTotal += it.Quantity
	}
	if idx == -1 {
		s.mu.Unlock()
		return
	}

	headroom := MaxCartQuantity - othersTotal
	granted := quantity
	if granted > headroom {
		granted = headroom
	}
	capped := granted < quantity

	s.items[idx].Quantity = granted
	s.persistLocked()
	changed := s.onChange
	s.mu.Unlock()

	if capped {
		s.notifier.Warn(fmt.Sprintf("You can't have more than %d items in your cart.", MaxCartQuantity))
	}
	if changed != nil {
		changed()
	}
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.persistLocked()
	changed := s.onChange
	s.mu.Unlock()

	if changed != nil {
		changed()
	}
}

// ReplaceItems swaps the whole item set in one step. It persists but does
// not fire the items-changed hook: the sync coordinator uses it while
// reconciling and pushes the result itself.
func (s *Store) ReplaceItems(items []Item) {
	s.mu.Lock()
	s.items = append([]Item(nil), items...)
	s.persistLocked()
	s.mu.Unlock()
}

// Items returns a copy of the current lines in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Item(nil), s.items...)
}

// TotalPrice returns Σ unitPrice × quantity over all lines.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// TotalQuantity returns Σ quantity over all lines.
func (s *Store) TotalQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalQuantityLocked()
}

func (s *Store) SetPanelOpen(open bool) {
	s.mu.Lock()
	s.panelOpen = open
	s.persistLocked()
	s.mu.Unlock()
}

func (s *Store) PanelOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.panelOpen
}

func (s *Store) warn(message string) { s.notifier.Warn(message) }

// setOnChange registers the items-changed hook. The hook runs outside the
// store lock, after the mutation has persisted.
func (s *Store) setOnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Store) totalQuantityLocked() int {
	total := 0
	for _, it := range s.items {
		total += it.Quantity
	}
	return total
}

// persistLocked writes the persisted slice of state through to storage.
// Storage failures are logged and swallowed: the in-memory cart stays
// authoritative.
func (s *Store) persistLocked() {
	if s.storage == nil {
		return
	}
	data, err := json.Marshal(persistedState{Items: s.items, PanelOpen: s.panelOpen})
	if err != nil {
		log.Printf("❌ Failed to encode cart state: %v", err)
		return
	}
	if err := s.storage.Save(s.storageKey, data); err != nil {
		log.Printf("❌ Failed to persist cart state: %v", err)
	}
}

func (s *Store) rehydrate() {
	if s.storage == nil {
		return
	}
	data, err := s.storage.Load(s.storageKey)
	if err != nil {
		log.Printf("❌ Failed to load persisted cart state: %v", err)
		return
	}
	if len(data) == 0 {
		return
	}
	var state persistedState
	if err := json.Unmarshal(data, &state); err != nil {
		log.Printf("❌ Ignoring corrupt persisted cart state: %v", err)
		return
	}
	s.items = state.Items
	s.panelOpen = state.PanelOpen
}
