// Package floor holds the front-of-house state: menu catalog, table registry,
// order ledger, settings and the statistics derived from them.
//
// All mutations go through State.Dispatch, which serializes commands behind a
// single lock so the order/table invariants hold no matter how many devices
// talk to the server. Reads return deep copies.
package floor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kiwari-pos/floor/internal/enum"
)

// Event describes a committed change. Listeners receive events after the
// command that produced them has released the state lock, in commit order.
type Event struct {
	Type     string
	Displays []enum.Display
	Order    *Order
	Table    *Table
	MenuItem *MenuItem
	Settings *Settings
}

// Listener is notified with the events of every successful command.
// Listeners may read the State but must not dispatch commands.
type Listener func(events []Event)

// Result carries the snapshots a command returns to its caller.
type Result struct {
	Order    *Order
	Table    *Table
	MenuItem *MenuItem
	Settings *Settings
}

// Command is a state transition. The set of commands is closed: only this
// package can implement apply.
type Command interface {
	apply(s *State) (Result, []Event, error)
}

// State is the application state shared by every handler.
type State struct {
	mu sync.RWMutex

	now   func() time.Time
	newID func() uuid.UUID

	menu     []MenuItem
	tables   []Table
	orders   []Order
	orderPos map[uuid.UUID]int
	settings Settings
	unread   map[enum.Display]bool

	listeners []Listener
	nextSeq   uint64 // guarded by mu

	// Delivery runs outside mu; seq numbers taken under mu keep it in
	// commit order.
	pubMu     sync.Mutex
	pubCond   *sync.Cond
	published uint64
}

// Option configures a State.
type Option func(*State)

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *State) { s.now = now }
}

// WithIDGenerator overrides uuid.New, mainly for tests.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(s *State) { s.newID = newID }
}

// WithMenu seeds the catalog.
func WithMenu(items []MenuItem) Option {
	return func(s *State) {
		s.menu = append(s.menu, items...)
	}
}

// WithTables seeds the table registry.
func WithTables(tables []Table) Option {
	return func(s *State) {
		for _, t := range tables {
			s.tables = append(s.tables, t.clone())
		}
	}
}

// WithSettings seeds the settings store.
func WithSettings(settings Settings) Option {
	return func(s *State) { s.settings = settings.clone() }
}

// New creates an empty State and applies opts.
func New(opts ...Option) *State {
	s := &State{
		now:      time.Now,
		newID:    uuid.New,
		orderPos: make(map[uuid.UUID]int),
		unread:   make(map[enum.Display]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.settings.Printers == nil {
		s.settings.Printers = []Printer{}
	}
	s.pubCond = sync.NewCond(&s.pubMu)
	return s
}

// Subscribe registers l for all future events.
func (s *State) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Dispatch applies cmd atomically and notifies listeners on success.
func (s *State) Dispatch(ctx context.Context, cmd Command) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	s.mu.Lock()
	res, events, err := cmd.apply(s)
	if err != nil {
		s.mu.Unlock()
		return Result{}, err
	}
	if len(events) == 0 {
		s.mu.Unlock()
		return res, nil
	}
	s.nextSeq++
	seq := s.nextSeq
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	s.publish(seq, listeners, events)
	return res, nil
}

// publish waits until every earlier commit has been delivered, then runs
// listeners for seq.
func (s *State) publish(seq uint64, listeners []Listener, events []Event) {
	s.pubMu.Lock()
	for s.published != seq-1 {
		s.pubCond.Wait()
	}
	defer func() {
		s.published = seq
		s.pubCond.Broadcast()
		s.pubMu.Unlock()
	}()
	for _, l := range listeners {
		l(events)
	}
}

// --- Lookup helpers (callers hold the lock) ---

func (s *State) tableIndex(id int) (int, error) {
	for i := range s.tables {
		if s.tables[i].ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("table %d: %w", id, ErrTableNotFound)
}

func (s *State) orderIndex(id uuid.UUID) (int, error) {
	i, ok := s.orderPos[id]
	if !ok {
		return -1, fmt.Errorf("order %s: %w", id, ErrOrderNotFound)
	}
	return i, nil
}

func (s *State) menuIndex(id uuid.UUID) (int, error) {
	for i := range s.menu {
		if s.menu[i].ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("menu item %s: %w", id, ErrMenuItemNotFound)
}

// currentOrder returns the order the table points at, if it still exists.
func (s *State) currentOrder(t *Table) *Order {
	if t.CurrentOrderID == nil {
		return nil
	}
	i, ok := s.orderPos[*t.CurrentOrderID]
	if !ok {
		return nil
	}
	return &s.orders[i]
}

// touch stamps a mutation on o.
func (s *State) touch(o *Order) {
	now := s.now()
	o.UpdatedAt = &now
	o.Version++
}

// freeTable releases the table owning o if it still points at o.
func (s *State) freeTable(o *Order) *Table {
	i, err := s.tableIndex(o.TableNumber)
	if err != nil {
		return nil
	}
	t := &s.tables[i]
	if t.CurrentOrderID == nil || *t.CurrentOrderID != o.ID {
		return nil
	}
	t.IsOccupied = false
	t.CurrentOrderID = nil
	return t
}

func (s *State) markUnread(items []OrderItem) {
	for _, item := range items {
		s.unread[item.Category.Display()] = true
	}
	s.unread[enum.DisplayFloor] = true
}

// checkVersion rejects a write based on a stale read. Zero skips the check.
func checkVersion(o *Order, expected int64) error {
	if expected != 0 && expected != o.Version {
		return fmt.Errorf("%w: order %s is at version %d, not %d", ErrVersionConflict, o.ID, o.Version, expected)
	}
	return nil
}

// --- Event builders ---

func orderEvent(typ string, o *Order) Event {
	snap := o.clone()
	displays := append([]enum.Display{enum.DisplayFloor}, o.Displays()...)
	if len(o.Items) == 0 {
		displays = []enum.Display{enum.DisplayFloor, enum.DisplayKitchen, enum.DisplayDrinks}
	}
	return Event{Type: typ, Displays: displays, Order: &snap}
}

func tableEvent(typ string, t *Table) Event {
	snap := t.clone()
	return Event{Type: typ, Displays: []enum.Display{enum.DisplayFloor}, Table: &snap}
}

func orderResult(o *Order) Result {
	snap := o.clone()
	return Result{Order: &snap}
}
