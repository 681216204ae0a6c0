package floor

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kiwari-pos/floor/internal/enum"
)

// --- Commands ---

// CreateOrder submits a waiter's cart for a table. An empty cart abandons the
// in-progress order instead: no order is written and the table's people count
// drops to zero.
type CreateOrder struct {
	TableID     int
	Waiter      Waiter
	Items       []ItemInput
	PeopleCount int // 0 keeps whatever the table or order already has
	Notes       string
	Version     int64
}

// SetOrderStatus is an explicit workflow transition.
type SetOrderStatus struct {
	OrderID uuid.UUID
	Status  enum.OrderStatus
	Version int64
}

// SetItemCompletion toggles the first line for MenuItemID.
type SetItemCompletion struct {
	OrderID    uuid.UUID
	MenuItemID uuid.UUID
	Completed  bool
	Version    int64
}

// SetLineCompletion toggles a line by position, for orders that repeat a
// menu item on several lines.
type SetLineCompletion struct {
	OrderID   uuid.UUID
	Line      int
	Completed bool
	Version   int64
}

// DelayOrder flags an order as running late. Status is unchanged.
type DelayOrder struct {
	OrderID uuid.UUID
	Reason  string
	Version int64
}

// CancelOrderItem removes the first line for MenuItemID.
type CancelOrderItem struct {
	OrderID    uuid.UUID
	MenuItemID uuid.UUID
	Version    int64
}

// MarkTableAsPaid settles the table's unpaid active order.
type MarkTableAsPaid struct {
	TableID int
}

// ResetTable frees a table for the next party.
type ResetTable struct {
	TableID int
}

func (c CreateOrder) apply(s *State) (Result, []Event, error) {
	ti, err := s.tableIndex(c.TableID)
	if err != nil {
		return Result{}, nil, err
	}
	if c.PeopleCount < 0 {
		return Result{}, nil, ErrInvalidPeopleCount
	}
	t := &s.tables[ti]

	if len(c.Items) == 0 {
		t.PeopleCount = 0
		snap := t.clone()
		return Result{Table: &snap}, []Event{tableEvent(enum.EventTableUpdated, t)}, nil
	}

	items, err := s.snapshotItems(c.Items)
	if err != nil {
		return Result{}, nil, err
	}

	if o := s.currentOrder(t); o != nil && !o.IsPaid {
		if err := checkVersion(o, c.Version); err != nil {
			return Result{}, nil, err
		}
		o.Items = items
		o.Notes = c.Notes
		if c.PeopleCount > 0 {
			o.PeopleCount = c.PeopleCount
			t.PeopleCount = c.PeopleCount
		}
		o.recomputeTotal()
		s.touch(o)
		s.markUnread(items)
		return orderResult(o), []Event{orderEvent(enum.EventOrderUpdated, o)}, nil
	}

	people := c.PeopleCount
	if people == 0 {
		people = t.PeopleCount
	}
	if people == 0 {
		return Result{}, nil, ErrPeopleCountRequired
	}

	s.orders = append(s.orders, Order{
		ID:          s.newID(),
		TableNumber: t.ID,
		WaiterID:    c.Waiter.ID,
		WaiterName:  c.Waiter.Name,
		Items:       items,
		Status:      enum.OrderStatusPending,
		PeopleCount: people,
		CreatedAt:   s.now(),
		Notes:       c.Notes,
		Version:     1,
	})
	o := &s.orders[len(s.orders)-1]
	o.recomputeTotal()
	s.orderPos[o.ID] = len(s.orders) - 1

	id := o.ID
	t.CurrentOrderID = &id
	t.IsOccupied = true
	t.IsReserved = false
	t.PeopleCount = people
	s.markUnread(items)

	return orderResult(o), []Event{
		orderEvent(enum.EventOrderCreated, o),
		tableEvent(enum.EventTableUpdated, t),
	}, nil
}

// snapshotItems resolves cart lines against the catalog.
func (s *State) snapshotItems(in []ItemInput) ([]OrderItem, error) {
	items := make([]OrderItem, 0, len(in))
	for i, line := range in {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("items[%d]: %w", i, ErrInvalidQuantity)
		}
		mi, err := s.menuIndex(line.MenuItemID)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		m := s.menu[mi]
		if !m.Available {
			return nil, fmt.Errorf("items[%d]: %s: %w", i, m.Name, ErrMenuItemUnavailable)
		}
		items = append(items, OrderItem{
			MenuItemID: m.ID,
			Name:       m.Name,
			Price:      m.Price,
			Category:   m.Category,
			Quantity:   line.Quantity,
			Notes:      line.Notes,
		})
	}
	return items, nil
}

func (c SetOrderStatus) apply(s *State) (Result, []Event, error) {
	oi, err := s.orderIndex(c.OrderID)
	if err != nil {
		return Result{}, nil, err
	}
	o := &s.orders[oi]
	if err := checkVersion(o, c.Version); err != nil {
		return Result{}, nil, err
	}
	if err := validateStatusTransition(o.Status, c.Status); err != nil {
		return Result{}, nil, err
	}

	o.Status = c.Status
	s.touch(o)
	events := []Event{orderEvent(enum.EventOrderStatus, o)}
	if c.Status.Terminal() {
		if t := s.freeTable(o); t != nil {
			events = append(events, tableEvent(enum.EventTableUpdated, t))
		}
	}
	return orderResult(o), events, nil
}

func (c SetItemCompletion) apply(s *State) (Result, []Event, error) {
	oi, err := s.orderIndex(c.OrderID)
	if err != nil {
		return Result{}, nil, err
	}
	o := &s.orders[oi]
	line := -1
	for i := range o.Items {
		if o.Items[i].MenuItemID == c.MenuItemID {
			line = i
			break
		}
	}
	if line < 0 {
		return Result{}, nil, fmt.Errorf("menu item %s on order %s: %w", c.MenuItemID, o.ID, ErrOrderItemNotFound)
	}
	return s.setCompletion(o, line, c.Completed, c.Version)
}

func (c SetLineCompletion) apply(s *State) (Result, []Event, error) {
	oi, err := s.orderIndex(c.OrderID)
	if err != nil {
		return Result{}, nil, err
	}
	o := &s.orders[oi]
	if c.Line < 0 || c.Line >= len(o.Items) {
		return Result{}, nil, fmt.Errorf("line %d on order %s: %w", c.Line, o.ID, ErrOrderItemNotFound)
	}
	return s.setCompletion(o, c.Line, c.Completed, c.Version)
}

func (s *State) setCompletion(o *Order, line int, completed bool, version int64) (Result, []Event, error) {
	if err := checkVersion(o, version); err != nil {
		return Result{}, nil, err
	}
	o.Items[line].Completed = completed
	promoted := promote(o)
	s.touch(o)

	events := []Event{orderEvent(enum.EventItemCompletion, o)}
	if promoted {
		events = append(events, orderEvent(enum.EventOrderStatus, o))
	}
	return orderResult(o), events, nil
}

func (c DelayOrder) apply(s *State) (Result, []Event, error) {
	oi, err := s.orderIndex(c.OrderID)
	if err != nil {
		return Result{}, nil, err
	}
	o := &s.orders[oi]
	if err := checkVersion(o, c.Version); err != nil {
		return Result{}, nil, err
	}
	if o.Status.Terminal() {
		return Result{}, nil, fmt.Errorf("order %s: %w", o.ID, ErrOrderClosed)
	}
	o.Delayed = true
	o.DelayReason = c.Reason
	s.touch(o)
	return orderResult(o), []Event{orderEvent(enum.EventOrderDelayed, o)}, nil
}

func (c CancelOrderItem) apply(s *State) (Result, []Event, error) {
	oi, err := s.orderIndex(c.OrderID)
	if err != nil {
		return Result{}, nil, err
	}
	o := &s.orders[oi]
	if err := checkVersion(o, c.Version); err != nil {
		return Result{}, nil, err
	}
	if o.Status.Terminal() {
		return Result{}, nil, fmt.Errorf("order %s: %w", o.ID, ErrOrderClosed)
	}

	line := -1
	for i := range o.Items {
		if o.Items[i].MenuItemID == c.MenuItemID {
			line = i
			break
		}
	}
	if line < 0 {
		return Result{}, nil, fmt.Errorf("menu item %s on order %s: %w", c.MenuItemID, o.ID, ErrOrderItemNotFound)
	}

	// Announce to the displays that held the line before it disappears.
	canceled := orderEvent(enum.EventItemCanceled, o)

	o.Items = append(o.Items[:line:line], o.Items[line+1:]...)
	o.recomputeTotal()
	s.touch(o)
	snap := o.clone()
	canceled.Order = &snap

	events := []Event{canceled}
	if len(o.Items) == 0 {
		o.Items = []OrderItem{}
		o.Status = enum.OrderStatusCanceled
		events = append(events, orderEvent(enum.EventOrderStatus, o))
		if t := s.freeTable(o); t != nil {
			events = append(events, tableEvent(enum.EventTableUpdated, t))
		}
	}
	return orderResult(o), events, nil
}

// payable reports whether o can still be settled.
func payable(o *Order) bool {
	return !o.IsPaid && o.Status != enum.OrderStatusCanceled
}

func (c MarkTableAsPaid) apply(s *State) (Result, []Event, error) {
	ti, err := s.tableIndex(c.TableID)
	if err != nil {
		return Result{}, nil, err
	}
	t := &s.tables[ti]

	o := s.currentOrder(t)
	if o == nil || !payable(o) {
		o = nil
		// Delivery clears the table reference, so fall back to the newest
		// unpaid order recorded for this table.
		for i := len(s.orders) - 1; i >= 0; i-- {
			if s.orders[i].TableNumber == t.ID && payable(&s.orders[i]) {
				o = &s.orders[i]
				break
			}
		}
	}
	if o == nil {
		return Result{}, nil, fmt.Errorf("table %d: %w", t.ID, ErrNoPayableOrder)
	}

	now := s.now()
	o.IsPaid = true
	o.PaidAt = &now
	s.touch(o)
	return orderResult(o), []Event{orderEvent(enum.EventOrderPaid, o)}, nil
}

func (c ResetTable) apply(s *State) (Result, []Event, error) {
	ti, err := s.tableIndex(c.TableID)
	if err != nil {
		return Result{}, nil, err
	}
	t := &s.tables[ti]
	prev := t.clone()

	var events []Event
	if o := s.currentOrder(t); o != nil && !o.Status.Terminal() {
		o.Status = enum.OrderStatusDelivered
		s.touch(o)
		events = append(events, orderEvent(enum.EventOrderStatus, o))
	}

	t.IsOccupied = false
	t.CurrentOrderID = nil
	t.PeopleCount = 0
	events = append(events, tableEvent(enum.EventTableReset, t))
	return Result{Table: &prev}, events, nil
}

// --- Typed entry points ---

// CreateOrUpdateOrder dispatches a CreateOrder. It returns a nil order and a
// nil error when the cart was empty.
func (s *State) CreateOrUpdateOrder(ctx context.Context, cmd CreateOrder) (*Order, error) {
	res, err := s.Dispatch(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return res.Order, nil
}

// UpdateOrderStatus moves an order along the workflow. Delivered and canceled
// free the owning table.
func (s *State) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enum.OrderStatus, version int64) (*Order, error) {
	res, err := s.Dispatch(ctx, SetOrderStatus{OrderID: orderID, Status: status, Version: version})
	return res.Order, err
}

// UpdateItemCompletionStatus toggles one line and applies auto-promotion.
func (s *State) UpdateItemCompletionStatus(ctx context.Context, orderID, menuItemID uuid.UUID, completed bool, version int64) (*Order, error) {
	res, err := s.Dispatch(ctx, SetItemCompletion{OrderID: orderID, MenuItemID: menuItemID, Completed: completed, Version: version})
	return res.Order, err
}

// UpdateLineCompletionStatus toggles a line by index and applies auto-promotion.
func (s *State) UpdateLineCompletionStatus(ctx context.Context, orderID uuid.UUID, line int, completed bool, version int64) (*Order, error) {
	res, err := s.Dispatch(ctx, SetLineCompletion{OrderID: orderID, Line: line, Completed: completed, Version: version})
	return res.Order, err
}

func (s *State) DelayOrder(ctx context.Context, orderID uuid.UUID, reason string, version int64) (*Order, error) {
	res, err := s.Dispatch(ctx, DelayOrder{OrderID: orderID, Reason: reason, Version: version})
	return res.Order, err
}

func (s *State) CancelOrderItem(ctx context.Context, orderID, menuItemID uuid.UUID, version int64) (*Order, error) {
	res, err := s.Dispatch(ctx, CancelOrderItem{OrderID: orderID, MenuItemID: menuItemID, Version: version})
	return res.Order, err
}

// MarkTableAsPaid returns ErrNoPayableOrder when the table has nothing left
// to settle.
func (s *State) MarkTableAsPaid(ctx context.Context, tableID int) (*Order, error) {
	res, err := s.Dispatch(ctx, MarkTableAsPaid{TableID: tableID})
	return res.Order, err
}

// ResetTable returns the table as it was before the reset.
func (s *State) ResetTable(ctx context.Context, tableID int) (Table, error) {
	res, err := s.Dispatch(ctx, ResetTable{TableID: tableID})
	if err != nil {
		return Table{}, err
	}
	return *res.Table, nil
}

// --- Reads ---

// Order returns a snapshot of a single order.
func (s *State) Order(id uuid.UUID) (Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, err := s.orderIndex(id)
	if err != nil {
		return Order{}, err
	}
	return s.orders[i].clone(), nil
}

// FilteredOrders returns the ledger in insertion order, optionally restricted
// to one status.
func (s *State) FilteredOrders(status *enum.OrderStatus) []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Order, 0, len(s.orders))
	for _, o := range s.orders {
		if status != nil && o.Status != *status {
			continue
		}
		out = append(out, o.clone())
	}
	return out
}

// ActiveOrders returns every order not yet delivered or canceled.
func (s *State) ActiveOrders() []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Order
	for _, o := range s.orders {
		if !o.Status.Terminal() {
			out = append(out, o.clone())
		}
	}
	return out
}

// DisplayQueue returns the open orders a screen works on, oldest first. For
// kitchen and drinks the lines are filtered to the ones that screen prepares;
// orders with nothing for the screen are left out.
func (s *State) DisplayQueue(display enum.Display) ([]Order, error) {
	if !display.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDisplay, display)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Order{}
	for _, o := range s.orders {
		if o.Status.Terminal() {
			continue
		}
		snap := o.clone()
		if display != enum.DisplayFloor {
			lines := snap.Items[:0]
			for _, item := range snap.Items {
				if item.Category.Display() == display {
					lines = append(lines, item)
				}
			}
			if len(lines) == 0 {
				continue
			}
			snap.Items = lines
		}
		out = append(out, snap)
	}
	return out, nil
}

// HasNewOrders reports whether display has unread order submissions.
func (s *State) HasNewOrders(display enum.Display) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread[display]
}
