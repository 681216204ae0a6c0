package floor

import (
	"time"

	"github.com/google/uuid"
	"github.com/kiwari-pos/floor/internal/enum"
	"github.com/shopspring/decimal"
)

// MenuItem is a catalog entry. Order lines copy name, price and category at
// order time, so edits here never rewrite history.
type MenuItem struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       decimal.Decimal   `json:"price"`
	Category    enum.MenuCategory `json:"category"`
	Available   bool              `json:"available"`
}

// Table is a physical table on the floor.
// CurrentOrderID is a lookup pointer into the ledger, not ownership.
type Table struct {
	ID             int        `json:"id"`
	Name           string     `json:"name"`
	Capacity       int        `json:"capacity"`
	IsOccupied     bool       `json:"is_occupied"`
	IsReserved     bool       `json:"is_reserved"`
	PeopleCount    int        `json:"people_count"`
	CurrentOrderID *uuid.UUID `json:"current_order_id,omitempty"`
}

func (t Table) clone() Table {
	if t.CurrentOrderID != nil {
		id := *t.CurrentOrderID
		t.CurrentOrderID = &id
	}
	return t
}

// OrderItem is a single order line. Duplicate lines for the same menu item
// keep independent completion flags.
type OrderItem struct {
	MenuItemID uuid.UUID         `json:"menu_item_id"`
	Name       string            `json:"name"`
	Price      decimal.Decimal   `json:"price"`
	Category   enum.MenuCategory `json:"category"`
	Quantity   int               `json:"quantity"`
	Notes      string            `json:"notes,omitempty"`
	Completed  bool              `json:"completed"`

	// Line is the position on the order. Filled in on snapshots so screens
	// that see a filtered subset can still address the ledger line.
	Line int `json:"line"`
}

// Subtotal returns price * quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a ledger record. Orders are never removed from the ledger.
type Order struct {
	ID          uuid.UUID        `json:"id"`
	TableNumber int              `json:"table_number"`
	WaiterID    uuid.UUID        `json:"waiter_id"`
	WaiterName  string           `json:"waiter_name"`
	Items       []OrderItem      `json:"items"`
	Status      enum.OrderStatus `json:"status"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
	PeopleCount int              `json:"people_count"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   *time.Time       `json:"updated_at,omitempty"`
	Notes       string           `json:"notes,omitempty"`
	Delayed     bool             `json:"delayed"`
	DelayReason string           `json:"delay_reason,omitempty"`
	IsPaid      bool             `json:"is_paid"`
	PaidAt      *time.Time       `json:"paid_at,omitempty"`

	// Version increments on every mutation. Callers pass the version they
	// last read to detect concurrent edits from another device.
	Version int64 `json:"version"`
}

func (o Order) clone() Order {
	items := make([]OrderItem, len(o.Items))
	copy(items, o.Items)
	for i := range items {
		items[i].Line = i
	}
	o.Items = items
	if o.UpdatedAt != nil {
		t := *o.UpdatedAt
		o.UpdatedAt = &t
	}
	if o.PaidAt != nil {
		t := *o.PaidAt
		o.PaidAt = &t
	}
	return o
}

// recomputeTotal keeps TotalAmount equal to the sum of line subtotals.
func (o *Order) recomputeTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	o.TotalAmount = total
}

// allCompleted reports whether the order has lines and every line is done.
func (o *Order) allCompleted() bool {
	if len(o.Items) == 0 {
		return false
	}
	for _, item := range o.Items {
		if !item.Completed {
			return false
		}
	}
	return true
}

// Displays returns the screens that have lines on this order.
func (o Order) Displays() []enum.Display {
	var kitchen, drinks bool
	for _, item := range o.Items {
		switch item.Category.Display() {
		case enum.DisplayDrinks:
			drinks = true
		default:
			kitchen = true
		}
	}
	var out []enum.Display
	if kitchen {
		out = append(out, enum.DisplayKitchen)
	}
	if drinks {
		out = append(out, enum.DisplayDrinks)
	}
	return out
}

// Waiter identifies the staff member submitting a cart.
type Waiter struct {
	ID   uuid.UUID
	Name string
}

// ItemInput is one cart line submitted by a waiter.
type ItemInput struct {
	MenuItemID uuid.UUID
	Quantity   int
	Notes      string
}

// EmergencyFlags switch the floor into degraded modes.
type EmergencyFlags struct {
	KitchenOffline bool `json:"kitchen_offline"`
	DrinksOffline  bool `json:"drinks_offline"`
	CashOnly       bool `json:"cash_only"`
}

// Printer is a ticket printer attached to a display station.
type Printer struct {
	ID      uuid.UUID    `json:"id"`
	Name    string       `json:"name"`
	Address string       `json:"address"`
	Display enum.Display `json:"display"`
}

// Settings holds per-venue configuration edited from the admin screen.
type Settings struct {
	SeatCharge decimal.Decimal `json:"seat_charge"`
	Emergency  EmergencyFlags  `json:"emergency"`
	Printers   []Printer       `json:"printers"`
}

func (s Settings) clone() Settings {
	printers := make([]Printer, len(s.Printers))
	copy(printers, s.Printers)
	s.Printers = printers
	return s
}
