package floor

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kiwari-pos/floor/internal/enum"
	"github.com/shopspring/decimal"
)

// testClock is a manually advanced clock.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// testFloor bundles a State with the fixtures tests refer to by name.
type testFloor struct {
	*State
	clock *testClock
	items map[string]MenuItem
}

func newTestFloor(t *testing.T) *testFloor {
	t.Helper()
	clock := &testClock{now: time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)}
	menu := []MenuItem{
		{ID: uuid.New(), Name: "Pasta", Price: decimal.RequireFromString("10.00"), Category: enum.CategoryMainDishes, Available: true},
		{ID: uuid.New(), Name: "Salad", Price: decimal.RequireFromString("5.00"), Category: enum.CategorySides, Available: true},
		{ID: uuid.New(), Name: "Cola", Price: decimal.RequireFromString("2.50"), Category: enum.CategoryDrinks, Available: true},
		{ID: uuid.New(), Name: "Soup", Price: decimal.RequireFromString("4.00"), Category: enum.CategoryAppetizers, Available: false},
	}
	s := New(
		WithClock(clock.Now),
		WithMenu(menu),
		WithTables(DemoTables(8)),
	)
	items := make(map[string]MenuItem, len(menu))
	for _, m := range menu {
		items[m.Name] = m
	}
	return &testFloor{State: s, clock: clock, items: items}
}

func (f *testFloor) line(name string, qty int) ItemInput {
	return ItemInput{MenuItemID: f.items[name].ID, Quantity: qty}
}

// mustOrder creates an order on tableID or fails the test.
func (f *testFloor) mustOrder(t *testing.T, tableID, people int, lines ...ItemInput) Order {
	t.Helper()
	o, err := f.CreateOrUpdateOrder(context.Background(), CreateOrder{
		TableID:     tableID,
		Waiter:      Waiter{ID: uuid.New(), Name: "Ana"},
		Items:       lines,
		PeopleCount: people,
	})
	if err != nil {
		t.Fatalf("create order on table %d: %v", tableID, err)
	}
	if o == nil {
		t.Fatalf("create order on table %d: got nil order", tableID)
	}
	return *o
}

func (f *testFloor) mustTable(t *testing.T, id int) Table {
	t.Helper()
	tbl, err := f.Table(id)
	if err != nil {
		t.Fatalf("table %d: %v", id, err)
	}
	return tbl
}

func (f *testFloor) mustGetOrder(t *testing.T, id uuid.UUID) Order {
	t.Helper()
	o, err := f.Order(id)
	if err != nil {
		t.Fatalf("order %s: %v", id, err)
	}
	return o
}

// sumLines recomputes the expected total independently of Order.recomputeTotal.
func sumLines(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

func assertTotal(t *testing.T, o Order) {
	t.Helper()
	if want := sumLines(o.Items); !o.TotalAmount.Equal(want) {
		t.Errorf("total_amount: got %s, want %s", o.TotalAmount, want)
	}
}
