package floor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/kiwari-pos/floor/internal/enum"
	"github.com/shopspring/decimal"
)

func TestDispatch_NotifiesListeners(t *testing.T) {
	f := newTestFloor(t)
	var got [][]Event
	f.Subscribe(func(events []Event) { got = append(got, events) })

	o := f.mustOrder(t, 1, 2, f.line("Pasta", 1), f.line("Cola", 1))

	if len(got) != 1 {
		t.Fatalf("notifications: got %d, want 1", len(got))
	}
	events := got[0]
	if len(events) != 2 {
		t.Fatalf("events: got %d, want 2", len(events))
	}
	if events[0].Type != enum.EventOrderCreated || events[0].Order.ID != o.ID {
		t.Errorf("events[0]: got %s", events[0].Type)
	}
	wantDisplays := map[enum.Display]bool{enum.DisplayFloor: true, enum.DisplayKitchen: true, enum.DisplayDrinks: true}
	for _, d := range events[0].Displays {
		delete(wantDisplays, d)
	}
	if len(wantDisplays) != 0 {
		t.Errorf("order event missing displays %v", wantDisplays)
	}
	if events[1].Type != enum.EventTableUpdated || events[1].Table.ID != 1 {
		t.Errorf("events[1]: got %s", events[1].Type)
	}
}

func TestDispatch_NoEventsOnError(t *testing.T) {
	f := newTestFloor(t)
	calls := 0
	f.Subscribe(func([]Event) { calls++ })

	if _, err := f.UpdateOrderStatus(context.Background(), uuid.New(), enum.OrderStatusReady, 0); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("error: got %v, want ErrOrderNotFound", err)
	}
	if calls != 0 {
		t.Errorf("listener called %d times for a failed command", calls)
	}
}

func TestDispatch_CanceledContext(t *testing.T) {
	f := newTestFloor(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.CreateOrUpdateOrder(ctx, CreateOrder{TableID: 1, PeopleCount: 2, Items: []ItemInput{f.line("Pasta", 1)}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error: got %v, want context.Canceled", err)
	}
	if tbl := f.mustTable(t, 1); tbl.IsOccupied {
		t.Error("canceled dispatch mutated state")
	}
}

func TestDispatch_ListenerMayReadState(t *testing.T) {
	f := newTestFloor(t)
	var occupied bool
	f.Subscribe(func([]Event) {
		tbl, err := f.Table(1)
		if err == nil {
			occupied = tbl.IsOccupied
		}
	})
	f.mustOrder(t, 1, 2, f.line("Pasta", 1))
	if !occupied {
		t.Error("listener did not observe committed state")
	}
}

func TestDispatch_ConcurrentWritersKeepInvariants(t *testing.T) {
	f := newTestFloor(t)
	ctx := context.Background()
	o := f.mustOrder(t, 1, 2, f.line("Pasta", 1), f.line("Salad", 1), f.line("Cola", 1))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, _ = f.UpdateLineCompletionStatus(ctx, o.ID, i%3, i%2 == 0, 0)
		}(i)
		go func() {
			defer wg.Done()
			_, _ = f.UpdateTablePeopleCount(ctx, 1, 3)
			_ = f.Tables()
		}()
	}
	wg.Wait()

	got := f.mustGetOrder(t, o.ID)
	assertTotal(t, got)
	if got.Version != o.Version+100 {
		t.Errorf("version: got %d, want %d", got.Version, o.Version+100)
	}
	if got.Status == enum.OrderStatusPending {
		t.Error("status still pending after completion toggles")
	}
}

func TestDispatch_ListenersSeeCommitOrder(t *testing.T) {
	f := newTestFloor(t)
	ctx := context.Background()
	o := f.mustOrder(t, 1, 2, f.line("Pasta", 1), f.line("Salad", 1))
	pasta := f.items["Pasta"].ID

	// Delivery is serialized, so the listener needs no lock of its own.
	var versions []int64
	f.Subscribe(func(events []Event) {
		for _, e := range events {
			if e.Type == enum.EventItemCompletion && e.Order.ID == o.ID {
				versions = append(versions, e.Order.Version)
			}
		}
	})

	const writers, perWriter = 8, 100
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_, _ = f.UpdateItemCompletionStatus(ctx, o.ID, pasta, (w+i)%2 == 0, 0)
			}
		}(w)
	}
	wg.Wait()

	if len(versions) != writers*perWriter {
		t.Fatalf("events: got %d, want %d", len(versions), writers*perWriter)
	}
	for i := 1; i < len(versions); i++ {
		if versions[i] <= versions[i-1] {
			t.Fatalf("version went backwards at event %d: %d after %d", i, versions[i], versions[i-1])
		}
	}
}

func TestWithSettings(t *testing.T) {
	s := New(WithSettings(Settings{SeatCharge: decimal.NewFromInt(2)}))
	st := s.Settings()
	if !st.SeatCharge.Equal(decimal.NewFromInt(2)) {
		t.Errorf("seat_charge: got %s, want 2", st.SeatCharge)
	}
	if st.Printers == nil {
		t.Error("printers: got nil, want empty list")
	}
}

func TestWithIDGenerator(t *testing.T) {
	fixed := uuid.MustParse("6f1c1b3e-3a0b-4b1e-9a57-0d9f6f8e2a11")
	s := New(
		WithIDGenerator(func() uuid.UUID { return fixed }),
		WithTables(DemoTables(1)),
		WithMenu([]MenuItem{{ID: uuid.New(), Name: "Tea", Price: decimal.NewFromInt(2), Category: enum.CategoryDrinks, Available: true}}),
	)
	menu := s.MenuItems(nil)
	o, err := s.CreateOrUpdateOrder(context.Background(), CreateOrder{
		TableID:     1,
		PeopleCount: 1,
		Items:       []ItemInput{{MenuItemID: menu[0].ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if o.ID != fixed {
		t.Errorf("id: got %s, want %s", o.ID, fixed)
	}
}

func TestCanTransition(t *testing.T) {
	if !CanTransition(enum.OrderStatusReady, enum.OrderStatusDelivered) {
		t.Error("ready -> delivered should be allowed")
	}
	if CanTransition(enum.OrderStatusDelivered, enum.OrderStatusPending) {
		t.Error("delivered -> pending should be rejected")
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		err                      error
		notFound, state, invalid bool
	}{
		{ErrOrderNotFound, true, false, false},
		{ErrVersionConflict, false, true, false},
		{ErrTableOccupied, false, true, false},
		{ErrInvalidQuantity, false, false, true},
		{errors.New("boom"), false, false, false},
	}
	for _, tt := range tests {
		if got := IsNotFound(tt.err); got != tt.notFound {
			t.Errorf("IsNotFound(%v): got %v", tt.err, got)
		}
		if got := IsInvalidState(tt.err); got != tt.state {
			t.Errorf("IsInvalidState(%v): got %v", tt.err, got)
		}
		if got := IsValidation(tt.err); got != tt.invalid {
			t.Errorf("IsValidation(%v): got %v", tt.err, got)
		}
	}
}
