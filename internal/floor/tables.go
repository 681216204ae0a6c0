package floor

import (
	"context"
	"fmt"

	"github.com/kiwari-pos/floor/internal/enum"
)

// SetPeopleCount changes the headcount at a table. An open order on the
// table follows the new count.
type SetPeopleCount struct {
	TableID int
	Count   int
}

// SetReservation reserves or releases a table. Occupied tables cannot be
// reserved.
type SetReservation struct {
	TableID  int
	Reserved bool
}

// AddTable registers a new physical table.
type AddTable struct {
	Table Table
}

// AckDisplay clears the unread flag of a screen.
type AckDisplay struct {
	Display enum.Display
}

func (c SetPeopleCount) apply(s *State) (Result, []Event, error) {
	if c.Count < 0 {
		return Result{}, nil, ErrInvalidPeopleCount
	}
	ti, err := s.tableIndex(c.TableID)
	if err != nil {
		return Result{}, nil, err
	}
	t := &s.tables[ti]
	t.PeopleCount = c.Count

	events := []Event{tableEvent(enum.EventTableUpdated, t)}
	if o := s.currentOrder(t); o != nil && !o.Status.Terminal() {
		o.PeopleCount = c.Count
		s.touch(o)
		events = append(events, orderEvent(enum.EventOrderUpdated, o))
	}
	snap := t.clone()
	return Result{Table: &snap}, events, nil
}

func (c SetReservation) apply(s *State) (Result, []Event, error) {
	ti, err := s.tableIndex(c.TableID)
	if err != nil {
		return Result{}, nil, err
	}
	t := &s.tables[ti]
	if c.Reserved && t.IsOccupied {
		return Result{}, nil, fmt.Errorf("table %d: %w", t.ID, ErrTableOccupied)
	}
	t.IsReserved = c.Reserved
	if c.Reserved {
		t.PeopleCount = 0
	}
	snap := t.clone()
	return Result{Table: &snap}, []Event{tableEvent(enum.EventTableUpdated, t)}, nil
}

func (c AddTable) apply(s *State) (Result, []Event, error) {
	t := c.Table
	if t.ID <= 0 {
		return Result{}, nil, ErrInvalidTableID
	}
	if t.Capacity < 0 {
		return Result{}, nil, ErrInvalidCapacity
	}
	if _, err := s.tableIndex(t.ID); err == nil {
		return Result{}, nil, fmt.Errorf("table %d: %w", t.ID, ErrDuplicateTable)
	}
	if t.Name == "" {
		t.Name = fmt.Sprintf("Table %d", t.ID)
	}
	// New tables always start free.
	t.IsOccupied = false
	t.IsReserved = false
	t.PeopleCount = 0
	t.CurrentOrderID = nil

	s.tables = append(s.tables, t)
	stored := &s.tables[len(s.tables)-1]
	snap := stored.clone()
	return Result{Table: &snap}, []Event{tableEvent(enum.EventTableUpdated, stored)}, nil
}

func (c AckDisplay) apply(s *State) (Result, []Event, error) {
	if !c.Display.Valid() {
		return Result{}, nil, fmt.Errorf("%w: %q", ErrInvalidDisplay, c.Display)
	}
	s.unread[c.Display] = false
	return Result{}, nil, nil
}

// UpdateTablePeopleCount sets the headcount on a table and its open order.
func (s *State) UpdateTablePeopleCount(ctx context.Context, tableID, count int) (Table, error) {
	res, err := s.Dispatch(ctx, SetPeopleCount{TableID: tableID, Count: count})
	if err != nil {
		return Table{}, err
	}
	return *res.Table, nil
}

// ToggleTableReservation returns ErrTableOccupied, leaving the table as it
// was, when asked to reserve an occupied table.
func (s *State) ToggleTableReservation(ctx context.Context, tableID int, reserved bool) (Table, error) {
	res, err := s.Dispatch(ctx, SetReservation{TableID: tableID, Reserved: reserved})
	if err != nil {
		return Table{}, err
	}
	return *res.Table, nil
}

func (s *State) AddTable(ctx context.Context, t Table) (Table, error) {
	res, err := s.Dispatch(ctx, AddTable{Table: t})
	if err != nil {
		return Table{}, err
	}
	return *res.Table, nil
}

// ClearNewOrders marks everything submitted so far as seen by display.
func (s *State) ClearNewOrders(ctx context.Context, display enum.Display) error {
	_, err := s.Dispatch(ctx, AckDisplay{Display: display})
	return err
}

// Tables returns the registry in registration order.
func (s *State) Tables() []Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Table, len(s.tables))
	for i, t := range s.tables {
		out[i] = t.clone()
	}
	return out
}

func (s *State) Table(id int) (Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, err := s.tableIndex(id)
	if err != nil {
		return Table{}, err
	}
	return s.tables[i].clone(), nil
}
