package floor

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/kiwari-pos/floor/internal/enum"
	"github.com/shopspring/decimal"
)

// ItemTally is a menu item with its cumulative ordered quantity.
type ItemTally struct {
	MenuItem MenuItem `json:"menu_item"`
	Quantity int      `json:"quantity"`
}

// MostOrderedItems tallies quantity per menu item across the whole ledger,
// canceled and paid orders included, and returns the top n. Ties keep the
// order in which the items were first seen in the ledger. Items since removed
// from the catalog are rebuilt from their last order line.
func (s *State) MostOrderedItems(n int) []ItemTally {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var order []uuid.UUID
	tally := make(map[uuid.UUID]*ItemTally)
	for _, o := range s.orders {
		for _, line := range o.Items {
			t, ok := tally[line.MenuItemID]
			if !ok {
				t = &ItemTally{MenuItem: MenuItem{
					ID:       line.MenuItemID,
					Name:     line.Name,
					Price:    line.Price,
					Category: line.Category,
				}}
				tally[line.MenuItemID] = t
				order = append(order, line.MenuItemID)
			}
			t.Quantity += line.Quantity
		}
	}

	out := make([]ItemTally, 0, len(order))
	for _, id := range order {
		t := *tally[id]
		if i, err := s.menuIndex(id); err == nil {
			t.MenuItem = s.menu[i]
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Quantity > out[j].Quantity
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// OrdersByTable groups the ledger by table, keeping ledger order per group.
func (s *State) OrdersByTable() map[int][]Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int][]Order)
	for _, o := range s.orders {
		out[o.TableNumber] = append(out[o.TableNumber], o.clone())
	}
	return out
}

// DailySummary aggregates the orders created on one calendar day.
type DailySummary struct {
	Date        string          `json:"date"`
	OrderCount  int             `json:"order_count"`
	Canceled    int             `json:"canceled_count"`
	Covers      int             `json:"covers"`
	Gross       decimal.Decimal `json:"gross"`
	Paid        decimal.Decimal `json:"paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// DailySummary totals the day containing day, in day's location. Canceled
// orders are counted separately and contribute no revenue.
func (s *State) DailySummary(day time.Time) DailySummary {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := DailySummary{
		Date:        start.Format("2006-01-02"),
		Gross:       decimal.Zero,
		Paid:        decimal.Zero,
		Outstanding: decimal.Zero,
	}
	for _, o := range s.orders {
		created := o.CreatedAt.In(day.Location())
		if created.Before(start) || !created.Before(end) {
			continue
		}
		if o.Status == enum.OrderStatusCanceled {
			sum.Canceled++
			continue
		}
		sum.OrderCount++
		sum.Covers += o.PeopleCount
		sum.Gross = sum.Gross.Add(o.TotalAmount)
		if o.IsPaid {
			sum.Paid = sum.Paid.Add(o.TotalAmount)
		} else {
			sum.Outstanding = sum.Outstanding.Add(o.TotalAmount)
		}
	}
	return sum
}
