package quickorder

import (
	"github.com/google/uuid"
	"github.com/kiwari-pos/floor/internal/floor"
)

// StatusUnavailable marks a line that matched an item currently off the menu.
const StatusUnavailable = "unavailable"

// LineResult reports how one shorthand line resolved against the menu.
type LineResult struct {
	Line
	Status     string      `json:"status"`
	MenuItemID *uuid.UUID  `json:"menu_item_id,omitempty"`
	Name       string      `json:"name,omitempty"`
	Candidates []Candidate `json:"candidates,omitempty"`
}

// Candidate is one of several equally good matches.
type Candidate struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Resolve matches every parsed line. The cart is only usable when ok is true,
// that is when every line matched exactly one available menu item.
func Resolve(p *Parsed, m *Matcher) (items []floor.ItemInput, results []LineResult, ok bool) {
	ok = true
	results = make([]LineResult, len(p.Lines))
	for i, line := range p.Lines {
		res := m.Match(line.Description)
		lr := LineResult{Line: line, Status: res.Status.String()}
		switch res.Status {
		case Matched:
			id := res.Item.ID
			lr.MenuItemID = &id
			lr.Name = res.Item.Name
			if !res.Item.Available {
				lr.Status = StatusUnavailable
				ok = false
				break
			}
			items = append(items, floor.ItemInput{MenuItemID: id, Quantity: line.Quantity, Notes: line.Notes})
		case Ambiguous:
			ok = false
			for _, c := range res.Candidates {
				lr.Candidates = append(lr.Candidates, Candidate{ID: c.ID, Name: c.Name})
			}
		default:
			ok = false
		}
		results[i] = lr
	}
	return items, results, ok
}
