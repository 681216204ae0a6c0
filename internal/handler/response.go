package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/kiwari-pos/floor/internal/enum"
	"github.com/kiwari-pos/floor/internal/floor"
)

// --- Response types ---
// Money is rendered with two decimals, as strings.

type orderResponse struct {
	ID          uuid.UUID           `json:"id"`
	TableNumber int                 `json:"table_number"`
	WaiterID    uuid.UUID           `json:"waiter_id"`
	WaiterName  string              `json:"waiter_name"`
	Status      string              `json:"status"`
	Items       []orderItemResponse `json:"items"`
	TotalAmount string              `json:"total_amount"`
	PeopleCount int                 `json:"people_count"`
	Notes       string              `json:"notes"`
	Delayed     bool                `json:"delayed"`
	DelayReason string              `json:"delay_reason,omitempty"`
	IsPaid      bool                `json:"is_paid"`
	PaidAt      *time.Time          `json:"paid_at"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   *time.Time          `json:"updated_at"`
	Version     int64               `json:"version"`
}

type orderItemResponse struct {
	Line       int       `json:"line"`
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Display    string    `json:"display"`
	Price      string    `json:"price"`
	Quantity   int       `json:"quantity"`
	Subtotal   string    `json:"subtotal"`
	Notes      string    `json:"notes"`
	Completed  bool      `json:"completed"`
}

type menuItemResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Category    string    `json:"category"`
	Available   bool      `json:"available"`
}

type settingsResponse struct {
	SeatCharge string               `json:"seat_charge"`
	Emergency  floor.EmergencyFlags `json:"emergency"`
	Printers   []floor.Printer      `json:"printers"`
}

func toOrderResponse(o floor.Order) orderResponse {
	resp := orderResponse{
		ID:          o.ID,
		TableNumber: o.TableNumber,
		WaiterID:    o.WaiterID,
		WaiterName:  o.WaiterName,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount.StringFixed(2),
		PeopleCount: o.PeopleCount,
		Notes:       o.Notes,
		Delayed:     o.Delayed,
		DelayReason: o.DelayReason,
		IsPaid:      o.IsPaid,
		PaidAt:      o.PaidAt,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		Version:     o.Version,
	}
	resp.Items = make([]orderItemResponse, len(o.Items))
	for i, item := range o.Items {
		resp.Items[i] = orderItemResponse{
			Line:       item.Line,
			MenuItemID: item.MenuItemID,
			Name:       item.Name,
			Category:   string(item.Category),
			Display:    string(item.Category.Display()),
			Price:      item.Price.StringFixed(2),
			Quantity:   item.Quantity,
			Subtotal:   item.Subtotal().StringFixed(2),
			Notes:      item.Notes,
			Completed:  item.Completed,
		}
	}
	return resp
}

func toOrderResponses(orders []floor.Order) []orderResponse {
	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	return resp
}

func toMenuItemResponse(m floor.MenuItem) menuItemResponse {
	return menuItemResponse{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price.StringFixed(2),
		Category:    string(m.Category),
		Available:   m.Available,
	}
}

func toSettingsResponse(s floor.Settings) settingsResponse {
	printers := s.Printers
	if printers == nil {
		printers = []floor.Printer{}
	}
	return settingsResponse{
		SeatCharge: s.SeatCharge.StringFixed(2),
		Emergency:  s.Emergency,
		Printers:   printers,
	}
}

// statusPtr parses an optional ?status= filter.
func statusPtr(s string) (*enum.OrderStatus, bool) {
	if s == "" {
		return nil, true
	}
	st := enum.OrderStatus(s)
	if !st.Valid() {
		return nil, false
	}
	return &st, true
}
