package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/kiwari-pos/floor/internal/floor"
)

func TestSubmitOrder_OpenAndEditTable(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, "POST", "/tables/3/orders", map[string]interface{}{
		"people_count": 2,
		"items":        []map[string]interface{}{f.cartLine("Pasta", 2), f.cartLine("Cola", 2)},
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	o := decodeOrder(t, rr)
	if o.TotalAmount != "25.00" {
		t.Errorf("total_amount: got %s, want 25.00", o.TotalAmount)
	}
	if o.Status != "pending" || o.TableNumber != 3 || o.WaiterName != "ana" {
		t.Errorf("order: got status=%s table=%d waiter=%s", o.Status, o.TableNumber, o.WaiterName)
	}
	if len(o.Items) != 2 || o.Items[1].Display != "drinks" || o.Items[1].Subtotal != "5.00" || o.Items[1].Line != 1 {
		t.Errorf("items: got %+v", o.Items)
	}

	tbl, err := f.state.Table(3)
	if err != nil {
		t.Fatal(err)
	}
	if !tbl.IsOccupied || tbl.CurrentOrderID == nil || *tbl.CurrentOrderID != o.ID {
		t.Errorf("table after order: %+v", tbl)
	}

	// Editing the cart keeps the order and bumps the version.
	rr = f.do(t, "POST", "/tables/3/orders", map[string]interface{}{
		"items":   []map[string]interface{}{f.cartLine("Salad", 1)},
		"version": o.Version,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("edit: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	edited := decodeOrder(t, rr)
	if edited.ID != o.ID || edited.TotalAmount != "5.00" || edited.Version != o.Version+1 {
		t.Errorf("edited: got id=%s total=%s version=%d", edited.ID, edited.TotalAmount, edited.Version)
	}

	// A stale version is a conflict.
	rr = f.do(t, "POST", "/tables/3/orders", map[string]interface{}{
		"items":   []map[string]interface{}{f.cartLine("Pasta", 1)},
		"version": o.Version,
	})
	if rr.Code != http.StatusConflict {
		t.Errorf("stale version: expected 409, got %d", rr.Code)
	}
}

func TestSubmitOrder_EmptyCart(t *testing.T) {
	f := newFixture(t)
	if _, err := f.state.UpdateTablePeopleCount(t.Context(), 2, 4); err != nil {
		t.Fatal(err)
	}

	rr := f.do(t, "POST", "/tables/2/orders", map[string]interface{}{"items": []interface{}{}})
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rr.Code, rr.Body.String())
	}
	tbl, _ := f.state.Table(2)
	if tbl.PeopleCount != 0 || tbl.IsOccupied {
		t.Errorf("table after empty cart: %+v", tbl)
	}
	if n := len(f.state.FilteredOrders(nil)); n != 0 {
		t.Errorf("ledger: got %d orders, want 0", n)
	}
}

func TestSubmitOrder_Errors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		path  string
		body  map[string]interface{}
		want  int
		field string
	}{
		{"bad table id", "/tables/abc/orders", map[string]interface{}{"people_count": 1}, http.StatusBadRequest, ""},
		{"unknown table", "/tables/99/orders", map[string]interface{}{"people_count": 1, "items": []map[string]interface{}{f.cartLine("Pasta", 1)}}, http.StatusNotFound, ""},
		{"zero quantity", "/tables/1/orders", map[string]interface{}{"people_count": 1, "items": []map[string]interface{}{f.cartLine("Pasta", 0)}}, http.StatusBadRequest, "items[0].quantity"},
		{"bad menu id", "/tables/1/orders", map[string]interface{}{"people_count": 1, "items": []map[string]interface{}{{"menu_item_id": "nope", "quantity": 1}}}, http.StatusBadRequest, "items[0].menu_item_id"},
		{"unknown menu item", "/tables/1/orders", map[string]interface{}{"people_count": 1, "items": []map[string]interface{}{{"menu_item_id": "6f1c1b3e-3a0b-4b1e-9a57-0d9f6f8e2a11", "quantity": 1}}}, http.StatusNotFound, ""},
		{"no people", "/tables/1/orders", map[string]interface{}{"items": []map[string]interface{}{f.cartLine("Pasta", 1)}}, http.StatusBadRequest, ""},
		{"negative people", "/tables/1/orders", map[string]interface{}{"people_count": -1}, http.StatusBadRequest, "people_count"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := f.do(t, "POST", tt.path, tt.body)
			if rr.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rr.Code, rr.Body.String())
			}
			if tt.field == "" {
				return
			}
			var resp struct {
				Fields []struct {
					Field string `json:"field"`
				} `json:"fields"`
			}
			decodeInto(t, rr, &resp)
			if len(resp.Fields) == 0 || resp.Fields[0].Field != tt.field {
				t.Errorf("fields: got %+v, want %s", resp.Fields, tt.field)
			}
		})
	}
}

func TestMarkPaidAndReset(t *testing.T) {
	f := newFixture(t)
	o := f.submit(t, "3", 2, f.cartLine("Pasta", 1))

	rr := f.do(t, "POST", "/tables/3/payment", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("payment: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var paid struct {
		Order orderJSON   `json:"order"`
		Table floor.Table `json:"table"`
	}
	decodeInto(t, rr, &paid)
	if paid.Order.ID != o.ID || !paid.Order.IsPaid {
		t.Errorf("paid order: got %+v", paid.Order)
	}
	if !paid.Table.IsOccupied {
		t.Error("payment should not free the table")
	}

	if rr := f.do(t, "POST", "/tables/3/payment", nil); rr.Code != http.StatusConflict {
		t.Errorf("second payment: expected 409, got %d", rr.Code)
	}

	rr = f.do(t, "POST", "/tables/3/reset", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("reset: expected 200, got %d", rr.Code)
	}
	var reset struct {
		Previous floor.Table `json:"previous"`
		Table    floor.Table `json:"table"`
	}
	decodeInto(t, rr, &reset)
	if !reset.Previous.IsOccupied || reset.Table.IsOccupied || reset.Table.CurrentOrderID != nil {
		t.Errorf("reset: previous=%+v table=%+v", reset.Previous, reset.Table)
	}

	got, err := f.state.Order(o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != "delivered" {
		t.Errorf("status after reset: got %s, want delivered", got.Status)
	}

	if rr := f.do(t, "POST", "/tables/42/reset", nil); rr.Code != http.StatusNotFound {
		t.Errorf("unknown table reset: expected 404, got %d", rr.Code)
	}
}

func TestTableReservation(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, "PUT", "/tables/7/reservation", map[string]bool{"reserved": true})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var tbl floor.Table
	decodeInto(t, rr, &tbl)
	if !tbl.IsReserved {
		t.Error("table 7 not reserved")
	}

	f.submit(t, "7", 2, f.cartLine("Cola", 2))
	got, _ := f.state.Table(7)
	if got.IsReserved || !got.IsOccupied {
		t.Errorf("after seating: %+v", got)
	}

	if rr := f.do(t, "PUT", "/tables/7/reservation", map[string]bool{"reserved": true}); rr.Code != http.StatusConflict {
		t.Errorf("reserve occupied: expected 409, got %d", rr.Code)
	}
}

func TestTablePeople(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, "PUT", "/tables/1/people", map[string]int{"people_count": 4})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var tbl floor.Table
	decodeInto(t, rr, &tbl)
	if tbl.PeopleCount != 4 {
		t.Errorf("people_count: got %d, want 4", tbl.PeopleCount)
	}

	if rr := f.do(t, "PUT", "/tables/1/people", map[string]int{"people_count": -3}); rr.Code != http.StatusBadRequest {
		t.Errorf("negative: expected 400, got %d", rr.Code)
	}
}

func TestListAndGetTables(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, "GET", "/tables", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var tables []floor.Table
	decodeInto(t, rr, &tables)
	if len(tables) != 8 {
		t.Errorf("tables: got %d, want 8", len(tables))
	}

	if rr := f.do(t, "GET", "/tables/5", nil); rr.Code != http.StatusOK {
		t.Errorf("get: expected 200, got %d", rr.Code)
	}
	if rr := f.do(t, "GET", "/tables/50", nil); rr.Code != http.StatusNotFound {
		t.Errorf("unknown: expected 404, got %d", rr.Code)
	}
}

func TestAddTable(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, "POST", "/tables", map[string]interface{}{"id": 9, "capacity": 6})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var tbl floor.Table
	decodeInto(t, rr, &tbl)
	if tbl.ID != 9 || tbl.Name != "Table 9" {
		t.Errorf("table: got %+v", tbl)
	}

	if rr := f.do(t, "POST", "/tables", map[string]interface{}{"id": 9}); rr.Code != http.StatusConflict {
		t.Errorf("duplicate: expected 409, got %d", rr.Code)
	}
	if rr := f.do(t, "POST", "/tables", map[string]interface{}{"id": 0}); rr.Code != http.StatusBadRequest {
		t.Errorf("zero id: expected 400, got %d", rr.Code)
	}
}

func TestQuickOrder(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, "POST", "/tables/5/quick-order", map[string]interface{}{
		"text":         "2x pasta - no onions\ncola x2",
		"people_count": 2,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	o := decodeOrder(t, rr)
	if o.TableNumber != 5 || o.TotalAmount != "25.00" || o.WaiterName != "ana" {
		t.Errorf("order: got table=%d total=%s waiter=%s", o.TableNumber, o.TotalAmount, o.WaiterName)
	}
	if len(o.Items) != 2 || o.Items[0].Name != "Pasta" || o.Items[0].Quantity != 2 {
		t.Errorf("items: got %+v", o.Items)
	}
	stored, err := f.state.Order(o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Items[0].Notes != "no onions" {
		t.Errorf("notes: got %q, want no onions", stored.Items[0].Notes)
	}
}

func TestQuickOrder_UnmatchedLines(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, "POST", "/tables/5/quick-order", map[string]interface{}{
		"text":         "pasta\ntiramisu",
		"people_count": 2,
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rr.Code, rr.Body.String())
	}
	var body struct {
		Error string `json:"error"`
		Lines []struct {
			Description string `json:"description"`
			Status      string `json:"status"`
		} `json:"lines"`
	}
	decodeInto(t, rr, &body)
	if len(body.Lines) != 2 || body.Lines[0].Status != "matched" || body.Lines[1].Status != "unmatched" {
		t.Errorf("lines: got %+v", body.Lines)
	}
	if tbl, _ := f.state.Table(5); tbl.IsOccupied {
		t.Error("table occupied after a rejected quick order")
	}

	// A line that cannot be read is reported too.
	rr = f.do(t, "POST", "/tables/5/quick-order", map[string]interface{}{"text": "pasta\n200x cola"})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("unreadable line: expected 422, got %d", rr.Code)
	}
}

func TestQuickOrder_UnavailableItem(t *testing.T) {
	f := newFixture(t)
	salad := f.menu["Salad"]
	salad.Available = false
	if _, err := f.state.UpdateMenuItem(context.Background(), salad); err != nil {
		t.Fatal(err)
	}

	rr := f.do(t, "POST", "/tables/5/quick-order", map[string]interface{}{
		"text":         "pasta\nsalad",
		"people_count": 2,
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rr.Code, rr.Body.String())
	}
	var body struct {
		Lines []struct {
			Status string `json:"status"`
			Name   string `json:"name"`
		} `json:"lines"`
	}
	decodeInto(t, rr, &body)
	if len(body.Lines) != 2 || body.Lines[1].Status != "unavailable" || body.Lines[1].Name != "Salad" {
		t.Errorf("lines: got %+v", body.Lines)
	}
	if tbl, _ := f.state.Table(5); tbl.IsOccupied {
		t.Error("table occupied after a rejected quick order")
	}
}

func TestQuickOrder_BadRequests(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		path string
		body interface{}
	}{
		{"missing text", "/tables/5/quick-order", map[string]interface{}{"people_count": 2}},
		{"no items", "/tables/5/quick-order", map[string]interface{}{"text": "\n 3 \n"}},
		{"bad table id", "/tables/x/quick-order", map[string]interface{}{"text": "pasta"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := f.do(t, "POST", tt.path, tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rr.Code, rr.Body.String())
			}
		})
	}

	rr := f.do(t, "POST", "/tables/99/quick-order", map[string]interface{}{"text": "pasta", "people_count": 1})
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown table: expected 404, got %d", rr.Code)
	}
}
