package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiwari-pos/floor/internal/auth"
	"github.com/kiwari-pos/floor/internal/enum"
	"github.com/kiwari-pos/floor/internal/floor"
	"github.com/kiwari-pos/floor/internal/handler"
	"github.com/kiwari-pos/floor/internal/middleware"
	"github.com/shopspring/decimal"
)

// fixture is a real floor behind every handler, signed in as one staff member.
type fixture struct {
	state  *floor.State
	router *chi.Mux
	menu   map[string]floor.MenuItem
	waiter *auth.Claims
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	menu := []floor.MenuItem{
		{ID: uuid.New(), Name: "Pasta", Price: decimal.RequireFromString("10.00"), Category: enum.CategoryMainDishes, Available: true},
		{ID: uuid.New(), Name: "Salad", Price: decimal.RequireFromString("5.00"), Category: enum.CategorySides, Available: true},
		{ID: uuid.New(), Name: "Cola", Price: decimal.RequireFromString("2.50"), Category: enum.CategoryDrinks, Available: true},
	}
	state := floor.New(floor.WithMenu(menu), floor.WithTables(floor.DemoTables(8)))

	f := &fixture{
		state:  state,
		menu:   make(map[string]floor.MenuItem),
		waiter: &auth.Claims{StaffID: auth.StaffID("ana"), Name: "ana", Role: enum.RoleWaiter},
	}
	for _, m := range menu {
		f.menu[m.Name] = m
	}

	logger := testLogger()
	tables := handler.NewTableHandler(state, logger)
	orders := handler.NewOrderHandler(state, logger)
	menuH := handler.NewMenuHandler(state, logger)
	displays := handler.NewDisplayHandler(state, logger)
	stats := handler.NewStatsHandler(state)
	settings := handler.NewSettingsHandler(state, logger)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithClaims(req.Context(), f.waiter)))
		})
	})
	tables.RegisterRoutes(r)
	tables.RegisterAdminRoutes(r)
	orders.RegisterRoutes(r)
	menuH.RegisterRoutes(r)
	menuH.RegisterAdminRoutes(r)
	displays.RegisterRoutes(r)
	stats.RegisterRoutes(r)
	settings.RegisterRoutes(r)
	settings.RegisterAdminRoutes(r)
	f.router = r
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	return doJSON(t, f.router, method, path, body)
}

func (f *fixture) cartLine(name string, qty int) map[string]interface{} {
	return map[string]interface{}{"menu_item_id": f.menu[name].ID.String(), "quantity": qty}
}

// submit posts a cart for a table and decodes the resulting order.
func (f *fixture) submit(t *testing.T, table string, people int, lines ...map[string]interface{}) orderJSON {
	t.Helper()
	rr := f.do(t, "POST", "/tables/"+table+"/orders", map[string]interface{}{"people_count": people, "items": lines})
	if rr.Code != http.StatusCreated && rr.Code != http.StatusOK {
		t.Fatalf("submit order: got %d: %s", rr.Code, rr.Body.String())
	}
	return decodeOrder(t, rr)
}

type orderJSON struct {
	ID          uuid.UUID `json:"id"`
	TableNumber int       `json:"table_number"`
	WaiterName  string    `json:"waiter_name"`
	Status      string    `json:"status"`
	TotalAmount string    `json:"total_amount"`
	PeopleCount int       `json:"people_count"`
	Delayed     bool      `json:"delayed"`
	DelayReason string    `json:"delay_reason"`
	IsPaid      bool      `json:"is_paid"`
	Version     int64     `json:"version"`
	Items       []struct {
		Line       int       `json:"line"`
		MenuItemID uuid.UUID `json:"menu_item_id"`
		Name       string    `json:"name"`
		Display    string    `json:"display"`
		Price      string    `json:"price"`
		Quantity   int       `json:"quantity"`
		Subtotal   string    `json:"subtotal"`
		Completed  bool      `json:"completed"`
	} `json:"items"`
}

func decodeOrder(t *testing.T, rr *httptest.ResponseRecorder) orderJSON {
	t.Helper()
	var o orderJSON
	if err := json.NewDecoder(rr.Body).Decode(&o); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	return o
}

func decodeInto(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
