package handler

import (
	"context"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiwari-pos/floor/internal/floor"
	"github.com/kiwari-pos/floor/internal/enum"
	"github.com/kiwari-pos/floor/internal/middleware"
	"github.com/kiwari-pos/floor/internal/quickorder"
)

// TableStore defines the floor operations needed by table handlers.
// Satisfied by *floor.State; narrow interface for testability.
type TableStore interface {
	Tables() []floor.Table
	Table(id int) (floor.Table, error)
	AddTable(ctx context.Context, t floor.Table) (floor.Table, error)
	UpdateTablePeopleCount(ctx context.Context, tableID, count int) (floor.Table, error)
	ToggleTableReservation(ctx context.Context, tableID int, reserved bool) (floor.Table, error)
	CreateOrUpdateOrder(ctx context.Context, cmd floor.CreateOrder) (*floor.Order, error)
	MarkTableAsPaid(ctx context.Context, tableID int) (*floor.Order, error)
	ResetTable(ctx context.Context, tableID int) (floor.Table, error)
	MenuItems(category *enum.MenuCategory) []floor.MenuItem
}

// TableHandler handles table endpoints, including the cart submission that
// opens or edits a table's order.
type TableHandler struct {
	store  TableStore
	logger *gecho.Logger
}

// NewTableHandler creates a new TableHandler.
func NewTableHandler(store TableStore, logger *gecho.Logger) *TableHandler {
	return &TableHandler{store: store, logger: logger}
}

// RegisterRoutes registers table endpoints on the given Chi router.
func (h *TableHandler) RegisterRoutes(r chi.Router) {
	r.Get("/tables", h.List)
	r.Get("/tables/{id}", h.Get)
	r.Put("/tables/{id}/people", h.UpdatePeople)
	r.Put("/tables/{id}/reservation", h.UpdateReservation)
	r.Post("/tables/{id}/orders", h.SubmitOrder)
	r.Post("/tables/{id}/quick-order", h.QuickOrder)
	r.Post("/tables/{id}/payment", h.MarkPaid)
	r.Post("/tables/{id}/reset", h.Reset)
}

// RegisterAdminRoutes registers floor plan changes.
func (h *TableHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/tables", h.AddTable)
}

// --- Request / Response types ---

type addTableRequest struct {
	ID       int    `json:"id" validate:"gt=0"`
	Name     string `json:"name" validate:"max=50"`
	Capacity int    `json:"capacity" validate:"gte=0"`
}

type peopleRequest struct {
	PeopleCount int `json:"people_count" validate:"gte=0"`
}

type reservationRequest struct {
	Reserved bool `json:"reserved"`
}

type cartItemRequest struct {
	MenuItemID string `json:"menu_item_id" validate:"required,uuid"`
	Quantity   int    `json:"quantity" validate:"gt=0"`
	Notes      string `json:"notes" validate:"max=200"`
}

type submitOrderRequest struct {
	Items       []cartItemRequest `json:"items" validate:"dive"`
	PeopleCount int               `json:"people_count" validate:"gte=0"`
	Notes       string            `json:"notes" validate:"max=500"`
	Version     int64             `json:"version" validate:"gte=0"`
}

type quickOrderRequest struct {
	Text        string `json:"text" validate:"required,max=2000"`
	PeopleCount int    `json:"people_count" validate:"gte=0"`
	Notes       string `json:"notes" validate:"max=500"`
	Version     int64  `json:"version" validate:"gte=0"`
}

type quickOrderRejection struct {
	Error    string                  `json:"error"`
	Lines    []quickorder.LineResult `json:"lines"`
	Warnings []string                `json:"warnings,omitempty"`
}

type resetResponse struct {
	Previous floor.Table `json:"previous"`
	Table    floor.Table `json:"table"`
}

type paymentResponse struct {
	Order orderResponse `json:"order"`
	Table floor.Table   `json:"table"`
}

// --- Handlers ---

// List returns every table.
func (h *TableHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Tables())
}

// Get returns one table.
func (h *TableHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table id"})
		return
	}
	t, err := h.store.Table(id)
	if err != nil {
		writeFloorError(w, h.logger, "get table", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// AddTable registers a new table.
func (h *TableHandler) AddTable(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[addTableRequest](r)
	if err != nil {
		writeBodyError(w, err)
		return
	}
	t, err := h.store.AddTable(r.Context(), floor.Table{ID: req.ID, Name: req.Name, Capacity: req.Capacity})
	if err != nil {
		writeFloorError(w, h.logger, "add table", err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// UpdatePeople sets the party size at a table.
func (h *TableHandler) UpdatePeople(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table id"})
		return
	}
	req, err := decodeBody[peopleRequest](r)
	if err != nil {
		writeBodyError(w, err)
		return
	}
	t, err := h.store.UpdateTablePeopleCount(r.Context(), id, req.PeopleCount)
	if err != nil {
		writeFloorError(w, h.logger, "update people", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// UpdateReservation reserves or releases a table.
func (h *TableHandler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table id"})
		return
	}
	req, err := decodeBody[reservationRequest](r)
	if err != nil {
		writeBodyError(w, err)
		return
	}
	t, err := h.store.ToggleTableReservation(r.Context(), id, req.Reserved)
	if err != nil {
		writeFloorError(w, h.logger, "toggle reservation", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// SubmitOrder creates the table's order or replaces its cart. The waiter is
// taken from the access token. An empty cart answers 204.
func (h *TableHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table id"})
		return
	}
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	req, err := decodeBody[submitOrderRequest](r)
	if err != nil {
		writeBodyError(w, err)
		return
	}

	cmd := floor.CreateOrder{
		TableID:     id,
		Waiter:      floor.Waiter{ID: claims.StaffID, Name: claims.Name},
		PeopleCount: req.PeopleCount,
		Notes:       req.Notes,
		Version:     req.Version,
		Items:       make([]floor.ItemInput, len(req.Items)),
	}
	for i, item := range req.Items {
		// Already checked by the uuid tag.
		menuID, _ := uuid.Parse(item.MenuItemID)
		cmd.Items[i] = floor.ItemInput{MenuItemID: menuID, Quantity: item.Quantity, Notes: item.Notes}
	}

	h.submit(w, r, "submit order", cmd)
}

// QuickOrder submits a cart typed as shorthand text, one item per line.
// Nothing is submitted unless every line names exactly one available menu item; the
// per-line results come back with 422 so the waiter can fix the text.
func (h *TableHandler) QuickOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table id"})
		return
	}
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	req, err := decodeBody[quickOrderRequest](r)
	if err != nil {
		writeBodyError(w, err)
		return
	}

	parsed, err := quickorder.Parse(req.Text)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	items, results, ok := quickorder.Resolve(parsed, quickorder.NewMatcher(h.store.MenuItems(nil)))
	if !ok || len(parsed.Warnings) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, quickOrderRejection{
			Error:    "some lines could not be matched",
			Lines:    results,
			Warnings: parsed.Warnings,
		})
		return
	}

	h.submit(w, r, "quick order", floor.CreateOrder{
		TableID:     id,
		Waiter:      floor.Waiter{ID: claims.StaffID, Name: claims.Name},
		PeopleCount: req.PeopleCount,
		Notes:       req.Notes,
		Version:     req.Version,
		Items:       items,
	})
}

func (h *TableHandler) submit(w http.ResponseWriter, r *http.Request, op string, cmd floor.CreateOrder) {
	o, err := h.store.CreateOrUpdateOrder(r.Context(), cmd)
	if err != nil {
		writeFloorError(w, h.logger, op, err)
		return
	}
	if o == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	status := http.StatusOK
	if o.Version == 1 {
		status = http.StatusCreated
	}
	writeJSON(w, status, toOrderResponse(*o))
}

// MarkPaid settles the table's current order.
func (h *TableHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table id"})
		return
	}
	o, err := h.store.MarkTableAsPaid(r.Context(), id)
	if err != nil {
		writeFloorError(w, h.logger, "mark paid", err)
		return
	}
	t, err := h.store.Table(id)
	if err != nil {
		writeFloorError(w, h.logger, "mark paid", err)
		return
	}
	writeJSON(w, http.StatusOK, paymentResponse{Order: toOrderResponse(*o), Table: t})
}

// Reset frees the table for the next party. Orders stay in the ledger.
func (h *TableHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table id"})
		return
	}
	prev, err := h.store.ResetTable(r.Context(), id)
	if err != nil {
		writeFloorError(w, h.logger, "reset table", err)
		return
	}
	t, err := h.store.Table(id)
	if err != nil {
		writeFloorError(w, h.logger, "reset table", err)
		return
	}
	writeJSON(w, http.StatusOK, resetResponse{Previous: prev, Table: t})
}
