package handler

import (
	"context"
	"net/http"
	"sort"
	"strconv"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiwari-pos/floor/internal/enum"
	"github.com/kiwari-pos/floor/internal/floor"
)

// OrderStore defines the floor operations needed by order handlers.
// Satisfied by *floor.State; narrow interface for testability.
type OrderStore interface {
	Order(id uuid.UUID) (floor.Order, error)
	FilteredOrders(status *enum.OrderStatus) []floor.Order
	OrdersByTable() map[int][]floor.Order
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enum.OrderStatus, version int64) (*floor.Order, error)
	UpdateItemCompletionStatus(ctx context.Context, orderID, menuItemID uuid.UUID, completed bool, version int64) (*floor.Order, error)
	UpdateLineCompletionStatus(ctx context.Context, orderID uuid.UUID, line int, completed bool, version int64) (*floor.Order, error)
	DelayOrder(ctx context.Context, orderID uuid.UUID, reason string, version int64) (*floor.Order, error)
	CancelOrderItem(ctx context.Context, orderID, menuItemID uuid.UUID, version int64) (*floor.Order, error)
}

// OrderHandler handles order ledger endpoints.
type OrderHandler struct {
	store  OrderStore
	logger *gecho.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(store OrderStore, logger *gecho.Logger) *OrderHandler {
	return &OrderHandler{store: store, logger: logger}
}

// RegisterRoutes registers order endpoints on the given Chi router.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/orders", h.List)
	r.Get("/orders/by-table", h.ByTable)
	r.Get("/orders/{id}", h.Get)
	r.Patch("/orders/{id}/status", h.UpdateStatus)
	r.Patch("/orders/{id}/items/{menuItemID}", h.UpdateItemCompletion)
	r.Delete("/orders/{id}/items/{menuItemID}", h.CancelItem)
	r.Patch("/orders/{id}/lines/{line}", h.UpdateLineCompletion)
	r.Post("/orders/{id}/delay", h.Delay)
}

// --- Request / Response types ---

type updateStatusRequest struct {
	Status  string `json:"status" validate:"required,oneof=pending preparing ready delivered canceled"`
	Version int64  `json:"version" validate:"gte=0"`
}

type completionRequest struct {
	Completed bool  `json:"completed"`
	Version   int64 `json:"version" validate:"gte=0"`
}

type delayRequest struct {
	Reason  string `json:"reason" validate:"max=200"`
	Version int64  `json:"version" validate:"gte=0"`
}

type tableOrdersResponse struct {
	TableNumber int             `json:"table_number"`
	Orders      []orderResponse `json:"orders"`
}

// --- Handlers ---

// List returns ledger orders, optionally filtered by ?status=.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	status, ok := statusPtr(r.URL.Query().Get("status"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status filter"})
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(h.store.FilteredOrders(status)))
}

// ByTable returns the ledger grouped by table number, lowest table first.
func (h *OrderHandler) ByTable(w http.ResponseWriter, r *http.Request) {
	groups := h.store.OrdersByTable()
	tables := make([]int, 0, len(groups))
	for n := range groups {
		tables = append(tables, n)
	}
	sort.Ints(tables)

	resp := make([]tableOrdersResponse, len(tables))
	for i, n := range tables {
		resp[i] = tableOrdersResponse{TableNumber: n, Orders: toOrderResponses(groups[n])}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns one order.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		return
	}
	o, err := h.store.Order(id)
	if err != nil {
		writeFloorError(w, h.logger, "get order", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// UpdateStatus moves an order along the workflow.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		return
	}
	req, err := decodeBody[updateStatusRequest](r)
	if err != nil {
		writeBodyError(w, err)
		return
	}
	o, err := h.store.UpdateOrderStatus(r.Context(), id, enum.OrderStatus(req.Status), req.Version)
	h.writeOrder(w, "update status", o, err)
}

// UpdateItemCompletion toggles the first line for a menu item.
func (h *OrderHandler) UpdateItemCompletion(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		return
	}
	menuItemID, ok := uuidParam(r, "menuItemID")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item id"})
		return
	}
	req, err := decodeBody[completionRequest](r)
	if err != nil {
		writeBodyError(w, err)
		return
	}
	o, err := h.store.UpdateItemCompletionStatus(r.Context(), id, menuItemID, req.Completed, req.Version)
	h.writeOrder(w, "item completion", o, err)
}

// UpdateLineCompletion toggles a single line by its index.
func (h *OrderHandler) UpdateLineCompletion(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		return
	}
	line, ok := intParam(r, "line")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid line"})
		return
	}
	req, err := decodeBody[completionRequest](r)
	if err != nil {
		writeBodyError(w, err)
		return
	}
	o, err := h.store.UpdateLineCompletionStatus(r.Context(), id, line, req.Completed, req.Version)
	h.writeOrder(w, "line completion", o, err)
}

// Delay flags an order as running late.
func (h *OrderHandler) Delay(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		return
	}
	req, err := decodeBody[delayRequest](r)
	if err != nil {
		writeBodyError(w, err)
		return
	}
	o, err := h.store.DelayOrder(r.Context(), id, req.Reason, req.Version)
	h.writeOrder(w, "delay order", o, err)
}

// CancelItem removes one line of a menu item. The expected version, if any,
// comes from ?version= since DELETE carries no body.
func (h *OrderHandler) CancelItem(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		return
	}
	menuItemID, ok := uuidParam(r, "menuItemID")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item id"})
		return
	}
	var version int64
	if v := r.URL.Query().Get("version"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid version"})
			return
		}
		version = n
	}
	o, err := h.store.CancelOrderItem(r.Context(), id, menuItemID, version)
	h.writeOrder(w, "cancel item", o, err)
}

func (h *OrderHandler) writeOrder(w http.ResponseWriter, op string, o *floor.Order, err error) {
	if err != nil {
		writeFloorError(w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(*o))
}
