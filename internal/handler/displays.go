package handler

import (
	"context"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/kiwari-pos/floor/internal/enum"
	"github.com/kiwari-pos/floor/internal/floor"
)

// DisplayStore defines the floor operations needed by display screens.
// Satisfied by *floor.State; narrow interface for testability.
type DisplayStore interface {
	DisplayQueue(display enum.Display) ([]floor.Order, error)
	HasNewOrders(display enum.Display) bool
	ClearNewOrders(ctx context.Context, display enum.Display) error
}

// DisplayHandler serves the kitchen, drinks and floor screens.
type DisplayHandler struct {
	store  DisplayStore
	logger *gecho.Logger
}

// NewDisplayHandler creates a new DisplayHandler.
func NewDisplayHandler(store DisplayStore, logger *gecho.Logger) *DisplayHandler {
	return &DisplayHandler{store: store, logger: logger}
}

// RegisterRoutes registers display endpoints. Callers are expected to gate
// the group with middleware.RequireDisplay.
func (h *DisplayHandler) RegisterRoutes(r chi.Router) {
	r.Get("/displays/{display}/queue", h.Queue)
	r.Post("/displays/{display}/ack", h.Ack)
}

type queueResponse struct {
	Display      string          `json:"display"`
	HasNewOrders bool            `json:"has_new_orders"`
	Orders       []orderResponse `json:"orders"`
}

// Queue returns the open orders for a screen with its unread flag.
func (h *DisplayHandler) Queue(w http.ResponseWriter, r *http.Request) {
	display := enum.Display(chi.URLParam(r, "display"))
	orders, err := h.store.DisplayQueue(display)
	if err != nil {
		writeFloorError(w, h.logger, "display queue", err)
		return
	}
	writeJSON(w, http.StatusOK, queueResponse{
		Display:      string(display),
		HasNewOrders: h.store.HasNewOrders(display),
		Orders:       toOrderResponses(orders),
	})
}

// Ack clears the unread flag once the screen has shown new orders.
func (h *DisplayHandler) Ack(w http.ResponseWriter, r *http.Request) {
	display := enum.Display(chi.URLParam(r, "display"))
	if err := h.store.ClearNewOrders(r.Context(), display); err != nil {
		writeFloorError(w, h.logger, "clear new orders", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
