package handler

import (
	"context"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiwari-pos/floor/internal/enum"
	"github.com/kiwari-pos/floor/internal/floor"
	"github.com/shopspring/decimal"
)

// SettingsStore defines the venue settings operations.
// Satisfied by *floor.State; narrow interface for testability.
type SettingsStore interface {
	Settings() floor.Settings
	SetSeatCharge(ctx context.Context, amount decimal.Decimal) (floor.Settings, error)
	SetEmergency(ctx context.Context, flags floor.EmergencyFlags) (floor.Settings, error)
	AddPrinter(ctx context.Context, p floor.Printer) (floor.Settings, error)
	RemovePrinter(ctx context.Context, id uuid.UUID) (floor.Settings, error)
}

// SettingsHandler handles the admin settings screen.
type SettingsHandler struct {
	store  SettingsStore
	logger *gecho.Logger
}

func NewSettingsHandler(store SettingsStore, logger *gecho.Logger) *SettingsHandler {
	return &SettingsHandler{store: store, logger: logger}
}

// RegisterRoutes registers the settings read. Everyone signed in can see
// emergency flags.
func (h *SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/settings", h.Get)
}

// RegisterAdminRoutes registers settings mutations.
func (h *SettingsHandler) RegisterAdminRoutes(r chi.Router) {
	r.Put("/settings/seat-charge", h.UpdateSeatCharge)
	r.Put("/settings/emergency", h.UpdateEmergency)
	r.Post("/settings/printers", h.AddPrinter)
	r.Delete("/settings/printers/{id}", h.RemovePrinter)
}

type seatChargeRequest struct {
	SeatCharge string `json:"seat_charge" validate:"required"`
}

type emergencyRequest struct {
	KitchenOffline bool `json:"kitchen_offline"`
	DrinksOffline  bool `json:"drinks_offline"`
	CashOnly       bool `json:"cash_only"`
}

type printerRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Address string `json:"address" validate:"max=255"`
	Display string `json:"display" validate:"required,oneof=kitchen drinks floor"`
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toSettingsResponse(h.store.Settings()))
}

func (h *SettingsHandler) UpdateSeatCharge(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[seatChargeRequest](r)
	if err != nil {
		writeBodyError(w, err)
		return
	}
	amount, err := decimal.NewFromString(req.SeatCharge)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid seat_charge"})
		return
	}
	st, err := h.store.SetSeatCharge(r.Context(), amount)
	h.writeSettings(w, "set seat charge", st, err)
}

func (h *SettingsHandler) UpdateEmergency(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[emergencyRequest](r)
	if err != nil {
		writeBodyError(w, err)
		return
	}
	st, err := h.store.SetEmergency(r.Context(), floor.EmergencyFlags(*req))
	h.writeSettings(w, "set emergency", st, err)
}

func (h *SettingsHandler) AddPrinter(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[printerRequest](r)
	if err != nil {
		writeBodyError(w, err)
		return
	}
	st, err := h.store.AddPrinter(r.Context(), floor.Printer{
		Name:    req.Name,
		Address: req.Address,
		Display: enum.Display(req.Display),
	})
	if err != nil {
		writeFloorError(w, h.logger, "add printer", err)
		return
	}
	writeJSON(w, http.StatusCreated, toSettingsResponse(st))
}

func (h *SettingsHandler) RemovePrinter(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid printer id"})
		return
	}
	st, err := h.store.RemovePrinter(r.Context(), id)
	h.writeSettings(w, "remove printer", st, err)
}

func (h *SettingsHandler) writeSettings(w http.ResponseWriter, op string, st floor.Settings, err error) {
	if err != nil {
		writeFloorError(w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsResponse(st))
}
