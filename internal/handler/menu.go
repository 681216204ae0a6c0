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

// MenuStore defines the catalog operations needed by menu handlers.
// Satisfied by *floor.State; narrow interface for testability.
type MenuStore interface {
	MenuItems(category *enum.MenuCategory) []floor.MenuItem
	MenuItem(id uuid.UUID) (floor.MenuItem, error)
	AddMenuItem(ctx context.Context, m floor.MenuItem) (floor.MenuItem, error)
	UpdateMenuItem(ctx context.Context, m floor.MenuItem) (floor.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id uuid.UUID) error
}

// MenuHandler handles catalog endpoints.
type MenuHandler struct {
	store  MenuStore
	logger *gecho.Logger
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(store MenuStore, logger *gecho.Logger) *MenuHandler {
	return &MenuHandler{store: store, logger: logger}
}

// RegisterRoutes registers read-only menu endpoints. Mutations are mounted by
// RegisterAdminRoutes behind the manager gate.
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/menu", h.List)
	r.Get("/menu/{id}", h.Get)
}

// RegisterAdminRoutes registers catalog mutations.
func (h *MenuHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/menu", h.Create)
	r.Put("/menu/{id}", h.Update)
	r.Delete("/menu/{id}", h.Delete)
}

// --- Request types ---

type menuItemRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	Price       string `json:"price" validate:"required"`
	Category    string `json:"category" validate:"required,oneof=appetizers main_dishes desserts drinks sides"`
	Available   *bool  `json:"available"`
}

func (req *menuItemRequest) toMenuItem() (floor.MenuItem, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return floor.MenuItem{}, err
	}
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	return floor.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Category:    enum.MenuCategory(req.Category),
		Available:   available,
	}, nil
}

// --- Handlers ---

// List returns the catalog, optionally filtered by ?category=.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	var category *enum.MenuCategory
	if c := r.URL.Query().Get("category"); c != "" {
		mc := enum.MenuCategory(c)
		if !mc.Valid() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category"})
			return
		}
		category = &mc
	}

	items := h.store.MenuItems(category)
	resp := make([]menuItemResponse, len(items))
	for i, m := range items {
		resp[i] = toMenuItemResponse(m)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns one menu item.
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item id"})
		return
	}
	m, err := h.store.MenuItem(id)
	if err != nil {
		writeFloorError(w, h.logger, "get menu item", err)
		return
	}
	writeJSON(w, http.StatusOK, toMenuItemResponse(m))
}

// Create adds a menu item.
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[menuItemRequest](r)
	if err != nil {
		writeBodyError(w, err)
		return
	}
	item, err := req.toMenuItem()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid price"})
		return
	}
	m, err := h.store.AddMenuItem(r.Context(), item)
	if err != nil {
		writeFloorError(w, h.logger, "add menu item", err)
		return
	}
	writeJSON(w, http.StatusCreated, toMenuItemResponse(m))
}

// Update replaces a menu item. Existing order lines keep their snapshot.
func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item id"})
		return
	}
	req, err := decodeBody[menuItemRequest](r)
	if err != nil {
		writeBodyError(w, err)
		return
	}
	item, err := req.toMenuItem()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid price"})
		return
	}
	item.ID = id
	m, err := h.store.UpdateMenuItem(r.Context(), item)
	if err != nil {
		writeFloorError(w, h.logger, "update menu item", err)
		return
	}
	writeJSON(w, http.StatusOK, toMenuItemResponse(m))
}

// Delete removes a menu item from the catalog.
func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item id"})
		return
	}
	if err := h.store.DeleteMenuItem(r.Context(), id); err != nil {
		writeFloorError(w, h.logger, "delete menu item", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
