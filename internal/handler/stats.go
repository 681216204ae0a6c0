package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiwari-pos/floor/internal/floor"
)

const defaultTopItems = 5

// StatsStore defines the ledger reports needed by stats handlers.
// Satisfied by *floor.State; narrow interface for testability.
type StatsStore interface {
	MostOrderedItems(n int) []floor.ItemTally
	DailySummary(day time.Time) floor.DailySummary
}

// StatsHandler serves manager reports computed from the ledger.
type StatsHandler struct {
	store StatsStore
	now   func() time.Time
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(store StatsStore) *StatsHandler {
	return &StatsHandler{store: store, now: time.Now}
}

// RegisterRoutes registers stats endpoints on the given Chi router.
func (h *StatsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/stats/most-ordered", h.MostOrdered)
	r.Get("/stats/daily", h.Daily)
}

type itemTallyResponse struct {
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Quantity   int       `json:"quantity"`
}

type dailySummaryResponse struct {
	Date          string `json:"date"`
	OrderCount    int    `json:"order_count"`
	CanceledCount int    `json:"canceled_count"`
	Covers        int    `json:"covers"`
	Gross         string `json:"gross"`
	Paid          string `json:"paid"`
	Outstanding   string `json:"outstanding"`
}

// MostOrdered returns the top ?n= menu items by ordered quantity.
func (h *StatsHandler) MostOrdered(w http.ResponseWriter, r *http.Request) {
	n := defaultTopItems
	if s := r.URL.Query().Get("n"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "n must be a non-negative integer"})
			return
		}
		n = v
	}

	tallies := h.store.MostOrderedItems(n)
	resp := make([]itemTallyResponse, len(tallies))
	for i, t := range tallies {
		resp[i] = itemTallyResponse{
			MenuItemID: t.MenuItem.ID,
			Name:       t.MenuItem.Name,
			Category:   string(t.MenuItem.Category),
			Quantity:   t.Quantity,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Daily totals one business day, ?date=YYYY-MM-DD, today by default.
func (h *StatsHandler) Daily(w http.ResponseWriter, r *http.Request) {
	day, err := h.parseDay(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sum := h.store.DailySummary(day)
	writeJSON(w, http.StatusOK, dailySummaryResponse{
		Date:          sum.Date,
		OrderCount:    sum.OrderCount,
		CanceledCount: sum.Canceled,
		Covers:        sum.Covers,
		Gross:         sum.Gross.StringFixed(2),
		Paid:          sum.Paid.StringFixed(2),
		Outstanding:   sum.Outstanding.StringFixed(2),
	})
}

func (h *StatsHandler) parseDay(r *http.Request) (time.Time, error) {
	const layout = "2006-01-02"
	now := h.now()
	s := r.URL.Query().Get("date")
	if s == "" {
		return now, nil
	}
	t, err := time.ParseInLocation(layout, s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, want YYYY-MM-DD")
	}
	return t, nil
}
