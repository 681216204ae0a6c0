package router

import (
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/kiwari-pos/floor/internal/config"
	"github.com/kiwari-pos/floor/internal/enum"
	"github.com/kiwari-pos/floor/internal/floor"
	"github.com/kiwari-pos/floor/internal/handler"
	"github.com/kiwari-pos/floor/internal/metrics"
	mw "github.com/kiwari-pos/floor/internal/middleware"
	"github.com/kiwari-pos/floor/internal/ws"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the long-lived components the router wires into handlers.
type Deps struct {
	State      *floor.State
	Staff      handler.StaffDirectory
	Hub        *ws.Hub
	Collectors *metrics.Collectors
	Gatherer   prometheus.Gatherer
	Logger     *gecho.Logger
}

// New creates a Chi router with all application routes wired up.
// Applies authentication, display scoping, and role-based middleware as needed.
func New(cfg *config.Config, deps Deps) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(gecho.Handlers.CreateLoggingMiddleware(config.NewLogger(cfg, false)))
	if deps.Collectors != nil {
		r.Use(mw.Metrics(deps.Collectors))
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	authHandler := handler.NewAuthHandler(deps.Staff, cfg.JWTSecret, deps.Logger)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/displays/{display}", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(deps.Hub, cfg.JWTSecret, w, r)
	})

	tableHandler := handler.NewTableHandler(deps.State, deps.Logger)
	orderHandler := handler.NewOrderHandler(deps.State, deps.Logger)
	menuHandler := handler.NewMenuHandler(deps.State, deps.Logger)
	displayHandler := handler.NewDisplayHandler(deps.State, deps.Logger)
	statsHandler := handler.NewStatsHandler(deps.State)
	settingsHandler := handler.NewSettingsHandler(deps.State, deps.Logger)

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		// Any signed-in staff member
		menuHandler.RegisterRoutes(r)
		settingsHandler.RegisterRoutes(r)
		orderHandler.RegisterRoutes(r)

		// Floor staff work tables and carts
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.RoleWaiter, enum.RoleManager))
			tableHandler.RegisterRoutes(r)
		})

		// Screens, gated per display
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireDisplay)
			displayHandler.RegisterRoutes(r)
		})

		// Manager-only routes
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.RoleManager))
			tableHandler.RegisterAdminRoutes(r)
			menuHandler.RegisterAdminRoutes(r)
			settingsHandler.RegisterAdminRoutes(r)
			statsHandler.RegisterRoutes(r)
		})
	})

	deps.Logger.Info("Router initialized with all handlers")
	return r
}
