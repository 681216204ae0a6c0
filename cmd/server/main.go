package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kiwari-pos/floor/internal/auth"
	"github.com/kiwari-pos/floor/internal/config"
	"github.com/kiwari-pos/floor/internal/floor"
	"github.com/kiwari-pos/floor/internal/metrics"
	"github.com/kiwari-pos/floor/internal/router"
	"github.com/kiwari-pos/floor/internal/ws"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// demoPin is shared by the demo roster used outside production.
const demoPin = "1234"

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	logger := config.NewLogger(cfg, true)
	if envErr != nil {
		logger.Warn("No .env file found, using system environment variables")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", gecho.Field("error", err))
	}

	roster, err := loadRoster(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to load staff roster", gecho.Field("error", err))
	}

	state := floor.New(
		floor.WithMenu(floor.DemoMenu(uuid.New)),
		floor.WithTables(floor.DemoTables(cfg.TableCount)),
		floor.WithSettings(floor.Settings{SeatCharge: cfg.SeatCharge}),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.New()
	httpMetrics.MustRegister(reg)
	reg.MustRegister(metrics.NewFloorCollector(state, hub))

	state.Subscribe(hub.Publish)
	state.Subscribe(httpMetrics.CountEvents)

	r := router.New(cfg, router.Deps{
		State:      state,
		Staff:      roster,
		Hub:        hub,
		Collectors: httpMetrics,
		Gatherer:   reg,
		Logger:     logger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			gecho.Field("port", cfg.Port),
			gecho.Field("env", cfg.AppEnv),
			gecho.Field("tables", cfg.TableCount),
			gecho.Field("staff", roster.Len()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", gecho.Field("error", err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", gecho.Field("error", err))
	}
}

// loadRoster parses STAFF_ROSTER. Outside production an empty roster falls
// back to one demo account per role.
func loadRoster(cfg *config.Config, logger *gecho.Logger) (*auth.Roster, error) {
	if len(cfg.StaffRoster) > 0 {
		return auth.ParseRoster(cfg.StaffRoster)
	}
	if cfg.IsProduction() {
		return nil, errors.New("STAFF_ROSTER is required in production")
	}
	logger.Warn("STAFF_ROSTER not set, using demo staff", gecho.Field("pin", demoPin))
	return auth.DemoRoster(demoPin)
}
