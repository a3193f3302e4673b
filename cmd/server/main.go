package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.temporal.io/sdk/client"

	"github.com/cx-tal-miterani/airline-reservation/internal/activities"
	"github.com/cx-tal-miterani/airline-reservation/internal/config"
	"github.com/cx-tal-miterani/airline-reservation/internal/database"
	"github.com/cx-tal-miterani/airline-reservation/internal/handlers"
	"github.com/cx-tal-miterani/airline-reservation/internal/ledger"
	"github.com/cx-tal-miterani/airline-reservation/internal/network"
	"github.com/cx-tal-miterani/airline-reservation/internal/router"
	"github.com/cx-tal-miterani/airline-reservation/internal/service"
	"github.com/cx-tal-miterani/airline-reservation/internal/websocket"
	"github.com/cx-tal-miterani/airline-reservation/internal/worker"
)

func main() {
	cfg := config.Load()
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Seat events
	hub := websocket.NewHub()
	go hub.Run(ctx)

	graph := network.NewGraph()
	bookings := ledger.New(ledger.WithNotifier(hub))

	var opts []service.Option

	// Flight catalog
	if cfg.DatabaseURL != "" {
		log.Println("Connecting to database...")
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pool.Close()

		repo := database.NewRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to prepare schema: %v", err)
		}
		n, err := service.LoadCatalog(ctx, graph, repo)
		if err != nil {
			log.Fatalf("Failed to load flight catalog: %v", err)
		}
		log.Printf("Loaded %d flights from catalog", n)
		opts = append(opts, service.WithFlightStore(repo))
	}

	if cfg.SeedSampleNetwork && graph.Len() == 0 {
		if err := service.SeedSampleNetwork(graph); err != nil {
			log.Fatalf("Failed to seed sample network: %v", err)
		}
		log.Printf("Seeded sample network with %d flights", graph.Len())
	}

	// Route booking workflow
	if cfg.TemporalHost != "" {
		log.Printf("Connecting to Temporal at %s...", cfg.TemporalHost)
		temporalClient, err := client.Dial(client.Options{
			HostPort: cfg.TemporalHost,
		})
		if err != nil {
			log.Fatalf("Failed to create Temporal client: %v", err)
		}
		defer temporalClient.Close()

		w, err := worker.Start(temporalClient, cfg.TaskQueue, activities.NewActivities(graph, bookings))
		if err != nil {
			log.Fatalf("Failed to start Temporal worker: %v", err)
		}
		defer w.Stop()

		opts = append(opts, service.WithTemporal(temporalClient, cfg.TaskQueue))
	}

	// Initialize services
	reservationService := service.NewReservationService(graph, bookings, opts...)

	// Initialize handlers
	h := handlers.NewHandler(reservationService)

	// Create router
	r := router.SetupRouter(h, hub, router.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst))

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("API Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
