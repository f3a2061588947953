package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"event-ticketing/config"
	"event-ticketing/internal/handlers"
	"event-ticketing/internal/notify"
	"event-ticketing/internal/services"
	"event-ticketing/internal/store"
	"event-ticketing/monitoring"
	"event-ticketing/utils"

	_ "event-ticketing/migrations"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	pubnub "github.com/pubnub/go"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient, err := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	// Initialize PubNub when keys are configured
	var notifier *notify.Notifier
	if cfg.PubNubPublishKey != "" {
		pnConfig := pubnub.NewConfig()
		pnConfig.PublishKey = cfg.PubNubPublishKey
		pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
		pnConfig.SecretKey = cfg.PubNubSecretKey

		notifier = notify.New(pubnub.NewPubNub(pnConfig))
	} else {
		slog.Warn("pubnub keys not configured, organizer notifications disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize services
	st := store.New()
	replicaService := services.NewReplicaService(redisClient)
	recordService := services.NewRecordService(app)
	catalogService := services.NewCatalogService(st, replicaService, recordService)
	ticketingService := services.NewTicketingService(st, replicaService, recordService, notifier)
	userService := services.NewUserService(st, recordService)

	// Initialize handlers
	eventHandler := handlers.NewEventHandler(catalogService, ticketingService)
	ticketHandler := handlers.NewTicketHandler(ticketingService)
	userHandler := handlers.NewUserHandler(userService)
	adminHandler := handlers.NewAdminHandler(replicaService)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	// Metrics endpoint on its own port
	if cfg.EnableMetrics {
		monitor := monitoring.NewMonitor(st, cfg.MetricsInterval)
		defer monitor.Stop()

		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			slog.Info("metrics server listening", "port", cfg.MetricsPort)
			if err := http.ListenAndServe(":"+cfg.MetricsPort, mux); err != nil {
				slog.Error("metrics server stopped", "error", err)
			}
		}()
	}

	// Setup graceful shutdown
	go handleShutdown(cancel)

	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		// Reload persisted state, then rebuild the Redis replica from it.
		if err := recordService.Restore(st); err != nil {
			return err
		}
		go catalogService.SyncReplica(ctx)

		// Event endpoints
		e.Router.POST("/api/v1/events", eventHandler.CreateEvent).Bind(apis.RequireAuth())
		e.Router.GET("/api/v1/events", eventHandler.ListEvents)
		e.Router.GET("/api/v1/events/active", eventHandler.ListActiveEvents)
		e.Router.GET("/api/v1/events/{eventId}", eventHandler.GetEvent)
		e.Router.GET("/api/v1/events/{eventId}/statistics", eventHandler.GetEventStatistics)
		e.Router.POST("/api/v1/events/{eventId}/deactivate", eventHandler.DeactivateEvent).Bind(apis.RequireAuth())

		// Ticket endpoints
		e.Router.POST("/api/v1/tickets/purchase", ticketHandler.PurchaseTickets).Bind(apis.RequireAuth())
		e.Router.POST("/api/v1/tickets/{ticketId}/verify", ticketHandler.VerifyTicket).Bind(apis.RequireAuth())
		e.Router.POST("/api/v1/tickets/{ticketId}/use", ticketHandler.UseTicket).Bind(apis.RequireAuth())

		// User endpoints
		e.Router.GET("/api/v1/users/{userId}/profile", userHandler.GetProfile).Bind(apis.RequireAuth())
		e.Router.GET("/api/v1/users/{userId}/tickets", userHandler.GetTickets).Bind(apis.RequireAuth())
		e.Router.GET("/api/v1/users/{userId}/purchases", userHandler.GetPurchases).Bind(apis.RequireAuth())

		// Admin endpoints
		e.Router.GET("/api/v1/admin/sales-dashboard", adminHandler.SalesDashboard)

		// Health check
		e.Router.GET("/health", func(e *core.RequestEvent) error {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return e.JSON(503, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(200, map[string]string{"status": "healthy"})
		})

		slog.Info("server routes registered")
		return e.Next()
	})

	return app.Start()
}

// handleShutdown handles graceful shutdown
func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	slog.Info("shutdown signal received, cleaning up")
	cancel()
}
