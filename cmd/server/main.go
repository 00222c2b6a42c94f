package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mealplan_delivery_service/internal/app"
	"mealplan_delivery_service/internal/infra/config"
	idb "mealplan_delivery_service/internal/infra/database"
	"mealplan_delivery_service/internal/infra/httpapi"
	"mealplan_delivery_service/internal/infra/logger"
	"mealplan_delivery_service/internal/infra/plangen"
	"mealplan_delivery_service/internal/infra/scheduler"
	"mealplan_delivery_service/internal/infra/telegram"
	"mealplan_delivery_service/internal/infra/whatsapp"
)

func main() {
	fmt.Println("Meal Plan Delivery Service starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	log := logger.Get()
	log.Infof("Configuration loaded. LogLevel: %s, Environment: %s, PollInterval: %s", cfg.LogLevel, cfg.Environment, cfg.PollInterval)

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully.")

	// Initialize Repositories
	userRepo := idb.NewPostgresUserRepository(db)
	planRepo := idb.NewPostgresMealPlanRepository(db)
	ingredientRepo := idb.NewPostgresIngredientRepository(db)
	log.Info("Repositories initialized.")

	// Plan generator: remote model when configured, heuristic fallback always.
	var remote *plangen.RemoteClient
	if cfg.GeneratorAPIURL != "" {
		remote = plangen.NewRemoteClient(cfg.GeneratorAPIURL, cfg.GeneratorAPIKey, cfg.GeneratorModel, cfg.GeneratorTimeout)
		log.Infof("Remote plan generator configured (model %s)", cfg.GeneratorModel)
	} else {
		log.Warn("GENERATOR_API_URL not set; running on the heuristic plan generator only.")
	}
	generator := plangen.NewService(remote, log)

	// Messaging gateway
	gateway := whatsapp.NewClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, cfg.GatewayTimeout, log)
	log.Info("WhatsApp gateway initialized.")

	// Optional ops alerting
	var alerter app.Alerter
	if cfg.TelegramToken != "" && cfg.AdminChatID != 0 {
		tg, err := telegram.NewAlerter(cfg.TelegramToken, cfg.AdminChatID)
		if err != nil {
			log.Warnf("Could not initialize Telegram alerter, continuing without it: %v", err)
		} else {
			alerter = tg
			log.Info("Telegram ops alerting enabled.")
		}
	}

	// Core services
	dispatchService := app.NewDispatchService(userRepo, planRepo, ingredientRepo, generator, gateway, alerter, log)
	scheduleService := app.NewScheduleService(userRepo)

	// Recurring scheduler loop
	deliveryScheduler := scheduler.NewDeliveryScheduler(dispatchService, cfg.PollInterval, log)
	if err := deliveryScheduler.Start(); err != nil {
		log.Fatalf("FATAL: Could not start delivery scheduler: %v", err)
	}

	// HTTP API
	server := httpapi.NewServer(cfg.ListenAddr, dispatchService, scheduleService, planRepo, ingredientRepo, log)
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("FATAL: HTTP server failed: %v", err)
		}
	}()

	log.Info("Application setup complete. Scheduler and API are running.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down application...")
	deliveryScheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}
	log.Info("Application shut down gracefully.")
}
