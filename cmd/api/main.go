package main

import (
	"fmt"
	"log"
	"os"

	"github.com/qs3c/archive_bot_server/config"
	"github.com/qs3c/archive_bot_server/internal/api"
	"github.com/qs3c/archive_bot_server/internal/api/handler"
	"github.com/qs3c/archive_bot_server/internal/database"
	"github.com/qs3c/archive_bot_server/internal/repository"
	"github.com/qs3c/archive_bot_server/internal/service"
	"github.com/qs3c/archive_bot_server/internal/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// Payment approval notifies the payer, so the panel also needs a bot
	// client.
	tgAPI, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		log.Fatalf("Failed to connect to Telegram: %v", err)
	}
	messenger := telegram.NewClient(tgAPI)

	userRepo := repository.NewUserRepository(db)
	bundleRepo := repository.NewBundleRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	planRepo := repository.NewPlanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	accessService := service.NewAccessService(db, userRepo, planRepo, historyRepo)
	paymentService := service.NewPaymentService(messenger, paymentRepo, planRepo, userRepo, accessService)
	planService := service.NewPlanService(planRepo)
	bundleService := service.NewBundleService(bundleRepo, settingsRepo)
	statsService := service.NewStatsService(userRepo, bundleRepo, deliveryRepo, historyRepo, paymentRepo)

	router := api.NewRouter(
		handler.NewAuthHandler(cfg),
		handler.NewStatsHandler(statsService),
		handler.NewPlanHandler(planService),
		handler.NewPaymentHandler(paymentService),
		handler.NewBundleHandler(bundleService),
		cfg,
	)
	engine := router.Setup()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Panel API starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
