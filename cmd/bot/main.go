package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/qs3c/archive_bot_server/config"
	"github.com/qs3c/archive_bot_server/internal/bot"
	"github.com/qs3c/archive_bot_server/internal/database"
	"github.com/qs3c/archive_bot_server/internal/pkg/cron"
	"github.com/qs3c/archive_bot_server/internal/pkg/queue"
	"github.com/qs3c/archive_bot_server/internal/repository"
	"github.com/qs3c/archive_bot_server/internal/service"
	"github.com/qs3c/archive_bot_server/internal/telegram"
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

	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	api, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		log.Fatalf("Failed to connect to Telegram: %v", err)
	}
	messenger := telegram.NewClient(api)

	broadcastQueue := queue.NewQueue(rdb, cfg.Queue.BroadcastQueue)

	userRepo := repository.NewUserRepository(db)
	bundleRepo := repository.NewBundleRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	channelRepo := repository.NewChannelRepository(db)
	planRepo := repository.NewPlanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	offerRepo := repository.NewOfferRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	accessService := service.NewAccessService(db, userRepo, planRepo, historyRepo)
	joinGateService := service.NewJoinGateService(messenger, channelRepo)
	deliveryService := service.NewDeliveryService(messenger, bundleRepo, deliveryRepo, messageRepo, cfg)
	deletionService := service.NewDeletionService(messenger, deliveryRepo, bundleRepo, deliveryService)
	paymentService := service.NewPaymentService(messenger, paymentRepo, planRepo, userRepo, accessService)
	planService := service.NewPlanService(planRepo)
	bundleService := service.NewBundleService(bundleRepo, settingsRepo)
	broadcastService := service.NewBroadcastService(messenger, userRepo, broadcastQueue, cfg)
	offerService := service.NewOfferService(offerRepo, bundleRepo)
	statsService := service.NewStatsService(userRepo, bundleRepo, deliveryRepo, historyRepo, paymentRepo)
	requestService := service.NewRequestService(requestRepo)

	cronService := cron.NewService(deletionService, offerService,
		time.Duration(cfg.Bot.SweepInterval)*time.Second)
	cronService.Start()
	defer cronService.Stop()

	b := bot.New(api, messenger, cfg, bot.Services{
		Access:    accessService,
		JoinGate:  joinGateService,
		Delivery:  deliveryService,
		Payment:   paymentService,
		Plan:      planService,
		Bundle:    bundleService,
		Broadcast: broadcastService,
		Offer:     offerService,
		Stats:     statsService,
		Request:   requestService,
	}, bundleRepo, channelRepo, messageRepo)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		b.Stop()
	}()

	b.Run()
	log.Println("Bot stopped")
}
