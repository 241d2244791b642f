package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qs3c/archive_bot_server/config"
	"github.com/qs3c/archive_bot_server/internal/database"
	"github.com/qs3c/archive_bot_server/internal/pkg/queue"
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

	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	tgAPI, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		log.Fatalf("Failed to connect to Telegram: %v", err)
	}
	messenger := telegram.NewClient(tgAPI)

	broadcastQueue := queue.NewQueue(rdb, cfg.Queue.BroadcastQueue)
	userRepo := repository.NewUserRepository(db)
	broadcastService := service.NewBroadcastService(messenger, userRepo, broadcastQueue, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	log.Println("Broadcast worker started")

	// Broadcasts are sequential on purpose: a single sender stays inside
	// Telegram's rate limits without coordination.
	for {
		select {
		case <-ctx.Done():
			log.Println("Worker shutdown complete")
			return
		default:
			msg, err := broadcastQueue.Pop(ctx, 5*time.Second)
			if err != nil {
				if ctx.Err() != nil {
					log.Println("Worker shutdown complete")
					return
				}
				log.Printf("Failed to pop broadcast job: %v", err)
				continue
			}

			if msg == nil {
				continue // timeout, keep waiting
			}

			log.Printf("Processing broadcast from chat %d, message %d", msg.FromChatID, msg.MessageID)
			result, err := broadcastService.Send(msg.FromChatID, msg.MessageID)
			if err != nil {
				log.Printf("Broadcast failed: %v", err)
				continue
			}
			log.Printf("Broadcast done: %d sent, %d failed", result.Success, result.Failed)
		}
	}
}
