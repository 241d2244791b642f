package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/qs3c/archive_bot_server/config"
	"github.com/qs3c/archive_bot_server/internal/database"
	"github.com/qs3c/archive_bot_server/internal/repository"
	"github.com/qs3c/archive_bot_server/internal/service"
	"github.com/qs3c/archive_bot_server/internal/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var dryRun = flag.Bool("dry-run", true, "List due deliveries without deleting anything")

// Manual sweep for operators: the bot process runs the same pass on a
// timer, this binary exists for catching up after downtime.
func main() {
	flag.Parse()

	log.Printf("Starting deletion sweep, dry-run=%v", *dryRun)

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

	deliveryRepo := repository.NewDeliveryRepository(db)

	if *dryRun {
		due, err := deliveryRepo.GetDue(time.Now())
		if err != nil {
			log.Fatalf("Failed to query due deliveries: %v", err)
		}
		for _, d := range due {
			log.Printf("Due: delivery %d, bundle %d, user %d, deadline %s",
				d.ID, d.BundleID, d.UserID, d.DeleteAt.Format(time.RFC3339))
		}
		log.Printf("%d deliveries due, nothing deleted (dry run)", len(due))
		return
	}

	tgAPI, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		log.Fatalf("Failed to connect to Telegram: %v", err)
	}
	messenger := telegram.NewClient(tgAPI)

	bundleRepo := repository.NewBundleRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	deliveryService := service.NewDeliveryService(messenger, bundleRepo, deliveryRepo, messageRepo, cfg)
	deletionService := service.NewDeletionService(messenger, deliveryRepo, bundleRepo, deliveryService)

	if err := deletionService.ProcessPendingDeletions(); err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}
	log.Println("Sweep complete")
}
