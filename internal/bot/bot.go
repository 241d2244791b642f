package bot

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/qs3c/archive_bot_server/config"
	"github.com/qs3c/archive_bot_server/internal/repository"
	"github.com/qs3c/archive_bot_server/internal/service"
	"github.com/qs3c/archive_bot_server/internal/telegram"
)

// Services bundles the business-logic collaborators the bot dispatches to.
type Services struct {
	Access    *service.AccessService
	JoinGate  *service.JoinGateService
	Delivery  *service.DeliveryService
	Payment   *service.PaymentService
	Plan      *service.PlanService
	Bundle    *service.BundleService
	Broadcast *service.BroadcastService
	Offer     *service.OfferService
	Stats     *service.StatsService
	Request   *service.RequestService
}

// Bot routes Telegram updates to the user and admin handlers.
type Bot struct {
	api       *tgbotapi.BotAPI
	messenger telegram.Messenger
	cfg       *config.Config
	svc       Services

	bundleRepo  *repository.BundleRepository
	channelRepo *repository.ChannelRepository
	messageRepo *repository.MessageRepository

	adminSessions *sessionStore
	userStates    *userStateStore
}

func New(
	api *tgbotapi.BotAPI,
	messenger telegram.Messenger,
	cfg *config.Config,
	svc Services,
	bundleRepo *repository.BundleRepository,
	channelRepo *repository.ChannelRepository,
	messageRepo *repository.MessageRepository,
) *Bot {
	return &Bot{
		api:           api,
		messenger:     messenger,
		cfg:           cfg,
		svc:           svc,
		bundleRepo:    bundleRepo,
		channelRepo:   channelRepo,
		messageRepo:   messageRepo,
		adminSessions: newSessionStore(),
		userStates:    newUserStateStore(),
	}
}

// Run consumes the long-polling update channel until it is closed.
func (b *Bot) Run() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	log.Printf("Bot @%s started", b.api.Self.UserName)

	for update := range updates {
		b.dispatch(update)
	}
}

// Stop shuts down the update channel, which unblocks Run.
func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}

func (b *Bot) dispatch(update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		b.handleMessage(update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}

	if b.cfg.Bot.IsAdmin(msg.From.ID) {
		if handled := b.handleAdminMessage(msg); handled {
			return
		}
	}

	b.handleUserMessage(msg)
}

func (b *Bot) handleCallback(query *tgbotapi.CallbackQuery) {
	if query.From == nil || query.Message == nil {
		return
	}

	// Answer immediately so the client stops its spinner.
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.Printf("Failed to answer callback %s: %v", query.ID, err)
	}

	action, arg := splitCallbackData(query.Data)

	if b.cfg.Bot.IsAdmin(query.From.ID) {
		if handled := b.handleAdminCallback(query, action, arg); handled {
			return
		}
	}

	b.handleUserCallback(query, action, arg)
}

func (b *Bot) reply(chatID int64, text string) {
	if err := b.messenger.SendMessage(chatID, text); err != nil {
		log.Printf("Failed to send message to chat %d: %v", chatID, err)
	}
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func splitCallbackData(data string) (action, arg string) {
	for i := 0; i < len(data); i++ {
		if data[i] == ':' {
			return data[:i], data[i+1:]
		}
	}
	return data, ""
}
