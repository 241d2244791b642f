package bot

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"

	"github.com/qs3c/archive_bot_server/internal/model"
	"github.com/qs3c/archive_bot_server/internal/service"
)

const defaultGreeting = "Welcome! Send me a bundle code to receive its content."

func (b *Bot) handleUserMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	user, _, err := b.svc.Access.GetOrCreateUser(msg.From.ID)
	if err != nil {
		log.Printf("Failed to load user %d: %v", msg.From.ID, err)
		b.reply(chatID, "Something went wrong. Please try again.")
		return
	}

	if msg.IsCommand() {
		b.userStates.clear(chatID)
		switch msg.Command() {
		case "start":
			b.handleStart(msg, user)
		case "profile":
			b.sendProfile(chatID, user)
		case "plans":
			b.sendPlans(chatID)
		case "request":
			b.userStates.set(chatID, &userState{kind: stateAwaitRequest})
			b.reply(chatID, "Describe the content you are looking for and I will pass it on.")
		case "help":
			b.reply(chatID, "Send a bundle code to download. /plans to subscribe, /profile for your account, /request to ask for new content.")
		default:
			b.reply(chatID, "Unknown command. See /help.")
		}
		return
	}

	if state, ok := b.userStates.get(chatID); ok {
		switch state.kind {
		case stateAwaitScreenshot:
			b.handleScreenshot(msg, user, state.planID)
			return
		case stateAwaitRequest:
			b.userStates.clear(chatID)
			if strings.TrimSpace(msg.Text) == "" {
				b.reply(chatID, "Please send the request as text.")
				return
			}
			if err := b.svc.Request.Submit(user.TgUserID, msg.Text); err != nil {
				log.Printf("Failed to submit request from user %d: %v", user.TgUserID, err)
				b.reply(chatID, "Could not save your request. Please try again.")
				return
			}
			b.reply(chatID, "Thanks! Your request was forwarded to the admins.")
			return
		}
	}

	code := strings.TrimSpace(msg.Text)
	if code == "" {
		b.reply(chatID, "Send me a bundle code to receive its content.")
		return
	}
	b.handleCodeEntry(chatID, user, code)
}

func (b *Bot) handleUserCallback(query *tgbotapi.CallbackQuery, action, arg string) {
	chatID := query.Message.Chat.ID

	user, _, err := b.svc.Access.GetOrCreateUser(query.From.ID)
	if err != nil {
		log.Printf("Failed to load user %d: %v", query.From.ID, err)
		return
	}

	switch action {
	case "joined":
		b.handleCodeEntry(chatID, user, arg)
	case "buy":
		b.userStates.set(chatID, &userState{kind: stateAwaitScreenshot, planID: arg})
		b.reply(chatID, "Send a screenshot of your payment and an admin will review it shortly.")
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message, user *model.User) {
	chatID := msg.Chat.ID
	payload := strings.TrimSpace(msg.CommandArguments())

	if payload != "" {
		// Deep links carry a bundle code; anything else is tried as a
		// referral code.
		if _, err := b.bundleRepo.GetByCode(payload); err == nil {
			b.sendGreeting(chatID)
			b.handleCodeEntry(chatID, user, payload)
			return
		}

		if user.ReferredBy == "" {
			referrer, err := b.svc.Access.ApplyReferral(user, payload)
			if err != nil {
				log.Printf("Failed to apply referral %q for user %d: %v", payload, user.TgUserID, err)
			} else if referrer != nil {
				b.reply(referrer.TgUserID,
					fmt.Sprintf("Someone joined with your link! You now have %d tokens.", referrer.ReferralTokens))
			}
		}
	}

	b.sendGreeting(chatID)
}

func (b *Bot) sendGreeting(chatID int64) {
	starting, err := b.messageRepo.GetStartingMessage()
	if err == nil {
		if _, err := b.messenger.CopyMessage(chatID, starting.FromChatID, starting.MessageID); err == nil {
			return
		}
		log.Printf("Failed to copy starting message to chat %d", chatID)
	}
	b.reply(chatID, defaultGreeting)
}

// handleCodeEntry runs the full download flow for one bundle code: join gate,
// then the access decision, then delivery and its side effects.
func (b *Bot) handleCodeEntry(chatID int64, user *model.User, code string) {
	gate, err := b.svc.JoinGate.CheckMemberships(user.TgUserID)
	if err != nil {
		log.Printf("Join gate check failed for user %d: %v", user.TgUserID, err)
		b.reply(chatID, "Something went wrong. Please try again.")
		return
	}
	if !gate.AllJoined {
		b.sendJoinGate(chatID, gate, code)
		return
	}

	bundle, err := b.bundleRepo.GetByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			b.reply(chatID, "No bundle found for that code. Check it and try again.")
			return
		}
		log.Printf("Failed to look up bundle %q: %v", code, err)
		b.reply(chatID, "Something went wrong. Please try again.")
		return
	}
	if !bundle.IsActive {
		b.reply(chatID, "This bundle is currently unavailable.")
		return
	}

	// A bundle already in the user's history is re-sent without spending
	// anything.
	redownload, err := b.svc.Access.IsRedownload(user, bundle)
	if err != nil {
		log.Printf("Failed to check download history for user %d: %v", user.TgUserID, err)
	}

	var decision service.Decision
	if !redownload {
		decision = b.svc.Access.Evaluate(user, bundle)
		if !decision.Allowed {
			text := decision.Warning
			if text == "" {
				text = "You cannot download this bundle."
			}
			b.reply(chatID, text)
			if decision.Reason == service.ReasonNeedSubscription || decision.Reason == service.ReasonNeedPlus {
				b.sendPlans(chatID)
			}
			return
		}
	}

	delivered, err := b.svc.Delivery.Deliver(code, user.TgUserID)
	if err != nil {
		log.Printf("Delivery of %q to user %d failed: %v", code, user.TgUserID, err)
		b.reply(chatID, "Delivery failed. Please try again later.")
		return
	}
	if !delivered {
		b.reply(chatID, "This bundle could not be delivered right now.")
		return
	}

	if !redownload {
		if err := b.svc.Access.ProcessDownload(user, bundle, decision); err != nil {
			if errors.Is(err, service.ErrNoTokens) {
				b.reply(chatID, service.WarningTokensExhausted)
				return
			}
			log.Printf("Failed to record download of %q by user %d: %v", code, user.TgUserID, err)
		}

		if decision.Warning != "" {
			b.reply(chatID, decision.Warning)
		}
	}

	minutes := b.cfg.Bot.AutoDeleteDelay / 60
	if minutes < 1 {
		minutes = 1
	}
	b.reply(chatID, fmt.Sprintf("Content delivered. It will be removed in about %d minute(s), save what you need.", minutes))
}

func (b *Bot) sendJoinGate(chatID int64, gate *service.GateResult, code string) {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, channel := range gate.Missing {
		if channel.JoinLink == "" {
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("Join "+channel.Title, channel.JoinLink),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("I've joined ✅", "joined:"+code),
	))

	msg := tgbotapi.NewMessage(chatID, "To receive content you must join our channels first:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send(msg)
}

func (b *Bot) sendProfile(chatID int64, user *model.User) {
	var sub string
	if user.IsSubscriptionActive() {
		expiry := time.Unix(*user.ExpiryDate, 0).Format("2006-01-02")
		sub = fmt.Sprintf("%s (until %s)", user.SubscriptionTier, expiry)
	} else {
		sub = "none"
	}

	link := fmt.Sprintf("https://t.me/%s?start=%s", b.messenger.Username(), user.ReferralCode)
	text := fmt.Sprintf(
		"Your profile\n\nSubscription: %s\nTokens: %d\nDownloads: %d\n\nInvite friends to earn tokens:\n%s",
		sub, user.ReferralTokens, user.TotalDownloads, link)
	b.reply(chatID, text)
}

func (b *Bot) sendPlans(chatID int64) {
	plans, err := b.svc.Plan.Active()
	if err != nil {
		log.Printf("Failed to list plans: %v", err)
		b.reply(chatID, "Plans are unavailable right now.")
		return
	}
	if len(plans) == 0 {
		b.reply(chatID, "No subscription plans are available right now.")
		return
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, plan := range plans {
		label := fmt.Sprintf("%s — %d days (%s) — %d", plan.PlanName, plan.DurationDays, plan.Tier, plan.Price)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "buy:"+plan.PlanID),
		))
	}

	msg := tgbotapi.NewMessage(chatID, "Choose a subscription plan:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send(msg)
}

func (b *Bot) handleScreenshot(msg *tgbotapi.Message, user *model.User, planID string) {
	chatID := msg.Chat.ID

	if len(msg.Photo) == 0 {
		b.reply(chatID, "Please send the payment confirmation as a photo.")
		return
	}
	b.userStates.clear(chatID)

	fileID := msg.Photo[len(msg.Photo)-1].FileID
	payment, err := b.svc.Payment.Submit(user.TgUserID, planID, fileID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentPendingExists):
			b.reply(chatID, "You already have a payment under review.")
		case errors.Is(err, service.ErrPlanNotFound):
			b.reply(chatID, "That plan is no longer available.")
		default:
			log.Printf("Failed to submit payment for user %d: %v", user.TgUserID, err)
			b.reply(chatID, "Could not submit your payment. Please try again.")
		}
		return
	}

	b.reply(chatID, "Your payment is under review. You will be notified once it is processed.")
	b.notifyAdmins(fmt.Sprintf("New payment #%d from user %d for plan %s. Review with /payments.",
		payment.ID, user.TgUserID, planID))
}

func (b *Bot) notifyAdmins(text string) {
	for _, adminID := range b.cfg.Bot.AdminIDs {
		if err := b.messenger.SendMessage(adminID, text); err != nil {
			log.Printf("Failed to notify admin %d: %v", adminID, err)
		}
	}
}
