package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/qs3c/archive_bot_server/internal/model"
	"github.com/qs3c/archive_bot_server/internal/repository"
	"github.com/qs3c/archive_bot_server/internal/service"
)

// handleAdminMessage processes admin commands and active admin sessions.
// Returns false when the message should fall through to the user handlers,
// so admins can use the bot like a regular user too.
func (b *Bot) handleAdminMessage(msg *tgbotapi.Message) bool {
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		switch msg.Command() {
		case "newbundle":
			b.startRecording(msg)
		case "done":
			b.finishRecording(chatID)
		case "cancel":
			b.adminSessions.clear(chatID)
			b.reply(chatID, "Cancelled.")
		case "bundles":
			b.listBundles(chatID, msg.CommandArguments())
		case "togglebundle":
			b.toggleBundle(chatID, msg.CommandArguments())
		case "addchannel":
			b.addChannel(chatID, msg.CommandArguments())
		case "channels":
			b.listChannels(chatID)
		case "delchannel":
			b.deleteChannel(chatID, msg.CommandArguments())
		case "addplan":
			b.addPlan(chatID, msg.CommandArguments())
		case "broadcast":
			b.adminSessions.set(chatID, &adminSession{kind: sessionAwaitBroadcast})
			b.reply(chatID, fmt.Sprintf("Send the message to broadcast to %d users, or /cancel.", b.svc.Broadcast.UserCount()))
		case "offer":
			b.startOffer(chatID, msg.CommandArguments())
		case "offers":
			b.listOffers(chatID)
		case "stopoffer":
			b.stopOffer(chatID, msg.CommandArguments())
		case "addending":
			name := strings.TrimSpace(msg.CommandArguments())
			if name == "" {
				b.reply(chatID, "Usage: /addending <name>")
				return true
			}
			b.adminSessions.set(chatID, &adminSession{kind: sessionAwaitEnding, endingName: name})
			b.reply(chatID, "Send or forward the message to use as this ending.")
		case "setstart":
			b.adminSessions.set(chatID, &adminSession{kind: sessionAwaitStarting})
			b.reply(chatID, "Send or forward the message to use as the /start greeting.")
		case "stats":
			b.sendStats(chatID, msg.CommandArguments())
		case "payments":
			b.listPayments(chatID)
		case "requests":
			b.listRequests(chatID)
		case "admin":
			b.reply(chatID, adminHelp)
		default:
			return false
		}
		return true
	}

	session, ok := b.adminSessions.get(chatID)
	if !ok {
		return false
	}

	switch session.kind {
	case sessionRecording:
		b.recordItem(msg, session)
	case sessionAwaitBroadcast:
		b.adminSessions.clear(chatID)
		b.enqueueBroadcast(msg)
	case sessionAwaitEnding:
		b.adminSessions.clear(chatID)
		fromChatID, messageID := sourceOf(msg)
		if err := b.messageRepo.CreateEnding(session.endingName, fromChatID, messageID); err != nil {
			log.Printf("Failed to save ending message: %v", err)
			b.reply(chatID, "Could not save the ending message.")
			return true
		}
		b.reply(chatID, fmt.Sprintf("Ending message %q saved.", session.endingName))
	case sessionAwaitStarting:
		b.adminSessions.clear(chatID)
		fromChatID, messageID := sourceOf(msg)
		if err := b.messageRepo.SetStartingMessage(fromChatID, messageID); err != nil {
			log.Printf("Failed to save starting message: %v", err)
			b.reply(chatID, "Could not save the starting message.")
			return true
		}
		b.reply(chatID, "Starting message updated.")
	}
	return true
}

const adminHelp = `Admin commands:
/newbundle <title>[|<level>] — start recording a bundle (/done to finish)
/bundles [query] — list or search bundles
/togglebundle <id> — enable/disable a bundle
/addchannel <chat_id|invite_link> — add a mandatory channel
/channels, /delchannel <id>
/addplan <plan_id>|<name>|<days>|<tier>|<price>
/offer <bundle_id> <level> <hours> <name>, /offers, /stopoffer <id>
/broadcast — send a message to all users
/addending <name>, /setstart
/stats [weekly|monthly|total]
/payments — review pending payments
/requests — open content requests`

func (b *Bot) handleAdminCallback(query *tgbotapi.CallbackQuery, action, arg string) bool {
	chatID := query.Message.Chat.ID

	switch action {
	case "payok", "payno":
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return true
		}
		adminName := query.From.UserName
		if adminName == "" {
			adminName = strconv.FormatInt(query.From.ID, 10)
		}

		var payment *model.PaymentQueue
		if action == "payok" {
			payment, err = b.svc.Payment.Approve(id, adminName)
		} else {
			payment, err = b.svc.Payment.Reject(id, adminName)
		}
		if err != nil {
			if errors.Is(err, repository.ErrPaymentNotPending) {
				b.reply(chatID, "This payment was already processed.")
				return true
			}
			log.Printf("Failed to process payment %d: %v", id, err)
			b.reply(chatID, "Failed to process the payment.")
			return true
		}
		b.reply(chatID, fmt.Sprintf("Payment #%d %s.", payment.ID, payment.Status))
		return true

	case "reqdone":
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return true
		}
		if err := b.svc.Request.Resolve(id); err != nil {
			log.Printf("Failed to resolve request %d: %v", id, err)
			b.reply(chatID, "Failed to resolve the request.")
			return true
		}
		b.reply(chatID, fmt.Sprintf("Request #%d resolved.", id))
		return true
	}
	return false
}

func (b *Bot) startRecording(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		b.reply(chatID, "Usage: /newbundle <title>[|<level>]")
		return
	}

	title := args
	level := model.AccessFree
	if idx := strings.Index(args, "|"); idx >= 0 {
		title = strings.TrimSpace(args[:idx])
		level = strings.TrimSpace(args[idx+1:])
	}
	if level != model.AccessFree && level != model.AccessPremium && level != model.AccessPlus {
		b.reply(chatID, "Level must be free, premium or plus.")
		return
	}

	bundle, err := b.svc.Bundle.Create(title, msg.From.ID, level)
	if err != nil {
		log.Printf("Failed to create bundle: %v", err)
		b.reply(chatID, "Could not create the bundle.")
		return
	}

	b.adminSessions.set(chatID, &adminSession{
		kind:       sessionRecording,
		bundleID:   bundle.ID,
		bundleCode: bundle.Code,
	})
	b.reply(chatID, fmt.Sprintf("Recording bundle #%s (%s). Forward the content from the archive chat, then /done.",
		bundle.PublicNumberStr, level))
}

func (b *Bot) recordItem(msg *tgbotapi.Message, session *adminSession) {
	chatID := msg.Chat.ID

	if msg.ForwardFromChat == nil || !b.cfg.Bot.IsArchiveChat(msg.ForwardFromChat.ID) {
		b.reply(chatID, "Forward the content from the archive chat, or /done to finish.")
		return
	}

	err := b.svc.Bundle.AddItem(session.bundleID, msg.ForwardFromChat.ID, msg.ForwardFromMessageID, mediaTypeOf(msg))
	if err != nil {
		log.Printf("Failed to add item to bundle %d: %v", session.bundleID, err)
		b.reply(chatID, "Could not record that item.")
		return
	}

	session.itemCount++
	b.adminSessions.set(chatID, session)
	b.reply(chatID, fmt.Sprintf("Item %d recorded.", session.itemCount))
}

func (b *Bot) finishRecording(chatID int64) {
	session, ok := b.adminSessions.get(chatID)
	if !ok || session.kind != sessionRecording {
		b.reply(chatID, "Nothing to finish.")
		return
	}
	b.adminSessions.clear(chatID)

	if session.itemCount == 0 {
		b.reply(chatID, "Bundle saved without items. Add content before sharing its code: "+session.bundleCode)
		return
	}
	b.reply(chatID, fmt.Sprintf("Bundle recorded with %d item(s). Code: %s", session.itemCount, session.bundleCode))
}

func (b *Bot) listBundles(chatID int64, query string) {
	var bundles []*model.Bundle
	var err error
	if query = strings.TrimSpace(query); query != "" {
		bundles, err = b.svc.Bundle.Search(query)
	} else {
		bundles, err = b.svc.Bundle.List(20)
	}
	if err != nil {
		log.Printf("Failed to list bundles: %v", err)
		b.reply(chatID, "Could not list bundles.")
		return
	}
	if len(bundles) == 0 {
		b.reply(chatID, "No bundles found.")
		return
	}

	var sb strings.Builder
	for _, bundle := range bundles {
		status := "on"
		if !bundle.IsActive {
			status = "off"
		}
		fmt.Fprintf(&sb, "#%s [%d] %s (%s, %s) code=%s\n",
			bundle.PublicNumberStr, bundle.ID, bundle.Title, bundle.AccessLevel, status, bundle.Code)
	}
	b.reply(chatID, sb.String())
}

func (b *Bot) toggleBundle(chatID int64, arg string) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		b.reply(chatID, "Usage: /togglebundle <id>")
		return
	}
	active, err := b.svc.Bundle.ToggleStatus(id)
	if err != nil {
		b.reply(chatID, "Bundle not found.")
		return
	}
	if active {
		b.reply(chatID, "Bundle enabled.")
	} else {
		b.reply(chatID, "Bundle disabled.")
	}
}

func (b *Bot) addChannel(chatID int64, arg string) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		b.reply(chatID, "Usage: /addchannel <chat_id|invite_link>")
		return
	}

	// Private invite links cannot be resolved to a chat id, so they are
	// stored as placeholders: the gate shows the link but always treats the
	// channel as not joined.
	if strings.HasPrefix(arg, "https://") || strings.HasPrefix(arg, "t.me/") {
		channel := &model.MandatoryChannel{
			ChatID:   model.PlaceholderChatID,
			Title:    "Private channel",
			JoinLink: arg,
		}
		if err := b.channelRepo.Create(channel); err != nil {
			log.Printf("Failed to add channel: %v", err)
			b.reply(chatID, "Could not add the channel.")
			return
		}
		b.reply(chatID, "Private channel added. Members cannot be verified; the gate will always list it.")
		return
	}

	channelChatID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		b.reply(chatID, "Send a numeric chat id or an invite link.")
		return
	}

	channel := &model.MandatoryChannel{ChatID: channelChatID, Title: "Unknown"}
	if err := b.channelRepo.Create(channel); err != nil {
		log.Printf("Failed to add channel: %v", err)
		b.reply(chatID, "Could not add the channel.")
		return
	}
	if err := b.svc.JoinGate.UpdateChannelInfo(channelChatID); err != nil {
		log.Printf("Failed to fetch channel info for %d: %v", channelChatID, err)
	}
	b.reply(chatID, "Channel added.")
}

func (b *Bot) listChannels(chatID int64) {
	channels, err := b.channelRepo.GetAllActive()
	if err != nil {
		log.Printf("Failed to list channels: %v", err)
		b.reply(chatID, "Could not list channels.")
		return
	}
	if len(channels) == 0 {
		b.reply(chatID, "No mandatory channels configured.")
		return
	}

	var sb strings.Builder
	for _, channel := range channels {
		fmt.Fprintf(&sb, "[%d] %s (chat %d) %s\n", channel.ID, channel.Title, channel.ChatID, channel.Link())
	}
	b.reply(chatID, sb.String())
}

func (b *Bot) deleteChannel(chatID int64, arg string) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		b.reply(chatID, "Usage: /delchannel <id>")
		return
	}
	if err := b.channelRepo.Delete(id); err != nil {
		b.reply(chatID, "Channel not found.")
		return
	}
	b.reply(chatID, "Channel removed.")
}

func (b *Bot) addPlan(chatID int64, arg string) {
	parts := strings.Split(strings.TrimSpace(arg), "|")
	if len(parts) != 5 {
		b.reply(chatID, "Usage: /addplan <plan_id>|<name>|<days>|<tier>|<price>")
		return
	}

	days, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil || days <= 0 {
		b.reply(chatID, "Days must be a positive number.")
		return
	}
	tier := strings.TrimSpace(parts[3])
	if tier != model.TierPremium && tier != model.TierPlus {
		b.reply(chatID, "Tier must be premium or plus.")
		return
	}
	price, err := strconv.Atoi(strings.TrimSpace(parts[4]))
	if err != nil || price < 0 {
		b.reply(chatID, "Price must be a non-negative number.")
		return
	}

	plan, err := b.svc.Plan.Create(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), days, tier, price)
	if err != nil {
		if errors.Is(err, service.ErrPlanIDTaken) {
			b.reply(chatID, "A plan with that id already exists.")
			return
		}
		log.Printf("Failed to create plan: %v", err)
		b.reply(chatID, "Could not create the plan.")
		return
	}
	b.reply(chatID, fmt.Sprintf("Plan %s created.", plan.PlanID))
}

func (b *Bot) enqueueBroadcast(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if err := b.svc.Broadcast.Enqueue(context.Background(), msg.Chat.ID, msg.MessageID, msg.From.ID); err != nil {
		log.Printf("Failed to enqueue broadcast: %v", err)
		b.reply(chatID, "Could not queue the broadcast.")
		return
	}
	b.reply(chatID, fmt.Sprintf("Broadcast queued for %d users.", b.svc.Broadcast.UserCount()))
}

func (b *Bot) startOffer(chatID int64, arg string) {
	parts := strings.Fields(strings.TrimSpace(arg))
	if len(parts) < 4 {
		b.reply(chatID, "Usage: /offer <bundle_id> <level> <hours> <name>")
		return
	}

	bundleID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		b.reply(chatID, "Invalid bundle id.")
		return
	}
	level := parts[1]
	if level != model.AccessFree && level != model.AccessPremium && level != model.AccessPlus {
		b.reply(chatID, "Level must be free, premium or plus.")
		return
	}
	hours, err := strconv.Atoi(parts[2])
	if err != nil || hours <= 0 {
		b.reply(chatID, "Hours must be a positive number.")
		return
	}
	name := strings.Join(parts[3:], " ")

	offer, err := b.svc.Offer.Start(bundleID, name, level, time.Now().Add(time.Duration(hours)*time.Hour))
	if err != nil {
		if errors.Is(err, service.ErrBundleNotFound) {
			b.reply(chatID, "Bundle not found.")
			return
		}
		log.Printf("Failed to start offer: %v", err)
		b.reply(chatID, "Could not start the offer.")
		return
	}
	b.reply(chatID, fmt.Sprintf("Offer %q started: bundle %d is %s until %s.",
		offer.OfferName, offer.BundleID, offer.TemporaryLevel, offer.EndTime.Format("2006-01-02 15:04")))
}

func (b *Bot) listOffers(chatID int64) {
	offers, err := b.svc.Offer.Active()
	if err != nil {
		log.Printf("Failed to list offers: %v", err)
		b.reply(chatID, "Could not list offers.")
		return
	}
	if len(offers) == 0 {
		b.reply(chatID, "No active offers.")
		return
	}

	var sb strings.Builder
	for _, offer := range offers {
		fmt.Fprintf(&sb, "[%d] %s: bundle %d %s->%s until %s\n",
			offer.ID, offer.OfferName, offer.BundleID, offer.OriginalLevel, offer.TemporaryLevel,
			offer.EndTime.Format("2006-01-02 15:04"))
	}
	b.reply(chatID, sb.String())
}

func (b *Bot) stopOffer(chatID int64, arg string) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		b.reply(chatID, "Usage: /stopoffer <id>")
		return
	}
	if err := b.svc.Offer.Stop(id); err != nil {
		b.reply(chatID, "Offer not found.")
		return
	}
	b.reply(chatID, "Offer stopped and the original level restored.")
}

func (b *Bot) sendStats(chatID int64, arg string) {
	var stats *service.Stats
	var err error
	switch strings.TrimSpace(arg) {
	case "", "weekly":
		stats, err = b.svc.Stats.Weekly()
	case "monthly":
		stats, err = b.svc.Stats.Monthly()
	case "total":
		stats, err = b.svc.Stats.Total()
	default:
		b.reply(chatID, "Usage: /stats [weekly|monthly|total]")
		return
	}
	if err != nil {
		log.Printf("Failed to compute stats: %v", err)
		b.reply(chatID, "Could not compute statistics.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Stats (%s)\nDownloads: %d\n", stats.Period, stats.Downloads)
	if stats.Period == "total" {
		fmt.Fprintf(&sb, "Users: %d (paid: %d)\nBundles: %d\n", stats.TotalUsers, stats.PaidUsers, stats.TotalBundles)
	} else {
		fmt.Fprintf(&sb, "Active users: %d\n", stats.ActiveUsers)
	}
	for method, count := range stats.ByMethod {
		fmt.Fprintf(&sb, "  via %s: %d\n", method, count)
	}
	fmt.Fprintf(&sb, "Revenue: %d\nPending payments: %d\n", stats.Revenue, stats.PendingPays)
	if stats.TopBundle != nil {
		fmt.Fprintf(&sb, "Top bundle: #%s %s (%d)\n", stats.TopBundle.PublicNumber, stats.TopBundle.Title, stats.TopBundle.Downloads)
	}
	b.reply(chatID, sb.String())
}

func (b *Bot) listPayments(chatID int64) {
	payments, err := b.svc.Payment.Pending()
	if err != nil {
		log.Printf("Failed to list payments: %v", err)
		b.reply(chatID, "Could not list payments.")
		return
	}
	if len(payments) == 0 {
		b.reply(chatID, "No pending payments.")
		return
	}

	for _, payment := range payments {
		// The proof screenshot travels as a photo with the review buttons.
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(payment.ScreenshotFileID))
		photo.Caption = fmt.Sprintf("Payment #%d\nUser: %d\nPlan: %s", payment.ID, payment.UserID, payment.PlanID)
		photo.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Approve ✅", fmt.Sprintf("payok:%d", payment.ID)),
				tgbotapi.NewInlineKeyboardButtonData("Reject ❌", fmt.Sprintf("payno:%d", payment.ID)),
			),
		)
		b.send(photo)
	}
}

func (b *Bot) listRequests(chatID int64) {
	requests, err := b.svc.Request.Open()
	if err != nil {
		log.Printf("Failed to list requests: %v", err)
		b.reply(chatID, "Could not list requests.")
		return
	}
	if len(requests) == 0 {
		b.reply(chatID, "No open requests.")
		return
	}

	for _, request := range requests {
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("Request #%d from user %d:\n%s", request.ID, request.UserID, request.Text))
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Resolve ✅", fmt.Sprintf("reqdone:%d", request.ID)),
			),
		)
		b.send(msg)
	}
}

// sourceOf returns the message to copy from: the forward origin when the
// message was forwarded from a chat, otherwise the message itself.
func sourceOf(msg *tgbotapi.Message) (int64, int) {
	if msg.ForwardFromChat != nil {
		return msg.ForwardFromChat.ID, msg.ForwardFromMessageID
	}
	return msg.Chat.ID, msg.MessageID
}

func mediaTypeOf(msg *tgbotapi.Message) string {
	switch {
	case len(msg.Photo) > 0:
		return "photo"
	case msg.Video != nil:
		return "video"
	case msg.Document != nil:
		return "document"
	case msg.Audio != nil:
		return "audio"
	case msg.Animation != nil:
		return "animation"
	case msg.Voice != nil:
		return "voice"
	case msg.VideoNote != nil:
		return "video_note"
	default:
		return "text"
	}
}
