package telegram

import (
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Client implements Messenger over the Telegram Bot API.
type Client struct {
	api *tgbotapi.BotAPI
}

func NewClient(api *tgbotapi.BotAPI) *Client {
	return &Client{api: api}
}

func (c *Client) CopyMessage(chatID, fromChatID int64, messageID int) (int, error) {
	result, err := c.api.CopyMessage(tgbotapi.NewCopyMessage(chatID, fromChatID, messageID))
	if err != nil {
		return 0, classify(err)
	}
	return result.MessageID, nil
}

func (c *Client) DeleteMessage(chatID int64, messageID int) error {
	_, err := c.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	if err != nil {
		return classify(err)
	}
	return nil
}

func (c *Client) SendMessage(chatID int64, text string) error {
	_, err := c.api.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		return classify(err)
	}
	return nil
}

func (c *Client) SendMarkdown(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	_, err := c.api.Send(msg)
	if err != nil {
		return classify(err)
	}
	return nil
}

func (c *Client) MemberStatus(chatID, userID int64) Membership {
	member, err := c.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chatID,
			UserID: userID,
		},
	})
	if err != nil {
		return MembershipUnknown
	}
	if member.Status == "left" || member.Status == "kicked" {
		return MembershipNotMember
	}
	return MembershipMember
}

func (c *Client) ChatInfo(chatID int64) (string, string, error) {
	chat, err := c.api.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	})
	if err != nil {
		return "", "", classify(err)
	}
	title := chat.Title
	if title == "" {
		title = chat.FirstName
	}
	return title, chat.UserName, nil
}

func (c *Client) Username() string {
	return c.api.Self.UserName
}

// classify maps API errors onto the two failure classes the services act on.
func classify(err error) error {
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) {
		switch tgErr.Code {
		case 403:
			return fmt.Errorf("%w: %s", ErrForbidden, tgErr.Message)
		case 400:
			return fmt.Errorf("%w: %s", ErrBadRequest, tgErr.Message)
		}
	}
	return err
}
