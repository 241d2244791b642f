package telegram

import (
	"errors"
)

// Messenger is the messaging collaborator the services depend on. The
// production implementation talks to the Telegram Bot API; tests substitute
// a fake.
type Messenger interface {
	// CopyMessage copies a message to chatID and returns the id of the copy.
	CopyMessage(chatID, fromChatID int64, messageID int) (int, error)
	// DeleteMessage removes a previously sent message.
	DeleteMessage(chatID int64, messageID int) error
	// SendMessage sends a plain text notification.
	SendMessage(chatID int64, text string) error
	// SendMarkdown sends a Markdown-formatted message without link previews.
	SendMarkdown(chatID int64, text string) error
	// MemberStatus reports the user's membership in a chat. The result is
	// Unknown when the status could not be determined (bad chat id, bot not
	// admin, API failure).
	MemberStatus(chatID, userID int64) Membership
	// ChatInfo fetches a chat's current title and username.
	ChatInfo(chatID int64) (title, username string, err error)
	// Username returns the bot's own username, used for deep links.
	Username() string
}

// Membership is the explicit tri-state result of a membership check. Callers
// decide the policy for Unknown; the join gate treats it as not joined.
type Membership int

const (
	MembershipUnknown Membership = iota
	MembershipMember
	MembershipNotMember
)

var (
	// ErrForbidden covers blocked-by-user and missing bot permissions.
	ErrForbidden = errors.New("telegram: forbidden")
	// ErrBadRequest covers invalid chat or message identifiers.
	ErrBadRequest = errors.New("telegram: bad request")
)

// IsSkippable reports whether the error is a per-item failure the delivery
// and deletion pipelines tolerate (skip-and-continue).
func IsSkippable(err error) bool {
	return errors.Is(err, ErrForbidden) || errors.Is(err, ErrBadRequest)
}
