package testutil

import (
	"fmt"
	"sync"

	"github.com/qs3c/archive_bot_server/internal/telegram"
)

// CopyCall records one CopyMessage invocation.
type CopyCall struct {
	ChatID     int64
	FromChatID int64
	MessageID  int
}

// DeleteCall records one DeleteMessage invocation.
type DeleteCall struct {
	ChatID    int64
	MessageID int
}

// FakeMessenger is an in-memory telegram.Messenger for service tests. Failures
// are injected per message id.
type FakeMessenger struct {
	mu sync.Mutex

	Copies  []CopyCall
	Deletes []DeleteCall
	Sent    []string

	// CopyErrs and DeleteErrs map source/target message ids to injected errors.
	CopyErrs   map[int]error
	DeleteErrs map[int]error

	// Memberships maps "chatID:userID" to a membership result. Missing entries
	// report MembershipUnknown.
	Memberships map[string]telegram.Membership

	BotUsername string

	nextMessageID int
}

// NewFakeMessenger returns an empty fake with no injected failures.
func NewFakeMessenger() *FakeMessenger {
	return &FakeMessenger{
		CopyErrs:      make(map[int]error),
		DeleteErrs:    make(map[int]error),
		Memberships:   make(map[string]telegram.Membership),
		BotUsername:   "test_bot",
		nextMessageID: 1000,
	}
}

// SetMembership injects a membership result for a chat/user pair.
func (f *FakeMessenger) SetMembership(chatID, userID int64, m telegram.Membership) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Memberships[memberKey(chatID, userID)] = m
}

func (f *FakeMessenger) CopyMessage(chatID, fromChatID int64, messageID int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.CopyErrs[messageID]; ok {
		return 0, err
	}

	f.Copies = append(f.Copies, CopyCall{ChatID: chatID, FromChatID: fromChatID, MessageID: messageID})
	f.nextMessageID++
	return f.nextMessageID, nil
}

func (f *FakeMessenger) DeleteMessage(chatID int64, messageID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.DeleteErrs[messageID]; ok {
		return err
	}

	f.Deletes = append(f.Deletes, DeleteCall{ChatID: chatID, MessageID: messageID})
	return nil
}

func (f *FakeMessenger) SendMessage(chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sent = append(f.Sent, text)
	return nil
}

func (f *FakeMessenger) SendMarkdown(chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sent = append(f.Sent, text)
	return nil
}

func (f *FakeMessenger) MemberStatus(chatID, userID int64) telegram.Membership {
	f.mu.Lock()
	defer f.mu.Unlock()

	if m, ok := f.Memberships[memberKey(chatID, userID)]; ok {
		return m
	}
	return telegram.MembershipUnknown
}

func (f *FakeMessenger) ChatInfo(chatID int64) (string, string, error) {
	return fmt.Sprintf("Chat %d", chatID), fmt.Sprintf("chat%d", chatID), nil
}

func (f *FakeMessenger) Username() string {
	return f.BotUsername
}

func memberKey(chatID, userID int64) string {
	return fmt.Sprintf("%d:%d", chatID, userID)
}
