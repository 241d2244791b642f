package service

import (
	"log"

	"github.com/qs3c/archive_bot_server/internal/model"
	"github.com/qs3c/archive_bot_server/internal/repository"
	"github.com/qs3c/archive_bot_server/internal/telegram"
)

// ChannelInfo is one mandatory channel as presented to the user.
type ChannelInfo struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	ChatID   int64  `json:"chat_id"`
	JoinLink string `json:"join_link,omitempty"`
}

// GateResult aggregates the membership checks over all mandatory channels.
type GateResult struct {
	AllJoined bool          `json:"all_joined"`
	Missing   []ChannelInfo `json:"missing_channels"`
	Channels  []ChannelInfo `json:"channels"`
}

// JoinGateService verifies that a user belongs to every active mandatory
// channel before content is released.
type JoinGateService struct {
	messenger   telegram.Messenger
	channelRepo *repository.ChannelRepository
}

func NewJoinGateService(messenger telegram.Messenger, channelRepo *repository.ChannelRepository) *JoinGateService {
	return &JoinGateService{
		messenger:   messenger,
		channelRepo: channelRepo,
	}
}

// CheckMemberships checks the user against all active mandatory channels.
// Placeholder channels (unresolved private invites) and channels whose
// membership cannot be determined both count as not joined: the gate fails
// closed on anything it cannot verify.
func (s *JoinGateService) CheckMemberships(userID int64) (*GateResult, error) {
	channels, err := s.channelRepo.GetAllActive()
	if err != nil {
		return nil, err
	}

	result := &GateResult{
		Missing:  []ChannelInfo{},
		Channels: []ChannelInfo{},
	}

	for _, channel := range channels {
		info := ChannelInfo{
			ID:       channel.ID,
			Title:    channel.Title,
			ChatID:   channel.ChatID,
			JoinLink: channel.Link(),
		}
		result.Channels = append(result.Channels, info)

		if channel.ChatID == model.PlaceholderChatID {
			// Membership in a placeholder channel is unverifiable.
			result.Missing = append(result.Missing, info)
			continue
		}

		switch s.messenger.MemberStatus(channel.ChatID, userID) {
		case telegram.MembershipMember:
			// joined
		case telegram.MembershipNotMember:
			result.Missing = append(result.Missing, info)
		case telegram.MembershipUnknown:
			log.Printf("Membership of user %d in chat %d unknown, treating as not joined", userID, channel.ChatID)
			result.Missing = append(result.Missing, info)
		}
	}

	result.AllJoined = len(result.Missing) == 0
	return result, nil
}

// UpdateChannelInfo refreshes a channel's title and username from Telegram.
func (s *JoinGateService) UpdateChannelInfo(chatID int64) error {
	title, username, err := s.messenger.ChatInfo(chatID)
	if err != nil {
		return err
	}
	if title == "" {
		title = "Unknown"
	}
	return s.channelRepo.UpdateInfo(chatID, title, username)
}
