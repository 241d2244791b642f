package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/qs3c/archive_bot_server/config"
	"github.com/qs3c/archive_bot_server/internal/pkg/queue"
	"github.com/qs3c/archive_bot_server/internal/repository"
	"github.com/qs3c/archive_bot_server/internal/telegram"
)

// BroadcastResult counts the outcome of one broadcast run.
type BroadcastResult struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

// BroadcastService copies an admin-selected message to every known user,
// batched to respect Telegram rate limits. Long broadcasts are enqueued and
// executed by the worker process.
type BroadcastService struct {
	messenger telegram.Messenger
	userRepo  *repository.UserRepository
	queue     *queue.Queue
	cfg       *config.Config
}

func NewBroadcastService(
	messenger telegram.Messenger,
	userRepo *repository.UserRepository,
	q *queue.Queue,
	cfg *config.Config,
) *BroadcastService {
	return &BroadcastService{
		messenger: messenger,
		userRepo:  userRepo,
		queue:     q,
		cfg:       cfg,
	}
}

// UserCount returns the audience size for a broadcast preview.
func (s *BroadcastService) UserCount() int64 {
	count, err := s.userRepo.Count()
	if err != nil {
		log.Printf("Failed to count users: %v", err)
		return 0
	}
	return count
}

// Enqueue hands the broadcast to the worker process.
func (s *BroadcastService) Enqueue(ctx context.Context, fromChatID int64, messageID int, requestedBy int64) error {
	return s.queue.Push(ctx, &queue.BroadcastMessage{
		FromChatID:  fromChatID,
		MessageID:   messageID,
		RequestedBy: requestedBy,
	})
}

// Send copies the message to all users in fixed-size batches with a fixed
// delay between batches. Per-user failures are counted, never fatal.
func (s *BroadcastService) Send(fromChatID int64, messageID int) (*BroadcastResult, error) {
	users, err := s.userRepo.GetAll()
	if err != nil {
		return nil, err
	}

	batchSize := s.cfg.Bot.BroadcastBatchSize
	batchWait := time.Duration(s.cfg.Bot.BroadcastBatchWait) * time.Second

	result := &BroadcastResult{}
	log.Printf("Starting broadcast to %d users", len(users))

	for start := 0; start < len(users); start += batchSize {
		end := start + batchSize
		if end > len(users) {
			end = len(users)
		}
		batch := users[start:end]

		outcomes := make(chan bool, len(batch))
		var wg sync.WaitGroup
		for _, user := range batch {
			wg.Add(1)
			go func(tgUserID int64) {
				defer wg.Done()
				_, err := s.messenger.CopyMessage(tgUserID, fromChatID, messageID)
				outcomes <- err == nil
			}(user.TgUserID)
		}
		wg.Wait()
		close(outcomes)

		for ok := range outcomes {
			if ok {
				result.Success++
			} else {
				result.Failed++
			}
		}

		if end < len(users) {
			time.Sleep(batchWait)
		}
		log.Printf("Broadcast progress: %d/%d users processed", end, len(users))
	}

	log.Printf("Broadcast completed: %d success, %d failed", result.Success, result.Failed)
	return result, nil
}
