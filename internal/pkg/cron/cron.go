package cron

import (
	"log"
	"time"

	"github.com/qs3c/archive_bot_server/internal/service"
)

// Service runs the periodic background jobs: the deletion sweep and the
// offer-expiry restore. Jobs run independently of request traffic.
type Service struct {
	deletionService *service.DeletionService
	offerService    *service.OfferService
	sweepInterval   time.Duration
	stopChan        chan struct{}
}

func NewService(
	deletionService *service.DeletionService,
	offerService *service.OfferService,
	sweepInterval time.Duration,
) *Service {
	return &Service{
		deletionService: deletionService,
		offerService:    offerService,
		sweepInterval:   sweepInterval,
		stopChan:        make(chan struct{}),
	}
}

// Start launches the background jobs.
func (s *Service) Start() {
	go s.runDeletionSweep()
	go s.runOfferExpiry()
	log.Println("Cron service started (deletion sweep + offer expiry)")
}

// Stop stops all background jobs.
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

func (s *Service) runDeletionSweep() {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			if err := s.deletionService.ProcessPendingDeletions(); err != nil {
				log.Printf("Deletion sweep failed: %v", err)
			}
		}
	}
}

func (s *Service) runOfferExpiry() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			if err := s.offerService.RestoreExpired(); err != nil {
				log.Printf("Offer expiry check failed: %v", err)
			}
		}
	}
}

// RunNow executes one deletion sweep immediately (manual trigger, tests).
func (s *Service) RunNow() error {
	log.Println("Manual deletion sweep triggered...")
	return s.deletionService.ProcessPendingDeletions()
}
