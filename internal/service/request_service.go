package service

import (
	"log"

	"github.com/qs3c/archive_bot_server/internal/model"
	"github.com/qs3c/archive_bot_server/internal/repository"
)

// RequestService manages content requests users submit to admins.
type RequestService struct {
	requestRepo *repository.RequestRepository
}

func NewRequestService(requestRepo *repository.RequestRepository) *RequestService {
	return &RequestService{requestRepo: requestRepo}
}

func (s *RequestService) Submit(userID int64, text string) error {
	if err := s.requestRepo.Create(userID, text); err != nil {
		return err
	}
	log.Printf("New request submitted by user %d", userID)
	return nil
}

func (s *RequestService) Open() ([]*model.Request, error) {
	return s.requestRepo.GetOpen()
}

func (s *RequestService) Resolve(requestID int64) error {
	if err := s.requestRepo.Resolve(requestID); err != nil {
		return err
	}
	log.Printf("Request %d resolved", requestID)
	return nil
}
