package service

import (
	"time"

	"github.com/qs3c/archive_bot_server/internal/repository"
)

// Stats is one analytics snapshot for a reporting period.
type Stats struct {
	Period       string           `json:"period"` // weekly, monthly, total
	Downloads    int64            `json:"downloads"`
	ActiveUsers  int64            `json:"active_users,omitempty"`
	TotalUsers   int64            `json:"total_users,omitempty"`
	PaidUsers    int64            `json:"paid_users,omitempty"`
	TotalBundles int64            `json:"total_bundles,omitempty"`
	TopBundle    *TopBundle       `json:"top_bundle,omitempty"`
	ByMethod     map[string]int64 `json:"by_method,omitempty"`
	PendingPays  int64            `json:"pending_payments,omitempty"`
	Revenue      int64            `json:"revenue,omitempty"`
}

type TopBundle struct {
	PublicNumber string `json:"public_number"`
	Title        string `json:"title"`
	Downloads    int64  `json:"downloads"`
}

// StatsService aggregates analytics over users, deliveries and payments.
type StatsService struct {
	userRepo     *repository.UserRepository
	bundleRepo   *repository.BundleRepository
	deliveryRepo *repository.DeliveryRepository
	historyRepo  *repository.HistoryRepository
	paymentRepo  *repository.PaymentRepository
}

func NewStatsService(
	userRepo *repository.UserRepository,
	bundleRepo *repository.BundleRepository,
	deliveryRepo *repository.DeliveryRepository,
	historyRepo *repository.HistoryRepository,
	paymentRepo *repository.PaymentRepository,
) *StatsService {
	return &StatsService{
		userRepo:     userRepo,
		bundleRepo:   bundleRepo,
		deliveryRepo: deliveryRepo,
		historyRepo:  historyRepo,
		paymentRepo:  paymentRepo,
	}
}

func (s *StatsService) Weekly() (*Stats, error) {
	return s.period(7, "weekly")
}

func (s *StatsService) Monthly() (*Stats, error) {
	return s.period(30, "monthly")
}

// Total returns all-time statistics.
func (s *StatsService) Total() (*Stats, error) {
	stats := &Stats{Period: "total"}

	var err error
	if stats.Downloads, err = s.deliveryRepo.Count(0); err != nil {
		return nil, err
	}
	if stats.TotalUsers, err = s.userRepo.Count(); err != nil {
		return nil, err
	}
	if stats.PaidUsers, err = s.userRepo.CountPaid(time.Now().Unix()); err != nil {
		return nil, err
	}
	if stats.TotalBundles, err = s.bundleRepo.Count(); err != nil {
		return nil, err
	}
	if stats.ByMethod, err = s.historyRepo.CountByMethod(0); err != nil {
		return nil, err
	}
	if stats.PendingPays, err = s.paymentRepo.CountPending(); err != nil {
		return nil, err
	}
	if stats.Revenue, err = s.paymentRepo.TotalRevenue(0); err != nil {
		return nil, err
	}
	if err = s.fillTopBundle(stats, 0); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *StatsService) period(days int, name string) (*Stats, error) {
	stats := &Stats{Period: name}

	var err error
	if stats.Downloads, err = s.deliveryRepo.Count(days); err != nil {
		return nil, err
	}
	if stats.ActiveUsers, err = s.userRepo.CountActive(days); err != nil {
		return nil, err
	}
	if stats.ByMethod, err = s.historyRepo.CountByMethod(days); err != nil {
		return nil, err
	}
	if stats.Revenue, err = s.paymentRepo.TotalRevenue(days); err != nil {
		return nil, err
	}
	if err = s.fillTopBundle(stats, days); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *StatsService) fillTopBundle(stats *Stats, days int) error {
	bundle, count, err := s.bundleRepo.TopByDownloads(days)
	if err != nil {
		return err
	}
	if bundle != nil {
		stats.TopBundle = &TopBundle{
			PublicNumber: bundle.PublicNumberStr,
			Title:        bundle.Title,
			Downloads:    count,
		}
	}
	return nil
}
