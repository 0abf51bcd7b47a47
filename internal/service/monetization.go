package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/anthanhphan/go-music-streaming/internal/domain"
	"github.com/anthanhphan/go-music-streaming/internal/port"
	"github.com/anthanhphan/gosdk/logger"
)

// MonetizationSvc implements ad configuration and artist payouts.
type MonetizationSvc struct {
	repo       port.MonetizationRepository
	idGen      port.IDGenerator
	dispatcher port.Dispatcher
}

var _ port.MonetizationService = (*MonetizationSvc)(nil)

func NewMonetizationService(
	repo port.MonetizationRepository,
	idGen port.IDGenerator,
	dispatcher port.Dispatcher,
) *MonetizationSvc {
	return &MonetizationSvc{repo: repo, idGen: idGen, dispatcher: dispatcher}
}

func (s *MonetizationSvc) GetAdConfig(ctx context.Context) (*domain.AdConfig, error) {
	return s.repo.GetAdConfig(ctx)
}

func (s *MonetizationSvc) SaveAdConfig(ctx context.Context, cfg *domain.AdConfig) (*domain.AdConfig, error) {
	cfg.UpdatedAt = time.Now().UTC()
	if err := s.repo.SaveAdConfig(ctx, cfg); err != nil {
		return nil, err
	}
	logger.Infow("Ad config updated", "enabled", cfg.IsEnabled)
	return cfg, nil
}

func (s *MonetizationSvc) RequestPayout(ctx context.Context, artistID string, amount float64, notes string) (*domain.Payout, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("payout amount must be positive, got %v", amount)
	}

	id, err := s.idGen.Next()
	if err != nil {
		return nil, err
	}
	payout := &domain.Payout{
		ID:          strconv.FormatInt(id, 10),
		Artist:      artistID,
		Amount:      amount,
		Status:      domain.PayoutPending,
		RequestDate: time.Now().UTC(),
		Notes:       notes,
	}
	if err := s.repo.CreatePayout(ctx, payout); err != nil {
		return nil, err
	}

	s.dispatcher.NotifyTopic(port.TopicAdminReviews, "Payout requested",
		fmt.Sprintf("Artist %s requested a payout of %.2f", artistID, amount),
		map[string]string{"payoutId": payout.ID})

	logger.Infow("Payout requested", "payout_id", payout.ID, "artist", artistID, "amount", amount)
	return payout, nil
}

func (s *MonetizationSvc) ListPayouts(ctx context.Context) ([]*domain.Payout, error) {
	return s.repo.ListPayouts(ctx)
}

// UpdatePayout moves a request through review. Leaving the pending state
// stamps the processed date.
func (s *MonetizationSvc) UpdatePayout(ctx context.Context, id string, status domain.PayoutStatus, transactionID, notes string) (*domain.Payout, error) {
	switch status {
	case domain.PayoutPending, domain.PayoutApproved, domain.PayoutRejected, domain.PayoutPaid:
	default:
		return nil, fmt.Errorf("unknown payout status %q", status)
	}

	payout, err := s.repo.GetPayout(ctx, id)
	if err != nil {
		return nil, err
	}

	payout.Status = status
	if transactionID != "" {
		payout.TransactionID = transactionID
	}
	if notes != "" {
		payout.Notes = notes
	}
	if status != domain.PayoutPending && payout.ProcessedDate == nil {
		now := time.Now().UTC()
		payout.ProcessedDate = &now
	}

	if err := s.repo.UpdatePayout(ctx, payout); err != nil {
		return nil, err
	}
	logger.Infow("Payout updated", "payout_id", id, "status", string(status))
	return payout, nil
}
