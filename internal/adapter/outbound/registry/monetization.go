package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anthanhphan/go-music-streaming/internal/domain"
	"github.com/anthanhphan/go-music-streaming/internal/port"
	"github.com/redis/go-redis/v9"
)

// MonetizationRepo stores the ad configuration singleton and payout requests.
type MonetizationRepo struct {
	rdb *redis.Client
}

var _ port.MonetizationRepository = (*MonetizationRepo)(nil)

func NewMonetizationRepo(rdb *redis.Client) *MonetizationRepo {
	return &MonetizationRepo{rdb: rdb}
}

// GetAdConfig returns the stored configuration, falling back to defaults when
// no admin has saved one yet.
func (r *MonetizationRepo) GetAdConfig(ctx context.Context) (*domain.AdConfig, error) {
	raw, err := r.rdb.Get(ctx, keyAdConfig).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.DefaultAdConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	var cfg domain.AdConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode ad config: %w", err)
	}
	return &cfg, nil
}

func (r *MonetizationRepo) SaveAdConfig(ctx context.Context, cfg *domain.AdConfig) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, keyAdConfig, payload, 0).Err()
}

func payoutKey(id string) string {
	return keyPayoutPrefix + id
}

func (r *MonetizationRepo) savePayout(ctx context.Context, payout *domain.Payout) error {
	payload, err := json.Marshal(payout)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, payoutKey(payout.ID), payload, 0).Err()
}

func (r *MonetizationRepo) CreatePayout(ctx context.Context, payout *domain.Payout) error {
	if err := r.savePayout(ctx, payout); err != nil {
		return fmt.Errorf("failed to store payout: %w", err)
	}
	return r.rdb.ZAdd(ctx, keyPayoutsByDate, redis.Z{
		Score:  float64(payout.RequestDate.UnixMilli()),
		Member: payout.ID,
	}).Err()
}

func (r *MonetizationRepo) GetPayout(ctx context.Context, id string) (*domain.Payout, error) {
	raw, err := r.rdb.Get(ctx, payoutKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("payout %s: %w", id, domain.ErrPayoutNotFound)
	}
	if err != nil {
		return nil, err
	}

	var payout domain.Payout
	if err := json.Unmarshal(raw, &payout); err != nil {
		return nil, fmt.Errorf("failed to decode payout %s: %w", id, err)
	}
	return &payout, nil
}

// ListPayouts returns every payout request, newest first.
func (r *MonetizationRepo) ListPayouts(ctx context.Context) ([]*domain.Payout, error) {
	ids, err := r.rdb.ZRevRange(ctx, keyPayoutsByDate, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = payoutKey(id)
	}
	rows, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	payouts := make([]*domain.Payout, 0, len(rows))
	for _, row := range rows {
		raw, ok := row.(string)
		if !ok {
			continue
		}
		var payout domain.Payout
		if err := json.Unmarshal([]byte(raw), &payout); err != nil {
			continue
		}
		payouts = append(payouts, &payout)
	}
	return payouts, nil
}

func (r *MonetizationRepo) UpdatePayout(ctx context.Context, payout *domain.Payout) error {
	exists, err := r.rdb.Exists(ctx, payoutKey(payout.ID)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("payout %s: %w", payout.ID, domain.ErrPayoutNotFound)
	}
	return r.savePayout(ctx, payout)
}
