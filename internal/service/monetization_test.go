package service

import (
	"context"
	"testing"

	"github.com/anthanhphan/go-music-streaming/internal/domain"
	"github.com/anthanhphan/go-music-streaming/internal/port"
	"github.com/anthanhphan/go-music-streaming/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestMonetizationSaveAdConfigStampsUpdate(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockMonetizationRepository(ctrl)
	svc := NewMonetizationService(repo, mocks.NewMockIDGenerator(ctrl), &recordingDispatcher{})

	cfg := domain.DefaultAdConfig()
	before := cfg.UpdatedAt
	repo.EXPECT().SaveAdConfig(gomock.Any(), cfg).Return(nil)

	saved, err := svc.SaveAdConfig(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, saved.UpdatedAt.After(before) || saved.UpdatedAt.Equal(before))
}

func TestMonetizationRequestPayout(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockMonetizationRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)
	dispatcher := &recordingDispatcher{}
	svc := NewMonetizationService(repo, idGen, dispatcher)

	_, err := svc.RequestPayout(context.Background(), "artist-1", 0, "")
	assert.Error(t, err)

	idGen.EXPECT().Next().Return(int64(555), nil)
	repo.EXPECT().CreatePayout(gomock.Any(), gomock.Any()).Return(nil)

	payout, err := svc.RequestPayout(context.Background(), "artist-1", 42.5, "march earnings")
	require.NoError(t, err)
	assert.Equal(t, "555", payout.ID)
	assert.Equal(t, domain.PayoutPending, payout.Status)
	assert.Nil(t, payout.ProcessedDate)
	assert.Equal(t, []string{port.TopicAdminReviews}, dispatcher.sentTopics())
}

func TestMonetizationUpdatePayout(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockMonetizationRepository(ctrl)
	svc := NewMonetizationService(repo, mocks.NewMockIDGenerator(ctrl), &recordingDispatcher{})

	_, err := svc.UpdatePayout(context.Background(), "p1", "bogus", "", "")
	assert.Error(t, err)

	pending := &domain.Payout{ID: "p1", Artist: "artist-1", Amount: 10, Status: domain.PayoutPending}
	repo.EXPECT().GetPayout(gomock.Any(), "p1").Return(pending, nil)
	repo.EXPECT().UpdatePayout(gomock.Any(), gomock.Any()).Return(nil)

	paid, err := svc.UpdatePayout(context.Background(), "p1", domain.PayoutPaid, "tx-9", "done")
	require.NoError(t, err)
	assert.Equal(t, domain.PayoutPaid, paid.Status)
	assert.Equal(t, "tx-9", paid.TransactionID)
	assert.Equal(t, "done", paid.Notes)
	require.NotNil(t, paid.ProcessedDate)
}
