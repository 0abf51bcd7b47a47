package domain

import "time"

// AdConfig is the singleton ad serving configuration pushed to clients.
type AdConfig struct {
	IsEnabled  bool         `json:"isEnabled"`
	Placements AdPlacements `json:"placements"`
	AdTypes    AdTypes      `json:"adTypes"`
	Frequency  AdFrequency  `json:"frequency"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

type AdPlacements struct {
	HomeBanner         bool `json:"homeBanner"`
	PlayerInterstitial bool `json:"playerInterstitial"`
	SearchBanner       bool `json:"searchBanner"`
	PlaylistBanner     bool `json:"playlistBanner"`
}

type AdTypes struct {
	Banner       bool `json:"banner"`
	Interstitial bool `json:"interstitial"`
	Rewarded     bool `json:"rewarded"`
}

type AdFrequency struct {
	InterstitialEvery int `json:"interstitialEvery"`
}

// DefaultAdConfig mirrors the defaults served before an admin ever edits ads.
func DefaultAdConfig() *AdConfig {
	return &AdConfig{
		IsEnabled: true,
		Placements: AdPlacements{
			HomeBanner:         true,
			PlayerInterstitial: true,
			SearchBanner:       true,
			PlaylistBanner:     true,
		},
		AdTypes: AdTypes{
			Banner:       true,
			Interstitial: true,
		},
		Frequency: AdFrequency{InterstitialEvery: 5},
		UpdatedAt: time.Now(),
	}
}

// PayoutStatus tracks an artist payout request through review and payment.
type PayoutStatus string

const (
	PayoutPending  PayoutStatus = "pending"
	PayoutApproved PayoutStatus = "approved"
	PayoutRejected PayoutStatus = "rejected"
	PayoutPaid     PayoutStatus = "paid"
)

// Payout is one artist payout request.
type Payout struct {
	ID            string       `json:"id"`
	Artist        string       `json:"artist"`
	Amount        float64      `json:"amount"`
	Status        PayoutStatus `json:"status"`
	RequestDate   time.Time    `json:"requestDate"`
	ProcessedDate *time.Time   `json:"processedDate,omitempty"`
	TransactionID string       `json:"transactionId,omitempty"`
	Notes         string       `json:"notes,omitempty"`
}
