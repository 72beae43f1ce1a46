package entities

import "time"

type Gift struct {
	GiftID string
	Name   string
	Image  string
	// PriceMinor is the unit price in currency minor units (cents).
	PriceMinor int64
	// Reach is the vote weight one unit contributes.
	Reach int64
	// Void marks the gift as withdrawn from the catalog. Gifts referenced by
	// committed vote events are never hard-deleted.
	Void      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PendingPurchase is the staged, non-durable snapshot written between charge
// creation and provider confirmation. It carries everything reconciliation
// needs so no catalog or candidate lookup happens on the notification path.
type PendingPurchase struct {
	// TradeNo is the staging key and the gateway transaction identifier.
	TradeNo       string
	GiftID        string
	GiftName      string
	GiftImage     string
	CandidateID   string
	CampaignID    string
	VoterID       string
	VoterNickname string
	VoterAvatar   string
	NumberOfGifts int64
	// AmountMinor is price * quantity in minor units.
	AmountMinor int64
	// Reach is gift reach * quantity.
	Reach     int64
	CreatedAt time.Time
}
