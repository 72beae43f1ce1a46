package entities

import "time"

type Campaign struct {
	CampaignID   string
	Title        string
	Description  string
	Announcement string
	Rules        string
	StartTime    time.Time
	EndTime      time.Time
	Views        int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Candidate struct {
	CandidateID string
	CampaignID  string
	// Number is the display tag assigned at registration, e.g. "007".
	Number      string
	Name        string
	Cover       string
	Declaration string
	// NumberOfVotes is the running tally. It only moves through the ledger
	// commit primitive and never decreases.
	NumberOfVotes int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// VoteEvent is an immutable ledger row. Free votes carry Reach=1 and no gift
// fields; paid votes carry the gift snapshot and the gateway trade number.
type VoteEvent struct {
	EventID       string
	CampaignID    string
	CandidateID   string
	VoterID       string
	VoterNickname string
	VoterAvatar   string
	// Reach is the vote weight this event contributes to the tally.
	Reach int64

	GiftID        string
	GiftName      string
	GiftImage     string
	NumberOfGifts int64
	// AmountMinor is the paid amount in currency minor units (cents).
	AmountMinor int64
	// OutTradeNo is the gateway transaction identifier. Unique across all
	// events; at most one committed event may exist per trade number.
	OutTradeNo string

	CreatedAt time.Time
}

func (e VoteEvent) IsGift() bool {
	return e.GiftID != ""
}

// ContributorScore is one row of a candidate's contributor ranking.
type ContributorScore struct {
	VoterID       string
	VoterNickname string
	VoterAvatar   string
	NumberOfVotes int64
	Rank          int
}
