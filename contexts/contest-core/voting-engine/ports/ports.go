package ports

import (
	"context"
	"time"

	"votegala/contexts/contest-core/voting-engine/domain/entities"
)

// LedgerRepository is the durable store of campaigns, candidates and vote
// events. CommitVote is the only operation that mutates a candidate tally.
type LedgerRepository interface {
	GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error)
	IncrementCampaignViews(ctx context.Context, campaignID string) (entities.Campaign, error)
	GetCandidate(ctx context.Context, candidateID string) (entities.Candidate, error)
	ListCandidates(ctx context.Context, campaignID string, ordering CandidateOrdering) ([]entities.Candidate, error)

	// CommitVote inserts the event and adds event.Reach to the candidate's
	// tally within one transaction, returning the updated tally. Concurrent
	// commits for the same candidate serialize on the candidate row. A
	// duplicate OutTradeNo fails the whole transaction with
	// ErrDuplicateVoteEvent.
	CommitVote(ctx context.Context, event entities.VoteEvent) (int64, error)

	ListVoteEvents(ctx context.Context, candidateID string, limit, offset int) ([]entities.VoteEvent, error)
}

type CandidateOrdering string

const (
	OrderByVotes   CandidateOrdering = "votes"
	OrderByCreated CandidateOrdering = "created"
)

// DailyVoteGate blocks a voter's second free vote on the same calendar date.
type DailyVoteGate interface {
	// MarkVoted records the (voter, day) pair with the given TTL. Returns
	// false without writing when the pair is already marked.
	MarkVoted(ctx context.Context, voterID string, day string, ttl time.Duration) (bool, error)
	// HasVoted reports whether the pair is currently marked.
	HasVoted(ctx context.Context, voterID string, day string) (bool, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID() string
}
