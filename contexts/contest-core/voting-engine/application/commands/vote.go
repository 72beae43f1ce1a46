package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "votegala/contexts/contest-core/voting-engine/application"
	"votegala/contexts/contest-core/voting-engine/domain/entities"
	domainerrors "votegala/contexts/contest-core/voting-engine/domain/errors"
	"votegala/contexts/contest-core/voting-engine/ports"
)

const dayFormat = "2006-01-02"

// CastFreeVoteCommand is the write-model input for a free vote.
type CastFreeVoteCommand struct {
	VoterID       string
	VoterNickname string
	VoterAvatar   string
	CandidateID   string
}

// CastFreeVoteResult carries the candidate's tally after the commit.
type CastFreeVoteResult struct {
	CandidateID   string
	NumberOfVotes int64
}

// LedgerUseCase owns both commit paths into the vote ledger: free votes cast
// here directly, and paid votes handed over from purchase reconciliation via
// Commit. Tally consistency is delegated to the repository's transactional
// CommitVote.
type LedgerUseCase struct {
	Ledger    ports.LedgerRepository
	DailyGate ports.DailyVoteGate
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	// DailyGateTTL bounds the free-vote marker; one calendar day.
	DailyGateTTL time.Duration
	Logger       *slog.Logger
}

// CastFreeVote commits a reach-1 vote event after the daily gate check. The
// gate marker is written only after the ledger transaction commits: a failed
// commit must not burn the voter's vote for the day.
func (uc LedgerUseCase) CastFreeVote(ctx context.Context, cmd CastFreeVoteCommand) (CastFreeVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	voterID := strings.TrimSpace(cmd.VoterID)
	candidateID := strings.TrimSpace(cmd.CandidateID)
	if voterID == "" || candidateID == "" {
		return CastFreeVoteResult{}, domainerrors.ErrInvalidVoteInput
	}

	candidate, err := uc.Ledger.GetCandidate(ctx, candidateID)
	if err != nil {
		return CastFreeVoteResult{}, err
	}

	now := uc.now()
	day := now.Format(dayFormat)
	voted, err := uc.DailyGate.HasVoted(ctx, voterID, day)
	if err != nil {
		return CastFreeVoteResult{}, err
	}
	if voted {
		logger.Info("free vote rejected by daily gate",
			"event", "voting_free_vote_daily_limit",
			"module", "contest-core/voting-engine",
			"layer", "application",
			"voter_id", voterID,
			"candidate_id", candidateID,
			"day", day,
		)
		return CastFreeVoteResult{}, domainerrors.ErrAlreadyVoted
	}

	tally, err := uc.Commit(ctx, entities.VoteEvent{
		CampaignID:    candidate.CampaignID,
		CandidateID:   candidate.CandidateID,
		VoterID:       voterID,
		VoterNickname: strings.TrimSpace(cmd.VoterNickname),
		VoterAvatar:   strings.TrimSpace(cmd.VoterAvatar),
		Reach:         1,
	})
	if err != nil {
		return CastFreeVoteResult{}, err
	}

	marked, err := uc.DailyGate.MarkVoted(ctx, voterID, day, uc.gateTTL())
	if err != nil {
		// The vote is committed; a gate write failure only widens the daily
		// window for this voter. Surface it in logs, not to the caller.
		logger.Error("daily gate mark failed after commit",
			"event", "voting_daily_gate_mark_failed",
			"module", "contest-core/voting-engine",
			"layer", "application",
			"voter_id", voterID,
			"day", day,
			"error", err.Error(),
		)
	} else if !marked {
		logger.Warn("daily gate already marked at commit time",
			"event", "voting_daily_gate_race",
			"module", "contest-core/voting-engine",
			"layer", "application",
			"voter_id", voterID,
			"day", day,
		)
	}

	logger.Info("free vote committed",
		"event", "voting_free_vote_committed",
		"module", "contest-core/voting-engine",
		"layer", "application",
		"voter_id", voterID,
		"candidate_id", candidateID,
		"number_of_votes", tally,
	)
	return CastFreeVoteResult{CandidateID: candidateID, NumberOfVotes: tally}, nil
}

// Commit is the ledger-mutation primitive: one transaction inserting the
// event and moving the candidate tally by event.Reach. Paid-vote
// reconciliation calls this through the gift-purchase VoteCommitter port.
func (uc LedgerUseCase) Commit(ctx context.Context, event entities.VoteEvent) (int64, error) {
	if strings.TrimSpace(event.CandidateID) == "" || event.Reach <= 0 {
		return 0, domainerrors.ErrInvalidVoteInput
	}
	if event.EventID == "" {
		event.EventID = uc.IDGen.NewID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = uc.now()
	}
	return uc.Ledger.CommitVote(ctx, event)
}

func (uc LedgerUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (uc LedgerUseCase) gateTTL() time.Duration {
	if uc.DailyGateTTL > 0 {
		return uc.DailyGateTTL
	}
	return 24 * time.Hour
}
