package bootstrap

import (
	"context"
	"errors"

	gifterrors "votegala/contexts/contest-core/gift-purchase/domain/errors"
	giftports "votegala/contexts/contest-core/gift-purchase/ports"
	votingengine "votegala/contexts/contest-core/voting-engine"
	"votegala/contexts/contest-core/voting-engine/domain/entities"
	votingerrors "votegala/contexts/contest-core/voting-engine/domain/errors"
)

// The two contest modules stay decoupled at the port level; these bridges
// bind gift-purchase's outbound ports onto the voting ledger and translate
// sentinels across the boundary.

type candidateDirectory struct {
	ledger votingengine.Module
}

func (d candidateDirectory) GetCandidate(ctx context.Context, candidateID string) (giftports.CandidateRef, error) {
	candidate, err := d.ledger.Ledger.Ledger.GetCandidate(ctx, candidateID)
	if err != nil {
		if errors.Is(err, votingerrors.ErrCandidateNotFound) {
			return giftports.CandidateRef{}, gifterrors.ErrCandidateNotFound
		}
		return giftports.CandidateRef{}, err
	}
	return giftports.CandidateRef{
		CandidateID: candidate.CandidateID,
		CampaignID:  candidate.CampaignID,
		Name:        candidate.Name,
	}, nil
}

type voteCommitter struct {
	ledger votingengine.Module
}

func (c voteCommitter) Commit(ctx context.Context, commit giftports.VoteCommit) (int64, error) {
	tally, err := c.ledger.Ledger.Commit(ctx, entities.VoteEvent{
		CampaignID:    commit.CampaignID,
		CandidateID:   commit.CandidateID,
		VoterID:       commit.VoterID,
		VoterNickname: commit.VoterNickname,
		VoterAvatar:   commit.VoterAvatar,
		Reach:         commit.Reach,
		GiftID:        commit.GiftID,
		GiftName:      commit.GiftName,
		GiftImage:     commit.GiftImage,
		NumberOfGifts: commit.NumberOfGifts,
		AmountMinor:   commit.AmountMinor,
		OutTradeNo:    commit.OutTradeNo,
	})
	if err != nil {
		if errors.Is(err, votingerrors.ErrDuplicateVoteEvent) {
			return 0, gifterrors.ErrVoteAlreadyCommitted
		}
		if errors.Is(err, votingerrors.ErrCandidateNotFound) {
			return 0, gifterrors.ErrCandidateNotFound
		}
		return 0, err
	}
	return tally, nil
}
