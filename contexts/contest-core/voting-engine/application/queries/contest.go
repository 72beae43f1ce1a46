package queries

import (
	"context"
	"sort"
	"strings"

	"votegala/contexts/contest-core/voting-engine/domain/entities"
	domainerrors "votegala/contexts/contest-core/voting-engine/domain/errors"
	"votegala/contexts/contest-core/voting-engine/ports"
)

const (
	defaultEventPageSize = 20
	maxEventPageSize     = 100
	defaultRankSize      = 5
	maxRankSize          = 50
)

type ContestUseCase struct {
	Ledger ports.LedgerRepository
}

// CampaignOverview is the public contest page payload: campaign fields plus
// aggregates over its candidates.
type CampaignOverview struct {
	Campaign           entities.Campaign
	NumberOfCandidates int
	NumberOfVotes      int64
}

// CampaignDetail returns the campaign with candidate aggregates and bumps its
// view counter, mirroring the public contest page.
func (uc ContestUseCase) CampaignDetail(ctx context.Context, campaignID string) (CampaignOverview, error) {
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return CampaignOverview{}, domainerrors.ErrCampaignNotFound
	}
	campaign, err := uc.Ledger.IncrementCampaignViews(ctx, campaignID)
	if err != nil {
		return CampaignOverview{}, err
	}
	candidates, err := uc.Ledger.ListCandidates(ctx, campaignID, ports.OrderByVotes)
	if err != nil {
		return CampaignOverview{}, err
	}
	overview := CampaignOverview{Campaign: campaign, NumberOfCandidates: len(candidates)}
	for _, candidate := range candidates {
		overview.NumberOfVotes += candidate.NumberOfVotes
	}
	return overview, nil
}

func (uc ContestUseCase) CampaignRules(ctx context.Context, campaignID string) (string, error) {
	campaign, err := uc.Ledger.GetCampaign(ctx, strings.TrimSpace(campaignID))
	if err != nil {
		return "", err
	}
	return campaign.Rules, nil
}

func (uc ContestUseCase) CandidateDetail(ctx context.Context, candidateID string) (entities.Candidate, error) {
	return uc.Ledger.GetCandidate(ctx, strings.TrimSpace(candidateID))
}

func (uc ContestUseCase) Candidates(ctx context.Context, campaignID string, ordering ports.CandidateOrdering) ([]entities.Candidate, error) {
	if _, err := uc.Ledger.GetCampaign(ctx, strings.TrimSpace(campaignID)); err != nil {
		return nil, err
	}
	return uc.Ledger.ListCandidates(ctx, strings.TrimSpace(campaignID), ordering)
}

// VoteEvents returns the candidate's event feed, newest first.
func (uc ContestUseCase) VoteEvents(ctx context.Context, candidateID string, limit, offset int) ([]entities.VoteEvent, error) {
	if _, err := uc.Ledger.GetCandidate(ctx, strings.TrimSpace(candidateID)); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultEventPageSize
	}
	if limit > maxEventPageSize {
		limit = maxEventPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return uc.Ledger.ListVoteEvents(ctx, strings.TrimSpace(candidateID), limit, offset)
}

// ContributorRank aggregates a candidate's vote events by voter and returns
// the top contributors with competition ranking: tied totals share a rank and
// the next distinct total skips the tied positions.
func (uc ContestUseCase) ContributorRank(ctx context.Context, candidateID string, top int) ([]entities.ContributorScore, error) {
	candidateID = strings.TrimSpace(candidateID)
	if _, err := uc.Ledger.GetCandidate(ctx, candidateID); err != nil {
		return nil, err
	}
	if top <= 0 {
		top = defaultRankSize
	}
	if top > maxRankSize {
		top = maxRankSize
	}

	scores := make([]entities.ContributorScore, 0)
	byVoter := make(map[string]int)
	offset := 0
	for {
		events, err := uc.Ledger.ListVoteEvents(ctx, candidateID, maxEventPageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, event := range events {
			idx, ok := byVoter[event.VoterID]
			if !ok {
				byVoter[event.VoterID] = len(scores)
				scores = append(scores, entities.ContributorScore{
					VoterID:       event.VoterID,
					VoterNickname: event.VoterNickname,
					VoterAvatar:   event.VoterAvatar,
				})
				idx = len(scores) - 1
			}
			scores[idx].NumberOfVotes += event.Reach
		}
		if len(events) < maxEventPageSize {
			break
		}
		offset += len(events)
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].NumberOfVotes == scores[j].NumberOfVotes {
			return scores[i].VoterID < scores[j].VoterID
		}
		return scores[i].NumberOfVotes > scores[j].NumberOfVotes
	})
	if len(scores) > top {
		scores = scores[:top]
	}
	for i := range scores {
		if i > 0 && scores[i].NumberOfVotes == scores[i-1].NumberOfVotes {
			scores[i].Rank = scores[i-1].Rank
			continue
		}
		scores[i].Rank = i + 1
	}
	return scores, nil
}
