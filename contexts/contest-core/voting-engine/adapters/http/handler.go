package httpadapter

import (
	"context"
	"log/slog"

	"votegala/contexts/contest-core/voting-engine/application/commands"
	"votegala/contexts/contest-core/voting-engine/application/queries"
	"votegala/contexts/contest-core/voting-engine/ports"
	httptransport "votegala/contexts/contest-core/voting-engine/transport/http"
)

type Handler struct {
	Ledger  commands.LedgerUseCase
	Contest queries.ContestUseCase
	Logger  *slog.Logger
}

// VoterIdentity is the authenticated caller as resolved by the HTTP layer.
type VoterIdentity struct {
	VoterID  string
	Nickname string
	Avatar   string
}

func (h Handler) CastVoteHandler(ctx context.Context, voter VoterIdentity, req httptransport.CastVoteRequest) (httptransport.CastVoteResponse, error) {
	result, err := h.Ledger.CastFreeVote(ctx, commands.CastFreeVoteCommand{
		VoterID:       voter.VoterID,
		VoterNickname: voter.Nickname,
		VoterAvatar:   voter.Avatar,
		CandidateID:   req.CandidateID,
	})
	if err != nil {
		return httptransport.CastVoteResponse{}, err
	}
	return httptransport.CastVoteResponse{
		CandidateID:   result.CandidateID,
		NumberOfVotes: result.NumberOfVotes,
	}, nil
}

func (h Handler) CampaignDetailHandler(ctx context.Context, campaignID string) (httptransport.CampaignResponse, error) {
	overview, err := h.Contest.CampaignDetail(ctx, campaignID)
	if err != nil {
		return httptransport.CampaignResponse{}, err
	}
	return httptransport.CampaignResponse{
		CampaignID:         overview.Campaign.CampaignID,
		Title:              overview.Campaign.Title,
		Description:        overview.Campaign.Description,
		Announcement:       overview.Campaign.Announcement,
		StartTime:          overview.Campaign.StartTime,
		EndTime:            overview.Campaign.EndTime,
		Views:              overview.Campaign.Views,
		NumberOfCandidates: overview.NumberOfCandidates,
		NumberOfVotes:      overview.NumberOfVotes,
	}, nil
}

func (h Handler) CampaignRulesHandler(ctx context.Context, campaignID string) (httptransport.CampaignRulesResponse, error) {
	rules, err := h.Contest.CampaignRules(ctx, campaignID)
	if err != nil {
		return httptransport.CampaignRulesResponse{}, err
	}
	return httptransport.CampaignRulesResponse{Detail: rules}, nil
}

func (h Handler) CandidateListHandler(ctx context.Context, campaignID string, ordering string) (httptransport.CandidateListResponse, error) {
	order := ports.OrderByVotes
	if ordering == "created" {
		order = ports.OrderByCreated
	}
	candidates, err := h.Contest.Candidates(ctx, campaignID, order)
	if err != nil {
		return httptransport.CandidateListResponse{}, err
	}
	items := make([]httptransport.CandidateItem, 0, len(candidates))
	for _, candidate := range candidates {
		items = append(items, httptransport.CandidateItem{
			CandidateID:   candidate.CandidateID,
			Number:        candidate.Number,
			Name:          candidate.Name,
			Cover:         candidate.Cover,
			NumberOfVotes: candidate.NumberOfVotes,
		})
	}
	return httptransport.CandidateListResponse{Items: items}, nil
}

func (h Handler) CandidateDetailHandler(ctx context.Context, candidateID string) (httptransport.CandidateItem, error) {
	candidate, err := h.Contest.CandidateDetail(ctx, candidateID)
	if err != nil {
		return httptransport.CandidateItem{}, err
	}
	return httptransport.CandidateItem{
		CandidateID:   candidate.CandidateID,
		Number:        candidate.Number,
		Name:          candidate.Name,
		Cover:         candidate.Cover,
		Declaration:   candidate.Declaration,
		NumberOfVotes: candidate.NumberOfVotes,
	}, nil
}

func (h Handler) VoteEventsHandler(ctx context.Context, candidateID string, limit, offset int) (httptransport.VoteEventListResponse, error) {
	events, err := h.Contest.VoteEvents(ctx, candidateID, limit, offset)
	if err != nil {
		return httptransport.VoteEventListResponse{}, err
	}
	items := make([]httptransport.VoteEventItem, 0, len(events))
	for _, event := range events {
		items = append(items, httptransport.VoteEventItem{
			VoterNickname: event.VoterNickname,
			VoterAvatar:   event.VoterAvatar,
			Reach:         event.Reach,
			IsGift:        event.IsGift(),
			GiftName:      event.GiftName,
			GiftImage:     event.GiftImage,
			NumberOfGifts: event.NumberOfGifts,
			CreatedAt:     event.CreatedAt,
		})
	}
	return httptransport.VoteEventListResponse{Items: items}, nil
}

func (h Handler) ContributorRankHandler(ctx context.Context, candidateID string, top int) (httptransport.RankResponse, error) {
	scores, err := h.Contest.ContributorRank(ctx, candidateID, top)
	if err != nil {
		return httptransport.RankResponse{}, err
	}
	items := make([]httptransport.RankItem, 0, len(scores))
	for _, score := range scores {
		items = append(items, httptransport.RankItem{
			VoterNickname: score.VoterNickname,
			VoterAvatar:   score.VoterAvatar,
			NumberOfVotes: score.NumberOfVotes,
			Rank:          score.Rank,
		})
	}
	return httptransport.RankResponse{Items: items}, nil
}
