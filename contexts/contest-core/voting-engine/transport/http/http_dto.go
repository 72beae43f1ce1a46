package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CastVoteRequest struct {
	CandidateID string `json:"candidate_id"`
}

type CastVoteResponse struct {
	CandidateID   string `json:"candidate_id"`
	NumberOfVotes int64  `json:"number_of_votes"`
}

type CampaignResponse struct {
	CampaignID         string    `json:"campaign_id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Announcement       string    `json:"announcement"`
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
	Views              int64     `json:"views"`
	NumberOfCandidates int       `json:"number_of_candidates"`
	NumberOfVotes      int64     `json:"number_of_votes"`
}

type CampaignRulesResponse struct {
	Detail string `json:"detail"`
}

type CandidateItem struct {
	CandidateID   string `json:"candidate_id"`
	Number        string `json:"number"`
	Name          string `json:"name"`
	Cover         string `json:"cover"`
	Declaration   string `json:"declaration,omitempty"`
	NumberOfVotes int64  `json:"number_of_votes"`
}

type CandidateListResponse struct {
	Items []CandidateItem `json:"items"`
}

type VoteEventItem struct {
	VoterNickname string    `json:"voter_nickname"`
	VoterAvatar   string    `json:"voter_avatar"`
	Reach         int64     `json:"reach"`
	IsGift        bool      `json:"is_gift"`
	GiftName      string    `json:"gift_name,omitempty"`
	GiftImage     string    `json:"image,omitempty"`
	NumberOfGifts int64     `json:"number_of_gifts,omitempty"`
	CreatedAt     time.Time `json:"create_time"`
}

type VoteEventListResponse struct {
	Items []VoteEventItem `json:"items"`
}

type RankItem struct {
	VoterNickname string `json:"voter_nickname"`
	VoterAvatar   string `json:"voter_avatar"`
	NumberOfVotes int64  `json:"number_of_votes"`
	Rank          int    `json:"vote_rank"`
}

type RankResponse struct {
	Items []RankItem `json:"items"`
}
