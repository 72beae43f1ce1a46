package errors

import "errors"

var (
	ErrInvalidVoteInput   = errors.New("invalid vote input")
	ErrCampaignNotFound   = errors.New("campaign not found")
	ErrCandidateNotFound  = errors.New("candidate not found")
	ErrAlreadyVoted       = errors.New("free vote already cast today")
	ErrDuplicateVoteEvent = errors.New("vote event already committed for trade number")
)
