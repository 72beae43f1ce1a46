package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	votinghttp "votegala/contexts/contest-core/voting-engine/adapters/http"
	votingerrors "votegala/contexts/contest-core/voting-engine/domain/errors"
	votingtransport "votegala/contexts/contest-core/voting-engine/transport/http"
)

func requireVoter(w http.ResponseWriter, r *http.Request) (votinghttp.VoterIdentity, bool) {
	voterID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if voterID == "" {
		writeVotingError(w, http.StatusUnauthorized, "user_required", "X-User-Id header is required")
		return votinghttp.VoterIdentity{}, false
	}
	return votinghttp.VoterIdentity{
		VoterID:  voterID,
		Nickname: strings.TrimSpace(r.Header.Get("X-User-Nickname")),
		Avatar:   strings.TrimSpace(r.Header.Get("X-User-Avatar")),
	}, true
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	voter, ok := requireVoter(w, r)
	if !ok {
		return
	}
	var req votingtransport.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVotingError(w, http.StatusBadRequest, "invalid_body", "request body must be JSON")
		return
	}
	resp, err := s.voting.Handler.CastVoteHandler(r.Context(), voter, req)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCampaignDetail(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voting.Handler.CampaignDetailHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCampaignRules(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voting.Handler.CampaignRulesHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCandidateList(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voting.Handler.CandidateListHandler(
		r.Context(),
		r.PathValue("campaign_id"),
		r.URL.Query().Get("ordering"),
	)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCandidateDetail(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voting.Handler.CandidateDetailHandler(r.Context(), r.PathValue("candidate_id"))
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVoteEvents(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)
	resp, err := s.voting.Handler.VoteEventsHandler(r.Context(), r.PathValue("candidate_id"), limit, offset)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleContributorRank(w http.ResponseWriter, r *http.Request) {
	top := queryInt(r, "top", 0)
	resp, err := s.voting.Handler.ContributorRankHandler(r.Context(), r.PathValue("candidate_id"), top)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func writeVotingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, votingtransport.ErrorResponse{Code: code, Message: message})
}

func writeVotingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, votingerrors.ErrCampaignNotFound):
		writeVotingError(w, http.StatusNotFound, "campaign_not_found", err.Error())
	case errors.Is(err, votingerrors.ErrCandidateNotFound):
		writeVotingError(w, http.StatusNotFound, "candidate_not_found", err.Error())
	case errors.Is(err, votingerrors.ErrAlreadyVoted):
		writeVotingError(w, http.StatusConflict, "already_voted", err.Error())
	case errors.Is(err, votingerrors.ErrInvalidVoteInput):
		writeVotingError(w, http.StatusBadRequest, "invalid_vote_input", err.Error())
	default:
		writeVotingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
