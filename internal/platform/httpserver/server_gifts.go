package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	gifthttp "votegala/contexts/contest-core/gift-purchase/adapters/http"
	gifterrors "votegala/contexts/contest-core/gift-purchase/domain/errors"
	gifttransport "votegala/contexts/contest-core/gift-purchase/transport/http"
)

// notifyBodyLimit bounds the webhook payload; provider notifications are a
// few hundred bytes.
const notifyBodyLimit = 1 << 16

func requireBuyer(w http.ResponseWriter, r *http.Request) (gifthttp.BuyerIdentity, bool) {
	voterID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if voterID == "" {
		writeGiftError(w, http.StatusUnauthorized, "user_required", "X-User-Id header is required")
		return gifthttp.BuyerIdentity{}, false
	}
	return gifthttp.BuyerIdentity{
		VoterID:  voterID,
		Nickname: strings.TrimSpace(r.Header.Get("X-User-Nickname")),
		Avatar:   strings.TrimSpace(r.Header.Get("X-User-Avatar")),
		OpenID:   strings.TrimSpace(r.Header.Get("X-User-Openid")),
	}, true
}

func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if strings.TrimSpace(r.Header.Get("X-Admin")) == "" {
		writeGiftError(w, http.StatusForbidden, "admin_required", "admin access is required")
		return false
	}
	return true
}

func (s *Server) handlePurchaseGift(w http.ResponseWriter, r *http.Request) {
	buyer, ok := requireBuyer(w, r)
	if !ok {
		return
	}
	var req gifttransport.PurchaseGiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGiftError(w, http.StatusBadRequest, "invalid_body", "request body must be JSON")
		return
	}
	resp, err := s.gifts.Handler.PurchaseGiftHandler(r.Context(), buyer, r.PathValue("candidate_id"), req)
	if err != nil {
		writeGiftDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleGatewayNotify is the provider webhook: unauthenticated, verified by
// signature inside the module, and always answered with the provider's XML
// ack body.
func (s *Server) handleGatewayNotify(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, notifyBodyLimit))
	if err != nil {
		raw = nil
	}
	ack := s.gifts.Handler.NotifyHandler(r.Context(), raw)
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(ack)
}

func (s *Server) handleListGifts(w http.ResponseWriter, r *http.Request) {
	resp, err := s.gifts.Handler.ListGiftsHandler(r.Context())
	if err != nil {
		writeGiftDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateGift(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	var req gifttransport.CreateGiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGiftError(w, http.StatusBadRequest, "invalid_body", "request body must be JSON")
		return
	}
	resp, err := s.gifts.Handler.CreateGiftHandler(r.Context(), req)
	if err != nil {
		writeGiftDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleVoidGift(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	if err := s.gifts.Handler.VoidGiftHandler(r.Context(), r.PathValue("gift_id")); err != nil {
		writeGiftDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeGiftError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, gifttransport.ErrorResponse{Code: code, Message: message})
}

func writeGiftDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gifterrors.ErrGiftNotFound):
		writeGiftError(w, http.StatusNotFound, "gift_not_found", err.Error())
	case errors.Is(err, gifterrors.ErrCandidateNotFound):
		writeGiftError(w, http.StatusNotFound, "candidate_not_found", err.Error())
	case errors.Is(err, gifterrors.ErrInvalidPurchaseInput):
		writeGiftError(w, http.StatusBadRequest, "invalid_purchase", err.Error())
	case errors.Is(err, gifterrors.ErrInvalidGiftInput):
		writeGiftError(w, http.StatusBadRequest, "invalid_gift", err.Error())
	case errors.Is(err, gifterrors.ErrGatewayUnavailable):
		writeGiftError(w, http.StatusBadGateway, "gateway_unavailable", err.Error())
	default:
		writeGiftError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
