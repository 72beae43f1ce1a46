package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	giftpurchase "votegala/contexts/contest-core/gift-purchase"
	votingengine "votegala/contexts/contest-core/voting-engine"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "votegala/internal/platform/httpserver/docs"
)

type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger
	addr   string
	voting votingengine.Module
	gifts  giftpurchase.Module
}

func New(
	voting votingengine.Module,
	gifts giftpurchase.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger,
		addr:   addr,
		voting: voting,
		gifts:  gifts,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/v1/vote", s.handleCastVote)
	s.mux.HandleFunc("GET /api/v1/campaigns/{campaign_id}", s.handleCampaignDetail)
	s.mux.HandleFunc("GET /api/v1/campaigns/{campaign_id}/rules", s.handleCampaignRules)
	s.mux.HandleFunc("GET /api/v1/campaigns/{campaign_id}/candidates", s.handleCandidateList)
	s.mux.HandleFunc("GET /api/v1/candidates/{candidate_id}", s.handleCandidateDetail)
	s.mux.HandleFunc("GET /api/v1/candidates/{candidate_id}/vote-events", s.handleVoteEvents)
	s.mux.HandleFunc("GET /api/v1/candidates/{candidate_id}/rank", s.handleContributorRank)

	s.mux.HandleFunc("POST /api/v1/candidates/{candidate_id}/gifts", s.handlePurchaseGift)
	s.mux.HandleFunc("POST /api/v1/gateway/notify", s.handleGatewayNotify)
	s.mux.HandleFunc("GET /api/v1/gifts", s.handleListGifts)
	s.mux.HandleFunc("POST /api/v1/gifts", s.handleCreateGift)
	s.mux.HandleFunc("DELETE /api/v1/gifts/{gift_id}", s.handleVoidGift)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
