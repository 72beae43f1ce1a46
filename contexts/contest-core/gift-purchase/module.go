package giftpurchase

import (
	"log/slog"
	"time"

	httpadapter "votegala/contexts/contest-core/gift-purchase/adapters/http"
	"votegala/contexts/contest-core/gift-purchase/adapters/memory"
	"votegala/contexts/contest-core/gift-purchase/application/commands"
	"votegala/contexts/contest-core/gift-purchase/application/queries"
	"votegala/contexts/contest-core/gift-purchase/application/workers"
	"votegala/contexts/contest-core/gift-purchase/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Sweeper workers.StageSweeper
	Store   *memory.Store
	Gateway *memory.Gateway
}

type Dependencies struct {
	Gifts      ports.GiftRepository
	Candidates ports.CandidateDirectory
	Staging    ports.StagingStore
	PaymentGW  ports.PaymentGateway
	Committer  ports.VoteCommitter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	TradeNos   ports.TradeNumberGenerator
	StageTTL   time.Duration
	SweepAge   time.Duration
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	purchaseUseCase := commands.PurchaseUseCase{
		Gifts:      deps.Gifts,
		Candidates: deps.Candidates,
		Staging:    deps.Staging,
		Gateway:    deps.PaymentGW,
		Clock:      deps.Clock,
		TradeNos:   deps.TradeNos,
		StageTTL:   deps.StageTTL,
		Logger:     deps.Logger,
	}
	reconcileUseCase := commands.ReconcileUseCase{
		Staging:   deps.Staging,
		Gateway:   deps.PaymentGW,
		Committer: deps.Committer,
		Logger:    deps.Logger,
	}
	catalogUseCase := commands.CatalogUseCase{
		Gifts:  deps.Gifts,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Purchases: purchaseUseCase,
			Reconcile: reconcileUseCase,
			Catalog:   catalogUseCase,
			Listing:   queries.CatalogUseCase{Gifts: deps.Gifts},
			Logger:    deps.Logger,
		},
		Sweeper: workers.StageSweeper{
			Staging:   deps.Staging,
			Gateway:   deps.PaymentGW,
			Committer: deps.Committer,
			MinAge:    deps.SweepAge,
			Logger:    deps.Logger,
		},
	}
}

// NewInMemoryModule wires the module onto in-process fakes; candidates and
// the committer still come from the caller because they belong to the ledger.
func NewInMemoryModule(candidates ports.CandidateDirectory, committer ports.VoteCommitter, logger *slog.Logger) Module {
	store := memory.NewStore()
	gateway := memory.NewGateway()
	module := NewModule(Dependencies{
		Gifts:      store,
		Candidates: candidates,
		Staging:    store,
		PaymentGW:  gateway,
		Committer:  committer,
		Clock:      store,
		IDGen:      store,
		TradeNos:   store,
		StageTTL:   commands.StageTTL,
		SweepAge:   5 * time.Minute,
		Logger:     logger,
	})
	module.Store = store
	module.Gateway = gateway
	return module
}
