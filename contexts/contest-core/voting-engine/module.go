package votingengine

import (
	"log/slog"
	"time"

	httpadapter "votegala/contexts/contest-core/voting-engine/adapters/http"
	"votegala/contexts/contest-core/voting-engine/adapters/memory"
	"votegala/contexts/contest-core/voting-engine/application/commands"
	"votegala/contexts/contest-core/voting-engine/application/queries"
	"votegala/contexts/contest-core/voting-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	// Ledger is exported so the gift-purchase module can commit paid votes
	// through the same primitive.
	Ledger commands.LedgerUseCase
	Store  *memory.Store
}

type Dependencies struct {
	Ledger       ports.LedgerRepository
	DailyGate    ports.DailyVoteGate
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	DailyGateTTL time.Duration
	Logger       *slog.Logger
}

func NewModule(deps Dependencies) Module {
	ledgerUseCase := commands.LedgerUseCase{
		Ledger:       deps.Ledger,
		DailyGate:    deps.DailyGate,
		Clock:        deps.Clock,
		IDGen:        deps.IDGen,
		DailyGateTTL: deps.DailyGateTTL,
		Logger:       deps.Logger,
	}
	contestUseCase := queries.ContestUseCase{
		Ledger: deps.Ledger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Ledger:  ledgerUseCase,
			Contest: contestUseCase,
			Logger:  deps.Logger,
		},
		Ledger: ledgerUseCase,
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Ledger:       store,
		DailyGate:    store,
		Clock:        store,
		IDGen:        store,
		DailyGateTTL: 24 * time.Hour,
		Logger:       logger,
	})
	module.Store = store
	return module
}
