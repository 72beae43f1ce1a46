package ports

import (
	"context"
	"time"

	"votegala/contexts/contest-core/gift-purchase/domain/entities"
)

type GiftRepository interface {
	GetGift(ctx context.Context, giftID string) (entities.Gift, error)
	// ListGifts returns active (non-void) gifts only.
	ListGifts(ctx context.Context) ([]entities.Gift, error)
	CreateGift(ctx context.Context, gift entities.Gift) error
	VoidGift(ctx context.Context, giftID string) error
}

// StagingStore is the TTL-bounded key/value map from trade number to pending
// purchase. Atomicity of single-key get/put/delete comes from the backing
// store; no caller-side locking exists.
type StagingStore interface {
	Put(ctx context.Context, purchase entities.PendingPurchase, ttl time.Duration) error
	Get(ctx context.Context, tradeNo string) (entities.PendingPurchase, bool, error)
	Delete(ctx context.Context, tradeNo string) error
	// ListStale returns staged purchases older than the given age, for the
	// sweeper. Entries the TTL already reclaimed are not returned.
	ListStale(ctx context.Context, olderThan time.Duration) ([]entities.PendingPurchase, error)
}

type ChargeRequest struct {
	TradeNo string
	// OpenID is the voter's gateway account handle.
	OpenID      string
	Description string
	AmountMinor int64
}

// ClientToken is the provider's client-payable payload (JSAPI/QR parameters),
// passed through to the purchase caller unmodified.
type ClientToken map[string]string

// Notification is a parsed provider callback.
type Notification struct {
	TradeNo string
	// Succeeded reflects the provider's result code.
	Succeeded bool
	// SignatureOK is the outcome of the provider's verification predicate.
	SignatureOK bool
	Fields      map[string]string
}

type OrderState string

const (
	OrderStatePaid    OrderState = "paid"
	OrderStatePending OrderState = "pending"
	OrderStateClosed  OrderState = "closed"
	OrderStateUnknown OrderState = "unknown"
)

// PaymentGateway is the provider boundary. Only its observable contract is
// modeled; signature crypto lives behind the adapter.
type PaymentGateway interface {
	CreateCharge(ctx context.Context, req ChargeRequest) (ClientToken, error)
	ParseNotification(raw []byte) (Notification, error)
	// BuildAck renders the provider-specific acknowledgment body. The webhook
	// responds with it on every outcome.
	BuildAck(message string, success bool) []byte
	// QueryOrder asks the provider for a transaction's current state; used
	// only by the stage sweeper.
	QueryOrder(ctx context.Context, tradeNo string) (OrderState, error)
}

// VoteCommit is the paid-vote payload handed to the ledger primitive.
type VoteCommit struct {
	CampaignID    string
	CandidateID   string
	VoterID       string
	VoterNickname string
	VoterAvatar   string
	Reach         int64
	GiftID        string
	GiftName      string
	GiftImage     string
	NumberOfGifts int64
	AmountMinor   int64
	OutTradeNo    string
}

// VoteCommitter commits a paid vote atomically and returns the updated tally.
// A trade number that is already committed yields ErrVoteAlreadyCommitted.
type VoteCommitter interface {
	Commit(ctx context.Context, commit VoteCommit) (int64, error)
}

type CandidateRef struct {
	CandidateID string
	CampaignID  string
	Name        string
}

// CandidateDirectory resolves purchase targets without coupling this module
// to the ledger's read model.
type CandidateDirectory interface {
	GetCandidate(ctx context.Context, candidateID string) (CandidateRef, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID() string
}

// TradeNumberGenerator mints unique gateway transaction identifiers.
type TradeNumberGenerator interface {
	NewTradeNo() string
}
