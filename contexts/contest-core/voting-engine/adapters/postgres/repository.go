package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"votegala/contexts/contest-core/voting-engine/domain/entities"
	domainerrors "votegala/contexts/contest-core/voting-engine/domain/errors"
	"votegala/contexts/contest-core/voting-engine/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const uniqueViolationCode = "23505"

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

// AutoMigrate creates the ledger tables. Called from bootstrap, not from
// request paths.
func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&campaignModel{}, &candidateModel{}, &voteEventModel{})
}

func (r *Repository) GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error) {
	var row campaignModel
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Campaign{}, domainerrors.ErrCampaignNotFound
		}
		return entities.Campaign{}, r.logError("voting_repo_get_campaign_failed", err, "campaign_id", campaignID)
	}
	return row.toEntity(), nil
}

func (r *Repository) IncrementCampaignViews(ctx context.Context, campaignID string) (entities.Campaign, error) {
	var row campaignModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("campaign_id = ?", strings.TrimSpace(campaignID)).
			First(&row).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrCampaignNotFound
			}
			return err
		}
		row.Views++
		row.UpdatedAt = time.Now().UTC()
		return tx.Model(&campaignModel{}).
			Where("campaign_id = ?", row.CampaignID).
			Updates(map[string]any{"views": row.Views, "updated_at": row.UpdatedAt}).
			Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrCampaignNotFound) {
			return entities.Campaign{}, err
		}
		return entities.Campaign{}, r.logError("voting_repo_increment_views_failed", err, "campaign_id", campaignID)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetCandidate(ctx context.Context, candidateID string) (entities.Candidate, error) {
	var row candidateModel
	err := r.db.WithContext(ctx).
		Where("candidate_id = ?", strings.TrimSpace(candidateID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Candidate{}, domainerrors.ErrCandidateNotFound
		}
		return entities.Candidate{}, r.logError("voting_repo_get_candidate_failed", err, "candidate_id", candidateID)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListCandidates(ctx context.Context, campaignID string, ordering ports.CandidateOrdering) ([]entities.Candidate, error) {
	tx := r.db.WithContext(ctx).Model(&candidateModel{})
	if strings.TrimSpace(campaignID) != "" {
		tx = tx.Where("campaign_id = ?", strings.TrimSpace(campaignID))
	}
	switch ordering {
	case ports.OrderByCreated:
		tx = tx.Order("created_at DESC")
	default:
		tx = tx.Order("number_of_votes DESC").Order("candidate_id ASC")
	}

	var rows []candidateModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, r.logError("voting_repo_list_candidates_failed", err, "campaign_id", campaignID)
	}
	items := make([]entities.Candidate, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// CommitVote is the transactional ledger primitive. The candidate row is
// locked FOR UPDATE before the event insert so concurrent commits for the
// same candidate serialize their read-modify-write; the unique index on
// out_trade_no rejects a second event for the same gateway transaction even
// if two notifications race past the staging lookup.
func (r *Repository) CommitVote(ctx context.Context, event entities.VoteEvent) (int64, error) {
	var tally int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var candidate candidateModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("candidate_id = ?", strings.TrimSpace(event.CandidateID)).
			First(&candidate).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrCandidateNotFound
			}
			return err
		}

		row := voteEventModelFromEntity(event)
		if row.EventID == "" {
			row.EventID = uuid.NewString()
		}
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrDuplicateVoteEvent
			}
			return err
		}

		candidate.NumberOfVotes += event.Reach
		candidate.UpdatedAt = row.CreatedAt
		if err := tx.Model(&candidateModel{}).
			Where("candidate_id = ?", candidate.CandidateID).
			Updates(map[string]any{
				"number_of_votes": candidate.NumberOfVotes,
				"updated_at":      candidate.UpdatedAt,
			}).
			Error; err != nil {
			return err
		}
		tally = candidate.NumberOfVotes
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrCandidateNotFound) || errors.Is(err, domainerrors.ErrDuplicateVoteEvent) {
			return 0, err
		}
		return 0, r.logError("voting_repo_commit_vote_failed", err,
			"candidate_id", strings.TrimSpace(event.CandidateID),
			"out_trade_no", event.OutTradeNo,
		)
	}
	return tally, nil
}

func (r *Repository) ListVoteEvents(ctx context.Context, candidateID string, limit, offset int) ([]entities.VoteEvent, error) {
	var rows []voteEventModel
	err := r.db.WithContext(ctx).
		Where("candidate_id = ?", strings.TrimSpace(candidateID)).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("voting_repo_list_vote_events_failed", err, "candidate_id", candidateID)
	}
	items := make([]entities.VoteEvent, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	attrs := append([]any{
		"event", event,
		"module", "contest-core/voting-engine",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("voting repository operation failed", attrs...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}
	return false
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }

type campaignModel struct {
	CampaignID   string    `gorm:"column:campaign_id;primaryKey"`
	Title        string    `gorm:"column:title"`
	Description  string    `gorm:"column:description"`
	Announcement string    `gorm:"column:announcement"`
	Rules        string    `gorm:"column:rules"`
	StartTime    time.Time `gorm:"column:start_time"`
	EndTime      time.Time `gorm:"column:end_time"`
	Views        int64     `gorm:"column:views"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (campaignModel) TableName() string {
	return "campaigns"
}

func (m campaignModel) toEntity() entities.Campaign {
	return entities.Campaign{
		CampaignID:   m.CampaignID,
		Title:        m.Title,
		Description:  m.Description,
		Announcement: m.Announcement,
		Rules:        m.Rules,
		StartTime:    m.StartTime,
		EndTime:      m.EndTime,
		Views:        m.Views,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

type candidateModel struct {
	CandidateID   string    `gorm:"column:candidate_id;primaryKey"`
	CampaignID    string    `gorm:"column:campaign_id;index"`
	Number        string    `gorm:"column:number"`
	Name          string    `gorm:"column:name"`
	Cover         string    `gorm:"column:cover"`
	Declaration   string    `gorm:"column:declaration"`
	NumberOfVotes int64     `gorm:"column:number_of_votes"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (candidateModel) TableName() string {
	return "candidates"
}

func (m candidateModel) toEntity() entities.Candidate {
	return entities.Candidate{
		CandidateID:   m.CandidateID,
		CampaignID:    m.CampaignID,
		Number:        m.Number,
		Name:          m.Name,
		Cover:         m.Cover,
		Declaration:   m.Declaration,
		NumberOfVotes: m.NumberOfVotes,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

type voteEventModel struct {
	EventID       string  `gorm:"column:event_id;primaryKey"`
	CampaignID    string  `gorm:"column:campaign_id;index"`
	CandidateID   string  `gorm:"column:candidate_id;index"`
	VoterID       string  `gorm:"column:voter_id;index"`
	VoterNickname string  `gorm:"column:voter_nickname"`
	VoterAvatar   string  `gorm:"column:voter_avatar"`
	Reach         int64   `gorm:"column:reach"`
	GiftID        *string `gorm:"column:gift_id"`
	GiftName      string  `gorm:"column:gift_name"`
	GiftImage     string  `gorm:"column:gift_image"`
	NumberOfGifts int64   `gorm:"column:number_of_gifts"`
	AmountMinor   int64   `gorm:"column:amount_minor"`
	// NULL for free votes; unique per committed gateway transaction.
	OutTradeNo *string   `gorm:"column:out_trade_no;uniqueIndex"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (voteEventModel) TableName() string {
	return "vote_events"
}

func voteEventModelFromEntity(event entities.VoteEvent) voteEventModel {
	row := voteEventModel{
		EventID:       event.EventID,
		CampaignID:    event.CampaignID,
		CandidateID:   strings.TrimSpace(event.CandidateID),
		VoterID:       event.VoterID,
		VoterNickname: event.VoterNickname,
		VoterAvatar:   event.VoterAvatar,
		Reach:         event.Reach,
		GiftName:      event.GiftName,
		GiftImage:     event.GiftImage,
		NumberOfGifts: event.NumberOfGifts,
		AmountMinor:   event.AmountMinor,
		CreatedAt:     event.CreatedAt,
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if event.GiftID != "" {
		giftID := event.GiftID
		row.GiftID = &giftID
	}
	if event.OutTradeNo != "" {
		tradeNo := event.OutTradeNo
		row.OutTradeNo = &tradeNo
	}
	return row
}

func (m voteEventModel) toEntity() entities.VoteEvent {
	event := entities.VoteEvent{
		EventID:       m.EventID,
		CampaignID:    m.CampaignID,
		CandidateID:   m.CandidateID,
		VoterID:       m.VoterID,
		VoterNickname: m.VoterNickname,
		VoterAvatar:   m.VoterAvatar,
		Reach:         m.Reach,
		GiftName:      m.GiftName,
		GiftImage:     m.GiftImage,
		NumberOfGifts: m.NumberOfGifts,
		AmountMinor:   m.AmountMinor,
		CreatedAt:     m.CreatedAt,
	}
	if m.GiftID != nil {
		event.GiftID = *m.GiftID
	}
	if m.OutTradeNo != nil {
		event.OutTradeNo = *m.OutTradeNo
	}
	return event
}
