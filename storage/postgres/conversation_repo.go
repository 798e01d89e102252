package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	contractx "github.com/bellavista/concierge/agent/contract"
)

// ConversationRepo records inbound/outbound pairs for the reporting
// surface. It implements contract.ConversationLog.
type ConversationRepo struct {
	db *bun.DB
}

func NewConversationRepo(db *bun.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

func (r *ConversationRepo) Append(ctx context.Context, callerID, inbound, outbound string, at time.Time) error {
	rec := &ConversationRecord{
		CallerID: callerID,
		Inbound:  inbound,
		Outbound: outbound,
		At:       at,
	}
	if _, err := r.db.NewInsert().Model(rec).Exec(ctx); err != nil {
		return fmt.Errorf("insert conversation: %w", err)
	}
	return nil
}

func (r *ConversationRepo) Recent(ctx context.Context, limit int) ([]contractx.ConversationEntry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var recs []ConversationRecord
	if err := r.db.NewSelect().Model(&recs).Order("at DESC").Limit(limit).Scan(ctx); err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	out := make([]contractx.ConversationEntry, 0, len(recs))
	for _, rec := range recs {
		out = append(out, contractx.ConversationEntry{
			ID:       rec.ID,
			CallerID: rec.CallerID,
			Inbound:  rec.Inbound,
			Outbound: rec.Outbound,
			At:       rec.At,
		})
	}
	return out, nil
}
