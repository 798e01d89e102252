package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	contractx "github.com/bellavista/concierge/agent/contract"
)

const defaultListLimit = 100

// BookingRepo persists confirmed bookings. It implements
// contract.BookingStore.
type BookingRepo struct {
	db        *bun.DB
	refPrefix string
}

// NewBookingRepo builds a repo deriving references with the given prefix.
// The prefix must match the finalizer's so replies and stored rows agree.
func NewBookingRepo(db *bun.DB, refPrefix string) *BookingRepo {
	prefix := strings.TrimSpace(refPrefix)
	if prefix == "" {
		prefix = "BV"
	}
	return &BookingRepo{db: db, refPrefix: prefix}
}

// Append inserts the booking and fills its reference inside one
// transaction, so a stored row never lacks a reference.
func (r *BookingRepo) Append(ctx context.Context, b *contractx.ConfirmedBooking) (int64, error) {
	rec := &BookingRecord{
		CallerID:  b.CallerID,
		Name:      b.Name,
		PartySize: b.PartySize,
		Date:      b.Date,
		Time:      b.Time,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
	}

	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(rec).Returning("id").Exec(ctx); err != nil {
			return err
		}
		rec.Reference = contractx.BookingReference(r.refPrefix, rec.ID)
		_, err := tx.NewUpdate().Model(rec).Column("reference").WherePK().Exec(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("insert booking: %w", err)
	}
	return rec.ID, nil
}

func (r *BookingRepo) List(ctx context.Context, filter contractx.BookingFilter) ([]contractx.ConfirmedBooking, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	var recs []BookingRecord
	q := r.db.NewSelect().Model(&recs).Order("created_at DESC").Limit(limit)
	if date := strings.TrimSpace(filter.Date); date != "" {
		// Dates are stored as the guest said them, so substring match is
		// the best filter available.
		q = q.Where("date ILIKE ?", "%"+date+"%")
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	out := make([]contractx.ConfirmedBooking, 0, len(recs))
	for _, rec := range recs {
		out = append(out, contractx.ConfirmedBooking{
			ID:        rec.ID,
			Reference: rec.Reference,
			CallerID:  rec.CallerID,
			Name:      rec.Name,
			PartySize: rec.PartySize,
			Date:      rec.Date,
			Time:      rec.Time,
			Status:    rec.Status,
			CreatedAt: rec.CreatedAt,
		})
	}
	return out, nil
}
