// Package booking turns a complete reservation draft into a confirmed,
// persisted booking with a human-readable reference.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	contractx "github.com/bellavista/concierge/agent/contract"
	statex "github.com/bellavista/concierge/agent/state"
)

type Config struct {
	MaxPartySize    int    `split_words:"true" default:"12"`
	ReferencePrefix string `split_words:"true" default:"BV"`
}

type Finalizer struct {
	store        contractx.BookingStore
	maxPartySize int
	refPrefix    string
}

func NewFinalizer(store contractx.BookingStore, cfg Config) (*Finalizer, error) {
	if store == nil {
		return nil, errors.New("booking store is required")
	}
	if cfg.MaxPartySize <= 0 {
		return nil, errors.New("max party size must be positive")
	}
	prefix := strings.TrimSpace(cfg.ReferencePrefix)
	if prefix == "" {
		prefix = "BV"
	}
	return &Finalizer{
		store:        store,
		maxPartySize: cfg.MaxPartySize,
		refPrefix:    prefix,
	}, nil
}

// MaxPartySize exposes the capacity limit so rejection replies can name it.
func (f *Finalizer) MaxPartySize() int {
	return f.maxPartySize
}

// Finalize validates a complete draft against capacity policy and appends
// a confirmed booking. Nothing is persisted on any failure path, so a
// failed finalize is never visible as a partial record.
func (f *Finalizer) Finalize(ctx context.Context, callerID string, d *statex.Draft, now time.Time) (*contractx.ConfirmedBooking, error) {
	if d == nil || !d.Complete() {
		return nil, fmt.Errorf("%w: draft is incomplete", contractx.ErrValidation)
	}
	if d.PartySize > f.maxPartySize {
		return nil, fmt.Errorf("%w: party of %d over limit %d", contractx.ErrCapacityExceeded, d.PartySize, f.maxPartySize)
	}

	b := &contractx.ConfirmedBooking{
		CallerID:  callerID,
		Name:      d.Name,
		PartySize: d.PartySize,
		Date:      d.Date,
		Time:      d.Time,
		Status:    contractx.BookingStatusConfirmed,
		CreatedAt: now.UTC(),
	}

	id, err := f.store.Append(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("%w: append booking: %v", contractx.ErrPersistence, err)
	}

	b.ID = id
	b.Reference = contractx.BookingReference(f.refPrefix, id)
	return b, nil
}
