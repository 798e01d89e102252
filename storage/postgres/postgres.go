package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type Config struct {
	DSN          string        `split_words:"true" required:"true"`
	MaxOpenConns int           `split_words:"true" default:"8"`
	ConnTimeout  time.Duration `split_words:"true" default:"5s"`
}

// NewDB opens a bun handle over the pgdriver connector and verifies
// connectivity before handing it back.
func NewDB(ctx context.Context, cfg Config) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(cfg.DSN),
		pgdriver.WithTimeout(cfg.ConnTimeout),
	))
	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)

	db := bun.NewDB(sqldb, pgdialect.New())
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// CreateTables ensures the booking and conversation tables exist. The
// deployment has no migration tooling; idempotent DDL at boot is enough.
func CreateTables(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*BookingRecord)(nil),
		(*ConversationRecord)(nil),
	}
	for _, m := range models {
		if _, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", m, err)
		}
	}
	return nil
}
