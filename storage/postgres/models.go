package postgres

import (
	"time"

	"github.com/uptrace/bun"
)

// BookingRecord mirrors contract.ConfirmedBooking. Date and Time keep the
// guest's literal wording; the engine never normalizes them.
type BookingRecord struct {
	bun.BaseModel `bun:"table:bookings"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Reference string    `bun:"reference,notnull"`
	CallerID  string    `bun:"caller_id,notnull"`
	Name      string    `bun:"name,notnull"`
	PartySize int       `bun:"party_size,notnull"`
	Date      string    `bun:"date,notnull"`
	Time      string    `bun:"time,notnull"`
	Status    string    `bun:"status,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

type ConversationRecord struct {
	bun.BaseModel `bun:"table:conversations"`

	ID       int64     `bun:"id,pk,autoincrement"`
	CallerID string    `bun:"caller_id,notnull"`
	Inbound  string    `bun:"inbound,notnull"`
	Outbound string    `bun:"outbound,notnull"`
	At       time.Time `bun:"at,notnull"`
}
