package contract

import (
	"context"
	"time"
)

// Completer is the free-form generation collaborator. Prompts carry the
// persona and any grounding context; failures map to fallback replies.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Retriever is the query side of the menu lookup subsystem.
type Retriever interface {
	Query(ctx context.Context, question string, k int) ([]string, error)
}

// BookingStore is the booking persistence contract. Append is one atomic
// operation that assigns the sequence id, persists the record with its
// id-derived reference, and returns the id.
type BookingStore interface {
	Append(ctx context.Context, b *ConfirmedBooking) (int64, error)
	List(ctx context.Context, filter BookingFilter) ([]ConfirmedBooking, error)
}

// ConversationLog is write-mostly from the orchestrator's perspective;
// Recent exists for the reporting surface.
type ConversationLog interface {
	Append(ctx context.Context, callerID, inbound, outbound string, at time.Time) error
	Recent(ctx context.Context, limit int) ([]ConversationEntry, error)
}
