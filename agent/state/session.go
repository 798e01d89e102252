package state

import (
	"fmt"
	"time"

	extractx "github.com/bellavista/concierge/agent/extract"
)

// Slot names in the fixed order the orchestrator asks for them. One
// clarifying question per turn, always targeting the first missing entry.
const (
	SlotName      = "name"
	SlotPartySize = "party_size"
	SlotDate      = "date"
	SlotTime      = "time"
)

var RequiredSlots = []string{SlotName, SlotPartySize, SlotDate, SlotTime}

// Draft is the mutable working set of an in-progress reservation.
// Date and Time hold the guest's literal wording, not normalized values.
type Draft struct {
	Name      string `json:"name,omitempty"`
	PartySize int    `json:"party_size,omitempty"`
	Date      string `json:"date,omitempty"`
	Time      string `json:"time,omitempty"`
}

// Complete reports whether every required slot is filled. Completeness is
// the sole trigger for finalization.
func (d *Draft) Complete() bool {
	return d != nil && len(d.Missing()) == 0
}

// Missing returns the unfilled required slots in fixed order.
func (d *Draft) Missing() []string {
	if d == nil {
		return append([]string(nil), RequiredSlots...)
	}
	var missing []string
	if d.Name == "" {
		missing = append(missing, SlotName)
	}
	if d.PartySize == 0 {
		missing = append(missing, SlotPartySize)
	}
	if d.Date == "" {
		missing = append(missing, SlotDate)
	}
	if d.Time == "" {
		missing = append(missing, SlotTime)
	}
	return missing
}

// Merge folds newly extracted slots into the draft. New non-empty values
// overwrite old ones; absent slots leave the draft untouched.
func (d *Draft) Merge(s extractx.Slots) {
	if d == nil {
		return
	}
	if s.Name != "" {
		d.Name = s.Name
	}
	if s.PartySize != 0 {
		d.PartySize = s.PartySize
	}
	if s.Date != "" {
		d.Date = s.Date
	}
	if s.Time != "" {
		d.Time = s.Time
	}
}

// Turn is one inbound/outbound exchange.
type Turn struct {
	Inbound  string    `json:"inbound"`
	Outbound string    `json:"outbound"`
	At       time.Time `json:"at"`
}

// Session is the per-caller source of truth. It is created lazily on a
// caller's first message and never deleted: history is append-only and a
// completed booking only clears the draft.
type Session struct {
	CallerID   string    `json:"caller_id"`
	Turns      []Turn    `json:"turns,omitempty"`
	Draft      *Draft    `json:"draft,omitempty"`
	LastIntent string    `json:"last_intent,omitempty"`
	Version    int       `json:"version"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewSession(callerID string, now time.Time) *Session {
	return &Session{
		CallerID:  callerID,
		Version:   1,
		UpdatedAt: now.UTC(),
	}
}

func (s *Session) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// EnsureDraft returns the current draft, creating an empty one if needed.
func (s *Session) EnsureDraft() *Draft {
	if s.Draft == nil {
		s.Draft = &Draft{}
	}
	return s.Draft
}

// ClearDraft drops the working set after finalization. The session itself
// stays for future turns.
func (s *Session) ClearDraft() {
	s.Draft = nil
}

func (s *Session) AppendTurn(inbound, outbound string, now time.Time) {
	s.Turns = append(s.Turns, Turn{
		Inbound:  inbound,
		Outbound: outbound,
		At:       now.UTC(),
	})
}

func (s *Session) Validate() error {
	if s == nil {
		return fmt.Errorf("nil session")
	}
	if s.CallerID == "" {
		return fmt.Errorf("session caller id is empty")
	}
	if s.Draft != nil && s.Draft.PartySize < 0 {
		return fmt.Errorf("draft party size is negative")
	}
	return nil
}
