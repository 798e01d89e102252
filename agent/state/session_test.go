package state

import (
	"testing"
	"time"

	extractx "github.com/bellavista/concierge/agent/extract"
)

func TestDraftMissingOrder(t *testing.T) {
	t.Parallel()

	d := &Draft{PartySize: 4}
	got := d.Missing()
	want := []string{SlotName, SlotDate, SlotTime}
	if len(got) != len(want) {
		t.Fatalf("Missing() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Missing()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDraftMergeOverwritesOnlyPresentSlots(t *testing.T) {
	t.Parallel()

	d := &Draft{Name: "john", PartySize: 2}
	d.Merge(extractx.Slots{PartySize: 6, Date: "tomorrow"})

	if d.Name != "john" {
		t.Fatalf("Merge() clobbered name: %q", d.Name)
	}
	if d.PartySize != 6 {
		t.Fatalf("Merge() party size = %d, want 6", d.PartySize)
	}
	if d.Date != "tomorrow" {
		t.Fatalf("Merge() date = %q, want tomorrow", d.Date)
	}
	if d.Time != "" {
		t.Fatalf("Merge() time = %q, want empty", d.Time)
	}
}

func TestDraftComplete(t *testing.T) {
	t.Parallel()

	d := &Draft{Name: "john", PartySize: 4, Date: "friday", Time: "7pm"}
	if !d.Complete() {
		t.Fatal("Complete() = false for a full draft")
	}
	d.Time = ""
	if d.Complete() {
		t.Fatal("Complete() = true with time missing")
	}

	var nilDraft *Draft
	if nilDraft.Complete() {
		t.Fatal("Complete() = true for nil draft")
	}
}

func TestSessionDraftLifecycle(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	s := NewSession("+352111", now)

	if s.Draft != nil {
		t.Fatal("new session should have no draft")
	}
	d := s.EnsureDraft()
	if d == nil || s.Draft != d {
		t.Fatal("EnsureDraft() did not attach a draft")
	}
	if again := s.EnsureDraft(); again != d {
		t.Fatal("EnsureDraft() replaced an existing draft")
	}

	s.AppendTurn("hi", "hello", now)
	s.ClearDraft()
	if s.Draft != nil {
		t.Fatal("ClearDraft() left a draft behind")
	}
	if len(s.Turns) != 1 {
		t.Fatalf("ClearDraft() touched history: %d turns", len(s.Turns))
	}
}

func TestSessionValidate(t *testing.T) {
	t.Parallel()

	s := NewSession("+352111", time.Now())
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	s.CallerID = ""
	if err := s.Validate(); err == nil {
		t.Fatal("Validate() accepted empty caller id")
	}
}
