package intent

import (
	"testing"

	contractx "github.com/bellavista/concierge/agent/contract"
	statex "github.com/bellavista/concierge/agent/state"
)

func TestClassifyKeywordFamilies(t *testing.T) {
	t.Parallel()

	cases := []struct {
		message string
		want    contractx.Intent
	}{
		{"I want to book a table", contractx.IntentBooking},
		{"can I make a reservation", contractx.IntentBooking},
		{"what's on the menu", contractx.IntentMenuInquiry},
		{"do you have vegan food", contractx.IntentMenuInquiry},
		{"when do you open", contractx.IntentHoursInquiry},
		{"what are your hours", contractx.IntentHoursInquiry},
		{"what's your address", contractx.IntentLocationInquiry},
		{"hello there", contractx.IntentGeneralChat},
	}
	for _, tc := range cases {
		got := Classify(tc.message, nil)
		if got != tc.want {
			t.Fatalf("Classify(%q) = %q, want %q", tc.message, got, tc.want)
		}
	}
}

func TestClassifyBookingOutranksMenu(t *testing.T) {
	t.Parallel()

	got := Classify("book a table and tell me about the menu", nil)
	if got != contractx.IntentBooking {
		t.Fatalf("Classify() = %q, want %q", got, contractx.IntentBooking)
	}
}

func TestClassifyIncompleteDraftPinsBooking(t *testing.T) {
	t.Parallel()

	draft := &statex.Draft{PartySize: 4}
	for _, message := range []string{"what's on the menu", "where are you", "tomorrow"} {
		got := Classify(message, draft)
		if got != contractx.IntentBooking {
			t.Fatalf("Classify(%q) with incomplete draft = %q, want %q", message, got, contractx.IntentBooking)
		}
	}
}

func TestClassifyCompleteDraftResumesKeywords(t *testing.T) {
	t.Parallel()

	draft := &statex.Draft{Name: "john", PartySize: 4, Date: "tomorrow", Time: "7pm"}
	got := Classify("what's on the menu", draft)
	if got != contractx.IntentMenuInquiry {
		t.Fatalf("Classify() with complete draft = %q, want %q", got, contractx.IntentMenuInquiry)
	}
}
