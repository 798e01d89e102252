package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	bookingx "github.com/bellavista/concierge/agent/booking"
	contractx "github.com/bellavista/concierge/agent/contract"
	nodex "github.com/bellavista/concierge/agent/nodes"
	promptx "github.com/bellavista/concierge/agent/prompt"
	statex "github.com/bellavista/concierge/agent/state"
)

type fakeStore struct {
	sessions map[string]*statex.Session
	loadErr  error
	saveErr  error
	saves    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: map[string]*statex.Session{}}
}

func (f *fakeStore) Load(ctx context.Context, callerID string) (*statex.Session, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	s, ok := f.sessions[callerID]
	if !ok {
		return nil, statex.ErrStateNotFound
	}
	return cloneSession(s), nil
}

func (f *fakeStore) Save(ctx context.Context, s *statex.Session) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.sessions[s.CallerID] = cloneSession(s)
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, callerID string) error {
	delete(f.sessions, callerID)
	return nil
}

func cloneSession(s *statex.Session) *statex.Session {
	raw, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}
	var out statex.Session
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(err)
	}
	return &out
}

type fakeBookingStore struct {
	nextID   int64
	err      error
	appended []contractx.ConfirmedBooking
}

func (f *fakeBookingStore) Append(ctx context.Context, b *contractx.ConfirmedBooking) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.nextID++
	stored := *b
	stored.ID = f.nextID
	stored.Reference = contractx.BookingReference("BV", f.nextID)
	f.appended = append(f.appended, stored)
	return f.nextID, nil
}

func (f *fakeBookingStore) List(ctx context.Context, filter contractx.BookingFilter) ([]contractx.ConfirmedBooking, error) {
	return append([]contractx.ConfirmedBooking(nil), f.appended...), nil
}

type fakeCompleter struct {
	reply   string
	err     error
	calls   int
	prompts []string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeRetriever struct {
	passages []string
	err      error
	calls    int
}

func (f *fakeRetriever) Query(ctx context.Context, question string, k int) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]string(nil), f.passages...), nil
}

type fakeConvLog struct {
	err     error
	entries []contractx.ConversationEntry
}

func (f *fakeConvLog) Append(ctx context.Context, callerID, inbound, outbound string, at time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, contractx.ConversationEntry{
		CallerID: callerID,
		Inbound:  inbound,
		Outbound: outbound,
		At:       at,
	})
	return nil
}

func (f *fakeConvLog) Recent(ctx context.Context, limit int) ([]contractx.ConversationEntry, error) {
	return append([]contractx.ConversationEntry(nil), f.entries...), nil
}

type testDeps struct {
	store     *fakeStore
	bookings  *fakeBookingStore
	completer *fakeCompleter
	retriever *fakeRetriever
	convlog   *fakeConvLog
	facts     contractx.RestaurantFacts
}

func newTestDeps() *testDeps {
	return &testDeps{
		store:     newFakeStore(),
		bookings:  &fakeBookingStore{},
		completer: &fakeCompleter{reply: "generated reply"},
		retriever: &fakeRetriever{},
		convlog:   &fakeConvLog{},
		facts: contractx.RestaurantFacts{
			Name:        "Bella Vista Restaurant",
			Cuisine:     "Italian",
			Hours:       "Mon-Thu 11:30AM-10PM",
			Location:    "15 Rue de la Paix",
			Phone:       "+352 12 34 56 78",
			Specialties: "Homemade pasta",
			PersonaName: "Maria",
		},
	}
}

func newTestOrchestrator(t *testing.T, deps *testDeps) *Orchestrator {
	t.Helper()

	finalizer, err := bookingx.NewFinalizer(deps.bookings, bookingx.Config{MaxPartySize: 12, ReferencePrefix: "BV"})
	if err != nil {
		t.Fatalf("NewFinalizer() error = %v", err)
	}

	o, err := New(context.Background(), Components{
		Store:     deps.store,
		Finalizer: finalizer,
		Retriever: deps.retriever,
		Completer: deps.completer,
		ConvLog:   deps.convlog,
		Facts:     deps.facts,
		Prompts:   promptx.PromptSet{Persona: "persona", MenuAnswer: "answer from excerpts"},
		Now: func() time.Time {
			return time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return o
}

func TestHandleMessageInvalidInput(t *testing.T) {
	t.Parallel()

	o := newTestOrchestrator(t, newTestDeps())

	_, err := o.HandleMessage(context.Background(), "   ", "hello")
	if !errors.Is(err, nodex.ErrInvalidCaller) {
		t.Fatalf("expected ErrInvalidCaller, got %v", err)
	}

	_, err = o.HandleMessage(context.Background(), "+352111", "   ")
	if !errors.Is(err, nodex.ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
}

func TestHandleMessageBookingFlow(t *testing.T) {
	t.Parallel()

	deps := newTestDeps()
	o := newTestOrchestrator(t, deps)
	ctx := context.Background()
	const caller = "+352111"

	turns := []struct {
		message string
		want    string
	}{
		{"I need a table for 4", "Great! Just need a name for the reservation."},
		{"John", "What date would you prefer?"},
		{"tomorrow", "What time works best for you?"},
	}
	for _, turn := range turns {
		got, err := o.HandleMessage(ctx, caller, turn.message)
		if err != nil {
			t.Fatalf("HandleMessage(%q) error = %v", turn.message, err)
		}
		if got != turn.want {
			t.Fatalf("HandleMessage(%q) = %q, want %q", turn.message, got, turn.want)
		}
	}

	got, err := o.HandleMessage(ctx, caller, "7pm")
	if err != nil {
		t.Fatalf("HandleMessage(final turn) error = %v", err)
	}
	if !strings.Contains(got, "Booking confirmed") || !strings.Contains(got, "BV001") {
		t.Fatalf("confirmation reply = %q", got)
	}

	if len(deps.bookings.appended) != 1 {
		t.Fatalf("bookings appended = %d, want 1", len(deps.bookings.appended))
	}
	b := deps.bookings.appended[0]
	if b.Name != "john" || b.PartySize != 4 || b.Date != "tomorrow" || b.Time != "7pm" {
		t.Fatalf("unexpected booking: %+v", b)
	}
	if b.Reference != "BV001" {
		t.Fatalf("stored reference = %q, want BV001", b.Reference)
	}

	sess := deps.store.sessions[caller]
	if sess == nil {
		t.Fatal("session was not saved")
	}
	if sess.Draft != nil {
		t.Fatalf("draft survived finalization: %+v", sess.Draft)
	}
	if len(sess.Turns) != 4 {
		t.Fatalf("session turns = %d, want 4", len(sess.Turns))
	}
	if len(deps.convlog.entries) != 4 {
		t.Fatalf("conversation log entries = %d, want 4", len(deps.convlog.entries))
	}
	if deps.completer.calls != 0 {
		t.Fatalf("completer called %d times during slot filling", deps.completer.calls)
	}
}

func TestHandleMessageAsksFirstMissingSlotInOrder(t *testing.T) {
	t.Parallel()

	deps := newTestDeps()
	sess := statex.NewSession("+352111", time.Now())
	sess.Draft = &statex.Draft{PartySize: 4}
	deps.store.sessions["+352111"] = sess

	o := newTestOrchestrator(t, deps)
	got, err := o.HandleMessage(context.Background(), "+352111", "please continue my reservation")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if got != "Great! Just need a name for the reservation." {
		t.Fatalf("HandleMessage() = %q, want the name question first", got)
	}
}

func TestHandleMessageCapacityRejectionKeepsDraft(t *testing.T) {
	t.Parallel()

	deps := newTestDeps()
	// Party size is the only missing slot, so this turn is pinned to the
	// booking intent and completes the draft.
	sess := statex.NewSession("+352111", time.Now())
	sess.Draft = &statex.Draft{Name: "john", Date: "friday", Time: "7pm"}
	deps.store.sessions["+352111"] = sess

	o := newTestOrchestrator(t, deps)
	got, err := o.HandleMessage(context.Background(), "+352111", "party of 20 please")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if !strings.Contains(got, "12") {
		t.Fatalf("rejection reply = %q, want the capacity limit named", got)
	}
	if len(deps.bookings.appended) != 0 {
		t.Fatal("oversized booking was persisted")
	}

	saved := deps.store.sessions["+352111"]
	if saved.Draft == nil || saved.Draft.PartySize != 20 {
		t.Fatalf("draft after rejection = %+v, want party size 20 kept", saved.Draft)
	}
}

func TestHandleMessageMenuInquiry(t *testing.T) {
	t.Parallel()

	deps := newTestDeps()
	deps.retriever.passages = []string{"Carbonara 18 EUR", "Margherita 14 EUR"}
	deps.completer.reply = "We have carbonara for 18 EUR."

	o := newTestOrchestrator(t, deps)
	got, err := o.HandleMessage(context.Background(), "+352111", "what pasta is on the menu")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if got != "We have carbonara for 18 EUR." {
		t.Fatalf("HandleMessage() = %q", got)
	}
	if deps.retriever.calls != 1 {
		t.Fatalf("retriever calls = %d, want 1", deps.retriever.calls)
	}
	if len(deps.completer.prompts) != 1 || !strings.Contains(deps.completer.prompts[0], "Carbonara 18 EUR") {
		t.Fatalf("completer prompt missing passages: %v", deps.completer.prompts)
	}
}

func TestHandleMessageMenuFallbackWhenRetrievalFails(t *testing.T) {
	t.Parallel()

	deps := newTestDeps()
	deps.retriever.err = errors.New("index offline")

	o := newTestOrchestrator(t, deps)
	got, err := o.HandleMessage(context.Background(), "+352111", "what's on the menu")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if !strings.Contains(got, "Homemade pasta") || !strings.Contains(got, "+352 12 34 56 78") {
		t.Fatalf("fallback reply = %q", got)
	}
	if deps.completer.calls != 0 {
		t.Fatal("completer called despite retrieval failure")
	}
}

func TestHandleMessageHoursAndLocation(t *testing.T) {
	t.Parallel()

	deps := newTestDeps()
	o := newTestOrchestrator(t, deps)
	ctx := context.Background()

	got, err := o.HandleMessage(ctx, "+352111", "what are your hours")
	if err != nil {
		t.Fatalf("HandleMessage(hours) error = %v", err)
	}
	if !strings.Contains(got, deps.facts.Hours) {
		t.Fatalf("hours reply = %q", got)
	}

	got, err = o.HandleMessage(ctx, "+352111", "what's your address")
	if err != nil {
		t.Fatalf("HandleMessage(location) error = %v", err)
	}
	if !strings.Contains(got, deps.facts.Location) {
		t.Fatalf("location reply = %q", got)
	}

	if deps.completer.calls != 0 {
		t.Fatalf("completer calls = %d for canned info replies", deps.completer.calls)
	}
}

func TestHandleMessageGeneralChatFallsBackOnGenerationFailure(t *testing.T) {
	t.Parallel()

	deps := newTestDeps()
	deps.completer.err = errors.New("model timeout")

	o := newTestOrchestrator(t, deps)
	got, err := o.HandleMessage(context.Background(), "+352111", "hello")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if !strings.Contains(got, deps.facts.Name) {
		t.Fatalf("chat fallback reply = %q", got)
	}
}

func TestHandleMessageSaveFailureReturnsGenericReply(t *testing.T) {
	t.Parallel()

	deps := newTestDeps()
	deps.store.saveErr = errors.New("redis down")

	o := newTestOrchestrator(t, deps)
	got, err := o.HandleMessage(context.Background(), "+352111", "hello")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if !strings.Contains(got, deps.facts.Phone) {
		t.Fatalf("failure reply = %q, want the phone number", got)
	}
	if strings.Contains(got, "generated reply") {
		t.Fatal("turn claimed success although the session save failed")
	}
}

func TestHandleMessageConversationLogFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	deps := newTestDeps()
	deps.convlog.err = errors.New("postgres down")

	o := newTestOrchestrator(t, deps)
	got, err := o.HandleMessage(context.Background(), "+352111", "hello")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if got != "generated reply" {
		t.Fatalf("HandleMessage() = %q, logging failure leaked into the reply", got)
	}
	if deps.store.saves != 1 {
		t.Fatalf("session saves = %d, want 1", deps.store.saves)
	}
}
