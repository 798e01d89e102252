package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	bookingx "github.com/bellavista/concierge/agent/booking"
	contractx "github.com/bellavista/concierge/agent/contract"
	menux "github.com/bellavista/concierge/agent/menu"
	nodex "github.com/bellavista/concierge/agent/nodes"
	promptx "github.com/bellavista/concierge/agent/prompt"
	statex "github.com/bellavista/concierge/agent/state"
)

// Components are the collaborators one orchestrator instance runs on.
// Store and Finalizer are mandatory; Retriever and ConversationLog fall
// back to inert implementations when nil, Completer is mandatory because
// two handlers depend on it.
type Components struct {
	Store     statex.Store
	Finalizer *bookingx.Finalizer
	Retriever contractx.Retriever
	Completer contractx.Completer
	ConvLog   contractx.ConversationLog

	Facts   contractx.RestaurantFacts
	Prompts promptx.PromptSet

	// Now overrides the turn clock, for tests.
	Now func() time.Time
}

// Orchestrator runs one guest message through the turn pipeline. Turns
// for the same caller are serialized; different callers run concurrently.
type Orchestrator struct {
	store     statex.Store
	finalizer *bookingx.Finalizer
	retriever contractx.Retriever
	completer contractx.Completer
	convlog   contractx.ConversationLog

	facts   contractx.RestaurantFacts
	prompts promptx.PromptSet

	runner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]
	locks  sync.Map // caller id -> *sync.Mutex
	now    func() time.Time
}

func New(ctx context.Context, c Components) (*Orchestrator, error) {
	if c.Store == nil {
		return nil, errors.New("orchestrator: session store is required")
	}
	if c.Finalizer == nil {
		return nil, errors.New("orchestrator: booking finalizer is required")
	}
	if c.Completer == nil {
		return nil, errors.New("orchestrator: completer is required")
	}
	if c.Retriever == nil {
		c.Retriever = noopRetriever{}
	}
	if c.ConvLog == nil {
		c.ConvLog = noopConversationLog{}
	}
	if c.Now == nil {
		c.Now = time.Now
	}

	o := &Orchestrator{
		store:     c.Store,
		finalizer: c.Finalizer,
		retriever: c.Retriever,
		completer: c.Completer,
		convlog:   c.ConvLog,
		facts:     c.Facts,
		prompts:   c.Prompts,
		now:       c.Now,
	}

	runner, err := o.compileTurnGraph(ctx)
	if err != nil {
		return nil, err
	}
	o.runner = runner
	return o, nil
}

// HandleMessage processes one inbound message and returns the reply to
// send back. Caller or message validation problems are returned as
// errors for the transport to map; internal failures degrade to a fixed
// in-character reply so the guest always hears something.
func (o *Orchestrator) HandleMessage(ctx context.Context, callerID, text string) (string, error) {
	mu := o.callerLock(callerID)
	mu.Lock()
	defer mu.Unlock()

	out, err := o.runner.Invoke(ctx, nodex.GraphInput{CallerID: callerID, Text: text})
	if err != nil {
		if errors.Is(err, nodex.ErrInvalidCaller) || errors.Is(err, nodex.ErrInvalidMessage) {
			return "", err
		}
		log.Error().Err(err).Str("caller_id", callerID).Msg("turn failed")
		return o.failureReply(), nil
	}
	return out.Reply, nil
}

func (o *Orchestrator) callerLock(callerID string) *sync.Mutex {
	v, _ := o.locks.LoadOrStore(callerID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (o *Orchestrator) failureReply() string {
	return fmt.Sprintf(
		"Sorry, something went wrong on our side. Please try again in a moment, or call us at %s.",
		o.facts.Phone,
	)
}

type noopRetriever struct{}

func (noopRetriever) Query(context.Context, string, int) ([]string, error) {
	return []string{menux.NotAvailableNotice}, nil
}

type noopConversationLog struct{}

func (noopConversationLog) Append(context.Context, string, string, string, time.Time) error {
	return nil
}

func (noopConversationLog) Recent(context.Context, int) ([]contractx.ConversationEntry, error) {
	return nil, nil
}
