package orchestratornode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/bellavista/concierge/agent/contract"
	extractx "github.com/bellavista/concierge/agent/extract"
	statex "github.com/bellavista/concierge/agent/state"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidCaller  = errors.New("caller id is empty")
)

type GraphInput struct {
	CallerID string
	Text     string
}

type GraphOutput struct {
	Reply string
}

// GraphState is threaded through every node of one turn. Each turn starts
// fresh; continuity lives entirely in the persisted session.
type GraphState struct {
	CallerID string
	Text     string
	Now      time.Time

	Session *statex.Session
	Slots   extractx.Slots
	Intent  contractx.Intent

	Reply     string
	Confirmed *contractx.ConfirmedBooking
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	callerID := strings.TrimSpace(in.CallerID)
	if callerID == "" {
		return nil, ErrInvalidCaller
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		CallerID: callerID,
		Text:     text,
		Now:      nowFn().UTC(),
	}, nil
}
