package orchestratornode

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	bookingx "github.com/bellavista/concierge/agent/booking"
	contractx "github.com/bellavista/concierge/agent/contract"
	statex "github.com/bellavista/concierge/agent/state"
)

const bookingTroubleReply = "Sorry, I had trouble creating the booking. Please try again."

// HandleBooking merges freshly extracted slots into the draft and either
// asks for the first missing slot or finalizes. One question per turn;
// finalization is attempted only when nothing is missing.
func HandleBooking(ctx context.Context, in *GraphState, finalizer *bookingx.Finalizer) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	draft := in.Session.EnsureDraft()
	draft.Merge(in.Slots)

	missing := draft.Missing()
	if len(missing) > 0 {
		in.Reply = questionForSlot(missing[0])
		return in, nil
	}

	confirmed, err := finalizer.Finalize(ctx, in.CallerID, draft, in.Now)
	switch {
	case err == nil:
		in.Session.ClearDraft()
		in.Confirmed = confirmed
		in.Reply = fmt.Sprintf(
			"Perfect! Booking confirmed! Reference: %s. Table for %d people on %s at %s under %s.",
			confirmed.Reference, confirmed.PartySize, confirmed.Date, confirmed.Time, confirmed.Name,
		)
	case errors.Is(err, contractx.ErrCapacityExceeded):
		// Rejection, not a system error. The draft stays so the guest can
		// adjust the party size.
		in.Reply = fmt.Sprintf(
			"I'm so sorry, we can seat at most %d guests per reservation. Could you try a smaller party size?",
			finalizer.MaxPartySize(),
		)
	default:
		log.Error().Err(err).Str("caller_id", in.CallerID).Msg("booking finalize failed")
		in.Reply = bookingTroubleReply
	}
	return in, nil
}

func questionForSlot(slot string) string {
	switch slot {
	case statex.SlotName:
		return "Great! Just need a name for the reservation."
	case statex.SlotPartySize:
		return "How many people will be dining with us?"
	case statex.SlotDate:
		return "What date would you prefer?"
	case statex.SlotTime:
		return "What time works best for you?"
	default:
		return "Let me help you with that booking."
	}
}
