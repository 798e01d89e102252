package orchestratornode

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/bellavista/concierge/agent/contract"
)

// Offered when a chat message hints at a reservation: the guest can reply
// free-form or copy the template, which the extractor's template mode
// parses verbatim.
const bookingOfferReply = `I'd be happy to help you make a reservation! You can either tell me your details naturally, or copy this quick format and fill it in:

Name: [your name]
Party size: [number of people]
Date: [date you prefer]
Time: [time you prefer]`

var reservationHintKeywords = []string{"reservation", "book", "table"}

// GeneralChat either offers the booking template or hands the message to
// the generation collaborator with a persona-constrained prompt.
func GeneralChat(
	ctx context.Context,
	in *GraphState,
	completer contractx.Completer,
	facts contractx.RestaurantFacts,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	lowered := strings.ToLower(in.Text)
	for _, kw := range reservationHintKeywords {
		if strings.Contains(lowered, kw) {
			in.Reply = bookingOfferReply
			return in, nil
		}
	}

	reply, err := completer.Complete(ctx, buildChatPrompt(facts, in.Text))
	if err != nil {
		log.Warn().Err(err).Str("caller_id", in.CallerID).Msg("chat generation failed")
		in.Reply = fmt.Sprintf(
			"Hi! I'm here to help with any questions about %s. Would you like to make a reservation?",
			facts.Name,
		)
		return in, nil
	}

	in.Reply = reply
	return in, nil
}

func buildChatPrompt(facts contractx.RestaurantFacts, message string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Your name is %s and you work at %s (%s).\n", facts.PersonaName, facts.Name, facts.Cuisine)
	fmt.Fprintf(&b, "Hours: %s\n", facts.Hours)
	fmt.Fprintf(&b, "Location: %s\n", facts.Location)
	fmt.Fprintf(&b, "Phone: %s\n", facts.Phone)
	fmt.Fprintf(&b, "Specialties: %s\n", facts.Specialties)
	fmt.Fprintf(&b, "\nGuest says: %s", message)
	return b.String()
}
