package orchestratornode

import (
	"fmt"

	contractx "github.com/bellavista/concierge/agent/contract"
)

// ProvideInfo emits a canned answer parameterized by the restaurant facts.
func ProvideInfo(in *GraphState, facts contractx.RestaurantFacts) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	switch in.Intent {
	case contractx.IntentHoursInquiry:
		in.Reply = fmt.Sprintf("We're open %s. Would you like to book a table?", facts.Hours)
	case contractx.IntentLocationInquiry:
		in.Reply = fmt.Sprintf("You can find us at %s. Need a reservation?", facts.Location)
	default:
		in.Reply = fmt.Sprintf("I'm here to help with any questions about %s!", facts.Name)
	}
	return in, nil
}
