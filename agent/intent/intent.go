// Package intent labels one inbound message with a conversation goal.
// Classification is keyword-based by design; the engine promises
// reproducible routing, not semantic understanding.
package intent

import (
	"strings"

	contractx "github.com/bellavista/concierge/agent/contract"
	statex "github.com/bellavista/concierge/agent/state"
)

// Keyword families in fixed priority order. First family with a hit wins;
// no hit falls through to general chat.
var families = []struct {
	intent   contractx.Intent
	keywords []string
}{
	{contractx.IntentBooking, []string{"book", "reserve", "table", "reservation"}},
	{contractx.IntentMenuInquiry, []string{"menu", "food", "dish", "price", "vegan", "vegetarian", "cost", "allergen", "spicy"}},
	{contractx.IntentHoursInquiry, []string{"hours", "open", "close"}},
	{contractx.IntentLocationInquiry, []string{"location", "address", "where"}},
}

// Classify labels the message. An incomplete draft pins the intent to
// booking no matter what the message says: continuation of a half-filled
// reservation takes priority over reclassification.
func Classify(message string, draft *statex.Draft) contractx.Intent {
	if draft != nil && !draft.Complete() {
		return contractx.IntentBooking
	}

	lowered := strings.ToLower(message)
	for _, f := range families {
		for _, kw := range f.keywords {
			if strings.Contains(lowered, kw) {
				return f.intent
			}
		}
	}
	return contractx.IntentGeneralChat
}
