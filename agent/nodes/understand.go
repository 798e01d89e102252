package orchestratornode

import (
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/bellavista/concierge/agent/contract"
	extractx "github.com/bellavista/concierge/agent/extract"
	intentx "github.com/bellavista/concierge/agent/intent"
)

// ExtractEntities runs the deterministic extractor. A miss is not an
// error; the slot set is simply left partial.
func ExtractEntities(in *GraphState) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	in.Slots = extractx.Extract(in.Text)
	return in, nil
}

// ClassifyIntent labels the turn, honoring the draft-continuation rule.
func ClassifyIntent(in *GraphState) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	in.Intent = intentx.Classify(in.Text, in.Session.Draft)
	log.Debug().
		Str("caller_id", in.CallerID).
		Str("intent", string(in.Intent)).
		Bool("has_draft", in.Session.Draft != nil).
		Msg("intent classified")
	return in, nil
}
