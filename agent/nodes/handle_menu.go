package orchestratornode

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/bellavista/concierge/agent/contract"
	menux "github.com/bellavista/concierge/agent/menu"
	promptx "github.com/bellavista/concierge/agent/prompt"
)

const menuTopK = 3

// HandleMenu answers a menu question grounded in retrieved passages.
// Retrieval or generation failures degrade to a fixed reply; the guest
// never sees a raw error.
func HandleMenu(
	ctx context.Context,
	in *GraphState,
	retriever contractx.Retriever,
	completer contractx.Completer,
	prompts promptx.PromptSet,
	facts contractx.RestaurantFacts,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	passages, err := retriever.Query(ctx, in.Text, menuTopK)
	if err != nil {
		log.Warn().Err(err).Str("caller_id", in.CallerID).Msg("menu retrieval failed")
		in.Reply = menuUnavailableReply(facts)
		return in, nil
	}
	if len(passages) == 0 || (len(passages) == 1 && passages[0] == menux.NotAvailableNotice) {
		in.Reply = menuUnavailableReply(facts)
		return in, nil
	}

	reply, err := completer.Complete(ctx, buildMenuPrompt(prompts.MenuAnswer, passages, in.Text))
	if err != nil {
		log.Warn().Err(err).Str("caller_id", in.CallerID).Msg("menu answer generation failed")
		in.Reply = menuUnavailableReply(facts)
		return in, nil
	}

	in.Reply = reply
	return in, nil
}

func buildMenuPrompt(instructions string, passages []string, question string) string {
	var b strings.Builder
	b.WriteString(instructions)
	b.WriteString("\n\nMenu excerpts:\n")
	for i, p := range passages {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, p)
	}
	b.WriteString("\nGuest asks: ")
	b.WriteString(question)
	return b.String()
}

func menuUnavailableReply(facts contractx.RestaurantFacts) string {
	return fmt.Sprintf(
		"I'm sorry, I can't pull up menu details right now. Our specialties include %s - or give us a call at %s!",
		facts.Specialties, facts.Phone,
	)
}
