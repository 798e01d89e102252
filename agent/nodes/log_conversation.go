package orchestratornode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/bellavista/concierge/agent/contract"
)

// LogConversation appends the exchange to the conversation log. The log
// is non-critical: failures are recorded and swallowed so reporting
// hiccups never break a turn.
func LogConversation(ctx context.Context, in *GraphState, convlog contractx.ConversationLog) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	if err := convlog.Append(ctx, in.CallerID, in.Text, in.Reply, in.Now); err != nil {
		log.Warn().Err(err).Str("caller_id", in.CallerID).Msg("conversation log append failed")
	}
	return in, nil
}
