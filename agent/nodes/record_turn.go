package orchestratornode

import (
	"fmt"
	"strings"

	contractx "github.com/bellavista/concierge/agent/contract"
)

// RecordTurn appends the exchange to the session history.
func RecordTurn(in *GraphState) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}
	if strings.TrimSpace(in.Reply) == "" {
		return nil, fmt.Errorf("%w: handler produced no reply", contractx.ErrValidation)
	}

	in.Session.AppendTurn(in.Text, in.Reply, in.Now)
	in.Session.LastIntent = string(in.Intent)
	return in, nil
}
