package orchestratornode

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/bellavista/concierge/agent/contract"
	statex "github.com/bellavista/concierge/agent/state"
)

func LoadOrCreateState(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	sess, err := store.Load(ctx, in.CallerID)
	if err != nil {
		if !errors.Is(err, statex.ErrStateNotFound) {
			return nil, fmt.Errorf("%w: load session: %v", contractx.ErrPersistence, err)
		}
		sess = statex.NewSession(in.CallerID, in.Now)
	}

	in.Session = sess
	return in, nil
}
