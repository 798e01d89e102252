package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/bellavista/concierge/agent/contract"
	statex "github.com/bellavista/concierge/agent/state"
)

// SaveState writes the updated session back. A failure here propagates:
// claiming success for a turn whose state was lost would silently drop
// slot updates.
func SaveState(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	in.Session.Touch(in.Now)
	if err := in.Session.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrValidation, err)
	}
	if err := store.Save(ctx, in.Session); err != nil {
		return nil, fmt.Errorf("%w: save session: %v", contractx.ErrPersistence, err)
	}

	return in, nil
}
