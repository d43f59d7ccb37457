package orchestratornode

import (
	"context"
	"errors"
	"fmt"
	"time"

	statex "github.com/tanpawarit/chatfood/agent/state"
)

// LoadOrCreateSession returns the stored session, or a fresh one when the id
// is unknown.
func LoadOrCreateSession(ctx context.Context, store statex.Store, sessionID string, now time.Time) (*statex.Session, error) {
	sess, err := store.Load(ctx, sessionID)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, statex.ErrStateNotFound) {
		return nil, fmt.Errorf("load session=%s: %w", sessionID, err)
	}
	return statex.NewSession(sessionID, now), nil
}
