package orchestratornode

import (
	"context"
	"fmt"
	"time"

	contractx "github.com/tanpawarit/chatfood/agent/contract"
	statex "github.com/tanpawarit/chatfood/agent/state"
)

func ValidateAndSaveSession(ctx context.Context, store statex.Store, sess *statex.Session, now time.Time) error {
	if sess == nil {
		return fmt.Errorf("%w: session is nil", contractx.ErrValidation)
	}

	sess.Touch(now)
	if err := sess.Validate(); err != nil {
		return fmt.Errorf("state validation failed: %w", err)
	}
	if err := store.Save(ctx, sess); err != nil {
		return fmt.Errorf("save session=%s: %w", sess.ID, err)
	}
	return nil
}
