package service

import (
	"context"

	"github.com/ceh-soft/contract-api/internal/auth"
	"github.com/google/uuid"
)

// ctxUserID pulls the authenticated user's id off the context, when present
func ctxUserID(ctx context.Context) (uuid.UUID, bool) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return userCtx.UserID, true
}
